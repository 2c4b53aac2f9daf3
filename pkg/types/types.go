package types

// LLMConfig carries the generation parameters for one request. It is
// immutable for the duration of that request; defaults come from the
// service configuration.
type LLMConfig struct {
	ContextSize int     `json:"context_size,omitempty"`
	MaxTokens   int     `json:"max_tokens,omitempty"`
	BatchSize   int     `json:"batch_size,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

// FeedbackItem is one structured feedback entry extracted from raw model
// output. Extraction is best-effort; consumers must tolerate an empty list.
type FeedbackItem struct {
	// Feedback category (e.g., "clarity", "structure", "citation").
	// example: clarity
	Type string `json:"type" example:"clarity"`
	// The feedback text itself.
	// example: This paragraph makes two unrelated claims.
	Text string `json:"text" example:"This paragraph makes two unrelated claims."`
	// Optional concrete rewrite suggestion.
	Suggestion string `json:"suggestion,omitempty"`
}
