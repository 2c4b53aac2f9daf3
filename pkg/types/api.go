package types

// FeedbackRequest is the payload for POST /feedback.
type FeedbackRequest struct {
	// Required plain-text note content to analyze. Markup extraction happens
	// client-side; the engine never sees editor markup.
	Content string `json:"content"`
	// Optional heading of the section the user is editing. When adaptive
	// chunking is active the submitted content is scoped to this section.
	// example: ## Methods
	Section string `json:"section,omitempty"`
	// Optional per-request overrides for generation parameters.
	Config *LLMConfig `json:"config,omitempty"`
}

// FeedbackResponse is returned by POST /feedback.
type FeedbackResponse struct {
	// Raw model output.
	Response string `json:"response"`
	// Structured items extracted from the response, when parseable.
	Items []FeedbackItem `json:"items,omitempty"`
	// Provider that produced the response (on-device, local-http, cloud-api).
	// example: on-device
	Provider string `json:"provider" example:"on-device"`
	// End-to-end generation latency in milliseconds.
	// example: 1840
	DurationMs int64 `json:"duration_ms" example:"1840"`
	// Whether the submitted content was a section-scoped excerpt.
	Chunked bool `json:"chunked"`
}

// AccelerationStatus describes the hardware offload configuration in use.
type AccelerationStatus struct {
	Enabled bool   `json:"enabled"`
	Type    string `json:"type,omitempty" example:"metal"`
	Layers  int    `json:"layers"`
}

// ChunkingStatus reports the adaptive chunking controller state.
type ChunkingStatus struct {
	Enabled        bool  `json:"enabled"`
	LastResponseMs int64 `json:"last_response_ms"`
	ThresholdMs    int64 `json:"threshold_ms"`
}

// StatusResponse is returned by GET /status and feeds the UI indicator.
type StatusResponse struct {
	// True once the on-device model is loaded and ready.
	Initialized bool `json:"initialized"`
	// True while a load attempt is in flight.
	Initializing bool `json:"initializing"`
	// Last initialization error, if any.
	Error string `json:"error,omitempty"`
	// Configured primary provider.
	// example: on-device
	Provider     string             `json:"provider" example:"on-device"`
	Acceleration AccelerationStatus `json:"acceleration"`
	Chunking     ChunkingStatus     `json:"chunking"`
	// Uptime of the engine in seconds.
	// example: 3600
	UptimeSeconds int64 `json:"uptime_seconds" example:"3600"`
	// Server time in unix seconds.
	ServerTimeUnix int64 `json:"server_time_unix"`
	// Provider connectivity probe results, present when ?probe=1 is set.
	// Keys are provider names; empty string means reachable.
	Probes map[string]string `json:"probes,omitempty"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: model file not found
	Error string `json:"error" example:"model file not found"`
	// HTTP status code.
	// example: 503
	Code int `json:"code" example:"503"`
}
