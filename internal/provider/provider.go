// Package provider routes feedback requests to one of three interchangeable
// inference backends and applies the single fallback hop from the on-device
// model to the cloud API.
package provider

import (
	"context"

	"marginalia/pkg/types"
)

// Provider names as they appear in configuration and error tags.
const (
	OnDevice  = "on-device"
	LocalHTTP = "local-http"
	CloudAPI  = "cloud-api"
)

// Provider is one inference backend.
type Provider interface {
	// Name returns the provider identifier used in config and error tags.
	Name() string
	// Complete runs one generation and returns the raw model text.
	Complete(ctx context.Context, systemPrompt, userPrompt string, cfg types.LLMConfig) (string, error)
	// CheckConnection verifies the backend is reachable. Callers bound the
	// wait with ctx; a hung probe must not block status reporting.
	CheckConnection(ctx context.Context) error
}

// Response is the outcome of a routed generation.
type Response struct {
	Text string
	// Provider that actually produced the text (the fallback's name when the
	// fallback hop was taken).
	Provider   string
	DurationMs int64
	Chunked    bool
}
