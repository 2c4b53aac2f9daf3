// Package runtime wraps the on-device inference engine. It locates the model
// artifact, loads weights with host-appropriate acceleration, and exposes a
// single-completion primitive bound to a fresh generation context per call.
//
// The real llama.cpp backend is compiled with `-tags=llama`; default builds
// get a no-CGO stub that fails fast (no mocked inference in production
// binaries), mirroring how the rest of the project stays CI-friendly.
package runtime

import "context"

// Runtime abstracts the inference engine so the lifecycle manager can be
// exercised against a fake in tests.
type Runtime interface {
	// Load reads model weights from path, offloading gpuLayers layers to
	// accelerated hardware (0 = CPU only).
	Load(path string, gpuLayers int) (Handle, error)
}

// Handle owns one loaded model. It is created by exactly one successful Load
// and must be closed on dispose or on any initialization failure.
type Handle interface {
	// NewContext allocates a fresh generation context. Contexts are never
	// reused: one context serves exactly one prompt/response round-trip.
	NewContext(contextSize, batchSize int) (GenerationContext, error)
	// Close releases the loaded weights. Safe to call on a partially
	// initialized handle; secondary errors are swallowed and logged.
	Close() error
}

// GenerationContext is the ephemeral per-call resource: created for one
// prompt/response round-trip and closed on every exit path. Discarding the
// context after every request keeps independent feedback requests from
// accumulating conversation state in a bounded-sequence engine.
type GenerationContext interface {
	// Generate runs one completion and returns the raw model text.
	Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error)
	// Close releases the context. Must be safe on partially initialized
	// contexts and must never fail the calling request.
	Close() error
}

// Availability is the result of a pre-load artifact check.
type Availability struct {
	Available bool
	Path      string
	Err       error
}
