//go:build !llama

package runtime

// This file provides a no-CGO stub for the llama runtime. It is compiled when
// the 'llama' build tag is NOT set, keeping default builds and CI CGO-free.
// The real backend lives in llama.go (tagged 'llama').

import "github.com/rs/zerolog"

// llamaBuilt indicates whether this binary was compiled with real llama support.
var llamaBuilt = false

type stubRuntime struct{}

// NewRuntime returns a runtime that refuses to load without the 'llama'
// build tag. Failing fast here beats mocked inference in production binaries.
func NewRuntime(ctxSize, batch, threads int, log zerolog.Logger) Runtime {
	return stubRuntime{}
}

func (stubRuntime) Load(path string, gpuLayers int) (Handle, error) {
	return nil, ErrDependencyUnavailable("on-device inference not built (missing 'llama' build tag)")
}
