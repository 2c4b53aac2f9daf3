//go:build llama

package runtime

import (
	"context"
	"errors"
	"fmt"
	"strings"

	llama "github.com/go-skynet/go-llama.cpp"
	"github.com/rs/zerolog"
)

// llamaBuilt indicates this binary was compiled with real llama support.
var llamaBuilt = true

// llamaRuntime loads models in-process via go-llama.cpp.
type llamaRuntime struct {
	ctxSize int
	batch   int
	threads int
	log     zerolog.Logger
}

// NewRuntime constructs the in-process llama.cpp runtime. ctxSize and batch
// bound the context window at load time; go-llama.cpp fixes both when the
// weights are mapped, so per-call context requests are clamped to them.
func NewRuntime(ctxSize, batch, threads int, log zerolog.Logger) Runtime {
	return &llamaRuntime{ctxSize: ctxSize, batch: batch, threads: threads, log: log}
}

func (r *llamaRuntime) Load(path string, gpuLayers int) (Handle, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("model path is empty")
	}
	opts := []llama.ModelOption{
		llama.SetContext(r.ctxSize),
		llama.SetNBatch(r.batch),
	}
	if gpuLayers > 0 {
		opts = append(opts, llama.SetGPULayers(gpuLayers))
	}
	m, err := llama.New(path, opts...)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	r.log.Info().Str("path", path).Int("gpu_layers", gpuLayers).Msg("model loaded")
	return &llamaHandle{model: m, threads: r.threads, log: r.log}, nil
}

// llamaHandle owns the mapped weights.
type llamaHandle struct {
	model   *llama.LLama
	threads int
	log     zerolog.Logger
}

func (h *llamaHandle) NewContext(contextSize, batchSize int) (GenerationContext, error) {
	if h.model == nil {
		return nil, errors.New("model handle disposed")
	}
	// The window itself was sized at load; each context is still a distinct
	// one-shot session because Predict re-evaluates the prompt from scratch,
	// carrying no state between calls.
	return &llamaContext{handle: h}, nil
}

func (h *llamaHandle) Close() error {
	if h.model != nil {
		h.model.Free()
		h.model = nil
	}
	return nil
}

// llamaContext is a one-shot session over the loaded model.
type llamaContext struct {
	handle *llamaHandle
	closed bool
}

func (c *llamaContext) Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	if c.closed || c.handle == nil || c.handle.model == nil {
		return "", errors.New("generation context disposed")
	}
	m := c.handle.model
	// Cooperative cancellation: stop token emission once ctx is done.
	m.SetTokenCallback(func(tok string) bool {
		select {
		case <-ctx.Done():
			return false
		default:
			return true
		}
	})
	po := []llama.PredictOption{
		llama.SetTokens(maxIntn(1, maxTokens)),
		llama.SetThreads(maxIntn(1, c.handle.threads)),
		llama.SetTemperature(float32(temperature)),
	}
	text, err := m.Predict(buildPrompt(systemPrompt, userPrompt), po...)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	return text, nil
}

func (c *llamaContext) Close() error {
	c.closed = true
	c.handle = nil
	return nil
}

// buildPrompt joins system and user prompts in the chat-ml style the bundled
// instruct model was trained on.
func buildPrompt(system, user string) string {
	var b strings.Builder
	if system != "" {
		b.WriteString("<|im_start|>system\n")
		b.WriteString(system)
		b.WriteString("<|im_end|>\n")
	}
	b.WriteString("<|im_start|>user\n")
	b.WriteString(user)
	b.WriteString("<|im_end|>\n<|im_start|>assistant\n")
	return b.String()
}

func maxIntn(a, b int) int {
	if a > b {
		return a
	}
	return b
}
