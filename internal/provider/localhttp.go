package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"marginalia/pkg/types"
)

// localHTTPTimeout bounds one generation against the local inference server.
// Local models can be slow; this is a safety net, not an SLA.
const localHTTPTimeout = 5 * time.Minute

// HTTPProvider talks to a local Ollama-compatible inference server.
type HTTPProvider struct {
	client *api.Client
	model  string
}

// NewHTTPProvider builds the local-HTTP provider. An empty baseURL falls back
// to the Ollama default.
func NewHTTPProvider(baseURL, model string) *HTTPProvider {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		u, _ = url.Parse("http://localhost:11434")
	}
	return &HTTPProvider{
		client: api.NewClient(u, &http.Client{Timeout: localHTTPTimeout}),
		model:  model,
	}
}

func (p *HTTPProvider) Name() string { return LocalHTTP }

func (p *HTTPProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, cfg types.LLMConfig) (string, error) {
	stream := false
	req := &api.GenerateRequest{
		Model:  p.model,
		Prompt: userPrompt,
		System: systemPrompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": cfg.Temperature,
		},
	}
	if cfg.MaxTokens > 0 {
		req.Options["num_predict"] = cfg.MaxTokens
	}
	if cfg.ContextSize > 0 {
		req.Options["num_ctx"] = cfg.ContextSize
	}

	var b strings.Builder
	err := p.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		b.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// CheckConnection pings the server. The caller supplies the deadline.
func (p *HTTPProvider) CheckConnection(ctx context.Context) error {
	return p.client.Heartbeat(ctx)
}
