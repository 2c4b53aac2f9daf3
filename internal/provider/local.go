package provider

import (
	"context"

	"marginalia/internal/engine"
	"marginalia/internal/lifecycle"
	"marginalia/pkg/types"
)

// LocalProvider runs generations against the in-process model via the
// orchestrator. This is the only provider considered unreliable enough to
// warrant automatic fallback: the model file may be missing or hardware
// acceleration may fail, neither of which applies to network backends.
type LocalProvider struct {
	orch *engine.Orchestrator
	lm   *lifecycle.Manager
}

// NewLocalProvider wires the on-device provider.
func NewLocalProvider(orch *engine.Orchestrator, lm *lifecycle.Manager) *LocalProvider {
	return &LocalProvider{orch: orch, lm: lm}
}

func (p *LocalProvider) Name() string { return OnDevice }

func (p *LocalProvider) Complete(ctx context.Context, systemPrompt, userPrompt string, cfg types.LLMConfig) (string, error) {
	res, err := p.orch.Analyze(ctx, systemPrompt, userPrompt, cfg)
	if err != nil {
		return "", err
	}
	return res.Response, nil
}

// CheckConnection reports artifact availability without loading the model.
func (p *LocalProvider) CheckConnection(ctx context.Context) error {
	if av := p.lm.CheckAvailable(); av.Err != nil {
		return av.Err
	}
	return nil
}
