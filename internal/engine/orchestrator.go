// Package engine runs single feedback generations against the on-device
// runtime and adapts submitted content size to observed latency.
package engine

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"marginalia/internal/lifecycle"
	"marginalia/pkg/types"
)

// Orchestrator performs one inference call per invocation: ensure the
// runtime is ready, run generation in a fresh context, measure latency, and
// normalize the outcome. No hidden retries; fallback is the router's job.
type Orchestrator struct {
	lm      *lifecycle.Manager
	chunker *Chunker
	log     zerolog.Logger
}

// NewOrchestrator wires the orchestrator to its lifecycle manager and
// chunking controller.
func NewOrchestrator(lm *lifecycle.Manager, chunker *Chunker, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{lm: lm, chunker: chunker, log: log}
}

// Result is a successful generation.
type Result struct {
	Response string
	Duration time.Duration
}

// Analyze runs one completion. Exactly one generation context is created and
// disposed per call, on every exit path. Latency feeds the chunking
// controller only when generation succeeds.
func (o *Orchestrator) Analyze(ctx context.Context, systemPrompt, userPrompt string, cfg types.LLMConfig) (Result, error) {
	if err := o.lm.EnsureReady(ctx); err != nil {
		return Result{}, err
	}
	h, err := o.lm.Handle()
	if err != nil {
		return Result{}, err
	}

	gctx, err := h.NewContext(cfg.ContextSize, cfg.BatchSize)
	if err != nil {
		generationsTotal.WithLabelValues("error").Inc()
		return Result{}, ErrGeneration(err)
	}
	defer func() {
		// Dispose must never fail the request.
		if cerr := gctx.Close(); cerr != nil {
			o.log.Warn().Err(cerr).Msg("generation context close error")
		}
	}()

	start := time.Now()
	text, err := gctx.Generate(ctx, systemPrompt, userPrompt, cfg.MaxTokens, cfg.Temperature)
	if err != nil {
		generationsTotal.WithLabelValues("error").Inc()
		if handleUnusable(err) {
			o.lm.Invalidate(err.Error())
		}
		return Result{}, ErrGeneration(err)
	}
	dur := time.Since(start)
	o.chunker.Record(dur)
	generationsTotal.WithLabelValues("ok").Inc()
	generationDuration.Observe(dur.Seconds())
	o.log.Debug().Dur("dur", dur).Int("max_tokens", cfg.MaxTokens).Msg("generation complete")
	return Result{Response: text, Duration: dur}, nil
}

// handleUnusable reports whether a generation error indicates the loaded
// handle itself is broken, in which case the lifecycle is reset so the next
// call re-initializes instead of failing against the same handle.
func handleUnusable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"disposed", "kv cache", "decode", "eval failed"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
