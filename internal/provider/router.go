package provider

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"marginalia/internal/engine"
	"marginalia/internal/lifecycle"
	"marginalia/pkg/types"
)

// probeTimeout bounds each connectivity check so a hung network call cannot
// block the status endpoint.
const probeTimeout = 3 * time.Second

// defaultSystemPrompt frames the feedback task for whichever model serves it.
const defaultSystemPrompt = "You are a research-writing reviewer. Read the note and return a JSON array " +
	"of feedback items, each an object with \"type\", \"text\" and optional \"suggestion\" fields. " +
	"Focus on clarity, structure and unsupported claims. Return only the JSON array."

// RouterConfig wires the router to its providers and policy inputs.
type RouterConfig struct {
	// Primary is the configured provider: on-device, local-http or cloud-api.
	Primary string
	OnDevice  Provider
	LocalHTTP Provider
	// Cloud must be nil when no credentials are configured; its presence is
	// what arms the fallback hop.
	Cloud Provider
	Chunker   *engine.Chunker
	Lifecycle *lifecycle.Manager
	// Defaults supply generation parameters when a request omits them.
	Defaults     types.LLMConfig
	ChunkBudget  int
	SystemPrompt string
	Logger       zerolog.Logger
}

// Router picks a provider per request and applies at most one fallback hop:
// on-device failure with cloud credentials present retries the same logical
// request against the cloud, using the full untruncated content.
type Router struct {
	primary   string
	onDevice  Provider
	localHTTP Provider
	cloud     Provider
	chunker   *engine.Chunker
	lm        *lifecycle.Manager
	defaults  types.LLMConfig
	budget    int
	system    string
	log       zerolog.Logger
	start     time.Time
}

// NewRouter constructs a Router from RouterConfig.
func NewRouter(cfg RouterConfig) *Router {
	r := &Router{
		primary:   cfg.Primary,
		onDevice:  cfg.OnDevice,
		localHTTP: cfg.LocalHTTP,
		cloud:     cfg.Cloud,
		chunker:   cfg.Chunker,
		lm:        cfg.Lifecycle,
		defaults:  cfg.Defaults,
		budget:    cfg.ChunkBudget,
		system:    cfg.SystemPrompt,
		log:       cfg.Logger,
		start:     time.Now(),
	}
	if r.primary == "" {
		r.primary = OnDevice
	}
	if r.system == "" {
		r.system = defaultSystemPrompt
	}
	return r
}

// Feedback serves one feedback request end to end: content preparation per
// the chunking flag, routed generation, and best-effort item extraction.
func (r *Router) Feedback(ctx context.Context, req types.FeedbackRequest) (types.FeedbackResponse, error) {
	cfg := r.requestConfig(req.Config)

	full := req.Content
	prompt := full
	chunked := false
	if r.primary == OnDevice && r.chunker != nil && r.chunker.ShouldChunk() {
		prompt = engine.PrepareContent(full, req.Section, r.budget)
		chunked = true
		chunkedTotal.Inc()
	}

	res, err := r.generate(ctx, prompt, full, chunked, cfg)
	if err != nil {
		return types.FeedbackResponse{}, err
	}
	return types.FeedbackResponse{
		Response:   res.Text,
		Items:      engine.ExtractItems(res.Text),
		Provider:   res.Provider,
		DurationMs: res.DurationMs,
		Chunked:    res.Chunked,
	}, nil
}

// generate runs the primary attempt and, when policy permits, one fallback.
func (r *Router) generate(ctx context.Context, prompt, full string, chunked bool, cfg types.LLMConfig) (Response, error) {
	primary, err := r.pick()
	if err != nil {
		return Response{}, err
	}

	start := time.Now()
	text, perr := primary.Complete(ctx, r.system, prompt, cfg)
	if perr == nil {
		requestsTotal.WithLabelValues(primary.Name(), "ok").Inc()
		return Response{
			Text:       text,
			Provider:   primary.Name(),
			DurationMs: time.Since(start).Milliseconds(),
			Chunked:    chunked,
		}, nil
	}
	requestsTotal.WithLabelValues(primary.Name(), "error").Inc()

	// One hop, on-device to cloud only, and only with credentials present.
	// The fallback re-sends the full content: the chunking decision was
	// tuned for the on-device model's window, not the cloud model's.
	if r.primary != OnDevice || r.cloud == nil {
		return Response{}, ErrProvider(primary.Name(), perr)
	}

	r.log.Warn().Err(perr).Msg("on-device generation failed, falling back to cloud")
	fallbackTotal.Inc()
	start = time.Now()
	text, ferr := r.cloud.Complete(ctx, r.system, full, cfg)
	if ferr != nil {
		requestsTotal.WithLabelValues(CloudAPI, "error").Inc()
		return Response{}, ErrFallbackExhausted(CloudAPI, ferr)
	}
	requestsTotal.WithLabelValues(CloudAPI, "fallback_ok").Inc()
	return Response{
		Text:       text,
		Provider:   CloudAPI,
		DurationMs: time.Since(start).Milliseconds(),
		Chunked:    false,
	}, nil
}

// pick resolves the configured primary provider.
func (r *Router) pick() (Provider, error) {
	switch r.primary {
	case OnDevice:
		if r.onDevice != nil {
			return r.onDevice, nil
		}
	case LocalHTTP:
		if r.localHTTP != nil {
			return r.localHTTP, nil
		}
	case CloudAPI:
		if r.cloud != nil {
			return r.cloud, nil
		}
	}
	return nil, errors.New("provider not configured: " + r.primary)
}

// requestConfig merges per-request overrides onto the configured defaults.
func (r *Router) requestConfig(over *types.LLMConfig) types.LLMConfig {
	cfg := r.defaults
	if over == nil {
		return cfg
	}
	if over.ContextSize > 0 {
		cfg.ContextSize = over.ContextSize
	}
	if over.MaxTokens > 0 {
		cfg.MaxTokens = over.MaxTokens
	}
	if over.BatchSize > 0 {
		cfg.BatchSize = over.BatchSize
	}
	if over.Temperature > 0 {
		cfg.Temperature = over.Temperature
	}
	return cfg
}

// Status reports engine state for the UI indicator.
func (r *Router) Status() types.StatusResponse {
	resp := types.StatusResponse{
		Provider:       r.primary,
		UptimeSeconds:  int64(time.Since(r.start).Seconds()),
		ServerTimeUnix: time.Now().Unix(),
	}
	if r.lm != nil {
		st := r.lm.Status()
		resp.Initialized = st.Initialized
		resp.Initializing = st.Initializing
		resp.Error = st.Error
		resp.Acceleration = types.AccelerationStatus{
			Enabled: st.Acceleration.Enabled,
			Type:    st.Acceleration.Type,
			Layers:  st.Acceleration.Layers,
		}
	}
	if r.chunker != nil {
		resp.Chunking = r.chunker.Snapshot()
	}
	return resp
}

// Probe runs bounded connectivity checks against every configured provider.
// An empty string means reachable.
func (r *Router) Probe(ctx context.Context) map[string]string {
	out := make(map[string]string)
	for _, p := range []Provider{r.onDevice, r.localHTTP, r.cloud} {
		if p == nil {
			continue
		}
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		if err := p.CheckConnection(pctx); err != nil {
			out[p.Name()] = err.Error()
		} else {
			out[p.Name()] = ""
		}
		cancel()
	}
	return out
}

// Ready reports whether the primary provider can plausibly serve a request.
func (r *Router) Ready() bool {
	switch r.primary {
	case OnDevice:
		if r.lm == nil {
			return false
		}
		if r.lm.Status().Initialized {
			return true
		}
		return r.lm.CheckAvailable().Available
	case LocalHTTP:
		return r.localHTTP != nil
	case CloudAPI:
		return r.cloud != nil
	}
	return false
}
