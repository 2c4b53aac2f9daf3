package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"marginalia/internal/engine"
	"marginalia/internal/httpapi"
	"marginalia/internal/lifecycle"
	"marginalia/internal/provider"
	"marginalia/internal/runtime"
	"marginalia/pkg/types"
)

const testModelName = "m.gguf"

// fakeRuntime stands in for the cgo-backed runtime so the full HTTP stack can
// run in-process. It records the prompts it is asked to complete.
type fakeRuntime struct {
	mu       sync.Mutex
	prompts  []string
	delay    time.Duration
	generate func(system, user string) (string, error)
}

func (r *fakeRuntime) Load(path string, gpuLayers int) (runtime.Handle, error) {
	return &fakeHandle{rt: r}, nil
}

func (r *fakeRuntime) recordedPrompts() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.prompts...)
}

type fakeHandle struct{ rt *fakeRuntime }

func (h *fakeHandle) NewContext(contextSize, batchSize int) (runtime.GenerationContext, error) {
	return &fakeContext{rt: h.rt}, nil
}
func (h *fakeHandle) Close() error { return nil }

type fakeContext struct{ rt *fakeRuntime }

func (c *fakeContext) Generate(ctx context.Context, systemPrompt, userPrompt string, maxTokens int, temperature float64) (string, error) {
	c.rt.mu.Lock()
	c.rt.prompts = append(c.rt.prompts, userPrompt)
	c.rt.mu.Unlock()
	if c.rt.delay > 0 {
		time.Sleep(c.rt.delay)
	}
	if c.rt.generate != nil {
		return c.rt.generate(systemPrompt, userPrompt)
	}
	return `[{"type":"clarity","text":"Define the acronym on first use."}]`, nil
}
func (c *fakeContext) Close() error { return nil }

type fakeCloud struct {
	mu    sync.Mutex
	calls []string
	err   error
}

func (c *fakeCloud) Name() string { return provider.CloudAPI }
func (c *fakeCloud) Complete(ctx context.Context, systemPrompt, userPrompt string, cfg types.LLMConfig) (string, error) {
	c.mu.Lock()
	c.calls = append(c.calls, userPrompt)
	c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	return `[{"type":"structure","text":"Split this section in two."}]`, nil
}
func (c *fakeCloud) CheckConnection(ctx context.Context) error { return nil }

type stackOpts struct {
	modelPresent bool
	rt           *fakeRuntime
	cloud        provider.Provider
	thresholdMs  int
	chunkBudget  int
}

// newStack boots the whole engine behind an httptest server: lifecycle
// manager, orchestrator, router and HTTP mux, with a fake runtime in place
// of llama.cpp.
func newStack(t *testing.T, opts stackOpts) *httptest.Server {
	t.Helper()
	dir := t.TempDir()
	if opts.modelPresent {
		p := filepath.Join(dir, testModelName)
		f, err := os.Create(p)
		if err != nil {
			t.Fatalf("create model: %v", err)
		}
		if err := f.Truncate(150 << 20); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		f.Close()
	}
	if opts.rt == nil {
		opts.rt = &fakeRuntime{}
	}
	if opts.thresholdMs == 0 {
		opts.thresholdMs = 2000
	}
	if opts.chunkBudget == 0 {
		opts.chunkBudget = 6000
	}

	log := zerolog.Nop()
	lm := lifecycle.NewManager(lifecycle.ManagerConfig{
		Runtime:    opts.rt,
		Paths:      runtime.Paths{Dir: dir, FileName: testModelName},
		RetryDelay: time.Millisecond,
		Logger:     log,
	})
	t.Cleanup(lm.Dispose)

	chunker := engine.NewChunker(time.Duration(opts.thresholdMs) * time.Millisecond)
	orch := engine.NewOrchestrator(lm, chunker, log)
	router := provider.NewRouter(provider.RouterConfig{
		Primary:   provider.OnDevice,
		OnDevice:  provider.NewLocalProvider(orch, lm),
		Cloud:     opts.cloud,
		Chunker:   chunker,
		Lifecycle: lm,
		Defaults: types.LLMConfig{
			ContextSize: 4096,
			MaxTokens:   256,
			BatchSize:   512,
			Temperature: 0.2,
		},
		ChunkBudget: opts.chunkBudget,
		Logger:      log,
	})

	srv := httptest.NewServer(httpapi.NewMux(router))
	t.Cleanup(srv.Close)
	return srv
}

func postFeedback(t *testing.T, srv *httptest.Server, req types.FeedbackRequest) (int, types.FeedbackResponse, types.ErrorResponse) {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	resp, err := http.Post(srv.URL+"/feedback", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var ok types.FeedbackResponse
	var fail types.ErrorResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.Unmarshal(raw, &ok); err != nil {
			t.Fatalf("decode ok body: %v (%s)", err, raw)
		}
	} else {
		if err := json.Unmarshal(raw, &fail); err != nil {
			t.Fatalf("decode error body: %v (%s)", err, raw)
		}
	}
	return resp.StatusCode, ok, fail
}

func getStatus(t *testing.T, srv *httptest.Server, probe bool) types.StatusResponse {
	t.Helper()
	url := srv.URL + "/status"
	if probe {
		url += "?probe=1"
	}
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get status: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status code=%d", resp.StatusCode)
	}
	var st types.StatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	return st
}
