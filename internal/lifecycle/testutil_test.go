package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"marginalia/internal/runtime"
)

// fakeRuntime counts load attempts and can fail or block on demand.
type fakeRuntime struct {
	mu      sync.Mutex
	loads   int
	loadErr error
	gate    chan struct{} // when non-nil, Load blocks until closed
}

func (f *fakeRuntime) Load(path string, gpuLayers int) (runtime.Handle, error) {
	f.mu.Lock()
	f.loads++
	gate := f.gate
	err := f.loadErr
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if err != nil {
		return nil, err
	}
	return &fakeHandle{}, nil
}

func (f *fakeRuntime) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}

type fakeHandle struct {
	mu       sync.Mutex
	closed   int
	created  int
	disposed int
	genErr   error
	genOut   string
}

func (h *fakeHandle) NewContext(contextSize, batchSize int) (runtime.GenerationContext, error) {
	h.mu.Lock()
	h.created++
	h.mu.Unlock()
	return &fakeContext{h: h}, nil
}

func (h *fakeHandle) Close() error {
	h.mu.Lock()
	h.closed++
	h.mu.Unlock()
	return nil
}

func (h *fakeHandle) closeCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

type fakeContext struct{ h *fakeHandle }

func (c *fakeContext) Generate(ctx context.Context, system, user string, maxTokens int, temperature float64) (string, error) {
	c.h.mu.Lock()
	defer c.h.mu.Unlock()
	if c.h.genErr != nil {
		return "", c.h.genErr
	}
	return c.h.genOut, nil
}

func (c *fakeContext) Close() error {
	c.h.mu.Lock()
	c.h.disposed++
	c.h.mu.Unlock()
	return nil
}

// modelFixture creates a plausibly sized model file and returns its Paths.
func modelFixture(t *testing.T) runtime.Paths {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "fixture.gguf")
	f, err := os.Create(p)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := f.Truncate(150 << 20); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return runtime.Paths{Dir: dir, FileName: "fixture.gguf"}
}

func testManager(t *testing.T, rt runtime.Runtime, paths runtime.Paths) *Manager {
	t.Helper()
	return NewManager(ManagerConfig{
		Runtime: rt,
		Paths:   paths,
		Logger:  zerolog.Nop(),
	})
}
