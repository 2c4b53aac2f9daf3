package engine

import (
	"sync"
	"time"

	"marginalia/pkg/types"
)

// Chunker is the adaptive chunking controller. It keeps a single sticky flag:
// chunking is on exactly when the most recent completed generation exceeded
// the threshold. There is no moving average; tracking only the latest
// observation lets a hardware or load change take effect on the next request.
type Chunker struct {
	mu        sync.Mutex
	threshold time.Duration
	enabled   bool
	lastMs    int64
}

// NewChunker builds a controller with the supplied threshold. The threshold
// is user-configured; the controller uses it only as a comparison bound.
func NewChunker(threshold time.Duration) *Chunker {
	return &Chunker{threshold: threshold}
}

// Record updates the flag from one successful generation's latency. Failed
// generations report nothing; a failing backend's timing is not a signal.
func (c *Chunker) Record(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabled = d > c.threshold
	c.lastMs = d.Milliseconds()
}

// ShouldChunk reports whether the next request should submit a reduced
// excerpt instead of the full note.
func (c *Chunker) ShouldChunk() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

// Snapshot returns the controller state for the status surface.
func (c *Chunker) Snapshot() types.ChunkingStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return types.ChunkingStatus{
		Enabled:        c.enabled,
		LastResponseMs: c.lastMs,
		ThresholdMs:    c.threshold.Milliseconds(),
	}
}
