// Package lifecycle owns initialization and teardown of the on-device model
// runtime. It serializes concurrent initialization attempts (single-flight),
// caches failures for a retry-delay window so a broken load path is not
// hammered, and answers availability/status queries for the UI indicator.
package lifecycle

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"marginalia/internal/runtime"
)

// State is the lifecycle state of the managed model handle.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateInitializing  State = "initializing"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

// DefaultRetryDelay is the window during which a cached load failure is
// returned without attempting another load.
const DefaultRetryDelay = 5 * time.Second

// ManagerConfig encapsulates all tunables for Manager construction.
type ManagerConfig struct {
	Runtime      runtime.Runtime
	Paths        runtime.Paths
	Acceleration runtime.Acceleration
	RetryDelay   time.Duration
	Logger       zerolog.Logger
}

// Manager drives the model handle state machine. The handle is the one
// long-lived shared resource in the process; it is created and disposed only
// here, under the single-flight discipline.
type Manager struct {
	rt         runtime.Runtime
	paths      runtime.Paths
	accel      runtime.Acceleration
	retryDelay time.Duration
	log        zerolog.Logger
	now        func() time.Time // test hook

	mu          sync.Mutex
	state       State
	handle      runtime.Handle
	lastErr     error
	failedAt    time.Time
	attemptDone chan struct{} // closed when the in-flight attempt commits
}

// NewManager constructs a Manager from ManagerConfig, applying defaults for
// unset fields.
func NewManager(cfg ManagerConfig) *Manager {
	m := &Manager{
		rt:         cfg.Runtime,
		paths:      cfg.Paths,
		accel:      cfg.Acceleration,
		retryDelay: cfg.RetryDelay,
		log:        cfg.Logger,
		now:        time.Now,
		state:      StateUninitialized,
	}
	if m.retryDelay <= 0 {
		m.retryDelay = DefaultRetryDelay
	}
	return m
}

// CheckAvailable reports whether the model artifact is present and plausibly
// whole. Pure read; no state transition.
func (m *Manager) CheckAvailable() runtime.Availability {
	return runtime.CheckAvailable(m.paths)
}

// EnsureReady drives the state machine toward Ready. Concurrent callers
// share a single load attempt: exactly one load runs, and every caller
// observes that attempt's terminal outcome. A call arriving within the
// retry-delay window of a failure returns the cached error immediately; no
// load is retried inside a single call.
func (m *Manager) EnsureReady(ctx context.Context) error {
	for {
		m.mu.Lock()
		switch m.state {
		case StateReady:
			m.mu.Unlock()
			return nil
		case StateFailed:
			if m.now().Sub(m.failedAt) < m.retryDelay {
				err := m.lastErr
				m.mu.Unlock()
				return err
			}
			// Window elapsed; start a fresh attempt below.
		case StateInitializing:
			done := m.attemptDone
			m.mu.Unlock()
			select {
			case <-done:
				continue // re-read the committed outcome
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		done := make(chan struct{})
		m.state = StateInitializing
		m.lastErr = nil
		m.attemptDone = done
		m.mu.Unlock()

		h, err := m.attempt(ctx)
		return m.commit(done, h, err)
	}
}

// attempt performs one availability check plus load. It runs outside the
// lock; commit serializes the result back into the state machine.
func (m *Manager) attempt(ctx context.Context) (runtime.Handle, error) {
	start := m.now()
	m.log.Info().Msg("model load starting")

	av := runtime.CheckAvailable(m.paths)
	if av.Err != nil {
		loadsTotal.WithLabelValues("unavailable").Inc()
		m.log.Warn().Err(av.Err).Msg("model unavailable")
		return nil, av.Err
	}
	if err := ctx.Err(); err != nil {
		loadsTotal.WithLabelValues("canceled").Inc()
		return nil, err
	}
	h, err := m.rt.Load(av.Path, m.accel.Layers)
	if err != nil {
		loadsTotal.WithLabelValues("error").Inc()
		m.log.Error().Err(err).Msg("model load failed")
		return nil, ErrLoadFailed(err)
	}
	dur := m.now().Sub(start)
	loadsTotal.WithLabelValues("ok").Inc()
	loadDuration.Observe(dur.Seconds())
	m.log.Info().Dur("dur", dur).Int("gpu_layers", m.accel.Layers).Msg("model load complete")
	return h, nil
}

// commit records an attempt's outcome and wakes waiters. If the manager was
// disposed while the attempt ran, a successfully loaded handle is discarded
// rather than resurrecting the old attempt.
func (m *Manager) commit(done chan struct{}, h runtime.Handle, err error) error {
	m.mu.Lock()
	stale := m.attemptDone != done || m.state != StateInitializing
	if stale {
		m.mu.Unlock()
		if h != nil {
			m.closeHandle(h)
		}
		close(done)
		return ErrNotReady("disposed")
	}
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			// A canceled attempt is not a broken load path; do not arm the
			// retry-delay window for it.
			m.state = StateUninitialized
			m.lastErr = nil
		} else {
			m.state = StateFailed
			m.lastErr = err
			m.failedAt = m.now()
		}
		m.handle = nil
	} else {
		m.state = StateReady
		m.handle = h
		m.lastErr = nil
	}
	m.attemptDone = nil
	m.mu.Unlock()
	close(done)
	if err != nil && h != nil {
		m.closeHandle(h)
	}
	return err
}

// Handle lends out the loaded model for one generation call. The borrower
// must not retain it past the call; disposal remains this package's job.
func (m *Manager) Handle() (runtime.Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch m.state {
	case StateReady:
		return m.handle, nil
	case StateInitializing:
		return nil, ErrInitializing()
	default:
		return nil, ErrNotReady(string(m.state))
	}
}

// Status reports the lifecycle state for diagnostics. Pure read.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Status{
		State:        m.state,
		Initialized:  m.state == StateReady,
		Initializing: m.state == StateInitializing,
		Acceleration: m.accel,
	}
	if m.lastErr != nil {
		s.Error = m.lastErr.Error()
	}
	return s
}

// Status is a read-only projection of the manager state.
type Status struct {
	State        State
	Initialized  bool
	Initializing bool
	Error        string
	Acceleration runtime.Acceleration
}

// Dispose releases the model handle and resets to Uninitialized. Idempotent;
// an attempt in flight is orphaned and its result discarded on commit.
func (m *Manager) Dispose() {
	m.mu.Lock()
	h := m.handle
	m.handle = nil
	m.state = StateUninitialized
	m.lastErr = nil
	m.mu.Unlock()
	if h != nil {
		m.closeHandle(h)
	}
}

// Invalidate disposes a handle reported unusable by a generation failure so
// the next request re-initializes cleanly instead of failing repeatedly.
func (m *Manager) Invalidate(reason string) {
	m.log.Warn().Str("reason", reason).Msg("invalidating model handle")
	m.Dispose()
}

// closeHandle is the single dispose path: best-effort, never propagates.
func (m *Manager) closeHandle(h runtime.Handle) {
	if err := h.Close(); err != nil {
		m.log.Warn().Err(err).Msg("handle close error")
	}
}
