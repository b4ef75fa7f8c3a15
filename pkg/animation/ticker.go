package animation

import (
	"sync"
	"time"
)

// Ticker calls back with its elapsed running time on every conductor step.
// All methods are safe for concurrent use; Stop in particular may arrive
// from any goroutine via Transition.Cancel.
type Ticker struct {
	conductor *Conductor
	callback  func(elapsed time.Duration)

	mu     sync.Mutex
	active bool
	start  time.Time
}

// NewTicker creates an inactive ticker on the default conductor.
func NewTicker(callback func(elapsed time.Duration)) *Ticker {
	return defaultConductor.NewTicker(callback)
}

// Start activates the ticker with its elapsed time at zero. Starting an
// active ticker is a no-op.
func (t *Ticker) Start() {
	now := t.conductor.Now()
	t.mu.Lock()
	if t.active {
		t.mu.Unlock()
		return
	}
	t.active = true
	t.start = now
	t.mu.Unlock()
	t.conductor.add(t)
}

// Stop deactivates the ticker.
func (t *Ticker) Stop() {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	t.active = false
	t.mu.Unlock()
	t.conductor.remove(t)
}

// IsActive reports whether the ticker is currently running.
func (t *Ticker) IsActive() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Elapsed returns the time since Start, zero while stopped.
func (t *Ticker) Elapsed() time.Duration {
	now := t.conductor.Now()
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active {
		return 0
	}
	return now.Sub(t.start)
}

// tick runs the callback with the elapsed time as of the step's shared
// instant. A ticker stopped between the conductor's snapshot and its turn
// is skipped.
func (t *Ticker) tick(now time.Time) {
	t.mu.Lock()
	if !t.active {
		t.mu.Unlock()
		return
	}
	elapsed := now.Sub(t.start)
	t.mu.Unlock()
	if t.callback != nil {
		t.callback(elapsed)
	}
}
