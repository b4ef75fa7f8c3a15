// Package window defines the contract between the toolkit core and a
// platform window backend, plus the cross-thread handle used to request
// redraws.
package window

import "sync"

// Handle is a cheap shareable reference to a window. Reactive cells hold
// handles to request redraws when they change; any goroutine may use one.
// Sends to a closed window are silently discarded.
type Handle struct {
	st *handleState
}

type handleState struct {
	mu sync.Mutex
	// redrawQueued dedups redraw signals: once a signal is queued, further
	// requests are no-ops until the backend drains with BeginRedraw.
	redrawQueued bool
	closed       bool
	invalidated  map[uint64]struct{}
	signal       chan struct{}
}

// NewHandle creates a handle with an empty invalidation set.
func NewHandle() *Handle {
	return &Handle{st: &handleState{
		invalidated: make(map[uint64]struct{}),
		signal:      make(chan struct{}, 1),
	}}
}

// RedrawSignal returns the channel the backend pumps: one receive per
// queued redraw request.
func (h *Handle) RedrawSignal() <-chan struct{} {
	return h.st.signal
}

// RequestRedraw asks the window to redraw. Fire and forget: duplicate
// requests coalesce until the backend begins the redraw, and requests to a
// closed window are dropped.
func (h *Handle) RequestRedraw() {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	h.queueRedrawLocked()
}

// InvalidateWidget marks a single widget as needing redraw and queues a
// redraw request for it.
func (h *Handle) InvalidateWidget(widget uint64) {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	if h.st.closed {
		return
	}
	h.st.invalidated[widget] = struct{}{}
	h.queueRedrawLocked()
}

// queueRedrawLocked sends at most one signal per drain cycle. Caller holds
// st.mu.
func (h *Handle) queueRedrawLocked() {
	if h.st.closed || h.st.redrawQueued {
		return
	}
	h.st.redrawQueued = true
	select {
	case h.st.signal <- struct{}{}:
	default:
	}
}

// BeginRedraw is called by the backend when it starts drawing a frame. It
// returns the widgets invalidated since the last frame and re-arms the
// redraw signal.
func (h *Handle) BeginRedraw() []uint64 {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	h.st.redrawQueued = false
	if len(h.st.invalidated) == 0 {
		return nil
	}
	widgets := make([]uint64, 0, len(h.st.invalidated))
	for id := range h.st.invalidated {
		widgets = append(widgets, id)
	}
	h.st.invalidated = make(map[uint64]struct{})
	return widgets
}

// Close marks the window gone. Subsequent requests are discarded.
func (h *Handle) Close() {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	h.st.closed = true
}

// Closed reports whether the window has been closed.
func (h *Handle) Closed() bool {
	h.st.mu.Lock()
	defer h.st.mu.Unlock()
	return h.st.closed
}
