package reactive

import (
	"sync"

	"github.com/go-weft/weft/pkg/errors"
)

// Redrawer receives a redraw request when an observed value changes.
// Window handles implement it.
type Redrawer interface {
	RequestRedraw()
}

// WidgetInvalidator receives a request to invalidate a single widget when an
// observed value changes.
type WidgetInvalidator interface {
	InvalidateWidget(widget uint64)
}

// Dynamic is a shared observable cell. All copies of the handle returned by
// NewDynamic refer to the same underlying state; it is safe for concurrent
// use from any goroutine.
type Dynamic[T any] struct {
	s *cellState[T]
}

type cellState[T any] struct {
	mu         sync.Mutex
	cond       *sync.Cond
	value      T
	generation Generation
	closed     bool

	nextCallbackID uint64
	callbacks      []callbackEntry[T]

	// One-shot registrations, drained on every committed mutation.
	redraws       []Redrawer
	invalidations []invalidation
	wakers        []chan struct{}

	// Run once when the cell closes. Derived cells register here so closing
	// a source disconnects the whole chain.
	closeHooks []func()
}

type callbackEntry[T any] struct {
	id uint64
	fn func(T)
}

type invalidation struct {
	target WidgetInvalidator
	widget uint64
}

// NewDynamic creates a cell holding the given initial value at generation
// zero.
func NewDynamic[T any](value T) *Dynamic[T] {
	s := &cellState[T]{value: value}
	s.cond = sync.NewCond(&s.mu)
	return &Dynamic[T]{s: s}
}

// Get returns the current value.
func (d *Dynamic[T]) Get() T {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	return d.s.value
}

// GetTracked returns the current value together with the generation it was
// read at.
func (d *Dynamic[T]) GetTracked() GenerationalValue[T] {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	return GenerationalValue[T]{Value: d.s.value, Generation: d.s.generation}
}

// Generation returns the cell's current generation.
func (d *Dynamic[T]) Generation() Generation {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	return d.s.generation
}

// Set stores a new value and notifies all observers before returning.
func (d *Dynamic[T]) Set(value T) {
	d.s.mu.Lock()
	d.s.value = value
	d.s.commitLocked()
}

// Replace stores a new value and returns the previous one.
func (d *Dynamic[T]) Replace(value T) T {
	d.s.mu.Lock()
	old := d.s.value
	d.s.value = value
	d.s.commitLocked()
	return old
}

// Take replaces the value with the zero value and returns what was stored.
func (d *Dynamic[T]) Take() T {
	var zero T
	return d.Replace(zero)
}

// MapMut runs f with mutable access to the stored value. The generation
// advances whether or not f changes anything; the cell does not inspect the
// value to decide. A panic in f propagates to the caller after the commit,
// so a recovered panic leaves the cell unlocked and observers see whatever
// f wrote before panicking.
func (d *Dynamic[T]) MapMut(f func(*T)) {
	d.s.mu.Lock()
	defer d.s.commitLocked()
	f(&d.s.value)
}

// MapRef runs f with the current value while holding the cell lock. f must
// not call back into the cell.
func (d *Dynamic[T]) MapRef(f func(T)) {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	f(d.s.value)
}

// ForEach registers f to run with the new value after every committed
// mutation. Callbacks run in registration order, outside the cell lock, so a
// callback may read or write the cell it observes.
func (d *Dynamic[T]) ForEach(f func(T)) *CallbackHandle {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	id := d.s.nextCallbackID
	d.s.nextCallbackID++
	d.s.callbacks = append(d.s.callbacks, callbackEntry[T]{id: id, fn: f})
	s := d.s
	return &CallbackHandle{remove: func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, entry := range s.callbacks {
			if entry.id == id {
				s.callbacks = append(s.callbacks[:i], s.callbacks[i+1:]...)
				return
			}
		}
	}}
}

// RedrawWhenChanged registers a window handle to receive one redraw request
// on the next mutation. The registration is consumed when it fires; redraw
// code re-registers each frame it reads the value. Handles must be
// comparable (pointer-shaped) so duplicate registrations collapse.
func (d *Dynamic[T]) RedrawWhenChanged(w Redrawer) {
	if w == nil {
		return
	}
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	for _, existing := range d.s.redraws {
		if existing == w {
			return
		}
	}
	d.s.redraws = append(d.s.redraws, w)
}

// InvalidateWhenChanged registers a single-widget invalidation to fire on
// the next mutation. Like RedrawWhenChanged, the registration is one-shot.
func (d *Dynamic[T]) InvalidateWhenChanged(w WidgetInvalidator, widget uint64) {
	if w == nil {
		return
	}
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	for _, existing := range d.s.invalidations {
		if existing.target == w && existing.widget == widget {
			return
		}
	}
	d.s.invalidations = append(d.s.invalidations, invalidation{target: w, widget: widget})
}

// Close marks the producer side as finished. Blocked readers wake and
// observe disconnection once they have consumed every generation. Closing an
// already closed cell is a no-op; the stored value remains readable.
func (d *Dynamic[T]) Close() {
	d.s.mu.Lock()
	if d.s.closed {
		d.s.mu.Unlock()
		return
	}
	d.s.closed = true
	wakers := d.s.wakers
	d.s.wakers = nil
	hooks := d.s.closeHooks
	d.s.closeHooks = nil
	d.s.mu.Unlock()

	for _, w := range wakers {
		close(w)
	}
	d.s.cond.Broadcast()
	for _, hook := range hooks {
		hook()
	}
}

// NewReader creates a blocking reader whose watermark starts at the current
// generation, so only future mutations count as updates.
func (d *Dynamic[T]) NewReader() *DynamicReader[T] {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	return &DynamicReader[T]{s: d.s, readGeneration: d.s.generation}
}

// NewStream creates an asynchronous reader whose watermark starts at the
// current generation. Unlike NewReader it suspends via channels and honors
// context cancellation.
func (d *Dynamic[T]) NewStream() *ValueStream[T] {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	return &ValueStream[T]{s: d.s, readGeneration: d.s.generation}
}

// commitLocked finishes a mutation: it advances the generation, snapshots
// observers, releases the lock, and delivers notifications in order. The
// caller must hold s.mu; commitLocked unlocks it.
func (s *cellState[T]) commitLocked() {
	s.generation = s.generation.Next()
	value := s.value
	callbacks := make([]callbackEntry[T], len(s.callbacks))
	copy(callbacks, s.callbacks)
	redraws := s.redraws
	s.redraws = nil
	invalidations := s.invalidations
	s.invalidations = nil
	wakers := s.wakers
	s.wakers = nil
	s.mu.Unlock()

	for _, cb := range callbacks {
		runCallback(cb.fn, value)
	}
	for _, w := range redraws {
		w.RequestRedraw()
	}
	for _, inv := range invalidations {
		inv.target.InvalidateWidget(inv.widget)
	}
	for _, w := range wakers {
		close(w)
	}
	s.cond.Broadcast()
}

// onClose registers f to run once when the cell closes. An already closed
// cell runs f immediately.
func (s *cellState[T]) onClose(f func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		f()
		return
	}
	s.closeHooks = append(s.closeHooks, f)
	s.mu.Unlock()
}

// checkUpdated reports whether the cell has moved past the given watermark
// or, failing that, whether it is disconnected. Both DynamicReader and
// ValueStream decide their wait results with this one check. Caller holds
// s.mu.
func (s *cellState[T]) checkUpdated(watermark Generation) (updated, disconnected bool) {
	if s.generation != watermark {
		return true, false
	}
	return false, s.closed
}

// runCallback invokes a user callback, absorbing a panic so one broken
// observer cannot break the cell or the observers after it.
func runCallback[T any](fn func(T), value T) {
	defer errors.Recover("reactive.callback")
	fn(value)
}

// CallbackHandle disconnects a callback registered with ForEach.
type CallbackHandle struct {
	once   sync.Once
	remove func()
}

// Disconnect removes the callback. Safe to call more than once.
func (h *CallbackHandle) Disconnect() {
	if h == nil {
		return
	}
	h.once.Do(h.remove)
}
