package reactive

import "context"

// DynamicReader observes a Dynamic from another goroutine. Each reader keeps
// its own watermark of the last generation it consumed; a cell mutated many
// times while the reader was busy still counts as exactly one pending
// update.
type DynamicReader[T any] struct {
	s              *cellState[T]
	readGeneration Generation
}

// Get returns the current value and marks it consumed.
func (r *DynamicReader[T]) Get() T {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.readGeneration = r.s.generation
	return r.s.value
}

// Generation returns the generation this reader last consumed.
func (r *DynamicReader[T]) Generation() Generation {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.readGeneration
}

// HasUpdated reports whether the cell holds a generation this reader has not
// consumed yet.
func (r *DynamicReader[T]) HasUpdated() bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	updated, _ := r.s.checkUpdated(r.readGeneration)
	return updated
}

// BlockUntilUpdated parks the calling goroutine until the cell advances past
// this reader's watermark. It returns true when an unconsumed value is
// available and false when the producer has closed the cell with nothing
// left to consume. Disconnection is an expected outcome, not an error.
func (r *DynamicReader[T]) BlockUntilUpdated() bool {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for {
		updated, disconnected := r.s.checkUpdated(r.readGeneration)
		if updated {
			return true
		}
		if disconnected {
			return false
		}
		r.s.cond.Wait()
	}
}

// ValueStream observes a Dynamic without blocking a goroutine on a condition
// variable: waits suspend on a registered waker channel so they compose with
// select and context cancellation.
type ValueStream[T any] struct {
	s              *cellState[T]
	readGeneration Generation
}

// Get returns the current value and marks it consumed.
func (v *ValueStream[T]) Get() T {
	v.s.mu.Lock()
	defer v.s.mu.Unlock()
	v.readGeneration = v.s.generation
	return v.s.value
}

// WaitUntilUpdated suspends until the cell advances past this stream's
// watermark. It returns (true, nil) when an unconsumed value is available,
// (false, nil) when the producer closed the cell, and (false, ctx.Err())
// when the context is cancelled first.
func (v *ValueStream[T]) WaitUntilUpdated(ctx context.Context) (bool, error) {
	for {
		v.s.mu.Lock()
		updated, disconnected := v.s.checkUpdated(v.readGeneration)
		if updated {
			v.s.mu.Unlock()
			return true, nil
		}
		if disconnected {
			v.s.mu.Unlock()
			return false, nil
		}
		waker := make(chan struct{})
		v.s.wakers = append(v.s.wakers, waker)
		v.s.mu.Unlock()

		select {
		case <-waker:
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
}

// Next waits for an unconsumed value and returns it. The bool result is
// false when the stream ended by producer close or context cancellation; the
// error is non-nil only for cancellation.
func (v *ValueStream[T]) Next(ctx context.Context) (T, bool, error) {
	ok, err := v.WaitUntilUpdated(ctx)
	if !ok {
		var zero T
		return zero, false, err
	}
	return v.Get(), true, nil
}
