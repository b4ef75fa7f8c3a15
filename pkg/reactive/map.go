package reactive

// Go methods cannot introduce their own type parameters, so every operation
// whose result type differs from the cell's value type lives here as a free
// function.

// MapRef runs f with the current value under the cell lock and returns its
// result. f must not call back into the cell.
func MapRef[T, R any](d *Dynamic[T], f func(T) R) R {
	d.s.mu.Lock()
	defer d.s.mu.Unlock()
	return f(d.s.value)
}

// Update stores value only when it differs from what is already held.
// Returns true when a mutation was committed. This is the debouncing entry
// point: derived cells built with MapEachUnique write through it so
// observers do not fire for no-op changes.
func Update[T comparable](d *Dynamic[T], value T) bool {
	d.s.mu.Lock()
	if d.s.value == value {
		d.s.mu.Unlock()
		return false
	}
	d.s.value = value
	d.s.commitLocked()
	return true
}

// MapEach creates a derived cell that eagerly holds f of the source's
// current value and is refreshed on every source mutation, even when f
// returns an equal result. Closing the source closes the derived cell, so
// readers blocked on a derived chain observe producer shutdown.
func MapEach[T, R any](source *Dynamic[T], f func(T) R) *Dynamic[R] {
	result := NewDynamic(f(source.Get()))
	source.ForEach(func(v T) {
		result.Set(f(v))
	})
	source.s.onClose(result.Close)
	return result
}

// MapEachUnique is MapEach with equality gating: the derived cell only
// commits when f's result actually changed, so long chains of derived cells
// quiesce instead of cascading identical values.
func MapEachUnique[T any, R comparable](source *Dynamic[T], f func(T) R) *Dynamic[R] {
	result := NewDynamic(f(source.Get()))
	source.ForEach(func(v T) {
		Update(result, f(v))
	})
	source.s.onClose(result.Close)
	return result
}

// MapEachValue derives a cell from a Value. A constant source yields a cell
// holding the single mapped result; it never changes unless written directly.
func MapEachValue[T, R any](source Value[T], f func(T) R) *Dynamic[R] {
	if d := source.Dynamic(); d != nil {
		return MapEach(d, f)
	}
	return NewDynamic(f(source.Get()))
}

// ForEachPair registers f to run whenever either of two cells mutates,
// receiving the current value of both. The returned handle disconnects both
// registrations.
func ForEachPair[T, U any](a *Dynamic[T], b *Dynamic[U], f func(T, U)) *CallbackHandle {
	ha := a.ForEach(func(v T) {
		f(v, b.Get())
	})
	hb := b.ForEach(func(v U) {
		f(a.Get(), v)
	})
	return &CallbackHandle{remove: func() {
		ha.Disconnect()
		hb.Disconnect()
	}}
}

// MapEachPair creates a derived cell recomputed from two sources whenever
// either mutates. Closing either source closes the derived cell.
func MapEachPair[T, U, R any](a *Dynamic[T], b *Dynamic[U], f func(T, U) R) *Dynamic[R] {
	result := NewDynamic(f(a.Get(), b.Get()))
	ForEachPair(a, b, func(va T, vb U) {
		result.Set(f(va, vb))
	})
	a.s.onClose(result.Close)
	b.s.onClose(result.Close)
	return result
}
