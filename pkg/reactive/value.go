package reactive

// Value holds either a constant or a Dynamic. Widget fields accept a Value
// so callers pay for change tracking only when they want it: a constant
// never notifies and has no generation.
type Value[T any] struct {
	constant T
	dynamic  *Dynamic[T]
}

// Constant wraps a fixed value.
func Constant[T any](v T) Value[T] {
	return Value[T]{constant: v}
}

// FromDynamic wraps a cell.
func FromDynamic[T any](d *Dynamic[T]) Value[T] {
	return Value[T]{dynamic: d}
}

// Get returns the current value.
func (v Value[T]) Get() T {
	if v.dynamic != nil {
		return v.dynamic.Get()
	}
	return v.constant
}

// GetTracked returns the current value and, for dynamics, the generation it
// was read at. Constants report ok=false and a zero generation.
func (v Value[T]) GetTracked() (T, Generation, bool) {
	if v.dynamic != nil {
		gv := v.dynamic.GetTracked()
		return gv.Value, gv.Generation, true
	}
	return v.constant, 0, false
}

// Dynamic returns the underlying cell, or nil for a constant.
func (v Value[T]) Dynamic() *Dynamic[T] {
	return v.dynamic
}

// IsConstant reports whether the value can never change.
func (v Value[T]) IsConstant() bool {
	return v.dynamic == nil
}

// Map runs f with the current value. Dynamics evaluate under the cell lock.
func (v Value[T]) Map(f func(T)) {
	if v.dynamic != nil {
		v.dynamic.MapRef(f)
		return
	}
	f(v.constant)
}

// ForEach registers f on the underlying cell. For a constant there is
// nothing to observe and the returned handle is nil.
func (v Value[T]) ForEach(f func(T)) *CallbackHandle {
	if v.dynamic == nil {
		return nil
	}
	return v.dynamic.ForEach(f)
}

// RedrawWhenChanged registers a one-shot redraw request on the underlying
// cell. Constants ignore it.
func (v Value[T]) RedrawWhenChanged(w Redrawer) {
	if v.dynamic != nil {
		v.dynamic.RedrawWhenChanged(w)
	}
}

// InvalidateWhenChanged registers a one-shot widget invalidation on the
// underlying cell. Constants ignore it.
func (v Value[T]) InvalidateWhenChanged(w WidgetInvalidator, widget uint64) {
	if v.dynamic != nil {
		v.dynamic.InvalidateWhenChanged(w, widget)
	}
}
