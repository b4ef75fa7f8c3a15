// Package reactive provides observable value cells with generation tracking.
//
// A Dynamic is a shared cell whose every mutation advances a Generation
// counter and notifies observers: change callbacks first, then window redraw
// registrations, then blocked readers. Readers compare their own watermark
// against the cell's generation to decide whether they have seen the latest
// value, so a reader never misses an update even if many writes coalesce
// while it was busy.
package reactive

// Generation identifies one committed mutation of a cell. It increments on
// every mutation and wraps on overflow; only equality is meaningful, never
// ordering.
type Generation uint64

// Next returns the generation following g.
func (g Generation) Next() Generation {
	return g + 1
}

// GenerationalValue pairs a value snapshot with the generation it was read at.
type GenerationalValue[T any] struct {
	Value      T
	Generation Generation
}
