// Package raster implements the dispatch bookkeeping for the legacy raster
// frontend: per-frame widget bounds keyed by id in hashmaps rather than a
// tree, a hover *set* permitting multiple simultaneous owners, and additive
// merging of per-widget event outcomes. It is deliberately independent of
// pkg/core; the two hover policies must not be mixed.
package raster

// EventStatus reports whether any widget processed an event.
type EventStatus int

const (
	// StatusIgnored means no widget acted on the event.
	StatusIgnored EventStatus = iota
	// StatusProcessed means at least one widget acted on the event.
	StatusProcessed
)

// EventResult accumulates the outcome of dispatching one event across a
// widget walk.
type EventResult struct {
	Status      EventStatus
	NeedsRedraw bool
}

// EventIgnored is the identity result: nothing happened.
func EventIgnored() EventResult {
	return EventResult{}
}

// EventProcessed marks the event as handled without needing a redraw.
func EventProcessed() EventResult {
	return EventResult{Status: StatusProcessed}
}

// EventRedraw marks the event as handled and the frame as stale.
func EventRedraw() EventResult {
	return EventResult{Status: StatusProcessed, NeedsRedraw: true}
}

// Add merges another result into this one: status is processed if either
// side processed, and redraw flags OR together. The merge is associative
// and commutative, so outcomes can be folded in any order during a walk.
func (r EventResult) Add(other EventResult) EventResult {
	if other.Status == StatusProcessed {
		r.Status = StatusProcessed
	}
	r.NeedsRedraw = r.NeedsRedraw || other.NeedsRedraw
	return r
}
