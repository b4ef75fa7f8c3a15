package raster

import (
	"sync"
	"time"

	"github.com/go-weft/weft/pkg/graphics"
)

// WidgetID identifies a widget to the legacy frontend. It is a separate id
// space from pkg/core's tree ids.
type WidgetID uint64

// RedrawPhase is the redraw scheduler's state.
type RedrawPhase int

const (
	// RedrawClean means the frame on screen is current.
	RedrawClean RedrawPhase = iota
	// RedrawDirty means a redraw is needed as soon as possible.
	RedrawDirty
	// RedrawScheduled means a redraw is due at a known instant.
	RedrawScheduled
)

// FocusEvent records a focus transition for the frontend to deliver.
type FocusEvent struct {
	Widget  WidgetID
	Focused bool
}

// State tracks everything the legacy frontend needs between events: which
// widgets were rendered where this frame, parent links, hover membership,
// the focus and active widgets, pointer captures, and the redraw schedule.
type State struct {
	mu sync.Mutex

	order     []WidgetID
	bounds    map[WidgetID]graphics.Rect
	hierarchy map[WidgetID]WidgetID
	tabOrder  []WidgetID

	// hover is a set: with nested pointer areas more than one widget can
	// be hovered at once.
	hover  map[WidgetID]struct{}
	focus  WidgetID
	active WidgetID

	mouseHandlers map[int]WidgetID
	focusEvents   []FocusEvent

	redrawPhase RedrawPhase
	redrawAt    time.Time
}

// NewState creates an empty legacy dispatch state.
func NewState() *State {
	return &State{
		bounds:        make(map[WidgetID]graphics.Rect),
		hierarchy:     make(map[WidgetID]WidgetID),
		hover:         make(map[WidgetID]struct{}),
		mouseHandlers: make(map[int]WidgetID),
	}
}

// NewFrame clears per-frame render data. Interaction state (hover, focus,
// active, captures) survives across frames.
func (s *State) NewFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	s.bounds = make(map[WidgetID]graphics.Rect)
	s.hierarchy = make(map[WidgetID]WidgetID)
	s.tabOrder = s.tabOrder[:0]
}

// WidgetRendered records that a widget was drawn at rect, under parent
// (zero for a top-level widget). Later records are topmost.
func (s *State) WidgetRendered(id WidgetID, parent WidgetID, rect graphics.Rect) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = append(s.order, id)
	s.bounds[id] = rect
	if parent != 0 {
		s.hierarchy[id] = parent
	}
}

// RegisterTabOrder appends a widget to keyboard traversal for this frame.
func (s *State) RegisterTabOrder(id WidgetID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tabOrder = append(s.tabOrder, id)
}

// Bounds returns the rect a widget was last rendered at.
func (s *State) Bounds(id WidgetID) (graphics.Rect, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rect, ok := s.bounds[id]
	return rect, ok
}

// Parent returns the recorded parent of a widget, zero for top-level.
func (s *State) Parent(id WidgetID) WidgetID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hierarchy[id]
}

// WidgetsUnderPoint returns the widgets rendered under the point, topmost
// first.
func (s *State) WidgetsUnderPoint(point graphics.Point) []WidgetID {
	s.mu.Lock()
	defer s.mu.Unlock()
	var hits []WidgetID
	for i := len(s.order) - 1; i >= 0; i-- {
		id := s.order[i]
		if rect, ok := s.bounds[id]; ok && rect.Contains(point) {
			hits = append(hits, id)
		}
	}
	return hits
}

// SetHover replaces the hover set with the widgets currently under the
// pointer and returns which widgets entered and left. Unlike the tree
// dispatcher's single hover chain, any number of widgets may be hovered.
func (s *State) SetHover(under []WidgetID) (hovered, unhovered []WidgetID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make(map[WidgetID]struct{}, len(under))
	for _, id := range under {
		next[id] = struct{}{}
		if _, already := s.hover[id]; !already {
			hovered = append(hovered, id)
		}
	}
	for id := range s.hover {
		if _, still := next[id]; !still {
			unhovered = append(unhovered, id)
		}
	}
	s.hover = next
	return hovered, unhovered
}

// Hovered reports whether a widget is in the hover set.
func (s *State) Hovered(id WidgetID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.hover[id]
	return ok
}

// SetFocus moves focus to id (zero to clear) and queues blur/focus events
// for the frontend to deliver. Returns true when focus changed.
func (s *State) SetFocus(id WidgetID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.focus == id {
		return false
	}
	if s.focus != 0 {
		s.focusEvents = append(s.focusEvents, FocusEvent{Widget: s.focus, Focused: false})
	}
	s.focus = id
	if id != 0 {
		s.focusEvents = append(s.focusEvents, FocusEvent{Widget: id, Focused: true})
	}
	return true
}

// Focus returns the focused widget, zero for none.
func (s *State) Focus() WidgetID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focus
}

// DrainFocusEvents returns and clears the queued focus transitions, in the
// order they occurred.
func (s *State) DrainFocusEvents() []FocusEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	events := s.focusEvents
	s.focusEvents = nil
	return events
}

// SetActive moves the active slot to id (zero to clear) and returns the
// previous holder and whether anything changed.
func (s *State) SetActive(id WidgetID) (WidgetID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == id {
		return id, false
	}
	old := s.active
	s.active = id
	return old, true
}

// Active returns the active widget, zero for none.
func (s *State) Active() WidgetID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// CaptureMouse records that a widget handled a button press; drag and
// release for that button route to it.
func (s *State) CaptureMouse(button int, id WidgetID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mouseHandlers[button] = id
}

// MouseCapture returns the widget holding a button capture.
func (s *State) MouseCapture(button int) (WidgetID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.mouseHandlers[button]
	return id, ok
}

// ReleaseMouse removes a button capture, returning its holder.
func (s *State) ReleaseMouse(button int) (WidgetID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.mouseHandlers[button]
	delete(s.mouseHandlers, button)
	return id, ok
}

// NextTabStop returns the widget after current in tab order, wrapping.
// Zero when the frame registered no tab stops.
func (s *State) NextTabStop(current WidgetID) WidgetID {
	return s.tabStop(current, 1)
}

// PreviousTabStop returns the widget before current in tab order, wrapping.
func (s *State) PreviousTabStop(current WidgetID) WidgetID {
	return s.tabStop(current, -1)
}

func (s *State) tabStop(current WidgetID, step int) WidgetID {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.tabOrder)
	if n == 0 {
		return 0
	}
	at := -1
	for i, id := range s.tabOrder {
		if id == current {
			at = i
			break
		}
	}
	if at < 0 {
		if step > 0 {
			return s.tabOrder[0]
		}
		return s.tabOrder[n-1]
	}
	return s.tabOrder[((at+step)%n+n)%n]
}

// MarkDirty requests a redraw as soon as possible. Dirty outranks any
// scheduled deadline.
func (s *State) MarkDirty() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redrawPhase = RedrawDirty
	s.redrawAt = time.Time{}
}

// ScheduleRedrawAt requests a redraw no later than the given instant. When
// a redraw is already scheduled, the earlier deadline wins; a dirty frame
// stays dirty.
func (s *State) ScheduleRedrawAt(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.redrawPhase {
	case RedrawDirty:
	case RedrawScheduled:
		if at.Before(s.redrawAt) {
			s.redrawAt = at
		}
	default:
		s.redrawPhase = RedrawScheduled
		s.redrawAt = at
	}
}

// ScheduleRedrawIn requests a redraw after the given duration.
func (s *State) ScheduleRedrawIn(d time.Duration) {
	s.ScheduleRedrawAt(time.Now().Add(d))
}

// RedrawStatus returns the current phase and, for a scheduled redraw, its
// deadline.
func (s *State) RedrawStatus() (RedrawPhase, time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.redrawPhase, s.redrawAt
}

// Redrawn marks the frame clean. The frontend calls it after presenting.
func (s *State) Redrawn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.redrawPhase = RedrawClean
	s.redrawAt = time.Time{}
}
