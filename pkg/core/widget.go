// Package core implements the widget tree and its dispatch contexts: mount
// and unmount lifecycles, layout measurement, hit-testing, and the
// focus/active/hover state machines driven by input events.
package core

import (
	"sync"

	"github.com/go-weft/weft/pkg/graphics"
)

// EventHandling tells the dispatcher whether an event should continue
// propagating.
type EventHandling int

const (
	// Ignored lets the event continue to ancestors or siblings.
	Ignored EventHandling = iota
	// Handled stops further dispatch.
	Handled
)

// Widget is implemented by everything mounted in a tree. Every hook has a
// no-op default in WidgetBase, so implementations override only what they
// react to.
type Widget interface {
	// Mounted is called after the widget becomes reachable in the tree.
	Mounted(ctx *WidgetContext)
	// Unmounted is called before the widget is detached. Tree state is
	// still readable so the widget can release references to itself.
	Unmounted(ctx *WidgetContext)

	// HitTest reports whether a point inside the widget's bounds should
	// count as hitting it. Bounds containment is checked by the caller;
	// this lets a widget decline hits in transparent regions.
	HitTest(location graphics.Point, ctx *EventContext) bool
	// Hover is called when the widget enters the hover chain.
	Hover(location graphics.Point, ctx *EventContext)
	// Unhover is called when the widget leaves the hover chain.
	Unhover(ctx *EventContext)

	// AcceptFocus reports whether the widget can take keyboard focus.
	AcceptFocus(ctx *EventContext) bool
	// Focus is called when the widget gains keyboard focus.
	Focus(ctx *WidgetContext)
	// Blur is called when the widget loses keyboard focus.
	Blur(ctx *WidgetContext)
	// Activate is called when the widget becomes the active widget.
	Activate(ctx *WidgetContext)
	// Deactivate is called when the widget stops being active.
	Deactivate(ctx *WidgetContext)

	MouseDown(location graphics.Point, device DeviceID, button MouseButton, ctx *EventContext) EventHandling
	// MouseDrag is delivered to the widget that handled the corresponding
	// MouseDown, regardless of where the cursor currently is.
	MouseDrag(location graphics.Point, device DeviceID, button MouseButton, ctx *EventContext)
	// MouseUp receives nil when the cursor left the window before release.
	MouseUp(location *graphics.Point, device DeviceID, button MouseButton, ctx *EventContext)
	KeyboardInput(event KeyEvent, ctx *EventContext) EventHandling
	MouseWheel(delta graphics.Point, ctx *EventContext) EventHandling

	// Redraw draws the widget into the context's renderer.
	Redraw(ctx *GraphicsContext)
	// Layout measures the widget within the available space and returns
	// the size it wants.
	Layout(available graphics.Size, ctx *LayoutContext) graphics.Size
}

// WidgetBase provides the default no-op implementation of every hook.
// Embed it so new hooks never break existing widgets.
type WidgetBase struct{}

func (WidgetBase) Mounted(*WidgetContext)   {}
func (WidgetBase) Unmounted(*WidgetContext) {}

func (WidgetBase) HitTest(graphics.Point, *EventContext) bool { return false }
func (WidgetBase) Hover(graphics.Point, *EventContext)        {}
func (WidgetBase) Unhover(*EventContext)                      {}

func (WidgetBase) AcceptFocus(*EventContext) bool { return false }
func (WidgetBase) Focus(*WidgetContext)           {}
func (WidgetBase) Blur(*WidgetContext)            {}
func (WidgetBase) Activate(*WidgetContext)        {}
func (WidgetBase) Deactivate(*WidgetContext)      {}

func (WidgetBase) MouseDown(graphics.Point, DeviceID, MouseButton, *EventContext) EventHandling {
	return Ignored
}
func (WidgetBase) MouseDrag(graphics.Point, DeviceID, MouseButton, *EventContext) {}
func (WidgetBase) MouseUp(*graphics.Point, DeviceID, MouseButton, *EventContext)  {}
func (WidgetBase) KeyboardInput(KeyEvent, *EventContext) EventHandling {
	return Ignored
}
func (WidgetBase) MouseWheel(graphics.Point, *EventContext) EventHandling {
	return Ignored
}

func (WidgetBase) Redraw(*GraphicsContext) {}
func (WidgetBase) Layout(graphics.Size, *LayoutContext) graphics.Size {
	return graphics.Size{}
}

// WidgetInstance wraps a widget behind a mutex so the tree-held reference
// and closure-held references can alias the same widget safely.
type WidgetInstance struct {
	mu     sync.Mutex
	widget Widget
}

// NewWidgetInstance wraps a widget for mounting.
func NewWidgetInstance(w Widget) *WidgetInstance {
	return &WidgetInstance{widget: w}
}

// Lock runs f with exclusive access to the widget. Hooks invoked through a
// context run under this lock; f must not lock the same instance again.
func (i *WidgetInstance) Lock(f func(Widget)) {
	i.mu.Lock()
	defer i.mu.Unlock()
	f(i.widget)
}
