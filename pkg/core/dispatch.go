package core

import (
	"github.com/go-weft/weft/pkg/graphics"
	"github.com/go-weft/weft/pkg/window"
)

// InputRouter turns window-level input into context dispatch: hover
// tracking on cursor movement, pointer capture across press/drag/release,
// keyboard routing to the focused widget, and wheel routing to the hover
// chain. Every entry point runs inside a dispatch scope, so staged
// focus/active changes commit exactly once per event.
type InputRouter struct {
	root     *MountedWidget
	window   window.PlatformWindow
	renderer graphics.Renderer

	// cursor is the last known position, nil while outside the window.
	cursor *graphics.Point
	// captures maps a pressed (device, button) to the widget that handled
	// the press. Drag and release route here, not to the widget under the
	// cursor.
	captures map[captureKey]WidgetID
}

type captureKey struct {
	device DeviceID
	button MouseButton
}

// NewInputRouter creates a router dispatching into root's tree. The
// renderer may be nil when events never need measurement.
func NewInputRouter(root *MountedWidget, win window.PlatformWindow, renderer graphics.Renderer) *InputRouter {
	return &InputRouter{
		root:     root,
		window:   win,
		renderer: renderer,
		captures: make(map[captureKey]WidgetID),
	}
}

// CursorMoved processes pointer movement. While any button is captured the
// movement is a drag delivered to the capturing widgets; otherwise it
// updates the hover chain.
func (r *InputRouter) CursorMoved(location graphics.Point) {
	loc := location
	r.cursor = &loc
	if len(r.captures) > 0 {
		Dispatch(r.root, r.window, r.renderer, func(ctx *EventContext) {
			for key, id := range r.captures {
				if w := r.root.tree.Widget(id); w != nil {
					ctx.ForOther(w).MouseDrag(location, key.device, key.button)
				}
			}
		})
		return
	}
	Dispatch(r.root, r.window, r.renderer, func(ctx *EventContext) {
		if target := r.hitWidget(ctx, location); target != nil {
			ctx.ForOther(target).Hover(location)
		} else {
			ctx.ClearHover()
		}
	})
}

// CursorLeft processes the pointer leaving the window.
func (r *InputRouter) CursorLeft() {
	r.cursor = nil
	Dispatch(r.root, r.window, r.renderer, func(ctx *EventContext) {
		ctx.ClearHover()
	})
}

// MouseDown routes a press to widgets under the cursor, topmost first,
// until one handles it; that widget captures the button until release. An
// unhandled press on empty space clears keyboard focus.
func (r *InputRouter) MouseDown(device DeviceID, button MouseButton) EventHandling {
	if r.cursor == nil {
		return Ignored
	}
	location := *r.cursor
	handling := Ignored
	Dispatch(r.root, r.window, r.renderer, func(ctx *EventContext) {
		for _, id := range r.root.tree.WidgetsAt(location) {
			w := r.root.tree.Widget(id)
			if w == nil {
				continue
			}
			wctx := ctx.ForOther(w)
			if !wctx.HitTest(location) {
				continue
			}
			if wctx.MouseDown(location, device, button) == Handled {
				r.captures[captureKey{device: device, button: button}] = id
				handling = Handled
				return
			}
		}
		var none WidgetID
		ctx.pending.focus = &none
		ctx.pending.focusAdvancing = false
	})
	return handling
}

// MouseUp releases a captured button, delivering the release to the widget
// that handled the press. The location is nil when the cursor left the
// window before release.
func (r *InputRouter) MouseUp(device DeviceID, button MouseButton) {
	key := captureKey{device: device, button: button}
	id, captured := r.captures[key]
	if !captured {
		return
	}
	delete(r.captures, key)
	Dispatch(r.root, r.window, r.renderer, func(ctx *EventContext) {
		if w := r.root.tree.Widget(id); w != nil {
			ctx.ForOther(w).MouseUp(r.cursor, device, button)
		}
	})
}

// KeyboardInput routes a key event to the focused widget, bubbling through
// its ancestors until handled. Unhandled presses drive focus traversal
// (Tab / Shift+Tab) and the tree's default and escape activations (Enter /
// Escape).
func (r *InputRouter) KeyboardInput(event KeyEvent) EventHandling {
	handling := Ignored
	Dispatch(r.root, r.window, r.renderer, func(ctx *EventContext) {
		tree := r.root.tree
		for id := tree.Focused(); id != 0; id = tree.Parent(id) {
			w := tree.Widget(id)
			if w == nil {
				break
			}
			if ctx.ForOther(w).KeyboardInput(event) == Handled {
				handling = Handled
				return
			}
		}
		if event.State != KeyPressed {
			return
		}
		switch event.Key {
		case KeyTab:
			if event.Modifiers.Held(ModShift) {
				ctx.ReturnFocus()
			} else {
				ctx.AdvanceFocus()
			}
			handling = Handled
		case KeyEnter:
			if target := tree.Widget(tree.DefaultWidget()); target != nil {
				ctx.ForOther(target).Activate()
				handling = Handled
			}
		case KeyEscape:
			if target := tree.Widget(tree.EscapeWidget()); target != nil {
				ctx.ForOther(target).Activate()
				handling = Handled
			}
		}
	})
	return handling
}

// MouseWheel routes a scroll to the hover chain, leaf first.
func (r *InputRouter) MouseWheel(delta graphics.Point) EventHandling {
	handling := Ignored
	Dispatch(r.root, r.window, r.renderer, func(ctx *EventContext) {
		tree := r.root.tree
		for id := tree.Hovered(); id != 0; id = tree.Parent(id) {
			w := tree.Widget(id)
			if w == nil {
				break
			}
			if ctx.ForOther(w).MouseWheel(delta) == Handled {
				handling = Handled
				return
			}
		}
	})
	return handling
}

// hitWidget returns the topmost widget under location that claims the hit.
func (r *InputRouter) hitWidget(ctx *EventContext, location graphics.Point) *MountedWidget {
	for _, id := range r.root.tree.WidgetsAt(location) {
		w := r.root.tree.Widget(id)
		if w == nil {
			continue
		}
		if ctx.ForOther(w).HitTest(location) {
			return w
		}
	}
	return nil
}
