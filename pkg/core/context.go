package core

import (
	"fmt"

	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/graphics"
	"github.com/go-weft/weft/pkg/window"
)

// maxPendingChangeCycles bounds the commit loops in ApplyPendingState. A
// focus or activation hook that keeps redirecting the slot would otherwise
// loop forever; past this many cycles the loop stops and the runaway is
// reported.
const maxPendingChangeCycles = 100

// pendingState stages focus/active changes during one top-level dispatch.
// Hooks observe the pre-transaction tree; the staged targets are committed
// exactly once when the dispatch scope ends.
type pendingState struct {
	// nil: untouched. Pointer to zero: explicitly cleared.
	focus  *WidgetID
	active *WidgetID
	// focusAdvancing marks the staged focus as coming from focus traversal,
	// so a widget declining focus forwards it instead of dropping it.
	focusAdvancing bool

	// Re-entrant RemoveChild calls queue here while an unmount is already
	// running.
	unmountQueue []unmountRequest
	unmounting   bool
}

type unmountRequest struct {
	child  *MountedWidget
	parent *MountedWidget
}

// WidgetContext is a transient cursor bound to one mounted widget. It must
// not be retained past the dispatch call that created it.
type WidgetContext struct {
	widget  *MountedWidget
	window  window.PlatformWindow
	pending *pendingState
}

// NewWidgetContext creates a root context owning fresh pending state.
// Prefer Dispatch, which also guarantees the commit.
func NewWidgetContext(widget *MountedWidget, win window.PlatformWindow) *WidgetContext {
	return &WidgetContext{widget: widget, window: win, pending: &pendingState{}}
}

// ForOther rebinds the context to another widget. The pending state is
// shared, so one top-level dispatch commits exactly once no matter how many
// widgets it touched.
func (c *WidgetContext) ForOther(widget *MountedWidget) *WidgetContext {
	return &WidgetContext{widget: widget, window: c.window, pending: c.pending}
}

// Widget returns the widget this context is bound to.
func (c *WidgetContext) Widget() *MountedWidget { return c.widget }

// Tree returns the owning tree.
func (c *WidgetContext) Tree() *Tree { return c.widget.tree }

// Window returns the platform window driving this dispatch.
func (c *WidgetContext) Window() window.PlatformWindow { return c.window }

// Focus stages keyboard focus for this widget. Committed when the dispatch
// scope ends.
func (c *WidgetContext) Focus() {
	id := c.widget.id
	c.pending.focus = &id
	c.pending.focusAdvancing = false
}

// Blur stages clearing focus, but only if this widget holds it (staged or
// committed). Blurring the active widget also stages its deactivation so
// "active but unfocused" cannot persist past an explicit blur.
func (c *WidgetContext) Blur() {
	if c.stagedFocus() == c.widget.id {
		var none WidgetID
		c.pending.focus = &none
	}
	if c.stagedActive() == c.widget.id {
		var none WidgetID
		c.pending.active = &none
	}
}

// Activate stages this widget as the active widget.
func (c *WidgetContext) Activate() {
	id := c.widget.id
	c.pending.active = &id
}

// Deactivate stages clearing the active slot if this widget holds it.
func (c *WidgetContext) Deactivate() {
	if c.stagedActive() == c.widget.id {
		var none WidgetID
		c.pending.active = &none
	}
}

// stagedFocus returns the focus target as hooks running later in this
// dispatch will observe it after commit.
func (c *WidgetContext) stagedFocus() WidgetID {
	if c.pending.focus != nil {
		return *c.pending.focus
	}
	return c.widget.tree.Focused()
}

func (c *WidgetContext) stagedActive() WidgetID {
	if c.pending.active != nil {
		return *c.pending.active
	}
	return c.widget.tree.Active()
}

// IsFocused reports whether this widget holds committed keyboard focus.
func (c *WidgetContext) IsFocused() bool { return c.widget.Focused() }

// IsActive reports whether this widget is the committed active widget.
func (c *WidgetContext) IsActive() bool { return c.widget.Active() }

// IsHovered reports whether this widget is in the hover chain.
func (c *WidgetContext) IsHovered() bool { return c.widget.Hovered() }

// PushChild mounts instance under this widget and fires its Mounted hook
// with a context scoped to the new node. The hook runs after the node is
// reachable from its parent.
func (c *WidgetContext) PushChild(instance *WidgetInstance) *MountedWidget {
	mounted := c.widget.tree.Push(instance, c.widget.id)
	childCtx := c.ForOther(mounted)
	mounted.Lock(func(w Widget) {
		w.Mounted(childCtx)
	})
	return mounted
}

// RemoveChild unmounts child: its subtree's Unmounted hooks fire deepest
// first while the tree is still intact, then the subtree is detached. A
// RemoveChild issued from inside an Unmounted hook queues behind the one in
// progress instead of recursing.
func (c *WidgetContext) RemoveChild(child *MountedWidget) {
	c.pending.unmountQueue = append(c.pending.unmountQueue, unmountRequest{child: child, parent: c.widget})
	if c.pending.unmounting {
		return
	}
	c.pending.unmounting = true
	defer func() { c.pending.unmounting = false }()
	for len(c.pending.unmountQueue) > 0 {
		req := c.pending.unmountQueue[0]
		c.pending.unmountQueue = c.pending.unmountQueue[1:]
		c.unmountSubtree(req.child)
		req.child.tree.RemoveChild(req.child.id, req.parent.id)
	}
}

// unmountSubtree fires Unmounted hooks bottom-up so parents still see
// mounted children while they run.
func (c *WidgetContext) unmountSubtree(widget *MountedWidget) {
	for _, child := range widget.Children() {
		c.unmountSubtree(child)
	}
	ctx := c.ForOther(widget)
	widget.Lock(func(w Widget) {
		w.Unmounted(ctx)
	})
}

// EventContext dispatches input events. It carries a renderer because
// hit-testing and focus traversal may need measurements.
type EventContext struct {
	*WidgetContext
	renderer graphics.Renderer
}

// NewEventContext wraps a widget context for event dispatch. The renderer
// may be nil for purely structural dispatches.
func NewEventContext(ctx *WidgetContext, renderer graphics.Renderer) *EventContext {
	return &EventContext{WidgetContext: ctx, renderer: renderer}
}

// ForOther rebinds the event context to another widget, sharing pending
// state.
func (c *EventContext) ForOther(widget *MountedWidget) *EventContext {
	return &EventContext{WidgetContext: c.WidgetContext.ForOther(widget), renderer: c.renderer}
}

// Renderer returns the renderer for measurement during dispatch, which may
// be nil.
func (c *EventContext) Renderer() graphics.Renderer { return c.renderer }

// HitTest asks the widget whether the window-relative point hits it.
func (c *EventContext) HitTest(location graphics.Point) bool {
	hit := false
	c.widget.Lock(func(w Widget) {
		hit = w.HitTest(location, c)
	})
	return hit
}

// MouseDown delivers a press to the widget.
func (c *EventContext) MouseDown(location graphics.Point, device DeviceID, button MouseButton) EventHandling {
	handling := Ignored
	c.widget.Lock(func(w Widget) {
		handling = w.MouseDown(location, device, button, c)
	})
	return handling
}

// MouseDrag delivers cursor movement to the widget that captured the press.
func (c *EventContext) MouseDrag(location graphics.Point, device DeviceID, button MouseButton) {
	c.widget.Lock(func(w Widget) {
		w.MouseDrag(location, device, button, c)
	})
}

// MouseUp delivers a release to the capturing widget. location is nil when
// the cursor left the window first.
func (c *EventContext) MouseUp(location *graphics.Point, device DeviceID, button MouseButton) {
	c.widget.Lock(func(w Widget) {
		w.MouseUp(location, device, button, c)
	})
}

// KeyboardInput delivers a key event to the widget.
func (c *EventContext) KeyboardInput(event KeyEvent) EventHandling {
	handling := Ignored
	c.widget.Lock(func(w Widget) {
		handling = w.KeyboardInput(event, c)
	})
	return handling
}

// MouseWheel delivers a scroll to the widget.
func (c *EventContext) MouseWheel(delta graphics.Point) EventHandling {
	handling := Ignored
	c.widget.Lock(func(w Widget) {
		handling = w.MouseWheel(delta, c)
	})
	return handling
}

// AcceptFocus asks the widget whether it takes keyboard focus.
func (c *EventContext) AcceptFocus() bool {
	accepts := false
	c.widget.Lock(func(w Widget) {
		accepts = w.AcceptFocus(c)
	})
	return accepts
}

// Hover transitions the hover chain to end at this context's widget,
// immediately (not staged): Unhover fires along the departing part of the
// old chain leaf-first, then Hover fires along the entering part of the new
// chain ancestor-first. Shared ancestors see neither. Returns whether the
// chain changed.
func (c *EventContext) Hover(location graphics.Point) bool {
	return c.applyHover(c.widget.id, location)
}

// ClearHover empties the hover chain, firing Unhover bottom-up.
func (c *EventContext) ClearHover() bool {
	return c.applyHover(0, graphics.Point{})
}

func (c *EventContext) applyHover(target WidgetID, location graphics.Point) bool {
	tree := c.widget.tree
	unhovered, hovered := tree.Hover(target)
	if len(unhovered) == 0 && len(hovered) == 0 {
		return false
	}
	for _, id := range unhovered {
		if w := tree.Widget(id); w != nil {
			ctx := c.ForOther(w)
			w.Lock(func(widget Widget) {
				widget.Unhover(ctx)
			})
		}
	}
	for _, id := range hovered {
		if w := tree.Widget(id); w != nil {
			ctx := c.ForOther(w)
			w.Lock(func(widget Widget) {
				widget.Hover(location, ctx)
			})
		}
	}
	return true
}

// AdvanceFocus stages focus on the next widget in tree order that accepts
// it, wrapping past the end. Used for Tab traversal.
func (c *EventContext) AdvanceFocus() {
	c.moveFocus(false)
}

// ReturnFocus stages focus on the previous accepting widget in tree order.
// Used for Shift+Tab traversal.
func (c *EventContext) ReturnFocus() {
	c.moveFocus(true)
}

func (c *EventContext) moveFocus(reverse bool) {
	if next := c.nextAcceptingFocus(c.stagedFocus(), reverse); next != 0 {
		c.pending.focus = &next
		c.pending.focusAdvancing = true
	}
}

// nextAcceptingFocus scans the tree in depth-first order starting after
// `from` (before it when reverse), wrapping around, and returns the first
// widget accepting focus. Zero when none accepts.
func (c *EventContext) nextAcceptingFocus(from WidgetID, reverse bool) WidgetID {
	tree := c.widget.tree
	order := tree.traversalOrder()
	if len(order) == 0 {
		return 0
	}
	if reverse {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	start := 0
	for i, id := range order {
		if id == from {
			start = i + 1
			break
		}
	}
	for i := 0; i < len(order); i++ {
		id := order[(start+i)%len(order)]
		if id == from {
			continue
		}
		w := tree.Widget(id)
		if w == nil {
			continue
		}
		if c.ForOther(w).AcceptFocus() {
			return id
		}
	}
	return 0
}

// traversalOrder returns every widget id in depth-first mount order.
func (t *Tree) traversalOrder() []WidgetID {
	t.mu.Lock()
	defer t.mu.Unlock()
	var order []WidgetID
	var walk func(WidgetID)
	walk = func(id WidgetID) {
		node, ok := t.nodes[id]
		if !ok {
			return
		}
		order = append(order, id)
		for _, child := range node.children {
			walk(child)
		}
	}
	if t.root != 0 {
		walk(t.root)
	}
	return order
}

// ApplyPendingState commits staged activation then focus. Each commit runs
// the outgoing widget's hook strictly before the incoming widget's hook, so
// no two widgets are ever observed holding the same slot. Hooks may stage
// further changes; the loops rerun until stable or until the cycle cap.
func (c *EventContext) ApplyPendingState() {
	c.applyPendingActivation()
	c.applyPendingFocus()
}

func (c *EventContext) applyPendingActivation() {
	tree := c.widget.tree
	for cycle := 0; ; cycle++ {
		if cycle >= maxPendingChangeCycles {
			c.reportRunaway("activation")
			return
		}
		staged := c.pending.active
		c.pending.active = nil
		if staged == nil {
			return
		}
		old, err := tree.Activate(*staged)
		if err != nil {
			continue
		}
		if w := tree.Widget(old); w != nil {
			ctx := c.WidgetContext.ForOther(w)
			w.Lock(func(widget Widget) {
				widget.Deactivate(ctx)
			})
		}
		if w := tree.Widget(*staged); w != nil {
			ctx := c.WidgetContext.ForOther(w)
			w.Lock(func(widget Widget) {
				widget.Activate(ctx)
			})
		}
	}
}

func (c *EventContext) applyPendingFocus() {
	tree := c.widget.tree
	for cycle := 0; ; cycle++ {
		if cycle >= maxPendingChangeCycles {
			c.reportRunaway("focus")
			return
		}
		staged := c.pending.focus
		advancing := c.pending.focusAdvancing
		c.pending.focus = nil
		c.pending.focusAdvancing = false
		if staged == nil {
			return
		}
		target := c.resolveFocusTarget(*staged, advancing)
		old, err := tree.Focus(target)
		if err != nil {
			continue
		}
		if w := tree.Widget(old); w != nil {
			ctx := c.WidgetContext.ForOther(w)
			w.Lock(func(widget Widget) {
				widget.Blur(ctx)
			})
			// Losing focus while active releases the activation too; the
			// click-drag-release interaction depends on it.
			if tree.Active() == old {
				var none WidgetID
				c.pending.active = &none
				c.applyPendingActivation()
			}
		}
		if target != 0 {
			if w := tree.Widget(target); w != nil {
				ctx := c.WidgetContext.ForOther(w)
				w.Lock(func(widget Widget) {
					widget.Focus(ctx)
				})
			}
		}
	}
}

// resolveFocusTarget validates a staged focus target. Explicit Focus()
// assignments commit as-is; traversal-driven focus consults AcceptFocus and
// forwards past a widget that declines.
func (c *EventContext) resolveFocusTarget(target WidgetID, advancing bool) WidgetID {
	if target == 0 {
		return 0
	}
	w := c.widget.tree.Widget(target)
	if w == nil {
		return 0
	}
	if !advancing || c.ForOther(w).AcceptFocus() {
		return target
	}
	return c.nextAcceptingFocus(target, false)
}

func (c *EventContext) reportRunaway(slot string) {
	errors.Report(&errors.WeftError{
		Op:   "core.ApplyPendingState",
		Kind: errors.KindTree,
		Err:  fmt.Errorf("%s changes did not settle after %d cycles", slot, maxPendingChangeCycles),
	})
}

// Dispatch runs f with an event context rooted at widget and always commits
// staged focus/active changes afterwards, including when f panics (the
// panic is reported first). This is the required entry point for input
// dispatch: it preserves "exactly one commit per top-level dispatch".
func Dispatch(widget *MountedWidget, win window.PlatformWindow, renderer graphics.Renderer, f func(*EventContext)) {
	ctx := NewEventContext(NewWidgetContext(widget, win), renderer)
	defer ctx.ApplyPendingState()
	defer errors.Recover("core.Dispatch")
	f(ctx)
}
