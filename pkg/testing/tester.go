// Package testing provides a headless harness for exercising widget trees:
// a tester that pumps frames through the real layout and redraw passes, a
// recording renderer, and a fake clock for animations.
package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-weft/weft/pkg/animation"
	"github.com/go-weft/weft/pkg/core"
	"github.com/go-weft/weft/pkg/graphics"
)

const (
	// DefaultTestWidth is the default logical width for the test surface.
	DefaultTestWidth = 800
	// DefaultTestHeight is the default logical height for the test surface.
	DefaultTestHeight = 600
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: tree did not settle")

// TreeTester mounts a widget tree against a headless window and drives it
// the way a platform backend would: frames through RenderFrame, input
// through an InputRouter, time through a fake clock.
type TreeTester struct {
	tree     *core.Tree
	root     *core.MountedWidget
	window   *HeadlessWindow
	renderer *RecordingRenderer
	router   *core.InputRouter
	clock    *FakeClock
}

// NewTreeTester mounts root as the tree root and registers cleanup with t.
// The root's Mounted hook fires before this returns.
func NewTreeTester(t *testing.T, root core.Widget) *TreeTester {
	t.Helper()
	size := graphics.Size{Width: DefaultTestWidth, Height: DefaultTestHeight}
	tester := &TreeTester{
		tree:     core.NewTree(),
		window:   NewHeadlessWindow(size),
		renderer: NewRecordingRenderer(size),
		clock:    NewFakeClock(),
	}
	prev := animation.SetClock(tester.clock)
	t.Cleanup(func() {
		animation.SetClock(prev)
		tester.window.Close()
	})

	tester.root = tester.tree.Push(core.NewWidgetInstance(root), 0)
	tester.router = core.NewInputRouter(tester.root, tester.window, tester.renderer)
	core.Dispatch(tester.root, tester.window, tester.renderer, func(ctx *core.EventContext) {
		tester.root.Lock(func(w core.Widget) {
			w.Mounted(ctx.WidgetContext)
		})
	})
	return tester
}

// Root returns the mounted root widget.
func (t *TreeTester) Root() *core.MountedWidget { return t.root }

// Tree returns the widget tree.
func (t *TreeTester) Tree() *core.Tree { return t.tree }

// Window returns the headless window the tree is mounted in.
func (t *TreeTester) Window() *HeadlessWindow { return t.window }

// Renderer returns the recording renderer. Ops accumulate per frame; Pump
// resets them before drawing.
func (t *TreeTester) Renderer() *RecordingRenderer { return t.renderer }

// Clock returns the fake clock driving animations.
func (t *TreeTester) Clock() *FakeClock { return t.clock }

// Pump runs one frame: drains the window's redraw request, steps active
// tickers, then lays out and redraws the tree. It returns the widgets
// invalidated since the previous frame.
func (t *TreeTester) Pump() []uint64 {
	select {
	case <-t.window.Handle().RedrawSignal():
	default:
	}
	invalidated := t.window.Handle().BeginRedraw()
	animation.StepTickers()
	t.renderer.Reset()
	core.RenderFrame(t.root, t.window, t.renderer)
	return invalidated
}

// PumpAndSettle pumps frames until no work remains or timeout elapses,
// advancing the fake clock 16ms per frame.
func (t *TreeTester) PumpAndSettle(timeout time.Duration) error {
	const frameDuration = 16 * time.Millisecond
	var elapsed time.Duration
	for elapsed < timeout {
		t.Pump()
		if !t.needsWork() {
			return nil
		}
		t.clock.Advance(frameDuration)
		elapsed += frameDuration
	}
	return ErrSettleTimeout
}

func (t *TreeTester) needsWork() bool {
	if animation.HasActiveTickers() {
		return true
	}
	select {
	case <-t.window.Handle().RedrawSignal():
		// Consumed; the next Pump drains state via BeginRedraw anyway.
		return true
	default:
		return false
	}
}

// AddChild mounts widget under parent inside a dispatch scope and returns
// the mounted node.
func (t *TreeTester) AddChild(parent *core.MountedWidget, widget core.Widget) *core.MountedWidget {
	var mounted *core.MountedWidget
	core.Dispatch(t.root, t.window, t.renderer, func(ctx *core.EventContext) {
		mounted = ctx.ForOther(parent).PushChild(core.NewWidgetInstance(widget))
	})
	return mounted
}

// RemoveChild unmounts child from its parent inside a dispatch scope.
func (t *TreeTester) RemoveChild(child *core.MountedWidget) {
	parent := child.Parent()
	if parent == nil {
		return
	}
	core.Dispatch(t.root, t.window, t.renderer, func(ctx *core.EventContext) {
		ctx.ForOther(parent).RemoveChild(child)
	})
}

// FocusWidget stages focus on widget and commits it.
func (t *TreeTester) FocusWidget(widget *core.MountedWidget) {
	core.Dispatch(t.root, t.window, t.renderer, func(ctx *core.EventContext) {
		ctx.ForOther(widget).Focus()
	})
}

// MoveCursor moves the pointer to p, updating hover or delivering a drag.
func (t *TreeTester) MoveCursor(p graphics.Point) {
	t.router.CursorMoved(p)
}

// LeaveWindow moves the pointer out of the window.
func (t *TreeTester) LeaveWindow() {
	t.router.CursorLeft()
}

// PressMouse presses button at the current cursor position.
func (t *TreeTester) PressMouse(button core.MouseButton) core.EventHandling {
	return t.router.MouseDown(0, button)
}

// ReleaseMouse releases button, routing to whichever widget captured it.
func (t *TreeTester) ReleaseMouse(button core.MouseButton) {
	t.router.MouseUp(0, button)
}

// Click moves the cursor to p and performs a left press and release.
func (t *TreeTester) Click(p graphics.Point) core.EventHandling {
	t.MoveCursor(p)
	handling := t.PressMouse(core.MouseButtonLeft)
	t.ReleaseMouse(core.MouseButtonLeft)
	return handling
}

// SendKey routes a single key event through the keyboard dispatch path.
func (t *TreeTester) SendKey(event core.KeyEvent) core.EventHandling {
	return t.router.KeyboardInput(event)
}

// TypeKey presses and releases the named key with the given modifiers.
func (t *TreeTester) TypeKey(key string, mods core.Modifiers) core.EventHandling {
	handling := t.SendKey(core.KeyEvent{Key: key, State: core.KeyPressed, Modifiers: mods})
	t.SendKey(core.KeyEvent{Key: key, State: core.KeyReleased, Modifiers: mods})
	return handling
}

// Wheel scrolls by delta at the current hover chain.
func (t *TreeTester) Wheel(delta graphics.Point) core.EventHandling {
	return t.router.MouseWheel(delta)
}
