package core

import (
	"testing"

	"github.com/go-weft/weft/pkg/graphics"
)

// routerFixture mounts root > [a, b] with laid-out rects so hit testing
// works: a covers the left half, b the right half.
func routerFixture(log *[]string) (*InputRouter, *Tree, *MountedWidget, *MountedWidget) {
	tree := NewTree()
	root := tree.Push(NewWidgetInstance(&recordingWidget{name: "root", log: log, hitTest: true}), 0)
	win := newFakeWindow()

	var a, b *MountedWidget
	Dispatch(root, win, nil, func(ctx *EventContext) {
		a = ctx.PushChild(NewWidgetInstance(&recordingWidget{
			name: "a", log: log, hitTest: true, acceptFocus: true,
			onMouseDown: func(graphics.Point, *EventContext) EventHandling { return Handled },
		}))
		b = ctx.PushChild(NewWidgetInstance(&recordingWidget{
			name: "b", log: log, hitTest: true, acceptFocus: true,
		}))
	})
	tree.noteRendered(root.ID(), graphics.RectFromLTWH(0, 0, 200, 100))
	tree.noteRendered(a.ID(), graphics.RectFromLTWH(0, 0, 100, 100))
	tree.noteRendered(b.ID(), graphics.RectFromLTWH(100, 0, 100, 100))

	return NewInputRouter(root, win, nil), tree, a, b
}

func TestRouterHoverFollowsCursor(t *testing.T) {
	var log []string
	router, tree, a, b := routerFixture(&log)

	router.CursorMoved(graphics.Point{X: 50, Y: 50})
	if tree.Hovered() != a.ID() {
		t.Errorf("hover = %d, want a (%d)", tree.Hovered(), a.ID())
	}
	router.CursorMoved(graphics.Point{X: 150, Y: 50})
	if tree.Hovered() != b.ID() {
		t.Errorf("hover = %d, want b (%d)", tree.Hovered(), b.ID())
	}
	if indexOf(log, "a:unhover") > indexOf(log, "b:hover") {
		t.Errorf("log = %v, want a unhovered before b hovered", log)
	}

	router.CursorLeft()
	if tree.Hovered() != 0 {
		t.Error("hover should clear when the cursor leaves")
	}
}

func TestRouterPointerCapture(t *testing.T) {
	var log []string
	router, _, _, _ := routerFixture(&log)

	router.CursorMoved(graphics.Point{X: 50, Y: 50})
	if router.MouseDown(0, MouseButtonLeft) != Handled {
		t.Fatal("press over a should be handled")
	}

	// Dragging across b must keep routing to the capturing widget a.
	router.CursorMoved(graphics.Point{X: 150, Y: 50})
	if countEvents(log, "a:mousedrag") != 1 {
		t.Errorf("a saw %d drags, want 1", countEvents(log, "a:mousedrag"))
	}
	if countEvents(log, "b:mousedown") != 0 && countEvents(log, "b:mousedrag") != 0 {
		t.Error("b must not receive captured pointer events")
	}

	router.MouseUp(0, MouseButtonLeft)
	if countEvents(log, "a:mouseup") != 1 {
		t.Errorf("a saw %d mouseups, want 1", countEvents(log, "a:mouseup"))
	}

	// After release, movement is hover again.
	log = log[:0]
	router.CursorMoved(graphics.Point{X: 150, Y: 50})
	if countEvents(log, "a:mousedrag") != 0 {
		t.Error("capture must end on release")
	}
}

func TestRouterMouseUpOutsideWindow(t *testing.T) {
	var log []string
	router, _, _, _ := routerFixture(&log)
	router.CursorMoved(graphics.Point{X: 50, Y: 50})
	router.MouseDown(0, MouseButtonLeft)
	router.CursorLeft()
	router.MouseUp(0, MouseButtonLeft)
	if countEvents(log, "a:mouseup:outside") != 1 {
		t.Errorf("log = %v, want a release with nil location", log)
	}
}

func TestRouterUnhandledPressClearsFocus(t *testing.T) {
	var log []string
	router, tree, _, b := routerFixture(&log)

	Dispatch(tree.Root(), router.window, nil, func(ctx *EventContext) {
		ctx.ForOther(b).Focus()
	})
	if tree.Focused() != b.ID() {
		t.Fatal("b should be focused")
	}

	// b and root ignore presses, so clicking the right half clears focus.
	router.CursorMoved(graphics.Point{X: 150, Y: 50})
	if router.MouseDown(0, MouseButtonLeft) != Ignored {
		t.Fatal("press over b should be ignored")
	}
	if tree.Focused() != 0 {
		t.Error("an unhandled press clears keyboard focus")
	}
}

func TestRouterKeyboardRoutesToFocusedAndBubbles(t *testing.T) {
	var log []string
	router, tree, a, _ := routerFixture(&log)

	Dispatch(tree.Root(), router.window, nil, func(ctx *EventContext) {
		ctx.ForOther(a).Focus()
	})
	router.KeyboardInput(KeyEvent{Key: "x", State: KeyPressed})

	if countEvents(log, "a:key") != 1 {
		t.Errorf("a saw %d key events, want 1", countEvents(log, "a:key"))
	}
	if countEvents(log, "root:key") != 1 {
		t.Errorf("root saw %d key events, want the event to bubble", countEvents(log, "root:key"))
	}
}

func TestRouterTabAdvancesFocus(t *testing.T) {
	var log []string
	router, tree, a, b := routerFixture(&log)

	if router.KeyboardInput(KeyEvent{Key: KeyTab, State: KeyPressed}) != Handled {
		t.Fatal("tab should be handled by traversal")
	}
	if tree.Focused() != a.ID() {
		t.Errorf("focus = %d, want first accepting widget a (%d)", tree.Focused(), a.ID())
	}
	router.KeyboardInput(KeyEvent{Key: KeyTab, State: KeyPressed})
	if tree.Focused() != b.ID() {
		t.Errorf("focus = %d, want b (%d)", tree.Focused(), b.ID())
	}
	router.KeyboardInput(KeyEvent{Key: KeyTab, State: KeyPressed})
	if tree.Focused() != a.ID() {
		t.Errorf("focus = %d, traversal should wrap to a (%d)", tree.Focused(), a.ID())
	}
	router.KeyboardInput(KeyEvent{Key: KeyTab, State: KeyPressed, Modifiers: ModShift})
	if tree.Focused() != b.ID() {
		t.Errorf("focus = %d, shift+tab should go back to b (%d)", tree.Focused(), b.ID())
	}
}

func TestRouterEnterActivatesDefaultWidget(t *testing.T) {
	var log []string
	router, tree, a, _ := routerFixture(&log)
	tree.SetDefaultWidget(a.ID())

	if router.KeyboardInput(KeyEvent{Key: KeyEnter, State: KeyPressed}) != Handled {
		t.Fatal("enter should activate the default widget")
	}
	if tree.Active() != a.ID() {
		t.Errorf("active = %d, want a (%d)", tree.Active(), a.ID())
	}
	if countEvents(log, "a:activate") != 1 {
		t.Errorf("a saw %d activates, want 1", countEvents(log, "a:activate"))
	}
}

func TestRouterWheelRoutesToHoverChain(t *testing.T) {
	var log []string
	router, _, _, _ := routerFixture(&log)
	router.CursorMoved(graphics.Point{X: 50, Y: 50})
	router.MouseWheel(graphics.Point{Y: -3})

	if countEvents(log, "a:wheel") != 1 {
		t.Errorf("a saw %d wheel events, want 1", countEvents(log, "a:wheel"))
	}
	if countEvents(log, "root:wheel") != 1 {
		t.Errorf("root saw %d wheel events, want bubbling through the chain", countEvents(log, "root:wheel"))
	}
}
