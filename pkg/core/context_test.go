package core

import (
	"testing"

	"github.com/go-weft/weft/pkg/errors"
	"github.com/go-weft/weft/pkg/graphics"
)

func mountRoot(log *[]string) (*Tree, *MountedWidget, *fakeWindow) {
	tree := NewTree()
	root := tree.Push(NewWidgetInstance(&recordingWidget{name: "root", log: log}), 0)
	return tree, root, newFakeWindow()
}

func TestPushChildFiresMountedOnceAfterInsertion(t *testing.T) {
	var log []string
	_, root, win := mountRoot(&log)

	var parentSeen bool
	child := &recordingWidget{name: "child", log: &log, onMounted: func(ctx *WidgetContext) {
		parentSeen = ctx.Widget().Parent() != nil
	}}
	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.PushChild(NewWidgetInstance(child))
	})

	if countEvents(log, "child:mounted") != 1 {
		t.Errorf("mounted fired %d times, want 1", countEvents(log, "child:mounted"))
	}
	if !parentSeen {
		t.Error("during Mounted the child must already be reachable from its parent")
	}
}

func TestRemoveChildFiresUnmountedBeforeDetach(t *testing.T) {
	var log []string
	tree, root, win := mountRoot(&log)

	var child *MountedWidget
	var reachableDuringUnmount bool
	widget := &recordingWidget{name: "child", log: &log, onUnmounted: func(ctx *WidgetContext) {
		reachableDuringUnmount = tree.Widget(child.ID()) != nil
	}}
	Dispatch(root, win, nil, func(ctx *EventContext) {
		child = ctx.PushChild(NewWidgetInstance(widget))
	})
	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.RemoveChild(child)
	})

	if countEvents(log, "child:unmounted") != 1 {
		t.Errorf("unmounted fired %d times, want 1", countEvents(log, "child:unmounted"))
	}
	if !reachableDuringUnmount {
		t.Error("during Unmounted the widget must still be reachable in the tree")
	}
	if tree.Widget(child.ID()) != nil {
		t.Error("after RemoveChild the widget must be gone")
	}
}

func TestUnmountRunsBottomUp(t *testing.T) {
	var log []string
	_, root, win := mountRoot(&log)

	var parent *MountedWidget
	Dispatch(root, win, nil, func(ctx *EventContext) {
		parent = ctx.PushChild(NewWidgetInstance(&recordingWidget{name: "parent", log: &log}))
		ctx.ForOther(parent).PushChild(NewWidgetInstance(&recordingWidget{name: "leaf", log: &log}))
	})
	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.RemoveChild(parent)
	})

	leafAt := indexOf(log, "leaf:unmounted")
	parentAt := indexOf(log, "parent:unmounted")
	if leafAt < 0 || parentAt < 0 || leafAt > parentAt {
		t.Errorf("unmount order = %v, want leaf before parent", log)
	}
}

func TestReentrantRemoveChildQueues(t *testing.T) {
	var log []string
	_, root, win := mountRoot(&log)

	var a, b *MountedWidget
	widgetA := &recordingWidget{name: "a", log: &log, onUnmounted: func(ctx *WidgetContext) {
		// Removing a sibling from inside an unmount hook must queue, not
		// recurse.
		ctx.ForOther(ctx.Widget().Tree().Root()).RemoveChild(b)
	}}
	Dispatch(root, win, nil, func(ctx *EventContext) {
		a = ctx.PushChild(NewWidgetInstance(widgetA))
		b = ctx.PushChild(NewWidgetInstance(&recordingWidget{name: "b", log: &log}))
	})
	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.RemoveChild(a)
	})

	if countEvents(log, "a:unmounted") != 1 || countEvents(log, "b:unmounted") != 1 {
		t.Errorf("log = %v, want both unmounted exactly once", log)
	}
	if indexOf(log, "a:unmounted") > indexOf(log, "b:unmounted") {
		t.Errorf("log = %v, queued removal must run after the one in progress", log)
	}
}

func TestFocusHandOffOrdering(t *testing.T) {
	var log []string
	tree, root, win := mountRoot(&log)

	var a, b *MountedWidget
	Dispatch(root, win, nil, func(ctx *EventContext) {
		a = ctx.PushChild(NewWidgetInstance(&recordingWidget{name: "a", log: &log, acceptFocus: true}))
		b = ctx.PushChild(NewWidgetInstance(&recordingWidget{name: "b", log: &log, acceptFocus: true}))
	})

	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.ForOther(a).Focus()
		if tree.Focused() != 0 {
			t.Error("focus must stay staged until the dispatch scope ends")
		}
	})
	if tree.Focused() != a.ID() {
		t.Fatal("focus should commit when the dispatch scope ends")
	}

	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.ForOther(b).Focus()
	})

	if countEvents(log, "a:blur") != 1 {
		t.Errorf("a observed %d blurs, want exactly 1", countEvents(log, "a:blur"))
	}
	if countEvents(log, "b:focus") != 1 {
		t.Errorf("b observed %d focuses, want exactly 1", countEvents(log, "b:focus"))
	}
	if indexOf(log, "a:blur") > indexOf(log, "b:focus") {
		t.Errorf("log = %v, blur of the old holder must strictly precede focus of the new", log)
	}
	if tree.Focused() != b.ID() {
		t.Error("focus should now rest on b")
	}
}

func TestBlurClearsActive(t *testing.T) {
	var log []string
	tree, root, win := mountRoot(&log)

	var a *MountedWidget
	Dispatch(root, win, nil, func(ctx *EventContext) {
		a = ctx.PushChild(NewWidgetInstance(&recordingWidget{name: "a", log: &log, acceptFocus: true}))
	})
	Dispatch(root, win, nil, func(ctx *EventContext) {
		actx := ctx.ForOther(a)
		actx.Focus()
		actx.Activate()
	})
	if tree.Focused() != a.ID() || tree.Active() != a.ID() {
		t.Fatal("a should be focused and active")
	}

	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.ForOther(a).Blur()
	})
	if tree.Focused() != 0 {
		t.Error("blur should clear focus")
	}
	if tree.Active() != 0 {
		t.Error("blurring the active widget must also deactivate it")
	}
	if countEvents(log, "a:deactivate") != 1 {
		t.Errorf("a observed %d deactivates, want 1", countEvents(log, "a:deactivate"))
	}
}

func TestFocusLossDeactivatesOldHolder(t *testing.T) {
	var log []string
	tree, root, win := mountRoot(&log)

	var a, b *MountedWidget
	Dispatch(root, win, nil, func(ctx *EventContext) {
		a = ctx.PushChild(NewWidgetInstance(&recordingWidget{name: "a", log: &log, acceptFocus: true}))
		b = ctx.PushChild(NewWidgetInstance(&recordingWidget{name: "b", log: &log, acceptFocus: true}))
	})
	Dispatch(root, win, nil, func(ctx *EventContext) {
		actx := ctx.ForOther(a)
		actx.Focus()
		actx.Activate()
	})
	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.ForOther(b).Focus()
	})
	if tree.Active() != 0 {
		t.Errorf("active = %d, want cleared when its holder lost focus", tree.Active())
	}
}

func TestPendingRunawayStopsAtCycleCap(t *testing.T) {
	oldHandler := errors.DefaultHandler
	reported := 0
	errors.SetHandler(&captureHandler{onError: func(*errors.WeftError) { reported++ }})
	defer errors.SetHandler(oldHandler)

	var log []string
	_, root, win := mountRoot(&log)

	var a, b *MountedWidget
	// Each widget's focus hook immediately re-stages focus on the other.
	widgetA := &recordingWidget{name: "a", log: &log, acceptFocus: true}
	widgetB := &recordingWidget{name: "b", log: &log, acceptFocus: true}
	widgetA.onFocus = func(ctx *WidgetContext) { ctx.ForOther(b).Focus() }
	widgetB.onFocus = func(ctx *WidgetContext) { ctx.ForOther(a).Focus() }

	Dispatch(root, win, nil, func(ctx *EventContext) {
		a = ctx.PushChild(NewWidgetInstance(widgetA))
		b = ctx.PushChild(NewWidgetInstance(widgetB))
	})
	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.ForOther(a).Focus()
	})

	if reported == 0 {
		t.Error("a runaway focus loop must be reported")
	}
	total := countEvents(log, "a:focus") + countEvents(log, "b:focus")
	if total > maxPendingChangeCycles+1 {
		t.Errorf("focus hooks ran %d times, the cycle cap must bound the loop", total)
	}
}

func TestDispatchCommitsOnPanic(t *testing.T) {
	oldHandler := errors.DefaultHandler
	errors.SetHandler(&captureHandler{})
	defer errors.SetHandler(oldHandler)

	var log []string
	tree, root, win := mountRoot(&log)
	var a *MountedWidget
	Dispatch(root, win, nil, func(ctx *EventContext) {
		a = ctx.PushChild(NewWidgetInstance(&recordingWidget{name: "a", log: &log, acceptFocus: true}))
	})

	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.ForOther(a).Focus()
		panic("handler exploded")
	})

	if tree.Focused() != a.ID() {
		t.Error("staged focus must commit even when the dispatch body panics")
	}
}

func TestHoverTransitionFiresUnhoverThenHover(t *testing.T) {
	var log []string
	_, root, win := mountRoot(&log)

	var a, b *MountedWidget
	Dispatch(root, win, nil, func(ctx *EventContext) {
		a = ctx.PushChild(NewWidgetInstance(&recordingWidget{name: "a", log: &log}))
		b = ctx.PushChild(NewWidgetInstance(&recordingWidget{name: "b", log: &log}))
	})

	Dispatch(root, win, nil, func(ctx *EventContext) {
		changed := ctx.ForOther(a).Hover(graphics.Point{X: 1, Y: 1})
		if !changed {
			t.Error("first hover should report a change")
		}
	})
	log = log[:0]
	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.ForOther(b).Hover(graphics.Point{X: 2, Y: 2})
	})

	if countEvents(log, "root:unhover") != 0 || countEvents(log, "root:hover") != 0 {
		t.Errorf("log = %v, shared ancestor must not cycle through unhover/hover", log)
	}
	unhoverAt := indexOf(log, "a:unhover")
	hoverAt := indexOf(log, "b:hover")
	if unhoverAt < 0 || hoverAt < 0 || unhoverAt > hoverAt {
		t.Errorf("log = %v, want a unhovered before b hovered", log)
	}
}

func TestClearHover(t *testing.T) {
	var log []string
	tree, root, win := mountRoot(&log)
	var a *MountedWidget
	Dispatch(root, win, nil, func(ctx *EventContext) {
		a = ctx.PushChild(NewWidgetInstance(&recordingWidget{name: "a", log: &log}))
	})
	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.ForOther(a).Hover(graphics.Point{})
	})
	Dispatch(root, win, nil, func(ctx *EventContext) {
		ctx.ClearHover()
	})
	if tree.Hovered() != 0 {
		t.Error("ClearHover should empty the chain")
	}
	if countEvents(log, "a:unhover") != 1 || countEvents(log, "root:unhover") != 1 {
		t.Errorf("log = %v, want the whole chain unhovered", log)
	}
}

type captureHandler struct {
	onError func(*errors.WeftError)
}

func (h *captureHandler) HandleError(err *errors.WeftError) {
	if h.onError != nil {
		h.onError(err)
	}
}
func (h *captureHandler) HandlePanic(*errors.PanicError) {}
