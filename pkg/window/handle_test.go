package window

import (
	"sort"
	"testing"
)

func TestRequestRedrawCoalesces(t *testing.T) {
	h := NewHandle()
	h.RequestRedraw()
	h.RequestRedraw()
	h.RequestRedraw()

	select {
	case <-h.RedrawSignal():
	default:
		t.Fatal("expected a queued redraw signal")
	}
	select {
	case <-h.RedrawSignal():
		t.Error("repeated requests should coalesce to one signal")
	default:
	}
}

func TestBeginRedrawReArmsSignal(t *testing.T) {
	h := NewHandle()
	h.RequestRedraw()
	<-h.RedrawSignal()
	h.BeginRedraw()
	h.RequestRedraw()
	select {
	case <-h.RedrawSignal():
	default:
		t.Error("requests after BeginRedraw should signal again")
	}
}

func TestInvalidateWidgetCollects(t *testing.T) {
	h := NewHandle()
	h.InvalidateWidget(3)
	h.InvalidateWidget(7)
	h.InvalidateWidget(3)

	widgets := h.BeginRedraw()
	sort.Slice(widgets, func(i, j int) bool { return widgets[i] < widgets[j] })
	if len(widgets) != 2 || widgets[0] != 3 || widgets[1] != 7 {
		t.Errorf("invalidated = %v, want [3 7]", widgets)
	}
	if got := h.BeginRedraw(); got != nil {
		t.Errorf("second drain = %v, want nil", got)
	}
}

func TestClosedHandleDiscardsRequests(t *testing.T) {
	h := NewHandle()
	h.Close()
	h.RequestRedraw()
	h.InvalidateWidget(1)

	select {
	case <-h.RedrawSignal():
		t.Error("closed handle should discard redraw requests")
	default:
	}
	if got := h.BeginRedraw(); got != nil {
		t.Errorf("closed handle collected invalidations: %v", got)
	}
	if !h.Closed() {
		t.Error("Closed should report true")
	}
}
