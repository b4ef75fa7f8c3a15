package core

import (
	"fmt"

	"github.com/go-weft/weft/pkg/graphics"
	"github.com/go-weft/weft/pkg/reactive"
	"github.com/go-weft/weft/pkg/window"
)

// fakeWindow satisfies window.PlatformWindow for dispatch tests.
type fakeWindow struct {
	handle  *window.Handle
	focused *reactive.Dynamic[bool]
}

func newFakeWindow() *fakeWindow {
	return &fakeWindow{
		handle:  window.NewHandle(),
		focused: reactive.NewDynamic(true),
	}
}

func (f *fakeWindow) Handle() *window.Handle              { return f.handle }
func (f *fakeWindow) InnerSize() graphics.Size            { return graphics.Size{Width: 800, Height: 600} }
func (f *fakeWindow) Position() graphics.Point            { return graphics.Point{} }
func (f *fakeWindow) Title() string                       { return "test" }
func (f *fakeWindow) Focused() *reactive.Dynamic[bool]    { return f.focused }
func (f *fakeWindow) SetCursor(window.Cursor)             {}
func (f *fakeWindow) Invalidate()                         { f.handle.RequestRedraw() }
func (f *fakeWindow) Close()                              { f.handle.Close() }

// nullRenderer is the minimal renderer render tests need.
type nullRenderer struct {
	size graphics.Size
}

func (r *nullRenderer) Size() graphics.Size                              { return r.size }
func (r *nullRenderer) Scale() float64                                   { return 1 }
func (r *nullRenderer) MeasureText(text string) graphics.Size            { return graphics.Size{Width: float64(8 * len(text)), Height: 16} }
func (r *nullRenderer) DrawText(string, graphics.Point, graphics.Color)  {}
func (r *nullRenderer) FillRect(graphics.Rect, graphics.Color)           {}
func (r *nullRenderer) StrokeRect(graphics.Rect, graphics.Color, float64) {}
func (r *nullRenderer) PushClip(graphics.Rect)                           {}
func (r *nullRenderer) PopClip()                                         {}

// recordingWidget logs every hook invocation into a shared log so tests can
// assert ordering across widgets.
type recordingWidget struct {
	WidgetBase
	name        string
	log         *[]string
	acceptFocus bool
	hitTest     bool
	size        graphics.Size

	onMounted   func(*WidgetContext)
	onUnmounted func(*WidgetContext)
	onBlur      func(*WidgetContext)
	onFocus     func(*WidgetContext)
	onMouseDown func(graphics.Point, *EventContext) EventHandling
	onKey       func(KeyEvent, *EventContext) EventHandling
	onLayout    func(graphics.Size, *LayoutContext) graphics.Size
	onRedraw    func(*GraphicsContext)
}

func (w *recordingWidget) record(event string) {
	if w.log != nil {
		*w.log = append(*w.log, fmt.Sprintf("%s:%s", w.name, event))
	}
}

func (w *recordingWidget) Mounted(ctx *WidgetContext) {
	w.record("mounted")
	if w.onMounted != nil {
		w.onMounted(ctx)
	}
}

func (w *recordingWidget) Unmounted(ctx *WidgetContext) {
	w.record("unmounted")
	if w.onUnmounted != nil {
		w.onUnmounted(ctx)
	}
}

func (w *recordingWidget) HitTest(graphics.Point, *EventContext) bool {
	return w.hitTest
}

func (w *recordingWidget) Hover(graphics.Point, *EventContext) {
	w.record("hover")
}

func (w *recordingWidget) Unhover(*EventContext) {
	w.record("unhover")
}

func (w *recordingWidget) AcceptFocus(*EventContext) bool {
	return w.acceptFocus
}

func (w *recordingWidget) Focus(ctx *WidgetContext) {
	w.record("focus")
	if w.onFocus != nil {
		w.onFocus(ctx)
	}
}

func (w *recordingWidget) Blur(ctx *WidgetContext) {
	w.record("blur")
	if w.onBlur != nil {
		w.onBlur(ctx)
	}
}

func (w *recordingWidget) Activate(*WidgetContext) {
	w.record("activate")
}

func (w *recordingWidget) Deactivate(*WidgetContext) {
	w.record("deactivate")
}

func (w *recordingWidget) MouseDown(location graphics.Point, _ DeviceID, _ MouseButton, ctx *EventContext) EventHandling {
	w.record("mousedown")
	if w.onMouseDown != nil {
		return w.onMouseDown(location, ctx)
	}
	return Ignored
}

func (w *recordingWidget) MouseDrag(graphics.Point, DeviceID, MouseButton, *EventContext) {
	w.record("mousedrag")
}

func (w *recordingWidget) MouseUp(location *graphics.Point, _ DeviceID, _ MouseButton, _ *EventContext) {
	if location == nil {
		w.record("mouseup:outside")
	} else {
		w.record("mouseup")
	}
}

func (w *recordingWidget) KeyboardInput(event KeyEvent, ctx *EventContext) EventHandling {
	w.record("key")
	if w.onKey != nil {
		return w.onKey(event, ctx)
	}
	return Ignored
}

func (w *recordingWidget) MouseWheel(graphics.Point, *EventContext) EventHandling {
	w.record("wheel")
	return Ignored
}

func (w *recordingWidget) Redraw(ctx *GraphicsContext) {
	w.record("redraw")
	if w.onRedraw != nil {
		w.onRedraw(ctx)
	}
}

func (w *recordingWidget) Layout(available graphics.Size, ctx *LayoutContext) graphics.Size {
	w.record("layout")
	if w.onLayout != nil {
		return w.onLayout(available, ctx)
	}
	if w.size.IsZero() {
		return available
	}
	return w.size
}

// countEvents returns how many log entries equal the given entry.
func countEvents(log []string, entry string) int {
	n := 0
	for _, e := range log {
		if e == entry {
			n++
		}
	}
	return n
}

// indexOf returns the first index of entry in log, or -1.
func indexOf(log []string, entry string) int {
	for i, e := range log {
		if e == entry {
			return i
		}
	}
	return -1
}
