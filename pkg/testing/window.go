package testing

import (
	"github.com/go-weft/weft/pkg/graphics"
	"github.com/go-weft/weft/pkg/reactive"
	"github.com/go-weft/weft/pkg/window"
)

// HeadlessWindow implements window.PlatformWindow without a backend. It
// records cursor changes and forwards redraw traffic to a real handle, so
// reactive cells wired to the window behave exactly as in production.
type HeadlessWindow struct {
	handle  *window.Handle
	focused *reactive.Dynamic[bool]
	size    graphics.Size
	title   string
	cursor  window.Cursor
}

// NewHeadlessWindow creates a focused headless window of the given size.
func NewHeadlessWindow(size graphics.Size) *HeadlessWindow {
	return &HeadlessWindow{
		handle:  window.NewHandle(),
		focused: reactive.NewDynamic(true),
		size:    size,
		title:   "weft test",
	}
}

func (w *HeadlessWindow) Handle() *window.Handle { return w.handle }

func (w *HeadlessWindow) InnerSize() graphics.Size { return w.size }

func (w *HeadlessWindow) Position() graphics.Point { return graphics.Point{} }

func (w *HeadlessWindow) Title() string { return w.title }

// SetTitle changes the reported title.
func (w *HeadlessWindow) SetTitle(title string) { w.title = title }

func (w *HeadlessWindow) Focused() *reactive.Dynamic[bool] { return w.focused }

func (w *HeadlessWindow) SetCursor(cursor window.Cursor) { w.cursor = cursor }

// Cursor returns the last cursor shape a widget requested.
func (w *HeadlessWindow) Cursor() window.Cursor { return w.cursor }

func (w *HeadlessWindow) Invalidate() { w.handle.RequestRedraw() }

func (w *HeadlessWindow) Close() { w.handle.Close() }
