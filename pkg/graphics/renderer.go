package graphics

// Renderer is the drawing surface handed to widgets during redraw. Concrete
// backends implement it; the toolkit core only consumes it. All coordinates
// are logical pixels in window space: draw calls and clip rects alike are
// absolute, never relative to an enclosing clip.
type Renderer interface {
	// Size returns the drawable size of the window surface.
	Size() Size
	// Scale returns the ratio of physical to logical pixels.
	Scale() float64

	// MeasureText returns the size the given string would occupy when drawn.
	MeasureText(text string) Size
	// DrawText draws text with its baseline origin at the given point.
	DrawText(text string, origin Point, color Color)

	// FillRect fills a rectangle with a solid color.
	FillRect(rect Rect, color Color)
	// StrokeRect outlines a rectangle with a solid color.
	StrokeRect(rect Rect, color Color, width float64)

	// PushClip restricts subsequent drawing to the window-absolute rect. The
	// effective clip is the intersection with the enclosing clip, so a nested
	// push can only narrow it. Calls must be balanced with PopClip.
	PushClip(rect Rect)
	// PopClip restores the clip region saved by the matching PushClip.
	PopClip()
}
