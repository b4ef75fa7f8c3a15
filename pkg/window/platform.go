package window

import (
	"github.com/go-weft/weft/pkg/graphics"
	"github.com/go-weft/weft/pkg/reactive"
)

// Cursor identifies the pointer shape a widget asks the window to show.
type Cursor int

const (
	CursorDefault Cursor = iota
	CursorPointer
	CursorText
	CursorGrab
	CursorGrabbing
	CursorNotAllowed
)

// PlatformWindow is the surface a windowing backend provides to dispatch
// contexts. The core never creates windows; it only drives one it is given.
type PlatformWindow interface {
	// Handle returns the shareable cross-thread handle for this window.
	Handle() *Handle
	// InnerSize returns the size of the drawable client area.
	InnerSize() graphics.Size
	// Position returns the window's outer position on screen.
	Position() graphics.Point
	// Title returns the current window title.
	Title() string
	// Focused is a cell tracking whether the window has keyboard focus.
	Focused() *reactive.Dynamic[bool]
	// SetCursor changes the pointer shape while it is over the window.
	SetCursor(cursor Cursor)
	// Invalidate requests a full redraw of the window.
	Invalidate()
	// Close requests the window be closed.
	Close()
}
