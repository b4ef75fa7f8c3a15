package testing

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-weft/weft/pkg/graphics"
)

// DrawOp is one recorded renderer call. Kind names the call; the other
// fields carry whichever arguments that call takes.
type DrawOp struct {
	Kind  string
	Rect  graphics.Rect
	Point graphics.Point
	Text  string
	Color graphics.Color
	Width float64
}

// RecordingRenderer implements graphics.Renderer by recording every draw
// call instead of rasterizing. Text is measured with a real bitmap face so
// layout driven by MeasureText behaves like production, deterministically.
type RecordingRenderer struct {
	size      graphics.Size
	scale     float64
	face      font.Face
	ops       []DrawOp
	clipDepth int
}

// NewRecordingRenderer creates a renderer for a surface of the given size
// at scale 1.
func NewRecordingRenderer(size graphics.Size) *RecordingRenderer {
	return &RecordingRenderer{
		size:  size,
		scale: 1,
		face:  basicfont.Face7x13,
	}
}

func (r *RecordingRenderer) Size() graphics.Size { return r.size }

func (r *RecordingRenderer) Scale() float64 { return r.scale }

// SetScale changes the reported device pixel ratio.
func (r *RecordingRenderer) SetScale(scale float64) { r.scale = scale }

// MeasureText returns the advance width and line height of text in the
// recorder's face.
func (r *RecordingRenderer) MeasureText(text string) graphics.Size {
	advance := font.MeasureString(r.face, text)
	metrics := r.face.Metrics()
	return graphics.Size{
		Width:  fixedToFloat(advance),
		Height: fixedToFloat(metrics.Height),
	}
}

func (r *RecordingRenderer) DrawText(text string, at graphics.Point, color graphics.Color) {
	r.ops = append(r.ops, DrawOp{Kind: "drawText", Text: text, Point: at, Color: color})
}

func (r *RecordingRenderer) FillRect(rect graphics.Rect, color graphics.Color) {
	r.ops = append(r.ops, DrawOp{Kind: "fillRect", Rect: rect, Color: color})
}

func (r *RecordingRenderer) StrokeRect(rect graphics.Rect, color graphics.Color, width float64) {
	r.ops = append(r.ops, DrawOp{Kind: "strokeRect", Rect: rect, Color: color, Width: width})
}

func (r *RecordingRenderer) PushClip(rect graphics.Rect) {
	r.clipDepth++
	r.ops = append(r.ops, DrawOp{Kind: "pushClip", Rect: rect})
}

func (r *RecordingRenderer) PopClip() {
	r.clipDepth--
	r.ops = append(r.ops, DrawOp{Kind: "popClip"})
}

// Ops returns all calls recorded since the last Reset, in order.
func (r *RecordingRenderer) Ops() []DrawOp { return r.ops }

// Count returns how many recorded calls have the given kind.
func (r *RecordingRenderer) Count(kind string) int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// ClipDepth returns the current clip nesting. A finished frame leaves it
// at zero.
func (r *RecordingRenderer) ClipDepth() int { return r.clipDepth }

// Reset discards recorded calls. Clip depth is kept so an unbalanced frame
// stays visible.
func (r *RecordingRenderer) Reset() { r.ops = nil }

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
