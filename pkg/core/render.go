package core

import (
	"github.com/go-weft/weft/pkg/graphics"
	"github.com/go-weft/weft/pkg/window"
)

// GraphicsContext is the dispatch surface for the redraw pass. Drawing is
// clipped to the widget's region; child widgets are redrawn through
// ForChild so their clip nests inside the parent's.
type GraphicsContext struct {
	*WidgetContext
	renderer graphics.Renderer
	region   graphics.Rect
}

// NewGraphicsContext binds a widget context to a renderer and the widget's
// window-relative region.
func NewGraphicsContext(ctx *WidgetContext, renderer graphics.Renderer, region graphics.Rect) *GraphicsContext {
	return &GraphicsContext{WidgetContext: ctx, renderer: renderer, region: region}
}

// Renderer returns the drawing surface.
func (g *GraphicsContext) Renderer() graphics.Renderer { return g.renderer }

// Region returns the widget's window-relative rect for this frame.
func (g *GraphicsContext) Region() graphics.Rect { return g.region }

// ForChild rebinds the context to a child occupying rect, given relative to
// this widget's origin.
func (g *GraphicsContext) ForChild(child *MountedWidget, rect graphics.Rect) *GraphicsContext {
	return &GraphicsContext{
		WidgetContext: g.WidgetContext.ForOther(child),
		renderer:      g.renderer,
		region:        rect.Translate(g.region.Left, g.region.Top),
	}
}

// Redraw records the widget's region as its hit-test rect, clips to it, and
// invokes the redraw hook. Because the cache is written here, pointer
// routing during rapid resize reads the previous frame's bounds until the
// next redraw commits new ones.
func (g *GraphicsContext) Redraw() {
	g.widget.tree.noteRendered(g.widget.id, g.region)
	g.renderer.PushClip(g.region)
	defer g.renderer.PopClip()
	g.widget.Lock(func(w Widget) {
		w.Redraw(g)
	})
}

// RedrawChild redraws a child inside the region the layout pass assigned
// it. Children without a recorded layout are skipped.
func (g *GraphicsContext) RedrawChild(child *MountedWidget) {
	rect, ok := child.LastLayout()
	if !ok {
		return
	}
	childCtx := &GraphicsContext{
		WidgetContext: g.WidgetContext.ForOther(child),
		renderer:      g.renderer,
		region:        rect,
	}
	childCtx.Redraw()
}

// LayoutContext is the dispatch surface for the measurement pass. A
// persisting context records child rects into the tree; a temporary one
// (AsTemporary) measures hypothetically without touching hit-test state.
type LayoutContext struct {
	*GraphicsContext
	persist bool
}

// NewLayoutContext creates a persisting layout context for the widget.
func NewLayoutContext(ctx *WidgetContext, renderer graphics.Renderer, region graphics.Rect) *LayoutContext {
	return &LayoutContext{
		GraphicsContext: NewGraphicsContext(ctx, renderer, region),
		persist:         true,
	}
}

// AsTemporary returns a context whose measurements are not recorded.
func (l *LayoutContext) AsTemporary() *LayoutContext {
	return &LayoutContext{GraphicsContext: l.GraphicsContext, persist: false}
}

// ForChild rebinds the layout context to a child. The child's region starts
// as its last recorded rect, or the parent's region before it has one.
func (l *LayoutContext) ForChild(child *MountedWidget) *LayoutContext {
	region := l.region
	if rect, ok := child.LastLayout(); ok {
		region = rect
	}
	return &LayoutContext{
		GraphicsContext: &GraphicsContext{
			WidgetContext: l.WidgetContext.ForOther(child),
			renderer:      l.renderer,
			region:        region,
		},
		persist: l.persist,
	}
}

// Layout measures the widget within available space. Results are memoized
// per frame per constraint, so a parent measuring a child twice with the
// same constraints pays once.
func (l *LayoutContext) Layout(available graphics.Size) graphics.Size {
	tree := l.widget.tree
	if size, ok := tree.layoutMemo(l.widget.id, available); ok {
		return size
	}
	var size graphics.Size
	l.widget.Lock(func(w Widget) {
		size = w.Layout(available, l)
	})
	tree.storeLayoutMemo(l.widget.id, available, size)
	return size
}

// SetChildLayout records where this widget placed a child, rect relative to
// this widget's origin. Temporary contexts drop the record.
func (l *LayoutContext) SetChildLayout(child *MountedWidget, rect graphics.Rect) {
	if !l.persist {
		return
	}
	l.widget.tree.SetLayout(child.id, rect.Translate(l.region.Left, l.region.Top))
}

// RenderFrame runs one full frame for the window: it clears per-frame
// caches, lays out the root within the renderer's size, records the root
// rect, redraws, and commits any focus/active changes hooks staged.
func RenderFrame(root *MountedWidget, win window.PlatformWindow, renderer graphics.Renderer) {
	tree := root.tree
	tree.ResetRenderOrder()
	region := graphics.RectFromOriginSize(graphics.Point{}, renderer.Size())

	ctx := NewWidgetContext(root, win)
	lc := NewLayoutContext(ctx, renderer, region)
	size := lc.Layout(region.Size())
	tree.SetLayout(root.id, graphics.RectFromOriginSize(graphics.Point{}, size.Min(region.Size())))

	rect, _ := root.LastLayout()
	gc := NewGraphicsContext(ctx, renderer, rect)
	gc.Redraw()

	NewEventContext(ctx, renderer).ApplyPendingState()
}
