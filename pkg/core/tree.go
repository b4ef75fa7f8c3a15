package core

import (
	stderrors "errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-weft/weft/pkg/graphics"
)

// WidgetID uniquely identifies a mounted widget for the lifetime of the
// process. Zero means "no widget".
type WidgetID uint64

var widgetIDCounter atomic.Uint64

func newWidgetID() WidgetID {
	return WidgetID(widgetIDCounter.Add(1))
}

// ErrUnchanged is returned by Focus and Activate when the requested widget
// already holds the slot, so callers skip the hand-off hooks.
var ErrUnchanged = stderrors.New("widget already holds this state")

// Tree is the arena of mounted widgets for one window. Structure is
// thread-affine to the window's dispatch goroutine; the mutex exists so
// redraw-side reads of cached layouts stay coherent with dispatch.
type Tree struct {
	mu          sync.Mutex
	nodes       map[WidgetID]*treeNode
	root        WidgetID
	focus       WidgetID
	active      WidgetID
	hover       WidgetID
	renderOrder []WidgetID

	// Optional activation targets for Enter and Escape.
	defaultWidget WidgetID
	escapeWidget  WidgetID
}

type treeNode struct {
	instance *WidgetInstance
	parent   WidgetID
	children []WidgetID
	// layout is the widget's window-relative rect from the last layout
	// pass. Hit-testing reads it, so it can be one frame stale.
	layout *graphics.Rect
	// Single-entry layout memo for the current frame.
	cachedConstraint *graphics.Size
	cachedSize       graphics.Size
}

// NewTree creates an empty tree.
func NewTree() *Tree {
	return &Tree{nodes: make(map[WidgetID]*treeNode)}
}

// Push mounts an instance under parent (zero for the root) and returns its
// handle. The caller is responsible for firing the Mounted hook.
func (t *Tree) Push(instance *WidgetInstance, parent WidgetID) *MountedWidget {
	t.mu.Lock()
	defer t.mu.Unlock()
	id := newWidgetID()
	t.nodes[id] = &treeNode{instance: instance, parent: parent}
	if parent == 0 {
		t.root = id
	} else {
		p, ok := t.nodes[parent]
		if !ok {
			panic(fmt.Sprintf("core: push under unknown widget %d", parent))
		}
		p.children = append(p.children, id)
	}
	return &MountedWidget{tree: t, id: id, instance: instance}
}

// RemoveChild structurally detaches child from parent, removing its whole
// subtree. Removing a widget that is not a child of the stated parent is a
// logic defect and panics. The caller fires Unmounted hooks beforehand.
func (t *Tree) RemoveChild(child, parent WidgetID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, ok := t.nodes[parent]
	if !ok {
		panic(fmt.Sprintf("core: remove from unknown widget %d", parent))
	}
	idx := -1
	for i, c := range p.children {
		if c == child {
			idx = i
			break
		}
	}
	if idx < 0 {
		panic(fmt.Sprintf("core: widget %d is not a child of %d", child, parent))
	}
	p.children = append(p.children[:idx], p.children[idx+1:]...)
	t.removeSubtreeLocked(child)
}

func (t *Tree) removeSubtreeLocked(id WidgetID) {
	node, ok := t.nodes[id]
	if !ok {
		return
	}
	for _, c := range node.children {
		t.removeSubtreeLocked(c)
	}
	if t.focus == id {
		t.focus = 0
	}
	if t.active == id {
		t.active = 0
	}
	if t.hover == id {
		t.hover = node.parent
	}
	if t.defaultWidget == id {
		t.defaultWidget = 0
	}
	if t.escapeWidget == id {
		t.escapeWidget = 0
	}
	delete(t.nodes, id)
}

// Widget returns the handle for a mounted widget, or nil when the widget is
// no longer in the tree. Stale lookups after teardown resolve to nil, never
// panic.
func (t *Tree) Widget(id WidgetID) *MountedWidget {
	t.mu.Lock()
	defer t.mu.Unlock()
	node, ok := t.nodes[id]
	if !ok {
		return nil
	}
	return &MountedWidget{tree: t, id: id, instance: node.instance}
}

// Root returns the root widget handle, or nil for an empty tree.
func (t *Tree) Root() *MountedWidget {
	return t.Widget(t.rootID())
}

func (t *Tree) rootID() WidgetID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.root
}

// Parent returns the parent id of a widget; zero for the root or for
// widgets no longer in the tree.
func (t *Tree) Parent(id WidgetID) WidgetID {
	t.mu.Lock()
	defer t.mu.Unlock()
	if node, ok := t.nodes[id]; ok {
		return node.parent
	}
	return 0
}

// Children returns the child ids of a widget in mount order.
func (t *Tree) Children(id WidgetID) []WidgetID {
	t.mu.Lock()
	defer t.mu.Unlock()
	node, ok := t.nodes[id]
	if !ok {
		return nil
	}
	children := make([]WidgetID, len(node.children))
	copy(children, node.children)
	return children
}

// SetLayout records a widget's window-relative rect from the layout pass.
func (t *Tree) SetLayout(id WidgetID, rect graphics.Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	node, ok := t.nodes[id]
	if !ok {
		return
	}
	r := rect
	node.layout = &r
}

// noteRendered records that a widget was drawn at rect this frame. The
// render order accumulates draw-order, so hit-testing can scan it back to
// front: parents draw before their children, making children topmost.
func (t *Tree) noteRendered(id WidgetID, rect graphics.Rect) {
	t.mu.Lock()
	defer t.mu.Unlock()
	node, ok := t.nodes[id]
	if !ok {
		return
	}
	r := rect
	node.layout = &r
	t.renderOrder = append(t.renderOrder, id)
}

// Layout returns the widget's cached rect from the last layout pass.
func (t *Tree) Layout(id WidgetID) (graphics.Rect, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	node, ok := t.nodes[id]
	if !ok || node.layout == nil {
		return graphics.Rect{}, false
	}
	return *node.layout, true
}

// ResetRenderOrder clears per-frame state: the render order and every
// node's layout memo. Called at the start of each frame.
func (t *Tree) ResetRenderOrder() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.renderOrder = t.renderOrder[:0]
	for _, node := range t.nodes {
		node.cachedConstraint = nil
	}
}

// WidgetsAt returns the widgets whose cached rects contain the point,
// topmost first (reverse render order).
func (t *Tree) WidgetsAt(point graphics.Point) []WidgetID {
	t.mu.Lock()
	defer t.mu.Unlock()
	var hits []WidgetID
	for i := len(t.renderOrder) - 1; i >= 0; i-- {
		id := t.renderOrder[i]
		node, ok := t.nodes[id]
		if !ok || node.layout == nil {
			continue
		}
		if node.layout.Contains(point) {
			hits = append(hits, id)
		}
	}
	return hits
}

// Hover transitions the hover owner to newHover (zero to clear) and returns
// the widgets that left and entered the hover chain. Ancestors shared by
// the old and new chains appear in neither list, so they are not unhovered
// and re-hovered when the pointer moves between siblings. The unhovered
// list is ordered leaf to ancestor, the hovered list ancestor to leaf.
func (t *Tree) Hover(newHover WidgetID) (unhovered, hovered []WidgetID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.hover == newHover {
		return nil, nil
	}
	oldChain := t.hoverChainLocked(t.hover)
	newChain := t.hoverChainLocked(newHover)
	t.hover = newHover

	inNew := make(map[WidgetID]struct{}, len(newChain))
	for _, id := range newChain {
		inNew[id] = struct{}{}
	}
	inOld := make(map[WidgetID]struct{}, len(oldChain))
	for _, id := range oldChain {
		inOld[id] = struct{}{}
	}
	for _, id := range oldChain {
		if _, shared := inNew[id]; !shared {
			unhovered = append(unhovered, id)
		}
	}
	// newChain is leaf-first; deliver hover ancestor-first.
	for i := len(newChain) - 1; i >= 0; i-- {
		if _, shared := inOld[newChain[i]]; !shared {
			hovered = append(hovered, newChain[i])
		}
	}
	return unhovered, hovered
}

// hoverChainLocked walks from id to the root, leaf first.
func (t *Tree) hoverChainLocked(id WidgetID) []WidgetID {
	var chain []WidgetID
	for id != 0 {
		node, ok := t.nodes[id]
		if !ok {
			break
		}
		chain = append(chain, id)
		id = node.parent
	}
	return chain
}

// Focus moves the focus slot to newFocus (zero to clear) and returns the
// previous holder. ErrUnchanged means newFocus already held focus.
func (t *Tree) Focus(newFocus WidgetID) (WidgetID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.swapTrackedLocked(&t.focus, newFocus)
}

// Activate moves the active slot to newActive (zero to clear) and returns
// the previous holder. ErrUnchanged means newActive was already active.
func (t *Tree) Activate(newActive WidgetID) (WidgetID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.swapTrackedLocked(&t.active, newActive)
}

func (t *Tree) swapTrackedLocked(slot *WidgetID, next WidgetID) (WidgetID, error) {
	if *slot == next {
		return next, ErrUnchanged
	}
	old := *slot
	*slot = next
	return old, nil
}

// Focused returns the id holding keyboard focus, zero for none.
func (t *Tree) Focused() WidgetID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.focus
}

// Active returns the id of the active widget, zero for none.
func (t *Tree) Active() WidgetID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Hovered returns the leaf of the hover chain, zero for none.
func (t *Tree) Hovered() WidgetID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hover
}

// IsHovered reports whether id is anywhere in the current hover chain.
func (t *Tree) IsHovered(id WidgetID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, c := range t.hoverChainLocked(t.hover) {
		if c == id {
			return true
		}
	}
	return false
}

// SetDefaultWidget marks the widget activated when Enter is pressed with no
// widget handling it.
func (t *Tree) SetDefaultWidget(id WidgetID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.defaultWidget = id
}

// SetEscapeWidget marks the widget activated when Escape is pressed with no
// widget handling it.
func (t *Tree) SetEscapeWidget(id WidgetID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.escapeWidget = id
}

// DefaultWidget returns the Enter activation target, zero for none.
func (t *Tree) DefaultWidget() WidgetID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.defaultWidget
}

// EscapeWidget returns the Escape activation target, zero for none.
func (t *Tree) EscapeWidget() WidgetID {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.escapeWidget
}

// layoutMemo returns the memoized size for the constraint, if the node was
// already measured with it this frame.
func (t *Tree) layoutMemo(id WidgetID, available graphics.Size) (graphics.Size, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	node, ok := t.nodes[id]
	if !ok || node.cachedConstraint == nil || *node.cachedConstraint != available {
		return graphics.Size{}, false
	}
	return node.cachedSize, true
}

func (t *Tree) storeLayoutMemo(id WidgetID, available, size graphics.Size) {
	t.mu.Lock()
	defer t.mu.Unlock()
	node, ok := t.nodes[id]
	if !ok {
		return
	}
	c := available
	node.cachedConstraint = &c
	node.cachedSize = size
}

// MountedWidget is a handle to one mounted node. It stays valid as a value
// after unmount; operations through it then resolve to nothing.
type MountedWidget struct {
	tree     *Tree
	id       WidgetID
	instance *WidgetInstance
}

// ID returns the widget's tree id.
func (m *MountedWidget) ID() WidgetID { return m.id }

// Tree returns the owning tree.
func (m *MountedWidget) Tree() *Tree { return m.tree }

// Lock runs f with exclusive access to the underlying widget.
func (m *MountedWidget) Lock(f func(Widget)) {
	m.instance.Lock(f)
}

// Parent returns the parent handle, or nil for the root or after unmount.
func (m *MountedWidget) Parent() *MountedWidget {
	return m.tree.Widget(m.tree.Parent(m.id))
}

// Children returns handles for the widget's children in mount order.
func (m *MountedWidget) Children() []*MountedWidget {
	ids := m.tree.Children(m.id)
	children := make([]*MountedWidget, 0, len(ids))
	for _, id := range ids {
		if w := m.tree.Widget(id); w != nil {
			children = append(children, w)
		}
	}
	return children
}

// LastLayout returns the rect recorded by the last layout pass.
func (m *MountedWidget) LastLayout() (graphics.Rect, bool) {
	return m.tree.Layout(m.id)
}

// Focused reports whether this widget holds keyboard focus.
func (m *MountedWidget) Focused() bool { return m.tree.Focused() == m.id }

// Active reports whether this widget is the active widget.
func (m *MountedWidget) Active() bool { return m.tree.Active() == m.id }

// Hovered reports whether this widget is in the hover chain.
func (m *MountedWidget) Hovered() bool { return m.tree.IsHovered(m.id) }

// PrimaryHover reports whether this widget is the leaf of the hover chain.
func (m *MountedWidget) PrimaryHover() bool { return m.tree.Hovered() == m.id }
