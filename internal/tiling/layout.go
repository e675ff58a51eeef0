package tiling

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/1broseidon/treetile/internal/geom"
	"github.com/1broseidon/treetile/internal/platform"
)

// ErrFullscreenActive is returned when focus would leave a fullscreen window.
var ErrFullscreenActive = errors.New("another window is fullscreen")

// Window is the handle a Layout positions. Resize applies an area at once,
// StartAnimation moves toward it over time.
type Window interface {
	ID() platform.WindowID
	Resize(area geom.Rect)
	StartAnimation(area geom.Rect)
	SetFullscreen(on bool)
}

// AddOptions tunes Layout.Add. The zero value focuses the new window and
// rebalances right away.
type AddOptions struct {
	// Weight is the window's share of its container; zero means DefaultWeight.
	Weight float64
	// SkipFocus leaves the active window unchanged.
	SkipFocus bool
	// SkipRebalance defers area updates to a later Rebalance call.
	SkipRebalance bool
}

type entry struct {
	win     Window
	ref     NodeRef
	applied geom.Rect
	placed  bool
}

// Layout binds a Tree to the windows its leaves stand for and pushes
// computed areas to them. At most one window is fullscreen at a time.
//
// Layout is not safe for concurrent use.
type Layout struct {
	tree       *Tree
	windows    map[platform.WindowID]*entry
	fullscreen platform.WindowID
	hasFull    bool
	logger     *slog.Logger
}

// NewLayout returns an empty layout covering area.
func NewLayout(area geom.Rect, logger *slog.Logger) *Layout {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Layout{
		tree:    NewTree(area),
		windows: make(map[platform.WindowID]*entry),
		logger:  logger,
	}
}

func (l *Layout) index(id platform.WindowID) (int, *entry, error) {
	e, ok := l.windows[id]
	if !ok {
		return -1, nil, fmt.Errorf("%w: window %d", ErrWindowNotFound, id)
	}
	i, ok := l.tree.Resolve(e.ref)
	if !ok {
		panic(fmt.Sprintf("tiling: window %d maps to freed node %d", id, e.ref.Index))
	}
	return i, e, nil
}

// Add inserts w next to the active window in direction dir.
func (l *Layout) Add(w Window, dir Direction, opts AddOptions) error {
	id := w.ID()
	if _, ok := l.windows[id]; ok {
		return fmt.Errorf("%w: window %d", ErrWindowExists, id)
	}

	i := l.tree.AddLeaf(id, opts.Weight)
	if _, err := l.tree.MoveRelativeToActive(i, dir); err != nil {
		if _, rerr := l.tree.Remove(i); rerr != nil {
			l.logger.Error("failed to discard unplaced node", "index", i, "error", rerr)
		}
		l.logger.Error("failed to place window", "window_id", id, "direction", dir, "error", err)
		return fmt.Errorf("place window %d: %w", id, err)
	}

	ref, _ := l.tree.Ref(i)
	l.windows[id] = &entry{win: w, ref: ref}
	if (!opts.SkipFocus && !l.hasFull) || l.tree.Active() == RootIndex {
		if err := l.tree.SetActive(i); err != nil {
			l.logger.Error("failed to focus new window", "window_id", id, "error", err)
		}
	}
	l.logger.Debug("window added", "window_id", id, "direction", dir, "tree", "\n"+l.tree.String())

	if !opts.SkipRebalance {
		l.Rebalance()
	}
	return nil
}

// Remove drops the window and collapses the tree around its leaf.
func (l *Layout) Remove(id platform.WindowID, rebalance bool) error {
	i, e, err := l.index(id)
	if err != nil {
		return err
	}
	if l.hasFull && l.fullscreen == id {
		l.hasFull = false
		e.win.SetFullscreen(false)
	}

	removed, err := l.tree.Remove(i)
	if err != nil {
		l.logger.Error("failed to remove window", "window_id", id, "error", err)
		return fmt.Errorf("remove window %d: %w", id, err)
	}
	for wid, we := range l.windows {
		if _, ok := l.tree.Resolve(we.ref); !ok {
			delete(l.windows, wid)
		}
	}
	l.logger.Debug("window removed", "window_id", id, "freed", removed, "tree", "\n"+l.tree.String())

	if rebalance {
		l.Rebalance()
	}
	return nil
}

// Rebalance recomputes the tree and pushes changed areas to windows. A window
// seen for the first time is resized in place; later changes animate.
func (l *Layout) Rebalance() {
	dirty := l.tree.Rebalance()
	if len(dirty) > 0 {
		l.logger.Debug("rebalanced", "dirty", dirty)
	}
	l.push()
}

func (l *Layout) push() {
	root, _ := l.tree.Area(RootIndex)
	for _, i := range l.tree.Leaves() {
		id, _ := l.tree.Window(i)
		e, ok := l.windows[id]
		if !ok {
			panic(fmt.Sprintf("tiling: leaf %d holds untracked window %d", i, id))
		}
		if l.hasFull {
			if id == l.fullscreen && e.applied != root {
				e.win.Resize(root)
				e.applied = root
			}
			continue
		}
		area, _ := l.tree.Area(i)
		if e.placed && e.applied == area {
			continue
		}
		if e.placed {
			e.win.StartAnimation(area)
		} else {
			e.win.Resize(area)
		}
		e.applied, e.placed = area, true
	}
}

// UpdateArea sets the root rectangle and rebalances.
func (l *Layout) UpdateArea(area geom.Rect) {
	l.tree.SetRootArea(area)
	l.Rebalance()
}

// Area returns the root rectangle.
func (l *Layout) Area() geom.Rect {
	area, _ := l.tree.Area(RootIndex)
	return area
}

// MoveActive moves the active window in dir. It does nothing while a window
// is fullscreen.
func (l *Layout) MoveActive(dir Direction) bool {
	if l.hasFull || l.tree.Active() == RootIndex {
		return false
	}
	if !l.tree.MoveActive(dir) {
		l.logger.Debug("active window already at the edge", "direction", dir)
		return false
	}
	l.logger.Debug("active window moved", "direction", dir, "tree", "\n"+l.tree.String())
	l.Rebalance()
	return true
}

// ToggleFullscreen promotes the active window to cover the whole root area,
// or returns the fullscreen window to its tiled area.
func (l *Layout) ToggleFullscreen() bool {
	active := l.tree.Active()
	if active == RootIndex {
		return false
	}
	if l.hasFull {
		i, e, err := l.index(l.fullscreen)
		if err != nil {
			l.logger.Error("fullscreen window vanished", "error", err)
			l.hasFull = false
			return false
		}
		l.hasFull = false
		e.win.SetFullscreen(false)
		area, _ := l.tree.Area(i)
		e.win.StartAnimation(area)
		e.applied = area
		l.push()
		return true
	}

	id, _ := l.tree.Window(active)
	e := l.windows[id]
	root := l.Area()
	l.fullscreen, l.hasFull = id, true
	e.win.SetFullscreen(true)
	e.win.StartAnimation(root)
	e.applied, e.placed = root, true
	return true
}

// Fullscreen returns the fullscreen window, if any.
func (l *Layout) Fullscreen() (Window, bool) {
	if !l.hasFull {
		return nil, false
	}
	return l.windows[l.fullscreen].win, true
}

// WindowAt returns the window under the point. A fullscreen window covers
// everything else.
func (l *Layout) WindowAt(x, y int) (Window, bool) {
	if l.hasFull {
		return l.Fullscreen()
	}
	i, ok := l.tree.LeafAt(x, y)
	if !ok {
		return nil, false
	}
	return l.windowAt(i)
}

func (l *Layout) windowAt(i int) (Window, bool) {
	id, ok := l.tree.Window(i)
	if !ok {
		return nil, false
	}
	e, ok := l.windows[id]
	if !ok {
		return nil, false
	}
	return e.win, true
}

// ActiveWindow returns the focused window, if any.
func (l *Layout) ActiveWindow() (Window, bool) {
	return l.windowAt(l.tree.Active())
}

// Focus makes id the active window.
func (l *Layout) Focus(id platform.WindowID) error {
	i, _, err := l.index(id)
	if err != nil {
		return err
	}
	if l.hasFull && id != l.fullscreen {
		return ErrFullscreenActive
	}
	return l.tree.SetActive(i)
}

// FocusDirection moves focus to the nearest window in dir.
func (l *Layout) FocusDirection(dir Direction) (Window, bool) {
	if l.hasFull {
		return nil, false
	}
	i, ok := l.tree.Neighbor(l.tree.Active(), dir)
	if !ok {
		return nil, false
	}
	return l.activate(i)
}

// FocusCycle moves focus to the next window in visual order, or the previous
// one when backward is set.
func (l *Layout) FocusCycle(backward bool) (Window, bool) {
	if l.hasFull {
		return nil, false
	}
	i, ok := l.tree.CycleLeaf(backward)
	if !ok {
		return nil, false
	}
	return l.activate(i)
}

func (l *Layout) activate(i int) (Window, bool) {
	if err := l.tree.SetActive(i); err != nil {
		l.logger.Error("failed to focus node", "index", i, "error", err)
		return nil, false
	}
	return l.windowAt(i)
}

// SetWeight changes a window's share of its container and rebalances.
func (l *Layout) SetWeight(id platform.WindowID, weight float64) error {
	i, _, err := l.index(id)
	if err != nil {
		return err
	}
	if err := l.tree.SetWeight(i, weight); err != nil {
		return err
	}
	l.Rebalance()
	return nil
}

// WindowArea returns the tiled area the layout computed for id.
func (l *Layout) WindowArea(id platform.WindowID) (geom.Rect, error) {
	i, _, err := l.index(id)
	if err != nil {
		return geom.Rect{}, err
	}
	area, _ := l.tree.Area(i)
	return area, nil
}

// Contains reports whether id is tiled by this layout.
func (l *Layout) Contains(id platform.WindowID) bool {
	_, ok := l.windows[id]
	return ok
}

// Len returns the number of windows.
func (l *Layout) Len() int {
	return len(l.windows)
}

// Windows returns every window in visual order.
func (l *Layout) Windows() []Window {
	var out []Window
	for _, i := range l.tree.Leaves() {
		if w, ok := l.windowAt(i); ok {
			out = append(out, w)
		}
	}
	return out
}

// Snapshot copies the tree, marking the fullscreen leaf.
func (l *Layout) Snapshot() TreeNode {
	snap := l.tree.Snapshot()
	if l.hasFull {
		markFullscreen(&snap, l.fullscreen)
	}
	return snap
}

func markFullscreen(n *TreeNode, id platform.WindowID) bool {
	if n.Kind == KindLeaf.String() && n.Window == id {
		n.Fullscreen = true
		return true
	}
	for k := range n.Children {
		if markFullscreen(&n.Children[k], id) {
			return true
		}
	}
	return false
}

// Check verifies the tree invariants and the window-to-leaf mapping.
func (l *Layout) Check() error {
	if err := l.tree.Check(); err != nil {
		return err
	}
	leaves := l.tree.Leaves()
	if len(leaves) != len(l.windows) {
		return fmt.Errorf("%d leaves but %d windows", len(leaves), len(l.windows))
	}
	for _, i := range leaves {
		id, _ := l.tree.Window(i)
		e, ok := l.windows[id]
		if !ok {
			return fmt.Errorf("leaf %d holds untracked window %d", i, id)
		}
		if got, ok := l.tree.Resolve(e.ref); !ok || got != i {
			return fmt.Errorf("window %d maps to node %d, found at leaf %d", id, e.ref.Index, i)
		}
	}
	if l.hasFull && !l.Contains(l.fullscreen) {
		return fmt.Errorf("fullscreen window %d is not tracked", l.fullscreen)
	}
	return nil
}

func (l *Layout) String() string {
	return l.tree.String()
}

// Tree exposes the underlying tree for inspection.
func (l *Layout) Tree() *Tree {
	return l.tree
}
