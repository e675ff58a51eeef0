package tiling

import (
	"fmt"
	"math"
	"slices"

	"github.com/1broseidon/treetile/internal/geom"
	"github.com/1broseidon/treetile/internal/platform"
)

// RootIndex is the index of the root container. It lives as long as the tree.
const RootIndex = 0

type slot struct {
	n   *node
	gen uint64
}

// Tree is an arena of layout nodes addressed by index. Freed interior slots
// go on a free list and are reused; trailing freed slots are trimmed.
//
// Tree is not safe for concurrent use.
type Tree struct {
	slots   []slot
	free    []int
	active  int
	lastGen uint64
}

// NewTree returns a tree holding only a horizontal root container covering area.
func NewTree(area geom.Rect) *Tree {
	t := &Tree{}
	t.alloc(&node{
		parent: RootIndex,
		kind:   KindContainer,
		axis:   Horizontal,
		weight: DefaultWeight,
		area:   area,
	})
	t.active = RootIndex
	return t
}

func (t *Tree) alloc(n *node) int {
	t.lastGen++
	if k := len(t.free); k > 0 {
		i := t.free[k-1]
		t.free = t.free[:k-1]
		t.slots[i] = slot{n: n, gen: t.lastGen}
		return i
	}
	t.slots = append(t.slots, slot{n: n, gen: t.lastGen})
	return len(t.slots) - 1
}

// release frees slot i. The caller must already have unlinked it.
func (t *Tree) release(i int) {
	t.slots[i] = slot{}
	if i == len(t.slots)-1 {
		t.trimTrailingHoles()
		return
	}
	t.free = append(t.free, i)
}

func (t *Tree) trimTrailingHoles() {
	for len(t.slots) > 1 && t.slots[len(t.slots)-1].n == nil {
		last := len(t.slots) - 1
		t.slots = t.slots[:last]
		t.free = slices.DeleteFunc(t.free, func(i int) bool { return i == last })
	}
}

func (t *Tree) get(i int) (*node, bool) {
	if i < 0 || i >= len(t.slots) || t.slots[i].n == nil {
		return nil, false
	}
	return t.slots[i].n, true
}

func (t *Tree) mustGet(i int) *node {
	n, ok := t.get(i)
	if !ok {
		panic(fmt.Sprintf("tiling: arena corruption: index %d is not occupied", i))
	}
	return n
}

func (t *Tree) childPos(parent, child int) int {
	pos := slices.Index(t.mustGet(parent).children, child)
	if pos < 0 {
		panic(fmt.Sprintf("tiling: arena corruption: node %d missing from children of %d", child, parent))
	}
	return pos
}

// AddEmptyContainer allocates a container with the given axis whose parent is
// parent. The container is not linked into parent's children yet.
func (t *Tree) AddEmptyContainer(axis Axis, parent int) int {
	return t.alloc(&node{
		parent: parent,
		kind:   KindContainer,
		axis:   axis,
		weight: DefaultWeight,
	})
}

// AddLeaf allocates an unlinked leaf for window. A non-positive weight means
// DefaultWeight.
func (t *Tree) AddLeaf(window platform.WindowID, weight float64) int {
	if !(weight > 0) || math.IsInf(weight, 0) {
		weight = DefaultWeight
	}
	return t.alloc(&node{
		parent: RootIndex,
		kind:   KindLeaf,
		window: window,
		weight: weight,
	})
}

// detach unlinks i from its parent's children. It reports the old parent and
// whether i was linked at all.
func (t *Tree) detach(i int) (int, bool) {
	n := t.mustGet(i)
	p, ok := t.get(n.parent)
	if !ok {
		return n.parent, false
	}
	pos := slices.Index(p.children, i)
	if pos < 0 {
		return n.parent, false
	}
	p.children = slices.Delete(p.children, pos, pos+1)
	return n.parent, true
}

// isAncestor reports whether anc is a proper ancestor of i.
func (t *Tree) isAncestor(anc, i int) bool {
	for i != RootIndex {
		i = t.mustGet(i).parent
		if i == anc {
			return true
		}
	}
	return false
}

func (t *Tree) validateMove(i, target int) (*node, error) {
	if i == RootIndex {
		return nil, fmt.Errorf("%w: the root cannot be moved", ErrInvalidTarget)
	}
	if _, ok := t.get(i); !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNodeNotFound, i)
	}
	tn, ok := t.get(target)
	if !ok {
		return nil, fmt.Errorf("%w: target index %d", ErrNodeNotFound, target)
	}
	if i == target || t.isAncestor(i, target) {
		return nil, fmt.Errorf("%w: node %d cannot be moved inside itself", ErrInvalidTarget, i)
	}
	return tn, nil
}

// MoveUnder reparents i under the container target at the given end of its
// children, then restructures i's previous parent. It returns i's new parent.
func (t *Tree) MoveUnder(i, target int, ext Extremity) (int, error) {
	tn, err := t.validateMove(i, target)
	if err != nil {
		return -1, err
	}
	if tn.kind != KindContainer {
		return -1, fmt.Errorf("%w: target %d is a leaf", ErrInvalidTarget, target)
	}
	return t.moveUnder(i, target, ext), nil
}

func (t *Tree) moveUnder(i, target int, ext Extremity) int {
	prev, linked := t.detach(i)
	n := t.mustGet(i)
	tn := t.mustGet(target)
	n.parent = target
	if ext == Start {
		tn.children = slices.Insert(tn.children, 0, i)
	} else {
		tn.children = append(tn.children, i)
	}
	if linked && prev != target {
		t.restructure(prev)
	}
	return n.parent
}

// MoveNextTo moves i into target's parent, directly before or after target.
// The root has no parent and is rejected as a target.
func (t *Tree) MoveNextTo(i, target int, pos RelativePosition) (int, error) {
	if _, err := t.validateMove(i, target); err != nil {
		return -1, err
	}
	if target == RootIndex {
		return -1, fmt.Errorf("%w: target %d has no parent", ErrInvalidTarget, target)
	}
	return t.moveNextTo(i, target, pos), nil
}

func (t *Tree) moveNextTo(i, target int, pos RelativePosition) int {
	prev, linked := t.detach(i)
	n := t.mustGet(i)
	parent := t.mustGet(target).parent
	at := t.childPos(parent, target)
	if pos == After {
		at++
	}
	pn := t.mustGet(parent)
	pn.children = slices.Insert(pn.children, at, i)
	n.parent = parent
	if linked && prev != parent {
		t.restructure(prev)
	}
	return n.parent
}

// MoveRelativeToActive places the unlinked node i beside the active node on
// the side given by dir. If the active node's parent splits along the other
// axis, the active node is first wrapped in a new container on dir's axis.
// It returns the parent of the active node at the time of the call.
func (t *Tree) MoveRelativeToActive(i int, dir Direction) (int, error) {
	if i == RootIndex {
		return -1, fmt.Errorf("%w: the root cannot be placed", ErrInvalidTarget)
	}
	if _, ok := t.get(i); !ok {
		return -1, fmt.Errorf("%w: index %d", ErrNodeNotFound, i)
	}
	active := t.active
	if i == active || t.isAncestor(i, active) {
		return -1, fmt.Errorf("%w: node %d cannot be placed next to itself", ErrInvalidTarget, i)
	}

	p := RootIndex
	if active != RootIndex {
		p = t.mustGet(active).parent
	}
	pn := t.mustGet(p)
	siblings := len(pn.children)

	switch {
	case active == RootIndex:
		t.moveUnder(i, RootIndex, dir.Extremity())
		if siblings <= 1 {
			pn.axis = dir.Axis()
		}
	case siblings <= 1:
		t.moveNextTo(i, active, dir.Relative())
		pn.axis = dir.Axis()
	case pn.axis == dir.Axis():
		t.moveNextTo(i, active, dir.Relative())
	default:
		an := t.mustGet(active)
		k := t.AddEmptyContainer(dir.Axis(), p)
		kn := t.mustGet(k)
		kn.weight, an.weight = an.weight, DefaultWeight
		t.moveNextTo(k, active, After)
		t.moveUnder(active, k, End)
		t.moveNextTo(i, active, dir.Relative())
	}
	return p, nil
}

// Remove frees node i. Children of i are spliced into i's parent right after
// it, and the parent collapses if it is left with fewer than two children.
// It returns every freed index, i first.
func (t *Tree) Remove(i int) ([]int, error) {
	if i == RootIndex {
		return nil, ErrRemoveRoot
	}
	n, ok := t.get(i)
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNodeNotFound, i)
	}
	parent := n.parent
	pn := t.mustGet(parent)
	if !slices.Contains(pn.children, i) {
		// Never linked, so there is nothing to splice or collapse.
		if t.active == i {
			t.active = RootIndex
		}
		t.release(i)
		return []int{i}, nil
	}
	if len(n.children) > 0 {
		at := t.childPos(parent, i) + 1
		for _, c := range n.children {
			t.mustGet(c).parent = parent
		}
		pn.children = slices.Insert(pn.children, at, n.children...)
		n.children = nil
	}
	if t.active == i {
		t.active = t.fallback(i)
	}
	at := t.childPos(parent, i)
	pn.children = slices.Delete(pn.children, at, at+1)
	t.release(i)

	removed := []int{i}
	return append(removed, t.restructure(parent)...), nil
}

// RemoveSubtree frees i and all of its descendants and returns their indices
// in pre-order.
func (t *Tree) RemoveSubtree(i int) ([]int, error) {
	if i == RootIndex {
		return nil, ErrRemoveRoot
	}
	n, ok := t.get(i)
	if !ok {
		return nil, fmt.Errorf("%w: index %d", ErrNodeNotFound, i)
	}
	sub := t.subtree(i)
	parent := n.parent
	linked := slices.Contains(t.mustGet(parent).children, i)
	if slices.Contains(sub, t.active) {
		t.active = RootIndex
		if linked {
			t.active = t.fallback(i)
		}
	}
	t.detach(i)
	for k := len(sub) - 1; k >= 0; k-- {
		t.release(sub[k])
	}
	if !linked {
		return sub, nil
	}
	return append(sub, t.restructure(parent)...), nil
}

// subtree lists i and its descendants in pre-order.
func (t *Tree) subtree(i int) []int {
	var out []int
	stack := []int{i}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		out = append(out, cur)
		children := t.mustGet(cur).children
		for k := len(children) - 1; k >= 0; k-- {
			stack = append(stack, children[k])
		}
	}
	return out
}

// restructure collapses c while it has fewer than two children, walking up
// the tree. A root left with a single container child absorbs that child.
// It returns the freed container indices.
func (t *Tree) restructure(c int) []int {
	var freed []int
	for {
		n := t.mustGet(c)
		if c == RootIndex {
			if len(n.children) == 1 {
				only := n.children[0]
				on := t.mustGet(only)
				if on.kind == KindContainer {
					n.children = on.children
					n.axis = on.axis
					for _, gc := range n.children {
						t.mustGet(gc).parent = RootIndex
					}
					on.children = nil
					t.release(only)
					freed = append(freed, only)
				}
			}
			return freed
		}
		if len(n.children) >= 2 {
			return freed
		}

		parent := n.parent
		pn := t.mustGet(parent)
		at := t.childPos(parent, c)
		if len(n.children) == 1 {
			only := n.children[0]
			on := t.mustGet(only)
			on.parent = parent
			on.weight = n.weight
			pn.children[at] = only
		} else {
			pn.children = slices.Delete(pn.children, at, at+1)
		}
		n.children = nil
		t.release(c)
		freed = append(freed, c)
		c = parent
	}
}

// fallback picks the node that becomes active once i is gone: the previous
// sibling's right-most leaf, else the next sibling's left-most leaf, else the
// same search from i's parent, else the root.
func (t *Tree) fallback(i int) int {
	for cur := i; cur != RootIndex; {
		parent := t.mustGet(cur).parent
		siblings := t.mustGet(parent).children
		at := t.childPos(parent, cur)
		if at > 0 {
			return t.edgeLeaf(siblings[at-1], End)
		}
		if at < len(siblings)-1 {
			return t.edgeLeaf(siblings[at+1], Start)
		}
		cur = parent
	}
	return RootIndex
}

// edgeLeaf descends from i to its first (Start) or last (End) leaf.
func (t *Tree) edgeLeaf(i int, ext Extremity) int {
	for {
		children := t.mustGet(i).children
		if len(children) == 0 {
			return i
		}
		if ext == Start {
			i = children[0]
		} else {
			i = children[len(children)-1]
		}
	}
}

// Rebalance recomputes every node's area top-down, breadth first, and returns
// the leaves whose area changed.
func (t *Tree) Rebalance() []int {
	var dirty []int
	queue := []int{RootIndex}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		cn := t.mustGet(c)
		if len(cn.children) == 0 {
			continue
		}

		sum := 0.0
		for _, ch := range cn.children {
			sum += t.mustGet(ch).weight
		}
		extent := extentAlong(cn.area, cn.axis)
		offset := 0
		for k, ch := range cn.children {
			chn := t.mustGet(ch)
			size := extent - offset
			if k < len(cn.children)-1 {
				size = min(int(math.Round(chn.weight/sum*float64(extent))), extent-offset)
			}
			size = max(size, 0)
			changed := chn.rebalanceArea(cn.area, cn.axis, offset, size)
			offset += size
			if chn.kind == KindContainer {
				queue = append(queue, ch)
			} else if changed {
				dirty = append(dirty, ch)
			}
		}
	}
	return dirty
}

// SetRootArea replaces the root rectangle. Call Rebalance afterwards.
func (t *Tree) SetRootArea(area geom.Rect) {
	t.mustGet(RootIndex).area = area
}

// Active returns the active index: a leaf, or the root when the tree is empty.
func (t *Tree) Active() int {
	return t.active
}

// SetActive makes leaf i the active node. The root may only be made active
// when no leaf exists.
func (t *Tree) SetActive(i int) error {
	n, ok := t.get(i)
	if !ok {
		return fmt.Errorf("%w: index %d", ErrNodeNotFound, i)
	}
	if n.kind != KindLeaf && !(i == RootIndex && len(n.children) == 0) {
		return fmt.Errorf("%w: index %d is not a leaf", ErrInvalidTarget, i)
	}
	t.active = i
	return nil
}

// Len returns the number of live nodes, root included.
func (t *Tree) Len() int {
	return len(t.slots) - len(t.free)
}

// Slots returns the arena length including interior holes.
func (t *Tree) Slots() int {
	return len(t.slots)
}

// Contains reports whether i names a live node.
func (t *Tree) Contains(i int) bool {
	_, ok := t.get(i)
	return ok
}

// Ref returns a generation-checked reference to i.
func (t *Tree) Ref(i int) (NodeRef, bool) {
	if !t.Contains(i) {
		return NodeRef{}, false
	}
	return NodeRef{Index: i, Gen: t.slots[i].gen}, true
}

// Resolve returns the index behind ref if that node is still alive.
func (t *Tree) Resolve(ref NodeRef) (int, bool) {
	if !t.Contains(ref.Index) || t.slots[ref.Index].gen != ref.Gen {
		return -1, false
	}
	return ref.Index, true
}

// Parent returns the parent of i. The root is its own parent.
func (t *Tree) Parent(i int) (int, bool) {
	n, ok := t.get(i)
	if !ok {
		return -1, false
	}
	return n.parent, true
}

// Children returns a copy of i's children.
func (t *Tree) Children(i int) []int {
	n, ok := t.get(i)
	if !ok {
		return nil
	}
	return slices.Clone(n.children)
}

// Kind reports whether i is a container or a leaf.
func (t *Tree) Kind(i int) (NodeKind, bool) {
	n, ok := t.get(i)
	if !ok {
		return 0, false
	}
	return n.kind, true
}

// Axis returns the split axis of container i.
func (t *Tree) Axis(i int) (Axis, bool) {
	n, ok := t.get(i)
	if !ok || n.kind != KindContainer {
		return 0, false
	}
	return n.axis, true
}

// Area returns the rectangle last assigned to i by Rebalance.
func (t *Tree) Area(i int) (geom.Rect, bool) {
	n, ok := t.get(i)
	if !ok {
		return geom.Rect{}, false
	}
	return n.area, true
}

// Weight returns i's share of its parent relative to its siblings.
func (t *Tree) Weight(i int) (float64, bool) {
	n, ok := t.get(i)
	if !ok {
		return 0, false
	}
	return n.weight, true
}

// SetWeight changes i's share of its parent. Call Rebalance afterwards.
func (t *Tree) SetWeight(i int, weight float64) error {
	n, ok := t.get(i)
	if !ok {
		return fmt.Errorf("%w: index %d", ErrNodeNotFound, i)
	}
	if !(weight > 0) || math.IsInf(weight, 0) {
		return fmt.Errorf("weight must be a positive number, got %v", weight)
	}
	n.weight = weight
	return nil
}

// Window returns the window held by leaf i.
func (t *Tree) Window(i int) (platform.WindowID, bool) {
	n, ok := t.get(i)
	if !ok || n.kind != KindLeaf {
		return 0, false
	}
	return n.window, true
}

// Leaves returns every leaf in visual order.
func (t *Tree) Leaves() []int {
	var out []int
	for _, i := range t.subtree(RootIndex) {
		if t.mustGet(i).kind == KindLeaf {
			out = append(out, i)
		}
	}
	return out
}

// Indices returns every live index in ascending order.
func (t *Tree) Indices() []int {
	var out []int
	for i, s := range t.slots {
		if s.n != nil {
			out = append(out, i)
		}
	}
	return out
}

// Check verifies the structural invariants and returns the first violation.
func (t *Tree) Check() error {
	root, ok := t.get(RootIndex)
	if !ok || root.kind != KindContainer {
		return fmt.Errorf("root is missing or not a container")
	}
	if len(root.children) == 1 && t.mustGet(root.children[0]).kind == KindContainer {
		return fmt.Errorf("root holds a single container child")
	}
	if _, ok := t.get(t.active); !ok {
		return fmt.Errorf("active index %d is not live", t.active)
	}
	reached := make(map[int]bool)
	listed := make(map[int]bool)
	for _, i := range t.subtree(RootIndex) {
		reached[i] = true
		n := t.mustGet(i)
		if n.kind == KindLeaf && len(n.children) > 0 {
			return fmt.Errorf("leaf %d has children", i)
		}
		if i != RootIndex && n.kind == KindContainer && len(n.children) < 2 {
			return fmt.Errorf("container %d has %d children", i, len(n.children))
		}
		for _, c := range n.children {
			cn, ok := t.get(c)
			if !ok {
				return fmt.Errorf("container %d lists freed child %d", i, c)
			}
			if cn.parent != i {
				return fmt.Errorf("node %d has parent %d but is listed under %d", c, cn.parent, i)
			}
			if listed[c] {
				return fmt.Errorf("node %d is listed more than once", c)
			}
			listed[c] = true
		}
	}
	live := t.Indices()
	if len(live) != t.Len() {
		return fmt.Errorf("%d live slots but the free list implies %d", len(live), t.Len())
	}
	for _, i := range live {
		if !reached[i] {
			return fmt.Errorf("live node %d is unreachable from the root", i)
		}
	}
	return nil
}
