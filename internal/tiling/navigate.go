package tiling

import (
	"slices"

	"github.com/1broseidon/treetile/internal/geom"
)

// ClosestSibling walks up from i to the first ancestor that splits along
// dir's axis and returns the sibling next to the branch holding i on dir's
// side. It stops at that ancestor even when the branch sits at its edge.
func (t *Tree) ClosestSibling(i int, dir Direction) (int, bool) {
	if !t.Contains(i) {
		return -1, false
	}
	for child := i; child != RootIndex; {
		parent := t.mustGet(child).parent
		pn := t.mustGet(parent)
		if pn.axis == dir.Axis() {
			at := t.childPos(parent, child)
			if dir.Relative() == Before {
				if at > 0 {
					return pn.children[at-1], true
				}
				return -1, false
			}
			if at < len(pn.children)-1 {
				return pn.children[at+1], true
			}
			return -1, false
		}
		child = parent
	}
	return -1, false
}

// MoveActive reorders the active node in dir. It reports whether the tree
// changed; the caller rebalances.
func (t *Tree) MoveActive(dir Direction) bool {
	active := t.active
	if active == RootIndex || t.Len() < 3 {
		return false
	}
	root := t.mustGet(RootIndex)

	// Two windows side by side just rotate.
	if t.Len() == 3 && root.axis != dir.Axis() {
		root.axis = dir.Axis()
		t.moveUnder(active, RootIndex, dir.Extremity())
		return true
	}

	an := t.mustGet(active)
	if sib, ok := t.ClosestSibling(active, dir); ok {
		sn := t.mustGet(sib)
		switch {
		case sn.parent == an.parent && sn.kind == KindLeaf:
			t.moveNextTo(active, sib, dir.Relative())
		case sn.parent == an.parent:
			t.moveUnder(active, sib, dir.Opposite().Extremity())
		default:
			// Step out of the nested container, landing between it and sib.
			t.moveNextTo(active, sib, dir.Relative().opposite())
		}
		return true
	}

	// At the edge of the nearest matching container: look further up.
	for branch := an.parent; branch != RootIndex; {
		anc := t.mustGet(branch).parent
		if t.mustGet(anc).axis == dir.Axis() {
			t.moveNextTo(active, branch, dir.Relative())
			return true
		}
		branch = anc
	}

	if root.axis != dir.Axis() {
		t.extendRoot(dir.Axis())
		t.moveUnder(active, RootIndex, dir.Extremity())
		return true
	}

	// The active node already sits at the root's outer edge along dir.
	return false
}

// extendRoot pushes the root's current children down into a new container
// and turns the root to axis, so the root ends up with a single child.
func (t *Tree) extendRoot(axis Axis) {
	root := t.mustGet(RootIndex)
	w := t.AddEmptyContainer(root.axis, RootIndex)
	wn := t.mustGet(w)
	wn.children = root.children
	wn.area = root.area
	for _, c := range wn.children {
		t.mustGet(c).parent = w
	}
	root.children = []int{w}
	root.axis = axis
}

// Neighbor returns the leaf that focus moves to from i in dir. Unlike
// ClosestSibling it keeps climbing past containers where i's branch sits at
// the edge.
func (t *Tree) Neighbor(i int, dir Direction) (int, bool) {
	if !t.Contains(i) {
		return -1, false
	}
	for child := i; child != RootIndex; {
		parent := t.mustGet(child).parent
		pn := t.mustGet(parent)
		if pn.axis == dir.Axis() {
			at := t.childPos(parent, child)
			if dir.Relative() == Before && at > 0 {
				return t.edgeLeaf(pn.children[at-1], End), true
			}
			if dir.Relative() == After && at < len(pn.children)-1 {
				return t.edgeLeaf(pn.children[at+1], Start), true
			}
		}
		child = parent
	}
	return -1, false
}

// CycleLeaf returns the leaf after (or before, when backward) the active one
// in visual order, wrapping around.
func (t *Tree) CycleLeaf(backward bool) (int, bool) {
	leaves := t.Leaves()
	if len(leaves) == 0 {
		return -1, false
	}
	at := slices.Index(leaves, t.active)
	switch {
	case at < 0:
		at = 0
	case backward:
		at = (at - 1 + len(leaves)) % len(leaves)
	default:
		at = (at + 1) % len(leaves)
	}
	return leaves[at], true
}

// LeafAt returns the leaf whose area contains the point.
func (t *Tree) LeafAt(x, y int) (int, bool) {
	stack := slices.Clone(t.mustGet(RootIndex).children)
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		n := t.mustGet(i)
		if !n.area.Contains(x, y) {
			continue
		}
		if n.kind == KindLeaf {
			return i, true
		}
		stack = append(stack, n.children...)
	}
	return -1, false
}

// IntersectingLeaves returns the leaves whose area overlaps area, in visual order.
func (t *Tree) IntersectingLeaves(area geom.Rect) []int {
	var out []int
	for _, i := range t.Leaves() {
		if t.mustGet(i).area.Intersects(area) {
			out = append(out, i)
		}
	}
	return out
}
