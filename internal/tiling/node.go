package tiling

import (
	"github.com/1broseidon/treetile/internal/geom"
	"github.com/1broseidon/treetile/internal/platform"
)

// NodeKind tells containers and leaves apart.
type NodeKind int

const (
	KindContainer NodeKind = iota
	KindLeaf
)

func (k NodeKind) String() string {
	if k == KindLeaf {
		return "leaf"
	}
	return "container"
}

// DefaultWeight is the share a node gets when nothing else is requested.
const DefaultWeight = 1.0

type node struct {
	parent   int
	kind     NodeKind
	children []int
	axis     Axis
	window   platform.WindowID
	weight   float64
	area     geom.Rect
}

// NodeRef pins an index to the allocation it was taken from. A ref goes stale
// once its node is freed, even if the slot is reused.
type NodeRef struct {
	Index int
	Gen   uint64
}

// rebalanceArea places n at offset along axis inside parent, taking size pixels
// of the parent's extent. It reports whether n's area changed.
func (n *node) rebalanceArea(parent geom.Rect, axis Axis, offset, size int) bool {
	next := parent
	if axis == Horizontal {
		next.X = parent.X + offset
		next.Width = size
	} else {
		next.Y = parent.Y + offset
		next.Height = size
	}
	if next == n.area {
		return false
	}
	n.area = next
	return true
}

func extentAlong(r geom.Rect, axis Axis) int {
	if axis == Horizontal {
		return r.Width
	}
	return r.Height
}
