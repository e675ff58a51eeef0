package tiling

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/treetile/internal/geom"
)

// row builds three windows side by side on a horizontal root.
func row(t *testing.T) (tr *Tree, a, b, c int) {
	t.Helper()
	tr = NewTree(screen)
	a = place(t, tr, 1, DirRight)
	b = place(t, tr, 2, DirRight)
	c = place(t, tr, 3, DirRight)
	return tr, a, b, c
}

func TestMoveActive_TwoWindowsRotate(t *testing.T) {
	tr := NewTree(screen)
	a := place(t, tr, 1, DirRight)
	b := place(t, tr, 2, DirRight)

	if !tr.MoveActive(DirDown) {
		t.Fatalf("MoveActive(down) reported no change")
	}
	tr.Rebalance()
	if axis, _ := tr.Axis(RootIndex); axis != Vertical {
		t.Fatalf("root axis = %v, want vertical", axis)
	}
	if diff := cmp.Diff([]int{a, b}, tr.Children(RootIndex)); diff != "" {
		t.Fatalf("root children (-want +got):\n%s", diff)
	}
	if got, want := area(t, tr, a), (geom.Rect{Width: 1000, Height: 400}); got != want {
		t.Fatalf("A = %v, want %v", got, want)
	}
	if got, want := area(t, tr, b), (geom.Rect{Y: 400, Width: 1000, Height: 400}); got != want {
		t.Fatalf("B = %v, want %v", got, want)
	}

	if !tr.MoveActive(DirUp) {
		t.Fatalf("MoveActive(up) reported no change")
	}
	if diff := cmp.Diff([]int{b, a}, tr.Children(RootIndex)); diff != "" {
		t.Fatalf("root children after up (-want +got):\n%s", diff)
	}
}

func TestMoveActive_SingleWindowIsNoop(t *testing.T) {
	tr := NewTree(screen)
	place(t, tr, 1, DirRight)
	for _, dir := range []Direction{DirUp, DirDown, DirLeft, DirRight} {
		if tr.MoveActive(dir) {
			t.Fatalf("MoveActive(%v) changed a single-window tree", dir)
		}
	}
	if NewTree(screen).MoveActive(DirLeft) {
		t.Fatalf("empty tree moved")
	}
}

func TestMoveActive_Row(t *testing.T) {
	t.Run("swap with leaf sibling", func(t *testing.T) {
		tr, a, b, c := row(t)
		if !tr.MoveActive(DirLeft) {
			t.Fatalf("no change")
		}
		if diff := cmp.Diff([]int{a, c, b}, tr.Children(RootIndex)); diff != "" {
			t.Fatalf("root children (-want +got):\n%s", diff)
		}
	})

	t.Run("edge along root axis", func(t *testing.T) {
		tr, a, b, c := row(t)
		if err := tr.SetActive(a); err != nil {
			t.Fatal(err)
		}
		if tr.MoveActive(DirLeft) {
			t.Fatalf("moving the left-most window left changed the tree:\n%s", tr)
		}
		if diff := cmp.Diff([]int{a, b, c}, tr.Children(RootIndex)); diff != "" {
			t.Fatalf("root children (-want +got):\n%s", diff)
		}
	})

	t.Run("across root axis extends root", func(t *testing.T) {
		tr, a, b, c := row(t)
		if err := tr.SetActive(b); err != nil {
			t.Fatal(err)
		}
		if !tr.MoveActive(DirUp) {
			t.Fatalf("no change")
		}
		tr.Rebalance()
		if err := tr.Check(); err != nil {
			t.Fatalf("Check: %v\n%s", err, tr)
		}
		if axis, _ := tr.Axis(RootIndex); axis != Vertical {
			t.Fatalf("root axis = %v, want vertical", axis)
		}
		children := tr.Children(RootIndex)
		if len(children) != 2 || children[0] != b {
			t.Fatalf("root children = %v, want [B, container]", children)
		}
		if axis, _ := tr.Axis(children[1]); axis != Horizontal {
			t.Fatalf("pushed-down container axis = %v, want horizontal", axis)
		}
		want := map[int]geom.Rect{
			b: {Width: 1000, Height: 400},
			a: {Y: 400, Width: 500, Height: 400},
			c: {X: 500, Y: 400, Width: 500, Height: 400},
		}
		for i, w := range want {
			if got := area(t, tr, i); got != w {
				t.Errorf("node %d = %v, want %v", i, got, w)
			}
		}
	})
}

func TestMoveActive_Nested(t *testing.T) {
	tests := []struct {
		name   string
		active func(a, b, c int) int
		dir    Direction
		axis   Axis
		order  func(a, b, c int) []int
	}{
		{
			name:   "into neighbouring container",
			active: func(a, _, _ int) int { return a },
			dir:    DirRight,
			axis:   Vertical,
			order:  func(a, b, c int) []int { return []int{a, b, c} },
		},
		{
			name:   "out of container towards leaf",
			active: func(_, b, _ int) int { return b },
			dir:    DirLeft,
			axis:   Horizontal,
			order:  func(a, b, c int) []int { return []int{a, b, c} },
		},
		{
			name:   "out of container at the edge",
			active: func(_, _, c int) int { return c },
			dir:    DirRight,
			axis:   Horizontal,
			order:  func(a, b, c int) []int { return []int{a, b, c} },
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, a, b, c := scenarioSplit(t)
			active := tt.active(a, b, c)
			if err := tr.SetActive(active); err != nil {
				t.Fatal(err)
			}
			if !tr.MoveActive(tt.dir) {
				t.Fatalf("no change")
			}
			tr.Rebalance()
			if err := tr.Check(); err != nil {
				t.Fatalf("Check: %v\n%s", err, tr)
			}
			if axis, _ := tr.Axis(RootIndex); axis != tt.axis {
				t.Fatalf("root axis = %v, want %v", axis, tt.axis)
			}
			if diff := cmp.Diff(tt.order(a, b, c), tr.Children(RootIndex)); diff != "" {
				t.Fatalf("root children (-want +got):\n%s\n%s", diff, tr)
			}
			if tr.Active() != active {
				t.Fatalf("active = %d, want %d", tr.Active(), active)
			}
		})
	}
}

func TestClosestSibling(t *testing.T) {
	tr, a, b, c := scenarioSplit(t)
	k := tr.Children(RootIndex)[1]

	tests := []struct {
		name string
		from int
		dir  Direction
		want int
		ok   bool
	}{
		{"leaf to container", a, DirRight, k, true},
		{"nested climbs to root", b, DirLeft, a, true},
		{"within container", b, DirDown, c, true},
		{"edge of matching container", c, DirDown, -1, false},
		{"edge of root", a, DirLeft, -1, false},
		{"no matching axis", a, DirUp, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tr.ClosestSibling(tt.from, tt.dir)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("ClosestSibling(%d, %v) = %d,%v want %d,%v", tt.from, tt.dir, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNeighbor(t *testing.T) {
	tr, a, b, c := scenarioSplit(t)

	tests := []struct {
		name string
		from int
		dir  Direction
		want int
		ok   bool
	}{
		{"into container picks first leaf", a, DirRight, b, true},
		{"out of container", c, DirLeft, a, true},
		{"down within container", b, DirDown, c, true},
		{"up within container", c, DirUp, b, true},
		{"nothing left of the first window", a, DirLeft, -1, false},
		{"nothing above a full-height window", a, DirUp, -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tr.Neighbor(tt.from, tt.dir)
			if got != tt.want || ok != tt.ok {
				t.Fatalf("Neighbor(%d, %v) = %d,%v want %d,%v", tt.from, tt.dir, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCycleLeaf(t *testing.T) {
	tr, a, b, c := scenarioSplit(t)
	if tr.Active() != c {
		t.Fatalf("active = %d, want C", tr.Active())
	}
	if got, _ := tr.CycleLeaf(false); got != a {
		t.Fatalf("next = %d, want wrap to A (%d)", got, a)
	}
	if got, _ := tr.CycleLeaf(true); got != b {
		t.Fatalf("previous = %d, want B (%d)", got, b)
	}
	if _, ok := NewTree(screen).CycleLeaf(false); ok {
		t.Fatalf("empty tree cycled")
	}
}

func TestLeafAt(t *testing.T) {
	tr, a, _, c := scenarioSplit(t)

	if got, ok := tr.LeafAt(750, 500); !ok || got != c {
		t.Fatalf("LeafAt(750,500) = %d,%v want C", got, ok)
	}
	if got, ok := tr.LeafAt(0, 0); !ok || got != a {
		t.Fatalf("LeafAt(0,0) = %d,%v want A", got, ok)
	}
	if _, ok := tr.LeafAt(1000, 0); ok {
		t.Fatalf("point on the right edge matched a leaf")
	}
}

func TestIntersectingLeaves(t *testing.T) {
	tr, a, b, c := scenarioSplit(t)

	if diff := cmp.Diff([]int{a, b, c}, tr.IntersectingLeaves(geom.Rect{X: 400, Y: 300, Width: 200, Height: 200})); diff != "" {
		t.Fatalf("centre lookup (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{a}, tr.IntersectingLeaves(geom.Rect{Width: 100, Height: 100})); diff != "" {
		t.Fatalf("corner lookup (-want +got):\n%s", diff)
	}
}
