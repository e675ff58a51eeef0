package tiling

import (
	"fmt"
	"strings"

	"github.com/1broseidon/treetile/internal/geom"
	"github.com/1broseidon/treetile/internal/platform"
)

// TreeNode is a read-only copy of one node and its subtree.
type TreeNode struct {
	Index      int               `json:"index"`
	Kind       string            `json:"kind"`
	Axis       string            `json:"axis,omitempty"`
	Window     platform.WindowID `json:"window,omitempty"`
	Weight     float64           `json:"weight"`
	Area       geom.Rect         `json:"area"`
	Active     bool              `json:"active,omitempty"`
	Fullscreen bool              `json:"fullscreen,omitempty"`
	Children   []TreeNode        `json:"children,omitempty"`
}

// Snapshot copies the whole tree starting at the root.
func (t *Tree) Snapshot() TreeNode {
	return t.snapshot(RootIndex)
}

func (t *Tree) snapshot(i int) TreeNode {
	n := t.mustGet(i)
	out := TreeNode{
		Index:  i,
		Kind:   n.kind.String(),
		Weight: n.weight,
		Area:   n.area,
		Active: i == t.active,
	}
	if n.kind == KindLeaf {
		out.Window = n.window
	} else {
		out.Axis = n.axis.String()
	}
	for _, c := range n.children {
		out.Children = append(out.Children, t.snapshot(c))
	}
	return out
}

// String renders the tree one node per line:
//
//	C-0 ►
//	├ W-1
//	└ C-2 ▼
//	 ├ W-3
//	 └ W-4
func (t *Tree) String() string {
	return t.Snapshot().String()
}

// String renders n and its subtree the same way Tree.String does.
func (n TreeNode) String() string {
	var b strings.Builder
	b.WriteString(n.label())
	b.WriteByte('\n')
	n.dumpChildren(&b, "")
	return b.String()
}

func (n TreeNode) dumpChildren(b *strings.Builder, prefix string) {
	for k, c := range n.Children {
		branch, indent := "├ ", "│"
		if k == len(n.Children)-1 {
			branch, indent = "└ ", " "
		}
		fmt.Fprintf(b, "%s%s%s\n", prefix, branch, c.label())
		if c.Kind == KindContainer.String() {
			c.dumpChildren(b, prefix+indent)
		}
	}
}

func (n TreeNode) label() string {
	if n.Kind == KindLeaf.String() {
		return fmt.Sprintf("W-%d", n.Index)
	}
	glyph := "►"
	if n.Axis == Vertical.String() {
		glyph = "▼"
	}
	return fmt.Sprintf("C-%d %s", n.Index, glyph)
}
