package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/treetile/internal/ipc"
	"github.com/1broseidon/treetile/internal/tiling"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorDim   = lipgloss.Color("240")
)

// styles renders text with lipgloss when the output is a terminal and passes
// it through unchanged otherwise.
type styles struct {
	title, key, active, fullscreen, dim lipgloss.Style
	enabled                             bool
}

func newStyles(enabled bool) styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true).Foreground(colorCyan),
		key:        lipgloss.NewStyle().Foreground(colorDim),
		active:     lipgloss.NewStyle().Bold(true).Foreground(colorGreen),
		fullscreen: lipgloss.NewStyle().Foreground(colorAmber),
		dim:        lipgloss.NewStyle().Foreground(colorDim),
		enabled:    enabled,
	}
}

func (s styles) render(st lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return st.Render(text)
}

func printStatus(w io.Writer, s styles, status *ipc.StatusData) {
	fmt.Fprintf(w, "%s %v\n", s.render(s.key, "daemon_running:"), status.DaemonRunning)
	fmt.Fprintf(w, "%s %d\n", s.render(s.key, "uptime_seconds:"), status.UptimeSeconds)
	fmt.Fprintf(w, "%s %d\n", s.render(s.key, "windows:       "), status.Windows)
	fmt.Fprintf(w, "%s %d\n", s.render(s.key, "animating:     "), status.Animating)
	for _, d := range status.Displays {
		header := fmt.Sprintf("display %d (%s)", d.ID, d.Name)
		if d.ID == status.CurrentDisplay {
			header += " *"
		}
		fmt.Fprintf(w, "\n%s %s\n", s.render(s.title, header), s.render(s.dim, d.Area.String()))
		if len(d.Windows) == 0 {
			fmt.Fprintf(w, "  %s\n", s.render(s.dim, "no windows"))
			continue
		}
		ids := make([]string, 0, len(d.Windows))
		for _, id := range d.Windows {
			label := fmt.Sprintf("%d", id)
			switch id {
			case d.Fullscreen:
				label = s.render(s.fullscreen, label+" [fullscreen]")
			case d.Active:
				label = s.render(s.active, label+" [active]")
			}
			ids = append(ids, label)
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(ids, ", "))
	}
}

// printTree writes the compact tree dump, annotating each leaf with its
// window id and marking the active and fullscreen leaves.
func printTree(w io.Writer, s styles, tree tiling.TreeNode) {
	lines := strings.Split(strings.TrimSuffix(tree.String(), "\n"), "\n")
	nodes := flatten(tree, nil)
	for i, line := range lines {
		n := nodes[i]
		switch {
		case n.Kind == tiling.KindLeaf.String():
			line += " " + s.render(s.dim, fmt.Sprintf("(%d) %s", n.Window, n.Area.String()))
		case i == 0:
			line += " " + s.render(s.dim, n.Area.String())
		}
		switch {
		case n.Fullscreen:
			line = s.render(s.fullscreen, line+" [fullscreen]")
		case n.Active:
			line = s.render(s.active, line+" [active]")
		}
		fmt.Fprintln(w, line)
	}
}

// flatten lists nodes in the order TreeNode.String prints them.
func flatten(n tiling.TreeNode, out []tiling.TreeNode) []tiling.TreeNode {
	out = append(out, n)
	for _, c := range n.Children {
		out = flatten(c, out)
	}
	return out
}
