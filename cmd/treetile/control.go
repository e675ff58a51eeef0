package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/1broseidon/treetile/internal/tiling"
)

func (a *app) statusCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := a.client().GetStatus()
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(a.out, status)
			}
			printStatus(a.out, newStyles(a.styled()), status)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func (a *app) treeCommand() *cobra.Command {
	var (
		displayID int
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Print the layout tree of a display",
		Long: `Print the layout tree of a display.

Containers are shown as C-<index> with ► for a horizontal split and ▼ for a
vertical one; leaves are W-<index> followed by the window id.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := a.client().GetTree(displayID)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(a.out, tree)
			}
			printTree(a.out, newStyles(a.styled()), *tree)
			return nil
		},
	}
	cmd.Flags().IntVarP(&displayID, "display", "d", -1, "display id (default: the display holding the focused window)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print raw JSON")
	return cmd
}

func (a *app) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "move <up|down|left|right>",
		Short:     "Move the focused window within the layout",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"up", "down", "left", "right"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := tiling.ParseDirection(args[0])
			if err != nil {
				return err
			}
			moved, err := a.client().MoveActive(dir.String())
			if err != nil {
				return err
			}
			if !moved {
				loggerFromContext(cmd.Context()).Info("window is already at the edge", "direction", dir)
			}
			return nil
		},
	}
}

func (a *app) focusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "focus <up|down|left|right|next|previous|window-id>",
		Short: "Move focus to another window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := a.client().Focus(args[0])
			if err != nil {
				return err
			}
			if res.Changed {
				fmt.Fprintf(a.out, "%d\n", res.Window)
			}
			return nil
		},
	}
}

func (a *app) fullscreenCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "fullscreen",
		Short: "Toggle fullscreen for the focused window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := a.client().ToggleFullscreen()
			return err
		},
	}
}

func (a *app) closeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "close",
		Short: "Close the focused window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := a.client().CloseActive()
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("close requested", "window_id", id)
			return nil
		},
	}
}

func (a *app) syncCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile layouts with the window system now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.client().Sync()
		},
	}
}

func (a *app) reloadCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Ask the daemon to reload its config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client().Reload(); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "config reloaded")
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
