package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/1broseidon/treetile/internal/config"
	"github.com/1broseidon/treetile/internal/ipc"
	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/tiling"
)

var version = "dev"

// daemonClient is the IPC surface the control commands use.
type daemonClient interface {
	GetStatus() (*ipc.StatusData, error)
	GetTree(displayID int) (*tiling.TreeNode, error)
	MoveActive(direction string) (bool, error)
	Focus(target string) (ipc.FocusResult, error)
	ToggleFullscreen() (bool, error)
	CloseActive() (platform.WindowID, error)
	Sync() error
	Reload() error
}

var _ daemonClient = (*ipc.Client)(nil)

type app struct {
	out, errOut io.Writer
	client      func() daemonClient
	// styled reports whether out is a terminal that gets lipgloss styling.
	styled func() bool

	verbose    bool
	configPath string
	logger     *charmlog.Logger
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:    out,
		errOut: errOut,
		client: func() daemonClient { return ipc.NewClient() },
		styled: func() bool {
			f, ok := out.(*os.File)
			return ok && term.IsTerminal(int(f.Fd()))
		},
	}
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "treetile",
		Short:        "Tree-based tiling for X11 windows",
		Long:         `treetile keeps the windows on each display tiled in a tree of horizontal and vertical splits. Run 'treetile daemon' under your window manager and drive it with key bindings or the commands below.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := charmlog.InfoLevel
			if a.verbose {
				level = charmlog.DebugLevel
			}
			a.logger = newLogger(a.errOut, level)
			cmd.SetContext(withLogger(cmd.Context(), a.logger))
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "config file (default: ~/.config/treetile/config.yaml)")

	root.AddCommand(a.daemonCommand())
	root.AddCommand(a.statusCommand())
	root.AddCommand(a.treeCommand())
	root.AddCommand(a.moveCommand())
	root.AddCommand(a.focusCommand())
	root.AddCommand(a.fullscreenCommand())
	root.AddCommand(a.closeCommand())
	root.AddCommand(a.syncCommand())
	root.AddCommand(a.reloadCommand())
	root.AddCommand(a.configCommand())
	root.AddCommand(a.mcpCommand())
	return root
}

func (a *app) resolveConfigPath() (string, error) {
	if a.configPath != "" {
		return a.configPath, nil
	}
	return config.DefaultConfigPath()
}

func newLogger(w io.Writer, level charmlog.Level) *charmlog.Logger {
	return charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// configLevel maps config log_level values onto charm levels.
func configLevel(s string) charmlog.Level {
	switch s {
	case "debug":
		return charmlog.DebugLevel
	case "warning":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *charmlog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

func loggerFromContext(ctx context.Context) *charmlog.Logger {
	if l, ok := ctx.Value(loggerKey).(*charmlog.Logger); ok {
		return l
	}
	return charmlog.Default()
}

// slogFromContext adapts the command logger for packages that log through
// log/slog.
func slogFromContext(ctx context.Context) *slog.Logger {
	return slog.New(loggerFromContext(ctx))
}
