package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/treetile/internal/ipc"
	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/tiling"
)

const (
	ServerName    = "treetile"
	ServerVersion = "0.1.0"
)

// Daemon is the part of the IPC client the tools forward to.
type Daemon interface {
	GetStatus() (*ipc.StatusData, error)
	GetTree(displayID int) (*tiling.TreeNode, error)
	MoveActive(direction string) (bool, error)
	Focus(target string) (ipc.FocusResult, error)
	ToggleFullscreen() (bool, error)
	CloseActive() (platform.WindowID, error)
	Sync() error
}

var _ Daemon = (*ipc.Client)(nil)

// Server is the MCP server for treetile layout control.
type Server struct {
	mcpServer *mcpsdk.Server
	daemon    Daemon
	logger    *slog.Logger
}

// NewServer creates an MCP server whose tools talk to daemon.
func NewServer(daemon Daemon, logger *slog.Logger) (*Server, error) {
	if daemon == nil {
		return nil, fmt.Errorf("mcp: daemon client is required")
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{daemon: daemon, logger: logger}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)
	s.registerTools()
	return s, nil
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Report the treetile daemon status: displays, their tiled windows, the focused and fullscreen window per display, and running animations.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_layout_tree",
		Description: "Return the layout tree of one display. Containers split their area horizontally or vertically between children by weight; leaves hold windows.",
	}, s.handleGetLayoutTree)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_active_window",
		Description: "Move the focused window one step up, down, left or right in the layout tree. Returns moved=false when the window is already at the edge.",
	}, s.handleMoveActiveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Focus another window: a direction (up, down, left, right), next or previous in layout order, or an explicit window id.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "toggle_fullscreen",
		Description: "Toggle fullscreen for the focused window. While on, the window covers the whole tiling area and focus changes are refused.",
	}, s.handleToggleFullscreen)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_active_window",
		Description: "Ask the focused window to close gracefully. The layout updates once the window is gone.",
	}, s.handleCloseActiveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "sync_layout",
		Description: "Reconcile every layout with the window system now instead of waiting for the next periodic sync.",
	}, s.handleSyncLayout)
}

func (s *Server) handleGetStatus(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetStatusInput) (*mcpsdk.CallToolResult, GetStatusOutput, error) {
	status, err := s.daemon.GetStatus()
	if err != nil {
		return nil, GetStatusOutput{}, s.daemonError("get_status", err)
	}
	return nil, GetStatusOutput{StatusData: *status}, nil
}

func (s *Server) handleGetLayoutTree(_ context.Context, _ *mcpsdk.CallToolRequest, args GetLayoutTreeInput) (*mcpsdk.CallToolResult, GetLayoutTreeOutput, error) {
	displayID := -1
	if args.DisplayID != nil {
		if *args.DisplayID < 0 {
			return nil, GetLayoutTreeOutput{}, fmt.Errorf("display_id must be >= 0, got %d", *args.DisplayID)
		}
		displayID = *args.DisplayID
	}
	tree, err := s.daemon.GetTree(displayID)
	if err != nil {
		return nil, GetLayoutTreeOutput{}, s.daemonError("get_layout_tree", err)
	}
	return nil, GetLayoutTreeOutput{Tree: *tree, Text: tree.String()}, nil
}

func (s *Server) handleMoveActiveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveActiveWindowInput) (*mcpsdk.CallToolResult, MoveActiveWindowOutput, error) {
	dir, err := tiling.ParseDirection(args.Direction)
	if err != nil {
		return nil, MoveActiveWindowOutput{}, err
	}
	moved, err := s.daemon.MoveActive(dir.String())
	if err != nil {
		return nil, MoveActiveWindowOutput{}, s.daemonError("move_active_window", err)
	}
	return nil, MoveActiveWindowOutput{Moved: moved}, nil
}

func (s *Server) handleFocusWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args FocusWindowInput) (*mcpsdk.CallToolResult, FocusWindowOutput, error) {
	target := strings.TrimSpace(args.Target)
	if target == "" {
		return nil, FocusWindowOutput{}, fmt.Errorf("target is required")
	}
	res, err := s.daemon.Focus(target)
	if err != nil {
		return nil, FocusWindowOutput{}, s.daemonError("focus_window", err)
	}
	return nil, FocusWindowOutput{Window: res.Window, Changed: res.Changed}, nil
}

func (s *Server) handleToggleFullscreen(_ context.Context, _ *mcpsdk.CallToolRequest, _ ToggleFullscreenInput) (*mcpsdk.CallToolResult, ToggleFullscreenOutput, error) {
	changed, err := s.daemon.ToggleFullscreen()
	if err != nil {
		return nil, ToggleFullscreenOutput{}, s.daemonError("toggle_fullscreen", err)
	}
	return nil, ToggleFullscreenOutput{Changed: changed}, nil
}

func (s *Server) handleCloseActiveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, _ CloseActiveWindowInput) (*mcpsdk.CallToolResult, CloseActiveWindowOutput, error) {
	id, err := s.daemon.CloseActive()
	if err != nil {
		return nil, CloseActiveWindowOutput{}, s.daemonError("close_active_window", err)
	}
	return nil, CloseActiveWindowOutput{Window: id}, nil
}

func (s *Server) handleSyncLayout(_ context.Context, _ *mcpsdk.CallToolRequest, _ SyncLayoutInput) (*mcpsdk.CallToolResult, SyncLayoutOutput, error) {
	if err := s.daemon.Sync(); err != nil {
		return nil, SyncLayoutOutput{}, s.daemonError("sync_layout", err)
	}
	return nil, SyncLayoutOutput{Synced: true}, nil
}

func (s *Server) daemonError(tool string, err error) error {
	s.logger.Warn("mcp tool failed", "tool", tool, "error", err)
	return fmt.Errorf("%s: %w (is 'treetile daemon' running?)", tool, err)
}
