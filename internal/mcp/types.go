package mcp

import (
	"github.com/1broseidon/treetile/internal/ipc"
	"github.com/1broseidon/treetile/internal/platform"
)

// GetStatusInput is the input for the get_status tool.
type GetStatusInput struct{}

// GetStatusOutput is the output for the get_status tool.
type GetStatusOutput struct {
	ipc.StatusData
}

// GetLayoutTreeInput is the input for the get_layout_tree tool.
type GetLayoutTreeInput struct {
	DisplayID *int `json:"display_id,omitempty" jsonschema:"Display id to dump (default: the display holding the focused window)"`
}

// GetLayoutTreeOutput is the output for the get_layout_tree tool.
type GetLayoutTreeOutput struct {
	// Tree holds a tiling.TreeNode. It is typed any because schema inference
	// does not follow recursive types.
	Tree any `json:"tree"`
	// Text is the same tree in the compact C-/W- form.
	Text string `json:"text"`
}

// MoveActiveWindowInput is the input for the move_active_window tool.
type MoveActiveWindowInput struct {
	Direction string `json:"direction" jsonschema:"One of up, down, left or right"`
}

// MoveActiveWindowOutput is the output for the move_active_window tool.
type MoveActiveWindowOutput struct {
	Moved bool `json:"moved"`
}

// FocusWindowInput is the input for the focus_window tool.
type FocusWindowInput struct {
	Target string `json:"target" jsonschema:"A direction (up, down, left, right), next, previous, or a window id"`
}

// FocusWindowOutput is the output for the focus_window tool.
type FocusWindowOutput struct {
	Window  platform.WindowID `json:"window"`
	Changed bool              `json:"changed"`
}

// ToggleFullscreenInput is the input for the toggle_fullscreen tool.
type ToggleFullscreenInput struct{}

// ToggleFullscreenOutput is the output for the toggle_fullscreen tool.
type ToggleFullscreenOutput struct {
	Changed bool `json:"changed"`
}

// CloseActiveWindowInput is the input for the close_active_window tool.
type CloseActiveWindowInput struct{}

// CloseActiveWindowOutput is the output for the close_active_window tool.
type CloseActiveWindowOutput struct {
	Window platform.WindowID `json:"window"`
}

// SyncLayoutInput is the input for the sync_layout tool.
type SyncLayoutInput struct{}

// SyncLayoutOutput is the output for the sync_layout tool.
type SyncLayoutOutput struct {
	Synced bool `json:"synced"`
}
