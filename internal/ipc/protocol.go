package ipc

import (
	"encoding/json"
	"fmt"

	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/tiling"
)

// CommandType represents different IPC command types
type CommandType string

const (
	CommandReload           CommandType = "RELOAD"
	CommandGetStatus        CommandType = "GET_STATUS"
	CommandGetTree          CommandType = "GET_TREE"
	CommandMoveActive       CommandType = "MOVE_ACTIVE"
	CommandFocus            CommandType = "FOCUS"
	CommandToggleFullscreen CommandType = "TOGGLE_FULLSCREEN"
	CommandCloseActive      CommandType = "CLOSE_ACTIVE"
	CommandSync             CommandType = "SYNC"
)

const (
	StatusOK    = "OK"
	StatusError = "ERROR"
)

// Request represents an IPC request from client to server. ID is echoed in
// the response; the server assigns one when it is empty.
type Request struct {
	ID      string          `json:"id,omitempty"`
	Command CommandType     `json:"command"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Response represents an IPC response from server to client
type Response struct {
	ID     string          `json:"id,omitempty"`
	Status string          `json:"status"` // "OK" or "ERROR"
	Data   json.RawMessage `json:"data,omitempty"`
	Error  string          `json:"error,omitempty"`
}

// StatusData represents the data returned by GET_STATUS
type StatusData struct {
	tiling.Status
	UptimeSeconds int64 `json:"uptime_seconds"`
	DaemonRunning bool  `json:"daemon_running"`
}

// TreePayload selects the display for GET_TREE; nil means the current one.
type TreePayload struct {
	DisplayID *int `json:"display_id,omitempty"`
}

type MovePayload struct {
	Direction string `json:"direction"`
}

// FocusPayload carries "next", "previous", a direction or a window id.
type FocusPayload struct {
	Target string `json:"target"`
}

type MoveResult struct {
	Moved bool `json:"moved"`
}

type FocusResult struct {
	Window  platform.WindowID `json:"window,omitempty"`
	Changed bool              `json:"changed"`
}

type FullscreenResult struct {
	Changed bool `json:"changed"`
}

type CloseResult struct {
	Window platform.WindowID `json:"window"`
}

// NewOKResponse creates a successful response with optional data
func NewOKResponse(data any) (*Response, error) {
	var dataBytes json.RawMessage
	if data != nil {
		bytes, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response data: %w", err)
		}
		dataBytes = bytes
	}

	return &Response{
		Status: StatusOK,
		Data:   dataBytes,
	}, nil
}

// NewErrorResponse creates an error response with a message
func NewErrorResponse(errMsg string) *Response {
	return &Response{
		Status: StatusError,
		Error:  errMsg,
	}
}

// ParseRequest parses a request from JSON bytes
func ParseRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	if req.Command == "" {
		return nil, fmt.Errorf("failed to parse request: missing command")
	}
	return &req, nil
}

// Marshal converts a response to JSON bytes
func (r *Response) Marshal() ([]byte, error) {
	return json.Marshal(r)
}

func decodePayload(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}
