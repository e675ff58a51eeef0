package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/runtimepath"
	"github.com/1broseidon/treetile/internal/tiling"
)

// Client handles IPC communication with the daemon
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a client for the default socket.
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}
	return NewClientForSocket(socketPath)
}

// NewClientForSocket creates a client for an explicit socket path.
func NewClientForSocket(socketPath string) *Client {
	return &Client{
		socketPath: socketPath,
		timeout:    requestTimeout,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(command CommandType, payload any) (*Response, error) {
	req := &Request{ID: uuid.NewString(), Command: command}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		req.Payload = raw
	}

	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon: %w (is the daemon running?)", err)
	}
	defer conn.Close()
	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	respData, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.Status == StatusError {
		return nil, fmt.Errorf("daemon error: %s", resp.Error)
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("response id %q does not match request %q", resp.ID, req.ID)
	}
	return &resp, nil
}

func call[T any](c *Client, command CommandType, payload any) (T, error) {
	var out T
	resp, err := c.sendRequest(command, payload)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(resp.Data, &out); err != nil {
		return out, fmt.Errorf("failed to parse %s data: %w", command, err)
	}
	return out, nil
}

// Reload asks the daemon to reload its configuration.
func (c *Client) Reload() error {
	_, err := c.sendRequest(CommandReload, nil)
	return err
}

// Sync asks the daemon to reconcile its layouts with the window system now.
func (c *Client) Sync() error {
	_, err := c.sendRequest(CommandSync, nil)
	return err
}

// GetStatus retrieves daemon status
func (c *Client) GetStatus() (*StatusData, error) {
	status, err := call[StatusData](c, CommandGetStatus, nil)
	if err != nil {
		return nil, err
	}
	return &status, nil
}

// GetTree retrieves a display's layout tree. A negative id means the display
// the daemon considers current.
func (c *Client) GetTree(displayID int) (*tiling.TreeNode, error) {
	var payload TreePayload
	if displayID >= 0 {
		payload.DisplayID = &displayID
	}
	tree, err := call[tiling.TreeNode](c, CommandGetTree, payload)
	if err != nil {
		return nil, err
	}
	return &tree, nil
}

// MoveActive moves the focused window and reports whether the layout changed.
func (c *Client) MoveActive(direction string) (bool, error) {
	res, err := call[MoveResult](c, CommandMoveActive, MovePayload{Direction: direction})
	return res.Moved, err
}

// Focus moves focus to target.
func (c *Client) Focus(target string) (FocusResult, error) {
	return call[FocusResult](c, CommandFocus, FocusPayload{Target: target})
}

// ToggleFullscreen toggles fullscreen for the focused window.
func (c *Client) ToggleFullscreen() (bool, error) {
	res, err := call[FullscreenResult](c, CommandToggleFullscreen, nil)
	return res.Changed, err
}

// CloseActive asks the daemon to close the focused window.
func (c *Client) CloseActive() (platform.WindowID, error) {
	res, err := call[CloseResult](c, CommandCloseActive, nil)
	return res.Window, err
}

// Ping checks if the daemon is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
