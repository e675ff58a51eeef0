package platform

import "github.com/1broseidon/treetile/internal/geom"

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// Rect describes a rectangular region in screen coordinates.
type Rect = geom.Rect

// Display describes a physical display and its usable work area.
type Display struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Bounds Rect   `json:"bounds"`
	Usable Rect   `json:"usable"`
}

// Window contains metadata and geometry for a top-level window.
type Window struct {
	ID     WindowID `json:"id"`
	PID    int      `json:"pid,omitempty"`
	Class  string   `json:"class"`
	Title  string   `json:"title"`
	Bounds Rect     `json:"bounds"`
}

// Backend abstracts window-system operations across platforms.
type Backend interface {
	Displays() ([]Display, error)
	ActiveWindow() (WindowID, error)
	// ListWindowsOnDisplay returns tileable windows on the current desktop
	// whose centers lie on the display, ordered by id.
	ListWindowsOnDisplay(displayID int) ([]Window, error)
	MoveResize(windowID WindowID, bounds Rect) error
	Focus(windowID WindowID) error
	Close(windowID WindowID) error
	PointerPosition() (x, y int, err error)
}
