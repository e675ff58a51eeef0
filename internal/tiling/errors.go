package tiling

import "errors"

var (
	// ErrNodeNotFound is returned when an index does not name a live node.
	ErrNodeNotFound = errors.New("node not found")
	// ErrInvalidTarget is returned when a move or insert target cannot hold the node.
	ErrInvalidTarget = errors.New("invalid target node")
	// ErrRemoveRoot is returned for any attempt to remove the root container.
	ErrRemoveRoot = errors.New("tried to remove root index of layout")

	// ErrWindowNotFound is returned when a window is not contained in a layout.
	ErrWindowNotFound = errors.New("window is not contained in the layout")
	// ErrWindowExists is returned when a window is added to a layout twice.
	ErrWindowExists = errors.New("window is already contained in the layout")
)

var (
	// ErrNoActiveWindow is returned when a command needs a focused window and none is tiled.
	ErrNoActiveWindow = errors.New("no active window")
	// ErrDisplayNotFound is returned for an unknown display id.
	ErrDisplayNotFound = errors.New("display not found")
)
