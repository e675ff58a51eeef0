package tiling

import (
	"fmt"
	"strings"
)

// Axis is the dimension along which a container splits its children.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return fmt.Sprintf("axis(%d)", int(a))
	}
}

// Opposite returns the other axis.
func (a Axis) Opposite() Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

// Direction represents an arrow key direction
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// RelativePosition selects which side of a sibling a node is placed on.
type RelativePosition int

const (
	Before RelativePosition = iota
	After
)

// Extremity selects an end of a container's children list.
type Extremity int

const (
	Start Extremity = iota
	End
)

// Axis returns the axis a move in d travels along.
func (d Direction) Axis() Axis {
	if d == DirUp || d == DirDown {
		return Vertical
	}
	return Horizontal
}

// Relative maps Up/Left to Before and Down/Right to After.
func (d Direction) Relative() RelativePosition {
	if d == DirUp || d == DirLeft {
		return Before
	}
	return After
}

// Extremity maps Up/Left to Start and Down/Right to End.
func (d Direction) Extremity() Extremity {
	if d.Relative() == Before {
		return Start
	}
	return End
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	default:
		return DirLeft
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection parses "up", "down", "left" or "right" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right":
		return DirRight, nil
	default:
		return 0, fmt.Errorf("invalid direction %q (expected up, down, left or right)", s)
	}
}

func (p RelativePosition) opposite() RelativePosition {
	if p == Before {
		return After
	}
	return Before
}
