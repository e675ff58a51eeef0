// Package command defines the actions that key bindings and clients can
// request from the daemon.
package command

import (
	"fmt"
	"strings"
)

type Kind string

const (
	MoveActiveWindow  Kind = "move_active_window"
	Focus             Kind = "focus"
	FocusNext         Kind = "move_focus_to_next_window"
	FocusPrevious     Kind = "move_focus_to_previous_window"
	ToggleFullscreen  Kind = "toggle_fullscreen"
	CloseActiveWindow Kind = "close_active_window"
	Exec              Kind = "exec"
	Reload            Kind = "reload"
	Terminate         Kind = "terminate"
)

// Command is a parsed action. Direction is set for MoveActiveWindow and
// Focus, Args for Exec.
type Command struct {
	Kind      Kind
	Direction string
	Args      []string
}

var directions = []string{"up", "down", "left", "right"}

// Parse reads a command such as "move_active_window_left",
// "move_focus_to_next_window" or "exec alacritty -e htop".
func Parse(s string) (Command, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("command is empty")
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	if name == string(Exec) {
		if len(args) == 0 {
			return Command{}, fmt.Errorf("exec requires a program")
		}
		return Command{Kind: Exec, Args: args}, nil
	}
	if len(args) > 0 {
		return Command{}, fmt.Errorf("%s takes no arguments", name)
	}

	for _, prefix := range []Kind{MoveActiveWindow, Focus} {
		if dir, ok := strings.CutPrefix(name, string(prefix)+"_"); ok {
			for _, d := range directions {
				if dir == d {
					return Command{Kind: prefix, Direction: d}, nil
				}
			}
			return Command{}, fmt.Errorf("%s: unknown direction %q", prefix, dir)
		}
	}

	switch Kind(name) {
	case FocusNext, FocusPrevious, ToggleFullscreen, CloseActiveWindow, Reload, Terminate:
		return Command{Kind: Kind(name)}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q", fields[0])
}

func (c Command) String() string {
	switch c.Kind {
	case MoveActiveWindow, Focus:
		return string(c.Kind) + "_" + c.Direction
	case Exec:
		return strings.Join(append([]string{string(Exec)}, c.Args...), " ")
	default:
		return string(c.Kind)
	}
}
