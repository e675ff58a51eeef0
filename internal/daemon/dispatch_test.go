package daemon

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/treetile/internal/command"
	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/tiling"
)

type fakeCommander struct {
	calls []string
	err   error
}

func (c *fakeCommander) MoveActive(dir tiling.Direction) (bool, error) {
	c.calls = append(c.calls, "move "+dir.String())
	return true, c.err
}

func (c *fakeCommander) Focus(target string) (platform.WindowID, bool, error) {
	c.calls = append(c.calls, "focus "+target)
	return 1, true, c.err
}

func (c *fakeCommander) ToggleFullscreen() (bool, error) {
	c.calls = append(c.calls, "fullscreen")
	return true, c.err
}

func (c *fakeCommander) CloseActive() (platform.WindowID, error) {
	c.calls = append(c.calls, "close")
	return 1, c.err
}

func mustParse(t *testing.T, s string) command.Command {
	t.Helper()
	cmd, err := command.Parse(s)
	if err != nil {
		t.Fatalf("Parse(%q): %v", s, err)
	}
	return cmd
}

func TestDispatcher_TilerCommands(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{in: "move_active_window_left", want: []string{"move left"}},
		{in: "move_active_window_down", want: []string{"move down"}},
		{in: "focus_up", want: []string{"focus up"}},
		{in: "move_focus_to_next_window", want: []string{"focus next"}},
		{in: "move_focus_to_previous_window", want: []string{"focus previous"}},
		{in: "toggle_fullscreen", want: []string{"fullscreen"}},
		{in: "close_active_window", want: []string{"close"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c := &fakeCommander{}
			d := NewDispatcher(c, DispatcherOptions{})
			if err := d.Run(mustParse(t, tt.in)); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if diff := cmp.Diff(tt.want, c.calls); diff != "" {
				t.Fatalf("calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDispatcher_Hooks(t *testing.T) {
	var (
		spawned    []string
		reloads    int
		terminated bool
	)
	d := NewDispatcher(&fakeCommander{}, DispatcherOptions{
		Reload:    func() error { reloads++; return nil },
		Terminate: func() { terminated = true },
		Spawn:     func(args []string) error { spawned = args; return nil },
	})

	for _, s := range []string{"exec alacritty -e htop", "reload", "terminate"} {
		if err := d.Run(mustParse(t, s)); err != nil {
			t.Fatalf("Run(%q): %v", s, err)
		}
	}
	if diff := cmp.Diff([]string{"alacritty", "-e", "htop"}, spawned); diff != "" {
		t.Fatalf("spawn args mismatch (-want +got):\n%s", diff)
	}
	if reloads != 1 || !terminated {
		t.Fatalf("reloads = %d terminated = %v, want 1 true", reloads, terminated)
	}
}

func TestDispatcher_MissingHooks(t *testing.T) {
	d := NewDispatcher(&fakeCommander{}, DispatcherOptions{})
	for _, s := range []string{"reload", "terminate"} {
		if err := d.Run(mustParse(t, s)); err == nil || !strings.Contains(err.Error(), "not available") {
			t.Fatalf("Run(%q) = %v, want not available error", s, err)
		}
	}
}

func TestDispatcher_Errors(t *testing.T) {
	c := &fakeCommander{err: tiling.ErrNoActiveWindow}
	d := NewDispatcher(c, DispatcherOptions{})
	if err := d.Run(mustParse(t, "toggle_fullscreen")); !errors.Is(err, tiling.ErrNoActiveWindow) {
		t.Fatalf("Run = %v, want ErrNoActiveWindow", err)
	}
	d.Handle(mustParse(t, "close_active_window"))

	if err := d.Run(command.Command{Kind: "bogus"}); err == nil {
		t.Fatal("expected error for unknown kind")
	}
	if err := d.Run(command.Command{Kind: command.MoveActiveWindow, Direction: "sideways"}); err == nil {
		t.Fatal("expected error for bad direction")
	}
}

func TestStartDetached_NoProgram(t *testing.T) {
	if err := StartDetached(nil); err == nil {
		t.Fatal("expected error")
	}
}
