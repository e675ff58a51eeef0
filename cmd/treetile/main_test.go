package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/treetile/internal/geom"
	"github.com/1broseidon/treetile/internal/ipc"
	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/tiling"
)

type fakeClient struct {
	err     error
	calls   []string
	moved   bool
	focused ipc.FocusResult
}

func (c *fakeClient) GetStatus() (*ipc.StatusData, error) {
	c.calls = append(c.calls, "status")
	if c.err != nil {
		return nil, c.err
	}
	return &ipc.StatusData{
		Status: tiling.Status{
			Displays: []tiling.DisplayStatus{{
				ID:      0,
				Name:    "DP-1",
				Area:    geom.Rect{Width: 1000, Height: 800},
				Windows: []platform.WindowID{1, 2},
				Active:  2,
			}},
			Windows: 2,
		},
		UptimeSeconds: 5,
		DaemonRunning: true,
	}, nil
}

func (c *fakeClient) GetTree(displayID int) (*tiling.TreeNode, error) {
	c.calls = append(c.calls, "tree "+strconv.Itoa(displayID))
	if c.err != nil {
		return nil, c.err
	}
	return &tiling.TreeNode{
		Kind: "container", Axis: "horizontal", Weight: 1,
		Area: geom.Rect{Width: 1000, Height: 800},
		Children: []tiling.TreeNode{
			{Index: 1, Kind: "leaf", Window: 10, Weight: 1, Area: geom.Rect{Width: 500, Height: 800}},
			{Index: 2, Kind: "leaf", Window: 11, Weight: 1, Area: geom.Rect{X: 500, Width: 500, Height: 800}, Active: true},
		},
	}, nil
}

func (c *fakeClient) MoveActive(direction string) (bool, error) {
	c.calls = append(c.calls, "move "+direction)
	return c.moved, c.err
}

func (c *fakeClient) Focus(target string) (ipc.FocusResult, error) {
	c.calls = append(c.calls, "focus "+target)
	return c.focused, c.err
}

func (c *fakeClient) ToggleFullscreen() (bool, error) {
	c.calls = append(c.calls, "fullscreen")
	return true, c.err
}

func (c *fakeClient) CloseActive() (platform.WindowID, error) {
	c.calls = append(c.calls, "close")
	return 11, c.err
}

func (c *fakeClient) Sync() error {
	c.calls = append(c.calls, "sync")
	return c.err
}

func (c *fakeClient) Reload() error {
	c.calls = append(c.calls, "reload")
	return c.err
}

func run(t *testing.T, client *fakeClient, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	a.client = func() daemonClient { return client }
	a.styled = func() bool { return false }
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestControlCommands(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantCalls []string
		wantOut   string
	}{
		{name: "move", args: []string{"move", "LEFT"}, wantCalls: []string{"move left"}},
		{name: "focus", args: []string{"focus", "next"}, wantCalls: []string{"focus next"}, wantOut: "11\n"},
		{name: "fullscreen", args: []string{"fullscreen"}, wantCalls: []string{"fullscreen"}},
		{name: "close", args: []string{"close"}, wantCalls: []string{"close"}},
		{name: "sync", args: []string{"sync"}, wantCalls: []string{"sync"}},
		{name: "reload", args: []string{"reload"}, wantCalls: []string{"reload"}, wantOut: "config reloaded\n"},
		{name: "tree default display", args: []string{"tree", "--json"}, wantCalls: []string{"tree -1"}},
		{name: "tree explicit display", args: []string{"tree", "--json", "-d", "1"}, wantCalls: []string{"tree 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeClient{focused: ipc.FocusResult{Window: 11, Changed: true}}
			out, err := run(t, client, tt.args...)
			if err != nil {
				t.Fatalf("run %v: %v", tt.args, err)
			}
			if diff := cmp.Diff(tt.wantCalls, client.calls); diff != "" {
				t.Fatalf("calls mismatch (-want +got):\n%s", diff)
			}
			if tt.wantOut != "" && out != tt.wantOut {
				t.Fatalf("output = %q, want %q", out, tt.wantOut)
			}
		})
	}
}

func TestMove_BadDirection(t *testing.T) {
	client := &fakeClient{}
	if _, err := run(t, client, "move", "sideways"); err == nil {
		t.Fatal("expected error")
	}
	if len(client.calls) != 0 {
		t.Fatalf("daemon called: %v", client.calls)
	}
}

func TestDaemonErrorsSurface(t *testing.T) {
	client := &fakeClient{err: errors.New("daemon error: no active window")}
	if _, err := run(t, client, "fullscreen"); err == nil || !strings.Contains(err.Error(), "no active window") {
		t.Fatalf("err = %v, want daemon error", err)
	}
}

func TestStatus_Plain(t *testing.T) {
	out, err := run(t, &fakeClient{}, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{
		"daemon_running: true\n",
		"uptime_seconds: 5\n",
		"display 0 (DP-1) * (0,0 1000x800)\n",
		"  1, 2 [active]\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestTree_Plain(t *testing.T) {
	out, err := run(t, &fakeClient{}, "tree")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	want := "C-0 ► (0,0 1000x800)\n" +
		"├ W-1 (10) (0,0 500x800)\n" +
		"└ W-2 (11) (500,0 500x800) [active]\n"
	if diff := cmp.Diff(want, out); diff != "" {
		t.Fatalf("tree output mismatch (-want +got):\n%s", diff)
	}
}

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestConfigCommands(t *testing.T) {
	path := writeConfig(t, "global:\n  frame_rate: 30\n")

	out, err := run(t, &fakeClient{}, "--config", path, "config", "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.HasPrefix(out, "config: ok\n") {
		t.Fatalf("validate output = %q", out)
	}

	out, err = run(t, &fakeClient{}, "--config", path, "config", "print")
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	if !strings.Contains(out, "frame_rate: 30") {
		t.Fatalf("print output missing frame_rate override:\n%s", out)
	}

	out, err = run(t, &fakeClient{}, "--config", path, "config", "print", "--defaults")
	if err != nil {
		t.Fatalf("print --defaults: %v", err)
	}
	if !strings.Contains(out, "frame_rate: 60") {
		t.Fatalf("defaults output missing frame_rate 60:\n%s", out)
	}

	out, err = run(t, &fakeClient{}, "--config", path, "config", "explain", "global.frame_rate")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if !strings.Contains(out, "source: file:") || !strings.HasSuffix(out, "value:\n30\n") {
		t.Fatalf("explain output = %q", out)
	}
}

func TestConfigValidate_Invalid(t *testing.T) {
	path := writeConfig(t, "bogus: 1\n")
	if _, err := run(t, &fakeClient{}, "--config", path, "config", "validate"); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "treetile", "config.yaml")

	out, err := run(t, &fakeClient{}, "--config", path, "config", "init")
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	if out != "wrote "+path+"\n" {
		t.Fatalf("init output = %q", out)
	}
	if _, err := run(t, &fakeClient{}, "--config", path, "config", "validate"); err != nil {
		t.Fatalf("validate written config: %v", err)
	}
	if _, err := run(t, &fakeClient{}, "--config", path, "config", "init"); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, err := run(t, &fakeClient{}, "--config", path, "config", "init", "--force"); err != nil {
		t.Fatalf("init --force: %v", err)
	}
}
