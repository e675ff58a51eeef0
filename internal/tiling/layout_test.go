package tiling

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/1broseidon/treetile/internal/geom"
	"github.com/1broseidon/treetile/internal/platform"
)

type call struct {
	Op   string
	Area geom.Rect
}

type fakeWindow struct {
	id         platform.WindowID
	calls      []call
	fullscreen bool
}

func (w *fakeWindow) ID() platform.WindowID { return w.id }

func (w *fakeWindow) Resize(area geom.Rect) {
	w.calls = append(w.calls, call{"resize", area})
}

func (w *fakeWindow) StartAnimation(area geom.Rect) {
	w.calls = append(w.calls, call{"animate", area})
}

func (w *fakeWindow) SetFullscreen(on bool) { w.fullscreen = on }

func (w *fakeWindow) reset() { w.calls = nil }

func newWindows(ids ...platform.WindowID) []*fakeWindow {
	out := make([]*fakeWindow, len(ids))
	for k, id := range ids {
		out[k] = &fakeWindow{id: id}
	}
	return out
}

func mustAdd(t *testing.T, l *Layout, w Window, dir Direction) {
	t.Helper()
	if err := l.Add(w, dir, AddOptions{}); err != nil {
		t.Fatalf("Add(%d): %v", w.ID(), err)
	}
	if err := l.Check(); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestLayout_FirstPlacementResizesThenAnimates(t *testing.T) {
	l := NewLayout(screen, nil)
	ws := newWindows(1, 2)

	mustAdd(t, l, ws[0], DirRight)
	if diff := cmp.Diff([]call{{"resize", screen}}, ws[0].calls); diff != "" {
		t.Fatalf("first window (-want +got):\n%s", diff)
	}
	ws[0].reset()

	mustAdd(t, l, ws[1], DirRight)
	if diff := cmp.Diff([]call{{"animate", geom.Rect{Width: 500, Height: 800}}}, ws[0].calls); diff != "" {
		t.Fatalf("existing window (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]call{{"resize", geom.Rect{X: 500, Width: 500, Height: 800}}}, ws[1].calls); diff != "" {
		t.Fatalf("new window (-want +got):\n%s", diff)
	}

	// Nothing changed, so nothing is pushed.
	ws[0].reset()
	ws[1].reset()
	l.Rebalance()
	if len(ws[0].calls)+len(ws[1].calls) != 0 {
		t.Fatalf("idle rebalance pushed %v %v", ws[0].calls, ws[1].calls)
	}
}

func TestLayout_AddErrors(t *testing.T) {
	l := NewLayout(screen, nil)
	w := &fakeWindow{id: 7}
	mustAdd(t, l, w, DirRight)

	if err := l.Add(w, DirLeft, AddOptions{}); !errors.Is(err, ErrWindowExists) {
		t.Fatalf("duplicate Add = %v, want ErrWindowExists", err)
	}
	if err := l.Remove(8, true); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("Remove(unknown) = %v, want ErrWindowNotFound", err)
	}
	if err := l.Focus(8); !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("Focus(unknown) = %v, want ErrWindowNotFound", err)
	}
	if l.Len() != 1 {
		t.Fatalf("Len = %d, want 1", l.Len())
	}
}

func TestLayout_AddOptions(t *testing.T) {
	l := NewLayout(screen, nil)
	ws := newWindows(1, 2, 3)
	mustAdd(t, l, ws[0], DirRight)

	if err := l.Add(ws[1], DirRight, AddOptions{SkipFocus: true, SkipRebalance: true}); err != nil {
		t.Fatal(err)
	}
	if active, _ := l.ActiveWindow(); active.ID() != 1 {
		t.Fatalf("active = %d, want 1 with SkipFocus", active.ID())
	}
	if len(ws[1].calls) != 0 {
		t.Fatalf("window pushed before rebalance: %v", ws[1].calls)
	}

	if err := l.Add(ws[2], DirRight, AddOptions{Weight: 2}); err != nil {
		t.Fatal(err)
	}
	area, err := l.WindowArea(3)
	if err != nil {
		t.Fatal(err)
	}
	// Window 3 sits right of the active window 1 with twice the share.
	if area.Width != 500 {
		t.Fatalf("weighted window width = %d, want 500", area.Width)
	}
	got := []platform.WindowID{}
	for _, w := range l.Windows() {
		got = append(got, w.ID())
	}
	if diff := cmp.Diff([]platform.WindowID{1, 3, 2}, got); diff != "" {
		t.Fatalf("visual order (-want +got):\n%s", diff)
	}
}

func TestLayout_RemoveRebalances(t *testing.T) {
	l := NewLayout(screen, nil)
	ws := newWindows(1, 2)
	mustAdd(t, l, ws[0], DirRight)
	mustAdd(t, l, ws[1], DirRight)
	ws[0].reset()

	if err := l.Remove(2, true); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]call{{"animate", screen}}, ws[0].calls); diff != "" {
		t.Fatalf("survivor (-want +got):\n%s", diff)
	}
	if l.Contains(2) || l.Len() != 1 {
		t.Fatalf("window 2 still tracked")
	}
	if err := l.Check(); err != nil {
		t.Fatal(err)
	}
}

func TestLayout_Fullscreen(t *testing.T) {
	l := NewLayout(screen, nil)
	ws := newWindows(1, 2, 3)
	mustAdd(t, l, ws[0], DirRight)
	mustAdd(t, l, ws[1], DirRight)
	for _, w := range ws {
		w.reset()
	}

	if !l.ToggleFullscreen() {
		t.Fatalf("ToggleFullscreen on")
	}
	if !ws[1].fullscreen {
		t.Fatalf("active window not marked fullscreen")
	}
	if diff := cmp.Diff([]call{{"animate", screen}}, ws[1].calls); diff != "" {
		t.Fatalf("fullscreen window (-want +got):\n%s", diff)
	}
	if w, ok := l.WindowAt(10, 10); !ok || w.ID() != 2 {
		t.Fatalf("WindowAt under fullscreen = %v,%v want window 2", w, ok)
	}

	t.Run("layout changes do not touch tiles", func(t *testing.T) {
		ws[0].reset()
		ws[1].reset()
		mustAdd(t, l, ws[2], DirRight)
		if len(ws[0].calls) != 0 || len(ws[1].calls) != 0 || len(ws[2].calls) != 0 {
			t.Fatalf("pushed while fullscreen: %v %v %v", ws[0].calls, ws[1].calls, ws[2].calls)
		}
		if active, _ := l.ActiveWindow(); active.ID() != 2 {
			t.Fatalf("focus left the fullscreen window")
		}
		if l.MoveActive(DirLeft) {
			t.Fatalf("MoveActive succeeded while fullscreen")
		}
		if _, ok := l.FocusCycle(false); ok {
			t.Fatalf("FocusCycle succeeded while fullscreen")
		}
		if err := l.Focus(1); !errors.Is(err, ErrFullscreenActive) {
			t.Fatalf("Focus(1) = %v, want ErrFullscreenActive", err)
		}
	})

	t.Run("snapshot marks the fullscreen leaf", func(t *testing.T) {
		var marked []platform.WindowID
		var walk func(n TreeNode)
		walk = func(n TreeNode) {
			if n.Fullscreen {
				marked = append(marked, n.Window)
			}
			for _, c := range n.Children {
				walk(c)
			}
		}
		walk(l.Snapshot())
		if diff := cmp.Diff([]platform.WindowID{2}, marked); diff != "" {
			t.Fatalf("fullscreen leaves (-want +got):\n%s", diff)
		}
	})

	t.Run("toggle off animates back and flushes", func(t *testing.T) {
		for _, w := range ws {
			w.reset()
		}
		if !l.ToggleFullscreen() {
			t.Fatalf("ToggleFullscreen off")
		}
		if ws[1].fullscreen {
			t.Fatalf("window still marked fullscreen")
		}
		want, err := l.WindowArea(2)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]call{{"animate", want}}, ws[1].calls); diff != "" {
			t.Fatalf("restored window (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]call{{"resize", geom.Rect{X: 666, Width: 334, Height: 800}}}, ws[2].calls); diff != "" {
			t.Fatalf("window added while fullscreen (-want +got):\n%s", diff)
		}
		if len(ws[0].calls) != 1 || ws[0].calls[0].Op != "animate" {
			t.Fatalf("window 1 = %v, want a single animation", ws[0].calls)
		}
	})

	t.Run("area change resizes only the fullscreen window", func(t *testing.T) {
		if !l.ToggleFullscreen() {
			t.Fatalf("ToggleFullscreen on")
		}
		for _, w := range ws {
			w.reset()
		}
		wide := geom.Rect{Width: 1200, Height: 800}
		l.UpdateArea(wide)
		if diff := cmp.Diff([]call{{"resize", wide}}, ws[1].calls); diff != "" {
			t.Fatalf("fullscreen window (-want +got):\n%s", diff)
		}
		if len(ws[0].calls) != 0 || len(ws[2].calls) != 0 {
			t.Fatalf("tiles pushed while fullscreen: %v %v", ws[0].calls, ws[2].calls)
		}

		if !l.ToggleFullscreen() {
			t.Fatalf("ToggleFullscreen off")
		}
		want := map[platform.WindowID]geom.Rect{
			1: {Width: 400, Height: 800},
			2: {X: 400, Width: 400, Height: 800},
			3: {X: 800, Width: 400, Height: 800},
		}
		for i, w := range ws {
			if diff := cmp.Diff([]call{{"animate", want[w.ID()]}}, w.calls); diff != "" {
				t.Errorf("window %d after restore (-want +got):\n%s", i+1, diff)
			}
		}
	})
}

func TestLayout_RemoveFullscreenWindow(t *testing.T) {
	l := NewLayout(screen, nil)
	ws := newWindows(1, 2)
	mustAdd(t, l, ws[0], DirRight)
	mustAdd(t, l, ws[1], DirRight)
	l.ToggleFullscreen()

	if err := l.Remove(2, true); err != nil {
		t.Fatal(err)
	}
	if _, ok := l.Fullscreen(); ok {
		t.Fatalf("removed window still fullscreen")
	}
	if ws[1].fullscreen {
		t.Fatalf("removed window left in fullscreen state")
	}
	if area, _ := l.WindowArea(1); area != screen {
		t.Fatalf("survivor area = %v, want %v", area, screen)
	}
}

func TestLayout_FocusDirection(t *testing.T) {
	l := NewLayout(screen, nil)
	for _, w := range newWindows(1, 2) {
		mustAdd(t, l, w, DirRight)
	}
	mustAdd(t, l, &fakeWindow{id: 3}, DirDown)

	w, ok := l.FocusDirection(DirLeft)
	if !ok || w.ID() != 1 {
		t.Fatalf("FocusDirection(left) = %v,%v want window 1", w, ok)
	}
	if _, ok := l.FocusDirection(DirLeft); ok {
		t.Fatalf("focus moved past the left edge")
	}
	if w, _ := l.FocusCycle(true); w.ID() != 3 {
		t.Fatalf("FocusCycle(backward) = %d, want wrap to 3", w.ID())
	}
	if w, ok := l.WindowAt(600, 100); !ok || w.ID() != 2 {
		t.Fatalf("WindowAt(600,100) = %v,%v want window 2", w, ok)
	}
}

func TestLayout_UpdateArea(t *testing.T) {
	l := NewLayout(screen, nil)
	ws := newWindows(1, 2)
	mustAdd(t, l, ws[0], DirRight)
	mustAdd(t, l, ws[1], DirRight)
	ws[1].reset()

	next := geom.Rect{X: 10, Y: 10, Width: 600, Height: 400}
	l.UpdateArea(next)
	if l.Area() != next {
		t.Fatalf("Area = %v, want %v", l.Area(), next)
	}
	if diff := cmp.Diff([]call{{"animate", geom.Rect{X: 310, Y: 10, Width: 300, Height: 400}}}, ws[1].calls); diff != "" {
		t.Fatalf("window 2 (-want +got):\n%s", diff)
	}
}

func TestLayout_RandomOperationsKeepInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dirs := []Direction{DirUp, DirDown, DirLeft, DirRight}
	l := NewLayout(geom.Rect{Width: 1920, Height: 1080}, nil)
	var next platform.WindowID = 1

	for step := 0; step < 500; step++ {
		windows := l.Windows()
		switch op := rng.Intn(6); {
		case op <= 1 && len(windows) < 10:
			if err := l.Add(&fakeWindow{id: next}, dirs[rng.Intn(4)], AddOptions{}); err != nil {
				t.Fatalf("step %d: Add: %v", step, err)
			}
			next++
		case op == 2 && len(windows) > 0:
			victim := windows[rng.Intn(len(windows))].ID()
			if err := l.Remove(victim, true); err != nil {
				t.Fatalf("step %d: Remove: %v", step, err)
			}
		case op == 3:
			l.MoveActive(dirs[rng.Intn(4)])
		case op == 4 && len(windows) > 0:
			err := l.Focus(windows[rng.Intn(len(windows))].ID())
			if err != nil && !errors.Is(err, ErrFullscreenActive) {
				t.Fatalf("step %d: Focus: %v", step, err)
			}
		case op == 5:
			l.ToggleFullscreen()
		}
		if err := l.Check(); err != nil {
			t.Fatalf("step %d: %v\n%s", step, err, l)
		}
		tiles(t, l.Tree())
	}
}
