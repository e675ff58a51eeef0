// Package platformtest provides an in-memory platform.Backend for tests.
package platformtest

import (
	"fmt"
	"sort"
	"sync"

	"github.com/1broseidon/treetile/internal/platform"
)

// Backend is a scriptable platform.Backend. Windows live on displays;
// MoveResize updates their bounds and records the call.
type Backend struct {
	mu       sync.Mutex
	displays []platform.Display
	windows  map[platform.WindowID]*fakeWindow
	active   platform.WindowID
	pointerX int
	pointerY int

	moves   map[platform.WindowID][]platform.Rect
	focused []platform.WindowID
	closed  []platform.WindowID
}

type fakeWindow struct {
	display int
	win     platform.Window
}

var _ platform.Backend = (*Backend)(nil)

// New returns a backend with the given displays and no windows.
func New(displays ...platform.Display) *Backend {
	return &Backend{
		displays: displays,
		windows:  make(map[platform.WindowID]*fakeWindow),
		moves:    make(map[platform.WindowID][]platform.Rect),
	}
}

// AddWindow places a window of class on display.
func (b *Backend) AddWindow(display int, id platform.WindowID, class string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var bounds platform.Rect
	for _, d := range b.displays {
		if d.ID == display {
			bounds = d.Usable
		}
	}
	b.windows[id] = &fakeWindow{
		display: display,
		win: platform.Window{
			ID:     id,
			Class:  class,
			Title:  fmt.Sprintf("%s-%d", class, id),
			Bounds: bounds,
		},
	}
}

// RemoveWindow makes a window vanish.
func (b *Backend) RemoveWindow(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, id)
	if b.active == id {
		b.active = 0
	}
}

// SetDisplays replaces the display list.
func (b *Backend) SetDisplays(displays ...platform.Display) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.displays = displays
}

// SetActive sets what ActiveWindow reports.
func (b *Backend) SetActive(id platform.WindowID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.active = id
}

// SetPointer sets what PointerPosition reports.
func (b *Backend) SetPointer(x, y int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pointerX, b.pointerY = x, y
}

// Bounds returns a window's current bounds.
func (b *Backend) Bounds(id platform.WindowID) (platform.Rect, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return platform.Rect{}, false
	}
	return w.win.Bounds, true
}

// Moves returns every MoveResize call for id, oldest first.
func (b *Backend) Moves(id platform.WindowID) []platform.Rect {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.Rect(nil), b.moves[id]...)
}

// Focused returns every Focus call, oldest first.
func (b *Backend) Focused() []platform.WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.WindowID(nil), b.focused...)
}

// Closed returns every Close call, oldest first.
func (b *Backend) Closed() []platform.WindowID {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.WindowID(nil), b.closed...)
}

func (b *Backend) Displays() ([]platform.Display, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]platform.Display(nil), b.displays...), nil
}

func (b *Backend) ActiveWindow() (platform.WindowID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.active, nil
}

func (b *Backend) ListWindowsOnDisplay(displayID int) ([]platform.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	found := false
	for _, d := range b.displays {
		if d.ID == displayID {
			found = true
		}
	}
	if !found {
		return nil, fmt.Errorf("display with id %d not found", displayID)
	}
	var out []platform.Window
	for _, w := range b.windows {
		if w.display == displayID {
			out = append(out, w.win)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (b *Backend) MoveResize(id platform.WindowID, bounds platform.Rect) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	w, ok := b.windows[id]
	if !ok {
		return fmt.Errorf("window %d not found", id)
	}
	w.win.Bounds = bounds
	b.moves[id] = append(b.moves[id], bounds)
	return nil
}

func (b *Backend) Focus(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.windows[id]; !ok {
		return fmt.Errorf("window %d not found", id)
	}
	b.active = id
	b.focused = append(b.focused, id)
	return nil
}

func (b *Backend) Close(id platform.WindowID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.windows[id]; !ok {
		return fmt.Errorf("window %d not found", id)
	}
	b.closed = append(b.closed, id)
	return nil
}

func (b *Backend) PointerPosition() (int, int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pointerX, b.pointerY, nil
}
