package rules

import (
	"strings"
	"sync"

	"github.com/1broseidon/treetile/internal/platform"
)

// Matcher decides which windows are tiled, by WM_CLASS. Classes compare
// case-insensitively. An ignored class always wins; when the managed list is
// empty every other window is managed.
type Matcher struct {
	mu      sync.RWMutex
	managed map[string]bool
	ignored map[string]bool
}

// NewMatcher creates a matcher from managed and ignored class lists.
func NewMatcher(managed, ignored []string) *Matcher {
	m := &Matcher{}
	m.Update(managed, ignored)
	return m
}

// Update replaces both class lists, e.g. after a config reload.
func (m *Matcher) Update(managed, ignored []string) {
	managedSet := classSet(managed)
	ignoredSet := classSet(ignored)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.managed = managedSet
	m.ignored = ignoredSet
}

func classSet(classes []string) map[string]bool {
	out := make(map[string]bool, len(classes))
	for _, class := range classes {
		out[strings.ToLower(strings.TrimSpace(class))] = true
	}
	return out
}

// Manages reports whether a window of the given class should be tiled.
func (m *Matcher) Manages(class string) bool {
	key := strings.ToLower(strings.TrimSpace(class))

	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.ignored[key] {
		return false
	}
	if len(m.managed) == 0 {
		return true
	}
	return m.managed[key]
}

// FindManaged lists the managed windows on a display whose center falls inside
// bounds (typically the padded tile region), in the backend's order.
func (m *Matcher) FindManaged(backend platform.Backend, displayID int, bounds platform.Rect) ([]platform.Window, error) {
	windows, err := backend.ListWindowsOnDisplay(displayID)
	if err != nil {
		return nil, err
	}

	var out []platform.Window
	for _, w := range windows {
		if !m.Manages(w.Class) {
			continue
		}
		cx, cy := w.Bounds.Center()
		if !bounds.Contains(cx, cy) {
			continue
		}
		out = append(out, w)
	}
	return out, nil
}
