package tiling

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"k8s.io/utils/clock"

	"github.com/1broseidon/treetile/internal/animation"
	"github.com/1broseidon/treetile/internal/config"
	"github.com/1broseidon/treetile/internal/geom"
	"github.com/1broseidon/treetile/internal/platform"
	"github.com/1broseidon/treetile/internal/rules"
)

// DisplayStatus summarises one display's layout.
type DisplayStatus struct {
	ID         int                 `json:"id"`
	Name       string              `json:"name"`
	Area       geom.Rect           `json:"area"`
	Windows    []platform.WindowID `json:"windows"`
	Active     platform.WindowID   `json:"active,omitempty"`
	Fullscreen platform.WindowID   `json:"fullscreen,omitempty"`
}

// Status summarises every layout.
type Status struct {
	Displays       []DisplayStatus `json:"displays"`
	Windows        int             `json:"windows"`
	Animating      int             `json:"animating"`
	CurrentDisplay int             `json:"current_display"`
}

type displayState struct {
	info    platform.Display
	layout  *Layout
	windows map[platform.WindowID]*ManagedWindow
}

// Tiler keeps one Layout per display in step with the window system. All
// methods are safe for concurrent use; a single mutex serialises them.
type Tiler struct {
	mu        sync.Mutex
	backend   platform.Backend
	matcher   *rules.Matcher
	clock     clock.PassiveClock
	logger    *slog.Logger
	config    *config.Config
	anim      animation.Options
	direction Direction

	displays map[int]*displayState
	hovered  platform.WindowID
}

// NewTiler creates a tiler. Nothing is tiled until the first Sync.
func NewTiler(backend platform.Backend, matcher *rules.Matcher, cfg *config.Config, clk clock.PassiveClock, logger *slog.Logger) (*Tiler, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t := &Tiler{
		backend:  backend,
		matcher:  matcher,
		clock:    clk,
		logger:   logger,
		displays: make(map[int]*displayState),
	}
	if err := t.applyConfig(cfg); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Tiler) applyConfig(cfg *config.Config) error {
	opts, err := cfg.AnimationOptions()
	if err != nil {
		return fmt.Errorf("animation: %w", err)
	}
	dir, err := ParseDirection(cfg.Global.DefaultDirection)
	if err != nil {
		return fmt.Errorf("default_direction: %w", err)
	}
	t.config = cfg
	t.anim = opts
	t.direction = dir
	t.matcher.Update(cfg.ManagedClasses, cfg.IgnoredClasses)
	return nil
}

// UpdateConfig swaps in a reloaded configuration and re-tiles.
func (t *Tiler) UpdateConfig(cfg *config.Config) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	oldBorder := t.config.Theme.BorderSize
	if err := t.applyConfig(cfg); err != nil {
		return err
	}
	for _, ds := range t.displays {
		for _, w := range ds.windows {
			w.SetStyle(cfg.Theme.BorderSize, t.anim)
			if oldBorder != cfg.Theme.BorderSize {
				w.Resize(w.Area())
			}
		}
	}
	t.logger.Info("configuration applied", "border", cfg.Theme.BorderSize, "direction", t.direction)
	return t.syncLocked()
}

// Config returns the configuration in use.
func (t *Tiler) Config() *config.Config {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.config
}

// Sync reconciles every layout with the window system: display areas,
// appeared and vanished windows, and the active window.
func (t *Tiler) Sync() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.syncLocked()
}

func (t *Tiler) syncLocked() error {
	displays, err := t.backend.Displays()
	if err != nil {
		return fmt.Errorf("list displays: %w", err)
	}
	sort.Slice(displays, func(i, j int) bool { return displays[i].ID < displays[j].ID })

	listed := make(map[int]bool, len(displays))
	found := make(map[int][]platform.Window, len(displays))
	for _, d := range displays {
		listed[d.ID] = true
		area, err := RootArea(d.Usable, t.config)
		if err != nil {
			t.logger.Warn("skipping display", "display", d.Name, "error", err)
			continue
		}
		ds, ok := t.displays[d.ID]
		if !ok {
			ds = &displayState{
				layout:  NewLayout(area, t.logger.With("display_id", d.ID)),
				windows: make(map[platform.WindowID]*ManagedWindow),
			}
			t.displays[d.ID] = ds
			t.logger.Info("display added", "display_id", d.ID, "name", d.Name, "area", area.String())
		}
		ds.info = d
		if ds.layout.Area() != area {
			ds.layout.UpdateArea(area)
		}

		wins, err := t.matcher.FindManaged(t.backend, d.ID, d.Bounds)
		if err != nil {
			t.logger.Warn("failed to list windows", "display_id", d.ID, "error", err)
			continue
		}
		found[d.ID] = wins
	}

	changed := make(map[int]bool)
	for id, ds := range t.displays {
		if !listed[id] {
			t.logger.Info("display removed", "display_id", id, "windows", ds.layout.Len())
			delete(t.displays, id)
			continue
		}
		wins, ok := found[id]
		if !ok {
			continue
		}
		present := make(map[platform.WindowID]bool, len(wins))
		for _, w := range wins {
			present[w.ID] = true
		}
		for wid := range ds.windows {
			if present[wid] {
				continue
			}
			t.removeLocked(ds, wid, false)
			changed[id] = true
		}
	}

	for _, d := range displays {
		ds, ok := t.displays[d.ID]
		if !ok {
			continue
		}
		for _, w := range found[d.ID] {
			if _, ok := ds.windows[w.ID]; ok {
				continue
			}
			if t.addLocked(ds, w, true) == nil {
				changed[d.ID] = true
			}
		}
	}

	for id := range changed {
		t.displays[id].layout.Rebalance()
	}
	t.adoptActiveLocked()
	return nil
}

func (t *Tiler) addLocked(ds *displayState, w platform.Window, deferRebalance bool) error {
	mw := NewManagedWindow(w.ID, t.backend, t.clock, t.config.Theme.BorderSize, t.anim, t.logger)
	if err := ds.layout.Add(mw, t.direction, AddOptions{SkipRebalance: deferRebalance}); err != nil {
		t.logger.Error("failed to tile window", "window_id", w.ID, "error", err)
		return err
	}
	ds.windows[w.ID] = mw
	t.logger.Info("window managed", "window_id", w.ID, "class", w.Class, "title", w.Title, "display_id", ds.info.ID)
	return nil
}

func (t *Tiler) removeLocked(ds *displayState, id platform.WindowID, rebalance bool) {
	if err := ds.layout.Remove(id, rebalance); err != nil {
		t.logger.Error("failed to untile window", "window_id", id, "error", err)
	}
	delete(ds.windows, id)
	if t.hovered == id {
		t.hovered = 0
	}
	t.logger.Info("window released", "window_id", id, "display_id", ds.info.ID)
}

// adoptActiveLocked makes the window system's active window the active leaf
// of whichever layout holds it. Only click-to-focus setups adopt; with
// on_hover the pointer decides.
func (t *Tiler) adoptActiveLocked() *displayState {
	if t.config.Global.PointerFocusType != config.PointerFocusOnClick {
		return nil
	}
	active, ds := t.holderLocked()
	if ds == nil {
		return nil
	}
	if cur, ok := ds.layout.ActiveWindow(); !ok || cur.ID() != active {
		// A fullscreen window keeps focus until it is restored.
		_ = ds.layout.Focus(active)
	}
	return ds
}

// holderLocked finds the layout holding the window system's active window.
func (t *Tiler) holderLocked() (platform.WindowID, *displayState) {
	active, err := t.backend.ActiveWindow()
	if err != nil || active == 0 {
		return 0, nil
	}
	for _, ds := range t.displays {
		if ds.layout.Contains(active) {
			return active, ds
		}
	}
	return active, nil
}

// currentLocked picks the display commands apply to: the one holding the
// active window, else the one under the pointer, else the lowest id.
func (t *Tiler) currentLocked() (*displayState, error) {
	if _, ds := t.holderLocked(); ds != nil {
		return ds, nil
	}
	if x, y, err := t.backend.PointerPosition(); err == nil {
		for _, ds := range t.displays {
			if ds.info.Bounds.Contains(x, y) {
				return ds, nil
			}
		}
	}
	var best *displayState
	for id, ds := range t.displays {
		if best == nil || id < best.info.ID {
			best = ds
		}
	}
	if best == nil {
		return nil, ErrDisplayNotFound
	}
	return best, nil
}

func (t *Tiler) activeLocked() (*displayState, Window, error) {
	t.adoptActiveLocked()
	ds, err := t.currentLocked()
	if err != nil {
		return nil, nil, err
	}
	w, ok := ds.layout.ActiveWindow()
	if !ok {
		return ds, nil, ErrNoActiveWindow
	}
	return ds, w, nil
}

// AddWindow tiles w on a display next to that display's active window.
func (t *Tiler) AddWindow(displayID int, w platform.Window) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	ds, ok := t.displays[displayID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrDisplayNotFound, displayID)
	}
	if !t.matcher.Manages(w.Class) {
		return fmt.Errorf("window class %q is not managed", w.Class)
	}
	return t.addLocked(ds, w, false)
}

// RemoveWindow untiles id wherever it is.
func (t *Tiler) RemoveWindow(id platform.WindowID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, ds := range t.displays {
		if ds.layout.Contains(id) {
			t.removeLocked(ds, id, true)
			return nil
		}
	}
	return fmt.Errorf("%w: window %d", ErrWindowNotFound, id)
}

// MoveActive moves the active window in dir and reports whether the layout changed.
func (t *Tiler) MoveActive(dir Direction) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ds, _, err := t.activeLocked()
	if err != nil {
		return false, err
	}
	return ds.layout.MoveActive(dir), nil
}

// Focus moves focus to "next", "previous", a direction, or a window id. It
// returns the newly focused window and whether focus changed.
func (t *Tiler) Focus(target string) (platform.WindowID, bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	target = strings.ToLower(strings.TrimSpace(target))
	if n, err := strconv.ParseUint(target, 10, 32); err == nil {
		return t.focusWindowLocked(platform.WindowID(n))
	}

	t.adoptActiveLocked()
	ds, err := t.currentLocked()
	if err != nil {
		return 0, false, err
	}

	var (
		w  Window
		ok bool
	)
	switch target {
	case "next":
		w, ok = ds.layout.FocusCycle(false)
	case "previous", "prev":
		w, ok = ds.layout.FocusCycle(true)
	default:
		dir, err := ParseDirection(target)
		if err != nil {
			return 0, false, fmt.Errorf("focus target %q: %w", target, err)
		}
		w, ok = ds.layout.FocusDirection(dir)
	}
	if !ok {
		return 0, false, nil
	}
	return w.ID(), true, t.pushFocusLocked(w.ID())
}

func (t *Tiler) focusWindowLocked(id platform.WindowID) (platform.WindowID, bool, error) {
	for _, ds := range t.displays {
		if !ds.layout.Contains(id) {
			continue
		}
		if err := ds.layout.Focus(id); err != nil {
			return 0, false, err
		}
		return id, true, t.pushFocusLocked(id)
	}
	return 0, false, fmt.Errorf("%w: window %d", ErrWindowNotFound, id)
}

func (t *Tiler) pushFocusLocked(id platform.WindowID) error {
	if err := t.backend.Focus(id); err != nil {
		t.logger.Warn("failed to focus window", "window_id", id, "error", err)
		return err
	}
	t.logger.Debug("focus changed", "window_id", id)
	return nil
}

// ToggleFullscreen toggles fullscreen on the current display.
func (t *Tiler) ToggleFullscreen() (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	ds, _, err := t.activeLocked()
	if err != nil {
		return false, err
	}
	return ds.layout.ToggleFullscreen(), nil
}

// CloseActive asks the window system to close the active window. The layout
// drops it once it disappears.
func (t *Tiler) CloseActive() (platform.WindowID, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, w, err := t.activeLocked()
	if err != nil {
		return 0, err
	}
	if err := t.backend.Close(w.ID()); err != nil {
		return 0, fmt.Errorf("close window %d: %w", w.ID(), err)
	}
	return w.ID(), nil
}

// FocusAt focuses the tiled window at the point. It reports the window and
// whether focus changed.
func (t *Tiler) FocusAt(x, y int) (platform.WindowID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.focusAtLocked(x, y)
}

func (t *Tiler) focusAtLocked(x, y int) (platform.WindowID, bool) {
	for _, ds := range t.displays {
		if !ds.layout.Area().Contains(x, y) {
			continue
		}
		w, ok := ds.layout.WindowAt(x, y)
		if !ok {
			return 0, false
		}
		if cur, ok := ds.layout.ActiveWindow(); ok && cur.ID() == w.ID() {
			return w.ID(), false
		}
		if err := ds.layout.Focus(w.ID()); err != nil {
			return 0, false
		}
		return w.ID(), t.pushFocusLocked(w.ID()) == nil
	}
	return 0, false
}

// FocusUnderPointer focuses the window under the pointer when the pointer has
// moved onto a different window since the last call. Keyboard focus changes
// therefore stick until the pointer moves to another window.
func (t *Tiler) FocusUnderPointer() (platform.WindowID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	x, y, err := t.backend.PointerPosition()
	if err != nil {
		return 0, false
	}
	for _, ds := range t.displays {
		if !ds.layout.Area().Contains(x, y) {
			continue
		}
		w, ok := ds.layout.WindowAt(x, y)
		if !ok || w.ID() == t.hovered {
			return 0, false
		}
		t.hovered = w.ID()
		return t.focusAtLocked(x, y)
	}
	return 0, false
}

// HoverFocus reports whether focus follows the pointer.
func (t *Tiler) HoverFocus() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.config.Global.PointerFocusType == config.PointerFocusOnHover
}

// Progress advances every animation by one frame and returns how many are
// still running.
func (t *Tiler) Progress() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	running := 0
	for _, ds := range t.displays {
		for _, w := range ds.windows {
			if w.Progress() {
				running++
			}
		}
	}
	return running
}

// Status summarises all layouts.
func (t *Tiler) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := Status{CurrentDisplay: -1}
	if ds, err := t.currentLocked(); err == nil {
		out.CurrentDisplay = ds.info.ID
	}
	for _, ds := range t.displays {
		st := DisplayStatus{
			ID:      ds.info.ID,
			Name:    ds.info.Name,
			Area:    ds.layout.Area(),
			Windows: []platform.WindowID{},
		}
		for _, w := range ds.layout.Windows() {
			st.Windows = append(st.Windows, w.ID())
		}
		if w, ok := ds.layout.ActiveWindow(); ok {
			st.Active = w.ID()
		}
		if w, ok := ds.layout.Fullscreen(); ok {
			st.Fullscreen = w.ID()
		}
		for _, w := range ds.windows {
			if w.Animating() {
				out.Animating++
			}
		}
		out.Windows += len(st.Windows)
		out.Displays = append(out.Displays, st)
	}
	sort.Slice(out.Displays, func(i, j int) bool { return out.Displays[i].ID < out.Displays[j].ID })
	return out
}

// Snapshot returns the layout tree of a display; a negative id selects the
// current display.
func (t *Tiler) Snapshot(displayID int) (TreeNode, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var ds *displayState
	if displayID < 0 {
		cur, err := t.currentLocked()
		if err != nil {
			return TreeNode{}, err
		}
		ds = cur
	} else {
		var ok bool
		if ds, ok = t.displays[displayID]; !ok {
			return TreeNode{}, fmt.Errorf("%w: %d", ErrDisplayNotFound, displayID)
		}
	}
	return ds.layout.Snapshot(), nil
}

// Check verifies every layout's invariants.
func (t *Tiler) Check() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for id, ds := range t.displays {
		if err := ds.layout.Check(); err != nil {
			return fmt.Errorf("display %d: %w", id, err)
		}
		if ds.layout.Len() != len(ds.windows) {
			return fmt.Errorf("display %d: layout has %d windows, tiler tracks %d", id, ds.layout.Len(), len(ds.windows))
		}
	}
	return nil
}
