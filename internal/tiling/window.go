package tiling

import (
	"log/slog"

	"k8s.io/utils/clock"

	"github.com/1broseidon/treetile/internal/animation"
	"github.com/1broseidon/treetile/internal/geom"
	"github.com/1broseidon/treetile/internal/platform"
)

// ManagedWindow is a Window backed by the window system. Areas given to it are
// outer tile areas; the border is reserved before the window is moved.
type ManagedWindow struct {
	id      platform.WindowID
	backend platform.Backend
	clock   clock.PassiveClock
	logger  *slog.Logger

	border     int
	opts       animation.Options
	fullscreen bool

	area geom.Rect // last outer area pushed to the window system
	anim *animation.Area
}

var _ Window = (*ManagedWindow)(nil)

// NewManagedWindow wraps id.
func NewManagedWindow(id platform.WindowID, backend platform.Backend, clk clock.PassiveClock, border int, opts animation.Options, logger *slog.Logger) *ManagedWindow {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ManagedWindow{
		id:      id,
		backend: backend,
		clock:   clk,
		logger:  logger,
		border:  border,
		opts:    opts,
	}
}

func (w *ManagedWindow) ID() platform.WindowID { return w.id }

// Resize cancels any animation and applies area at once.
func (w *ManagedWindow) Resize(area geom.Rect) {
	w.anim = nil
	w.apply(area)
}

// StartAnimation moves toward area from wherever the window currently is,
// including mid-way through an earlier animation. An animation already heading
// to area keeps running.
func (w *ManagedWindow) StartAnimation(area geom.Rect) {
	if w.opts.Duration <= 0 {
		w.Resize(area)
		return
	}
	if w.anim != nil && w.anim.Destination() == area {
		return
	}
	from := w.area
	if w.anim != nil {
		from = w.anim.Current()
	}
	if from == area {
		w.anim = nil
		w.apply(area)
		return
	}
	w.anim = animation.NewArea(w.clock, from, area, w.opts)
}

// SetFullscreen drops the border while on.
func (w *ManagedWindow) SetFullscreen(on bool) {
	w.fullscreen = on
}

// Progress pushes the next animation frame. It reports whether the window is
// still animating.
func (w *ManagedWindow) Progress() bool {
	if w.anim == nil {
		return false
	}
	w.apply(w.anim.Current())
	if w.anim.Done() {
		w.anim = nil
		return false
	}
	return true
}

// Animating reports whether an animation is in flight.
func (w *ManagedWindow) Animating() bool {
	return w.anim != nil
}

// Area returns the last outer area pushed to the window system.
func (w *ManagedWindow) Area() geom.Rect {
	return w.area
}

// SetStyle updates border and animation settings for later moves.
func (w *ManagedWindow) SetStyle(border int, opts animation.Options) {
	w.border = border
	w.opts = opts
}

func (w *ManagedWindow) apply(area geom.Rect) {
	w.area = area
	border := w.border
	if w.fullscreen {
		border = 0
	}
	if err := w.backend.MoveResize(w.id, area.ContentArea(border)); err != nil {
		w.logger.Warn("failed to move window", "window_id", w.id, "area", area.String(), "error", err)
	}
}
