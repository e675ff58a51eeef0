package daemon

import (
	"context"
	"log/slog"
	"time"

	"k8s.io/utils/clock"

	"github.com/1broseidon/treetile/internal/platform"
)

// Animator is what the frame loop drives each tick.
type Animator interface {
	Progress() int
	HoverFocus() bool
	FocusUnderPointer() (platform.WindowID, bool)
}

// FrameLoop advances window animations at a fixed frame rate and, when focus
// follows the pointer, focuses the window under it.
type FrameLoop struct {
	animator Animator
	interval time.Duration
	clock    clock.WithTicker
	logger   *slog.Logger
}

// NewFrameLoop creates a frame loop ticking every interval.
func NewFrameLoop(animator Animator, interval time.Duration, clk clock.WithTicker, logger *slog.Logger) *FrameLoop {
	if interval <= 0 {
		interval = time.Second / 60
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FrameLoop{animator: animator, interval: interval, clock: clk, logger: logger}
}

// Run ticks until ctx is cancelled.
func (f *FrameLoop) Run(ctx context.Context) {
	ticker := f.clock.NewTicker(f.interval)
	defer ticker.Stop()

	f.logger.Debug("frame loop started", "interval", f.interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C():
			f.Tick()
		}
	}
}

// Tick runs a single frame and returns the number of running animations.
func (f *FrameLoop) Tick() int {
	running := f.animator.Progress()
	if f.animator.HoverFocus() {
		if id, ok := f.animator.FocusUnderPointer(); ok {
			f.logger.Debug("focus follows pointer", "window_id", id)
		}
	}
	return running
}
