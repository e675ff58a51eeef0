// Package animation interpolates window rectangles over time.
package animation

import (
	"math"
	"time"

	"k8s.io/utils/clock"

	"github.com/1broseidon/treetile/internal/geom"
)

const (
	DefaultDuration   = 200 * time.Millisecond
	DefaultEasingName = "ease_in_out_circ"
)

// Options configures new animations.
type Options struct {
	Duration time.Duration
	Easing   Easing
}

// DefaultOptions returns 200ms ease-in-out-circ.
func DefaultOptions() Options {
	return Options{Duration: DefaultDuration, Easing: EaseInOutCirc}
}

// Area moves a rectangle from a source to a destination. It owns no timer:
// callers sample Current once per frame.
type Area struct {
	clock    clock.PassiveClock
	source   geom.Rect
	dest     geom.Rect
	start    time.Time
	duration time.Duration
	easing   Easing
}

// NewArea starts an animation from source to dest at the clock's current time.
func NewArea(clk clock.PassiveClock, source, dest geom.Rect, opts Options) *Area {
	if opts.Easing == nil {
		opts.Easing = Linear
	}
	return &Area{
		clock:    clk,
		source:   source,
		dest:     dest,
		start:    clk.Now(),
		duration: opts.Duration,
		easing:   opts.Easing,
	}
}

// Progress returns elapsed time over duration, clamped to [0,1].
func (a *Area) Progress() float64 {
	if a.duration <= 0 {
		return 1
	}
	p := float64(a.clock.Since(a.start)) / float64(a.duration)
	return math.Max(0, math.Min(1, p))
}

// Done reports whether the full duration has elapsed.
func (a *Area) Done() bool {
	return a.Progress() >= 1
}

// Current returns the interpolated rectangle, or the destination once done.
func (a *Area) Current() geom.Rect {
	if a.Done() {
		return a.dest
	}
	e := a.easing(a.Progress())
	lerp := func(from, to int) int {
		return from + int(float64(to-from)*e)
	}
	return geom.Rect{
		X:      lerp(a.source.X, a.dest.X),
		Y:      lerp(a.source.Y, a.dest.Y),
		Width:  lerp(a.source.Width, a.dest.Width),
		Height: lerp(a.source.Height, a.dest.Height),
	}
}

func (a *Area) Destination() geom.Rect {
	return a.dest
}
