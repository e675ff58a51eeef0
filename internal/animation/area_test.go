package animation

import (
	"math"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"

	"github.com/1broseidon/treetile/internal/geom"
)

func TestArea_InterpolatesLinearly(t *testing.T) {
	clk := testingclock.NewFakePassiveClock(time.Unix(0, 0))
	src := geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}
	dst := geom.Rect{X: 100, Y: 50, Width: 300, Height: 100}
	a := NewArea(clk, src, dst, Options{Duration: 200 * time.Millisecond, Easing: Linear})

	if got := a.Current(); got != src {
		t.Fatalf("at start Current = %v, want %v", got, src)
	}

	clk.SetTime(time.Unix(0, 0).Add(100 * time.Millisecond))
	want := geom.Rect{X: 50, Y: 25, Width: 200, Height: 100}
	if got := a.Current(); got != want {
		t.Fatalf("halfway Current = %v, want %v", got, want)
	}
	if a.Done() {
		t.Fatal("animation should not be done halfway")
	}

	clk.SetTime(time.Unix(0, 0).Add(250 * time.Millisecond))
	if !a.Done() {
		t.Fatal("animation should be done after its duration")
	}
	if got := a.Current(); got != dst {
		t.Fatalf("after end Current = %v, want %v", got, dst)
	}
	if p := a.Progress(); p != 1 {
		t.Fatalf("Progress = %v, want clamped to 1", p)
	}
}

func TestArea_ZeroDurationEndsImmediately(t *testing.T) {
	clk := testingclock.NewFakePassiveClock(time.Unix(0, 0))
	dst := geom.Rect{X: 10, Y: 10, Width: 10, Height: 10}
	a := NewArea(clk, geom.Rect{}, dst, Options{})
	if !a.Done() || a.Current() != dst {
		t.Fatalf("zero duration animation: done=%v current=%v", a.Done(), a.Current())
	}
}

func TestEasingsHitEndpoints(t *testing.T) {
	for _, name := range EasingNames() {
		t.Run(name, func(t *testing.T) {
			e, err := EasingByName(name)
			if err != nil {
				t.Fatalf("EasingByName: %v", err)
			}
			if got := e(0); math.Abs(got) > 1e-9 {
				t.Fatalf("e(0) = %v, want 0", got)
			}
			if got := e(1); math.Abs(got-1) > 1e-9 {
				t.Fatalf("e(1) = %v, want 1", got)
			}
		})
	}
}

func TestEasingByName_Unknown(t *testing.T) {
	if _, err := EasingByName("bounce"); err == nil {
		t.Fatal("expected error for unknown easing")
	}
}
