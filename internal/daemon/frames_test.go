package daemon

import (
	"context"
	"testing"
	"time"

	testingclock "k8s.io/utils/clock/testing"

	"github.com/1broseidon/treetile/internal/platform"
)

type fakeAnimator struct {
	running  int
	hover    bool
	frames   chan struct{}
	pointers int
}

func (a *fakeAnimator) Progress() int {
	if a.frames != nil {
		a.frames <- struct{}{}
	}
	return a.running
}

func (a *fakeAnimator) HoverFocus() bool { return a.hover }

func (a *fakeAnimator) FocusUnderPointer() (platform.WindowID, bool) {
	a.pointers++
	return 3, true
}

func TestFrameLoop_Tick(t *testing.T) {
	tests := []struct {
		name         string
		hover        bool
		wantPointers int
	}{
		{name: "click focus leaves the pointer alone", hover: false, wantPointers: 0},
		{name: "hover focus checks the pointer", hover: true, wantPointers: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &fakeAnimator{running: 2, hover: tt.hover}
			f := NewFrameLoop(a, 0, nil, nil)
			if got := f.Tick(); got != 2 {
				t.Fatalf("Tick = %d, want 2", got)
			}
			if a.pointers != tt.wantPointers {
				t.Fatalf("pointer checks = %d, want %d", a.pointers, tt.wantPointers)
			}
		})
	}
}

func TestFrameLoop_DefaultInterval(t *testing.T) {
	f := NewFrameLoop(&fakeAnimator{}, 0, nil, nil)
	if f.interval != time.Second/60 {
		t.Fatalf("interval = %v, want %v", f.interval, time.Second/60)
	}
}

func TestFrameLoop_RunTicksOnClock(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	a := &fakeAnimator{frames: make(chan struct{}, 4)}
	f := NewFrameLoop(a, 10*time.Millisecond, clk, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go f.Run(ctx)
	waitForTicker(t, clk)

	clk.Step(10 * time.Millisecond)
	select {
	case <-a.frames:
	case <-time.After(2 * time.Second):
		t.Fatal("no frame after one interval")
	}
}
