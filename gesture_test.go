package tileview

import (
	"errors"
	"math"
	"testing"
	"time"
)

func historyOf(start time.Time, step time.Duration, pts ...float64) *gestureHistory {
	h := &gestureHistory{}
	for i := 0; i+1 < len(pts); i += 2 {
		h.push(GestureSample{X: pts[i], Y: pts[i+1], Time: start.Add(time.Duration(i/2) * step)})
	}
	return h
}

func TestGestureHistoryKeepsLastFour(t *testing.T) {
	h := historyOf(time.Time{}, time.Millisecond, 0, 0, 1, 0, 2, 0, 3, 0, 4, 0)
	if h.len() != maxGestureSamples {
		t.Fatalf("len = %d, want %d", h.len(), maxGestureSamples)
	}
	if h.oldest().X != 1 || h.newest().X != 4 {
		t.Errorf("oldest/newest = %g/%g, want 1/4", h.oldest().X, h.newest().X)
	}
}

func TestComputeFling(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	last := start.Add(30 * time.Millisecond)

	tests := []struct {
		name    string
		h       *gestureHistory
		now     time.Time
		wantOK  bool
		wantDX  float64
		wantDY  float64
		wantDur time.Duration
	}{
		{
			name:   "single sample",
			h:      historyOf(start, 10*time.Millisecond, 0, 0),
			now:    start,
			wantOK: false,
		},
		{
			name:   "no movement",
			h:      historyOf(start, 10*time.Millisecond, 5, 5, 5, 5, 5, 5),
			now:    start.Add(20 * time.Millisecond),
			wantOK: false,
		},
		{
			name:    "immediate release",
			h:       historyOf(start, 10*time.Millisecond, 0, 0, 10, 0, 20, 0, 30, 0),
			now:     last,
			wantOK:  true,
			wantDX:  120,
			wantDur: 480 * time.Millisecond,
		},
		{
			name:    "upward drag",
			h:       historyOf(start, 10*time.Millisecond, 0, 30, 0, 20, 0, 10, 0, 0),
			now:     last,
			wantOK:  true,
			wantDY:  -120,
			wantDur: 480 * time.Millisecond,
		},
		{
			name:    "half decayed",
			h:       historyOf(start, 10*time.Millisecond, 0, 0, 10, 0, 20, 0, 30, 0),
			now:     last.Add(75 * time.Millisecond),
			wantOK:  true,
			wantDX:  7.5,
			wantDur: flingMinDuration,
		},
		{
			name:   "rested too long",
			h:      historyOf(start, 10*time.Millisecond, 0, 0, 10, 0, 20, 0, 30, 0),
			now:    last.Add(200 * time.Millisecond),
			wantOK: false,
		},
		{
			name:    "distance capped",
			h:       historyOf(start, 10*time.Millisecond, 0, 0, 200, 0, 400, 0, 600, 0),
			now:     last,
			wantOK:  true,
			wantDX:  400,
			wantDur: flingMaxDuration,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ok := computeFling(tt.h, tt.now)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !approxEqual(f.DX, tt.wantDX, 1e-9) || !approxEqual(f.DY, tt.wantDY, 1e-9) {
				t.Errorf("fling = (%g, %g), want (%g, %g)", f.DX, f.DY, tt.wantDX, tt.wantDY)
			}
			if !approxEqual(f.Magnitude, math.Hypot(tt.wantDX, tt.wantDY), 1e-9) {
				t.Errorf("magnitude = %g", f.Magnitude)
			}
			if f.Duration != tt.wantDur {
				t.Errorf("duration = %v, want %v", f.Duration, tt.wantDur)
			}
		})
	}
}

func TestDragMovesImmediately(t *testing.T) {
	v, clk, _ := newTestViewport(800, 600, 1600, 1200)
	v.DragStart(100, 100)
	if !v.Dragging() {
		t.Fatal("Dragging = false after DragStart")
	}
	clk.Advance(10 * time.Millisecond)
	v.DragMove(150, 80)

	p := v.CurrentPose()
	if p.PosX != 50 || p.PosY != -20 {
		t.Errorf("pos = (%g, %g), want (50, -20)", p.PosX, p.PosY)
	}
	if v.drag.history.len() != 1 {
		t.Errorf("history len = %d, want 1", v.drag.history.len())
	}
}

func TestDragStartStopsFling(t *testing.T) {
	v, clk, _ := newTestViewport(800, 600, 1600, 1200)
	v.anim.Start(ChannelPosX, -400, time.Second)
	clk.Advance(200 * time.Millisecond)
	mid := v.anim.Get(ChannelPosX)

	v.DragStart(0, 0)
	if d := v.anim.Destination(ChannelPosX); d != mid {
		t.Errorf("destination = %g, want the current value %g", d, mid)
	}
}

func TestDragEndFlingBouncesBack(t *testing.T) {
	v, clk, sink := newTestViewport(800, 600, 1600, 1200)
	v.DragStart(100, 100)
	for x := 110.0; x <= 140; x += 10 {
		clk.Advance(10 * time.Millisecond)
		v.DragMove(x, 100)
	}

	if err := v.DragEnd(500 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if v.Dragging() {
		t.Error("still dragging after DragEnd")
	}

	want := []EventType{EventFling, EventBounce, EventSnap}
	got := sink.types()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("events = %v, want %v", got, want)
		}
	}
	if fl := sink.events[0]; !approxEqual(fl.DX, 120, 1e-9) || fl.DY != 0 {
		t.Errorf("fling = (%g, %g), want (120, 0)", fl.DX, fl.DY)
	}

	// The fling would leave a gap on the left; everything ends flush.
	p := v.DestinationPose()
	if !approxEqual(p.PosX, 0, 1e-9) || !approxEqual(p.PosY, 0, 1e-9) {
		t.Errorf("destination = (%g, %g), want (0, 0)", p.PosX, p.PosY)
	}
	clk.Advance(time.Second)
	assertBounds(t, destBounds(t, v), 0, 1600, 0, 1200)
}

func TestDragEndWithoutMotion(t *testing.T) {
	v, _, sink := newTestViewport(800, 600, 1600, 1200)
	v.DragStart(10, 10)
	if err := v.DragEnd(time.Second); err != nil {
		t.Fatal(err)
	}
	if len(sink.events) != 0 {
		t.Errorf("events = %v, want none", sink.types())
	}
}

func TestDragEndWithoutStart(t *testing.T) {
	v, _, _ := newTestViewport(800, 600, 400, 300)
	if err := v.DragEnd(time.Second); err != nil {
		t.Fatal(err)
	}
	v.DragMove(50, 50)
	if p := v.CurrentPose(); p.PosX != 0 || p.PosY != 0 {
		t.Errorf("DragMove without DragStart moved to (%g, %g)", p.PosX, p.PosY)
	}
}

func TestCancelDrag(t *testing.T) {
	v, _, sink := newTestViewport(800, 600, 400, 300)
	v.DragStart(0, 0)
	v.DragMove(-300, 0)
	v.CancelDrag()
	if v.Dragging() {
		t.Error("Dragging after CancelDrag")
	}
	if err := v.DragEnd(time.Second); err != nil {
		t.Fatal(err)
	}
	if len(sink.events) != 0 {
		t.Errorf("events = %v, want none after cancel", sink.types())
	}
}

func TestPinchGesture(t *testing.T) {
	v, _, _ := newTestViewport(800, 600, 400, 300)
	if err := v.GestureStart(200, 150); err != nil {
		t.Fatal(err)
	}
	assertPoint(t, "scale pivot", v.anim.Get(ChannelScaleCenterX), v.anim.Get(ChannelScaleCenterY), 200, 150)
	assertPoint(t, "rotation pivot", v.anim.Get(ChannelRotationCenterX), v.anim.Get(ChannelRotationCenterY), 200, 150)

	v.GestureChange(0.5, 3)
	p := v.CurrentPose()
	if p.Scale != 3 || p.Rotation != -0.5 {
		t.Errorf("pose = %+v, want scale 3 rotation -0.5", p)
	}

	v.GestureChange(0, 2)
	if err := v.GestureEnd(0); err != nil {
		t.Fatal(err)
	}
	// Doubled about the image center, the image exactly fills the view.
	assertBounds(t, destBounds(t, v), 0, 800, 0, 600)
	if v.intendedRotation != 0 {
		t.Errorf("intended rotation = %g, want 0", v.intendedRotation)
	}
}

func TestPinchThenRotateContinuesFromGestureAngle(t *testing.T) {
	v, _, _ := newTestViewport(800, 600, 400, 300)
	if err := v.GestureStart(400, 300); err != nil {
		t.Fatal(err)
	}
	v.GestureChange(0.25, 1)
	if err := v.GestureEnd(0); err != nil {
		t.Fatal(err)
	}
	if err := v.Rotate(0); err != nil {
		t.Fatal(err)
	}
	want := -0.25 - math.Pi/2
	if r := v.anim.Destination(ChannelRotation); !approxEqual(r, want, epsilon) {
		t.Errorf("rotation = %g, want %g", r, want)
	}
}

func TestGestureChangeWithoutStart(t *testing.T) {
	v, _, _ := newTestViewport(800, 600, 400, 300)
	v.GestureChange(1, 5)
	if p := v.CurrentPose(); p.Scale != 1 || p.Rotation != 0 {
		t.Errorf("pose = %+v, want unchanged", p)
	}
	if err := v.GestureEnd(0); err != nil {
		t.Fatal(err)
	}
}

func TestGestureChangeRejectsInvalidScale(t *testing.T) {
	tests := []struct {
		name            string
		rotation, ratio float64
	}{
		{"fingers on one pixel", 0, 0},
		{"negative", 0, -2},
		{"NaN ratio", 0, math.NaN()},
		{"infinite ratio", 0, math.Inf(1)},
		{"NaN rotation", math.NaN(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _, _ := newTestViewport(800, 600, 400, 300)
			if err := v.GestureStart(400, 300); err != nil {
				t.Fatal(err)
			}
			if err := v.GestureChange(0.3, 2); err != nil {
				t.Fatal(err)
			}
			err := v.GestureChange(tt.rotation, tt.ratio)
			if !errors.Is(err, ErrInvalidScale) {
				t.Fatalf("err = %v, want ErrInvalidScale", err)
			}
			if p := v.CurrentPose(); p.Scale != 2 || p.Rotation != -0.3 {
				t.Errorf("pose = %+v, want the last valid change kept", p)
			}
		})
	}
}
