package tileview

import (
	"testing"
	"time"
)

func TestAxisCorrection(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		fits   bool
		want   float64
		wantOK bool
	}{
		{"fits inside", 10, 90, true, 0, false},
		{"fits past near edge", -20, 60, true, 20, true},
		{"fits past far edge", 40, 130, true, -30, true},
		{"fits both edges far wins", -10, 110, true, -10, true},
		{"covers", -50, 150, false, 0, false},
		{"gap at near edge", 20, 300, false, -20, true},
		{"gap at far edge", -200, 80, false, 20, true},
		{"gap at both far wins", 10, 90, false, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := axisCorrection(tt.lo, tt.hi, 100, tt.fits)
			if ok != tt.wantOK || !approxEqual(got, tt.want, epsilon) {
				t.Errorf("axisCorrection(%g, %g) = %g, %v; want %g, %v", tt.lo, tt.hi, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestSnapAxis(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi float64
		fits   bool
		want   float64
		wantOK bool
	}{
		{"fits inside", 10, 90, true, 0, false},
		{"fits past near edge", -20, 60, true, 20, true},
		{"fits past far edge", 40, 130, true, -30, true},
		{"fits both near checked first", -10, 110, true, 10, true},
		{"covers", -50, 150, false, 0, false},
		{"gap at near edge", 20, 300, false, -20, true},
		{"gap at far edge", -200, 80, false, 20, true},
		{"gap at both far checked first", 10, 90, false, 10, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := snapAxis(tt.lo, tt.hi, 100, tt.fits)
			if ok != tt.wantOK || !approxEqual(got, tt.want, epsilon) {
				t.Errorf("snapAxis(%g, %g) = %g, %v; want %g, %v", tt.lo, tt.hi, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestBounceIntoBounds(t *testing.T) {
	v, _, sink := newTestViewport(800, 600, 400, 300)
	v.anim.Set(ChannelPosX, -100)

	if err := v.bounceIntoBounds(500 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if x := v.anim.Destination(ChannelPosX); x != 0 {
		t.Errorf("PosX destination = %g, want 0", x)
	}
	an := v.anim.anims[ChannelPosX]
	if an.easing != EaseOutOvershoot || !approxEqual(an.param, 100*defaultOvershootScale, epsilon) {
		t.Errorf("bounce easing = %v param %g, want overshoot %g", an.easing, an.param, 100*defaultOvershootScale)
	}
	if len(sink.events) != 1 || sink.events[0].Type != EventBounce || sink.events[0].DX != 100 {
		t.Errorf("events = %+v, want one Bounce with DX 100", sink.events)
	}
}

func TestBounceIntoBoundsInside(t *testing.T) {
	v, _, sink := newTestViewport(800, 600, 400, 300)
	v.anim.Set(ChannelPosX, 100)
	v.anim.Set(ChannelPosY, 100)
	if err := v.bounceIntoBounds(time.Second); err != nil {
		t.Fatal(err)
	}
	if len(sink.events) != 0 {
		t.Errorf("events = %v, want none", sink.types())
	}
}

func TestSnapIntoView(t *testing.T) {
	tests := []struct {
		name         string
		imgW, imgH   float64
		posX, posY   float64
		wantX, wantY float64
		wantSnap     bool
	}{
		{"small image inside", 400, 300, 100, 100, 100, 100, false},
		{"small image past right edge", 400, 300, 500, 100, 400, 100, true},
		{"small image past top", 400, 300, 0, -40, 0, 0, true},
		{"large image gap on left", 1600, 1200, 100, 0, 0, 0, true},
		{"large image gap on bottom", 1600, 1200, -50, -700, -50, -600, true},
		{"large image covering", 1000, 700, -50, -20, -50, -20, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, _, sink := newTestViewport(800, 600, tt.imgW, tt.imgH)
			v.anim.Set(ChannelPosX, tt.posX)
			v.anim.Set(ChannelPosY, tt.posY)

			if err := v.SnapIntoView(0); err != nil {
				t.Fatal(err)
			}
			p := v.DestinationPose()
			if !approxEqual(p.PosX, tt.wantX, 1e-9) || !approxEqual(p.PosY, tt.wantY, 1e-9) {
				t.Errorf("destination = (%g, %g), want (%g, %g)", p.PosX, p.PosY, tt.wantX, tt.wantY)
			}
			snapped := len(sink.events) == 1 && sink.events[0].Type == EventSnap
			if snapped != tt.wantSnap {
				t.Errorf("events = %v, want snap %v", sink.types(), tt.wantSnap)
			}
		})
	}
}

func TestSnapIntoViewUsesDestinationScale(t *testing.T) {
	v, _, _ := newTestViewport(800, 600, 400, 300)
	// Heading to 4x: the image will be 1600 wide, so the gap on the right
	// must be closed even though it currently fits.
	v.anim.Start(ChannelScale, 4, time.Second)
	v.anim.Set(ChannelPosX, 0)
	v.anim.Set(ChannelPosY, 0)

	if err := v.SnapIntoView(time.Second); err != nil {
		t.Fatal(err)
	}
	if x := v.anim.Destination(ChannelPosX); x != 0 {
		t.Errorf("PosX destination = %g, want 0", x)
	}

	v.anim.Set(ChannelPosX, 300)
	if err := v.SnapIntoView(time.Second); err != nil {
		t.Fatal(err)
	}
	if x := v.anim.Destination(ChannelPosX); x != 0 {
		t.Errorf("PosX destination = %g, want 0 after closing the left gap", x)
	}
}

func TestBounceWithoutOvershoot(t *testing.T) {
	v, clk, _ := newTestViewport(800, 600, 400, 300)
	v.Overshoot = 0
	v.anim.Set(ChannelPosX, -100)

	if err := v.bounceIntoBounds(500 * time.Millisecond); err != nil {
		t.Fatal(err)
	}
	if an := v.anim.anims[ChannelPosX]; an.easing != EaseOutQuart {
		t.Errorf("easing = %v, want EaseOutQuart", an.easing)
	}
	for i := 0; i < 10; i++ {
		clk.Advance(50 * time.Millisecond)
		if x := v.anim.Get(ChannelPosX); x > 0 {
			t.Fatalf("PosX = %g overshot the destination 0", x)
		}
	}
}
