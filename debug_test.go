package tileview

import (
	"math"
	"strings"
	"testing"
	"time"
)

func TestFrameStatsRecord(t *testing.T) {
	var s frameStats
	s.record(2*time.Millisecond, 4)
	s.record(5*time.Millisecond, 4)
	s.record(1*time.Millisecond, 6)

	if s.frames != 3 {
		t.Errorf("frames = %d, want 3", s.frames)
	}
	if s.worst != 5*time.Millisecond {
		t.Errorf("worst = %v, want 5ms", s.worst)
	}
	if s.total != 8*time.Millisecond {
		t.Errorf("total = %v, want 8ms", s.total)
	}
	if s.tiles != 6 {
		t.Errorf("tiles = %d, want 6", s.tiles)
	}
}

func TestFrameStatsReset(t *testing.T) {
	s := frameStats{frames: 10, total: time.Second, lastReport: time.Now().Add(-time.Minute)}
	s.record(time.Millisecond, 1)
	if s.frames != 0 || s.total != 0 {
		t.Errorf("stats not reset after report: %+v", s)
	}
}

func TestFramesRendered(t *testing.T) {
	f := readyWithImage(t)
	f.clock.Advance(time.Second)
	f.v.Frame()
	f.v.Invalidate()
	f.v.Frame()
	if n := f.v.FramesRendered(); n != 2 {
		t.Errorf("FramesRendered = %d, want 2", n)
	}
}

func TestStatsText(t *testing.T) {
	s := ViewportState{Scale: 0.5, PosX: 12.4, PosY: -3, Rotation: -math.Pi / 2}
	got := statsText(s, 1)
	want := "scale 0.500\npos 12, -3\nrot -90.0 deg\nalpha 1.00"
	if got != want {
		t.Errorf("statsText =\n%s\nwant\n%s", got, want)
	}

	full := statsText(ViewportState{Scale: 1, Rotation: -5 * math.Pi / 2}, 0)
	if !strings.Contains(full, "rot -90.0 deg") {
		t.Errorf("rotation not wrapped: %q", full)
	}
}
