package tileview

import "time"

// statsInterval is how often frame stats are logged at Debug level.
const statsInterval = 2 * time.Second

// frameStats accumulates render timings between log lines.
type frameStats struct {
	frames     int
	total      time.Duration
	worst      time.Duration
	tiles      int
	lastReport time.Time
}

// record adds one rendered frame and logs a summary every statsInterval.
func (s *frameStats) record(d time.Duration, tiles int) {
	s.frames++
	s.total += d
	s.worst = max(s.worst, d)
	s.tiles = tiles

	now := time.Now()
	if s.lastReport.IsZero() {
		s.lastReport = now
		return
	}
	if now.Sub(s.lastReport) < statsInterval {
		return
	}
	Logger().Debug("tileview: frames",
		"count", s.frames,
		"avg", s.total/time.Duration(s.frames),
		"worst", s.worst,
		"tiles", s.tiles)
	*s = frameStats{lastReport: now}
}

// FramesRendered returns the number of frames drawn since the last stats
// report.
func (v *Viewer) FramesRendered() int {
	return v.stats.frames
}
