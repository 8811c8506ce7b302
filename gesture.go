package tileview

import (
	"fmt"
	"math"
	"time"
)

// Fling tuning.
const (
	maxGestureSamples  = 4
	flingRecency       = 150 * time.Millisecond // a pause this long before release kills the fling
	flingMaxDistance   = 100.0                  // pixels
	flingGain          = 4.0
	flingDurationScale = 4.0 // milliseconds per pixel of fling
	flingMinDuration   = 200 * time.Millisecond
	flingMaxDuration   = 800 * time.Millisecond
)

// GestureSample is a timestamped screen point recorded during a drag.
type GestureSample struct {
	X, Y float64
	Time time.Time
}

// gestureHistory keeps the most recent samples, oldest first.
type gestureHistory struct {
	samples [maxGestureSamples]GestureSample
	n       int
}

func (h *gestureHistory) push(s GestureSample) {
	if h.n == maxGestureSamples {
		copy(h.samples[:], h.samples[1:])
		h.n--
	}
	h.samples[h.n] = s
	h.n++
}

func (h *gestureHistory) len() int { return h.n }

func (h *gestureHistory) oldest() GestureSample { return h.samples[0] }

func (h *gestureHistory) newest() GestureSample { return h.samples[h.n-1] }

// Fling is the momentum derived from the last samples of a drag.
type Fling struct {
	// DX and DY are the screen displacement the fling adds to the position.
	DX, DY float64
	// Magnitude is the displacement length in pixels.
	Magnitude float64
	Duration  time.Duration
}

// computeFling derives the release momentum from h at time now. ok is false
// when there are fewer than two samples, the oldest and newest samples
// coincide, or the pointer rested long enough for the momentum to decay.
func computeFling(h *gestureHistory, now time.Time) (f Fling, ok bool) {
	if h.len() < 2 {
		return Fling{}, false
	}
	first, last := h.oldest(), h.newest()

	dx := first.X - last.X
	dy := first.Y - last.Y
	dist := math.Hypot(dx, dy)
	if dist == 0 {
		return Fling{}, false
	}
	dx /= dist
	dy /= dist

	pause := min(now.Sub(last.Time), flingRecency)
	if pause < 0 {
		pause = 0
	}
	decay := 1 - float64(pause)/float64(flingRecency)
	decay = decay * decay * decay * decay

	f.Magnitude = math.Min(dist, flingMaxDistance) * decay * flingGain
	if f.Magnitude == 0 {
		return Fling{}, false
	}
	// The direction points from newest to oldest; the fling continues the
	// drag, so it moves the other way.
	f.DX = -dx * f.Magnitude
	f.DY = -dy * f.Magnitude

	ms := f.Magnitude * flingDurationScale
	f.Duration = time.Duration(ms * float64(time.Millisecond))
	f.Duration = max(flingMinDuration, min(f.Duration, flingMaxDuration))
	return f, true
}

// dragState tracks one pointer drag.
type dragState struct {
	active    bool
	startX    float64
	startY    float64
	startPosX float64
	startPosY float64
	history   gestureHistory
}

// pinchAnchor holds the pose captured when a pinch gesture began.
type pinchAnchor struct {
	active   bool
	scale    float64
	rotation float64
}

// DragStart anchors a drag at screen point (x, y). Any fling in progress
// stops where it is.
func (v *Viewport) DragStart(x, y float64) {
	v.drag = dragState{
		active:    true,
		startX:    x,
		startY:    y,
		startPosX: v.anim.Get(ChannelPosX),
		startPosY: v.anim.Get(ChannelPosY),
	}
	v.anim.Set(ChannelPosX, v.drag.startPosX)
	v.anim.Set(ChannelPosY, v.drag.startPosY)
}

// DragMove follows the pointer to (x, y) and records a gesture sample.
func (v *Viewport) DragMove(x, y float64) {
	if !v.drag.active {
		return
	}
	v.anim.Set(ChannelPosX, v.drag.startPosX+(x-v.drag.startX))
	v.anim.Set(ChannelPosY, v.drag.startPosY+(y-v.drag.startY))
	v.drag.history.push(GestureSample{X: x, Y: y, Time: v.anim.clock.Now()})
}

// DragEnd releases the drag. With enough recent motion the image keeps
// moving (a fling) and bounces back if it would come to rest out of bounds.
// Finally the image is snapped into view over snap.
func (v *Viewport) DragEnd(snap time.Duration) error {
	if !v.drag.active {
		return nil
	}
	h := v.drag.history
	v.drag = dragState{}

	if f, ok := computeFling(&h, v.anim.clock.Now()); ok {
		newX := v.anim.Get(ChannelPosX) + f.DX
		newY := v.anim.Get(ChannelPosY) + f.DY
		v.anim.Start(ChannelPosX, newX, f.Duration)
		v.anim.Start(ChannelPosY, newY, f.Duration)
		v.emit(ViewEvent{Type: EventFling, DX: f.DX, DY: f.DY})

		if err := v.bounceIntoBounds(f.Duration); err != nil {
			return fmt.Errorf("drag end: %w", err)
		}
	}
	if err := v.SnapIntoView(snap); err != nil {
		return fmt.Errorf("drag end: %w", err)
	}
	return nil
}

// CancelDrag abandons the drag without momentum or snapping.
func (v *Viewport) CancelDrag() {
	v.drag = dragState{}
}

// Dragging reports whether a drag is in progress.
func (v *Viewport) Dragging() bool {
	return v.drag.active
}

// GestureStart begins a pinch/rotate gesture centered on screen point (x, y).
// Both pivots move to the image point under the gesture center.
func (v *Viewport) GestureStart(x, y float64) error {
	pt, err := v.ScreenToImage(x, y)
	if err != nil {
		return fmt.Errorf("gesture start: %w", err)
	}
	v.anim.Set(ChannelScaleCenterX, pt.X)
	v.anim.Set(ChannelScaleCenterY, pt.Y)
	v.anim.Set(ChannelRotationCenterX, pt.X)
	v.anim.Set(ChannelRotationCenterY, pt.Y)
	v.pinch = pinchAnchor{
		active:   true,
		scale:    v.anim.Get(ChannelScale),
		rotation: v.anim.Get(ChannelRotation),
	}
	return nil
}

// GestureChange applies a gesture's total rotation (radians) and scale ratio
// relative to the pose at GestureStart. A ratio that would leave a zero,
// negative or non-finite scale is rejected and nothing moves.
func (v *Viewport) GestureChange(rotationDelta, scaleRatio float64) error {
	if !v.pinch.active {
		return nil
	}
	scale := v.pinch.scale * scaleRatio
	if !validScale(scaleRatio) || !validScale(scale) || math.IsNaN(rotationDelta) || math.IsInf(rotationDelta, 0) {
		return fmt.Errorf("gesture change (%g, %g): %w", rotationDelta, scaleRatio, ErrInvalidScale)
	}
	v.anim.Set(ChannelRotation, v.pinch.rotation-rotationDelta)
	v.anim.Set(ChannelScale, scale)
	return nil
}

// GestureEnd finishes the gesture and snaps the image into view over snap.
func (v *Viewport) GestureEnd(snap time.Duration) error {
	if !v.pinch.active {
		return nil
	}
	v.pinch = pinchAnchor{}
	// Quarter turns continue from the angle the gesture left.
	v.intendedRotation = v.anim.Destination(ChannelRotation)
	return v.SnapIntoView(snap)
}
