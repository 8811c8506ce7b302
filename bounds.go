package tileview

import (
	"fmt"
	"math"
	"time"
)

// snapSlack lets an image up to one pixel larger than the view count as fitting.
const snapSlack = 1.0

// axisCorrection returns the offset that moves the span [lo, hi] back inside
// [0, extent] when the span is smaller than the view ("fits"), or makes it
// cover [0, extent] completely when it is larger. ok is false when no
// correction is needed.
//
// When both edges are in violation the far edge wins.
func axisCorrection(lo, hi, extent float64, fits bool) (offset float64, ok bool) {
	if (fits && lo < 0) || (!fits && lo > 0) {
		offset, ok = -lo, true
	}
	if (fits && hi > extent) || (!fits && hi < extent) {
		offset, ok = extent-hi, true
	}
	return offset, ok
}

// snapAxis corrects at most one edge: the near edge is checked first for a
// fitting image, the far edge first otherwise.
func snapAxis(lo, hi, extent float64, fits bool) (offset float64, ok bool) {
	if fits {
		switch {
		case lo < 0:
			return math.Abs(lo), true
		case hi > extent:
			return -(hi - extent), true
		}
		return 0, false
	}
	switch {
	case hi < extent:
		return extent - hi, true
	case lo > 0:
		return -lo, true
	}
	return 0, false
}

// bounceIntoBounds checks the image rect at the destination of every running
// animation and, where an axis would end out of bounds, retargets that axis
// with EaseOutOvershoot so the fling visibly springs back.
func (v *Viewport) bounceIntoBounds(d time.Duration) error {
	m, err := v.Compose(v.DestinationPose(), false)
	if err != nil {
		return fmt.Errorf("bounce: %w", err)
	}
	r := v.ImageRect(m).Bounds

	destX := v.anim.Destination(ChannelPosX)
	destY := v.anim.Destination(ChannelPosY)

	var ev ViewEvent
	if dx, ok := axisCorrection(r.X0, r.X1, v.width, r.Width < v.width); ok {
		v.bounce(ChannelPosX, destX+dx, dx, d)
		ev.DX = dx
		ev.Type = EventBounce
	}
	if dy, ok := axisCorrection(r.Y0, r.Y1, v.height, r.Height < v.height); ok {
		v.bounce(ChannelPosY, destY+dy, dy, d)
		ev.DY = dy
		ev.Type = EventBounce
	}
	if ev.DX != 0 || ev.DY != 0 {
		v.emit(ev)
	}
	return nil
}

// bounce retargets ch, overshooting in proportion to the violation.
func (v *Viewport) bounce(ch Channel, to, violation float64, d time.Duration) {
	if v.Overshoot <= 0 {
		v.anim.Start(ch, to, d)
		return
	}
	v.anim.StartEased(ch, to, d, EaseOutOvershoot, math.Abs(violation)*v.Overshoot)
}

// SnapIntoView starts a plain corrective animation over d when the image,
// at its destination scale and rotation and current position, leaves a gap
// it should cover or sticks out of a view it fits in. No overshoot is added.
func (v *Viewport) SnapIntoView(d time.Duration) error {
	p := v.CurrentPose()
	p.Scale = v.anim.Destination(ChannelScale)
	p.Rotation = v.anim.Destination(ChannelRotation)
	m, err := v.Compose(p, false)
	if err != nil {
		return fmt.Errorf("snap into view: %w", err)
	}
	r := v.ImageRect(m).Bounds

	ev := ViewEvent{Type: EventSnap}
	if dx, ok := snapAxis(r.X0, r.X1, v.width, r.Width-snapSlack <= v.width); ok {
		v.anim.Start(ChannelPosX, p.PosX+dx, d)
		ev.DX = dx
	}
	if dy, ok := snapAxis(r.Y0, r.Y1, v.height, r.Height-snapSlack <= v.height); ok {
		v.anim.Start(ChannelPosY, p.PosY+dy, d)
		ev.DY = dy
	}
	if ev.DX != 0 || ev.DY != 0 {
		v.emit(ev)
	}
	return nil
}
