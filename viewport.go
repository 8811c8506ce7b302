package tileview

import (
	"fmt"
	"math"
	"time"
)

// ViewportState is the pose committed by the last rendered frame.
// Only the render path (Compose with commit) changes it.
type ViewportState struct {
	Scale     float64
	PosX      float64
	PosY      float64
	Rotation  float64
	Transform Mat3
}

// Pose is a scale, position and rotation to compose a transform for.
type Pose struct {
	Scale    float64
	PosX     float64
	PosY     float64
	Rotation float64
}

// ImageRect is the image outline after mapping through a transform.
type ImageRect struct {
	TopLeft     Vec2
	TopRight    Vec2
	BottomRight Vec2
	BottomLeft  Vec2
	Center      Vec2
	Bounds      Bounds
	// Width and Height are the transformed edge lengths, not the bounds size.
	Width  float64
	Height float64
	// Rotation is the angle of the top edge in radians, in [π, 3π].
	Rotation float64
}

// Viewport maps an image of ImageWidth x ImageHeight pixels into a view of
// Width x Height screen pixels. Interaction methods only move animation
// targets; the on-screen transform changes when the render path commits.
type Viewport struct {
	anim  *Animator
	state ViewportState

	width, height    float64
	imageW, imageH   float64
	intendedRotation float64

	drag  dragState
	pinch pinchAnchor

	// Overshoot scales the bounce amplitude of an out-of-bounds fling. Zero
	// or less turns the bounce into a plain EaseOutQuart return.
	Overshoot float64

	sink EventSink
}

const defaultOvershootScale = 0.05

// NewViewport creates a viewport of the given size driven by anim.
func NewViewport(anim *Animator, width, height float64) *Viewport {
	v := &Viewport{
		anim:      anim,
		width:     width,
		height:    height,
		Overshoot: defaultOvershootScale,
	}
	v.Reset(0, 0)
	return v
}

// SetEventSink routes ViewEvents to sink. Pass nil to stop.
func (v *Viewport) SetEventSink(sink EventSink) {
	v.sink = sink
}

// Animator returns the animator driving this viewport.
func (v *Viewport) Animator() *Animator {
	return v.anim
}

// State returns the committed state.
func (v *Viewport) State() ViewportState {
	return v.state
}

// Size returns the view extent in pixels.
func (v *Viewport) Size() (w, h float64) {
	return v.width, v.height
}

// SetSize changes the view extent.
func (v *Viewport) SetSize(w, h float64) {
	v.width, v.height = w, h
}

// ImageSize returns the image extent in pixels.
func (v *Viewport) ImageSize() (w, h float64) {
	return v.imageW, v.imageH
}

// Reset sets the image size, clears every animation and restores the
// identity pose with Alpha at 0.
func (v *Viewport) Reset(imageW, imageH float64) {
	v.imageW, v.imageH = imageW, imageH
	v.state = ViewportState{Scale: 1, Transform: Identity()}
	v.intendedRotation = 0
	v.drag = dragState{}
	v.pinch = pinchAnchor{}

	v.anim.Reset()
	v.anim.Set(ChannelAlpha, 0)
	v.anim.Set(ChannelScale, v.state.Scale)
	v.anim.Set(ChannelScaleCenterX, 0)
	v.anim.Set(ChannelScaleCenterY, 0)
	v.anim.Set(ChannelPosX, v.state.PosX)
	v.anim.Set(ChannelPosY, v.state.PosY)
	v.anim.Set(ChannelRotation, v.state.Rotation)
	v.anim.Set(ChannelRotationCenterX, 0)
	v.anim.Set(ChannelRotationCenterY, 0)
}

// CurrentPose samples the animated pose at the current time.
func (v *Viewport) CurrentPose() Pose {
	return Pose{
		Scale:    v.anim.Get(ChannelScale),
		PosX:     v.anim.Get(ChannelPosX),
		PosY:     v.anim.Get(ChannelPosY),
		Rotation: v.anim.Get(ChannelRotation),
	}
}

// DestinationPose returns the pose every running animation is heading to.
func (v *Viewport) DestinationPose() Pose {
	return Pose{
		Scale:    v.anim.Destination(ChannelScale),
		PosX:     v.anim.Destination(ChannelPosX),
		PosY:     v.anim.Destination(ChannelPosY),
		Rotation: v.anim.Destination(ChannelRotation),
	}
}

// Compose builds the image-to-screen matrix for pose p.
//
// The matrix is built from deltas against the committed state rather than
// from p's absolute values:
//
//	deltaPos * committed * T(sc) * S(ds) * T(-sc) * T(rc) * R(dr) * T(-rc)
//
// where sc and rc are the animated scale and rotation pivots. Repeated
// commits multiply rounding error into the committed transform; the drift
// stays far below a pixel for sessions of realistic length.
//
// When commit is true p becomes the committed state. Only the render path
// should commit.
func (v *Viewport) Compose(p Pose, commit bool) (Mat3, error) {
	if v.state.Scale == 0 {
		return Mat3{}, fmt.Errorf("compose: committed scale is zero: %w", ErrMatrixNotInvertible)
	}

	deltaScale := p.Scale / v.state.Scale
	scaleCenter := Translation(v.anim.Get(ChannelScaleCenterX), v.anim.Get(ChannelScaleCenterY))
	scaleCenterInv, err := scaleCenter.Invert()
	if err != nil {
		return Mat3{}, fmt.Errorf("compose: scale pivot: %w", err)
	}

	deltaPos := Translation(p.PosX-v.state.PosX, p.PosY-v.state.PosY)

	deltaRotation := p.Rotation - v.state.Rotation
	rotationCenter := Translation(v.anim.Get(ChannelRotationCenterX), v.anim.Get(ChannelRotationCenterY))
	rotationCenterInv, err := rotationCenter.Invert()
	if err != nil {
		return Mat3{}, fmt.Errorf("compose: rotation pivot: %w", err)
	}

	m := Multiply(
		deltaPos,
		v.state.Transform,
		scaleCenter,
		Scaling(deltaScale, deltaScale),
		scaleCenterInv,
		rotationCenter,
		Rotation(deltaRotation),
		rotationCenterInv,
	)

	if commit {
		if !validScale(p.Scale) || m.Determinant() == 0 {
			return Mat3{}, fmt.Errorf("compose: refusing to commit scale %g: %w", p.Scale, ErrMatrixNotInvertible)
		}
		v.state = ViewportState{
			Scale:     p.Scale,
			PosX:      p.PosX,
			PosY:      p.PosY,
			Rotation:  p.Rotation,
			Transform: m,
		}
	}
	return m, nil
}

// ImageRect maps the image outline through m.
func (v *Viewport) ImageRect(m Mat3) ImageRect {
	var r ImageRect
	r.TopLeft = applyVec(m, 0, 0)
	r.TopRight = applyVec(m, v.imageW, 0)
	r.BottomRight = applyVec(m, v.imageW, v.imageH)
	r.BottomLeft = applyVec(m, 0, v.imageH)
	r.Center = applyVec(m, v.imageW*0.5, v.imageH*0.5)

	xs := [4]float64{r.TopLeft.X, r.TopRight.X, r.BottomRight.X, r.BottomLeft.X}
	ys := [4]float64{r.TopLeft.Y, r.TopRight.Y, r.BottomRight.Y, r.BottomLeft.Y}
	b := Bounds{X0: xs[0], X1: xs[0], Y0: ys[0], Y1: ys[0]}
	for i := 1; i < 4; i++ {
		b.X0 = math.Min(b.X0, xs[i])
		b.X1 = math.Max(b.X1, xs[i])
		b.Y0 = math.Min(b.Y0, ys[i])
		b.Y1 = math.Max(b.Y1, ys[i])
	}
	b.Width = b.X1 - b.X0
	b.Height = b.Y1 - b.Y0
	r.Bounds = b

	r.Width = distance(r.TopLeft, r.TopRight)
	r.Height = distance(r.TopRight, r.BottomRight)
	r.Rotation = 2*math.Pi - math.Atan2(r.TopRight.Y-r.TopLeft.Y, r.TopRight.X-r.TopLeft.X)
	return r
}

// ScreenToImage maps a screen point into image space using the current pose.
func (v *Viewport) ScreenToImage(x, y float64) (Vec2, error) {
	m, err := v.Compose(v.CurrentPose(), false)
	if err != nil {
		return Vec2{}, err
	}
	inv, err := m.Invert()
	if err != nil {
		return Vec2{}, fmt.Errorf("screen to image: %w", err)
	}
	return applyVec(inv, x, y), nil
}

// ZoomToFit scales the image so its rotated bounds fit the view and centers
// it, animating over d.
func (v *Viewport) ZoomToFit(d time.Duration) error {
	if v.imageW <= 0 || v.imageH <= 0 || v.width <= 0 || v.height <= 0 {
		return nil
	}

	p := v.CurrentPose()
	p.Rotation = v.anim.Destination(ChannelRotation)
	m, err := v.Compose(p, false)
	if err != nil {
		return fmt.Errorf("zoom to fit: %w", err)
	}
	r := v.ImageRect(m)
	sx := v.width / r.Bounds.Width
	sy := v.height / r.Bounds.Height
	fit := v.anim.Get(ChannelScale) * math.Min(sx, sy)
	if !validScale(fit) {
		return fmt.Errorf("zoom to fit: scale %g: %w", fit, ErrInvalidScale)
	}
	v.anim.Start(ChannelScale, fit, d)

	p = v.CurrentPose()
	p.Rotation = v.anim.Destination(ChannelRotation)
	p.Scale = v.anim.Destination(ChannelScale)
	m, err = v.Compose(p, false)
	if err != nil {
		return fmt.Errorf("zoom to fit: %w", err)
	}
	r = v.ImageRect(m)
	x0 := (v.width - r.Bounds.Width) * 0.5
	y0 := (v.height - r.Bounds.Height) * 0.5
	v.anim.Start(ChannelPosX, v.anim.Get(ChannelPosX)+(x0-r.Bounds.X0), d)
	v.anim.Start(ChannelPosY, v.anim.Get(ChannelPosY)+(y0-r.Bounds.Y0), d)
	v.emit(ViewEvent{Type: EventZoom})
	return nil
}

// Zoom animates to the absolute scale over d, pivoting on the image point
// at the view center, then snaps the image into view.
func (v *Viewport) Zoom(scale float64, d time.Duration) error {
	if !validScale(scale) {
		return fmt.Errorf("zoom to %g: %w", scale, ErrInvalidScale)
	}
	p := v.CurrentPose()
	p.Rotation = v.anim.Destination(ChannelRotation)
	m, err := v.Compose(p, false)
	if err != nil {
		return fmt.Errorf("zoom: %w", err)
	}
	inv, err := m.Invert()
	if err != nil {
		return fmt.Errorf("zoom: %w", err)
	}
	x0, y0 := inv.Apply(0, 0)
	x1, y1 := inv.Apply(v.width, v.height)

	v.anim.Set(ChannelScaleCenterX, x0+(x1-x0)*0.5)
	v.anim.Set(ChannelScaleCenterY, y0+(y1-y0)*0.5)
	v.anim.Start(ChannelScale, scale, d)
	v.emit(ViewEvent{Type: EventZoom})
	return v.SnapIntoView(d)
}

// ZoomAt multiplies the scale by factor over d, pivoting on the image point
// under the screen point (x, y). Used for wheel zoom.
func (v *Viewport) ZoomAt(x, y, factor float64, d time.Duration) error {
	scale := v.anim.Get(ChannelScale) * factor
	if !validScale(factor) || !validScale(scale) {
		return fmt.Errorf("zoom by %g: %w", factor, ErrInvalidScale)
	}
	pt, err := v.ScreenToImage(x, y)
	if err != nil {
		return fmt.Errorf("zoom at (%g, %g): %w", x, y, err)
	}
	v.anim.Start(ChannelScale, scale, d)
	v.anim.Set(ChannelScaleCenterX, pt.X)
	v.anim.Set(ChannelScaleCenterY, pt.Y)
	v.emit(ViewEvent{Type: EventZoom})
	return v.SnapIntoView(d)
}

// Rotate turns the image a quarter turn clockwise on screen about its
// center over d. Repeated calls accumulate even while a rotation is still running.
func (v *Viewport) Rotate(d time.Duration) error {
	v.anim.Set(ChannelRotationCenterX, v.imageW*0.5)
	v.anim.Set(ChannelRotationCenterY, v.imageH*0.5)

	v.intendedRotation -= math.Pi * 0.5
	v.anim.Start(ChannelRotation, v.intendedRotation, d)
	v.emit(ViewEvent{Type: EventRotate})
	return v.SnapIntoView(d)
}

// validScale reports whether s can be used as a scale or scale ratio.
func validScale(s float64) bool {
	return s > 0 && !math.IsInf(s, 0) && !math.IsNaN(s)
}

// emit fills the destination pose and forwards e to the sink.
func (v *Viewport) emit(e ViewEvent) {
	if v.sink == nil {
		return
	}
	p := v.DestinationPose()
	e.Scale, e.PosX, e.PosY, e.Rotation = p.Scale, p.PosX, p.PosY, p.Rotation
	v.sink.EmitEvent(e)
}

func applyVec(m Mat3, x, y float64) Vec2 {
	x, y = m.Apply(x, y)
	return Vec2{X: x, Y: y}
}

func distance(a, b Vec2) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}
