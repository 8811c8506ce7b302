package tileview

import "image/color"

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// toRGBA converts to a premultiplied color.RGBA.
func (c Color) toRGBA() color.RGBA {
	a := clamp01(c.A)
	return color.RGBA{
		R: uint8(clamp01(c.R)*a*255 + 0.5),
		G: uint8(clamp01(c.G)*a*255 + 0.5),
		B: uint8(clamp01(c.B)*a*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}

func clamp01(v float64) float64 {
	return max(0, min(1, v))
}

// Vec2 is a 2D point or vector.
type Vec2 struct {
	X, Y float64
}

// Bounds is an axis-aligned box given by its edges. Y increases downward.
type Bounds struct {
	X0, X1, Y0, Y1 float64
	Width, Height  float64
}

// EventType identifies a ViewEvent.
type EventType uint8

const (
	EventImageLoaded EventType = iota // a new image was tiled and reset
	EventFling                        // momentum was applied on drag release
	EventBounce                       // a fling was redirected back into bounds
	EventSnap                         // a corrective snap-into-view started
	EventZoom                         // a zoom animation started
	EventRotate                       // a rotation animation started
)

var eventNames = [...]string{"ImageLoaded", "Fling", "Bounce", "Snap", "Zoom", "Rotate"}

func (e EventType) String() string {
	if int(e) < len(eventNames) {
		return eventNames[e]
	}
	return "Unknown"
}

// ViewEvent describes a change the viewer made to its animation targets.
// Fields not relevant to Type are zero.
type ViewEvent struct {
	Type EventType
	// Destination pose after the change.
	Scale    float64
	PosX     float64
	PosY     float64
	Rotation float64
	// Displacement for EventFling, EventBounce and EventSnap.
	DX, DY float64
	// Image dimensions for EventImageLoaded.
	ImageWidth  int
	ImageHeight int
}

// EventSink receives ViewEvents. See the ecs sub-package for a Donburi adapter.
type EventSink interface {
	EmitEvent(event ViewEvent)
}
