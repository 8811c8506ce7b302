package ecs

import (
	"github.com/phanxgames/tileview"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ViewEventType is the Donburi event type for tileview view events.
var ViewEventType = events.NewEventType[tileview.ViewEvent]()

// PoseData is the destination pose after the most recent view event.
type PoseData struct {
	Scale    float64
	PosX     float64
	PosY     float64
	Rotation float64
	// ImageWidth and ImageHeight are set by the last EventImageLoaded.
	ImageWidth  int
	ImageHeight int
}

// ViewPose is the component holding a viewer's PoseData.
var ViewPose = donburi.NewComponentType[PoseData]()

// DonburiSink is a tileview.EventSink backed by a Donburi world.
type DonburiSink struct {
	world  donburi.World
	entity donburi.Entity
}

// NewDonburiSink creates a sink and the entity that tracks the pose. Events
// are queued on ViewEventType; consume them with Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{
		world:  world,
		entity: world.Create(ViewPose),
	}
}

// Entity returns the entity carrying the ViewPose component.
func (s *DonburiSink) Entity() donburi.Entity {
	return s.entity
}

// EmitEvent implements tileview.EventSink.
func (s *DonburiSink) EmitEvent(event tileview.ViewEvent) {
	if entry := s.world.Entry(s.entity); entry.Valid() {
		pose := ViewPose.Get(entry)
		pose.Scale = event.Scale
		pose.PosX = event.PosX
		pose.PosY = event.PosY
		pose.Rotation = event.Rotation
		if event.Type == tileview.EventImageLoaded {
			pose.ImageWidth = event.ImageWidth
			pose.ImageHeight = event.ImageHeight
		}
	}
	ViewEventType.Publish(s.world, event)
}
