// Package ecs provides ECS adapters for tileview's view events.
//
// [NewDonburiSink] publishes every [tileview.ViewEvent] (fling, bounce, snap,
// zoom, rotate, image loaded) to a [Donburi] world as a typed event and keeps
// a single entity carrying the latest destination pose in [ViewPose].
// Subscribe to [ViewEventType] in your ECS systems to receive the events.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	v, err := tileview.New(cfg, tileview.Options{Backend: b, Scheduler: s, Sink: sink})
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
