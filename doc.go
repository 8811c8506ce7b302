// Package tileview is an interactive viewer for images larger than a single
// GPU texture, built on [Ebitengine].
//
// The image is split into power-of-two tiles, each uploaded as its own
// texture and drawn with a small Kage shader. Pointer input drives an
// animated pose (scale, position, rotation and their pivots) through a
// clock-based [Animator]; every frame composes the pose into a 3x3 affine
// [Mat3] relative to the previously rendered transform.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	cfg := tileview.DefaultConfig()
//	cfg.ImageURL = "photo.jpg"
//	err := tileview.Run(ctx, tileview.RunConfig{
//		Title: "Viewer", Width: 1280, Height: 800, Config: cfg,
//	})
//
// For full control, create a [Viewer] with your own [Backend] and
// [Scheduler], call [Viewer.Initialize], feed it input and call
// [Viewer.Frame] whenever the scheduler asks for one.
//
// # Interaction
//
// Dragging pans the image. Releasing a drag with recent motion continues it
// as a fling, which springs back with overshoot if it would end out of
// bounds. The wheel zooms by a factor of two about the cursor. Two-finger
// pinches scale and rotate about their center. After every interaction the
// image snaps back into view: an image smaller than the view is kept fully
// visible and a larger one leaves no gaps.
//
// # Lifecycle
//
// A [Viewer] moves from [StateUninitialized] through [StateLoading] to
// [StateReady]. Input before Ready is ignored, and [Viewer.SetImage] fails
// with [ErrNotReady].
//
// # Logging
//
// The package logs through log/slog and is silent by default; see
// [SetLogger].
//
// # Events
//
// An [EventSink] receives a [ViewEvent] whenever the viewer starts a fling,
// bounce, snap, zoom or rotation, or loads an image. The tileview/ecs
// sub-module forwards them into a Donburi world.
//
// [Ebitengine]: https://ebitengine.org
package tileview
