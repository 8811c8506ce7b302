package tileview

import (
	"context"
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/tanema/gween/ease"
	"golang.org/x/sync/errgroup"
)

// State is the viewer lifecycle stage.
type State uint8

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

var stateNames = [...]string{"Uninitialized", "Loading", "Ready"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// Options are the collaborators of a Viewer. Backend and Scheduler are
// required.
type Options struct {
	Backend   Backend
	Scheduler Scheduler
	// Loader fetches the shader and images. Nil uses DefaultLoader.
	Loader AssetLoader
	// Clock drives the animator. Nil uses the system clock.
	Clock Clock
	// Sink receives ViewEvents. Optional.
	Sink EventSink
}

// loadResult is what the asynchronous part of initialization produces.
type loadResult struct {
	shader []byte
	img    image.Image
	err    error
}

// Viewer shows one large image as power-of-two tiles and maps pointer input
// to animated pan, zoom and rotation.
//
// All methods except Load's background fetch run on the frame goroutine.
type Viewer struct {
	cfg       Config
	backend   Backend
	scheduler Scheduler
	loader    AssetLoader
	fadeEase  ease.TweenFunc

	state   State
	loaded  chan loadResult
	program Program

	anim *Animator
	view *Viewport

	tiles    []Tile
	vertices []QuadVertex

	pending bool
	stats   frameStats
}

// New creates an uninitialized viewer. Call Load or Initialize before
// setting an image.
func New(cfg Config, opts Options) (*Viewer, error) {
	if opts.Backend == nil {
		return nil, fmt.Errorf("%w: backend is required", ErrConfiguration)
	}
	if opts.Scheduler == nil {
		return nil, fmt.Errorf("%w: scheduler is required", ErrConfiguration)
	}
	if opts.Loader == nil {
		opts.Loader = DefaultLoader{}
	}
	cfg.normalize(opts.Backend.MaxTextureSize())

	var fade ease.TweenFunc
	if cfg.FadeEasing != "" {
		fn, ok := EasingByName(cfg.FadeEasing)
		if !ok {
			return nil, fmt.Errorf("%w: unknown fade easing %q", ErrConfiguration, cfg.FadeEasing)
		}
		fade = fn
	}

	anim := NewAnimator(opts.Clock)
	view := NewViewport(anim, 0, 0)
	view.Overshoot = cfg.Overshoot
	view.SetEventSink(opts.Sink)

	return &Viewer{
		cfg:       cfg,
		backend:   opts.Backend,
		scheduler: opts.Scheduler,
		loader:    opts.Loader,
		fadeEase:  fade,
		anim:      anim,
		view:      view,
	}, nil
}

// Config returns the normalized configuration.
func (v *Viewer) Config() Config { return v.cfg }

// State returns the lifecycle stage.
func (v *Viewer) State() State { return v.state }

// Viewport returns the viewer's viewport.
func (v *Viewer) Viewport() *Viewport { return v.view }

// Tiles returns the tiles of the current image.
func (v *Viewer) Tiles() []Tile { return v.tiles }

// Load starts fetching the shader (and Config.ImageURL, if set) in the
// background and requests a frame when done. Poll completes initialization
// on the frame goroutine, so Scheduler.RequestFrame must be safe to call
// from any goroutine.
func (v *Viewer) Load(ctx context.Context) error {
	if v.state != StateUninitialized {
		return ErrAlreadyInitialized
	}
	v.setState(StateLoading)
	v.loaded = make(chan loadResult, 1)
	go func() {
		v.loaded <- v.fetch(ctx)
		v.scheduler.RequestFrame()
	}()
	return nil
}

// Poll finishes a Load once its fetch is done. ready reports whether the
// viewer is Ready. A failed load returns the viewer to Uninitialized and
// reports the error once.
func (v *Viewer) Poll() (ready bool, err error) {
	if v.state != StateLoading {
		return v.state == StateReady, nil
	}
	select {
	case res := <-v.loaded:
		return v.finishLoading(res)
	default:
		return false, nil
	}
}

// Initialize loads and compiles everything synchronously.
func (v *Viewer) Initialize(ctx context.Context) error {
	if v.state != StateUninitialized {
		return ErrAlreadyInitialized
	}
	v.setState(StateLoading)
	_, err := v.finishLoading(v.fetch(ctx))
	return err
}

func (v *Viewer) fetch(ctx context.Context) loadResult {
	var res loadResult
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if v.cfg.ShaderURL == "" {
			res.shader = DefaultShader
			return nil
		}
		src, err := v.loader.LoadText(gctx, v.cfg.ShaderURL)
		if err != nil {
			return err
		}
		res.shader = []byte(src)
		return nil
	})
	if url := v.cfg.ImageURL; url != "" {
		g.Go(func() error {
			img, err := v.loader.LoadImage(gctx, url)
			res.img = img
			return err
		})
	}
	res.err = g.Wait()
	return res
}

func (v *Viewer) finishLoading(res loadResult) (bool, error) {
	if res.err != nil {
		v.setState(StateUninitialized)
		return false, fmt.Errorf("initialize: %w", res.err)
	}
	prog, err := v.backend.Compile(res.shader)
	if err != nil {
		v.setState(StateUninitialized)
		if !errors.Is(err, ErrResourceCompile) {
			err = fmt.Errorf("%w: %v", ErrResourceCompile, err)
		}
		return false, fmt.Errorf("initialize: %w", err)
	}
	v.program = prog
	v.setState(StateReady)

	if res.img != nil {
		if err := v.SetImage(res.img); err != nil {
			return true, fmt.Errorf("initialize: %w", err)
		}
	}
	v.Invalidate()
	return true, nil
}

func (v *Viewer) setState(s State) {
	if v.state == s {
		return
	}
	Logger().Info("tileview: state", "from", v.state, "to", s)
	v.state = s
}

// SetImage replaces the displayed image. The old tiles are released, the
// new image is tiled and uploaded, the pose is reset to fit the view and the
// image fades in.
func (v *Viewer) SetImage(img image.Image) error {
	if v.state != StateReady {
		return ErrNotReady
	}
	b := img.Bounds()
	if b.Empty() {
		return fmt.Errorf("set image: empty image %v", b)
	}
	v.releaseTiles()

	tiles := PartitionTiles(b.Dx(), b.Dy(), v.cfg.TileSize)
	for i := range tiles {
		r := tiles[i].SourceRect().Add(b.Min)
		tex, err := v.backend.NewTexture(img, r, tiles[i].Width, tiles[i].Height)
		if err != nil {
			v.tiles = tiles[:i]
			v.releaseTiles()
			return fmt.Errorf("set image: tile %d: %w", i, err)
		}
		tiles[i].Texture = tex
	}
	v.tiles = tiles
	v.vertices = TileGeometry(tiles)

	v.view.Reset(float64(b.Dx()), float64(b.Dy()))
	if err := v.view.ZoomToFit(0); err != nil {
		return fmt.Errorf("set image: %w", err)
	}
	v.anim.StartFunc(ChannelAlpha, 1, v.cfg.FadeInDuration, v.fadeEase)

	Logger().Info("tileview: image loaded",
		"width", b.Dx(), "height", b.Dy(), "tiles", len(tiles), "tileSize", v.cfg.TileSize)
	v.view.emit(ViewEvent{Type: EventImageLoaded, ImageWidth: b.Dx(), ImageHeight: b.Dy()})
	v.Invalidate()
	return nil
}

// SetImageURL loads the image at url and shows it.
func (v *Viewer) SetImageURL(ctx context.Context, url string) error {
	if v.state != StateReady {
		return ErrNotReady
	}
	img, err := v.loader.LoadImage(ctx, url)
	if err != nil {
		return err
	}
	return v.SetImage(img)
}

// Close releases every tile texture.
func (v *Viewer) Close() {
	v.releaseTiles()
}

func (v *Viewer) releaseTiles() {
	for _, t := range v.tiles {
		if t.Texture == nil {
			continue
		}
		if err := t.Texture.Release(); err != nil {
			Logger().Warn("tileview: release tile", "x", t.X, "y", t.Y, "error", err)
		}
	}
	v.tiles = nil
	v.vertices = nil
}

// --- render loop ---

// Invalidate requests a frame. Repeated calls before the frame runs
// coalesce into one request.
func (v *Viewer) Invalidate() {
	if v.pending {
		return
	}
	v.pending = true
	v.scheduler.RequestFrame()
}

// Pending reports whether a frame has been requested and not yet drawn.
func (v *Viewer) Pending() bool { return v.pending }

// Frame draws if a frame is pending and reports whether it did. While any
// animation is running it requests the next frame.
func (v *Viewer) Frame() (drawn bool, err error) {
	if !v.pending {
		return false, nil
	}
	v.pending = false
	start := time.Now()
	err = v.render()
	v.stats.record(time.Since(start), len(v.tiles))

	if v.state == StateReady && !v.anim.Finished() {
		v.Invalidate()
	}
	return true, err
}

func (v *Viewer) render() error {
	v.backend.Clear(v.cfg.ClearColor)
	if v.state != StateReady || len(v.tiles) == 0 {
		return nil
	}
	m, err := v.view.Compose(v.view.CurrentPose(), true)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := v.program.SetUniform(uniformAlpha, float32(v.anim.Get(ChannelAlpha))); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := v.backend.Draw(v.program, Frame{Matrix: m, Tiles: v.tiles, Vertices: v.vertices}); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// Resize sets the view extent in pixels and requests a frame.
func (v *Viewer) Resize(width, height float64) {
	w, h := v.view.Size()
	if w == width && h == height {
		return
	}
	v.view.SetSize(width, height)
	v.Invalidate()
}

// --- input ---
//
// Input handlers are no-ops before the viewer is Ready. Failures from a
// degenerate transform are logged and the event is dropped.

func (v *Viewer) ready() bool { return v.state == StateReady }

func dropped(op string, err error) {
	Logger().Warn("tileview: input dropped", "op", op, "error", err)
}

// DragStart begins a drag at screen point (x, y).
func (v *Viewer) DragStart(x, y float64) {
	if !v.ready() {
		return
	}
	v.view.DragStart(x, y)
	v.Invalidate()
}

// DragMove continues the drag to (x, y).
func (v *Viewer) DragMove(x, y float64) {
	if !v.ready() || !v.view.Dragging() {
		return
	}
	v.view.DragMove(x, y)
	v.Invalidate()
}

// DragEnd releases the drag with momentum.
func (v *Viewer) DragEnd() {
	if !v.ready() {
		return
	}
	if err := v.view.DragEnd(v.cfg.SnapDuration); err != nil {
		dropped("drag end", err)
	}
	v.Invalidate()
}

// CancelDrag abandons the drag.
func (v *Viewer) CancelDrag() {
	v.view.CancelDrag()
}

// Wheel zooms in for a negative delta and out for a positive one, about the
// image point under (x, y).
func (v *Viewer) Wheel(x, y, delta float64) {
	if !v.ready() || delta == 0 {
		return
	}
	factor := 0.5
	if delta < 0 {
		factor = 2
	}
	if err := v.view.ZoomAt(x, y, factor, v.cfg.WheelZoomDuration); err != nil {
		dropped("wheel", err)
		return
	}
	v.Invalidate()
}

// GestureStart begins a pinch/rotate gesture centered at (x, y).
func (v *Viewer) GestureStart(x, y float64) {
	if !v.ready() {
		return
	}
	if err := v.view.GestureStart(x, y); err != nil {
		dropped("gesture start", err)
	}
}

// GestureChange applies the gesture's total rotation (radians) and scale.
func (v *Viewer) GestureChange(rotation, scale float64) {
	if !v.ready() {
		return
	}
	if err := v.view.GestureChange(rotation, scale); err != nil {
		dropped("gesture change", err)
		return
	}
	v.Invalidate()
}

// GestureEnd finishes the gesture and snaps the image into view.
func (v *Viewer) GestureEnd() {
	if !v.ready() {
		return
	}
	if err := v.view.GestureEnd(v.cfg.SnapDuration); err != nil {
		dropped("gesture end", err)
	}
	v.Invalidate()
}

// ZoomToFit fits the image to the view over d.
func (v *Viewer) ZoomToFit(d time.Duration) error {
	if !v.ready() {
		return ErrNotReady
	}
	if err := v.view.ZoomToFit(d); err != nil {
		return err
	}
	v.Invalidate()
	return nil
}

// Zoom animates to an absolute scale over d.
func (v *Viewer) Zoom(scale float64, d time.Duration) error {
	if !v.ready() {
		return ErrNotReady
	}
	if err := v.view.Zoom(scale, d); err != nil {
		return err
	}
	v.Invalidate()
	return nil
}

// Rotate turns the image a quarter turn clockwise over d.
func (v *Viewer) Rotate(d time.Duration) error {
	if !v.ready() {
		return ErrNotReady
	}
	if err := v.view.Rotate(d); err != nil {
		return err
	}
	v.Invalidate()
	return nil
}
