package tileview

import (
	"context"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// zoomStep is the factor applied by the + and - keys.
const zoomStep = 2.0

// App runs a Viewer inside an ebiten window. It implements ebiten.Game.
//
// Keys: R rotates a quarter turn, F zooms to fit, + and - zoom in and out.
type App struct {
	viewer  *Viewer
	backend *EbitenBackend
	input   *pointerInput

	runner          *TestRunner
	injectQueue     []injectedEvent
	screenshotQueue []string
}

// AppOptions are the optional collaborators of an App.
type AppOptions struct {
	Loader AssetLoader
	Sink   EventSink
	// Script, when set, drives the viewer instead of the mouse until done.
	Script *TestRunner
}

// NewApp creates an App and starts loading cfg.ShaderURL and cfg.ImageURL.
func NewApp(ctx context.Context, cfg Config, opts AppOptions) (*App, error) {
	backend := NewEbitenBackend()
	v, err := New(cfg, Options{
		Backend:   backend,
		Scheduler: EbitenScheduler{},
		Loader:    opts.Loader,
		Sink:      opts.Sink,
	})
	if err != nil {
		return nil, err
	}
	if err := v.Load(ctx); err != nil {
		return nil, err
	}
	return &App{
		viewer:  v,
		backend: backend,
		input:   newPointerInput(),
		runner:  opts.Script,
	}, nil
}

// Viewer returns the app's viewer.
func (a *App) Viewer() *Viewer {
	return a.viewer
}

// Update polls loading and input. A failed load ends the game.
func (a *App) Update() error {
	ready, err := a.viewer.Poll()
	if err != nil {
		return err
	}
	if !ready {
		return nil
	}

	if a.runner != nil && !a.runner.Done() {
		a.runner.step(a)
		a.viewer.Invalidate()
	}
	if !a.processInjectedInput() {
		a.input.poll(a.viewer)
	}
	a.handleKeys()
	return nil
}

func (a *App) handleKeys() {
	d := a.viewer.Config().SnapDuration
	var err error
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		err = a.viewer.Rotate(d)
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		err = a.viewer.ZoomToFit(d)
	case inpututil.IsKeyJustPressed(ebiten.KeyEqual), inpututil.IsKeyJustPressed(ebiten.KeyNumpadAdd):
		err = a.viewer.Zoom(a.viewer.view.DestinationPose().Scale*zoomStep, d)
	case inpututil.IsKeyJustPressed(ebiten.KeyMinus), inpututil.IsKeyJustPressed(ebiten.KeyNumpadSubtract):
		err = a.viewer.Zoom(a.viewer.view.DestinationPose().Scale/zoomStep, d)
	}
	if err != nil {
		Logger().Warn("tileview: key command", "error", err)
	}
}

// Draw renders a pending frame into screen.
func (a *App) Draw(screen *ebiten.Image) {
	showStats := a.viewer.Config().ShowStats
	if showStats {
		a.viewer.Invalidate()
	}

	a.backend.SetTarget(screen)
	drawn, err := a.viewer.Frame()
	if err != nil {
		Logger().Error("tileview: frame", "error", err)
	}
	if drawn && showStats {
		drawOverlay(screen, a.viewer)
	}
	if drawn {
		a.flushScreenshots(screen)
	}
}

// Layout sizes the screen in device pixels and resizes the viewer to match.
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := ebiten.Monitor().DeviceScaleFactor()
	w := int(float64(outsideWidth) * s)
	h := int(float64(outsideHeight) * s)
	a.viewer.Resize(float64(w), float64(h))
	return w, h
}

// RunConfig configures Run.
type RunConfig struct {
	Title         string
	Width, Height int
	Config        Config
	AppOptions
}

// Run opens a window and runs the viewer until it is closed.
func Run(ctx context.Context, rc RunConfig) error {
	app, err := NewApp(ctx, rc.Config, rc.AppOptions)
	if err != nil {
		return err
	}
	defer app.viewer.Close()

	ebiten.SetWindowTitle(rc.Title)
	ebiten.SetWindowSize(rc.Width, rc.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)
	ebiten.SetFPSMode(ebiten.FPSModeVsyncOffMinimum)

	if err := ebiten.RunGame(app); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}
