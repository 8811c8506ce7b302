package tileview

// injectKind is the type of a synthetic input event.
type injectKind uint8

const (
	injectPress injectKind = iota
	injectMove
	injectRelease
	injectWheel
)

// injectedEvent is one synthetic input event in screen coordinates.
type injectedEvent struct {
	kind  injectKind
	x, y  float64
	delta float64 // wheel only
}

// InjectPress queues a left-button press at (x, y). Queued events are
// consumed one per frame in place of real mouse input.
func (a *App) InjectPress(x, y float64) {
	a.injectQueue = append(a.injectQueue, injectedEvent{kind: injectPress, x: x, y: y})
}

// InjectMove queues a pointer move with the button held.
func (a *App) InjectMove(x, y float64) {
	a.injectQueue = append(a.injectQueue, injectedEvent{kind: injectMove, x: x, y: y})
}

// InjectRelease queues a button release at (x, y).
func (a *App) InjectRelease(x, y float64) {
	a.injectQueue = append(a.injectQueue, injectedEvent{kind: injectRelease, x: x, y: y})
}

// InjectWheel queues a wheel event at (x, y). Negative delta zooms in.
func (a *App) InjectWheel(x, y, delta float64) {
	a.injectQueue = append(a.injectQueue, injectedEvent{kind: injectWheel, x: x, y: y, delta: delta})
}

// InjectDrag queues a press at (fromX, fromY), frames-2 evenly spaced moves
// and a release at (toX, toY). frames is at least 2.
func (a *App) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	frames = max(frames, 2)
	a.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		a.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	a.InjectRelease(toX, toY)
}

func (a *App) pendingInjections() int {
	return len(a.injectQueue)
}

// processInjectedInput pops one queued event and feeds it to the viewer.
// It reports whether an event was consumed.
func (a *App) processInjectedInput() bool {
	if len(a.injectQueue) == 0 {
		return false
	}
	evt := a.injectQueue[0]
	copy(a.injectQueue, a.injectQueue[1:])
	a.injectQueue = a.injectQueue[:len(a.injectQueue)-1]

	switch evt.kind {
	case injectWheel:
		a.viewer.Wheel(evt.x, evt.y, evt.delta)
	default:
		a.input.processPointer(a.viewer, 0, evt.x, evt.y, evt.kind != injectRelease)
	}
	return true
}
