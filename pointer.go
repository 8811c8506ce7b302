package tileview

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

const maxPointers = 10 // pointer 0 = mouse, 1-9 = touch

// InputHandler receives the gestures recognized from raw pointer input.
// *Viewer implements it.
type InputHandler interface {
	DragStart(x, y float64)
	DragMove(x, y float64)
	DragEnd()
	CancelDrag()
	Wheel(x, y, delta float64)
	GestureStart(x, y float64)
	GestureChange(rotation, scale float64)
	GestureEnd()
}

type pointerState struct {
	down         bool
	lastX, lastY float64
}

type pinchState struct {
	active       bool
	initialDist  float64
	initialAngle float64
}

// pointerInput turns per-frame pointer positions into drags and two-finger
// pinch gestures. Only one pointer drives a drag at a time; a second touch
// cancels the drag and starts a pinch.
type pointerInput struct {
	pointers  [maxPointers]pointerState
	dragOwner int // pointer driving the drag, -1 when none
	pinch     pinchState

	touchMap     [maxPointers]ebiten.TouchID
	touchUsed    [maxPointers]bool
	prevTouchIDs []ebiten.TouchID
}

func newPointerInput() *pointerInput {
	return &pointerInput{dragOwner: -1}
}

// poll reads mouse, wheel and touch state from ebiten and forwards the
// resulting gestures to h.
func (in *pointerInput) poll(h InputHandler) {
	mx, my := ebiten.CursorPosition()
	x, y := float64(mx), float64(my)
	in.processPointer(h, 0, x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft))

	if _, wy := ebiten.Wheel(); wy != 0 {
		// ebiten reports positive y for scrolling up, which zooms in.
		h.Wheel(x, y, -wy)
	}

	in.pollTouches(h)
	in.updatePinch(h)
}

func (in *pointerInput) pollTouches(h InputHandler) {
	ids := ebiten.AppendTouchIDs(in.prevTouchIDs[:0])
	in.prevTouchIDs = ids

	var seen [maxPointers]bool
	for _, tid := range ids {
		slot := in.touchSlot(tid)
		if slot < 0 {
			continue
		}
		seen[slot] = true
		tx, ty := ebiten.TouchPosition(tid)
		in.processPointer(h, slot, float64(tx), float64(ty), true)
	}

	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && !seen[i] {
			ps := &in.pointers[i]
			if ps.down {
				in.processPointer(h, i, ps.lastX, ps.lastY, false)
			}
			in.touchUsed[i] = false
			in.touchMap[i] = 0
		}
	}
}

// touchSlot maps a touch ID to a pointer slot (1-9), allocating one if
// needed. Returns -1 when every slot is taken.
func (in *pointerInput) touchSlot(tid ebiten.TouchID) int {
	for i := 1; i < maxPointers; i++ {
		if in.touchUsed[i] && in.touchMap[i] == tid {
			return i
		}
	}
	for i := 1; i < maxPointers; i++ {
		if !in.touchUsed[i] {
			in.touchUsed[i] = true
			in.touchMap[i] = tid
			return i
		}
	}
	return -1
}

// processPointer runs the press/move/release state machine for one pointer.
func (in *pointerInput) processPointer(h InputHandler, id int, x, y float64, pressed bool) {
	ps := &in.pointers[id]

	switch {
	case pressed && !ps.down:
		ps.down = true
		if in.dragOwner < 0 && !in.pinch.active {
			in.dragOwner = id
			h.DragStart(x, y)
		}
	case !pressed && ps.down:
		ps.down = false
		if in.dragOwner == id {
			in.dragOwner = -1
			h.DragEnd()
		}
	case pressed && ps.down:
		if in.dragOwner == id && (x != ps.lastX || y != ps.lastY) {
			h.DragMove(x, y)
		}
	}
	ps.lastX, ps.lastY = x, y
}

// updatePinch starts, updates or ends a pinch depending on how many touch
// pointers are down.
func (in *pointerInput) updatePinch(h InputHandler) {
	var p [2]int
	count := 0
	for i := 1; i < maxPointers; i++ {
		if in.pointers[i].down {
			if count < 2 {
				p[count] = i
			}
			count++
		}
	}

	if count != 2 {
		if in.pinch.active {
			in.pinch = pinchState{}
			h.GestureEnd()
		}
		return
	}

	a, b := &in.pointers[p[0]], &in.pointers[p[1]]
	dx := b.lastX - a.lastX
	dy := b.lastY - a.lastY
	dist := math.Hypot(dx, dy)
	angle := math.Atan2(dy, dx)

	if !in.pinch.active {
		if in.dragOwner >= 0 {
			in.dragOwner = -1
			h.CancelDrag()
		}
		in.pinch = pinchState{active: true, initialDist: dist, initialAngle: angle}
		h.GestureStart((a.lastX+b.lastX)/2, (a.lastY+b.lastY)/2)
		return
	}

	scale := 1.0
	if in.pinch.initialDist > 0 {
		scale = dist / in.pinch.initialDist
	}
	h.GestureChange(angle-in.pinch.initialAngle, scale)
}
