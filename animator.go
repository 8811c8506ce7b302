package tileview

import (
	"time"

	"github.com/tanema/gween/ease"
)

// Channel names one animated viewport property.
type Channel uint8

const (
	ChannelAlpha           Channel = iota // image opacity
	ChannelScale                          // uniform zoom factor
	ChannelPosX                           // horizontal translation in screen pixels
	ChannelPosY                           // vertical translation in screen pixels
	ChannelRotation                       // rotation in radians
	ChannelScaleCenterX                   // scale pivot X in image space
	ChannelScaleCenterY                   // scale pivot Y in image space
	ChannelRotationCenterX                // rotation pivot X in image space
	ChannelRotationCenterY                // rotation pivot Y in image space
	channelCount
)

var channelNames = [channelCount]string{
	"Alpha", "Scale", "PosX", "PosY", "Rotation",
	"ScaleCenterX", "ScaleCenterY", "RotationCenterX", "RotationCenterY",
}

func (c Channel) String() string {
	if c < channelCount {
		return channelNames[c]
	}
	return "Unknown"
}

// Easing selects the time remapping applied to an animation.
type Easing uint8

const (
	EaseOutQuart     Easing = iota // decelerating, no overshoot (default)
	EaseOutOvershoot               // passes the destination, then settles back
	EaseLinear                     // constant velocity
	easeFunc                       // caller-supplied gween ease.TweenFunc
)

// DefaultOvershoot is the EaseOutOvershoot amplitude used when none is given.
const DefaultOvershoot = 1.70158

// Clock supplies wall-clock time to the Animator. Tests inject a fake.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// animation is the whole state of one channel. The current value is derived
// from the clock on every query; nothing is advanced per frame.
type animation struct {
	from     float64
	to       float64
	start    time.Time
	duration time.Duration
	easing   Easing
	param    float64
	fn       ease.TweenFunc
	finished bool
	present  bool
}

// Animator interpolates the viewport channels over wall-clock time.
//
// There is no Update step. Get samples the clock and evaluates the easing
// directly; retargeting a channel mid-flight starts from the value currently
// on screen.
type Animator struct {
	clock Clock
	anims [channelCount]animation
}

// NewAnimator creates an empty Animator. A nil clock uses the system clock.
func NewAnimator(clock Clock) *Animator {
	if clock == nil {
		clock = systemClock{}
	}
	return &Animator{clock: clock}
}

// Start animates ch to the given value over d using EaseOutQuart.
func (a *Animator) Start(ch Channel, to float64, d time.Duration) {
	a.StartEased(ch, to, d, EaseOutQuart, 0)
}

// StartEased animates ch to the given value over d with the given easing.
// param is the EaseOutOvershoot amplitude; zero selects DefaultOvershoot.
// Any in-flight animation on ch is replaced, starting from its current value.
func (a *Animator) StartEased(ch Channel, to float64, d time.Duration, easing Easing, param float64) {
	if ch >= channelCount {
		return
	}
	from := a.Get(ch)
	a.anims[ch] = animation{
		from:     from,
		to:       to,
		start:    a.clock.Now(),
		duration: d,
		easing:   easing,
		param:    param,
		present:  true,
	}
}

// StartFunc animates ch to the given value over d using a gween easing
// function such as ease.InOutSine.
func (a *Animator) StartFunc(ch Channel, to float64, d time.Duration, fn ease.TweenFunc) {
	if fn == nil {
		a.Start(ch, to, d)
		return
	}
	a.StartEased(ch, to, d, easeFunc, 0)
	a.anims[ch].fn = fn
}

// Set jumps ch to value with no interpolation.
func (a *Animator) Set(ch Channel, value float64) {
	a.Start(ch, value, 0)
}

// Get returns the current value of ch. A channel that was never started
// reads as 0. Once the duration has elapsed the channel is marked finished
// and the exact destination is returned.
func (a *Animator) Get(ch Channel) float64 {
	if ch >= channelCount || !a.anims[ch].present {
		return 0
	}
	an := &a.anims[ch]

	t := 1.0
	if an.duration > 0 {
		elapsed := a.clock.Now().Sub(an.start)
		t = min(1, max(0, float64(elapsed)/float64(an.duration)))
	}
	if t >= 1 {
		an.finished = true
		return an.to
	}
	return an.from + an.ease(t)*(an.to-an.from)
}

// Destination returns the value ch is heading to, regardless of progress.
func (a *Animator) Destination(ch Channel) float64 {
	if ch >= channelCount || !a.anims[ch].present {
		return 0
	}
	return a.anims[ch].to
}

// Finished reports whether every started channel has been read at or past
// the end of its animation.
func (a *Animator) Finished() bool {
	for i := range a.anims {
		an := &a.anims[i]
		if an.present && !an.finished {
			return false
		}
	}
	return true
}

// Reset removes every channel.
func (a *Animator) Reset() {
	a.anims = [channelCount]animation{}
}

// ease maps normalized time t in [0, 1) through the animation's easing.
func (an *animation) ease(t float64) float64 {
	switch an.easing {
	case EaseOutQuart:
		u := t - 1
		return -(u*u*u*u - 1)
	case EaseOutOvershoot:
		s := an.param
		if s == 0 {
			s = DefaultOvershoot
		}
		u := t - 1
		return u*u*((s+1)*u+s) + 1
	case easeFunc:
		return float64(an.fn(float32(t), 0, 1, 1))
	default:
		return t
	}
}

var easingsByName = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inQuad":     ease.InQuad,
	"outQuad":    ease.OutQuad,
	"inOutQuad":  ease.InOutQuad,
	"inCubic":    ease.InCubic,
	"outCubic":   ease.OutCubic,
	"inOutCubic": ease.InOutCubic,
	"outQuart":   ease.OutQuart,
	"inOutQuart": ease.InOutQuart,
	"inSine":     ease.InSine,
	"outSine":    ease.OutSine,
	"inOutSine":  ease.InOutSine,
	"outExpo":    ease.OutExpo,
	"outBack":    ease.OutBack,
	"outBounce":  ease.OutBounce,
	"outElastic": ease.OutElastic,
}

// EasingByName looks up a gween easing by its camel-case name, e.g.
// "inOutSine". Lookup is exact.
func EasingByName(name string) (ease.TweenFunc, bool) {
	fn, ok := easingsByName[name]
	return fn, ok
}
