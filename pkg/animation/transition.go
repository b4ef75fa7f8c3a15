package animation

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/go-weft/weft/pkg/reactive"
)

// Transition eases a Dynamic from its current value to a target. Every
// step writes through Dynamic.Set, so callbacks, redraw registrations, and
// blocked readers all observe the intermediate values.
type Transition struct {
	value  *reactive.Dynamic[float64]
	tween  *gween.Tween
	ticker *Ticker
	last   time.Duration
}

// Animate starts a transition of value to target over duration using the
// given easing curve. The returned transition is already running; advance
// it by pumping StepTickers each frame.
func Animate(value *reactive.Dynamic[float64], target float64, duration time.Duration, easing ease.TweenFunc) *Transition {
	tr := &Transition{
		value: value,
		tween: gween.New(float32(value.Get()), float32(target), float32(duration.Seconds()), easing),
	}
	tr.ticker = NewTicker(tr.step)
	tr.ticker.Start()
	return tr
}

// Linear starts a transition with a linear curve.
func Linear(value *reactive.Dynamic[float64], target float64, duration time.Duration) *Transition {
	return Animate(value, target, duration, ease.Linear)
}

func (tr *Transition) step(elapsed time.Duration) {
	dt := elapsed - tr.last
	tr.last = elapsed
	current, finished := tr.tween.Update(float32(dt.Seconds()))
	tr.value.Set(float64(current))
	if finished {
		tr.ticker.Stop()
	}
}

// Running reports whether the transition is still animating.
func (tr *Transition) Running() bool {
	return tr.ticker.IsActive()
}

// Cancel stops the transition, leaving the value wherever it got to.
func (tr *Transition) Cancel() {
	tr.ticker.Stop()
}

// Lerp linearly interpolates between a and b by t in [0, 1].
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// PercentBetween reports where value falls between min and max, clamped to
// [0, 1].
func PercentBetween(value, min, max float64) float64 {
	if max == min {
		return 0
	}
	t := (value - min) / (max - min)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
