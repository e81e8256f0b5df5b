// Package easing maps normalized progress to eased progress.
package easing

import (
	"fmt"
	"math"
)

// Func maps t in [0,1] to an eased value. Overshooting curves may leave [0,1].
type Func func(t float64) float64

// Inherit selects the timeline's default easing.
const Inherit = "inherit"

// Linear is the identity curve.
func Linear(t float64) float64 {
	return t
}

// EaseInOutQuad accelerates until the midpoint, then decelerates.
func EaseInOutQuad(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - pow(-2*t+2, 2)/2
}

// EaseInOutCubic accelerates cubically up to the midpoint and mirrors the
// curve on the way out.
func EaseInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// EaseOutElastic overshoots past 1 with a damped sine before settling.
func EaseOutElastic(t float64) float64 {
	const c4 = (2 * math.Pi) / 3
	switch {
	case t <= 0:
		return 0
	case t >= 1:
		return 1
	}
	return math.Pow(2, -10*t)*math.Sin((t*10-0.75)*c4) + 1
}

var named = map[string]Func{
	"linear":         Linear,
	"easeInOutQuad":  EaseInOutQuad,
	"easeInOutCubic": EaseInOutCubic,
	"easeOutElastic": EaseOutElastic,
}

// Lookup resolves an easing by name. Inherit and the empty string return a
// nil Func, which callers replace with their default.
func Lookup(name string) (Func, error) {
	if name == "" || name == Inherit {
		return nil, nil
	}
	fn, ok := named[name]
	if !ok {
		return nil, fmt.Errorf("unknown easing: %s", name)
	}
	return fn, nil
}

// Names lists the built-in easing names.
func Names() []string {
	return []string{"linear", "easeInOutQuad", "easeInOutCubic", "easeOutElastic"}
}

// Lerp returns the value at fraction t between a and b. t is not clamped.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// Clamp01 limits v to [0,1]. NaN becomes 0.
func Clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}

// pow raises x to a small non-negative integer power.
func pow(x float64, n int) float64 {
	r := 1.0
	for ; n > 0; n-- {
		r *= x
	}
	return r
}
