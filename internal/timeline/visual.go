package timeline

import (
	"fmt"
	"math"

	"github.com/ivlev/sig2gif/internal/logging"
	"github.com/ivlev/sig2gif/internal/render"
)

// Params is what an Effect sees for one visual update of a path.
type Params struct {
	ID       string
	Length   float64
	Width    float64
	Progress float64
	Eased    float64
	Jitter   *Jitter
	NoiseX   func(float64) float64
	NoiseY   func(float64) float64
}

// Effect pushes one aspect of a path's visual state to the render target.
type Effect interface {
	Apply(t render.Target, p Params) error
}

// DashReveal hides the undrawn part of the stroke with the dash offset.
// Unmeasured paths stay hidden.
type DashReveal struct{}

func (DashReveal) Apply(t render.Target, p Params) error {
	if p.Length <= 0 {
		return t.SetDash(p.ID, 0, 0)
	}
	return t.SetDash(p.ID, p.Length, p.Length*(1-p.Eased))
}

// Pressure swells the stroke width towards the middle of the draw.
type Pressure struct{}

func (Pressure) Apply(t render.Target, p Params) error {
	factor := 0.75 + 0.5*math.Sin(math.Pi*p.Eased)
	return t.SetStrokeWidth(p.ID, p.Width*factor)
}

// Wobble offsets the stroke by seeded noise while it is partly drawn. The
// displacement fades to zero at both ends.
type Wobble struct{}

func (Wobble) Apply(t render.Target, p Params) error {
	j := p.Jitter
	if j == nil || j.Amplitude == 0 || p.Progress <= 0 || p.Progress >= 1 {
		return t.ClearTransform(p.ID)
	}
	env := 1 - math.Abs(0.5-p.Eased)*2
	if env < 0 {
		env = 0
	}
	x := p.Eased * j.Frequency
	dx := p.NoiseX(x) * j.Amplitude * env
	dy := p.NoiseY(x) * j.Amplitude * env
	return t.SetTransform(p.ID, dx, dy)
}

// effects builds the chain for the timeline options.
func effects(pressure bool) []Effect {
	chain := []Effect{DashReveal{}}
	if pressure {
		chain = append(chain, Pressure{})
	}
	return append(chain, Wobble{})
}

// updateVisual pushes r's current progress to the target and fires the
// per-path callbacks. Target failures are logged and dropped.
func (t *Timeline) updateVisual(r *record) {
	ease := r.spec.Easing
	if ease == nil {
		ease = t.opts.Easing
	}
	p := Params{
		ID:       r.spec.ID,
		Length:   r.length,
		Width:    r.spec.StrokeWidth,
		Progress: r.progress,
		Eased:    ease(r.progress),
		Jitter:   r.spec.Jitter,
		NoiseX:   r.noiseX,
		NoiseY:   r.noiseY,
	}
	for _, e := range t.effects {
		if err := safeApply(e, t.target, p); err != nil {
			logging.Logger().Debug("timeline: visual update failed", "path", p.ID, "err", err)
		}
	}

	if r.progress > 0 && !r.hasStarted {
		r.hasStarted = true
		if !t.muted && r.spec.OnDrawStart != nil {
			r.spec.OnDrawStart()
		}
	}
	if !t.muted && r.spec.OnDrawFrame != nil {
		r.spec.OnDrawFrame(r.progress)
	}
	if r.progress >= 1 && !r.hasCompleted {
		r.hasCompleted = true
		if !t.muted && r.spec.OnDrawComplete != nil {
			r.spec.OnDrawComplete()
		}
	}
}

func safeApply(e Effect, t render.Target, p Params) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic in %T: %v", e, rec)
		}
	}()
	return e.Apply(t, p)
}
