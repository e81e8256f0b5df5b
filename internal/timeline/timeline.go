// Package timeline drives the drawing animation of registered paths.
//
// A Timeline owns a registry of path records and a state machine
// (idle, playing, paused, completed, looping). Every frame it converts
// elapsed time into a global progress in [0, 1], maps that onto each path's
// delay/duration window and pushes the resulting dash offset, width and
// jitter transform to a render.Target.
//
// A Timeline is not safe for concurrent use. All calls must happen on the
// goroutine that runs its frame.Scheduler; use frame.Executor to get there.
package timeline

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/ivlev/sig2gif/internal/config"
	"github.com/ivlev/sig2gif/internal/easing"
	"github.com/ivlev/sig2gif/internal/frame"
	"github.com/ivlev/sig2gif/internal/logging"
	"github.com/ivlev/sig2gif/internal/pathdata"
	"github.com/ivlev/sig2gif/internal/render"
)

var (
	ErrPathNotFound  = errors.New("timeline: path not found")
	ErrDuplicatePath = errors.New("timeline: duplicate path id")
)

const (
	MinSpeed = config.MinSpeed
	MaxSpeed = config.MaxSpeed
)

// Options configures a Timeline. Zero values get defaults in New.
type Options struct {
	Scheduler frame.Scheduler
	Target    render.Target

	// Duration is the per-path duration for specs that leave it unset.
	Duration    float64
	MinDuration float64
	Speed       float64
	Easing      easing.Func
	Loop        bool
	Pressure    bool
	// Jitter applies to specs without their own jitter.
	Jitter      *Jitter
	StrokeColor string
	StrokeWidth float64

	RespectReducedMotion bool
	// ReducedMotion probes the environment; nil means no preference.
	ReducedMotion func() bool

	OnPlay        func()
	OnPause       func()
	OnComplete    func()
	OnStateChange func(State)
}

// OptionsFromConfig translates the shared configuration. Scheduler and
// Target are left for the caller.
func OptionsFromConfig(cfg config.Config) (Options, error) {
	ease, err := easing.Lookup(cfg.Easing)
	if err != nil {
		return Options{}, fmt.Errorf("timeline: %w", err)
	}
	opts := Options{
		Duration:             cfg.Duration,
		MinDuration:          cfg.MinDuration,
		Speed:                cfg.Speed,
		Easing:               ease,
		Loop:                 cfg.Loop,
		Pressure:             cfg.Pressure,
		StrokeColor:          cfg.StrokeColor,
		StrokeWidth:          cfg.StrokeWidth,
		RespectReducedMotion: cfg.RespectReducedMotion,
		ReducedMotion:        config.PrefersReducedMotion,
	}
	if j := cfg.Jitter; j != nil {
		opts.Jitter = &Jitter{Amplitude: j.Amplitude, Frequency: j.Frequency, Seed: j.Seed}
	}
	return opts, nil
}

// Timeline is the animation controller.
type Timeline struct {
	opts    Options
	sched   frame.Scheduler
	target  render.Target
	effects []Effect
	reg     *registry

	state    State
	progress float64
	total    float64
	speed    float64

	startTime float64
	pausedAt  float64
	frameID   frame.ID
	scheduled bool

	muted bool
}

// New creates an idle timeline.
func New(opts Options) *Timeline {
	if opts.Scheduler == nil {
		opts.Scheduler = frame.NewManual(0)
	}
	if opts.Target == nil {
		opts.Target = render.NewSheet()
	}
	if opts.Duration <= 0 {
		opts.Duration = 1500
	}
	if opts.MinDuration <= 0 {
		opts.MinDuration = 100
	}
	if opts.Easing == nil {
		opts.Easing = easing.EaseInOutQuad
	}
	if opts.StrokeColor == "" {
		opts.StrokeColor = "#111111"
	}
	if opts.StrokeWidth <= 0 {
		opts.StrokeWidth = 3
	}

	t := &Timeline{
		opts:    opts,
		sched:   opts.Scheduler,
		target:  opts.Target,
		effects: effects(opts.Pressure),
		reg:     newRegistry(),
		speed:   clampSpeed(opts.Speed),
	}
	t.total = t.reg.totalDuration(opts.MinDuration)
	return t
}

func clampSpeed(m float64) float64 {
	switch {
	case math.IsNaN(m) || m == 0:
		return 1
	case m < MinSpeed:
		return MinSpeed
	case m > MaxSpeed:
		return MaxSpeed
	}
	return m
}

// Register adds a path and returns its id. A path whose description cannot
// be measured is kept with zero length and stays hidden.
func (t *Timeline) Register(spec PathSpec) (string, error) {
	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}
	if _, ok := t.reg.get(spec.ID); ok {
		return "", fmt.Errorf("%w: %s", ErrDuplicatePath, spec.ID)
	}
	if spec.Duration <= 0 {
		spec.Duration = t.opts.Duration
	}
	if spec.Delay < 0 {
		spec.Delay = 0
	}
	if spec.Color == "" {
		spec.Color = t.opts.StrokeColor
	}
	if spec.StrokeWidth <= 0 {
		spec.StrokeWidth = t.opts.StrokeWidth
	}
	if spec.Jitter == nil {
		spec.Jitter = t.opts.Jitter
	}

	r := &record{spec: spec}
	if length, err := pathdata.Length(spec.D); err != nil {
		logging.Logger().Debug("timeline: cannot measure path", "path", spec.ID, "err", err)
	} else {
		r.length = length
	}
	if j := spec.Jitter; j != nil {
		r.noiseX = easing.Noise(j.Seed)
		r.noiseY = easing.Noise(j.Seed + 7919)
	}

	style := render.Style{
		Color:      spec.Color,
		Width:      spec.StrokeWidth,
		DashArray:  r.length,
		DashOffset: r.length,
		Hidden:     r.length <= 0,
	}
	if err := t.target.Mount(spec.ID, spec.D, style); err != nil {
		logging.Logger().Debug("timeline: mount failed", "path", spec.ID, "err", err)
	}

	t.reg.add(r)
	t.recomputeTotal()
	return spec.ID, nil
}

// Unregister removes a path and unmounts it from the target.
func (t *Timeline) Unregister(id string) error {
	r, ok := t.reg.remove(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrPathNotFound, id)
	}
	t.stopLocal(r)
	if err := t.target.Unmount(id); err != nil {
		logging.Logger().Debug("timeline: unmount failed", "path", id, "err", err)
	}
	t.recomputeTotal()
	return nil
}

// recomputeTotal refreshes the total duration. Running playback is
// re-anchored so the displayed progress does not jump; a stopped timeline
// re-applies its progress since path windows moved.
func (t *Timeline) recomputeTotal() {
	t.total = t.reg.totalDuration(t.opts.MinDuration)
	switch {
	case t.state.running():
		t.startTime = t.sched.Now() - t.progress*t.total/t.speed
	case t.state == Paused:
		t.startTime = t.pausedAt - t.progress*t.total/t.speed
		t.applyGlobalProgress(t.progress)
	case t.state == Completed:
		t.applyGlobalProgress(t.progress)
	}
}

// applyGlobalProgress updates every path that is not individually
// controlled, in registration order.
func (t *Timeline) applyGlobalProgress(p float64) {
	t.reg.each(func(r *record) {
		if r.isPaused || r.isPlaying {
			return
		}
		r.progress = r.localProgress(p, t.total)
		t.updateVisual(r)
	})
}

func (t *Timeline) setState(s State) {
	if t.state == s {
		return
	}
	t.state = s
	if !t.muted && t.opts.OnStateChange != nil {
		t.opts.OnStateChange(s)
	}
}

func (t *Timeline) fire(cb func()) {
	if !t.muted && cb != nil {
		cb()
	}
}

func (t *Timeline) schedule() {
	if t.scheduled {
		return
	}
	t.frameID = t.sched.RequestFrame(t.tick)
	t.scheduled = true
}

func (t *Timeline) cancel() {
	if !t.scheduled {
		return
	}
	t.sched.CancelFrame(t.frameID)
	t.scheduled = false
}

func (t *Timeline) tick(now float64) {
	t.scheduled = false
	if !t.state.running() {
		return
	}

	elapsed := (now - t.startTime) * t.speed
	t.progress = easing.Clamp01(elapsed / t.total)
	t.applyGlobalProgress(t.progress)
	if t.progress < 1 {
		t.schedule()
		return
	}

	if t.opts.Loop {
		t.setState(Looping)
		t.fire(t.opts.OnComplete)
		t.progress = 0
		t.reg.each((*record).resetFlags)
		t.applyGlobalProgress(0)
		t.startTime = now
		t.schedule()
		return
	}
	t.setState(Completed)
	t.fire(t.opts.OnComplete)
}

func (t *Timeline) reducedMotion() bool {
	return t.opts.RespectReducedMotion && t.opts.ReducedMotion != nil && t.opts.ReducedMotion()
}

// Play starts, restarts or resumes playback. From idle or completed it
// starts over at 0 with cleared path flags; from paused it continues where
// it stopped.
func (t *Timeline) Play() {
	if t.reducedMotion() {
		t.cancel()
		if t.state != Paused {
			t.reg.each((*record).resetFlags)
		}
		t.progress = 1
		t.startTime = t.sched.Now() - t.total/t.speed
		t.applyGlobalProgress(1)
		t.setState(Completed)
		t.fire(t.opts.OnComplete)
		return
	}

	now := t.sched.Now()
	switch t.state {
	case Playing, Looping:
		return
	case Paused:
		t.startTime += now - t.pausedAt
	default:
		t.reg.each((*record).resetFlags)
		t.progress = 0
		t.applyGlobalProgress(0)
		t.startTime = now
	}
	t.setState(Playing)
	t.fire(t.opts.OnPlay)
	t.schedule()
}

// Pause stops a running timeline and cancels its pending frame.
func (t *Timeline) Pause() {
	if !t.state.running() {
		return
	}
	t.cancel()
	t.pausedAt = t.sched.Now()
	t.setState(Paused)
	t.fire(t.opts.OnPause)
}

// Toggle pauses a running timeline and plays otherwise.
func (t *Timeline) Toggle() {
	if t.IsPlaying() {
		t.Pause()
		return
	}
	t.Play()
}

// Reset returns to idle from any state: scheduling stops, progress and
// every path flag are cleared and the strokes are hidden again.
func (t *Timeline) Reset() {
	t.cancel()
	t.progress = 0
	t.reg.each(func(r *record) {
		t.stopLocal(r)
		r.isPaused = false
		r.resetFlags()
		r.progress = 0
		t.updateVisual(r)
	})
	t.setState(Idle)
}

// Seek jumps to progress p, clamped to [0, 1], and applies it immediately.
// A completed or idle timeline becomes paused.
func (t *Timeline) Seek(p float64) {
	p = easing.Clamp01(p)
	now := t.sched.Now()
	t.progress = p
	t.startTime = now - p*t.total/t.speed
	if !t.state.running() {
		t.pausedAt = now
		t.setState(Paused)
	}
	t.applyGlobalProgress(p)
}

// SetSpeed changes the playback rate, clamped to [0.1, 10], without
// moving the displayed progress.
func (t *Timeline) SetSpeed(m float64) {
	if math.IsNaN(m) {
		return
	}
	m = math.Max(MinSpeed, math.Min(MaxSpeed, m))
	anchor := t.sched.Now()
	if t.state == Paused {
		anchor = t.pausedAt
	}
	t.speed = m
	t.startTime = anchor - t.progress*t.total/m
}

// Duration returns the total duration in milliseconds.
func (t *Timeline) Duration() float64 { return t.total }

// Progress returns the global progress in [0, 1].
func (t *Timeline) Progress() float64 { return t.progress }

func (t *Timeline) State() State   { return t.state }
func (t *Timeline) Speed() float64 { return t.speed }

// IsPlaying reports playing or looping.
func (t *Timeline) IsPlaying() bool   { return t.state.running() }
func (t *Timeline) IsPaused() bool    { return t.state == Paused }
func (t *Timeline) IsCompleted() bool { return t.state == Completed }
func (t *Timeline) IsLooping() bool   { return t.state == Looping }

// Len returns the number of registered paths.
func (t *Timeline) Len() int { return t.reg.len() }

// Target returns the render target the timeline draws to.
func (t *Timeline) Target() render.Target { return t.target }

// Scheduler returns the frame scheduler driving the timeline.
func (t *Timeline) Scheduler() frame.Scheduler { return t.sched }

// SetLoop toggles looping. It takes effect the next time progress reaches 1.
func (t *Timeline) SetLoop(on bool) { t.opts.Loop = on }

// Loop reports whether looping is enabled.
func (t *Timeline) Loop() bool { return t.opts.Loop }

// Paths returns snapshots of every registered path in registration order.
func (t *Timeline) Paths() []PathInfo {
	out := make([]PathInfo, 0, t.reg.len())
	t.reg.each(func(r *record) { out = append(out, r.info()) })
	return out
}
