package timeline

import (
	"fmt"

	"github.com/ivlev/sig2gif/internal/easing"
	"github.com/ivlev/sig2gif/internal/render"
)

type pathState struct {
	progress     float64
	hasStarted   bool
	hasCompleted bool
	isPlaying    bool
	isPaused     bool
}

// Checkpoint is the playback state captured by Suspend.
type Checkpoint struct {
	state     State
	progress  float64
	startTime float64
	pausedAt  float64
	muted     bool
	paths     map[string]pathState
}

// State returns the state the timeline was in when the checkpoint was taken.
func (c Checkpoint) State() State { return c.state }

// Progress returns the global progress at checkpoint time.
func (c Checkpoint) Progress() float64 { return c.progress }

// Suspend silently stops all scheduling, global and per path, and mutes
// callbacks so the caller can drive the paths with Render. No state change
// is reported. Every Suspend must be paired with Restore.
func (t *Timeline) Suspend() Checkpoint {
	cp := Checkpoint{
		state:     t.state,
		progress:  t.progress,
		startTime: t.startTime,
		pausedAt:  t.pausedAt,
		muted:     t.muted,
		paths:     make(map[string]pathState, t.reg.len()),
	}
	t.cancel()
	t.reg.each(func(r *record) {
		cp.paths[r.spec.ID] = pathState{
			progress:     r.progress,
			hasStarted:   r.hasStarted,
			hasCompleted: r.hasCompleted,
			isPlaying:    r.isPlaying,
			isPaused:     r.isPaused,
		}
		if r.scheduled {
			t.sched.CancelFrame(r.frameID)
			r.scheduled = false
		}
	})
	t.muted = true
	return cp
}

// Restore puts the timeline back into the checkpointed state. Playback that
// was running continues from the checkpointed progress as of now.
func (t *Timeline) Restore(cp Checkpoint) {
	now := t.sched.Now()
	t.state = cp.state
	t.progress = cp.progress

	t.reg.each(func(r *record) {
		ps, ok := cp.paths[r.spec.ID]
		if !ok {
			return
		}
		r.progress = ps.progress
		r.hasStarted = ps.hasStarted
		r.hasCompleted = ps.hasCompleted
		r.isPlaying = ps.isPlaying
		r.isPaused = ps.isPaused
		t.updateVisual(r)
		if r.isPlaying {
			r.startTime = now - r.progress*r.spec.Duration/t.speed
			t.scheduleLocal(r)
		}
	})

	switch {
	case t.state.running():
		t.startTime = now - t.progress*t.total/t.speed
		t.schedule()
	default:
		t.startTime = cp.startTime
		t.pausedAt = cp.pausedAt
	}
	t.muted = cp.muted
}

// Render applies global progress p to every path, individually paused ones
// included, without touching the playback state. It is meant for capture
// between Suspend and Restore.
func (t *Timeline) Render(p float64) {
	p = easing.Clamp01(p)
	t.reg.each(func(r *record) {
		r.progress = r.localProgress(p, t.total)
		t.updateVisual(r)
	})
}

// Mute suppresses (or re-enables) every callback.
func (t *Timeline) Mute(on bool) { t.muted = on }

// Muted reports whether callbacks are suppressed.
func (t *Timeline) Muted() bool { return t.muted }

// Scene reads the current authoritative style of every path from the
// target, in registration order.
func (t *Timeline) Scene() ([]render.Entry, error) {
	out := make([]render.Entry, 0, t.reg.len())
	var err error
	t.reg.each(func(r *record) {
		if err != nil {
			return
		}
		st, serr := t.target.ComputedStyle(r.spec.ID)
		if serr != nil {
			err = fmt.Errorf("timeline: style of %s: %w", r.spec.ID, serr)
			return
		}
		out = append(out, render.Entry{ID: r.spec.ID, D: r.spec.D, Style: st})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
