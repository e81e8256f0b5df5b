package timeline

import (
	"fmt"

	"github.com/ivlev/sig2gif/internal/easing"
	"github.com/ivlev/sig2gif/internal/logging"
)

// PathHandle controls one registered path independently of the global
// state. A path paused through its handle is skipped by timeline frames
// until it is played or reset.
type PathHandle struct {
	t  *Timeline
	id string
}

// Path returns the handle for a registered path.
func (t *Timeline) Path(id string) (*PathHandle, error) {
	if _, ok := t.reg.get(id); !ok {
		return nil, fmt.Errorf("%w: %s", ErrPathNotFound, id)
	}
	return &PathHandle{t: t, id: id}, nil
}

func (h *PathHandle) record() (*record, bool) {
	r, ok := h.t.reg.get(h.id)
	if !ok {
		logging.Logger().Debug("timeline: handle for unregistered path", "path", h.id)
	}
	return r, ok
}

// ID returns the path id.
func (h *PathHandle) ID() string { return h.id }

// Play draws the path on its own frame loop from its current progress, or
// from the start when it already completed.
func (h *PathHandle) Play() {
	r, ok := h.record()
	if !ok || r.isPlaying {
		return
	}
	r.isPaused = false
	if r.progress >= 1 {
		r.resetFlags()
		r.progress = 0
	}
	r.isPlaying = true
	r.startTime = h.t.sched.Now() - r.progress*r.spec.Duration/h.t.speed
	h.t.scheduleLocal(r)
}

// Pause freezes the path at its current progress.
func (h *PathHandle) Pause() {
	r, ok := h.record()
	if !ok {
		return
	}
	h.t.stopLocal(r)
	r.isPaused = true
}

// Reset hides the path again and hands it back to the timeline.
func (h *PathHandle) Reset() {
	r, ok := h.record()
	if !ok {
		return
	}
	h.t.stopLocal(r)
	r.isPaused = false
	r.resetFlags()
	r.progress = 0
	h.t.updateVisual(r)
}

// Seek sets the path's local progress, clamped to [0, 1].
func (h *PathHandle) Seek(p float64) {
	r, ok := h.record()
	if !ok {
		return
	}
	r.progress = easing.Clamp01(p)
	if r.isPlaying {
		r.startTime = h.t.sched.Now() - r.progress*r.spec.Duration/h.t.speed
	}
	h.t.updateVisual(r)
}

func (h *PathHandle) Progress() float64 {
	r, ok := h.record()
	if !ok {
		return 0
	}
	return r.progress
}

// Info returns a snapshot of the path.
func (h *PathHandle) Info() (PathInfo, error) {
	r, ok := h.t.reg.get(h.id)
	if !ok {
		return PathInfo{}, fmt.Errorf("%w: %s", ErrPathNotFound, h.id)
	}
	return r.info(), nil
}

func (h *PathHandle) IsPlaying() bool {
	r, ok := h.record()
	return ok && r.isPlaying
}

func (h *PathHandle) IsPaused() bool {
	r, ok := h.record()
	return ok && r.isPaused
}

func (h *PathHandle) HasStarted() bool {
	r, ok := h.record()
	return ok && r.hasStarted
}

func (h *PathHandle) HasCompleted() bool {
	r, ok := h.record()
	return ok && r.hasCompleted
}

func (t *Timeline) scheduleLocal(r *record) {
	if r.scheduled {
		return
	}
	r.frameID = t.sched.RequestFrame(func(now float64) { t.tickLocal(r, now) })
	r.scheduled = true
}

func (t *Timeline) stopLocal(r *record) {
	if r.scheduled {
		t.sched.CancelFrame(r.frameID)
		r.scheduled = false
	}
	r.isPlaying = false
}

func (t *Timeline) tickLocal(r *record, now float64) {
	r.scheduled = false
	if !r.isPlaying {
		return
	}
	if r.spec.Duration <= 0 {
		r.progress = 1
	} else {
		r.progress = easing.Clamp01((now - r.startTime) * t.speed / r.spec.Duration)
	}
	t.updateVisual(r)
	if r.progress < 1 {
		t.scheduleLocal(r)
		return
	}
	r.isPlaying = false
}
