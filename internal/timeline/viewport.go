package timeline

import (
	"github.com/ivlev/sig2gif/internal/config"
	"github.com/ivlev/sig2gif/internal/frame"
)

// Viewport actions.
const (
	ActionPlay    = "play"
	ActionRestart = "restart"
	ActionPause   = "pause"
	ActionReset   = "reset"
	ActionNone    = "none"
)

// ViewportOptions configures a Viewport trigger.
type ViewportOptions struct {
	// Threshold is the visible fraction at which the animation counts as
	// on screen. Zero means any visible part.
	Threshold float64
	Enter     string
	Leave     string
	// Once disconnects the trigger after the first enter action.
	Once bool
	// Delay postpones the enter action, in milliseconds.
	Delay float64
}

// ViewportFromConfig converts the shared configuration.
func ViewportFromConfig(c config.Viewport) ViewportOptions {
	return ViewportOptions{
		Threshold: c.Threshold,
		Enter:     c.Enter,
		Leave:     c.Leave,
		Once:      c.Once,
		Delay:     c.Delay,
	}
}

// Viewport starts and stops a timeline as its visible fraction crosses a
// threshold. Call Observe whenever the host reports a new fraction.
type Viewport struct {
	t    *Timeline
	opts ViewportOptions

	visible      bool
	disconnected bool

	due       float64
	pendingID frame.ID
	pending   bool
}

// NewViewport attaches a trigger to t.
func NewViewport(t *Timeline, opts ViewportOptions) *Viewport {
	if opts.Enter == "" {
		opts.Enter = ActionPlay
	}
	if opts.Leave == "" {
		opts.Leave = ActionNone
	}
	return &Viewport{t: t, opts: opts}
}

// Visible reports the last observed visibility.
func (v *Viewport) Visible() bool { return v.visible }

// Observe feeds the visible fraction of the animation, in [0, 1].
func (v *Viewport) Observe(ratio float64) {
	if v.disconnected {
		return
	}
	visible := ratio > 0 && ratio >= v.opts.Threshold
	if visible == v.visible {
		return
	}
	v.visible = visible

	if visible {
		if v.opts.Delay <= 0 {
			v.enter()
			return
		}
		v.due = v.t.sched.Now() + v.opts.Delay
		v.wait()
		return
	}

	v.cancelPending()
	switch v.opts.Leave {
	case ActionPause:
		v.t.Pause()
	case ActionReset:
		v.t.Reset()
	}
}

// Disconnect stops reacting to Observe and drops a pending enter action.
func (v *Viewport) Disconnect() {
	v.cancelPending()
	v.disconnected = true
}

func (v *Viewport) wait() {
	v.pendingID = v.t.sched.RequestFrame(func(now float64) {
		v.pending = false
		if now < v.due {
			v.wait()
			return
		}
		v.enter()
	})
	v.pending = true
}

func (v *Viewport) cancelPending() {
	if v.pending {
		v.t.sched.CancelFrame(v.pendingID)
		v.pending = false
	}
}

func (v *Viewport) enter() {
	switch v.opts.Enter {
	case ActionPlay:
		v.t.Play()
	case ActionRestart:
		v.t.Reset()
		v.t.Play()
	}
	if v.opts.Once {
		v.Disconnect()
	}
}
