package timeline

import (
	"github.com/ivlev/sig2gif/internal/easing"
	"github.com/ivlev/sig2gif/internal/frame"
)

// Jitter adds a noise-driven positional wobble to a stroke while it draws.
type Jitter struct {
	Amplitude float64
	Frequency float64
	Seed      int64
}

// PathSpec describes a path to register. Zero values fall back to the
// timeline defaults.
type PathSpec struct {
	ID          string
	D           string
	Duration    float64 // ms
	Delay       float64 // ms from timeline start
	Color       string
	StrokeWidth float64
	Jitter      *Jitter
	// Easing overrides the timeline easing; nil inherits it.
	Easing easing.Func

	OnDrawStart    func()
	OnDrawFrame    func(progress float64)
	OnDrawComplete func()
}

// PathInfo is a read-only snapshot of a registered path.
type PathInfo struct {
	ID           string
	D            string
	Length       float64
	Duration     float64
	Delay        float64
	Color        string
	StrokeWidth  float64
	Progress     float64
	HasStarted   bool
	HasCompleted bool
	IsPlaying    bool
	IsPaused     bool
}

// record is the runtime state of one registered path. Only the owning
// Timeline and its PathHandles touch it.
type record struct {
	spec   PathSpec
	length float64

	noiseX, noiseY func(float64) float64

	progress     float64
	hasStarted   bool
	hasCompleted bool
	isPlaying    bool
	isPaused     bool

	// path-local loop started through PathHandle.Play
	frameID   frame.ID
	scheduled bool
	startTime float64
}

func (r *record) info() PathInfo {
	return PathInfo{
		ID:           r.spec.ID,
		D:            r.spec.D,
		Length:       r.length,
		Duration:     r.spec.Duration,
		Delay:        r.spec.Delay,
		Color:        r.spec.Color,
		StrokeWidth:  r.spec.StrokeWidth,
		Progress:     r.progress,
		HasStarted:   r.hasStarted,
		HasCompleted: r.hasCompleted,
		IsPlaying:    r.isPlaying,
		IsPaused:     r.isPaused,
	}
}

func (r *record) resetFlags() {
	r.hasStarted = false
	r.hasCompleted = false
}

// localProgress maps global timeline progress onto this path's window.
func (r *record) localProgress(global, total float64) float64 {
	elapsed := global*total - r.spec.Delay
	if r.spec.Duration <= 0 {
		if elapsed >= 0 && global > 0 {
			return 1
		}
		return 0
	}
	return easing.Clamp01(elapsed / r.spec.Duration)
}

// registry is an ordered id → record map.
type registry struct {
	order   []string
	records map[string]*record
}

func newRegistry() *registry {
	return &registry{records: make(map[string]*record)}
}

func (g *registry) get(id string) (*record, bool) {
	r, ok := g.records[id]
	return r, ok
}

func (g *registry) add(r *record) {
	g.order = append(g.order, r.spec.ID)
	g.records[r.spec.ID] = r
}

func (g *registry) remove(id string) (*record, bool) {
	r, ok := g.records[id]
	if !ok {
		return nil, false
	}
	delete(g.records, id)
	for i, v := range g.order {
		if v == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	return r, true
}

func (g *registry) len() int { return len(g.order) }

// each visits records in registration order.
func (g *registry) each(fn func(*record)) {
	for _, id := range g.order {
		fn(g.records[id])
	}
}

// totalDuration is the longest delay+duration, never below floor.
func (g *registry) totalDuration(floor float64) float64 {
	total := 0.0
	for _, r := range g.records {
		if end := r.spec.Delay + r.spec.Duration; end > total {
			total = end
		}
	}
	if total < floor {
		total = floor
	}
	return total
}
