package frame

// Manual is a deterministic scheduler whose clock only moves when told to.
// Tests and the terminal player drive it explicitly. Not safe for concurrent
// use; all calls belong on one goroutine.
type Manual struct {
	now float64
	q   queue
}

// NewManual returns a scheduler whose clock starts at start milliseconds.
func NewManual(start float64) *Manual {
	return &Manual{now: start, q: newQueue()}
}

// Now returns the current clock value in milliseconds.
func (m *Manual) Now() float64 { return m.now }

// RequestFrame queues cb for the next Step.
func (m *Manual) RequestFrame(cb Callback) ID { return m.q.add(cb) }

// CancelFrame drops a pending request. Unknown ids are ignored.
func (m *Manual) CancelFrame(id ID) { m.q.cancel(id) }

// Pending returns the number of queued callbacks.
func (m *Manual) Pending() int { return m.q.len() }

// Step sets the clock to now (never backwards) and runs one frame.
// It returns the number of callbacks that ran.
func (m *Manual) Step(now float64) int {
	if now > m.now {
		m.now = now
	}
	ran := 0
	for _, id := range m.q.batch() {
		cb, ok := m.q.pop(id)
		if !ok {
			continue
		}
		cb(m.now)
		ran++
	}
	return ran
}

// Advance moves the clock forward by dt milliseconds and runs one frame.
func (m *Manual) Advance(dt float64) int {
	return m.Step(m.now + dt)
}

// RunFor steps the clock in increments of dt until total milliseconds have
// passed or nothing is pending.
func (m *Manual) RunFor(total, dt float64) {
	if dt <= 0 {
		return
	}
	end := m.now + total
	for m.now < end && m.q.len() > 0 {
		next := m.now + dt
		if next > end {
			next = end
		}
		m.Step(next)
	}
}

// Do runs fn immediately; a Manual scheduler is always on the owning
// goroutine.
func (m *Manual) Do(fn func()) { fn() }
