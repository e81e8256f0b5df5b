package frame

import (
	"context"
	"sync"
	"time"
)

// DefaultFPS is the refresh rate used when NewLoop gets a non-positive rate.
const DefaultFPS = 60

// Loop is a real-time scheduler. Run dispatches pending callbacks on every
// tick of a ticker and executes work posted through Do in between, so
// timelines and the code poking at them share one goroutine.
type Loop struct {
	interval time.Duration
	epoch    time.Time

	mu     sync.Mutex
	q      queue
	closed bool

	// exec is held while the loop goroutine runs callbacks or tasks.
	exec sync.Mutex

	tasks chan func()
	done  chan struct{}
}

// NewLoop creates a loop ticking fps times per second.
func NewLoop(fps int) *Loop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	return &Loop{
		interval: time.Second / time.Duration(fps),
		epoch:    time.Now(),
		q:        newQueue(),
		tasks:    make(chan func()),
		done:     make(chan struct{}),
	}
}

// Now returns milliseconds elapsed since the loop was created.
func (l *Loop) Now() float64 {
	return float64(time.Since(l.epoch)) / float64(time.Millisecond)
}

// RequestFrame queues cb for the next tick. Safe from any goroutine.
func (l *Loop) RequestFrame(cb Callback) ID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.q.add(cb)
}

// CancelFrame drops a pending request. Safe from any goroutine.
func (l *Loop) CancelFrame(id ID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.q.cancel(id)
}

// Pending returns the number of queued callbacks.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.q.len()
}

// Run drives the loop until ctx is done or Close is called. A loop runs at
// most once; it is closed when Run returns.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return ErrClosed
	}
	l.mu.Unlock()

	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			l.exec.Lock()
			fn()
			l.exec.Unlock()
		case <-ticker.C:
			l.exec.Lock()
			l.dispatch()
			l.exec.Unlock()
		}
	}
}

func (l *Loop) dispatch() {
	now := l.Now()
	l.mu.Lock()
	ids := l.q.batch()
	l.mu.Unlock()

	for _, id := range ids {
		l.mu.Lock()
		cb, ok := l.q.pop(id)
		l.mu.Unlock()
		if ok {
			cb(now)
		}
	}
}

// Do runs fn on the loop goroutine and waits for it. Called before Run
// starts, Do blocks until Run picks fn up. Once the loop is closed fn runs on
// the caller's goroutine, after any callback still in flight. Do must not be
// called from the loop goroutine.
func (l *Loop) Do(fn func()) {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}
	select {
	case l.tasks <- task:
		<-finished
	case <-l.done:
		l.exec.Lock()
		defer l.exec.Unlock()
		fn()
	}
}

// Close stops Run. Safe to call more than once.
func (l *Loop) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil
	}
	l.closed = true
	close(l.done)
	return nil
}
