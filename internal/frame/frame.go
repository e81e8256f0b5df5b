// Package frame provides the "next animation frame" primitive that drives
// timelines.
//
// A Scheduler runs callbacks registered with RequestFrame once, on the next
// frame, passing a monotonically increasing timestamp in milliseconds.
// Callbacks that request another frame while running are queued for the
// following frame, never the current one. Several timelines may share a
// scheduler; they touch disjoint state and are dispatched in request order.
package frame

import "errors"

// ErrClosed is returned by a scheduler loop that has been shut down.
var ErrClosed = errors.New("frame: scheduler is closed")

// ID identifies a pending frame request. The zero ID is never issued.
type ID uint64

// Callback receives the frame timestamp in milliseconds.
type Callback func(now float64)

// Scheduler registers one-shot frame callbacks.
type Scheduler interface {
	RequestFrame(cb Callback) ID
	CancelFrame(id ID)
	Now() float64
}

// Executor runs fn on the goroutine that owns the timelines and waits for it
// to finish. Export pipelines use it as their yield point between steps.
type Executor interface {
	Do(fn func())
}

// queue is the pending-callback set shared by the scheduler implementations.
// Not safe for concurrent use on its own.
type queue struct {
	next    ID
	pending map[ID]Callback
	order   []ID
}

func newQueue() queue {
	return queue{pending: make(map[ID]Callback)}
}

func (q *queue) add(cb Callback) ID {
	q.next++
	id := q.next
	q.pending[id] = cb
	q.order = append(q.order, id)
	return id
}

func (q *queue) cancel(id ID) {
	delete(q.pending, id)
}

// batch returns the ids due on this frame in request order. Requests made
// after the call land in the next batch.
func (q *queue) batch() []ID {
	ids := make([]ID, len(q.order))
	copy(ids, q.order)
	q.order = q.order[:0]
	return ids
}

// pop removes a pending callback. ok is false when it was cancelled.
func (q *queue) pop(id ID) (cb Callback, ok bool) {
	cb, ok = q.pending[id]
	if ok {
		delete(q.pending, id)
	}
	return cb, ok
}

func (q *queue) len() int {
	return len(q.pending)
}
