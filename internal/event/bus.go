// Package event is an unbounded multi-producer single-consumer queue used by
// tools to publish entity lifecycle events to the view port.
package event

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Wait once the sender is closed and every queued
// event has been taken, and by Send after Close.
var ErrClosed = errors.New("event: bus closed")

type queue[E any] struct {
	mu     sync.Mutex
	items  []E
	closed bool
	notify chan struct{}
}

// Sender is the producing end. It is safe for concurrent use.
type Sender[E any] struct {
	q *queue[E]
}

// Receiver is the consuming end. Only one goroutine should receive.
type Receiver[E any] struct {
	q *queue[E]
}

// New returns the two ends of a fresh bus.
func New[E any]() (*Sender[E], *Receiver[E]) {
	q := &queue[E]{notify: make(chan struct{}, 1)}
	return &Sender[E]{q: q}, &Receiver[E]{q: q}
}

// Send enqueues e. It never blocks.
func (s *Sender[E]) Send(e E) error {
	q := s.q
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, e)
	// notify is closed by Close under the same lock
	select {
	case q.notify <- struct{}{}:
	default:
	}
	q.mu.Unlock()
	return nil
}

// Close stops accepting events. Events already queued are still delivered.
// Closing twice is a no-op.
func (s *Sender[E]) Close() {
	q := s.q
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	close(q.notify)
}

// TryRecv returns the next event without blocking.
func (r *Receiver[E]) TryRecv() (E, bool) {
	q := r.q
	q.mu.Lock()
	defer q.mu.Unlock()
	var zero E
	if len(q.items) == 0 {
		return zero, false
	}
	e := q.items[0]
	q.items[0] = zero
	q.items = q.items[1:]
	return e, true
}

// Wait blocks until an event is queued, without taking it. It returns
// ErrClosed once the sender is closed and the bus is empty.
func (r *Receiver[E]) Wait(ctx context.Context) error {
	q := r.q
	for {
		q.mu.Lock()
		ready, closed := len(q.items) > 0, q.closed
		q.mu.Unlock()
		switch {
		case ready:
			return nil
		case closed:
			return ErrClosed
		}
		select {
		case <-q.notify:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
