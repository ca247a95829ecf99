// Package queue provides a bounded in-memory buffer between the collector
// and the storage consumers.
package queue

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"zabbix-bridge/internal/schema"
)

var (
	// ErrFull is returned when pushing to a buffer at capacity.
	ErrFull = errors.New("queue: buffer full")
	// ErrEmpty is returned when popping from an empty buffer.
	ErrEmpty = errors.New("queue: buffer empty")
	// ErrClosed is returned when using a closed buffer.
	ErrClosed = errors.New("queue: buffer closed")
)

// RingBuffer is a fixed-capacity circular event buffer safe for concurrent
// producers and consumers. A full buffer rejects new events rather than
// overwriting old ones.
type RingBuffer struct {
	mu     sync.Mutex
	cond   *sync.Cond
	events []*schema.Event
	head   int
	tail   int
	count  int
	closed bool

	pushed  atomic.Uint64
	popped  atomic.Uint64
	dropped atomic.Uint64
}

// NewRingBuffer creates a buffer with the given capacity.
func NewRingBuffer(capacity int) *RingBuffer {
	if capacity <= 0 {
		capacity = 10000
	}
	rb := &RingBuffer{events: make([]*schema.Event, capacity)}
	rb.cond = sync.NewCond(&rb.mu)
	return rb
}

// Push adds an event. Returns ErrFull when the buffer is at capacity and
// ErrClosed after Close.
func (rb *RingBuffer) Push(event *schema.Event) error {
	rb.mu.Lock()
	defer rb.mu.Unlock()

	if rb.closed {
		return ErrClosed
	}
	if rb.count == len(rb.events) {
		rb.dropped.Add(1)
		return ErrFull
	}

	rb.events[rb.tail] = event
	rb.tail = (rb.tail + 1) % len(rb.events)
	rb.count++
	rb.pushed.Add(1)
	rb.cond.Signal()
	return nil
}

// Pop removes and returns the oldest event without blocking.
func (rb *RingBuffer) Pop() (*schema.Event, error) {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.popLocked()
}

// PopWithTimeout removes and returns the oldest event, waiting up to the
// timeout for one to arrive. Returns ErrEmpty on timeout and ErrClosed once
// the buffer is closed and drained.
func (rb *RingBuffer) PopWithTimeout(timeout time.Duration) (*schema.Event, error) {
	deadline := time.Now().Add(timeout)

	rb.mu.Lock()
	defer rb.mu.Unlock()

	for rb.count == 0 && !rb.closed {
		if time.Now().After(deadline) {
			return nil, ErrEmpty
		}
		// Wake the wait when the deadline passes; cond has no native
		// deadline support.
		timer := time.AfterFunc(time.Until(deadline), func() {
			rb.mu.Lock()
			rb.cond.Broadcast()
			rb.mu.Unlock()
		})
		rb.cond.Wait()
		timer.Stop()
	}
	return rb.popLocked()
}

func (rb *RingBuffer) popLocked() (*schema.Event, error) {
	if rb.count == 0 {
		if rb.closed {
			return nil, ErrClosed
		}
		return nil, ErrEmpty
	}
	event := rb.events[rb.head]
	rb.events[rb.head] = nil
	rb.head = (rb.head + 1) % len(rb.events)
	rb.count--
	rb.popped.Add(1)
	return event, nil
}

// Close marks the buffer closed and wakes all waiting consumers. Events
// already buffered can still be popped.
func (rb *RingBuffer) Close() {
	rb.mu.Lock()
	rb.closed = true
	rb.mu.Unlock()
	rb.cond.Broadcast()
}

// Len returns the number of buffered events.
func (rb *RingBuffer) Len() int {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	return rb.count
}

// Cap returns the buffer capacity.
func (rb *RingBuffer) Cap() int {
	return len(rb.events)
}

// Metrics returns counters for the buffer's lifetime.
func (rb *RingBuffer) Metrics() Metrics {
	return Metrics{
		Pushed:   rb.pushed.Load(),
		Popped:   rb.popped.Load(),
		Dropped:  rb.dropped.Load(),
		Depth:    rb.Len(),
		Capacity: rb.Cap(),
	}
}

// Metrics holds buffer statistics.
type Metrics struct {
	Pushed   uint64 `json:"pushed"`
	Popped   uint64 `json:"popped"`
	Dropped  uint64 `json:"dropped"`
	Depth    int    `json:"depth"`
	Capacity int    `json:"capacity"`
}
