// Package flow provides the bounded channel primitive that connects node
// runtimes. A Channel is a FIFO queue of a single value type with blocking
// Put/Get, an idempotent Close, and context-aware cancellation. A full channel
// blocks its producer until the consumer drains capacity; this is the
// engine's backpressure mechanism.
package flow

import (
	"context"
	"sync"
)

// Closer is the part of a channel a runtime needs to shut down outputs it
// owns without knowing their value type.
type Closer interface {
	Close()
}

// Channel is a bounded FIFO queue connecting one producer to one consumer.
// Capacity 0 makes every Put a direct hand-off to a waiting Get; capacity
// N>0 lets the producer run up to N values ahead of the consumer before
// blocking. Values buffered at Close time remain receivable; Get reports
// ErrChannelClosed only once the channel is closed and drained.
type Channel[T any] struct {
	ch        chan T
	done      chan struct{}
	closeOnce sync.Once
}

// NewChannel creates a channel with the given capacity.
// Returns ErrInvalidCapacity if capacity is negative.
func NewChannel[T any](capacity int) (*Channel[T], error) {
	if capacity < 0 {
		return nil, ErrInvalidCapacity
	}
	return &Channel[T]{
		ch:   make(chan T, capacity),
		done: make(chan struct{}),
	}, nil
}

// MustChannel creates a channel and panics on invalid capacity.
// Intended for graph-construction code where the capacity is a constant.
func MustChannel[T any](capacity int) *Channel[T] {
	c, err := NewChannel[T](capacity)
	if err != nil {
		panic(err)
	}
	return c
}

// Put appends a value, blocking while the channel is full. It returns
// ErrChannelClosed if the channel is closed, or ctx.Err() if the context is
// cancelled while waiting.
func (c *Channel[T]) Put(ctx context.Context, v T) error {
	// Fail fast when already closed so a sequential Put after Close is
	// deterministic rather than racing the buffer.
	select {
	case <-c.done:
		return ErrChannelClosed
	default:
	}

	select {
	case c.ch <- v:
		return nil
	case <-c.done:
		return ErrChannelClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get removes and returns the oldest value, blocking while the channel is
// empty. Once the channel is closed and drained it returns ErrChannelClosed.
// A cancelled context unblocks the caller with ctx.Err().
func (c *Channel[T]) Get(ctx context.Context) (T, error) {
	var zero T
	select {
	case v := <-c.ch:
		return v, nil
	case <-c.done:
		// Closed, but buffered values are still deliverable.
		select {
		case v := <-c.ch:
			return v, nil
		default:
			return zero, ErrChannelClosed
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close marks the channel closed. It is idempotent. Waiting producers and
// consumers unblock with ErrChannelClosed; buffered values remain
// receivable until drained.
func (c *Channel[T]) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
	})
}

// IsClosed reports whether Close has been called.
func (c *Channel[T]) IsClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

// Len returns the number of buffered values.
func (c *Channel[T]) Len() int {
	return len(c.ch)
}

// Cap returns the channel capacity.
func (c *Channel[T]) Cap() int {
	return cap(c.ch)
}
