// Package latest provides a single-slot, latest-wins hand-off between one
// producer and one consumer.
//
// A Publish overwrites whatever is pending; a take drains it. A burst of
// publishes before a take delivers only the last value, which is what a
// display wants when fixes arrive faster than it refreshes.
package latest

import (
	"context"
	"sync"
)

// Slot holds at most one pending value. The zero value is not usable; call
// New.
type Slot[T any] struct {
	mu      sync.Mutex
	value   T
	pending bool

	// notify carries at most one wake-up token for WaitTake.
	notify chan struct{}
}

func New[T any]() *Slot[T] {
	return &Slot[T]{notify: make(chan struct{}, 1)}
}

// Publish replaces any pending value with v. It never blocks.
func (s *Slot[T]) Publish(v T) {
	s.mu.Lock()
	s.value = v
	s.pending = true
	s.mu.Unlock()

	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// TryTake returns the pending value and clears it, or reports false when
// nothing new has been published since the last take.
func (s *Slot[T]) TryTake() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.pending {
		var zero T
		return zero, false
	}
	v := s.value
	s.pending = false
	var zero T
	s.value = zero
	return v, true
}

// WaitTake blocks until a value is pending, then takes it. It returns
// ctx.Err() if ctx ends first.
func (s *Slot[T]) WaitTake(ctx context.Context) (T, error) {
	for {
		if v, ok := s.TryTake(); ok {
			return v, nil
		}
		select {
		case <-s.notify:
			// The token may be stale if TryTake already drained the value;
			// loop and check again.
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		}
	}
}

// Pending reports whether a value is waiting to be taken.
func (s *Slot[T]) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}
