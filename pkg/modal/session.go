// Package modal models the lifecycle of a detached edit flow: a sub-editor
// opens, the owner suspends, and the flow later resolves to exactly one of
// committed or cancelled. The session enforces the single-resolution
// invariant itself; a second resolution attempt is a programmer error and is
// rejected loudly.
package modal

import (
	"context"
	"errors"
	"sync"
)

// Status is the session state. Committed and cancelled are terminal.
type Status int

const (
	StatusPristine Status = iota
	StatusCommitted
	StatusCancelled
)

func (s Status) String() string {
	switch s {
	case StatusPristine:
		return "pristine"
	case StatusCommitted:
		return "committed"
	case StatusCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ErrAlreadyResolved is returned when Commit or Cancel is called on a
// session that already reached a terminal state.
var ErrAlreadyResolved = errors.New("modal: session already resolved")

// EditSession is the request/response channel between an owner that
// suspends and the sub-flow that resolves. Created pristine; transitions
// exactly once to committed or cancelled.
type EditSession[T any] struct {
	mu     sync.Mutex
	status Status
	value  T
	done   chan struct{}
}

// NewEditSession returns a pristine session.
func NewEditSession[T any]() *EditSession[T] {
	return &EditSession[T]{done: make(chan struct{})}
}

// Status returns the current state.
func (s *EditSession[T]) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Commit resolves the session with value. Returns ErrAlreadyResolved if the
// session is already terminal.
func (s *EditSession[T]) Commit(value T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPristine {
		return ErrAlreadyResolved
	}
	s.status = StatusCommitted
	s.value = value
	close(s.done)
	return nil
}

// Cancel resolves the session without a value. Returns ErrAlreadyResolved
// if the session is already terminal.
func (s *EditSession[T]) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPristine {
		return ErrAlreadyResolved
	}
	s.status = StatusCancelled
	close(s.done)
	return nil
}

// Resolve maps an optional value onto the terminal transition: non-nil
// commits, nil cancels. Convenient for flows whose API already produces
// "item or nil".
func (s *EditSession[T]) Resolve(value *T) error {
	if value == nil {
		return s.Cancel()
	}
	return s.Commit(*value)
}

// CancelIfPristine forces a terminal state when the environment dismisses
// the sub-flow without an explicit Done/Cancel action. Every dismissal path
// must call this (or Cancel) or a suspended owner would wait forever. It
// reports whether it performed the transition.
func (s *EditSession[T]) CancelIfPristine() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != StatusPristine {
		return false
	}
	s.status = StatusCancelled
	close(s.done)
	return true
}

// Await blocks until the session reaches a terminal state or ctx is done.
// On commit it returns the value and true; on cancellation the zero value
// and false. The ctx error is returned as-is when the wait is abandoned.
func (s *EditSession[T]) Await(ctx context.Context) (T, bool, error) {
	select {
	case <-s.done:
	case <-ctx.Done():
		var zero T
		return zero, false, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == StatusCommitted {
		return s.value, true, nil
	}
	var zero T
	return zero, false, nil
}
