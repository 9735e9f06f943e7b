package promise

import (
	"context"
	"sync"
)

// Future is the read side of a one-shot result. It is resolved at most once
// and stays resolved forever.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Promise is the write side. Splitting the two halves means only the party
// holding the Promise can resolve it, and sync.Once makes the resolution
// exactly-once structurally rather than by convention.
type Promise[T any] struct {
	once sync.Once
	f    *Future[T]
}

// New creates a linked Promise/Future pair.
func New[T any]() (*Promise[T], *Future[T]) {
	f := &Future[T]{done: make(chan struct{})}
	return &Promise[T]{f: f}, f
}

// Complete resolves the future successfully. Later resolution attempts are
// no-ops.
func (p *Promise[T]) Complete(val T) {
	p.once.Do(func() {
		p.f.val = val
		close(p.f.done)
	})
}

// Fail resolves the future with a cause. Later resolution attempts are no-ops.
func (p *Promise[T]) Fail(err error) {
	p.once.Do(func() {
		p.f.err = err
		close(p.f.done)
	})
}

// Done is closed once the future is resolved.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Err returns the failure cause, or nil for success. Only valid after Done
// is closed.
func (f *Future[T]) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Value returns the success value. Only valid after Done is closed.
func (f *Future[T]) Value() T {
	return f.val
}

// Wait blocks until the future resolves or the context is cancelled.
// A context error does not resolve the future; the caller may wait again.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}
