package service

import (
	"context"
	"sync"
)

// Future is the handle to an in-flight call. It is completed exactly once,
// by whichever of Resolve or Reject runs first; later completions are
// ignored. Callers can wait synchronously with Wait, poll without blocking
// with Poll, select on Done, or register a callback with OnDone.
type Future[T any] struct {
	ch    chan struct{} // closed when the result is available
	value T
	err   error

	once sync.Once
	mu   sync.Mutex
}

// NewFuture allocates a pending future. The producer side completes it with
// Resolve or Reject; everything else is the consumer side.
func NewFuture[T any]() *Future[T] {
	return &Future[T]{ch: make(chan struct{})}
}

// Resolved returns a future that is already completed with the given value.
func Resolved[T any](v T) *Future[T] {
	f := NewFuture[T]()
	f.Resolve(v)
	return f
}

// Rejected returns a future that is already completed with the given error.
func Rejected[T any](err error) *Future[T] {
	f := NewFuture[T]()
	f.Reject(err)
	return f
}

// Resolve completes the future with a value. The first completion wins;
// duplicate or late completions are ignored.
func (f *Future[T]) Resolve(v T) {
	f.complete(v, nil)
}

// Reject completes the future with an error. The first completion wins;
// duplicate or late completions are ignored.
func (f *Future[T]) Reject(err error) {
	var zero T
	f.complete(zero, err)
}

func (f *Future[T]) complete(v T, err error) {
	f.once.Do(func() {
		f.mu.Lock()
		f.value = v
		f.err = err
		f.mu.Unlock()
		close(f.ch)
	})
}

// Done returns a channel that is closed when the result is available,
// for integration with select-based waiting.
func (f *Future[T]) Done() <-chan struct{} {
	return f.ch
}

// Poll reports the result without blocking. The boolean is false while the
// future is still pending.
func (f *Future[T]) Poll() (T, error, bool) {
	select {
	case <-f.ch:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err, true
	default:
		var zero T
		return zero, nil, false
	}
}

// Wait blocks until the future completes or ctx is done. If ctx wins, the
// future is abandoned (its producer keeps running and its eventual result
// is discarded) and ctx.Err() is returned.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.ch:
		f.mu.Lock()
		defer f.mu.Unlock()
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// OnDone registers a callback invoked on its own goroutine once the future
// completes. If the future is already complete, the callback runs
// immediately in a new goroutine.
func (f *Future[T]) OnDone(cb func(T, error)) {
	go func() {
		<-f.ch
		f.mu.Lock()
		v, err := f.value, f.err
		f.mu.Unlock()
		cb(v, err)
	}()
}
