// Package testutil provides fake services and a recording logger for
// testing conduit stacks.
//
// Example usage:
//
//	func TestMyLayer(t *testing.T) {
//	    svc := MyLayer()(testutil.Delay[string, string](50*time.Millisecond, "ok"))
//	    resp, err := service.Do(context.Background(), svc, "req")
//	    ...
//	}
package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/conduit/middleware"
	"github.com/felixgeelhaar/conduit/service"
)

// Echo returns an always-ready service that responds with its request.
func Echo[T any]() service.Service[T, T] {
	return service.ServiceFunc[T, T](func(_ context.Context, req T) (T, error) {
		return req, nil
	})
}

// Delay returns an always-ready service that resolves with resp after d.
// The delay is a plain sleep, so timeout layers racing it observe the
// abandon-not-cancel policy.
func Delay[Req, Resp any](d time.Duration, resp Resp) service.Service[Req, Resp] {
	return service.ServiceFunc[Req, Resp](func(_ context.Context, _ Req) (Resp, error) {
		time.Sleep(d)
		return resp, nil
	})
}

// Failing returns an always-ready service whose calls reject immediately
// with err.
func Failing[Req, Resp any](err error) service.Service[Req, Resp] {
	return service.ServiceFunc[Req, Resp](func(_ context.Context, _ Req) (Resp, error) {
		var zero Resp
		return zero, err
	})
}

// Faulted returns a service whose readiness check always reports the given
// permanent fault. Call rejects with the same error in case a misbehaving
// driver submits anyway.
func Faulted[Req, Resp any](err error) service.Service[Req, Resp] {
	return &faulted[Req, Resp]{err: err}
}

type faulted[Req, Resp any] struct {
	err error
}

func (s *faulted[Req, Resp]) Ready(_ context.Context) error {
	return s.err
}

func (s *faulted[Req, Resp]) Call(_ context.Context, _ Req) *service.Future[Resp] {
	return service.Rejected[Resp](s.err)
}

// Gate is a service that applies backpressure until opened. It is ready
// only after Open has been called; calls echo the request.
type Gate[T any] struct {
	open chan struct{}
	once sync.Once
}

// NewGate returns a closed gate.
func NewGate[T any]() *Gate[T] {
	return &Gate[T]{open: make(chan struct{})}
}

// Open releases the gate; all pending and future readiness checks succeed.
func (g *Gate[T]) Open() {
	g.once.Do(func() { close(g.open) })
}

// Ready blocks until the gate is opened or ctx is done.
func (g *Gate[T]) Ready(ctx context.Context) error {
	select {
	case <-g.open:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Call echoes the request.
func (g *Gate[T]) Call(_ context.Context, req T) *service.Future[T] {
	return service.Resolved(req)
}

// RecordingLogger is a middleware.Logger that captures entries for
// assertions. Safe for concurrent use; result events arrive from future
// completion goroutines.
type RecordingLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

// LogEntry is one captured log event.
type LogEntry struct {
	Level   string
	Message string
	Fields  []middleware.Field
}

func (l *RecordingLogger) append(level, msg string, fields []middleware.Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (l *RecordingLogger) Info(msg string, fields ...middleware.Field) {
	l.append("info", msg, fields)
}

func (l *RecordingLogger) Error(msg string, fields ...middleware.Field) {
	l.append("error", msg, fields)
}

func (l *RecordingLogger) Debug(msg string, fields ...middleware.Field) {
	l.append("debug", msg, fields)
}

func (l *RecordingLogger) Warn(msg string, fields ...middleware.Field) {
	l.append("warn", msg, fields)
}

// Entries returns a snapshot of the captured entries.
func (l *RecordingLogger) Entries() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]LogEntry(nil), l.entries...)
}

// Count returns how many captured entries carry the given message.
func (l *RecordingLogger) Count(msg string) int {
	n := 0
	for _, e := range l.Entries() {
		if e.Message == msg {
			n++
		}
	}
	return n
}

// WaitFor polls until an entry with the given message has been recorded,
// or the timeout passes. It reports whether the entry arrived.
func (l *RecordingLogger) WaitFor(msg string, timeout time.Duration) (LogEntry, bool) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		for _, e := range l.Entries() {
			if e.Message == msg {
				return e, true
			}
		}
		time.Sleep(time.Millisecond)
	}
	return LogEntry{}, false
}
