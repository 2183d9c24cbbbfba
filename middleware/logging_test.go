package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/felixgeelhaar/conduit/service"
)

// mockLogger captures log calls for testing. Result events arrive from the
// future's completion goroutine, so access is mutex-protected.
type mockLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

type logEntry struct {
	level   string
	message string
	fields  []Field
}

func (l *mockLogger) append(level, msg string, fields []Field) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level: level, message: msg, fields: fields})
}

func (l *mockLogger) Info(msg string, fields ...Field)  { l.append("info", msg, fields) }
func (l *mockLogger) Error(msg string, fields ...Field) { l.append("error", msg, fields) }
func (l *mockLogger) Debug(msg string, fields ...Field) { l.append("debug", msg, fields) }
func (l *mockLogger) Warn(msg string, fields ...Field)  { l.append("warn", msg, fields) }

func (l *mockLogger) snapshot() []logEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]logEntry(nil), l.entries...)
}

// waitForMessage polls until the logger has recorded msg or the deadline passes.
func (l *mockLogger) waitForMessage(t *testing.T, msg string) logEntry {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		for _, e := range l.snapshot() {
			if e.message == msg {
				return e
			}
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("log message %q never recorded; entries: %+v", msg, l.snapshot())
	return logEntry{}
}

func (l *mockLogger) countMessage(msg string) int {
	n := 0
	for _, e := range l.snapshot() {
		if e.message == msg {
			n++
		}
	}
	return n
}

func TestLogging(t *testing.T) {
	t.Run("logs submission and completion of successful requests", func(t *testing.T) {
		logger := &mockLogger{}

		svc := Logging[string, string](logger)(echoService())
		v, err := service.Do(context.Background(), svc, "payload")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "payload" {
			t.Errorf("value = %q, want %q", v, "payload")
		}

		entry := logger.waitForMessage(t, "request submitted")
		hasRequest := false
		for _, f := range entry.fields {
			if f.Key == "request" && f.Value == "payload" {
				hasRequest = true
			}
		}
		if !hasRequest {
			t.Error("expected 'request' field on the submission event")
		}

		entry = logger.waitForMessage(t, "request completed")
		if entry.level != "info" {
			t.Errorf("level = %q, want %q", entry.level, "info")
		}
		hasDuration := false
		for _, f := range entry.fields {
			if f.Key == "duration" {
				if _, ok := f.Value.(time.Duration); ok {
					hasDuration = true
				}
			}
		}
		if !hasDuration {
			t.Error("expected 'duration' field on the completion event")
		}
	})

	t.Run("logs failures at error level", func(t *testing.T) {
		logger := &mockLogger{}
		domainErr := errors.New("handler failed")

		inner := service.ServiceFunc[string, string](func(ctx context.Context, req string) (string, error) {
			return "", domainErr
		})

		svc := Logging[string, string](logger)(inner)
		_, err := service.Do(context.Background(), svc, "payload")
		if !errors.Is(err, domainErr) {
			t.Fatalf("error = %v, want the inner domain error", err)
		}

		entry := logger.waitForMessage(t, "request failed")
		if entry.level != "error" {
			t.Errorf("level = %q, want %q", entry.level, "error")
		}

		if got := logger.countMessage("request submitted"); got != 1 {
			t.Errorf("request events = %d, want 1", got)
		}
		if got := logger.countMessage("request failed"); got != 1 {
			t.Errorf("error events = %d, want 1", got)
		}
	})

	t.Run("is transparent to values and errors", func(t *testing.T) {
		inner := echoService()
		bare, bareErr := service.Do(context.Background(), inner, "same input")

		svc := Logging[string, string](&mockLogger{})(echoService())
		wrapped, wrappedErr := service.Do(context.Background(), svc, "same input")

		if wrapped != bare {
			t.Errorf("wrapped value = %q, bare value = %q; want identical", wrapped, bare)
		}
		if !errors.Is(wrappedErr, bareErr) {
			t.Errorf("wrapped error = %v, bare error = %v; want identical", wrappedErr, bareErr)
		}
	})

	t.Run("observes readiness checks", func(t *testing.T) {
		logger := &mockLogger{}

		svc := Logging[string, string](logger)(echoService())
		if err := svc.Ready(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if got := logger.countMessage("service ready"); got != 1 {
			t.Errorf("readiness events = %d, want 1", got)
		}
	})

	t.Run("observes readiness faults", func(t *testing.T) {
		logger := &mockLogger{}
		fault := service.NewUnavailable("connection broken")

		svc := Logging[string, string](logger)(&readyFault{err: fault})
		if err := svc.Ready(context.Background()); !errors.Is(err, fault) {
			t.Fatalf("Ready() = %v, want the fault", err)
		}

		entry := logger.waitForMessage(t, "readiness check failed")
		if entry.level != "error" {
			t.Errorf("level = %q, want %q", entry.level, "error")
		}
	})

	t.Run("includes request id when present", func(t *testing.T) {
		logger := &mockLogger{}

		svc := Chain(
			RequestIDWithGenerator[string, string](func() string { return "fixed-id" }),
			Logging[string, string](logger),
		)(echoService())

		if _, err := service.Do(context.Background(), svc, "req"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		entry := logger.waitForMessage(t, "request submitted")
		found := false
		for _, f := range entry.fields {
			if f.Key == "request_id" && f.Value == "fixed-id" {
				found = true
			}
		}
		if !found {
			t.Error("expected 'request_id' field on the submission event")
		}
	})
}
