package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/conduit/service"
)

// Logger is the interface for structured logging.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

// F creates a new Field with the given key and value.
func F(key string, value any) Field {
	return Field{Key: key, Value: value}
}

// Logging returns a layer that observes request and response traffic
// without altering it. Each readiness check emits a debug event, each
// submission an info event, and each resolution an info or error event
// carrying the call duration. The inner future is returned as-is, so
// results and timing pass through untouched.
func Logging[Req, Resp any](logger Logger) Layer[Req, Resp] {
	return func(inner service.Service[Req, Resp]) service.Service[Req, Resp] {
		return &loggingService[Req, Resp]{inner: inner, logger: logger}
	}
}

type loggingService[Req, Resp any] struct {
	inner  service.Service[Req, Resp]
	logger Logger
}

func (s *loggingService[Req, Resp]) Ready(ctx context.Context) error {
	err := s.inner.Ready(ctx)
	if err != nil {
		s.logger.Error("readiness check failed", F("error", err.Error()))
		return err
	}
	s.logger.Debug("service ready")
	return nil
}

func (s *loggingService[Req, Resp]) Call(ctx context.Context, req Req) *service.Future[Resp] {
	start := time.Now()

	fields := []Field{F("request", req)}
	if requestID := RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, F("request_id", requestID))
	}
	s.logger.Info("request submitted", fields...)

	fut := s.inner.Call(ctx, req)
	fut.OnDone(func(resp Resp, err error) {
		duration := time.Since(start)

		fields := []Field{F("duration", duration)}
		if requestID := RequestIDFromContext(ctx); requestID != "" {
			fields = append(fields, F("request_id", requestID))
		}

		if err != nil {
			fields = append(fields, F("error", err.Error()))
			s.logger.Error("request failed", fields...)
		} else {
			fields = append(fields, F("response", resp))
			s.logger.Info("request completed", fields...)
		}
	})
	return fut
}

// NopLogger is a logger that discards all log entries.
type NopLogger struct{}

func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
