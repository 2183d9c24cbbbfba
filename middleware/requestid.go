package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/felixgeelhaar/conduit/service"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const requestIDKey contextKey = "requestID"

// RequestID returns a layer that injects a unique request ID into the
// context before the request reaches the inner service. If a request ID
// already exists in the context, it is preserved.
func RequestID[Req, Resp any]() Layer[Req, Resp] {
	return RequestIDWithGenerator[Req, Resp](generateID)
}

// RequestIDWithGenerator returns a request ID layer with a custom generator.
func RequestIDWithGenerator[Req, Resp any](generator func() string) Layer[Req, Resp] {
	return func(inner service.Service[Req, Resp]) service.Service[Req, Resp] {
		return &requestIDService[Req, Resp]{inner: inner, generate: generator}
	}
}

type requestIDService[Req, Resp any] struct {
	inner    service.Service[Req, Resp]
	generate func() string
}

func (s *requestIDService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

func (s *requestIDService[Req, Resp]) Call(ctx context.Context, req Req) *service.Future[Resp] {
	if existing := RequestIDFromContext(ctx); existing == "" {
		ctx = ContextWithRequestID(ctx, s.generate())
	}
	return s.inner.Call(ctx, req)
}

// RequestIDFromContext returns the request ID from the context, or empty string if not set.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// ContextWithRequestID returns a new context with the request ID set.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// generateID generates a random request ID.
// Uses crypto/rand for better uniqueness than time-based IDs.
func generateID() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
