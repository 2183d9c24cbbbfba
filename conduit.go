// Package conduit provides an asynchronous service abstraction and
// middleware composition for request/response pipelines.
//
// A Service accepts a request, asynchronously produces a response or a
// typed error, and signals backpressure through a separate readiness
// check. Layers wrap services with cross-cutting behavior such as
// timeouts, logging, and rate limiting, without the inner service knowing
// it is wrapped.
//
// Basic usage:
//
//	base := service.ServiceFunc[string, string](
//	    func(ctx context.Context, req string) (string, error) {
//	        return "hello " + req, nil
//	    })
//
//	svc := middleware.Chain(
//	    middleware.Logging[string, string](logger),
//	    middleware.Timeout[string, string](5*time.Second),
//	)(base)
//
//	resp, err := conduit.Do(ctx, svc, "world")
package conduit

import (
	"context"

	"github.com/felixgeelhaar/conduit/middleware"
	"github.com/felixgeelhaar/conduit/service"
)

// Re-export core types for convenience

// Service is the two-phase readiness/invocation contract.
type Service[Req, Resp any] = service.Service[Req, Resp]

// ServiceFunc adapts a plain function into an always-ready Service.
type ServiceFunc[Req, Resp any] = service.ServiceFunc[Req, Resp]

// Future is the handle to an in-flight call.
type Future[T any] = service.Future[T]

// Error is the typed failure value produced by built-in layers.
type Error = service.Error

// Layer wraps a Service with additional behavior.
type Layer[Req, Resp any] = middleware.Layer[Req, Resp]

// Logger is the structured logging sink consumed by the logging layer.
type Logger = middleware.Logger

// LogField is a key-value pair for structured logging.
type LogField = middleware.Field

// Do drives one request through the readiness protocol: wait for
// readiness, submit, and wait for the result.
func Do[Req, Resp any](ctx context.Context, svc Service[Req, Resp], req Req) (Resp, error) {
	return service.Do(ctx, svc, req)
}

// Chain composes layers; the first layer is outermost.
func Chain[Req, Resp any](layers ...Layer[Req, Resp]) Layer[Req, Resp] {
	return middleware.Chain(layers...)
}
