// Package middleware provides composable layers for conduit services.
//
// A Layer turns a Service into a wrapped Service, adding cross-cutting
// behavior without the inner service knowing it is wrapped. Layers compose
// with Chain or the fluent Stack builder.
//
// # Basic Usage
//
// Create and compose layers:
//
//	stacked := middleware.Chain(
//	    middleware.Recover[Req, Resp](),
//	    middleware.Logging[Req, Resp](logger),
//	    middleware.Timeout[Req, Resp](5*time.Second),
//	)(baseService)
//
// The first layer in a Chain is outermost: it observes a request first on
// the way in and last on the way out. With logging outside the timeout, a
// logged result reflects the deadline substitution when one occurs.
//
// # Available Layers
//
//   - Recover: catches panics on the synchronous call path
//   - RequestID: injects unique request IDs into the context
//   - Timeout: races each in-flight call against a deadline
//   - Logging: observes readiness checks, requests, and results
//   - RateLimit: token-bucket backpressure via the readiness protocol
//   - ConcurrencyLimit: caps in-flight calls with readiness slots
//   - OTel: OpenTelemetry spans and metrics per call
//
// # Default Stacks
//
// Pre-configured stacks are available for common use cases:
//
//	// Recover + RequestID + Logging
//	stack := middleware.DefaultStack[Req, Resp](logger)
//
//	// Recover + RequestID + Logging + Timeout
//	stack := middleware.DefaultStackWithTimeout[Req, Resp](logger, 30*time.Second)
//
// # Custom Layers
//
// Implement custom layers by wrapping the inner service:
//
//	func Metrics[Req, Resp any](c *Counter) middleware.Layer[Req, Resp] {
//	    return func(inner service.Service[Req, Resp]) service.Service[Req, Resp] {
//	        // return a Service that counts and forwards to inner
//	    }
//	}
//
// Every layer must preserve the readiness invariant: its own Ready must not
// report ready before the inner service does.
package middleware
