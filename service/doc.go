// Package service defines the asynchronous service contract at the heart
// of conduit: a Service accepts a request, produces a Future that resolves
// to a response or an error, and signals backpressure through a separate
// readiness check.
//
// # The readiness protocol
//
// Every Service follows a two-phase call discipline:
//
//	if err := svc.Ready(ctx); err != nil {
//	    // permanent fault (or ctx done); obtain a new service instance
//	}
//	resp, err := svc.Call(ctx, req).Wait(ctx)
//
// Ready blocks cooperatively while the service is applying backpressure
// and returns nil once the service can accept exactly one Call. A non-nil,
// non-context error from Ready is fatal for that instance: the service can
// never become ready again.
//
// Do encodes the full discipline for callers that just want a result:
//
//	resp, err := service.Do(ctx, svc, req)
//
// # Futures
//
// Call returns a *Future, the handle to the in-flight computation. Futures
// resolve exactly once and can be polled, awaited, or observed through a
// callback. Abandoning a Future (for example when Wait's context expires)
// never interrupts the goroutine producing the result; cancellation is
// advisory and the eventual result is simply discarded.
package service
