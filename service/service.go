package service

import (
	"context"
	"fmt"
)

// Service is the atomic unit of request processing: it accepts a request,
// asynchronously produces a response or an error, and signals backpressure
// through a separate readiness check.
//
// Ready returns nil when the service can accept exactly one Call. While
// backpressure exists it blocks cooperatively on ctx or internal channels.
// A non-nil error that is not ctx.Err() is a permanent readiness fault:
// the instance can never serve again and the caller must not retry it.
//
// Call must only be invoked after the most recent Ready reported ready.
// It may consume internal resources (a token, a connection slot) that are
// released when the returned future resolves or is abandoned. A failing
// future is a per-request failure and does not mean the service is broken.
//
// A Service instance serves one caller's Ready/Call sequence at a time
// unless its documentation states otherwise.
type Service[Req, Resp any] interface {
	Ready(ctx context.Context) error
	Call(ctx context.Context, req Req) *Future[Resp]
}

// ServiceFunc adapts a plain function into a Service. The resulting service
// is always ready, runs the function on its own goroutine, and may be used
// by concurrent callers. Panics in the function are recovered and surfaced
// as CodeInternal errors.
type ServiceFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

// Ready reports ready immediately; a ServiceFunc has no backpressure.
func (fn ServiceFunc[Req, Resp]) Ready(_ context.Context) error {
	return nil
}

// Call runs the function on a new goroutine and returns its future result.
func (fn ServiceFunc[Req, Resp]) Call(ctx context.Context, req Req) *Future[Resp] {
	f := NewFuture[Resp]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				f.Reject(NewInternal(fmt.Sprintf("panic: %v", r)))
			}
		}()
		v, err := fn(ctx, req)
		if err != nil {
			f.Reject(err)
			return
		}
		f.Resolve(v)
	}()
	return f
}

// Do drives one request through the two-phase protocol: wait for readiness,
// submit, and wait for the in-flight call to resolve. It is the canonical
// server-loop body; Call is never reached without a successful Ready.
func Do[Req, Resp any](ctx context.Context, svc Service[Req, Resp], req Req) (Resp, error) {
	var zero Resp
	if err := svc.Ready(ctx); err != nil {
		return zero, err
	}
	return svc.Call(ctx, req).Wait(ctx)
}
