package middleware

import (
	"context"
	"time"

	"github.com/felixgeelhaar/conduit/service"
)

// Timeout returns a layer that enforces a per-request deadline.
//
// Each submitted call races the inner service's future against a timer. If
// the inner call resolves first, its result is returned unchanged. If the
// timer fires first, the call resolves with service.ErrDeadlineExceeded and
// the inner future is abandoned: its work is not interrupted and its
// eventual result is discarded. When both are observable in the same turn,
// the inner completion wins.
//
// Readiness defers entirely to the inner service.
func Timeout[Req, Resp any](d time.Duration) Layer[Req, Resp] {
	return func(inner service.Service[Req, Resp]) service.Service[Req, Resp] {
		return &timeoutService[Req, Resp]{inner: inner, timeout: d}
	}
}

type timeoutService[Req, Resp any] struct {
	inner   service.Service[Req, Resp]
	timeout time.Duration
}

func (s *timeoutService[Req, Resp]) Ready(ctx context.Context) error {
	return s.inner.Ready(ctx)
}

func (s *timeoutService[Req, Resp]) Call(ctx context.Context, req Req) *service.Future[Resp] {
	inner := s.inner.Call(ctx, req)
	out := service.NewFuture[Resp]()
	timer := time.NewTimer(s.timeout)

	go func() {
		defer timer.Stop()
		select {
		case <-inner.Done():
			settle(out, inner)
		case <-timer.C:
			// Tie-break: a completion that raced the deadline still wins.
			if _, _, done := inner.Poll(); done {
				settle(out, inner)
				return
			}
			out.Reject(service.ErrDeadlineExceeded)
		}
	}()

	return out
}

// settle copies a completed future's result onto out.
func settle[Resp any](out, in *service.Future[Resp]) {
	v, err, _ := in.Poll()
	if err != nil {
		out.Reject(err)
		return
	}
	out.Resolve(v)
}
