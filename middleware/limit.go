package middleware

import (
	"context"

	"github.com/felixgeelhaar/conduit/service"
)

// ConcurrencyLimit returns a layer that caps the number of in-flight calls.
//
// Backpressure flows through the readiness protocol: Ready blocks while all
// slots are taken and each successful check reserves exactly one slot. The
// caller's next Call consumes that reservation, and the slot is returned
// when the call's future resolves. Abandoning the future does not leak the
// slot; release happens on resolution regardless of whether anyone is
// waiting.
//
// Ready supports concurrent callers. Each caller must pair every successful
// readiness check with exactly one Call: a reservation that is never
// submitted keeps its slot.
func ConcurrencyLimit[Req, Resp any](n int) Layer[Req, Resp] {
	return func(inner service.Service[Req, Resp]) service.Service[Req, Resp] {
		return &limitService[Req, Resp]{
			inner: inner,
			slots: make(chan struct{}, n),
		}
	}
}

type limitService[Req, Resp any] struct {
	inner service.Service[Req, Resp]
	slots chan struct{}
}

func (s *limitService[Req, Resp]) Ready(ctx context.Context) error {
	select {
	case s.slots <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}

	if err := s.inner.Ready(ctx); err != nil {
		<-s.slots
		return err
	}
	return nil
}

func (s *limitService[Req, Resp]) Call(ctx context.Context, req Req) *service.Future[Resp] {
	fut := s.inner.Call(ctx, req)
	fut.OnDone(func(Resp, error) {
		<-s.slots
	})
	return fut
}
