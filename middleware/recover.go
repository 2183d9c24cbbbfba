package middleware

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/conduit/service"
)

// Recover returns a layer that catches panics on the synchronous Ready and
// Call paths of the inner service and converts them to internal errors.
// Panics raised on a service's own goroutines are out of reach here;
// service.ServiceFunc already recovers those itself.
func Recover[Req, Resp any]() Layer[Req, Resp] {
	return func(inner service.Service[Req, Resp]) service.Service[Req, Resp] {
		return &recoverService[Req, Resp]{inner: inner}
	}
}

type recoverService[Req, Resp any] struct {
	inner service.Service[Req, Resp]
}

func (s *recoverService[Req, Resp]) Ready(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = service.NewInternal(panicMessage(r))
		}
	}()
	return s.inner.Ready(ctx)
}

func (s *recoverService[Req, Resp]) Call(ctx context.Context, req Req) (fut *service.Future[Resp]) {
	defer func() {
		if r := recover(); r != nil {
			fut = service.Rejected[Resp](service.NewInternal(panicMessage(r)))
		}
	}()
	return s.inner.Call(ctx, req)
}

func panicMessage(panicVal any) string {
	switch v := panicVal.(type) {
	case error:
		return fmt.Sprintf("panic: %v", v)
	case string:
		return fmt.Sprintf("panic: %s", v)
	default:
		return fmt.Sprintf("panic: %v", v)
	}
}
