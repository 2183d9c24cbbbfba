package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/felixgeelhaar/conduit/service"
)

// panicky panics on the synchronous Ready or Call path.
type panicky struct {
	onReady bool
}

func (s *panicky) Ready(_ context.Context) error {
	if s.onReady {
		panic("ready exploded")
	}
	return nil
}

func (s *panicky) Call(_ context.Context, _ string) *service.Future[string] {
	panic("call exploded")
}

func TestRecover(t *testing.T) {
	t.Run("converts Call panics to internal errors", func(t *testing.T) {
		svc := Recover[string, string]()(&panicky{})

		_, err := service.Do(context.Background(), svc, "req")

		var se *service.Error
		if !errors.As(err, &se) {
			t.Fatalf("error type = %T, want *service.Error", err)
		}
		if se.Code != service.CodeInternal {
			t.Errorf("Code = %d, want %d", se.Code, service.CodeInternal)
		}
	})

	t.Run("converts Ready panics to internal errors", func(t *testing.T) {
		svc := Recover[string, string]()(&panicky{onReady: true})

		err := svc.Ready(context.Background())

		var se *service.Error
		if !errors.As(err, &se) {
			t.Fatalf("error type = %T, want *service.Error", err)
		}
		if se.Code != service.CodeInternal {
			t.Errorf("Code = %d, want %d", se.Code, service.CodeInternal)
		}
	})

	t.Run("passes healthy services through", func(t *testing.T) {
		svc := Recover[string, string]()(echoService())

		v, err := service.Do(context.Background(), svc, "fine")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "fine" {
			t.Errorf("value = %q, want %q", v, "fine")
		}
	})

	t.Run("preserves error panic values in the message", func(t *testing.T) {
		boom := errors.New("wrapped cause")
		svc := Recover[string, string]()(&panickyWith{val: boom})

		_, err := service.Do(context.Background(), svc, "req")
		var se *service.Error
		if !errors.As(err, &se) {
			t.Fatalf("error type = %T, want *service.Error", err)
		}
		if se.Message != "panic: wrapped cause" {
			t.Errorf("Message = %q, want %q", se.Message, "panic: wrapped cause")
		}
	})
}

// panickyWith panics with an arbitrary value on Call.
type panickyWith struct {
	val any
}

func (s *panickyWith) Ready(_ context.Context) error {
	return nil
}

func (s *panickyWith) Call(_ context.Context, _ string) *service.Future[string] {
	panic(s.val)
}
