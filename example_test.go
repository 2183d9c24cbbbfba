package conduit_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/conduit"
	"github.com/felixgeelhaar/conduit/middleware"
	"github.com/felixgeelhaar/conduit/service"
)

// Example demonstrates wrapping a service with logging and a timeout and
// driving a request through the readiness protocol.
func Example() {
	base := service.ServiceFunc[string, string](
		func(ctx context.Context, req string) (string, error) {
			return "hello " + req, nil
		})

	svc := conduit.Chain(
		middleware.Logging[string, string](middleware.NopLogger{}),
		middleware.Timeout[string, string](time.Second),
	)(base)

	resp, err := conduit.Do(context.Background(), svc, "world")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(resp)
	// Output: hello world
}

// Example_timeout shows the deadline-exceeded error produced when the
// inner call loses the race against the timer.
func Example_timeout() {
	slow := service.ServiceFunc[string, string](
		func(ctx context.Context, req string) (string, error) {
			time.Sleep(200 * time.Millisecond)
			return "too late", nil
		})

	svc := middleware.Timeout[string, string](10 * time.Millisecond)(slow)

	_, err := conduit.Do(context.Background(), svc, "req")
	fmt.Println(errors.Is(err, service.ErrDeadlineExceeded))
	// Output: true
}
