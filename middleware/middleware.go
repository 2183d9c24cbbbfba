package middleware

import "time"

// DefaultStack returns the recommended production layer stack.
// This includes panic recovery, request ID injection, and logging.
func DefaultStack[Req, Resp any](logger Logger) []Layer[Req, Resp] {
	return []Layer[Req, Resp]{
		Recover[Req, Resp](),
		RequestID[Req, Resp](),
		Logging[Req, Resp](logger),
	}
}

// DefaultStackWithTimeout returns the default stack with a timeout layer.
// The timeout sits inside logging, so a logged result reflects the deadline
// substitution when one occurs.
func DefaultStackWithTimeout[Req, Resp any](logger Logger, timeout time.Duration) []Layer[Req, Resp] {
	return []Layer[Req, Resp]{
		Recover[Req, Resp](),
		RequestID[Req, Resp](),
		Logging[Req, Resp](logger),
		Timeout[Req, Resp](timeout),
	}
}
