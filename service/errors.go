package service

import "fmt"

// Error codes for failures the framework itself can produce. Inner services
// are free to return their own error types; middleware converts nothing and
// only adds variants from this set.
const (
	// CodeInternal marks unexpected failures such as recovered panics.
	CodeInternal = 1
	// CodeDeadlineExceeded is produced by the timeout middleware when the
	// deadline wins the race against the inner call.
	CodeDeadlineExceeded = 2
	// CodeUnavailable marks a permanent readiness fault: the service
	// instance can never serve again.
	CodeUnavailable = 3
	// CodeRateLimited marks a request refused because a rate limit was hit.
	CodeRateLimited = 4
)

// Error is the typed failure value shared by all built-in middleware.
type Error struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("conduit: %s (code: %d)", e.Message, e.Code)
}

// Is implements errors.Is comparison by error code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Sentinel errors for errors.Is checks. Callers deciding on retry policy
// match against these rather than inspecting codes directly.
var (
	ErrDeadlineExceeded = &Error{Code: CodeDeadlineExceeded, Message: "deadline exceeded"}
	ErrUnavailable      = &Error{Code: CodeUnavailable, Message: "service unavailable"}
)

// NewInternal creates an internal error (recovered panic, broken invariant).
func NewInternal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// NewDeadlineExceeded creates a deadline exceeded error.
func NewDeadlineExceeded(msg string) *Error {
	return &Error{Code: CodeDeadlineExceeded, Message: msg}
}

// NewUnavailable creates a permanent readiness fault error.
func NewUnavailable(msg string) *Error {
	return &Error{Code: CodeUnavailable, Message: msg}
}

// NewRateLimited creates a rate limited error.
func NewRateLimited(msg string) *Error {
	return &Error{Code: CodeRateLimited, Message: msg}
}
