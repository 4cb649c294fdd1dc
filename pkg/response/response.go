package response

import (
	"errors"
)

// Error is a client-facing failure: an HTTP status, a stable reason code and
// a message safe to show. Cause is logged, never rendered.
type Error struct {
	Code   int
	Reason string
	Err    error
	Cause  error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on status and reason so a copy carrying a cause still equals
// the sentinel it came from.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code && e.Reason == t.Reason && e.Err.Error() == t.Err.Error()
}

// WithCause returns a copy of e that records what went wrong underneath.
func (e *Error) WithCause(cause error) error {
	return &Error{Code: e.Code, Reason: e.Reason, Err: e.Err, Cause: cause}
}

func NewError(code int, reason string, err string) *Error {
	return &Error{Code: code, Reason: reason, Err: errors.New(err)}
}
