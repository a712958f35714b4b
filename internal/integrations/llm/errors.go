package llm

import "fmt"

// ErrorCode classifies completion failures.
type ErrorCode string

const (
	ErrNotConfigured ErrorCode = "NOT_CONFIGURED"
	ErrUnavailable   ErrorCode = "UNAVAILABLE"
	ErrRateLimited   ErrorCode = "RATE_LIMITED"
	ErrRejected      ErrorCode = "REJECTED"
)

// Error is a structured error for completion failures.
type Error struct {
	Code      ErrorCode
	Message   string
	Status    int    // upstream HTTP status, 0 when no response was received
	Body      []byte // upstream error payload, passed back to the caller as is
	Retryable bool
	Cause     error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func statusError(status int, body []byte) *Error {
	e := &Error{Status: status, Body: body, Message: fmt.Sprintf("upstream returned %d", status)}
	switch {
	case status == 429:
		e.Code, e.Retryable = ErrRateLimited, true
	case status >= 500:
		e.Code, e.Retryable = ErrUnavailable, true
	default:
		e.Code = ErrRejected
	}
	return e
}
