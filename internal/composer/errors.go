package composer

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrImageNotSupported = errors.New("image attachment is not supported yet")
	ErrSessionClosed     = errors.New("composer session closed")
)

type ErrorCode string

const (
	ErrorGenerationTimeout ErrorCode = "GENERATION_TIMEOUT"
	ErrorRateLimited       ErrorCode = "RATE_LIMITED"
	ErrorConnectionFailed  ErrorCode = "CONNECTION_FAILED"
	ErrorInternal          ErrorCode = "INTERNAL_ERROR"
)

// Error is a failed generation. Failures are recovered locally by asking the user to retry.
type Error struct {
	Code   ErrorCode
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("composer: %s (%s)", e.Code, e.Reason)
	}
	return fmt.Sprintf("composer: %s (%s): %v", e.Code, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func newError(code ErrorCode, reason string, err error) *Error {
	return &Error{Code: code, Reason: reason, Err: err}
}

var (
	ErrGenerationTimeout = newError(ErrorGenerationTimeout, "generation_timeout", nil)
	ErrRateLimited       = newError(ErrorRateLimited, "rate_limited", nil)
	ErrConnectionFailed  = newError(ErrorConnectionFailed, "connection_failed", nil)
)

// Is matches on the error code so wrapped failures compare equal to the sentinels above.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || e == nil || t == nil {
		return false
	}
	return e.Code == t.Code
}

// classify maps a generator failure to a composer Error.
func classify(err error) *Error {
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return newError(ErrorGenerationTimeout, "generation_timeout", err)
	}
	return newError(ErrorInternal, "generator_error", err)
}

// retryMessage is the assistant message appended after a failed generation.
func retryMessage(e *Error) string {
	switch e.Code {
	case ErrorGenerationTimeout:
		return "Sorry, that took too long. Please send your message again."
	case ErrorRateLimited:
		return "I'm getting a lot of requests right now. Please wait a moment and try again."
	case ErrorConnectionFailed:
		return "I couldn't reach the writing service. Please check your connection and try again."
	}
	return "Something went wrong while writing your post. Please try again."
}
