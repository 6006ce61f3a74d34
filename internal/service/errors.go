package service

import (
	"errors"

	"github.com/rotisserie/eris"

	"github.com/sells-group/overunder/internal/resilience"
)

// ErrorKind classifies a prediction failure for the caller.
type ErrorKind string

const (
	KindInvalidInput           ErrorKind = "invalid_input"
	KindUpstreamUnavailable    ErrorKind = "upstream_unavailable"
	KindInsufficientData       ErrorKind = "insufficient_data"
	KindDegenerateDistribution ErrorKind = "degenerate_distribution"
)

// Error is a classified prediction failure.
type Error struct {
	Kind ErrorKind
	Err  error
	// Retryable is set for upstream failures that may succeed on a later attempt.
	Retryable bool
}

func (e *Error) Error() string { return e.Err.Error() }

func (e *Error) Unwrap() error { return e.Err }

func invalidInput(format string, args ...any) *Error {
	return &Error{Kind: KindInvalidInput, Err: eris.Errorf(format, args...)}
}

func insufficientData(err error, msg string) *Error {
	return &Error{Kind: KindInsufficientData, Err: eris.Wrap(err, msg)}
}

func upstream(err error, msg string) *Error {
	return &Error{
		Kind:      KindUpstreamUnavailable,
		Err:       eris.Wrap(err, msg),
		Retryable: resilience.IsTransient(err),
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when err
// is not classified.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsRetryable reports whether err is a classified failure worth retrying.
func IsRetryable(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Retryable
}
