package clip

import (
	"errors"
	"fmt"
)

// Kind classifies a video path failure.
type Kind int

const (
	// KindInitiation means the job could not be submitted.
	KindInitiation Kind = iota + 1
	// KindProtocol means the provider answered with something unusable.
	KindProtocol
	// KindPoll means a status check failed.
	KindPoll
	// KindOperation means the provider reported the job as failed.
	KindOperation
	// KindDownload means the finished asset could not be fetched.
	KindDownload
	// KindTimeout means the job did not finish within the wait budget.
	KindTimeout
)

func (k Kind) String() string {
	switch k {
	case KindInitiation:
		return "initiation"
	case KindProtocol:
		return "protocol"
	case KindPoll:
		return "poll"
	case KindOperation:
		return "operation"
	case KindDownload:
		return "download"
	case KindTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// Error is a failure of the video path.
type Error struct {
	Kind Kind

	// Msg is the human readable message.
	Msg string

	// Err is the underlying cause, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether resubmitting the same request may succeed.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindPoll, KindDownload, KindTimeout:
		return true
	default:
		return false
	}
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// AsError extracts *Error from an error.
//
// Example:
//
//	if e, ok := clip.AsError(err); ok && e.Kind == clip.KindTimeout {
//	    // try again later
//	}
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return 0
}
