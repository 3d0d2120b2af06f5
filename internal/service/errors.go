package service

import (
	"errors"
	"fmt"
)

// Kind classifies a failed operation so callers can pick the control flow.
type Kind int

const (
	KindUnknown Kind = iota
	// KindValidation is a missing required field; no request was sent.
	KindValidation
	// KindUnauthorized means the session token was missing or rejected.
	KindUnauthorized
	// KindInvalidCredentials means authentication was refused.
	KindInvalidCredentials
	// KindTransient covers network and server failures.
	KindTransient
	// KindRejected is a response that does not match the expected shape.
	KindRejected
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthorized:
		return "unauthorized"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindTransient:
		return "transient"
	case KindRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Error is a classified operation failure.
type Error struct {
	Kind Kind
	Msg  string // shown to the user
	Err  error  // kept for logs
}

// NewError creates a classified error.
func NewError(kind Kind, msg string, underlying error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: underlying}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("[%s] %s", e.Kind, e.Msg)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Msg, e.Err.Error())
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrNoSession is returned by task operations issued without a session.
var ErrNoSession = NewError(KindUnauthorized, "not logged in", nil)

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Message returns the user-facing message of err, falling back to err.Error().
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return err.Error()
}
