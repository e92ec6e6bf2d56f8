// Package errors defines the error taxonomy shared by every wizard step.
// Steps convert whatever their collaborators return into one of these kinds
// so the UI can render an inline, human-readable message.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind classifies an error by how the user can recover from it.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindConfiguration
	KindLocationNotFound
	KindServerRejected
	KindNetworkUnavailable
	KindNoMatch
	KindMissingPrerequisite
	KindNotFound
	KindUnauthorized
)

// String returns the taxonomy name of the kind.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindConfiguration:
		return "ConfigurationError"
	case KindLocationNotFound:
		return "LocationNotFound"
	case KindServerRejected:
		return "ServerRejected"
	case KindNetworkUnavailable:
		return "NetworkUnavailable"
	case KindNoMatch:
		return "NoMatch"
	case KindMissingPrerequisite:
		return "MissingPrerequisite"
	case KindNotFound:
		return "NotFound"
	case KindUnauthorized:
		return "Unauthorized"
	default:
		return "Unknown"
	}
}

// Error is a classified error. Field names the form field the error belongs
// to, if any, so it can be rendered next to that field.
type Error struct {
	Kind    Kind
	Op      string // Operation that failed, e.g. "geocode"
	Field   string // Optional form field key
	Message string // User-facing message
	Err     error  // Underlying cause
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.String()
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind. This lets callers
// write errors.Is(err, ierr.NoMatch) against the sentinels below.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Op == "" && t.Message == "" && t.Err == nil && t.Kind == e.Kind
}

// Sentinels for errors.Is comparisons.
var (
	Validation          = &Error{Kind: KindValidation}
	Configuration       = &Error{Kind: KindConfiguration}
	LocationNotFound    = &Error{Kind: KindLocationNotFound}
	ServerRejected      = &Error{Kind: KindServerRejected}
	NetworkUnavailable  = &Error{Kind: KindNetworkUnavailable}
	NoMatch             = &Error{Kind: KindNoMatch}
	MissingPrerequisite = &Error{Kind: KindMissingPrerequisite}
	NotFound            = &Error{Kind: KindNotFound}
	Unauthorized        = &Error{Kind: KindUnauthorized}
)

// New creates a classified error with a user-facing message.
func New(kind Kind, op, message string) *Error {
	return &Error{Kind: kind, Op: op, Message: message}
}

// Wrap creates a classified error around a cause.
func Wrap(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// WithField returns a copy of e attributed to the given form field.
func (e *Error) WithField(field string) *Error {
	c := *e
	c.Field = field
	return &c
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// FieldOf returns the form field an error is attributed to, or "".
func FieldOf(err error) string {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Field
	}
	return ""
}

// UserMessage returns the message to show next to the failing control.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Something went wrong. Please try again."
}
