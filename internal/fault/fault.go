// Package fault defines the typed errors raised by services and handlers and
// the classifier that turns them into HTTP responses. Every error that
// escapes a handler ends up in HTTPErrorHandler, which picks a status code
// from the error's Kind and writes an Envelope.
package fault

import (
	"errors"
	"fmt"
)

// Kind categorizes why a request could not be completed.
type Kind int

const (
	KindUnhandled Kind = iota
	KindNotFound
	KindBadRequest
	KindInvalidArgument
	KindOutOfRange
	KindValidation
	KindUnauthorized
	KindForbidden
	KindInvalidToken
)

var kindNames = map[Kind]string{
	KindUnhandled:       "unhandled",
	KindNotFound:        "not_found",
	KindBadRequest:      "bad_request",
	KindInvalidArgument: "invalid_argument",
	KindOutOfRange:      "out_of_range",
	KindValidation:      "validation_failed",
	KindUnauthorized:    "unauthorized",
	KindForbidden:       "forbidden",
	KindInvalidToken:    "invalid_token",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a fault with a kind, a client-facing message and an optional
// resource id. Err holds the underlying cause, if any; it is never shown to
// clients.
type Error struct {
	Kind       Kind
	Message    string
	ResourceID int64
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New returns a fault of the given kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap attaches a kind and a client-facing message to cause.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func NotFound(msg string) *Error        { return New(KindNotFound, msg) }
func BadRequest(msg string) *Error      { return New(KindBadRequest, msg) }
func InvalidArgument(msg string) *Error { return New(KindInvalidArgument, msg) }
func Validation(msg string) *Error      { return New(KindValidation, msg) }
func Unauthorized(msg string) *Error    { return New(KindUnauthorized, msg) }
func Forbidden(msg string) *Error       { return New(KindForbidden, msg) }
func InvalidToken(msg string) *Error    { return New(KindInvalidToken, msg) }

// OutOfRange reports an identifier outside the accepted range.
func OutOfRange(id int64) *Error {
	return &Error{Kind: KindOutOfRange, Message: "Bad Request", ResourceID: id}
}

// BookNotFound reports a missing book.
func BookNotFound(id int64) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("The book with id %d could not be found!", id), ResourceID: id}
}

// CategoryNotFound reports a missing category.
func CategoryNotFound(id int64) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("The category with id %d could not be found!", id), ResourceID: id}
}

// KindOf returns the kind of the first *Error in err's chain, or
// KindUnhandled.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnhandled
}

// Is reports whether err carries a fault of the given kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == kind
}
