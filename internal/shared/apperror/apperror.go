// Package apperror defines the error taxonomy shared by every feature.
// Usecases return *Error values; the transport layer maps their Kind to an HTTP status.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	// KindInternal is an unexpected failure. Its message is never shown to clients.
	KindInternal Kind = iota
	// KindValidation is malformed or missing input.
	KindValidation
	// KindConflict is a duplicate value for a unique field.
	KindConflict
	// KindAuth is a missing, invalid or expired credential.
	KindAuth
	// KindNotFound is an absent resource, or one the caller does not own.
	KindNotFound
)

// String returns a lower-case name for logging.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Error is a classified application error with a client-safe message.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation returns a KindValidation error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// Conflict returns a KindConflict error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Auth returns a KindAuth error.
func Auth(msg string) *Error {
	return &Error{Kind: KindAuth, Message: msg}
}

// NotFound returns a KindNotFound error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Internal wraps err as a KindInternal error.
func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the Kind of the first *Error in err's chain.
// Errors outside the taxonomy are KindInternal.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// HTTPStatus maps a Kind to its response status.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// As is errors.As for *Error targets.
func As(err error, target **Error) bool {
	return errors.As(err, target)
}
