// Package apperrors carries the error kinds services return so the HTTP
// boundary can map them to status codes without string matching.
package apperrors

import "errors"

type Kind int

const (
	// Validation indicates missing or malformed required input.
	Validation Kind = iota + 1
	// Auth indicates failed authentication (bad credentials, bad token).
	Auth
	// Conflict indicates a device-binding or uniqueness conflict.
	Conflict
	// NotFound indicates the referenced record does not exist.
	NotFound
	// Internal indicates an unexpected store or infrastructure failure.
	Internal
)

type Error struct {
	Kind    Kind
	Message string // user-facing
	Err     error  // wrapped cause, may be nil
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of err, or 0 when err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// MessageOf returns the user-facing message of err, falling back to
// err.Error() for unkinded errors.
func MessageOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
