// Package apperr defines the error kinds shared by the service layer and
// mapped to HTTP status codes by the API handlers.
package apperr

import (
	"errors"
	"fmt"
)

// Error kinds. Use errors.Is(err, apperr.ErrNotFound) to classify.
var (
	ErrValidation = errors.New("validation error")
	ErrAuth       = errors.New("authentication error")
	ErrForbidden  = errors.New("forbidden")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrStorage    = errors.New("storage error")
	ErrDeletion   = errors.New("deletion error")
)

// Error carries a kind, a user-facing message and an optional cause.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func Auth(msg string) error {
	return &Error{Kind: ErrAuth, Message: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

// InvalidJoinCode is the not-found error returned when no team matches a code.
func InvalidJoinCode() error {
	return &Error{Kind: ErrNotFound, Message: "Invalid Join Code"}
}

func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}

// Storage wraps a Datastore failure. op names the failed step, e.g. "updating bug".
func Storage(op string, err error) error {
	return &Error{Kind: ErrStorage, Message: op, Err: err}
}

func Deletion(msg string, err error) error {
	return &Error{Kind: ErrDeletion, Message: msg, Err: err}
}

// Message returns the user-facing message of err, or fallback when err
// carries none. Storage causes are never exposed.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		if e.Kind == ErrStorage {
			return fallback
		}
		return e.Message
	}
	return fallback
}
