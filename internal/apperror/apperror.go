// Package apperror defines the domain error kinds shared by every layer.
//
// Each kind is a sentinel error. An *AppError wraps one sentinel together with
// the human-readable message and error list that end up in the response
// envelope, so callers branch with errors.Is and render with errors.As.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("Validation Error")
	ErrConflict        = errors.New("conflict")
	ErrForbidden       = errors.New("forbidden")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrUpload          = errors.New("upload failed")
)

type AppError struct {
	Err     error    // actual error
	Message string   // Human-readable error message
	Field   string   // Optional: field causing the error
	Details []string // Optional: individual error strings for the envelope
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Errors returns the detail list, falling back to the message so the
// envelope's error list is never empty for a failure.
func (e *AppError) Errors() []string {
	if len(e.Details) > 0 {
		return e.Details
	}
	return []string{e.Message}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// NotFoundMessage is NotFound with a caller-chosen message, for lookups that
// combine existence with ownership ("not found or not owned").
func NotFoundMessage(message string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: message,
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Invalid is a validation failure whose envelope message and error list
// differ, e.g. "Invalid cover letter" / "Cover letter must be under 200 characters".
func Invalid(field, message string, details ...string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
		Details: details,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// Duplicate reports a uniqueness violation with envelope-ready text.
func Duplicate(message string, details ...string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		Details: details,
	}
}

// Forbidden returns an AppError indicating the caller lacks permission.
// HTTP handlers map this to 403 Forbidden.
func Forbidden(message string, details ...string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
		Details: details,
	}
}

// Unauthenticated means the caller's identity could not be established:
// bad credentials at login or an unusable bearer token.
func Unauthenticated(message string, details ...string) *AppError {
	return &AppError{
		Err:     ErrUnauthenticated,
		Message: message,
		Details: details,
	}
}

// Upload wraps a failure of the file-hosting provider. The provider's raw
// message is kept in Details; it is not sanitized.
func Upload(message string, cause error) *AppError {
	details := []string{}
	if cause != nil {
		details = append(details, cause.Error())
	}
	return &AppError{
		Err:     ErrUpload,
		Message: message,
		Details: details,
	}
}

// IsConflict reports whether err is (or wraps) a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrConflict)
}
