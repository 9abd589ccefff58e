package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")

	// ErrUpstreamWrite marks a failed mutating call to the CMS that is
	// load-bearing for correctness (the counter increment, the membership
	// append, entry creation). The caller's action did NOT take effect and
	// handlers must surface this as a 5xx.
	ErrUpstreamWrite = errors.New("upstream write failure")

	// ErrUpstreamPublish marks a failed post-mutation publish step. The
	// mutation itself succeeded, so this is never surfaced to the caller —
	// it's logged and recorded, and the request still reports success.
	ErrUpstreamPublish = errors.New("upstream publish failure")
)

type AppError struct {
	Err     error  // sentinel this error wraps
	Message string // human-readable error message
	Field   string // optional: field causing the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// UpstreamWrite wraps a failed CMS mutation. The cause is kept in the chain
// for logging but never exposed to API callers.
func UpstreamWrite(operation string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: %s: %w", ErrUpstreamWrite, operation, cause),
		Message: fmt.Sprintf("upstream store rejected %s", operation),
	}
}

// UpstreamPublish wraps a failed publish step.
func UpstreamPublish(contentType, uid string, cause error) *AppError {
	return &AppError{
		Err:     fmt.Errorf("%w: publishing %s %s: %w", ErrUpstreamPublish, contentType, uid, cause),
		Message: fmt.Sprintf("publishing %s %s failed", contentType, uid),
	}
}
