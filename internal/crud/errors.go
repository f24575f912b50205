package crud

import (
	"errors"
	"fmt"
)

// Domain error kinds. Every error returned by a Repository or Service that a
// client caused wraps exactly one of these, so callers can branch with errors.Is.
var (
	// ErrNotFound is returned when no row matches the requested id or key.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a write would violate uniqueness, or a
	// delete would orphan rows that still reference the target.
	ErrConflict = errors.New("conflict")

	// ErrInvalidArgument is returned for malformed input: unknown columns,
	// wrong update field sets, failed field validation, dangling references.
	ErrInvalidArgument = errors.New("invalid argument")
)

// Error is a domain error with a client-safe message.
//
// The message is what API clients see; Kind is one of the sentinels above.
type Error struct {
	Kind    error
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match the Kind sentinel.
func (e *Error) Unwrap() error {
	return e.Kind
}

// Errorf builds an Error of the given kind with a formatted message.
func Errorf(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// NotFound returns the uniform not-found error for an entity id.
func NotFound(entity string, id int64) error {
	return Errorf(ErrNotFound, "no %s found with id %d", entity, id)
}

// Message returns the client-safe message carried by err, or "" when err
// is not a domain Error.
func Message(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return ""
}
