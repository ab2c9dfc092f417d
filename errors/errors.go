package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = fmt.Errorf("not found")
	ErrForbidden       = fmt.Errorf("forbidden")
	ErrUnauthenticated = fmt.Errorf("not authenticated")
	ErrValidation      = fmt.Errorf("validation failed")

	ErrUserAlreadyExists    = fmt.Errorf("user already exists")
	ErrAlreadyMember        = fmt.Errorf("already a member of this room")
	ErrAlreadyAuthenticated = fmt.Errorf("connection already authenticated")
	ErrInvalidCredentials   = fmt.Errorf("invalid credentials")
	ErrInvalidPassword      = fmt.Errorf("password does not meet complexity requirements")
	ErrWorkerPanic          = fmt.Errorf("worker panic")
)

type scopedError struct {
	kind error
	msg  string
}

func (e *scopedError) Error() string { return e.msg }
func (e *scopedError) Unwrap() error { return e.kind }

// Scoped builds an error whose client-visible text is msg while still
// matching kind with errors.Is. Socket handlers use it so the error event
// carries the exact message the client expects.
func Scoped(kind error, msg string) error {
	return &scopedError{kind: kind, msg: msg}
}

// Scopedf is Scoped with formatting.
func Scopedf(kind error, format string, args ...any) error {
	return &scopedError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// Is reports whether any error in err's chain matches target.
// Re-exported so callers don't need two errors imports.
func Is(err, target error) bool { return errors.Is(err, target) }
