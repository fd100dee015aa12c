package codex

import (
	"context"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ErrorCode categorizes store errors.
type ErrorCode string

const (
	// ErrCodeInvalidArgument indicates an illegal codex or article name or
	// description. Nothing was written.
	ErrCodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrCodeConflict indicates a codex with the same (chat, name) exists.
	ErrCodeConflict ErrorCode = "CONFLICT"

	// ErrCodeNotFound indicates a lookup miss.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeUnavailable indicates a transient failure (pool exhausted,
	// database busy or locked). Callers may retry; the store never does.
	ErrCodeUnavailable ErrorCode = "UNAVAILABLE"

	// ErrCodeInternal indicates a failure the caller cannot fix, including
	// bootstrap failures.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// Error is returned by every Store operation.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Op, e.Code)
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(code ErrorCode, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the code of a store error, or "" for other errors.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsInvalidArgument reports whether err is a validation failure.
func IsInvalidArgument(err error) bool { return CodeOf(err) == ErrCodeInvalidArgument }

// IsConflict reports whether err is a uniqueness conflict.
func IsConflict(err error) bool { return CodeOf(err) == ErrCodeConflict }

// IsNotFound reports whether err is a lookup miss.
func IsNotFound(err error) bool { return CodeOf(err) == ErrCodeNotFound }

// IsTransient reports whether err may succeed on retry.
func IsTransient(err error) bool { return CodeOf(err) == ErrCodeUnavailable }

// classify wraps a driver or database/sql error in an *Error.
// Context cancellation by the caller is returned wrapped but unclassified.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}

	var se sqlite3.Error
	if errors.As(err, &se) {
		switch {
		case se.ExtendedCode == sqlite3.ErrConstraintUnique,
			se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey:
			return &Error{Code: ErrCodeConflict, Op: op, Message: "already exists", Err: err}
		case se.ExtendedCode == sqlite3.ErrConstraintForeignKey:
			return &Error{Code: ErrCodeNotFound, Op: op, Message: "referenced codex does not exist", Err: err}
		case se.Code == sqlite3.ErrBusy, se.Code == sqlite3.ErrLocked:
			return &Error{Code: ErrCodeUnavailable, Op: op, Message: "database busy", Err: err}
		}
	}

	return &Error{Code: ErrCodeInternal, Op: op, Err: err}
}
