// Package errs provides structured, user-friendly errors with machine-parseable codes.
package errs

import (
	"errors"
	"fmt"
)

// ErrorCode is a machine-parseable error identifier.
type ErrorCode string

const (
	// General
	ErrUnknown    ErrorCode = "ERR-000"
	ErrInternal   ErrorCode = "ERR-001"
	ErrConfig     ErrorCode = "ERR-002"
	ErrValidation ErrorCode = "ERR-003"

	// Configuration errors (fatal at startup)
	ErrConfigMissing ErrorCode = "ERR-CFG-001"
	ErrConfigParse   ErrorCode = "ERR-CFG-002"
	ErrKeyName       ErrorCode = "ERR-KEY-001"

	// Display errors
	ErrNoDisplays    ErrorCode = "ERR-DISPLAY-001"
	ErrDisplayQuery  ErrorCode = "ERR-DISPLAY-002"
	ErrDisplayLayout ErrorCode = "ERR-DISPLAY-003"

	// Driver errors (recoverable, logged per action)
	ErrDriverConnect  ErrorCode = "ERR-DRV-001"
	ErrDriverPointer  ErrorCode = "ERR-DRV-002"
	ErrDriverButton   ErrorCode = "ERR-DRV-003"
	ErrDriverScroll   ErrorCode = "ERR-DRV-004"
	ErrDriverViewport ErrorCode = "ERR-DRV-005"
	ErrDriverInput    ErrorCode = "ERR-DRV-006"

	// State errors
	ErrStateRead  ErrorCode = "ERR-STATE-001"
	ErrStateWrite ErrorCode = "ERR-STATE-002"
)

// Error is the standard structured error type used across all gridwarp packages.
type Error struct {
	Code   ErrorCode // Machine-parseable error code
	Op     string    // Operation chain, e.g., "config.load"
	Target string    // Offending resource (config option path, key name, display)
	Cause  error     // Wrapped upstream error
	Advice string    // Human-readable remediation hint
}

func (e *Error) Error() string {
	if e.Target != "" {
		return fmt.Sprintf("[%s] %s (%s): %v", e.Code, e.Op, e.Target, e.Cause)
	}
	return fmt.Sprintf("[%s] %s: %v", e.Code, e.Op, e.Cause)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns the formatted user-facing error message with remediation advice.
func (e *Error) UserMessage() string {
	msg := fmt.Sprintf("%s: %s: %v", e.Code, e.Op, e.Cause)
	if e.Target != "" {
		msg += fmt.Sprintf(" (at: %s)", e.Target)
	}
	if e.Advice != "" {
		msg += fmt.Sprintf("\n  → %s", e.Advice)
	}
	return msg
}

// New creates a new Error.
func New(code ErrorCode, op string, cause error) *Error {
	return &Error{Code: code, Op: op, Cause: cause}
}

// Newf creates a new Error with a formatted message as the cause.
func Newf(code ErrorCode, op, format string, args ...any) *Error {
	return &Error{Code: code, Op: op, Cause: fmt.Errorf(format, args...)}
}

// WithTarget sets the offending resource identifier on an Error.
func (e *Error) WithTarget(target string) *Error {
	e.Target = target
	return e
}

// WithAdvice sets the human-readable remediation hint on an Error.
func (e *Error) WithAdvice(advice string) *Error {
	e.Advice = advice
	return e
}

// Wrap wraps an existing error as an Error at a new operation boundary.
func Wrap(err error, code ErrorCode, op string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Op: op, Cause: err}
}

// IsCode reports whether err is an Error with the given code.
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// As extracts the *Error from err, or returns nil.
func As(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return nil
}
