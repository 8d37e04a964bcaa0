// Package errors provides structured error types for hydronet.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes follow the failure taxonomy of the network model:
//   - CONSTRAINT_VIOLATION: an attribute or link broke a construction rule
//     (fraction outside [0,1], negative dimension, non-entity link)
//   - LOOKUP_FAILED: a trace or aggregate started from an entity the
//     relevant tier does not know
//   - INVALID_*: malformed input records, references or configuration
//   - INTERNAL: unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeConstraint, "fprop %v outside [0,1]", v)
//	if errors.Is(err, errors.ErrCodeConstraint) {
//	    // Handle constraint violation
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeLookup, origErr, "trace from reach %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Construction-time errors
	ErrCodeConstraint Code = "CONSTRAINT_VIOLATION"

	// Query-time errors
	ErrCodeLookup             Code = "LOOKUP_FAILED"
	ErrCodeUndefinedAttribute Code = "UNDEFINED_ATTRIBUTE"

	// Input validation errors
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidRecord    Code = "INVALID_RECORD"
	ErrCodeInvalidReference Code = "INVALID_REFERENCE"
	ErrCodeInvalidConfig    Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	for err != nil {
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsConstraint reports whether err is a construction-time constraint violation.
func IsConstraint(err error) bool { return Is(err, ErrCodeConstraint) }

// IsLookup reports whether err is a query-time lookup failure.
func IsLookup(err error) bool { return Is(err, ErrCodeLookup) }
