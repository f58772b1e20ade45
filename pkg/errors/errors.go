// Package errors provides structured error types for the GeometrieConverter
// application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - DISCONTINUITY / OUT_OF_BOUNDS / AMBIGUOUS_NODE: geometric consistency
//     failures inside a single structure table
//   - JUNCTION_GAP: physically impossible MP/TP relationship
//   - REFERENCE_CONFLICT: disagreeing vertical datums between structures
//   - NOT_FOUND / DUPLICATE_IDENTIFIER / STORAGE_ERROR: structure database
//   - INTERNAL_* / UNSUPPORTED: everything that should not happen
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidData, "the %s table contains invalid data", name)
//	if errors.Is(err, errors.ErrCodeInvalidData) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "failed to load %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidData       Code = "INVALID_DATA"
	ErrCodeInvalidIdentifier Code = "INVALID_IDENTIFIER"

	// Geometric consistency errors
	ErrCodeDiscontinuity Code = "DISCONTINUITY"
	ErrCodeOutOfBounds   Code = "OUT_OF_BOUNDS"
	ErrCodeAmbiguousNode Code = "AMBIGUOUS_NODE"

	// Junction and datum errors
	ErrCodeJunctionGap       Code = "JUNCTION_GAP"
	ErrCodeReferenceConflict Code = "REFERENCE_CONFLICT"

	// Structure database errors
	ErrCodeNotFound            Code = "NOT_FOUND"
	ErrCodeDuplicateIdentifier Code = "DUPLICATE_IDENTIFIER"
	ErrCodeStorage             Code = "STORAGE_ERROR"

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
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
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
