// Package errors provides structured error types for the routestim pipeline.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across pipeline stages and the CLI
//   - Machine-readable error codes for programmatic handling
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - RENDER_*, CAPTURE_*, BROWSER_*: Screenshot rendering failures
//   - STORAGE_*: Filesystem and archive failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidConfig, "no home coordinate versions configured")
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeStorage, origErr, "writing %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories. Route-level failures carry
// their own typed errors (the enricher's not-found error, the transport
// retry wrapper) rather than codes here.
const (
	// Input validation errors
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidTrips  Code = "INVALID_TRIPS"

	// Rendering errors
	ErrCodeRenderFailed  Code = "RENDER_FAILED"
	ErrCodeCaptureFailed Code = "CAPTURE_FAILED"
	ErrCodeBrowser       Code = "BROWSER_ERROR"

	// Persistence errors
	ErrCodeStorage Code = "STORAGE_ERROR"
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
