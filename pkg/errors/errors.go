// Package errors provides structured error types for funnelchart.
//
// Every failure that reaches a user carries a machine-readable [Code] so the
// CLI can print a friendly message and the HTTP API can pick a status code
// without string matching.
//
// # Error Codes
//
// Codes follow the same grouping as the failure they describe:
//   - INVALID_*, NEGATIVE_*, ZERO_*: input and configuration validation
//   - DEGENERATE_GEOMETRY: the funnel cannot be laid out for the given data
//   - NOT_FOUND, FILE_NOT_FOUND: missing resources
//   - NETWORK_ERROR, TIMEOUT: backend connectivity (cache, settings store)
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInputShape, "select two columns and at least two rows")
//	if errors.Is(err, errors.ErrCodeInvalidInputShape) {
//	    // show the notification banner
//	}
//
//	err = errors.Wrap(errors.ErrCodeNetwork, origErr, "connect to %s", addr)
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
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidInputShape  Code = "INVALID_INPUT_SHAPE"
	ErrCodeNegativeValue      Code = "NEGATIVE_VALUE"
	ErrCodeZeroTotal          Code = "ZERO_TOTAL_ENGAGEMENT"
	ErrCodeInvalidConfig      Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidStyle       Code = "INVALID_STYLE"
	ErrCodeInvalidDocument    Code = "INVALID_DOCUMENT"
	ErrCodeDegenerateGeometry Code = "DEGENERATE_GEOMETRY"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Network errors
	ErrCodeNetwork Code = "NETWORK_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// MsgImproperData is the user-facing notification shown when the selected
// range cannot be turned into a funnel.
const MsgImproperData = "select two columns and at least two rows"

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

// IsValidation reports whether err was caused by bad input or configuration,
// as opposed to a backend or internal failure.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidInputShape, ErrCodeNegativeValue,
		ErrCodeZeroTotal, ErrCodeInvalidConfig, ErrCodeInvalidFormat,
		ErrCodeInvalidStyle, ErrCodeInvalidDocument,
		ErrCodeDegenerateGeometry:
		return true
	}
	return false
}
