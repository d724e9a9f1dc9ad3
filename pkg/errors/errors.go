// Package errors provides structured error types for treegen.
//
// This package defines error codes and types that enable:
//   - One taxonomy shared by the codec, the tree protocol, and the embedding layers
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codec and the tree protocol raise exactly four kinds of failure:
//   - DECODE_ERROR: malformed, truncated, or unsupported byte stream
//   - TYPE_ERROR: an edge assignment or encode violates the declared type
//   - NOT_WELL_FORMED: missing required edge, empty Many, unresolved Link, sharing
//   - LINK_RESOLUTION: a link's target sequence id has no node after deserialization
//
// UNKNOWN_NODE_TYPE narrows DECODE_ERROR for unrecognized discriminators.
// The remaining codes are used by the embedding layers (schema files, cache,
// CLI, HTTP server).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotWellFormed, "%s.%s is required but not set", typ, field)
//	if errors.Is(err, errors.ErrCodeNotWellFormed) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeDecode, origErr, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Codec and protocol errors
	ErrCodeDecode          Code = "DECODE_ERROR"
	ErrCodeType            Code = "TYPE_ERROR"
	ErrCodeNotWellFormed   Code = "NOT_WELL_FORMED"
	ErrCodeLinkResolution  Code = "LINK_RESOLUTION"
	ErrCodeUnknownNodeType Code = "UNKNOWN_NODE_TYPE"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidSchema Code = "INVALID_SCHEMA"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Storage errors
	ErrCodeStorage Code = "STORAGE_ERROR"

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
// UNKNOWN_NODE_TYPE errors also match DECODE_ERROR.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		if code == ErrCodeDecode && e.Code == ErrCodeUnknownNodeType {
			return true
		}
		err = e.Cause
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
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
