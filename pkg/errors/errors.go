// Package errors provides structured error types for swiftadd.
//
// Error codes are machine-readable and map onto the failure classes the
// CLI reports: unrecognized manifest shapes, missing targets, bad paths,
// toolchain failures, and malformed lockfiles.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeTargetNotFound, "no target named %q", name)
//	if errors.Is(err, errors.ErrCodeTargetNotFound) {
//	    // handle missing target
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidLockfile, cause, "read %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Structural errors: a required anchor found no match in the manifest.
	ErrCodeInvalidManifest Code = "INVALID_MANIFEST"

	// A named target does not exist in the manifest.
	ErrCodeTargetNotFound Code = "TARGET_NOT_FOUND"

	// The requested dependency is already declared in the manifest.
	ErrCodeAlreadyDeclared Code = "ALREADY_DECLARED"

	// I/O errors: project files missing or unreadable.
	ErrCodeInvalidPath  Code = "INVALID_PATH"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// The external toolchain exited non-zero.
	ErrCodeToolchainFailed Code = "TOOLCHAIN_FAILED"

	// The lockfile is missing expected fields or is not valid JSON.
	ErrCodeInvalidLockfile Code = "INVALID_LOCKFILE"

	// Catalog lookup errors.
	ErrCodePackageNotFound Code = "PACKAGE_NOT_FOUND"
	ErrCodeNetwork         Code = "NETWORK_ERROR"

	// Input validation errors.
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidVersion Code = "INVALID_VERSION"
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
