// Package errors provides structured error types for jigsaw.
//
// Every failure the solver can produce is fatal: the algorithm depends on a
// single, globally consistent tiling existing, so retrying the same input can
// never succeed. Errors therefore carry a machine-readable [Code] that callers
// (CLI, HTTP API) map to exit codes and status codes, instead of a retry hint.
//
// # Error Codes
//
// Solver codes name the stage that failed:
//   - UNKNOWN_TILE: a tile identifier is not in the store
//   - AMBIGUOUS_ADJACENCY: one tile side matches more than one other tile
//   - INVALID_ARRANGEMENT: neighbor counts cannot form a square grid
//   - INCONSISTENT_ORIENTATION: a neighbor has zero or several fitting orientations
//   - PATTERN_NOT_FOUND: no canvas orientation contains the pattern
//
// Input codes (INVALID_*) cover parsing and configuration problems.
// RESULT_MISMATCH reports a solve whose answers differ from expected values.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeUnknownTile, "tile %d not found", id)
//	if errors.Is(err, errors.ErrCodeUnknownTile) {
//	    // Handle missing tile
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidFormat, origErr, "line %d", n)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Solver errors
	ErrCodeUnknownTile             Code = "UNKNOWN_TILE"
	ErrCodeAmbiguousAdjacency      Code = "AMBIGUOUS_ADJACENCY"
	ErrCodeInvalidArrangement      Code = "INVALID_ARRANGEMENT"
	ErrCodeInconsistentOrientation Code = "INCONSISTENT_ORIENTATION"
	ErrCodePatternNotFound         Code = "PATTERN_NOT_FOUND"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidPath   Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Verification errors
	ErrCodeResultMismatch Code = "RESULT_MISMATCH"

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

// IsSolverError reports whether err was produced by one of the solver stages
// (as opposed to bad input, configuration, or I/O).
func IsSolverError(err error) bool {
	switch GetCode(err) {
	case ErrCodeUnknownTile,
		ErrCodeAmbiguousAdjacency,
		ErrCodeInvalidArrangement,
		ErrCodeInconsistentOrientation,
		ErrCodePatternNotFound:
		return true
	}
	return false
}
