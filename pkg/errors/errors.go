// Package errors provides structured error types for chartlayout.
//
// Layout passes themselves never fail: bad rows are normalized into the
// missing state and degenerate geometry is clamped. Errors only appear at
// the edges of the system, where tables are loaded, chart documents are
// decoded, options are validated, and results are cached, stored or
// rendered.
//
// # Error Codes
//
//   - INVALID_*: input validation failures (HTTP 400)
//   - NOT_FOUND: a stored layout or file does not exist (HTTP 404)
//   - CACHE, STORAGE, RENDER, INTERNAL: infrastructure failures (HTTP 500)
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidChartType, "unknown chart type %q", kind)
//	if errors.Is(err, errors.ErrCodeInvalidChartType) {
//	    // reject the request
//	}
//
//	err = errors.Wrap(errors.ErrCodeInvalidData, origErr, "read sheet %s", sheet)
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
	ErrCodeInvalidData      Code = "INVALID_DATA"
	ErrCodeInvalidSetting   Code = "INVALID_SETTING"
	ErrCodeInvalidChartType Code = "INVALID_CHART_TYPE"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidBounds    Code = "INVALID_BOUNDS"
	ErrCodeUnsupportedInput Code = "UNSUPPORTED_INPUT"

	// Resource errors
	ErrCodeNotFound Code = "NOT_FOUND"
	ErrCodeCache    Code = "CACHE"
	ErrCodeStorage  Code = "STORAGE"
	ErrCodeRender   Code = "RENDER"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

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
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has the given code.
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

// IsInvalid reports whether err carries one of the INVALID_* or
// UNSUPPORTED_INPUT codes, i.e. whether the caller supplied bad input.
func IsInvalid(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidData, ErrCodeInvalidSetting, ErrCodeInvalidChartType,
		ErrCodeInvalidFormat, ErrCodeInvalidBounds, ErrCodeUnsupportedInput:
		return true
	}
	return false
}

// UserMessage returns the message without the code prefix for *Error
// values and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
