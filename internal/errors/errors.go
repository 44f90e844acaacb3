package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig   = "CONFIG"   // bad config, fatal at startup
	ErrTerminal = "TERMINAL" // terminal not attachable, fatal at startup
	ErrSnapshot = "SNAPSHOT" // shared segment not attachable; nobody online
	ErrDecode   = "DECODE"   // malformed snapshot buffer
	ErrLookup   = "LOOKUP"   // file size, group or geo lookup failed
	ErrAction   = "ACTION"   // kick request failed
)

// Error represents a structured error with code, message, suggestion, and optional cause.
// Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Short returns the message and cause on one line, for inline status bars
// where the multi-line form does not fit.
func (e *Error) Short() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var spyErr *Error
	if errors.As(err, &spyErr) {
		return spyErr.Code == code
	}
	return false
}

// Fatal reports whether err must abort the program rather than degrade a
// single refresh cycle.
func Fatal(err error) bool {
	return IsCode(err, ErrConfig) || IsCode(err, ErrTerminal)
}
