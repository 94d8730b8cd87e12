// Package errors provides the structured error type used across the column
// packages.
//
// Errors carry a category (ErrorType), a message, an optional cause and free
// form details. Errors created with New or Wrap also record the call stack.
// Sentinel builds stackless values meant to be allocated once at package
// init and returned from hot paths, where callers compare them with the
// standard library errors.Is.
package errors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error
type ErrorType string

const (
	// ErrorTypeInternal represents broken internal invariants
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeValidation represents invalid arguments or configuration values
	ErrorTypeValidation ErrorType = "validation"
	// ErrorTypeTypeMismatch represents an operation applied to a column whose
	// physical representation cannot serve it
	ErrorTypeTypeMismatch ErrorType = "type_mismatch"
	// ErrorTypeCapability represents features not supported by a column kind
	ErrorTypeCapability ErrorType = "capability"
	// ErrorTypeShared represents a write attempted through a shared column handle
	ErrorTypeShared ErrorType = "shared"
	// ErrorTypeData represents malformed encoded or imported data
	ErrorTypeData ErrorType = "data"
	// ErrorTypeConfig represents configuration loading errors
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeFile represents failures opening or mapping chunk files
	ErrorTypeFile ErrorType = "file"
)

// Error represents a structured error with context
type Error struct {
	Type    ErrorType
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack
type StackFrame struct {
	Function string
	File     string
	Line     int
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithDetail adds a key-value detail to the error
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf is New with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Sentinel creates a stackless error. Use it for package-level values that
// are returned by identity and must never be mutated with WithDetail.
func Sentinel(errType ErrorType, message string) *Error {
	return &Error{Type: errType, Message: message}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// Keep the innermost stack so the origin stays visible.
	var existing *Error
	if errors.As(err, &existing) && existing.Stack != nil {
		return &Error{
			Type:    errType,
			Message: message,
			Cause:   err,
			Stack:   existing.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// TypeOf returns the category of the outermost *Error in err's chain, or
// ErrorTypeInternal when there is none.
func TypeOf(err error) ErrorType {
	var e *Error
	if !errors.As(err, &e) {
		return ErrorTypeInternal
	}
	return e.Type
}

// captureStack captures the current call stack
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	pcs := make([]uintptr, maxFrames)
	n := runtime.Callers(skip+1, pcs)
	if n == 0 {
		return nil
	}
	frames := runtime.CallersFrames(pcs[:n])

	out := make([]StackFrame, 0, n)
	for {
		frame, more := frames.Next()
		out = append(out, StackFrame{
			Function: frame.Function,
			File:     frame.File,
			Line:     frame.Line,
		})
		if !more {
			break
		}
	}
	return out
}
