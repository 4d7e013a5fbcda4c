// Package fmterr defines the failure taxonomy for the nanofmt CLI and
// vector tooling.
//
// The formatting engine itself never fails; errors arise around it, in
// argument parsing, vector loading, and verification. Every such error maps
// to exactly one FailureClass, which determines the exit code and lets
// vector suites verify failure classification, not just "did it fail."
package fmterr

import "fmt"

// FailureClass is a stable failure category.
type FailureClass string

const (
	CLIUsage       FailureClass = "CLI_USAGE"
	BadFormatArg   FailureClass = "BAD_FORMAT_ARG"
	VectorLoad     FailureClass = "VECTOR_LOAD"
	VectorMismatch FailureClass = "VECTOR_MISMATCH"
	InternalIO     FailureClass = "INTERNAL_IO"
	InternalError  FailureClass = "INTERNAL_ERROR"
)

// ExitCode returns the process exit code for this failure class.
func (fc FailureClass) ExitCode() int {
	switch fc {
	case InternalIO, InternalError:
		return 10
	default:
		return 2
	}
}

// Error is the structured error type for all nanofmt tooling failures.
type Error struct {
	Class   FailureClass
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fmterr: %s: %s: %v", e.Class, e.Message, e.Cause)
	}
	return fmt.Sprintf("fmterr: %s: %s", e.Class, e.Message)
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class FailureClass, message string) *Error {
	return &Error{Class: class, Message: message}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class FailureClass, message string, cause error) *Error {
	return &Error{Class: class, Message: message, Cause: cause}
}
