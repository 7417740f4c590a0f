// Package errors carries the uniform error codes used across the server.
// Caller misuse is detected at the dispatch boundary; everything raised while
// talking to the ledger or a price source is a downstream failure.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// Code identifies a class of failure.
type Code string

const (
	CodeUnknown               Code = "UNKNOWN"
	CodeUnknownOperation      Code = "UNKNOWN_OPERATION"
	CodeInvalidArgument       Code = "INVALID_ARGUMENT"
	CodeDownstreamFailure     Code = "DOWNSTREAM_FAILURE"
	CodeInitializationFailure Code = "INITIALIZATION_FAILURE"
	CodeStorageFailure        Code = "STORAGE_FAILURE"
	CodeQueueFailure          Code = "QUEUE_FAILURE"
	CodeTimeout               Code = "TIMEOUT"
)

// Severity describes how serious a failure class is, for logging and audit.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Attributes provide default behaviour per error code.
type Attributes struct {
	Message  string
	Severity Severity
}

var registry = map[Code]Attributes{
	CodeUnknown:               {Message: "unknown error", Severity: SeverityCritical},
	CodeUnknownOperation:      {Message: "unknown operation", Severity: SeverityInfo},
	CodeInvalidArgument:       {Message: "invalid arguments", Severity: SeverityInfo},
	CodeDownstreamFailure:     {Message: "downstream call failed", Severity: SeverityWarning},
	CodeInitializationFailure: {Message: "component not initialized", Severity: SeverityCritical},
	CodeStorageFailure:        {Message: "storage failure", Severity: SeverityWarning},
	CodeQueueFailure:          {Message: "queue failure", Severity: SeverityWarning},
	CodeTimeout:               {Message: "operation timed out", Severity: SeverityWarning},
}

// AttributesOf returns the attributes for a code, falling back to UNKNOWN.
func AttributesOf(code Code) Attributes {
	if attr, ok := registry[code]; ok {
		return attr
	}
	return registry[CodeUnknown]
}

// Error is the uniform error type. It wraps an optional cause and keeps the
// original message text so the dispatch boundary can surface it verbatim.
type Error struct {
	code    Code
	message string
	cause   error
}

// New creates an error with the given code and message. An empty message
// falls back to the code's registered default.
func New(code Code, message string) *Error {
	if message == "" {
		message = AttributesOf(code).Message
	}
	return &Error{code: code, message: message}
}

// Newf creates an error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap decorates an existing error with a code and message.
func Wrap(code Code, cause error, message string) *Error {
	e := New(code, message)
	e.cause = cause
	return e
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.code, e.message)
}

// Unwrap implements errors.Unwrap.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Is matches errors by code so errors.Is works across wrap layers.
func (e *Error) Is(target error) bool {
	if e == nil || target == nil {
		return false
	}
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.code == t.code
}

// Code returns the error code.
func (e *Error) Code() Code {
	if e == nil {
		return CodeUnknown
	}
	return e.code
}

// Message returns the human-readable message without the code prefix.
func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// From extracts the uniform error type from any error chain.
func From(err error) (*Error, bool) {
	if err == nil {
		return nil, false
	}
	var target *Error
	if stdErrors.As(err, &target) {
		return target, true
	}
	return nil, false
}

// CodeOf returns the code carried by err, or UNKNOWN.
func CodeOf(err error) Code {
	if e, ok := From(err); ok {
		return e.Code()
	}
	return CodeUnknown
}

// SeverityOf returns the severity attribute of err's code.
func SeverityOf(err error) Severity {
	return AttributesOf(CodeOf(err)).Severity
}
