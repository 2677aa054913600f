// Package errors provides standardized domain errors with codes for the scentdex API.
//
// Usage:
//
//	// In services - return typed errors
//	if budget.Exhausted() {
//	    return errors.BudgetExceeded("daily request budget exhausted")
//	}
//
//	// In handlers - check with errors.Is
//	if errors.Is(err, errors.ErrNotFound) {
//	    response.NotFound(w, err.Error(), logger)
//	    return
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-export standard library functions for convenience.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	Join   = errors.Join
)

// Code represents a machine-readable error code.
type Code string

// Error codes used throughout the application.
const (
	CodeNotFound          Code = "NOT_FOUND"
	CodeAlreadyExists     Code = "ALREADY_EXISTS"
	CodeValidation        Code = "VALIDATION"
	CodeConflict          Code = "CONFLICT"
	CodeInternal          Code = "INTERNAL"
	CodeBudgetExceeded    Code = "BUDGET_EXCEEDED"
	CodeRemoteUnavailable Code = "REMOTE_UNAVAILABLE"
	CodeConfigMissing     Code = "CONFIG_MISSING"
	CodeMalformedResponse Code = "MALFORMED_RESPONSE"
)

// HTTPStatus returns the appropriate HTTP status code for an error code.
//
// Note that the external-tier codes map to success-adjacent statuses on
// purpose: budget and remote failures degrade to empty results at the engine
// boundary and should never surface as user-facing errors. The mapping here
// only matters for operator-facing endpoints that expose them directly.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeConflict:
		return http.StatusConflict
	case CodeValidation:
		return http.StatusBadRequest
	case CodeBudgetExceeded:
		return http.StatusTooManyRequests
	case CodeRemoteUnavailable:
		return http.StatusBadGateway
	case CodeConfigMissing:
		return http.StatusServiceUnavailable
	case CodeMalformedResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Error is a domain error with a code, message, and optional details.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error  // unexported, for wrapping
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is reports whether target matches this error.
// Matches if target is an *Error with the same Code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the HTTP status code for this error.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// WithCause wraps an underlying error.
func (e *Error) WithCause(err error) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		cause:   err,
	}
}

// WithDetails returns a new error with additional details.
func (e *Error) WithDetails(details any) *Error {
	return &Error{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		cause:   e.cause,
	}
}

// Sentinel errors for use with errors.Is().
var (
	ErrNotFound          = &Error{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists     = &Error{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation        = &Error{Code: CodeValidation, Message: "validation error"}
	ErrConflict          = &Error{Code: CodeConflict, Message: "conflict"}
	ErrInternal          = &Error{Code: CodeInternal, Message: "internal error"}
	ErrBudgetExceeded    = &Error{Code: CodeBudgetExceeded, Message: "request budget exceeded"}
	ErrRemoteUnavailable = &Error{Code: CodeRemoteUnavailable, Message: "remote source unavailable"}
	ErrConfigMissing     = &Error{Code: CodeConfigMissing, Message: "configuration missing"}
	ErrMalformedResponse = &Error{Code: CodeMalformedResponse, Message: "malformed remote response"}
)

// Constructor functions for creating errors with custom messages.

// NotFound creates a not found error.
func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

// NotFoundf creates a not found error with formatted message.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists creates an already exists error.
func AlreadyExists(msg string) *Error {
	return &Error{Code: CodeAlreadyExists, Message: msg}
}

// Validation creates a validation error.
func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// Validationf creates a validation error with formatted message.
func Validationf(format string, args ...any) *Error {
	return &Error{Code: CodeValidation, Message: fmt.Sprintf(format, args...)}
}

// ValidationWithDetails creates a validation error with details.
func ValidationWithDetails(msg string, details any) *Error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// Conflict creates a conflict error.
func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

// Internal creates an internal error.
func Internal(msg string) *Error {
	return &Error{Code: CodeInternal, Message: msg}
}

// Internalf creates an internal error with formatted message.
func Internalf(format string, args ...any) *Error {
	return &Error{Code: CodeInternal, Message: fmt.Sprintf(format, args...)}
}

// BudgetExceeded creates a budget exceeded error.
func BudgetExceeded(msg string) *Error {
	return &Error{Code: CodeBudgetExceeded, Message: msg}
}

// RemoteUnavailable creates a remote unavailable error.
func RemoteUnavailable(msg string) *Error {
	return &Error{Code: CodeRemoteUnavailable, Message: msg}
}

// ConfigMissing creates a configuration missing error.
func ConfigMissing(msg string) *Error {
	return &Error{Code: CodeConfigMissing, Message: msg}
}

// MalformedResponse creates a malformed response error.
func MalformedResponse(msg string) *Error {
	return &Error{Code: CodeMalformedResponse, Message: msg}
}

// Wrap wraps an error with a code and message.
func Wrap(err error, code Code, msg string) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Wrapf wraps an error with a code and formatted message.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), cause: err}
}
