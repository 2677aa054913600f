package perfumero

import (
	"errors"
	"fmt"
)

// Sentinel errors for Perfumero API operations.
var (
	ErrNotFound       = errors.New("perfumero: not found")
	ErrRateLimited    = errors.New("perfumero: rate limited by server")
	ErrUnauthorized   = errors.New("perfumero: invalid or missing credentials")
	ErrServer         = errors.New("perfumero: server error")
	ErrBudgetExceeded = errors.New("perfumero: daily request budget exhausted")
	ErrNoCredentials  = errors.New("perfumero: no API credentials configured")
	ErrMalformed      = errors.New("perfumero: malformed response")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // Operation: "search", "getDetails", "getSimilar"
	Query string // Search query or perfume ID, if applicable
	Err   error
}

func (e *Error) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("perfumero %s [%s]: %v", e.Op, e.Query, e.Err)
	}
	return fmt.Sprintf("perfumero %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, query string, err error) error {
	return &Error{Op: op, Query: query, Err: err}
}
