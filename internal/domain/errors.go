package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error produced by the services wraps exactly one of these,
// so callers can branch with errors.Is.
var (
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrDomainValidation = errors.New("domain validation failed")
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
)

// Error carries a human-readable reason on top of its kind
type Error struct {
	Kind    error
	Message string
	Details string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// InvalidArgument reports malformed input: unknown enum values, bad JSON,
// out-of-range pagination or an inverted price range.
func InvalidArgument(format string, args ...any) error {
	return newError(ErrInvalidArgument, format, args...)
}

// RuleViolation reports a business-rule violation.
func RuleViolation(format string, args ...any) error {
	return newError(ErrDomainValidation, format, args...)
}

func NotFound(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func Conflict(details, format string, args ...any) error {
	e := newError(ErrConflict, format, args...)
	e.Details = details
	return e
}

func Unauthorized(format string, args ...any) error {
	return newError(ErrUnauthorized, format, args...)
}

func Forbidden(format string, args ...any) error {
	return newError(ErrForbidden, format, args...)
}

// Details returns the details of a domain error, if any
func Details(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Details
	}
	return ""
}
