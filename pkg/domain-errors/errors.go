// Package domainerrors provides coded errors for the cadastre domain.
//
// Stores report infrastructure facts through pkg/platform/sentinel; services
// translate those facts (and their own precondition failures) into coded
// domain errors so transports can map them to responses without string
// matching. Every rejected precondition surfaces a distinguishable code,
// never a bare boolean or a generic error.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of domain failure.
type Code string

const (
	// CodeUnauthorized: the caller is neither the record owner nor present
	// in the access control list for the operation it attempted.
	CodeUnauthorized Code = "unauthorized"

	// CodeAdminOnly: a non-admin principal attempted an access control list
	// mutation.
	CodeAdminOnly Code = "admin_only"

	// CodeNotFound: the referenced location has no property record.
	CodeNotFound Code = "not_found"

	// CodeAlreadyExists: registration collision on a location.
	CodeAlreadyExists Code = "already_exists"

	// CodeAlreadyPriced: a transaction record was already created for the
	// property (its price is non-zero).
	CodeAlreadyPriced Code = "already_priced"

	// Ambient codes shared across modules.
	CodeBadRequest         Code = "bad_request"
	CodeInvalidInput       Code = "invalid_input"
	CodeConflict           Code = "conflict"
	CodeForbidden          Code = "forbidden"
	CodeInvariantViolation Code = "invariant_violation"
	CodeTimeout            Code = "timeout"
	CodeInternal           Code = "internal_error"
)

// Error is a coded domain error, optionally wrapping a cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded domain error.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying cause. The cause remains
// reachable through errors.Is / errors.Unwrap.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	for errors.As(err, &de) {
		if de.Code == code {
			return true
		}
		err = de.cause
	}
	return false
}

// Is is a convenience alias for HasCode, kept for handler readability.
func Is(err error, code Code) bool { return HasCode(err, code) }

// CodeOf returns the outermost code carried by err, or CodeInternal when err
// is not a domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code to its transport status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeUnauthorized, CodeAdminOnly:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeAlreadyExists, CodeAlreadyPriced, CodeConflict:
		return http.StatusConflict
	case CodeBadRequest, CodeInvalidInput:
		return http.StatusBadRequest
	case CodeForbidden:
		return http.StatusForbidden
	case CodeInvariantViolation:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
