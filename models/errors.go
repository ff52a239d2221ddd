package models

import (
	"errors"
	"net/http"
)

// ErrorKind tags a domain error so callers can branch programmatically
// instead of matching message text.
type ErrorKind string

const (
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindNotFound        ErrorKind = "not_found"
	KindValidation      ErrorKind = "validation"
	KindConflict        ErrorKind = "conflict"
)

// APIError is a tagged domain error recovered at the operation boundary and
// turned into a structured response. Anything else escaping a service is an
// infrastructure failure and surfaces as a generic server error.
type APIError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

func Unauthenticated(msg string) *APIError {
	return &APIError{Kind: KindUnauthenticated, Message: msg}
}

func Forbidden(msg string) *APIError {
	return &APIError{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string) *APIError {
	return &APIError{Kind: KindNotFound, Message: msg}
}

func Validation(msg string) *APIError {
	return &APIError{Kind: KindValidation, Message: msg}
}

func ValidationDetails(msg, details string) *APIError {
	return &APIError{Kind: KindValidation, Message: msg, Details: details}
}

func Conflict(msg string) *APIError {
	return &APIError{Kind: KindConflict, Message: msg}
}

// AsAPIError unwraps err to an *APIError if one is in the chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// HTTPStatus maps an error kind to its transport status. Conflicts report
// as 400 with a descriptive message rather than a distinct status code;
// the Kind field is the programmatic discriminator.
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
