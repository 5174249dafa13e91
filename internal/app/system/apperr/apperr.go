// internal/app/system/apperr/apperr.go

// Package apperr defines the error taxonomy shared by services, stores,
// and HTTP handlers. Stores and services wrap these sentinels with
// fmt.Errorf("%w: ...") so handlers can classify with errors.Is and map
// to an HTTP status without string matching.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidInput marks missing or malformed caller input.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized marks absent or unusable credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden marks an authenticated caller lacking permission.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound marks a missing entity.
	ErrNotFound = errors.New("not found")
	// ErrConflict marks a uniqueness or state conflict.
	ErrConflict = errors.New("conflict")
	// ErrUpstream marks a failed call to an external collaborator
	// (object storage, SMS gateway).
	ErrUpstream = errors.New("upstream service error")
)

// Invalid wraps ErrInvalidInput with a caller-facing detail message.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// NotFound wraps ErrNotFound naming the missing entity.
func NotFound(what string) error {
	return fmt.Errorf("%w: %s", ErrNotFound, what)
}

// Conflict wraps ErrConflict with a caller-facing detail message.
func Conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// Upstream wraps ErrUpstream around a collaborator failure, keeping the
// cause out of the caller-facing message chain.
func Upstream(service string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstream, service, err)
}

// Status maps an error to its HTTP status code. Unclassified errors are
// internal server errors.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the stable machine token for the error class, used in
// the response envelope's error field.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "validation_error"
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrUpstream):
		return "upstream_error"
	default:
		return "internal_error"
	}
}
