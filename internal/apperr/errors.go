// Package apperr defines the error taxonomy shared by services and handlers.
// Every error a service returns to a handler is either one of these kinds or
// an internal failure; handlers translate kinds into HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies an application error.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindAlreadyExists
	KindForbidden
	KindUnauthorized
)

// Error is a classified application error with optional per-field detail.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation reports malformed, missing, or out-of-range input.
func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// ValidationFields reports invalid input with per-field messages.
func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: message, Fields: fields}
}

// NotFound reports a referenced entity that does not exist.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// AlreadyExists reports a duplicate membership or subscription.
func AlreadyExists(message string) *Error {
	return &Error{Kind: KindAlreadyExists, Message: message}
}

// Forbidden reports an authenticated caller lacking permission.
func Forbidden(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// Unauthorized reports a missing or invalid identity.
func Unauthorized(message string) *Error {
	return &Error{Kind: KindUnauthorized, Message: message}
}

// KindOf extracts the kind from err, or KindInternal if err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error to the status code it should be rendered with.
// Duplicate adds and missing-entry deletes are both client errors (400),
// matching the original API contract.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindAlreadyExists:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
