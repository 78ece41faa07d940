// Package apperr defines the error taxonomy shared by the service and the
// HTTP layer. Every request-terminating failure is one of four kinds, each
// mapping to a single HTTP status.
package apperr

import "net/http"

// Kind classifies a request failure.
type Kind int

const (
	// KindAuthentication means the credential is missing, malformed,
	// expired, or carries a bad signature.
	KindAuthentication Kind = iota + 1
	// KindAuthorization means the credential is valid but the caller is
	// not the owner of the requested resource.
	KindAuthorization
	// KindNotFound means no task with that id exists under the caller.
	KindNotFound
	// KindValidation means the request shape or field constraints are bad.
	KindValidation
)

// Error is a classified, user-presentable request failure.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

// Status returns the HTTP status code for the error's kind.
func (e *Error) Status() int {
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Authentication returns a 401-class error.
func Authentication(msg string) *Error {
	return &Error{Kind: KindAuthentication, Message: msg}
}

// Authorization returns a 403-class error.
func Authorization(msg string) *Error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

// NotFound returns a 404-class error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Validation returns a 422-class error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}
