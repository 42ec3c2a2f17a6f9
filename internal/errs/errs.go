// Package errs defines the error values handlers return to the HTTP layer.
//
// Every failure of a marks request falls into one of three kinds: the request
// was invalid (400), nothing matched (404), or the datastore failed (500).
// The global error handler renders an *HTTPError as a small JSON object with a
// human-readable message; the wrapped cause is only logged.
package errs

import (
	"errors"
	"net/http"
)

// HTTPError is an error with the status code and client-facing message it
// should be rendered with.
type HTTPError struct {
	Status  int
	Message string
	Err     error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *HTTPError) Unwrap() error { return e.Err }

// NewValidationError reports a malformed or incomplete request.
func NewValidationError(message string) *HTTPError {
	return &HTTPError{Status: http.StatusBadRequest, Message: message}
}

// NewNotFoundError reports that no row matched or was affected.
func NewNotFoundError(message string) *HTTPError {
	return &HTTPError{Status: http.StatusNotFound, Message: message}
}

// NewDatastoreError hides err behind a generic message for the client.
func NewDatastoreError(message string, err error) *HTTPError {
	return &HTTPError{Status: http.StatusInternalServerError, Message: message, Err: err}
}

// StatusOf returns the HTTP status err maps to, 500 for anything unknown.
func StatusOf(err error) int {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status
	}
	return http.StatusInternalServerError
}
