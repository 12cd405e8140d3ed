package client

import (
	"errors"
	"fmt"
)

// ErrNotReady is returned when the artifact is requested before the task has
// completed.
var ErrNotReady = errors.New("artifact not ready")

// ValidationError reports a request the server rejected as invalid. It is
// never retried; the input has to change.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// ServerError reports a non-validation HTTP failure from the API
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.StatusCode, e.Message)
}

// TransportError reports a network-level failure: connection refused, DNS,
// or the 30 second request timeout. Retrying is the caller's decision.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsTransport reports whether err is a TransportError
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
