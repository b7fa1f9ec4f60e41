package provider

import (
	"errors"
	"fmt"
)

// Closed failure taxonomy. Every Gateway failure unwraps to exactly one of
// these sentinels so callers can branch with errors.Is.
var (
	// ErrMissingCredential is returned when no credential was supplied;
	// the Gateway fails before any network call is made
	ErrMissingCredential = errors.New("provider: missing credential")

	// ErrCredentialRejected is returned when the provider reported an
	// auth or key-validation failure
	ErrCredentialRejected = errors.New("provider: credential rejected")

	// ErrRateLimited is returned when the provider signalled a quota or
	// too-many-requests condition
	ErrRateLimited = errors.New("provider: rate limited")

	// ErrProvider is returned for any other non-success provider status
	ErrProvider = errors.New("provider: request failed")

	// ErrMalformedResponse is returned when the provider answered with a
	// success status but the completion text is absent from the payload
	ErrMalformedResponse = errors.New("provider: malformed response")

	// ErrNetworkFailure is returned when the call could not complete at
	// all (timeout, DNS failure, connection reset)
	ErrNetworkFailure = errors.New("provider: network failure")
)

// Error carries the distinguishing signal from a failed provider call: the
// taxonomy kind, the HTTP status (zero when no response was received), and
// the provider's own error message. The credential is scrubbed from both
// Message and the wrapped error before Error is constructed.
type Error struct {
	Kind       error
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%v: %s", e.Kind, e.Message)
}

// Unwrap returns the taxonomy sentinel for errors.Is matching.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, status int, message string) *Error {
	return &Error{Kind: kind, StatusCode: status, Message: message}
}
