package models

import "fmt"

// AuthError means the bearer token is missing or invalid. It is surfaced as
// a blocking page-level message and never retried.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// ErrNoToken is returned when an authenticated call is attempted without a
// bearer token. The call is skipped, not retried.
var ErrNoToken = &AuthError{Message: "auth token missing"}

// NetworkError is a failed REST call. Message carries the server-provided
// text when the response had one, otherwise a generic fallback.
type NetworkError struct {
	Status  int
	Message string
}

func (e *NetworkError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
	}
	return "request failed: " + e.Message
}

// ValidationError is a local precondition failure raised before any network
// call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ChannelError is a socket connect, auth, or publish failure. The channel
// degrades to snapshot-only; REST functionality stays available.
type ChannelError struct {
	Message string
	Err     error
}

func (e *ChannelError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ChannelError) Unwrap() error { return e.Err }
