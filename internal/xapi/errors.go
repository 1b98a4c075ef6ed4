package xapi

import "fmt"

type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrUserNotFound is returned when the platform reports no user for the
	// given handle
	ErrUserNotFound Error = "user not found"
)

// APIError is returned when the platform responded with a failure status.
// The raw response body is kept for diagnosis.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("x api error %d: %s", e.StatusCode, e.Body)
}

// ValidationError is returned when a client-side input constraint is
// violated. The request is never sent.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// TransportError is returned on a network-level failure (connection refused,
// timeout). It carries no status code, distinguishing it from APIError.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return "transport error: " + e.Err.Error() }

func (e *TransportError) Unwrap() error { return e.Err }
