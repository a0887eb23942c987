package netmaker

import (
	"errors"
	"fmt"
)

// ErrNotFound signals that a fetch-by-name found no resource. It is a
// valid fetch outcome, not a failure: the reconciler turns it into the
// fetched-absent state. Covers plain 404 responses and the legacy
// 500 + "no result found" shape returned by older Netmaker servers.
var ErrNotFound = errors.New("resource not found")

// IsNotFound reports whether err marks resource absence
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// APIError is a non-2xx response other than fetch-absence. It carries
// the HTTP status and the server-provided message verbatim.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("netmaker API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("netmaker API error: status %d: %s", e.StatusCode, e.Message)
}

// ConnectivityError is a transport-level failure (timeout, DNS, TLS)
// before any HTTP status was received. Never retried internally.
type ConnectivityError struct {
	URL string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("cannot reach netmaker API at %s: %v", e.URL, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// AuthError reports rejected or incomplete credentials
type AuthError struct {
	Reason string
	Err    error
}

func (e *AuthError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("authentication failed: %s: %v", e.Reason, e.Err)
	}
	return "authentication failed: " + e.Reason
}

func (e *AuthError) Unwrap() error {
	return e.Err
}
