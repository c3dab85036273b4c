package fetch

import (
	"errors"
	"fmt"
)

var (
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// StatusError reports a non-2xx HTTP response from a provider.
type StatusError struct {
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Status)
}

// ParseError reports a malformed provider response body. It is never retried
// against the same source; the chain moves on to the next one.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed response: %v", e.Source, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ExhaustedError is returned by Do once every attempt allowed by the policy
// has failed with a retryable error. It carries the last observed error.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("exhausted %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// AllFailedError is returned by First when every source in the chain failed.
type AllFailedError struct {
	Last error
}

func (e *AllFailedError) Error() string {
	return fmt.Sprintf("all sources failed: %v", e.Last)
}

func (e *AllFailedError) Unwrap() error { return e.Last }

// IsClientError reports whether err was caused by a 4xx response. Client
// errors abort a source immediately; retrying the same request cannot help.
func IsClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status >= 400 && se.Status < 500
}

// retryable classifies an attempt failure. Server errors and network-level
// failures are worth retrying; 4xx responses, malformed bodies and an open
// circuit are not.
func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Status >= 500
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return false
	}
	if errors.Is(err, errCircuitOpen) {
		return false
	}
	return true
}
