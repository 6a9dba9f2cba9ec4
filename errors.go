package goAquao

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig wraps every configuration problem reported by [Config.Validate] and [LoadConfig].
	ErrInvalidConfig = errors.New("invalid configuration")
	// ErrTransport wraps network failures while sending a request or reading its body.
	ErrTransport = errors.New("transport failure")
	// ErrUnexpectedStatus is matched by every [StatusError].
	ErrUnexpectedStatus = errors.New("unexpected response status")
	// ErrTokenIssue wraps failures of the token issuer.
	ErrTokenIssue = errors.New("token issue failed")
	// ErrBuilderUsed is returned when Build is called twice on the same Builder.
	ErrBuilderUsed = errors.New("builder already used")
)

// StatusError reports a non-2xx response. The sequence stops at the first one.
type StatusError struct {
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("GET %s: status %d", e.Path, e.StatusCode)
	}
	return fmt.Sprintf("GET %s: status %d: %s", e.Path, e.StatusCode, e.Body)
}

// Unwrap lets errors.Is match [ErrUnexpectedStatus].
func (e *StatusError) Unwrap() error {
	return ErrUnexpectedStatus
}
