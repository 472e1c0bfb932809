package remote

import (
	"errors"
	"fmt"
)

// ErrInvalidToken indicates the bearer credential was rejected
var ErrInvalidToken = errors.New("invalid or expired API token")

// ErrRateLimited indicates the API rate limit was exceeded
var ErrRateLimited = errors.New("learning service rate limit exceeded")

// ServerError represents a 5xx error from the learning service
type ServerError struct {
	StatusCode int
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("learning service error: HTTP %d", e.StatusCode)
}

// RejectionError represents an application-level rejection (4xx other than
// auth or rate limiting). The sync engine treats it like any other delivery
// failure; the detail exists for the activity log.
type RejectionError struct {
	StatusCode int
	Detail     string
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("submission rejected: HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("submission rejected: HTTP %d: %s", e.StatusCode, e.Detail)
}
