package fetcher

import (
	"fmt"
	"net/http"
)

// ValidationError means a required field was missing; nothing was sent upstream.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// UpstreamError is a non-2xx response from adventofcode.com.
type UpstreamError struct {
	Status int
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("failed to fetch leaderboard: upstream responded with status %d", e.Status)
}

// Hint explains the common upstream statuses.
func (e *UpstreamError) Hint() string {
	switch e.Status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return "check that the session token is current and has access to this leaderboard"
	case http.StatusNotFound:
		return "check the year and leaderboard code"
	}
	return ""
}

// TransportError covers network failures and unreadable bodies.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "failed to fetch leaderboard"
	}
	return fmt.Sprintf("failed to fetch leaderboard: %s", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
