package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Fetch error taxonomy. Per-station fetch failures are classified into one of
// these so the coordinator can log and count them uniformly.
var (
	// ErrMalformedResponse marks a body that is empty, null, or not valid JSON.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrNoObservations marks a current-conditions payload whose observations
	// array is absent or empty; the station is likely offline upstream.
	ErrNoObservations = errors.New("no observations data")
	// ErrTimeout marks a request that exceeded its deadline.
	ErrTimeout = errors.New("request timed out")
	// ErrNotReady is returned by the first refresh when no station has ever
	// produced data, so callers can abort or retry setup.
	ErrNotReady = errors.New("no station has produced data yet")
)

// HTTPError reports a non-200 upstream status.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.Status)
}

// APIError aggregates the messages of an upstream "errors" array.
type APIError struct {
	Messages []string
}

func (e *APIError) Error() string {
	return "api error: " + strings.Join(e.Messages, "; ")
}
