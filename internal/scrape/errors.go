package scrape

import (
	"errors"
	"fmt"

	"Curio/internal/core/posts"
)

// ErrCircuitOpen indicates the circuit breaker is open for a platform
var ErrCircuitOpen = errors.New("circuit breaker open")

// FetchError is an upstream HTTP or non-JSON failure. The client never
// retries these internally; retry policy belongs to the caller.
type FetchError struct {
	Body       string
	StatusCode int
}

func (e *FetchError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream fetch failed: status %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream fetch failed: status %d: %s", e.StatusCode, e.Body)
}

// IsFetchError checks if error is an upstream fetch failure
func IsFetchError(err error) bool {
	var fetchErr *FetchError
	return errors.As(err, &fetchErr)
}

// TransformError is returned when a raw upstream item is missing a required
// field (at minimum the platform post ID) and cannot be normalized. The
// offending item is skipped by callers, never fatal to a batch.
type TransformError struct {
	Platform posts.Platform
	Field    string
}

func (e *TransformError) Error() string {
	return fmt.Sprintf("cannot normalize %s item: missing %s", e.Platform, e.Field)
}

// IsTransformError checks if error is a normalization failure
func IsTransformError(err error) bool {
	var transformErr *TransformError
	return errors.As(err, &transformErr)
}
