package posts

import (
	"errors"
)

// Sentinel errors for common post operations
var (
	// ErrNotFound is returned when a post cannot be found by either ID form
	ErrNotFound = errors.New("post not found")

	// ErrInvalidPlatform is returned for platforms we don't ingest from
	ErrInvalidPlatform = errors.New("invalid platform")
)

// IsNotFound checks if error is a post-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
