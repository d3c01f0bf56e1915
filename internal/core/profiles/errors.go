package profiles

import (
	"errors"
)

// ErrProfileNotFound is returned when no profile matches (handle, platform)
var ErrProfileNotFound = errors.New("profile not found")

// IsNotFound checks if error is a profile-not-found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrProfileNotFound)
}
