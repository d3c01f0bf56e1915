package boards

import (
	"errors"
	"fmt"
)

// Sentinel errors for board operations
var (
	// ErrBoardNotFound is returned when a board doesn't exist
	ErrBoardNotFound = errors.New("board not found")

	// ErrAlreadyOnBoard is returned when a post is already attached to the
	// board. This is a soft, user-visible "already saved" condition and is
	// always distinguished from true errors in summaries and responses.
	ErrAlreadyOnBoard = errors.New("post already saved to board")

	// ErrNotBoardOwner is returned when the caller doesn't own the board
	ErrNotBoardOwner = errors.New("board belongs to another user")
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error (%s): %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError checks if error is a validation error
func IsValidationError(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// IsAlreadyOnBoard checks if error is the duplicate-membership condition
func IsAlreadyOnBoard(err error) bool {
	return errors.Is(err, ErrAlreadyOnBoard)
}
