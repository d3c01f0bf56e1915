package boards

import (
	"context"

	"Curio/internal/core/posts"
)

// Repository defines the data access interface for boards and membership.
type Repository interface {
	// Create inserts a new board owned by ownerID.
	Create(ctx context.Context, board *Board) (*Board, error)

	// GetByID retrieves a board. Returns ErrBoardNotFound when missing.
	GetByID(ctx context.Context, boardID int64) (*Board, error)

	// ListByOwner returns all boards owned by ownerID, newest first.
	ListByOwner(ctx context.Context, ownerID string) ([]*Board, error)

	// AddPost attaches a post to a board. Returns ErrAlreadyOnBoard when
	// the (boardID, postID) pair already exists; the existing row is left
	// untouched.
	AddPost(ctx context.Context, boardID, postID int64) error

	// BoardsContainingPost returns the caller's boards that contain the
	// given post ID.
	BoardsContainingPost(ctx context.Context, postID int64, ownerID string) ([]*Board, error)
}

// Service defines the business logic interface for boards.
type Service interface {
	// CreateBoard validates and creates a board for the caller.
	CreateBoard(ctx context.Context, ownerID, name string) (*Board, error)

	// ListBoards returns the caller's boards.
	ListBoards(ctx context.Context, ownerID string) ([]*Board, error)

	// GetOwnedBoard retrieves a board and verifies the caller owns it.
	// Returns ErrBoardNotFound or ErrNotBoardOwner.
	GetOwnedBoard(ctx context.Context, boardID int64, ownerID string) (*Board, error)

	// CheckPostInBoards returns the caller's boards containing the post
	// identified by platformPostID. For Instagram the lookup uses the
	// two-step any-format resolution so legacy composite IDs still match.
	CheckPostInBoards(ctx context.Context, platformPostID, sourceURL string, platform posts.Platform, ownerID string) ([]*Board, error)
}
