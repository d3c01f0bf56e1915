package boards

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"Curio/internal/core/posts"
)

const maxBoardNameLength = 120

// service implements the Service interface
type service struct {
	repo     Repository
	postRepo posts.Repository
}

// NewService creates a new board service
func NewService(repo Repository, postRepo posts.Repository) Service {
	if repo == nil {
		panic("boards: repo cannot be nil")
	}
	if postRepo == nil {
		panic("boards: postRepo cannot be nil")
	}
	return &service{repo: repo, postRepo: postRepo}
}

// CreateBoard validates and creates a board for the caller.
func (s *service) CreateBoard(ctx context.Context, ownerID, name string) (*Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "board name is required")
	}
	if len(name) > maxBoardNameLength {
		return nil, NewValidationError("name", "board name too long")
	}
	if ownerID == "" {
		return nil, NewValidationError("ownerId", "owner is required")
	}

	board, err := s.repo.Create(ctx, &Board{Name: name, OwnerID: ownerID})
	if err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return board, nil
}

// ListBoards returns the caller's boards.
func (s *service) ListBoards(ctx context.Context, ownerID string) ([]*Board, error) {
	if ownerID == "" {
		return nil, NewValidationError("ownerId", "owner is required")
	}
	return s.repo.ListByOwner(ctx, ownerID)
}

// GetOwnedBoard retrieves a board and verifies the caller owns it.
func (s *service) GetOwnedBoard(ctx context.Context, boardID int64, ownerID string) (*Board, error) {
	board, err := s.repo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board.OwnerID != ownerID {
		return nil, ErrNotBoardOwner
	}
	return board, nil
}

// CheckPostInBoards returns the caller's boards containing the given post.
// The post is resolved with the two-step any-format lookup so both ID
// generations match; an unknown post yields an empty list, not an error.
func (s *service) CheckPostInBoards(ctx context.Context, platformPostID, sourceURL string, platform posts.Platform, ownerID string) ([]*Board, error) {
	if !platform.IsValid() {
		return nil, posts.ErrInvalidPlatform
	}
	if platformPostID == "" {
		return nil, NewValidationError("platformPostId", "platform post ID is required")
	}

	post, err := s.postRepo.FindByPlatformIDAnyFormat(ctx, platformPostID, platform, sourceURL)
	if errors.Is(err, posts.ErrNotFound) {
		return []*Board{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up post: %w", err)
	}

	return s.repo.BoardsContainingPost(ctx, post.ID, ownerID)
}
