package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"Curio/internal/core/boards"
)

type postgresBoardRepo struct {
	db *sql.DB
}

// NewBoardRepository creates a new PostgreSQL board repository
func NewBoardRepository(db *sql.DB) boards.Repository {
	if db == nil {
		panic("postgres: db cannot be nil")
	}
	return &postgresBoardRepo{db: db}
}

// Create inserts a new board
func (r *postgresBoardRepo) Create(ctx context.Context, board *boards.Board) (*boards.Board, error) {
	query := `
		INSERT INTO boards (name, owner_id)
		VALUES ($1, $2)
		RETURNING id, name, owner_id, created_at`

	stored := &boards.Board{}
	err := r.db.QueryRowContext(ctx, query, board.Name, board.OwnerID).
		Scan(&stored.ID, &stored.Name, &stored.OwnerID, &stored.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") && strings.Contains(err.Error(), "boards_owner_name_key") {
			return nil, &boards.ValidationError{Field: "name", Message: "a board with this name already exists"}
		}
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	return stored, nil
}

// GetByID retrieves a board by its internal ID
func (r *postgresBoardRepo) GetByID(ctx context.Context, boardID int64) (*boards.Board, error) {
	query := `SELECT id, name, owner_id, created_at FROM boards WHERE id = $1`

	board := &boards.Board{}
	err := r.db.QueryRowContext(ctx, query, boardID).
		Scan(&board.ID, &board.Name, &board.OwnerID, &board.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, boards.ErrBoardNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}

	return board, nil
}

// ListByOwner retrieves all boards owned by a user, newest first
func (r *postgresBoardRepo) ListByOwner(ctx context.Context, ownerID string) ([]*boards.Board, error) {
	query := `
		SELECT id, name, owner_id, created_at
		FROM boards
		WHERE owner_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	defer rows.Close()

	var result []*boards.Board
	for rows.Next() {
		board := &boards.Board{}
		if err := rows.Scan(&board.ID, &board.Name, &board.OwnerID, &board.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		result = append(result, board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate boards: %w", err)
	}

	return result, nil
}

// AddPost attaches a post to a board. A duplicate (board, post) pair is
// reported as ErrAlreadyOnBoard, never as a system error.
func (r *postgresBoardRepo) AddPost(ctx context.Context, boardID, postID int64) error {
	query := `
		INSERT INTO board_posts (board_id, post_id)
		VALUES ($1, $2)
		ON CONFLICT (board_id, post_id) DO NOTHING
		RETURNING added_at`

	var addedAt sql.NullTime
	err := r.db.QueryRowContext(ctx, query, boardID, postID).Scan(&addedAt)

	// ON CONFLICT DO NOTHING returns no rows when the pair already exists
	if err == sql.ErrNoRows {
		return boards.ErrAlreadyOnBoard
	}
	if err != nil {
		if strings.Contains(err.Error(), "board_posts_board_id_fkey") {
			return boards.ErrBoardNotFound
		}
		return fmt.Errorf("failed to add post %d to board %d: %w", postID, boardID, err)
	}

	return nil
}

// BoardsContainingPost retrieves the owner's boards that contain the post
func (r *postgresBoardRepo) BoardsContainingPost(ctx context.Context, postID int64, ownerID string) ([]*boards.Board, error) {
	query := `
		SELECT b.id, b.name, b.owner_id, b.created_at
		FROM boards b
		JOIN board_posts bp ON bp.board_id = b.id
		WHERE bp.post_id = $1 AND b.owner_id = $2
		ORDER BY bp.added_at DESC`

	rows, err := r.db.QueryContext(ctx, query, postID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query boards containing post: %w", err)
	}
	defer rows.Close()

	var result []*boards.Board
	for rows.Next() {
		board := &boards.Board{}
		if err := rows.Scan(&board.ID, &board.Name, &board.OwnerID, &board.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan board: %w", err)
		}
		result = append(result, board)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate boards: %w", err)
	}

	return result, nil
}
