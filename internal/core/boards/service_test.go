package boards

import (
	"context"
	"errors"
	"strings"
	"testing"

	"Curio/internal/core/posts"
)

type fakeBoardRepo struct {
	boards     map[int64]*Board
	containing []*Board
}

func (f *fakeBoardRepo) Create(ctx context.Context, board *Board) (*Board, error) {
	board.ID = int64(len(f.boards) + 1)
	if f.boards == nil {
		f.boards = make(map[int64]*Board)
	}
	f.boards[board.ID] = board
	return board, nil
}

func (f *fakeBoardRepo) GetByID(ctx context.Context, boardID int64) (*Board, error) {
	if board, ok := f.boards[boardID]; ok {
		return board, nil
	}
	return nil, ErrBoardNotFound
}

func (f *fakeBoardRepo) ListByOwner(ctx context.Context, ownerID string) ([]*Board, error) {
	var out []*Board
	for _, board := range f.boards {
		if board.OwnerID == ownerID {
			out = append(out, board)
		}
	}
	return out, nil
}

func (f *fakeBoardRepo) AddPost(ctx context.Context, boardID, postID int64) error {
	return nil
}

func (f *fakeBoardRepo) BoardsContainingPost(ctx context.Context, postID int64, ownerID string) ([]*Board, error) {
	return f.containing, nil
}

type fakePostRepo struct {
	stored map[string]*posts.Post
}

func (f *fakePostRepo) Upsert(ctx context.Context, post *posts.Post) (*posts.Post, bool, error) {
	return post, true, nil
}

func (f *fakePostRepo) GetByPlatformID(ctx context.Context, platformPostID string, platform posts.Platform) (*posts.Post, error) {
	if post, ok := f.stored[platformPostID]; ok {
		return post, nil
	}
	return nil, posts.ErrNotFound
}

func (f *fakePostRepo) FindByPlatformIDAnyFormat(ctx context.Context, platformPostID string, platform posts.Platform, sourceURL string) (*posts.Post, error) {
	if post, err := f.GetByPlatformID(ctx, platformPostID, platform); err == nil {
		return post, nil
	}
	if platform == posts.PlatformInstagram {
		if reconciled := posts.ReconcilePlatformPostID(platformPostID, sourceURL); reconciled != platformPostID {
			return f.GetByPlatformID(ctx, reconciled, platform)
		}
	}
	return nil, posts.ErrNotFound
}

func (f *fakePostRepo) SetEmbedHTML(ctx context.Context, postID int64, embedHTML string) error {
	return nil
}

func (f *fakePostRepo) SetTranscript(ctx context.Context, postID int64, transcript string) error {
	return nil
}

func TestCreateBoard_Validation(t *testing.T) {
	svc := NewService(&fakeBoardRepo{}, &fakePostRepo{})
	ctx := context.Background()

	tests := []struct {
		name    string
		ownerID string
		board   string
		wantErr bool
	}{
		{name: "valid", ownerID: "user-1", board: "Inspiration", wantErr: false},
		{name: "empty name", ownerID: "user-1", board: "   ", wantErr: true},
		{name: "missing owner", ownerID: "", board: "Inspiration", wantErr: true},
		{name: "name too long", ownerID: "user-1", board: strings.Repeat("x", 121), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateBoard(ctx, tt.ownerID, tt.board)
			if tt.wantErr && !IsValidationError(err) {
				t.Errorf("expected validation error, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetOwnedBoard(t *testing.T) {
	repo := &fakeBoardRepo{boards: map[int64]*Board{
		1: {ID: 1, Name: "Mine", OwnerID: "user-1"},
	}}
	svc := NewService(repo, &fakePostRepo{})
	ctx := context.Background()

	if _, err := svc.GetOwnedBoard(ctx, 1, "user-1"); err != nil {
		t.Errorf("owner lookup failed: %v", err)
	}
	if _, err := svc.GetOwnedBoard(ctx, 1, "user-2"); !errors.Is(err, ErrNotBoardOwner) {
		t.Errorf("expected ErrNotBoardOwner, got %v", err)
	}
	if _, err := svc.GetOwnedBoard(ctx, 99, "user-1"); !errors.Is(err, ErrBoardNotFound) {
		t.Errorf("expected ErrBoardNotFound, got %v", err)
	}
}

func TestCheckPostInBoards_UnknownPostIsEmptyList(t *testing.T) {
	svc := NewService(&fakeBoardRepo{}, &fakePostRepo{})

	result, err := svc.CheckPostInBoards(context.Background(), "UNKNOWN", "", posts.PlatformInstagram, "user-1")
	if err != nil {
		t.Fatalf("CheckPostInBoards() error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected empty list for unknown post, got %d boards", len(result))
	}
}

func TestCheckPostInBoards_LegacyIDResolves(t *testing.T) {
	postRepo := &fakePostRepo{stored: map[string]*posts.Post{
		"ABC123": {ID: 42, PlatformPostID: "ABC123", Platform: posts.PlatformInstagram},
	}}
	boardRepo := &fakeBoardRepo{containing: []*Board{{ID: 1, Name: "Saved", OwnerID: "user-1"}}}
	svc := NewService(boardRepo, postRepo)

	result, err := svc.CheckPostInBoards(context.Background(),
		"123456_789", "https://www.instagram.com/p/ABC123/", posts.PlatformInstagram, "user-1")
	if err != nil {
		t.Fatalf("CheckPostInBoards() error: %v", err)
	}
	if len(result) != 1 {
		t.Errorf("expected the legacy ID to resolve to the saved post, got %d boards", len(result))
	}
}
