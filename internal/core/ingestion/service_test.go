package ingestion

import (
	"context"
	"errors"
	"testing"
	"time"

	"Curio/internal/core/boards"
	"Curio/internal/core/posts"
	"Curio/internal/core/profiles"
)

// mockPostRepo implements posts.Repository backed by maps
type mockPostRepo struct {
	byID       map[int64]*posts.Post
	byPlatform map[string]*posts.Post
	nextID     int64
	upserts    int
}

func newMockPostRepo() *mockPostRepo {
	return &mockPostRepo{
		byID:       make(map[int64]*posts.Post),
		byPlatform: make(map[string]*posts.Post),
		nextID:     1,
	}
}

func platformKey(id string, platform posts.Platform) string {
	return string(platform) + ":" + id
}

func (m *mockPostRepo) Upsert(ctx context.Context, post *posts.Post) (*posts.Post, bool, error) {
	m.upserts++

	var target *posts.Post
	if post.ID > 0 {
		target = m.byID[post.ID]
	} else if existing, ok := m.byPlatform[platformKey(post.PlatformPostID, post.Platform)]; ok {
		target = existing
	}

	if target == nil {
		stored := *post
		stored.ID = m.nextID
		m.nextID++
		m.byID[stored.ID] = &stored
		m.byPlatform[platformKey(stored.PlatformPostID, stored.Platform)] = &stored
		return &stored, true, nil
	}

	// Non-destructive merge of the fields the tests care about
	delete(m.byPlatform, platformKey(target.PlatformPostID, target.Platform))
	target.PlatformPostID = post.PlatformPostID
	if post.Caption != "" {
		target.Caption = post.Caption
	}
	target.Metrics.Likes = post.Metrics.Likes
	m.byPlatform[platformKey(target.PlatformPostID, target.Platform)] = target
	return target, false, nil
}

func (m *mockPostRepo) GetByPlatformID(ctx context.Context, platformPostID string, platform posts.Platform) (*posts.Post, error) {
	if post, ok := m.byPlatform[platformKey(platformPostID, platform)]; ok {
		return post, nil
	}
	return nil, posts.ErrNotFound
}

func (m *mockPostRepo) FindByPlatformIDAnyFormat(ctx context.Context, platformPostID string, platform posts.Platform, sourceURL string) (*posts.Post, error) {
	if post, err := m.GetByPlatformID(ctx, platformPostID, platform); err == nil {
		return post, nil
	}
	if platform == posts.PlatformInstagram {
		if reconciled := posts.ReconcilePlatformPostID(platformPostID, sourceURL); reconciled != platformPostID {
			return m.GetByPlatformID(ctx, reconciled, platform)
		}
	}
	return nil, posts.ErrNotFound
}

func (m *mockPostRepo) SetEmbedHTML(ctx context.Context, postID int64, embedHTML string) error {
	if post, ok := m.byID[postID]; ok {
		post.EmbedHTML = &embedHTML
	}
	return nil
}

func (m *mockPostRepo) SetTranscript(ctx context.Context, postID int64, transcript string) error {
	if post, ok := m.byID[postID]; ok {
		post.Transcript = &transcript
	}
	return nil
}

// mockProfileRepo implements profiles.Repository
type mockProfileRepo struct {
	byHandle map[string]*profiles.Profile
	nextID   int64
}

func newMockProfileRepo() *mockProfileRepo {
	return &mockProfileRepo{byHandle: make(map[string]*profiles.Profile), nextID: 1}
}

func (m *mockProfileRepo) Upsert(ctx context.Context, profile *profiles.Profile) (*profiles.Profile, error) {
	key := string(profile.Platform) + ":" + profile.Handle
	if existing, ok := m.byHandle[key]; ok {
		existing.DisplayName = profile.DisplayName
		existing.FollowersCount = profile.FollowersCount
		return existing, nil
	}
	stored := *profile
	stored.ID = m.nextID
	m.nextID++
	m.byHandle[key] = &stored
	return &stored, nil
}

func (m *mockProfileRepo) GetByHandle(ctx context.Context, handle string, platform posts.Platform) (*profiles.Profile, error) {
	if profile, ok := m.byHandle[string(platform)+":"+handle]; ok {
		return profile, nil
	}
	return nil, profiles.ErrProfileNotFound
}

// mockBoardRepo implements boards.Repository
type mockBoardRepo struct {
	memberships map[[2]int64]bool
}

func newMockBoardRepo() *mockBoardRepo {
	return &mockBoardRepo{memberships: make(map[[2]int64]bool)}
}

func (m *mockBoardRepo) Create(ctx context.Context, board *boards.Board) (*boards.Board, error) {
	return board, nil
}

func (m *mockBoardRepo) GetByID(ctx context.Context, boardID int64) (*boards.Board, error) {
	return &boards.Board{ID: boardID}, nil
}

func (m *mockBoardRepo) ListByOwner(ctx context.Context, ownerID string) ([]*boards.Board, error) {
	return nil, nil
}

func (m *mockBoardRepo) AddPost(ctx context.Context, boardID, postID int64) error {
	key := [2]int64{boardID, postID}
	if m.memberships[key] {
		return boards.ErrAlreadyOnBoard
	}
	m.memberships[key] = true
	return nil
}

func (m *mockBoardRepo) BoardsContainingPost(ctx context.Context, postID int64, ownerID string) ([]*boards.Board, error) {
	return nil, nil
}

// recordingEnricher records enqueued work without doing any
type recordingEnricher struct {
	embeds      []int64
	transcripts []int64
}

func (e *recordingEnricher) EnqueueEmbed(postID int64, sourceURL string) {
	e.embeds = append(e.embeds, postID)
}

func (e *recordingEnricher) EnqueueTranscript(postID int64, sourceURL string) {
	e.transcripts = append(e.transcripts, postID)
}

func testPost() *posts.Post {
	return &posts.Post{
		PlatformPostID: "ABC123",
		Platform:       posts.PlatformInstagram,
		OriginalURL:    "https://www.instagram.com/p/ABC123/",
		Caption:        "hello",
		Metrics:        posts.Metrics{Likes: 10, Comments: 2},
		DatePosted:     time.Now().UTC(),
	}
}

func testProfile() *profiles.Profile {
	return &profiles.Profile{Handle: "alice", Platform: posts.PlatformInstagram, DisplayName: "Alice"}
}

func TestIngest_IdempotentUpsert(t *testing.T) {
	postRepo := newMockPostRepo()
	profileRepo := newMockProfileRepo()
	boardRepo := newMockBoardRepo()
	svc := NewService(postRepo, profileRepo, boardRepo, nil, nil)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, testPost(), testProfile(), 1, "user-1")
	if err != nil {
		t.Fatalf("first Ingest() error: %v", err)
	}
	if !first.Created {
		t.Error("first ingestion should create the post")
	}

	second, err := svc.Ingest(ctx, testPost(), testProfile(), 2, "user-1")
	if err != nil {
		t.Fatalf("second Ingest() error: %v", err)
	}
	if second.Created {
		t.Error("second ingestion must update, not create")
	}
	if second.Post.ID != first.Post.ID {
		t.Errorf("expected the same post row, got %d and %d", first.Post.ID, second.Post.ID)
	}
	if len(postRepo.byID) != 1 {
		t.Errorf("post rows = %d, want exactly 1", len(postRepo.byID))
	}
}

func TestIngest_LegacyIDMatchesExistingRow(t *testing.T) {
	postRepo := newMockPostRepo()
	profileRepo := newMockProfileRepo()
	boardRepo := newMockBoardRepo()
	svc := NewService(postRepo, profileRepo, boardRepo, nil, nil)
	ctx := context.Background()

	// First sighting under the canonical shortcode
	if _, err := svc.Ingest(ctx, testPost(), testProfile(), 1, "user-1"); err != nil {
		t.Fatalf("Ingest() error: %v", err)
	}

	// Re-ingestion under the legacy composite ID for the same post
	legacy := testPost()
	legacy.PlatformPostID = "123456_789"
	result, err := svc.Ingest(ctx, legacy, testProfile(), 1, "user-1")
	if err != nil {
		t.Fatalf("Ingest(legacy) error: %v", err)
	}
	if result.Created {
		t.Error("legacy-ID re-ingestion must merge into the existing row")
	}
	if result.Post.PlatformPostID != "ABC123" {
		t.Errorf("stored ID = %q, want canonical ABC123", result.Post.PlatformPostID)
	}
	if len(postRepo.byID) != 1 {
		t.Errorf("post rows = %d, want exactly 1", len(postRepo.byID))
	}
}

func TestIngest_BoardDuplicateIsSoft(t *testing.T) {
	postRepo := newMockPostRepo()
	profileRepo := newMockProfileRepo()
	boardRepo := newMockBoardRepo()
	svc := NewService(postRepo, profileRepo, boardRepo, nil, nil)
	ctx := context.Background()

	first, err := svc.Ingest(ctx, testPost(), testProfile(), 1, "user-1")
	if err != nil {
		t.Fatalf("first Ingest() error: %v", err)
	}
	if first.AlreadyOnBoard {
		t.Error("first save should not report alreadyOnBoard")
	}

	second, err := svc.Ingest(ctx, testPost(), testProfile(), 1, "user-1")
	if err != nil {
		t.Fatalf("second Ingest() must not be an error: %v", err)
	}
	if !second.AlreadyOnBoard {
		t.Error("second save to the same board should report alreadyOnBoard")
	}
	if len(boardRepo.memberships) != 1 {
		t.Errorf("board_posts rows = %d, want exactly 1", len(boardRepo.memberships))
	}
}

func TestIngest_EnrichmentOnlyForNewPosts(t *testing.T) {
	postRepo := newMockPostRepo()
	profileRepo := newMockProfileRepo()
	boardRepo := newMockBoardRepo()
	enricher := &recordingEnricher{}
	svc := NewService(postRepo, profileRepo, boardRepo, nil, enricher)
	ctx := context.Background()

	post := testPost()
	post.IsVideo = true
	if _, err := svc.Ingest(ctx, post, testProfile(), 1, "user-1"); err != nil {
		t.Fatalf("Ingest() error: %v", err)
	}

	if len(enricher.embeds) != 1 {
		t.Errorf("embed tasks = %d, want 1", len(enricher.embeds))
	}
	if len(enricher.transcripts) != 1 {
		t.Errorf("transcript tasks = %d, want 1 for video content", len(enricher.transcripts))
	}

	// Re-ingesting the same post must not re-enqueue enrichment
	again := testPost()
	again.IsVideo = true
	if _, err := svc.Ingest(ctx, again, testProfile(), 2, "user-1"); err != nil {
		t.Fatalf("second Ingest() error: %v", err)
	}
	if len(enricher.embeds) != 1 || len(enricher.transcripts) != 1 {
		t.Error("enrichment must only be enqueued for newly created posts")
	}
}

func TestIngest_MissingProfileFails(t *testing.T) {
	svc := NewService(newMockPostRepo(), newMockProfileRepo(), newMockBoardRepo(), nil, nil)

	_, err := svc.Ingest(context.Background(), testPost(), nil, 1, "user-1")
	if !errors.Is(err, ErrMissingProfile) {
		t.Errorf("expected ErrMissingProfile, got %v", err)
	}
}

func TestIngest_ProfileUpdatedNotReplaced(t *testing.T) {
	postRepo := newMockPostRepo()
	profileRepo := newMockProfileRepo()
	svc := NewService(postRepo, profileRepo, newMockBoardRepo(), nil, nil)
	ctx := context.Background()

	if _, err := svc.Ingest(ctx, testPost(), testProfile(), 1, "user-1"); err != nil {
		t.Fatalf("Ingest() error: %v", err)
	}

	updated := testProfile()
	updated.FollowersCount = 500
	other := testPost()
	other.PlatformPostID = "XYZ789"
	other.OriginalURL = "https://www.instagram.com/p/XYZ789/"
	if _, err := svc.Ingest(ctx, other, updated, 1, "user-1"); err != nil {
		t.Fatalf("second Ingest() error: %v", err)
	}

	if len(profileRepo.byHandle) != 1 {
		t.Fatalf("profile rows = %d, want exactly 1", len(profileRepo.byHandle))
	}
	stored, err := profileRepo.GetByHandle(ctx, "alice", posts.PlatformInstagram)
	if err != nil {
		t.Fatalf("GetByHandle() error: %v", err)
	}
	if stored.FollowersCount != 500 {
		t.Errorf("followersCount = %d, want updated value 500", stored.FollowersCount)
	}
}
