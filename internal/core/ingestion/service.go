package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log"

	"Curio/internal/core/boards"
	"Curio/internal/core/posts"
	"Curio/internal/core/profiles"
)

// ErrMissingProfile is returned when a post arrives without a resolvable
// author profile; profiles are mandatory because every post row belongs to
// one.
var ErrMissingProfile = errors.New("post has no resolvable author profile")

// service implements the Service interface
type service struct {
	postRepo    posts.Repository
	profileRepo profiles.Repository
	boardRepo   boards.Repository
	fetcher     PostFetcher
	enricher    Enricher
}

// NewService creates the ingestion orchestrator. enricher may be nil, in
// which case newly created posts simply skip enrichment.
func NewService(postRepo posts.Repository, profileRepo profiles.Repository, boardRepo boards.Repository, fetcher PostFetcher, enricher Enricher) Service {
	if postRepo == nil || profileRepo == nil || boardRepo == nil {
		panic("ingestion: repositories cannot be nil")
	}
	return &service{
		postRepo:    postRepo,
		profileRepo: profileRepo,
		boardRepo:   boardRepo,
		fetcher:     fetcher,
		enricher:    enricher,
	}
}

// SavePost resolves a public post URL and ingests the result.
func (s *service) SavePost(ctx context.Context, sourceURL string, boardID int64, callerID string) (*SaveResult, error) {
	if s.fetcher == nil {
		return nil, fmt.Errorf("ingestion: no post fetcher configured")
	}

	result, err := s.fetcher.FetchPost(ctx, sourceURL)
	if err != nil {
		return nil, err
	}

	return s.Ingest(ctx, result.Post, result.Profile, boardID, callerID)
}

// Ingest performs the idempotent save flow:
// reconcile ID -> upsert profile -> upsert/merge post -> enqueue
// enrichment (new posts only) -> attach to board.
func (s *service) Ingest(ctx context.Context, post *posts.Post, profile *profiles.Profile, boardID int64, callerID string) (*SaveResult, error) {
	if post == nil {
		return nil, fmt.Errorf("ingestion: post cannot be nil")
	}
	if profile == nil || profile.Handle == "" {
		return nil, ErrMissingProfile
	}

	// 1. Reconcile the platform ID before any store interaction. Lookups
	// below still use the raw ID first so rows persisted under the legacy
	// composite form keep matching; new writes always persist the
	// canonical form.
	rawID := post.PlatformPostID
	if post.Platform == posts.PlatformInstagram {
		post.PlatformPostID = posts.ReconcilePlatformPostID(rawID, post.OriginalURL)
	}

	// 2. Upsert the author profile on (handle, platform)
	storedProfile, err := s.profileRepo.Upsert(ctx, profile)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile %s/%s: %w", profile.Platform, profile.Handle, err)
	}
	post.ProfileID = storedProfile.ID

	// 3. Find any existing row under either ID generation so the merge
	// lands on it instead of creating a duplicate
	existing, err := s.postRepo.FindByPlatformIDAnyFormat(ctx, rawID, post.Platform, post.OriginalURL)
	if err != nil && !errors.Is(err, posts.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up post %s: %w", rawID, err)
	}
	if existing != nil {
		post.ID = existing.ID
	}

	storedPost, created, err := s.postRepo.Upsert(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert post %s: %w", post.PlatformPostID, err)
	}

	// 4. Enrichment is best-effort and never blocks the caller
	if created && s.enricher != nil {
		if storedPost.Platform == posts.PlatformInstagram && storedPost.OriginalURL != "" {
			s.enricher.EnqueueEmbed(storedPost.ID, storedPost.OriginalURL)
		}
		if storedPost.IsVideo && storedPost.OriginalURL != "" {
			s.enricher.EnqueueTranscript(storedPost.ID, storedPost.OriginalURL)
		}
	}

	// 5. Attach to the board; a duplicate membership is a soft condition
	if err := s.boardRepo.AddPost(ctx, boardID, storedPost.ID); err != nil {
		if boards.IsAlreadyOnBoard(err) {
			log.Printf("[INGEST] Post %s already on board %d", storedPost.PlatformPostID, boardID)
			return &SaveResult{Post: storedPost, Created: created, AlreadyOnBoard: true}, nil
		}
		return nil, fmt.Errorf("failed to attach post to board %d: %w", boardID, err)
	}

	log.Printf("[INGEST] Saved %s post %s to board %d (created: %v) for %s",
		storedPost.Platform, storedPost.PlatformPostID, boardID, created, callerID)

	return &SaveResult{Post: storedPost, Created: created}, nil
}
