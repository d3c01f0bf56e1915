package ingestion

import (
	"context"

	"Curio/internal/core/posts"
	"Curio/internal/core/profiles"
	"Curio/internal/scrape"
)

// Service defines the ingestion orchestrator: idempotent create-or-update
// of profile, post, and board membership from one normalized post.
type Service interface {
	// Ingest saves an already-normalized post (and its author profile)
	// into the caller's board. The platform ID is reconciled before any
	// store interaction; all idempotency comes from store-level
	// uniqueness, not in-process locking. The returned result reports
	// whether the post row was newly created and whether the board
	// already contained it.
	Ingest(ctx context.Context, post *posts.Post, profile *profiles.Profile, boardID int64, callerID string) (*SaveResult, error)

	// SavePost resolves a public post URL through the scrape client and
	// ingests the result.
	SavePost(ctx context.Context, sourceURL string, boardID int64, callerID string) (*SaveResult, error)
}

// PostFetcher is the slice of the scrape client the orchestrator needs.
type PostFetcher interface {
	FetchPost(ctx context.Context, sourceURL string) (*scrape.PostResult, error)
}

// Enricher receives fire-and-forget enrichment work for newly created
// posts. Implementations must not block the caller.
type Enricher interface {
	EnqueueEmbed(postID int64, sourceURL string)
	EnqueueTranscript(postID int64, sourceURL string)
}

// SaveResult is the tri-state outcome of a save: created/updated post,
// or a soft "already on board" condition.
type SaveResult struct {
	Post           *posts.Post `json:"post"`
	Created        bool        `json:"created"`
	AlreadyOnBoard bool        `json:"alreadyExists"`
}
