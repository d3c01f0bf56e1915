package posts

import "context"

// Repository defines the data access interface for posts.
// Implementations must enforce uniqueness on (PlatformPostID, Platform).
type Repository interface {
	// Upsert inserts a post or, when (PlatformPostID, Platform) already
	// exists, merges it into the existing row. The merge is
	// non-destructive: empty/nil incoming values never overwrite stored
	// ones. When post.ID is set the merge targets that row directly and
	// canonicalizes its platform_post_id (used when an any-format lookup
	// matched a row keyed by the legacy ID form). Returns the stored post
	// and whether a new row was created.
	Upsert(ctx context.Context, post *Post) (*Post, bool, error)

	// GetByPlatformID retrieves a post by its exact platform post ID.
	// Returns ErrNotFound when no row matches.
	GetByPlatformID(ctx context.Context, platformPostID string, platform Platform) (*Post, error)

	// FindByPlatformIDAnyFormat retrieves a post by the given ID and, when
	// that misses and the ID reconciles to a different canonical form,
	// retries with the reconciled form. Both ID generations may coexist in
	// the store for historical reasons.
	FindByPlatformIDAnyFormat(ctx context.Context, platformPostID string, platform Platform, sourceURL string) (*Post, error)

	// SetEmbedHTML applies a partial update writing only the embed_html
	// column. Used by the enrichment worker.
	SetEmbedHTML(ctx context.Context, postID int64, embedHTML string) error

	// SetTranscript applies a partial update writing only the transcript
	// column. Used by the enrichment worker.
	SetTranscript(ctx context.Context, postID int64, transcript string) error
}
