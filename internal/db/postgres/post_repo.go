package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"Curio/internal/core/posts"
)

type postgresPostRepo struct {
	db *sql.DB
}

// NewPostRepository creates a new PostgreSQL post repository
func NewPostRepository(db *sql.DB) posts.Repository {
	if db == nil {
		panic("postgres: db cannot be nil")
	}
	return &postgresPostRepo{db: db}
}

// postColumns is the column list every post query scans, in scanPost order
const postColumns = `
	id, platform_post_id, platform, profile_id, embed_url, original_url,
	caption, transcript, embed_html, thumbnail, video_url, display_url,
	shortcode, carousel_media, carousel_count, width, height,
	is_video, is_carousel, views, shares, likes, comments,
	date_posted, created_at, updated_at`

// Upsert inserts a post or merges it into the existing row keyed on
// (platform_post_id, platform). The merge is non-destructive: empty
// incoming text never overwrites stored text, and transcript/embed_html
// are owned by the enrichment setters, so they are never touched here.
// When post.ID is set the merge targets that row directly, which also
// rewrites platform_post_id to the canonical form.
func (r *postgresPostRepo) Upsert(ctx context.Context, post *posts.Post) (*posts.Post, bool, error) {
	carouselJSON, err := json.Marshal(post.CarouselMedia)
	if err != nil {
		return nil, false, fmt.Errorf("failed to marshal carousel media: %w", err)
	}

	if post.ID > 0 {
		stored, err := r.mergeByID(ctx, post, carouselJSON)
		return stored, false, err
	}

	query := `
		INSERT INTO posts (
			platform_post_id, platform, profile_id, embed_url, original_url,
			caption, thumbnail, video_url, display_url, shortcode,
			carousel_media, carousel_count, width, height,
			is_video, is_carousel, views, shares, likes, comments, date_posted
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21
		)
		ON CONFLICT (platform_post_id, platform) DO UPDATE
		SET profile_id     = EXCLUDED.profile_id,
		    embed_url      = COALESCE(NULLIF(EXCLUDED.embed_url, ''), posts.embed_url),
		    original_url   = COALESCE(NULLIF(EXCLUDED.original_url, ''), posts.original_url),
		    caption        = COALESCE(NULLIF(EXCLUDED.caption, ''), posts.caption),
		    thumbnail      = COALESCE(NULLIF(EXCLUDED.thumbnail, ''), posts.thumbnail),
		    video_url      = COALESCE(NULLIF(EXCLUDED.video_url, ''), posts.video_url),
		    display_url    = COALESCE(NULLIF(EXCLUDED.display_url, ''), posts.display_url),
		    shortcode      = COALESCE(NULLIF(EXCLUDED.shortcode, ''), posts.shortcode),
		    carousel_media = COALESCE(NULLIF(EXCLUDED.carousel_media, '[]'::jsonb), posts.carousel_media),
		    carousel_count = GREATEST(EXCLUDED.carousel_count, posts.carousel_count),
		    width          = COALESCE(NULLIF(EXCLUDED.width, 0), posts.width),
		    height         = COALESCE(NULLIF(EXCLUDED.height, 0), posts.height),
		    is_video       = EXCLUDED.is_video,
		    is_carousel    = EXCLUDED.is_carousel,
		    views          = COALESCE(EXCLUDED.views, posts.views),
		    shares         = COALESCE(EXCLUDED.shares, posts.shares),
		    likes          = EXCLUDED.likes,
		    comments       = EXCLUDED.comments,
		    date_posted    = EXCLUDED.date_posted,
		    updated_at     = NOW()
		RETURNING ` + postColumns + `, (xmax = 0) AS inserted`

	stored := &posts.Post{}
	var inserted bool
	err = scanPost(r.db.QueryRowContext(
		ctx, query,
		post.PlatformPostID, post.Platform, post.ProfileID, post.EmbedURL,
		post.OriginalURL, post.Caption, post.Thumbnail, post.VideoURL,
		post.DisplayURL, post.Shortcode, carouselJSON, post.CarouselCount,
		post.Width, post.Height, post.IsVideo, post.IsCarousel,
		post.Metrics.Views, post.Metrics.Shares, post.Metrics.Likes,
		post.Metrics.Comments, post.DatePosted,
	), stored, &inserted)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert post %s: %w", post.PlatformPostID, err)
	}

	return stored, inserted, nil
}

// mergeByID applies the non-destructive merge to a known row. Used when
// the any-format lookup matched a row stored under the legacy ID form,
// so the canonical platform_post_id is written as part of the merge.
func (r *postgresPostRepo) mergeByID(ctx context.Context, post *posts.Post, carouselJSON []byte) (*posts.Post, error) {
	query := `
		UPDATE posts
		SET platform_post_id = $2,
		    profile_id       = $3,
		    embed_url        = COALESCE(NULLIF($4, ''), embed_url),
		    original_url     = COALESCE(NULLIF($5, ''), original_url),
		    caption          = COALESCE(NULLIF($6, ''), caption),
		    thumbnail        = COALESCE(NULLIF($7, ''), thumbnail),
		    video_url        = COALESCE(NULLIF($8, ''), video_url),
		    display_url      = COALESCE(NULLIF($9, ''), display_url),
		    shortcode        = COALESCE(NULLIF($10, ''), shortcode),
		    carousel_media   = COALESCE(NULLIF($11::jsonb, '[]'::jsonb), carousel_media),
		    carousel_count   = GREATEST($12, carousel_count),
		    width            = COALESCE(NULLIF($13, 0), width),
		    height           = COALESCE(NULLIF($14, 0), height),
		    is_video         = $15,
		    is_carousel      = $16,
		    views            = COALESCE($17, views),
		    shares           = COALESCE($18, shares),
		    likes            = $19,
		    comments         = $20,
		    date_posted      = $21,
		    updated_at       = NOW()
		WHERE id = $1
		RETURNING ` + postColumns

	stored := &posts.Post{}
	err := scanPost(r.db.QueryRowContext(
		ctx, query,
		post.ID, post.PlatformPostID, post.ProfileID, post.EmbedURL,
		post.OriginalURL, post.Caption, post.Thumbnail, post.VideoURL,
		post.DisplayURL, post.Shortcode, carouselJSON, post.CarouselCount,
		post.Width, post.Height, post.IsVideo, post.IsCarousel,
		post.Metrics.Views, post.Metrics.Shares, post.Metrics.Likes,
		post.Metrics.Comments, post.DatePosted,
	), stored)
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to merge post %d: %w", post.ID, err)
	}

	return stored, nil
}

// GetByPlatformID retrieves a post by its exact platform post ID
func (r *postgresPostRepo) GetByPlatformID(ctx context.Context, platformPostID string, platform posts.Platform) (*posts.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE platform_post_id = $1 AND platform = $2`

	post := &posts.Post{}
	err := scanPost(r.db.QueryRowContext(ctx, query, platformPostID, platform), post)
	if err == sql.ErrNoRows {
		return nil, posts.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post by platform ID: %w", err)
	}

	return post, nil
}

// FindByPlatformIDAnyFormat queries the given ID first and, when that
// misses and the ID reconciles to a different canonical form, retries
// with the reconciled form. Both ID generations may coexist in the
// store for rows written before reconciliation existed.
func (r *postgresPostRepo) FindByPlatformIDAnyFormat(ctx context.Context, platformPostID string, platform posts.Platform, sourceURL string) (*posts.Post, error) {
	post, err := r.GetByPlatformID(ctx, platformPostID, platform)
	if err == nil {
		return post, nil
	}
	if err != posts.ErrNotFound {
		return nil, err
	}

	if platform != posts.PlatformInstagram {
		return nil, posts.ErrNotFound
	}

	reconciled := posts.ReconcilePlatformPostID(platformPostID, sourceURL)
	if reconciled == platformPostID {
		return nil, posts.ErrNotFound
	}

	return r.GetByPlatformID(ctx, reconciled, platform)
}

// SetEmbedHTML writes only the embed_html column
func (r *postgresPostRepo) SetEmbedHTML(ctx context.Context, postID int64, embedHTML string) error {
	return r.setColumn(ctx, postID, "embed_html", embedHTML)
}

// SetTranscript writes only the transcript column
func (r *postgresPostRepo) SetTranscript(ctx context.Context, postID int64, transcript string) error {
	return r.setColumn(ctx, postID, "transcript", transcript)
}

func (r *postgresPostRepo) setColumn(ctx context.Context, postID int64, column, value string) error {
	query := fmt.Sprintf(`UPDATE posts SET %s = $2, updated_at = NOW() WHERE id = $1`, column)

	result, err := r.db.ExecContext(ctx, query, postID, value)
	if err != nil {
		return fmt.Errorf("failed to set %s for post %d: %w", column, postID, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check %s update for post %d: %w", column, postID, err)
	}
	if rows == 0 {
		return posts.ErrNotFound
	}

	return nil
}

// scanPost scans one row in postColumns order. extra receives trailing
// expressions appended after the column list (e.g. the inserted flag).
func scanPost(row *sql.Row, post *posts.Post, extra ...any) error {
	var (
		transcript   sql.NullString
		embedHTML    sql.NullString
		views        sql.NullInt64
		shares       sql.NullInt64
		carouselJSON []byte
	)

	dest := []any{
		&post.ID, &post.PlatformPostID, &post.Platform, &post.ProfileID,
		&post.EmbedURL, &post.OriginalURL, &post.Caption, &transcript,
		&embedHTML, &post.Thumbnail, &post.VideoURL, &post.DisplayURL,
		&post.Shortcode, &carouselJSON, &post.CarouselCount,
		&post.Width, &post.Height, &post.IsVideo, &post.IsCarousel,
		&views, &shares, &post.Metrics.Likes, &post.Metrics.Comments,
		&post.DatePosted, &post.CreatedAt, &post.UpdatedAt,
	}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return err
	}

	if transcript.Valid {
		post.Transcript = &transcript.String
	}
	if embedHTML.Valid {
		post.EmbedHTML = &embedHTML.String
	}
	if views.Valid {
		post.Metrics.Views = &views.Int64
	}
	if shares.Valid {
		post.Metrics.Shares = &shares.Int64
	}
	if len(carouselJSON) > 0 {
		if err := json.Unmarshal(carouselJSON, &post.CarouselMedia); err != nil {
			return fmt.Errorf("failed to unmarshal carousel media: %w", err)
		}
	}

	return nil
}
