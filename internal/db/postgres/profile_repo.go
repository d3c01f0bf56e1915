package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Curio/internal/core/posts"
	"Curio/internal/core/profiles"
)

type postgresProfileRepo struct {
	db *sql.DB
}

// NewProfileRepository creates a new PostgreSQL profile repository
func NewProfileRepository(db *sql.DB) profiles.Repository {
	if db == nil {
		panic("postgres: db cannot be nil")
	}
	return &postgresProfileRepo{db: db}
}

// Upsert inserts a profile or updates the mutable fields of the existing
// row keyed on (handle, platform). Profiles are never deleted here.
func (r *postgresProfileRepo) Upsert(ctx context.Context, profile *profiles.Profile) (*profiles.Profile, error) {
	query := `
		INSERT INTO profiles (
			handle, platform, display_name, bio,
			avatar_url, followers_count, verified
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (handle, platform) DO UPDATE
		SET display_name    = EXCLUDED.display_name,
		    bio             = EXCLUDED.bio,
		    avatar_url      = EXCLUDED.avatar_url,
		    followers_count = EXCLUDED.followers_count,
		    verified        = EXCLUDED.verified,
		    updated_at      = NOW()
		RETURNING id, handle, platform, display_name, bio, avatar_url,
		          followers_count, verified, created_at, updated_at`

	stored := &profiles.Profile{}
	err := r.db.QueryRowContext(
		ctx, query,
		profile.Handle, profile.Platform, profile.DisplayName, profile.Bio,
		profile.AvatarURL, profile.FollowersCount, profile.Verified,
	).Scan(
		&stored.ID, &stored.Handle, &stored.Platform, &stored.DisplayName,
		&stored.Bio, &stored.AvatarURL, &stored.FollowersCount,
		&stored.Verified, &stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile %s/%s: %w", profile.Platform, profile.Handle, err)
	}

	return stored, nil
}

// GetByHandle retrieves a profile by its platform-scoped handle
func (r *postgresProfileRepo) GetByHandle(ctx context.Context, handle string, platform posts.Platform) (*profiles.Profile, error) {
	query := `
		SELECT id, handle, platform, display_name, bio, avatar_url,
		       followers_count, verified, created_at, updated_at
		FROM profiles
		WHERE handle = $1 AND platform = $2`

	profile := &profiles.Profile{}
	err := r.db.QueryRowContext(ctx, query, handle, platform).Scan(
		&profile.ID, &profile.Handle, &profile.Platform, &profile.DisplayName,
		&profile.Bio, &profile.AvatarURL, &profile.FollowersCount,
		&profile.Verified, &profile.CreatedAt, &profile.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, profiles.ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile by handle: %w", err)
	}

	return profile, nil
}
