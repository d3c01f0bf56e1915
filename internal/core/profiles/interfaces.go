package profiles

import (
	"context"

	"Curio/internal/core/posts"
)

// Repository defines the data access interface for profiles.
// Implementations must enforce uniqueness on (Handle, Platform).
type Repository interface {
	// Upsert inserts a profile or, when (Handle, Platform) already exists,
	// updates the mutable fields (display name, bio, followers, avatar,
	// verified) on the existing row. Returns the stored profile.
	Upsert(ctx context.Context, profile *Profile) (*Profile, error)

	// GetByHandle retrieves a profile by its platform-scoped handle.
	// Returns ErrProfileNotFound when no row matches.
	GetByHandle(ctx context.Context, handle string, platform posts.Platform) (*Profile, error)
}
