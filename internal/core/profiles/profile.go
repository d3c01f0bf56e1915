package profiles

import (
	"time"

	"Curio/internal/core/posts"
)

// Profile represents a creator account on one platform.
// Uniqueness is on (Handle, Platform). Profiles are created on first
// ingestion of any post by that handle and updated in place on every
// subsequent ingestion; the ingestion engine never deletes them.
type Profile struct {
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
	Handle         string         `json:"handle" db:"handle"`
	Platform       posts.Platform `json:"platform" db:"platform"`
	DisplayName    string         `json:"displayName" db:"display_name"`
	Bio            string         `json:"bio" db:"bio"`
	AvatarURL      string         `json:"avatarUrl" db:"avatar_url"`
	ID             int64          `json:"id" db:"id"`
	FollowersCount int64          `json:"followersCount" db:"followers_count"`
	Verified       bool           `json:"verified" db:"verified"`
}
