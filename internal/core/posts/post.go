package posts

import (
	"time"
)

// Platform identifies the source network a post or profile came from.
type Platform string

const (
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
)

// IsValid reports whether the platform is one we ingest from.
func (p Platform) IsValid() bool {
	return p == PlatformInstagram || p == PlatformTikTok
}

// Metrics holds engagement counts for a post.
// Likes and Comments are always reported (0 when the platform returns
// nothing); Views and Shares are nil for content types that don't report
// them, so consumers can tell "0 views" apart from "views not applicable".
type Metrics struct {
	Views    *int64 `json:"views,omitempty" db:"views"`
	Shares   *int64 `json:"shares,omitempty" db:"shares"`
	Likes    int64  `json:"likes" db:"likes"`
	Comments int64  `json:"comments" db:"comments"`
}

// CarouselItem is one media entry of a multi-media post.
// Order matches the upstream carousel order.
type CarouselItem struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	Thumbnail string `json:"thumbnail,omitempty"`
	IsVideo   bool   `json:"isVideo"`
}

// Post is the canonical content model every upstream shape normalizes into.
// Uniqueness is on (PlatformPostID, Platform); PlatformPostID is the
// reconciled dedup key (see ReconcilePlatformPostID).
type Post struct {
	DatePosted     time.Time      `json:"datePosted" db:"date_posted"`
	CreatedAt      time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time      `json:"updatedAt" db:"updated_at"`
	Transcript     *string        `json:"transcript,omitempty" db:"transcript"`
	EmbedHTML      *string        `json:"embedHtml,omitempty" db:"embed_html"`
	PlatformPostID string         `json:"platformPostId" db:"platform_post_id"`
	Platform       Platform       `json:"platform" db:"platform"`
	EmbedURL       string         `json:"embedUrl" db:"embed_url"`
	OriginalURL    string         `json:"originalUrl" db:"original_url"`
	Caption        string         `json:"caption" db:"caption"`
	Thumbnail      string         `json:"thumbnail,omitempty" db:"thumbnail"`
	VideoURL       string         `json:"videoUrl,omitempty" db:"video_url"`
	DisplayURL     string         `json:"displayUrl,omitempty" db:"display_url"`
	Shortcode      string         `json:"shortcode,omitempty" db:"shortcode"`
	CarouselMedia  []CarouselItem `json:"carouselMedia,omitempty" db:"carousel_media"`
	Metrics        Metrics        `json:"metrics"`
	ID             int64          `json:"id" db:"id"`
	ProfileID      int64          `json:"profileId" db:"profile_id"`
	CarouselCount  int            `json:"carouselCount,omitempty" db:"carousel_count"`
	Width          int            `json:"width,omitempty" db:"width"`
	Height         int            `json:"height,omitempty" db:"height"`
	IsVideo        bool           `json:"isVideo" db:"is_video"`
	IsCarousel     bool           `json:"isCarousel" db:"is_carousel"`
}
