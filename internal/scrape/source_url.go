package scrape

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"Curio/internal/core/posts"
)

// Patterns for the public post URL shapes we ingest from
var (
	// https://www.instagram.com/p/{shortcode}/ (also /reel/ and /tv/)
	instagramPostURLPattern = regexp.MustCompile(`^https?://(?:www\.)?instagram\.com/(?:[^/]+/)?(?:p|reel|tv)/([A-Za-z0-9_-]+)`)

	// https://www.tiktok.com/@{handle}/video/{id}
	tiktokPostURLPattern = regexp.MustCompile(`^https?://(?:www\.)?tiktok\.com/@([^/]+)/video/(\d+)`)
)

// SourceRef is a parsed public post URL: the platform plus whatever
// identity the URL shape carries.
type SourceRef struct {
	Platform posts.Platform
	Handle   string // TikTok only; Instagram URLs don't carry the handle
	PostID   string // shortcode for Instagram, numeric ID for TikTok
	URL      string
}

// ParseSourceURL classifies a public post URL into a SourceRef.
// Returns an error for URLs on platforms we don't ingest from.
func ParseSourceURL(rawURL string) (*SourceRef, error) {
	trimmed := strings.TrimSpace(rawURL)
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("invalid source URL %q: %w", rawURL, err)
	}

	if matches := instagramPostURLPattern.FindStringSubmatch(trimmed); matches != nil {
		return &SourceRef{
			Platform: posts.PlatformInstagram,
			PostID:   matches[1],
			URL:      trimmed,
		}, nil
	}

	if matches := tiktokPostURLPattern.FindStringSubmatch(trimmed); matches != nil {
		return &SourceRef{
			Platform: posts.PlatformTikTok,
			Handle:   matches[1],
			PostID:   matches[2],
			URL:      trimmed,
		}, nil
	}

	return nil, fmt.Errorf("unsupported source URL: %s", rawURL)
}

// IsSupportedSourceURL reports whether the URL is an ingestible post URL.
func IsSupportedSourceURL(rawURL string) bool {
	_, err := ParseSourceURL(rawURL)
	return err == nil
}
