package scrape

import (
	"context"
	"errors"
	"fmt"
	"time"

	"Curio/internal/core/posts"
)

// ErrCacheMiss is returned when a cache entry is not found or has expired
var ErrCacheMiss = errors.New("cache miss")

// CacheRepository defines the interface for the shared upstream response
// cache. Values are the raw JSON bodies of successful provider responses.
// A read past the entry's expiry is a miss; writes always set a fresh TTL.
type CacheRepository interface {
	// Get retrieves a cached response body for the given key.
	// Returns ErrCacheMiss if not found or expired (not an error
	// condition). Returns error only on store failures.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a response body under key with the specified TTL,
	// replacing any existing entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// callType distinguishes cached request kinds; it is part of the cache key
// and selects the TTL.
type callType string

const (
	callTypeProfile callType = "profile"
	callTypePosts   callType = "posts"
	callTypePost    callType = "post"
)

// cacheKey builds the logical request identity used as the cache key.
// Pagination cursors are deliberately excluded: only first-page listing
// calls are cached.
func cacheKey(platform posts.Platform, ct callType, subject string) string {
	return fmt.Sprintf("%s:%s:%s", platform, ct, subject)
}
