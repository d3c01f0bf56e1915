package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"Curio/internal/core/posts"
	"Curio/internal/core/profiles"
)

// Cache TTLs per call type. Profile data is comparatively stable; post
// listings go stale quickly as engagement moves.
const (
	ttlProfile = 6 * time.Hour
	ttlListing = 10 * time.Minute
)

// maxErrorBodySize limits how much of an upstream error body we keep
const maxErrorBodySize = 1024

// ProfileResult is a resolved profile tagged with its cache provenance.
type ProfileResult struct {
	Profile *profiles.Profile `json:"profile"`
	Cached  bool              `json:"cached"`
}

// PostsPage is one page of a handle's listing: normalized posts, the
// author profile when the response carried one, and the next-page cursor.
type PostsPage struct {
	Profile *profiles.Profile `json:"profile,omitempty"`
	Posts   []*posts.Post     `json:"posts"`
	Cursor  PageCursor        `json:"cursor"`
	Cached  bool              `json:"cached"`
}

// PostResult is a single resolved post plus its author when available.
type PostResult struct {
	Post    *posts.Post       `json:"post"`
	Profile *profiles.Profile `json:"profile,omitempty"`
	Cached  bool              `json:"cached"`
}

// Client is the upstream scraping-provider client with a cache-aside layer.
// It does not retry and carries no timeout policy of its own: failures
// surface as FetchError and retry/backoff belongs to the caller.
type Client struct {
	cache      CacheRepository
	httpClient *http.Client
	breaker    *circuitBreaker
	baseURL    string
	apiKey     string
	userAgent  string
	profileTTL time.Duration
	listingTTL time.Duration
}

// NewClient creates a provider client.
func NewClient(baseURL, apiKey string, cache CacheRepository, opts ...ClientOption) *Client {
	if cache == nil {
		panic("scrape: cache cannot be nil")
	}

	c := &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		cache:      cache,
		httpClient: http.DefaultClient,
		breaker:    newCircuitBreaker(),
		userAgent:  "CurioBot/1.0 (+https://curio.app)",
		profileTTL: ttlProfile,
		listingTTL: ttlListing,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithHTTPClient injects the HTTP client (tests use httptest-backed ones)
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithProfileTTL overrides the profile-lookup cache TTL
func WithProfileTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.profileTTL = ttl
	}
}

// WithListingTTL overrides the post-listing cache TTL
func WithListingTTL(ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.listingTTL = ttl
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) ClientOption {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// endpoint builds the provider URL for a call. Profile lookups are served
// from the provider's v2 API while everything else still lives under v1;
// that is purely a routing concern and invisible to the normalizers.
func (c *Client) endpoint(platform posts.Platform, ct callType, query url.Values) string {
	version := "v1"
	if ct == callTypeProfile {
		version = "v2"
	}
	return fmt.Sprintf("%s/%s/%s/%s?%s", c.baseURL, version, platform, ct, query.Encode())
}

// FetchProfile resolves a creator profile, preferring the shared cache.
func (c *Client) FetchProfile(ctx context.Context, handle string, platform posts.Platform) (*ProfileResult, error) {
	if !platform.IsValid() {
		return nil, posts.ErrInvalidPlatform
	}

	key := cacheKey(platform, callTypeProfile, handle)
	if raw, err := c.cacheGet(ctx, key); err == nil {
		profile, err := c.decodeProfile(raw, handle, platform)
		if err == nil {
			log.Printf("[SCRAPE] Cache hit for %s", key)
			return &ProfileResult{Profile: profile, Cached: true}, nil
		}
		log.Printf("[SCRAPE] Warning: discarding undecodable cache entry %s: %v", key, err)
	}

	query := url.Values{"handle": {handle}}
	raw, err := c.getJSON(ctx, platform, callTypeProfile, query)
	if err != nil {
		return nil, err
	}

	profile, err := c.decodeProfile(raw, handle, platform)
	if err != nil {
		return nil, err
	}

	c.cacheSet(ctx, key, raw, c.profileTTL)

	return &ProfileResult{Profile: profile}, nil
}

// FetchPosts fetches one page of a handle's listing. Only first-page calls
// (empty cursor) are cached; the cache key excludes pagination state.
func (c *Client) FetchPosts(ctx context.Context, handle string, platform posts.Platform, pageSize int, cursor string) (*PostsPage, error) {
	if !platform.IsValid() {
		return nil, posts.ErrInvalidPlatform
	}
	if pageSize <= 0 {
		pageSize = 12
	}

	key := cacheKey(platform, callTypePosts, handle)
	if cursor == "" {
		if raw, err := c.cacheGet(ctx, key); err == nil {
			page, err := c.decodePostsPage(raw, handle, platform)
			if err == nil {
				log.Printf("[SCRAPE] Cache hit for %s", key)
				page.Cached = true
				return page, nil
			}
			log.Printf("[SCRAPE] Warning: discarding undecodable cache entry %s: %v", key, err)
		}
	}

	query := url.Values{
		"handle": {handle},
		"count":  {strconv.Itoa(pageSize)},
	}
	if cursor != "" {
		query.Set("cursor", cursor)
	}

	raw, err := c.getJSON(ctx, platform, callTypePosts, query)
	if err != nil {
		return nil, err
	}

	page, err := c.decodePostsPage(raw, handle, platform)
	if err != nil {
		return nil, err
	}

	if cursor == "" {
		c.cacheSet(ctx, key, raw, c.listingTTL)
	}

	return page, nil
}

// FetchPost resolves a single post from its public URL.
func (c *Client) FetchPost(ctx context.Context, sourceURL string) (*PostResult, error) {
	ref, err := ParseSourceURL(sourceURL)
	if err != nil {
		return nil, err
	}

	key := cacheKey(ref.Platform, callTypePost, ref.PostID)
	if raw, err := c.cacheGet(ctx, key); err == nil {
		result, err := c.decodePost(raw, ref)
		if err == nil {
			log.Printf("[SCRAPE] Cache hit for %s", key)
			result.Cached = true
			return result, nil
		}
		log.Printf("[SCRAPE] Warning: discarding undecodable cache entry %s: %v", key, err)
	}

	query := url.Values{"url": {ref.URL}}
	raw, err := c.getJSON(ctx, ref.Platform, callTypePost, query)
	if err != nil {
		return nil, err
	}

	result, err := c.decodePost(raw, ref)
	if err != nil {
		return nil, err
	}

	c.cacheSet(ctx, key, raw, c.listingTTL)

	return result, nil
}

// transcriptResponse is the provider's transcript payload
type transcriptResponse struct {
	Transcript string `json:"transcript"`
}

// FetchTranscript fetches the transcript for a video post. Not cached:
// transcripts are fetched once per post by the enrichment worker.
func (c *Client) FetchTranscript(ctx context.Context, sourceURL string) (string, error) {
	ref, err := ParseSourceURL(sourceURL)
	if err != nil {
		return "", err
	}

	query := url.Values{"url": {ref.URL}}
	raw, err := c.getJSON(ctx, ref.Platform, callType("transcript"), query)
	if err != nil {
		return "", err
	}

	var resp transcriptResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", &FetchError{StatusCode: http.StatusOK, Body: "non-JSON transcript body"}
	}

	return resp.Transcript, nil
}

// getJSON performs one upstream GET behind the circuit breaker and returns
// the raw body of a 2xx JSON response. Any non-2xx status or non-JSON body
// becomes a FetchError; there are no internal retries.
func (c *Client) getJSON(ctx context.Context, platform posts.Platform, ct callType, query url.Values) ([]byte, error) {
	canAttempt, err := c.breaker.canAttempt(string(platform))
	if !canAttempt {
		return nil, err
	}

	reqURL := c.endpoint(platform, ct, query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.breaker.recordFailure(string(platform), err)
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		fetchErr := &FetchError{StatusCode: resp.StatusCode, Body: string(body)}
		c.breaker.recordFailure(string(platform), fetchErr)
		return nil, fetchErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.breaker.recordFailure(string(platform), err)
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if !json.Valid(raw) {
		fetchErr := &FetchError{StatusCode: resp.StatusCode, Body: "non-JSON response body"}
		c.breaker.recordFailure(string(platform), fetchErr)
		return nil, fetchErr
	}

	c.breaker.recordSuccess(string(platform))
	return raw, nil
}

// cacheGet reads the shared cache, logging store failures but treating
// them as misses: the cache is best-effort.
func (c *Client) cacheGet(ctx context.Context, key string) ([]byte, error) {
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("[SCRAPE] Warning: cache read error for %s: %v", key, err)
		}
		return nil, ErrCacheMiss
	}
	return raw, nil
}

// cacheSet writes the shared cache; failures are logged, never surfaced.
func (c *Client) cacheSet(ctx context.Context, key string, raw []byte, ttl time.Duration) {
	if err := c.cache.Set(ctx, key, raw, ttl); err != nil {
		log.Printf("[SCRAPE] Warning: failed to cache %s: %v", key, err)
	}
}

func (c *Client) decodeProfile(raw []byte, handle string, platform posts.Platform) (*profiles.Profile, error) {
	switch platform {
	case posts.PlatformInstagram:
		var resp instagramProfileResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode instagram profile: %w", err)
		}
		return NormalizeInstagramProfile(resp.user(), handle)
	case posts.PlatformTikTok:
		var resp tiktokProfileResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode tiktok profile: %w", err)
		}
		return NormalizeTikTokProfile(resp.author(), handle)
	default:
		return nil, posts.ErrInvalidPlatform
	}
}

func (c *Client) decodePostsPage(raw []byte, handle string, platform posts.Platform) (*PostsPage, error) {
	switch platform {
	case posts.PlatformInstagram:
		var resp instagramPostsResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode instagram listing: %w", err)
		}

		page := &PostsPage{Cursor: instagramPageCursor(&resp)}
		if resp.User != nil {
			if profile, err := NormalizeInstagramProfile(resp.User, handle); err == nil {
				page.Profile = profile
			}
		}
		for i := range resp.Items {
			post, err := NormalizeInstagramPost(&resp.Items[i])
			if err != nil {
				log.Printf("[SCRAPE] Skipping instagram item: %v", err)
				continue
			}
			page.Posts = append(page.Posts, post)
		}
		return page, nil

	case posts.PlatformTikTok:
		var resp tiktokPostsResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode tiktok listing: %w", err)
		}

		page := &PostsPage{Cursor: tiktokPageCursor(&resp)}
		if resp.Author != nil {
			if profile, err := NormalizeTikTokProfile(resp.Author, handle); err == nil {
				page.Profile = profile
			}
		}
		for i := range resp.AwemeList {
			post, err := NormalizeTikTokPost(&resp.AwemeList[i], handle)
			if err != nil {
				log.Printf("[SCRAPE] Skipping tiktok item: %v", err)
				continue
			}
			page.Posts = append(page.Posts, post)
		}
		return page, nil

	default:
		return nil, posts.ErrInvalidPlatform
	}
}

func (c *Client) decodePost(raw []byte, ref *SourceRef) (*PostResult, error) {
	switch ref.Platform {
	case posts.PlatformInstagram:
		var resp instagramPostResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode instagram post: %w", err)
		}
		item := resp.item()
		post, err := NormalizeInstagramPost(item)
		if err != nil {
			return nil, err
		}
		if post.OriginalURL == "" {
			post.OriginalURL = ref.URL
		}
		result := &PostResult{Post: post}
		if owner := item.owner(); owner != nil {
			if profile, err := NormalizeInstagramProfile(owner, ""); err == nil {
				result.Profile = profile
			}
		}
		return result, nil

	case posts.PlatformTikTok:
		var resp tiktokPostResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return nil, fmt.Errorf("failed to decode tiktok post: %w", err)
		}
		item := resp.item()
		if item == nil {
			return nil, &TransformError{Platform: posts.PlatformTikTok, Field: "item"}
		}
		post, err := NormalizeTikTokPost(item, ref.Handle)
		if err != nil {
			return nil, err
		}
		if post.OriginalURL == "" {
			post.OriginalURL = ref.URL
		}
		result := &PostResult{Post: post}
		if item.Author != nil {
			if profile, err := NormalizeTikTokProfile(item.Author, ref.Handle); err == nil {
				result.Profile = profile
			}
		}
		return result, nil

	default:
		return nil, posts.ErrInvalidPlatform
	}
}
