package scrape

import (
	"context"

	"Curio/internal/core/posts"
)

// The two platforms paginate with incompatible idioms. Instagram listings
// carry more_available + next_max_id (the token must be passed back
// verbatim); TikTok listings carry has_more (0|1) + a numeric max_cursor we
// treat as opaque. Both collapse into PageCursor, rebuilt wholly from each
// response and never merged with the previous one.

// PageCursor is the transient pagination state for one listing sequence.
type PageCursor struct {
	Cursor  string `json:"cursor,omitempty"`
	HasMore bool   `json:"hasMore"`
}

// instagramPageCursor derives the next-page state from a listing response.
func instagramPageCursor(resp *instagramPostsResponse) PageCursor {
	return PageCursor{
		HasMore: resp.MoreAvailable,
		Cursor:  resp.NextMaxID,
	}
}

// tiktokPageCursor derives the next-page state from a listing response.
func tiktokPageCursor(resp *tiktokPostsResponse) PageCursor {
	return PageCursor{
		HasMore: resp.HasMore == 1,
		Cursor:  resp.MaxCursor.String(),
	}
}

// Lister is the listing subset of the client, split out so the pager can be
// tested against a fake.
type Lister interface {
	FetchPosts(ctx context.Context, handle string, platform posts.Platform, pageSize int, cursor string) (*PostsPage, error)
}

// Pager accumulates a handle's posts page by page. Once a response reports
// no more pages, LoadMore becomes a no-op even if a stale cursor value is
// still present.
type Pager struct {
	client   Lister
	handle   string
	platform posts.Platform
	posts    []*posts.Post
	cursor   PageCursor
	pageSize int
	started  bool
}

// NewPager creates a pager over one handle's listing.
func NewPager(client Lister, handle string, platform posts.Platform, pageSize int) *Pager {
	return &Pager{
		client:   client,
		handle:   handle,
		platform: platform,
		pageSize: pageSize,
	}
}

// HasMore reports whether another upstream page may exist. It is true
// before the first load.
func (p *Pager) HasMore() bool {
	return !p.started || p.cursor.HasMore
}

// Posts returns everything loaded so far.
func (p *Pager) Posts() []*posts.Post {
	return p.posts
}

// Cursor returns the current pagination state.
func (p *Pager) Cursor() PageCursor {
	return p.cursor
}

// LoadMore fetches the next page and returns the accumulated post list.
// When the previous page reported hasMore=false this performs no upstream
// call and returns the existing list unchanged.
func (p *Pager) LoadMore(ctx context.Context) ([]*posts.Post, error) {
	if p.started && !p.cursor.HasMore {
		return p.posts, nil
	}

	cursor := ""
	if p.started {
		cursor = p.cursor.Cursor
	}

	page, err := p.client.FetchPosts(ctx, p.handle, p.platform, p.pageSize, cursor)
	if err != nil {
		return nil, err
	}

	// Cursor state is fully replaced by the new page's values
	p.cursor = page.Cursor
	p.started = true
	p.posts = append(p.posts, page.Posts...)

	return p.posts, nil
}
