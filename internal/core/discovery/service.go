package discovery

import (
	"context"
	"errors"
	"log"
	"net/http"

	"Curio/internal/core/posts"
	"Curio/internal/core/profiles"
	"Curio/internal/scrape"
)

// Client is the slice of the scrape client the discovery service needs.
type Client interface {
	FetchProfile(ctx context.Context, handle string, platform posts.Platform) (*scrape.ProfileResult, error)
	FetchPosts(ctx context.Context, handle string, platform posts.Platform, pageSize int, cursor string) (*scrape.PostsPage, error)
}

// Service resolves live creator data for the browse/search surface.
// Nothing here writes to the store; persistence only happens when a
// post is saved to a board.
type Service interface {
	// SearchProfile looks a handle up on the given platform. An upstream
	// 404 maps to profiles.ErrProfileNotFound.
	SearchProfile(ctx context.Context, handle string, platform posts.Platform) (*scrape.ProfileResult, error)

	// ListPosts fetches one page of a handle's content. An empty cursor
	// requests the first page.
	ListPosts(ctx context.Context, handle string, platform posts.Platform, pageSize int, cursor string) (*scrape.PostsPage, error)
}

type service struct {
	client Client
}

// NewService creates the discovery service.
func NewService(client Client) Service {
	if client == nil {
		panic("discovery: client cannot be nil")
	}
	return &service{client: client}
}

func (s *service) SearchProfile(ctx context.Context, handle string, platform posts.Platform) (*scrape.ProfileResult, error) {
	if handle == "" {
		return nil, profiles.ErrProfileNotFound
	}

	result, err := s.client.FetchProfile(ctx, handle, platform)
	if err != nil {
		var fetchErr *scrape.FetchError
		if errors.As(err, &fetchErr) && fetchErr.StatusCode == http.StatusNotFound {
			log.Printf("[SCRAPE] Profile %s not found on %s", handle, platform)
			return nil, profiles.ErrProfileNotFound
		}
		return nil, err
	}

	return result, nil
}

func (s *service) ListPosts(ctx context.Context, handle string, platform posts.Platform, pageSize int, cursor string) (*scrape.PostsPage, error) {
	if handle == "" {
		return nil, profiles.ErrProfileNotFound
	}
	return s.client.FetchPosts(ctx, handle, platform, pageSize, cursor)
}
