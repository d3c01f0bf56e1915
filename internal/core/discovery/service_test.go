package discovery

import (
	"context"
	"errors"
	"testing"

	"Curio/internal/core/posts"
	"Curio/internal/core/profiles"
	"Curio/internal/scrape"
)

type fakeClient struct {
	profileErr error
	profile    *scrape.ProfileResult
	page       *scrape.PostsPage
	gotCursor  string
}

func (f *fakeClient) FetchProfile(ctx context.Context, handle string, platform posts.Platform) (*scrape.ProfileResult, error) {
	if f.profileErr != nil {
		return nil, f.profileErr
	}
	return f.profile, nil
}

func (f *fakeClient) FetchPosts(ctx context.Context, handle string, platform posts.Platform, pageSize int, cursor string) (*scrape.PostsPage, error) {
	f.gotCursor = cursor
	return f.page, nil
}

func TestSearchProfile_MapsUpstream404ToNotFound(t *testing.T) {
	svc := NewService(&fakeClient{
		profileErr: &scrape.FetchError{StatusCode: 404, Body: "no such user"},
	})

	_, err := svc.SearchProfile(context.Background(), "ghost", posts.PlatformInstagram)
	if !errors.Is(err, profiles.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestSearchProfile_OtherFetchErrorsPassThrough(t *testing.T) {
	upstream := &scrape.FetchError{StatusCode: 429, Body: "rate limited"}
	svc := NewService(&fakeClient{profileErr: upstream})

	_, err := svc.SearchProfile(context.Background(), "alice", posts.PlatformInstagram)
	var fetchErr *scrape.FetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != 429 {
		t.Errorf("expected 429 FetchError to pass through, got %v", err)
	}
}

func TestSearchProfile_EmptyHandle(t *testing.T) {
	svc := NewService(&fakeClient{})
	if _, err := svc.SearchProfile(context.Background(), "", posts.PlatformTikTok); !errors.Is(err, profiles.ErrProfileNotFound) {
		t.Errorf("expected ErrProfileNotFound for empty handle, got %v", err)
	}
}

func TestListPosts_PassesCursorThrough(t *testing.T) {
	client := &fakeClient{page: &scrape.PostsPage{}}
	svc := NewService(client)

	if _, err := svc.ListPosts(context.Background(), "alice", posts.PlatformTikTok, 12, "167890"); err != nil {
		t.Fatalf("ListPosts() error: %v", err)
	}
	if client.gotCursor != "167890" {
		t.Errorf("cursor = %q, want 167890", client.gotCursor)
	}
}
