package scrape

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNormalizeInstagramPost_MetricFallback(t *testing.T) {
	// A flat like_count and the legacy edge structure must normalize to the
	// same value given equal counts.
	flat := []byte(`{
		"code": "ABC123",
		"like_count": 42,
		"comment_count": 7,
		"taken_at": 1700000000
	}`)
	legacy := []byte(`{
		"shortcode": "ABC123",
		"edge_liked_by": {"count": 42},
		"edge_media_to_comment": {"count": 7},
		"taken_at_timestamp": 1700000000
	}`)

	var flatItem, legacyItem instagramItem
	if err := json.Unmarshal(flat, &flatItem); err != nil {
		t.Fatalf("failed to unmarshal flat item: %v", err)
	}
	if err := json.Unmarshal(legacy, &legacyItem); err != nil {
		t.Fatalf("failed to unmarshal legacy item: %v", err)
	}

	flatPost, err := NormalizeInstagramPost(&flatItem)
	if err != nil {
		t.Fatalf("NormalizeInstagramPost(flat) error: %v", err)
	}
	legacyPost, err := NormalizeInstagramPost(&legacyItem)
	if err != nil {
		t.Fatalf("NormalizeInstagramPost(legacy) error: %v", err)
	}

	if flatPost.Metrics.Likes != legacyPost.Metrics.Likes {
		t.Errorf("likes differ: flat=%d legacy=%d", flatPost.Metrics.Likes, legacyPost.Metrics.Likes)
	}
	if flatPost.Metrics.Likes != 42 {
		t.Errorf("likes = %d, want 42", flatPost.Metrics.Likes)
	}
	if flatPost.Metrics.Comments != legacyPost.Metrics.Comments {
		t.Errorf("comments differ: flat=%d legacy=%d", flatPost.Metrics.Comments, legacyPost.Metrics.Comments)
	}
	if !flatPost.DatePosted.Equal(legacyPost.DatePosted) {
		t.Errorf("timestamps differ: flat=%v legacy=%v", flatPost.DatePosted, legacyPost.DatePosted)
	}
	if want := time.Unix(1700000000, 0).UTC(); !flatPost.DatePosted.Equal(want) {
		t.Errorf("datePosted = %v, want %v", flatPost.DatePosted, want)
	}
}

func TestNormalizeInstagramPost_ViewsNotInvented(t *testing.T) {
	raw := []byte(`{"code": "IMG999", "media_type": 1, "like_count": 5}`)

	var item instagramItem
	if err := json.Unmarshal(raw, &item); err != nil {
		t.Fatalf("failed to unmarshal item: %v", err)
	}

	post, err := NormalizeInstagramPost(&item)
	if err != nil {
		t.Fatalf("NormalizeInstagramPost() error: %v", err)
	}

	if post.Metrics.Views != nil {
		t.Errorf("expected nil views for image content, got %d", *post.Metrics.Views)
	}
	if post.Metrics.Shares != nil {
		t.Errorf("expected nil shares, got %d", *post.Metrics.Shares)
	}
	if post.Metrics.Likes != 5 {
		t.Errorf("likes = %d, want 5", post.Metrics.Likes)
	}
}

func TestNormalizeInstagramPost_CaptionFallbackOrder(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "nested caption object wins",
			raw:      `{"code":"A1","caption":{"text":"nested"},"edge_media_to_caption":{"edges":[{"node":{"text":"edge"}}]},"caption_text":"literal"}`,
			expected: "nested",
		},
		{
			name:     "legacy edge structure second",
			raw:      `{"code":"A1","edge_media_to_caption":{"edges":[{"node":{"text":"edge"}}]},"caption_text":"literal"}`,
			expected: "edge",
		},
		{
			name:     "literal fallback last",
			raw:      `{"code":"A1","caption_text":"literal"}`,
			expected: "literal",
		},
		{
			name:     "no caption anywhere",
			raw:      `{"code":"A1"}`,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item instagramItem
			if err := json.Unmarshal([]byte(tt.raw), &item); err != nil {
				t.Fatalf("failed to unmarshal: %v", err)
			}
			post, err := NormalizeInstagramPost(&item)
			if err != nil {
				t.Fatalf("NormalizeInstagramPost() error: %v", err)
			}
			if post.Caption != tt.expected {
				t.Errorf("caption = %q, want %q", post.Caption, tt.expected)
			}
		})
	}
}

func TestNormalizeInstagramPost_MediaURLFallbackOrder(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "direct video URL wins",
			raw:      `{"code":"A1","video_url":"https://cdn/video.mp4","display_url":"https://cdn/display.jpg"}`,
			expected: "https://cdn/video.mp4",
		},
		{
			name:     "display URL second",
			raw:      `{"code":"A1","display_url":"https://cdn/display.jpg","image_versions2":{"candidates":[{"url":"https://cdn/candidate.jpg"}]}}`,
			expected: "https://cdn/display.jpg",
		},
		{
			name:     "image candidate third",
			raw:      `{"code":"A1","image_versions2":{"candidates":[{"url":"https://cdn/candidate.jpg"}]}}`,
			expected: "https://cdn/candidate.jpg",
		},
		{
			name:     "carousel child candidate last",
			raw:      `{"code":"A1","carousel_media":[{"pk":"111","image_versions2":{"candidates":[{"url":"https://cdn/child.jpg"}]}}]}`,
			expected: "https://cdn/child.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var item instagramItem
			if err := json.Unmarshal([]byte(tt.raw), &item); err != nil {
				t.Fatalf("failed to unmarshal: %v", err)
			}
			if got := item.mediaURL(); got != tt.expected {
				t.Errorf("mediaURL() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestNormalizeInstagramPost_CarouselOrdering(t *testing.T) {
	raw := []byte(`{
		"code": "CAR123",
		"media_type": 8,
		"carousel_media_count": 3,
		"carousel_media": [
			{"pk": "1", "image_versions2": {"candidates": [{"url": "https://cdn/1.jpg"}]}},
			{"pk": "2", "video_url": "https://cdn/2.mp4"},
			{"pk": "3", "image_versions2": {"candidates": [{"url": "https://cdn/3.jpg"}]}}
		]
	}`)

	var item instagramItem
	if err := json.Unmarshal(raw, &item); err != nil {
		t.Fatalf("failed to unmarshal item: %v", err)
	}

	post, err := NormalizeInstagramPost(&item)
	if err != nil {
		t.Fatalf("NormalizeInstagramPost() error: %v", err)
	}

	if !post.IsCarousel {
		t.Fatal("expected IsCarousel=true")
	}
	if len(post.CarouselMedia) != 3 {
		t.Fatalf("carousel length = %d, want 3", len(post.CarouselMedia))
	}
	if post.CarouselCount != 3 {
		t.Errorf("carouselCount = %d, want 3", post.CarouselCount)
	}

	wantIDs := []string{"1", "2", "3"}
	for i, want := range wantIDs {
		if post.CarouselMedia[i].ID != want {
			t.Errorf("carouselMedia[%d].ID = %q, want %q", i, post.CarouselMedia[i].ID, want)
		}
	}

	if !post.CarouselMedia[1].IsVideo {
		t.Error("expected carouselMedia[1] to be video")
	}
	if post.CarouselMedia[1].URL != "https://cdn/2.mp4" {
		t.Errorf("carouselMedia[1].URL = %q, want the video URL", post.CarouselMedia[1].URL)
	}
	if post.CarouselMedia[0].Type != "image" {
		t.Errorf("carouselMedia[0].Type = %q, want image", post.CarouselMedia[0].Type)
	}
}

func TestNormalizeInstagramPost_TimestampFallsBackToNow(t *testing.T) {
	var item instagramItem
	if err := json.Unmarshal([]byte(`{"code":"A1"}`), &item); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	before := time.Now().UTC()
	post, err := NormalizeInstagramPost(&item)
	if err != nil {
		t.Fatalf("NormalizeInstagramPost() error: %v", err)
	}
	after := time.Now().UTC()

	if post.DatePosted.Before(before) || post.DatePosted.After(after) {
		t.Errorf("datePosted = %v, expected fallback to now", post.DatePosted)
	}
}

func TestNormalizeInstagramPost_MissingIDFails(t *testing.T) {
	var item instagramItem
	if err := json.Unmarshal([]byte(`{"caption_text":"orphan"}`), &item); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	_, err := NormalizeInstagramPost(&item)
	if err == nil {
		t.Fatal("expected error for item without any post ID")
	}
	if !IsTransformError(err) {
		t.Errorf("expected TransformError, got %T: %v", err, err)
	}
}

func TestNormalizeInstagramProfile_FollowerFallback(t *testing.T) {
	flat := &instagramUser{Username: "alice", FollowerCount: int64Ptr(1200)}
	legacy := &instagramUser{Username: "alice", EdgeFollowedBy: &instagramCount{Count: 1200}}

	flatProfile, err := NormalizeInstagramProfile(flat, "")
	if err != nil {
		t.Fatalf("NormalizeInstagramProfile(flat) error: %v", err)
	}
	legacyProfile, err := NormalizeInstagramProfile(legacy, "")
	if err != nil {
		t.Fatalf("NormalizeInstagramProfile(legacy) error: %v", err)
	}

	if flatProfile.FollowersCount != legacyProfile.FollowersCount {
		t.Errorf("follower counts differ: flat=%d legacy=%d",
			flatProfile.FollowersCount, legacyProfile.FollowersCount)
	}
}

func int64Ptr(v int64) *int64 {
	return &v
}
