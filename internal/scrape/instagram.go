package scrape

import (
	"encoding/json"
	"fmt"
	"time"

	"Curio/internal/core/posts"
	"Curio/internal/core/profiles"
)

// The provider proxies several generations of Instagram's private API, so
// the same logical field shows up under different names and nesting
// depending on which endpoint served the request. Every canonical field is
// resolved through an ordered fallback chain below; the order is the
// contract and is covered by tests.

// instagramPostsResponse is the listing response for an Instagram handle.
type instagramPostsResponse struct {
	User          *instagramUser  `json:"user,omitempty"`
	NextMaxID     string          `json:"next_max_id"`
	Items         []instagramItem `json:"items"`
	MoreAvailable bool            `json:"more_available"`
}

// instagramProfileResponse is the profile lookup response. Older provider
// versions nest the user under "data".
type instagramProfileResponse struct {
	User *instagramUser `json:"user,omitempty"`
	Data *struct {
		User *instagramUser `json:"user,omitempty"`
	} `json:"data,omitempty"`
}

// instagramPostResponse is the single-post lookup response. Some versions
// return the item at the top level, others under "item".
type instagramPostResponse struct {
	Item *instagramItem `json:"item,omitempty"`
	instagramItem
}

// instagramUser covers both the flat profile shape and the legacy
// edge-count shape.
type instagramUser struct {
	Username         string          `json:"username"`
	FullName         string          `json:"full_name"`
	Biography        string          `json:"biography"`
	ProfilePicURLHD  string          `json:"profile_pic_url_hd"`
	ProfilePicURL    string          `json:"profile_pic_url"`
	FollowerCount    *int64          `json:"follower_count,omitempty"`
	EdgeFollowedBy   *instagramCount `json:"edge_followed_by,omitempty"`
	IsVerified       bool            `json:"is_verified"`
}

// instagramCount is the legacy nested "edge" count structure.
type instagramCount struct {
	Count int64 `json:"count"`
}

// instagramCaption is the nested caption object from the current API.
type instagramCaption struct {
	Text string `json:"text"`
}

// instagramCaptionEdges is the legacy edge_media_to_caption structure.
type instagramCaptionEdges struct {
	Edges []struct {
		Node struct {
			Text string `json:"text"`
		} `json:"node"`
	} `json:"edges"`
}

// instagramImageVersions holds ranked image candidates, best first.
type instagramImageVersions struct {
	Candidates []instagramMediaCandidate `json:"candidates"`
}

type instagramMediaCandidate struct {
	URL string `json:"url"`
}

// instagramDimensions is the width/height pair from the web shape.
type instagramDimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Instagram media_type values from the private API
const (
	instagramMediaTypeImage    = 1
	instagramMediaTypeVideo    = 2
	instagramMediaTypeCarousel = 8
)

// instagramItem is the union of the observed Instagram post shapes.
// Carousel children reuse the same shape as the parent.
type instagramItem struct {
	Caption            *instagramCaption         `json:"caption,omitempty"`
	EdgeMediaToCaption *instagramCaptionEdges    `json:"edge_media_to_caption,omitempty"`
	ImageVersions2     *instagramImageVersions   `json:"image_versions2,omitempty"`
	Dimensions         *instagramDimensions      `json:"dimensions,omitempty"`
	LikeCount          *int64                    `json:"like_count,omitempty"`
	EdgeLikedBy        *instagramCount           `json:"edge_liked_by,omitempty"`
	EdgeMediaPreviewLike *instagramCount         `json:"edge_media_preview_like,omitempty"`
	CommentCount       *int64                    `json:"comment_count,omitempty"`
	EdgeMediaToComment *instagramCount           `json:"edge_media_to_comment,omitempty"`
	PlayCount          *int64                    `json:"play_count,omitempty"`
	ViewCount          *int64                    `json:"view_count,omitempty"`
	VideoViewCount     *int64                    `json:"video_view_count,omitempty"`
	TakenAt            *int64                    `json:"taken_at,omitempty"`
	TakenAtTimestamp   *int64                    `json:"taken_at_timestamp,omitempty"`
	User               *instagramUser            `json:"user,omitempty"`
	Owner              *instagramUser            `json:"owner,omitempty"`
	ID                 string                    `json:"id"`
	PK                 json.Number               `json:"pk"`
	Code               string                    `json:"code"`
	Shortcode          string                    `json:"shortcode"`
	CaptionText        string                    `json:"caption_text"`
	VideoURL           string                    `json:"video_url"`
	DisplayURL         string                    `json:"display_url"`
	ThumbnailSrc       string                    `json:"thumbnail_src"`
	VideoVersions      []instagramMediaCandidate `json:"video_versions"`
	CarouselMedia      []instagramItem           `json:"carousel_media"`
	CarouselMediaCount int                       `json:"carousel_media_count"`
	MediaType          int                       `json:"media_type"`
	OriginalWidth      int                       `json:"original_width"`
	OriginalHeight     int                       `json:"original_height"`
	IsVideo            bool                      `json:"is_video"`
}

// shortcodeValue returns the post's public shortcode, trying the current
// field name first, or "" when only numeric IDs are present.
func (it *instagramItem) shortcodeValue() string {
	if it.Code != "" {
		return it.Code
	}
	return it.Shortcode
}

// postID resolves the platform post ID: shortcode, then string ID, then pk.
func (it *instagramItem) postID() string {
	if code := it.shortcodeValue(); code != "" {
		return code
	}
	if it.ID != "" {
		return it.ID
	}
	return it.PK.String()
}

// captionText resolves the caption: nested caption object, then the legacy
// caption-edge structure, then the literal fallback field.
func (it *instagramItem) captionText() string {
	if it.Caption != nil && it.Caption.Text != "" {
		return it.Caption.Text
	}
	if it.EdgeMediaToCaption != nil && len(it.EdgeMediaToCaption.Edges) > 0 {
		if text := it.EdgeMediaToCaption.Edges[0].Node.Text; text != "" {
			return text
		}
	}
	return it.CaptionText
}

// mediaURL resolves the primary media URL: direct video URL, then display
// URL, then the first image candidate, then the first carousel child's
// candidate. First non-empty wins.
func (it *instagramItem) mediaURL() string {
	if it.VideoURL != "" {
		return it.VideoURL
	}
	if len(it.VideoVersions) > 0 && it.VideoVersions[0].URL != "" {
		return it.VideoVersions[0].URL
	}
	if it.DisplayURL != "" {
		return it.DisplayURL
	}
	if it.ImageVersions2 != nil && len(it.ImageVersions2.Candidates) > 0 {
		if url := it.ImageVersions2.Candidates[0].URL; url != "" {
			return url
		}
	}
	if len(it.CarouselMedia) > 0 {
		return it.CarouselMedia[0].mediaURL()
	}
	return ""
}

// thumbnailURL resolves the preview image with the same candidate fallbacks.
func (it *instagramItem) thumbnailURL() string {
	if it.ThumbnailSrc != "" {
		return it.ThumbnailSrc
	}
	if it.DisplayURL != "" {
		return it.DisplayURL
	}
	if it.ImageVersions2 != nil && len(it.ImageVersions2.Candidates) > 0 {
		return it.ImageVersions2.Candidates[0].URL
	}
	return ""
}

// likes resolves the like count: flat field, then legacy edge structures.
// Missing everywhere means 0, a required metric.
func (it *instagramItem) likes() int64 {
	if it.LikeCount != nil {
		return *it.LikeCount
	}
	if it.EdgeLikedBy != nil {
		return it.EdgeLikedBy.Count
	}
	if it.EdgeMediaPreviewLike != nil {
		return it.EdgeMediaPreviewLike.Count
	}
	return 0
}

// comments resolves the comment count: flat field, then legacy edge.
func (it *instagramItem) comments() int64 {
	if it.CommentCount != nil {
		return *it.CommentCount
	}
	if it.EdgeMediaToComment != nil {
		return it.EdgeMediaToComment.Count
	}
	return 0
}

// views resolves the view count for video content. Returns nil for content
// that doesn't report views (images, carousels): "0 views" and "views not
// applicable" are different things downstream.
func (it *instagramItem) views() *int64 {
	if it.PlayCount != nil {
		return it.PlayCount
	}
	if it.ViewCount != nil {
		return it.ViewCount
	}
	if it.VideoViewCount != nil {
		return it.VideoViewCount
	}
	return nil
}

// takenAt resolves the post timestamp from either Unix-seconds field.
// Both absent falls back to now rather than failing the record.
func (it *instagramItem) takenAt() time.Time {
	if it.TakenAt != nil {
		return time.Unix(*it.TakenAt, 0).UTC()
	}
	if it.TakenAtTimestamp != nil {
		return time.Unix(*it.TakenAtTimestamp, 0).UTC()
	}
	return time.Now().UTC()
}

// isVideoItem reports whether the item is video content in any shape.
func (it *instagramItem) isVideoItem() bool {
	return it.IsVideo || it.MediaType == instagramMediaTypeVideo ||
		it.VideoURL != "" || len(it.VideoVersions) > 0
}

// isCarouselItem reports whether the item is a multi-media post.
func (it *instagramItem) isCarouselItem() bool {
	return it.MediaType == instagramMediaTypeCarousel || len(it.CarouselMedia) > 0
}

// owner returns the embedded author in either shape, or nil.
func (it *instagramItem) owner() *instagramUser {
	if it.User != nil {
		return it.User
	}
	return it.Owner
}

// NormalizeInstagramPost converts one raw Instagram item into the canonical
// Post model. It never fails on missing optional fields; the only error is a
// TransformError when no form of the platform post ID can be found.
func NormalizeInstagramPost(it *instagramItem) (*posts.Post, error) {
	id := it.postID()
	if id == "" {
		return nil, &TransformError{Platform: posts.PlatformInstagram, Field: "platform post ID"}
	}

	shortcode := it.shortcodeValue()
	originalURL := ""
	embedURL := ""
	if shortcode != "" {
		originalURL = fmt.Sprintf("https://www.instagram.com/p/%s/", shortcode)
		embedURL = fmt.Sprintf("https://www.instagram.com/p/%s/embed/", shortcode)
	}

	post := &posts.Post{
		PlatformPostID: id,
		Platform:       posts.PlatformInstagram,
		Shortcode:      shortcode,
		OriginalURL:    originalURL,
		EmbedURL:       embedURL,
		Caption:        it.captionText(),
		VideoURL:       it.VideoURL,
		DisplayURL:     it.DisplayURL,
		Thumbnail:      it.thumbnailURL(),
		IsVideo:        it.isVideoItem(),
		DatePosted:     it.takenAt(),
		Metrics: posts.Metrics{
			Likes:    it.likes(),
			Comments: it.comments(),
			Views:    it.views(),
		},
	}

	if post.VideoURL == "" && post.IsVideo {
		post.VideoURL = it.mediaURL()
	}
	if post.DisplayURL == "" {
		post.DisplayURL = it.mediaURL()
	}

	if it.Dimensions != nil {
		post.Width = it.Dimensions.Width
		post.Height = it.Dimensions.Height
	} else {
		post.Width = it.OriginalWidth
		post.Height = it.OriginalHeight
	}

	if it.isCarouselItem() {
		post.IsCarousel = true
		post.CarouselMedia = normalizeCarousel(it.CarouselMedia)
		post.CarouselCount = it.CarouselMediaCount
		if post.CarouselCount == 0 {
			post.CarouselCount = len(post.CarouselMedia)
		}
	}

	return post, nil
}

// normalizeCarousel converts carousel children preserving upstream order.
// Each child resolves its own media URL and thumbnail with the same
// fallback rules as a top-level item.
func normalizeCarousel(items []instagramItem) []posts.CarouselItem {
	if len(items) == 0 {
		return nil
	}

	out := make([]posts.CarouselItem, 0, len(items))
	for i := range items {
		child := &items[i]
		itemType := "image"
		if child.isVideoItem() {
			itemType = "video"
		}
		out = append(out, posts.CarouselItem{
			ID:        child.postID(),
			Type:      itemType,
			URL:       child.mediaURL(),
			Thumbnail: child.thumbnailURL(),
			IsVideo:   child.isVideoItem(),
		})
	}
	return out
}

// followers resolves the follower count: flat field, then legacy edge.
func (u *instagramUser) followers() int64 {
	if u.FollowerCount != nil {
		return *u.FollowerCount
	}
	if u.EdgeFollowedBy != nil {
		return u.EdgeFollowedBy.Count
	}
	return 0
}

// avatarURL prefers the HD variant when present.
func (u *instagramUser) avatarURL() string {
	if u.ProfilePicURLHD != "" {
		return u.ProfilePicURLHD
	}
	return u.ProfilePicURL
}

// NormalizeInstagramProfile converts a raw Instagram user into the canonical
// Profile model. The handle argument is used when the payload omits the
// username (some listing responses do).
func NormalizeInstagramProfile(u *instagramUser, handle string) (*profiles.Profile, error) {
	if u == nil {
		return nil, &TransformError{Platform: posts.PlatformInstagram, Field: "user"}
	}

	username := u.Username
	if username == "" {
		username = handle
	}
	if username == "" {
		return nil, &TransformError{Platform: posts.PlatformInstagram, Field: "username"}
	}

	return &profiles.Profile{
		Handle:         username,
		Platform:       posts.PlatformInstagram,
		DisplayName:    u.FullName,
		Bio:            u.Biography,
		FollowersCount: u.followers(),
		AvatarURL:      u.avatarURL(),
		Verified:       u.IsVerified,
	}, nil
}

// user resolves the profile payload across response generations.
func (r *instagramProfileResponse) user() *instagramUser {
	if r.User != nil {
		return r.User
	}
	if r.Data != nil {
		return r.Data.User
	}
	return nil
}

// item resolves the single-post payload across response generations.
func (r *instagramPostResponse) item() *instagramItem {
	if r.Item != nil {
		return r.Item
	}
	return &r.instagramItem
}
