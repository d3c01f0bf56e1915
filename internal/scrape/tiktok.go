package scrape

import (
	"encoding/json"
	"fmt"
	"time"

	"Curio/internal/core/posts"
	"Curio/internal/core/profiles"
)

// TikTok payloads come in two observed generations: the mobile API shape
// (snake_case, address objects with url_list) and the web shape (camelCase,
// bare string addresses). tiktokAddr absorbs both so the resolvers only
// deal with one type.

// tiktokPostsResponse is the listing response for a TikTok handle.
type tiktokPostsResponse struct {
	MaxCursor json.Number  `json:"max_cursor"`
	Author    *tiktokAuthor `json:"author,omitempty"`
	AwemeList []tiktokItem `json:"aweme_list"`
	HasMore   int          `json:"has_more"`
}

// tiktokProfileResponse is the profile lookup response.
type tiktokProfileResponse struct {
	User   *tiktokAuthor `json:"user,omitempty"`
	Author *tiktokAuthor `json:"author,omitempty"`
}

// tiktokPostResponse is the single-post lookup response.
type tiktokPostResponse struct {
	AwemeDetail *tiktokItem `json:"aweme_detail,omitempty"`
	ItemInfo    *struct {
		ItemStruct *tiktokItem `json:"itemStruct,omitempty"`
	} `json:"itemInfo,omitempty"`
}

// tiktokAddr accepts both the API address shape {"url_list": [...]} and the
// web shape where the address is a bare string.
type tiktokAddr struct {
	URLList []string `json:"url_list"`
}

func (a *tiktokAddr) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		a.URLList = []string{s}
		return nil
	}

	type addrAlias tiktokAddr
	var aux addrAlias
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = tiktokAddr(aux)
	return nil
}

// first returns the best address or "".
func (a *tiktokAddr) first() string {
	if a == nil || len(a.URLList) == 0 {
		return ""
	}
	return a.URLList[0]
}

// tiktokVideo holds the media addresses in either shape.
type tiktokVideo struct {
	PlayAddr     *tiktokAddr `json:"play_addr,omitempty"`
	PlayAddrWeb  *tiktokAddr `json:"playAddr,omitempty"`
	DownloadAddr *tiktokAddr `json:"download_addr,omitempty"`
	Cover        *tiktokAddr `json:"cover,omitempty"`
	OriginCover  *tiktokAddr `json:"origin_cover,omitempty"`
	Width        int         `json:"width"`
	Height       int         `json:"height"`
}

// tiktokStatistics is the API-shape engagement block.
type tiktokStatistics struct {
	PlayCount    *int64 `json:"play_count,omitempty"`
	DiggCount    *int64 `json:"digg_count,omitempty"`
	CommentCount *int64 `json:"comment_count,omitempty"`
	ShareCount   *int64 `json:"share_count,omitempty"`
}

// tiktokWebStats is the web-shape engagement block.
type tiktokWebStats struct {
	PlayCount    *int64 `json:"playCount,omitempty"`
	DiggCount    *int64 `json:"diggCount,omitempty"`
	CommentCount *int64 `json:"commentCount,omitempty"`
	ShareCount   *int64 `json:"shareCount,omitempty"`
}

// tiktokAuthor covers both author shapes.
type tiktokAuthor struct {
	UniqueID       string      `json:"unique_id"`
	UniqueIDWeb    string      `json:"uniqueId"`
	Nickname       string      `json:"nickname"`
	Signature      string      `json:"signature"`
	FollowerCount  *int64      `json:"follower_count,omitempty"`
	FollowerCountW *int64      `json:"followerCount,omitempty"`
	AvatarLarger   *tiktokAddr `json:"avatar_larger,omitempty"`
	AvatarLargerW  *tiktokAddr `json:"avatarLarger,omitempty"`
	Verified       bool        `json:"verified"`
}

// tiktokItem is the union of the observed TikTok post shapes.
type tiktokItem struct {
	Video         *tiktokVideo      `json:"video,omitempty"`
	Statistics    *tiktokStatistics `json:"statistics,omitempty"`
	Stats         *tiktokWebStats   `json:"stats,omitempty"`
	Author        *tiktokAuthor     `json:"author,omitempty"`
	CreateTime    *int64            `json:"create_time,omitempty"`
	CreateTimeWeb *int64            `json:"createTime,omitempty"`
	AwemeID       string            `json:"aweme_id"`
	ID            string            `json:"id"`
	Desc          string            `json:"desc"`
}

// postID resolves the TikTok post ID. TikTok IDs are canonical everywhere;
// no reconciliation step applies.
func (it *tiktokItem) postID() string {
	if it.AwemeID != "" {
		return it.AwemeID
	}
	return it.ID
}

// videoURL resolves the playable address across both shapes.
func (it *tiktokItem) videoURL() string {
	if it.Video == nil {
		return ""
	}
	if url := it.Video.PlayAddr.first(); url != "" {
		return url
	}
	if url := it.Video.PlayAddrWeb.first(); url != "" {
		return url
	}
	return it.Video.DownloadAddr.first()
}

// coverURL resolves the thumbnail across both shapes.
func (it *tiktokItem) coverURL() string {
	if it.Video == nil {
		return ""
	}
	if url := it.Video.Cover.first(); url != "" {
		return url
	}
	return it.Video.OriginCover.first()
}

func (it *tiktokItem) playCount() *int64 {
	if it.Statistics != nil && it.Statistics.PlayCount != nil {
		return it.Statistics.PlayCount
	}
	if it.Stats != nil {
		return it.Stats.PlayCount
	}
	return nil
}

func (it *tiktokItem) likes() int64 {
	if it.Statistics != nil && it.Statistics.DiggCount != nil {
		return *it.Statistics.DiggCount
	}
	if it.Stats != nil && it.Stats.DiggCount != nil {
		return *it.Stats.DiggCount
	}
	return 0
}

func (it *tiktokItem) comments() int64 {
	if it.Statistics != nil && it.Statistics.CommentCount != nil {
		return *it.Statistics.CommentCount
	}
	if it.Stats != nil && it.Stats.CommentCount != nil {
		return *it.Stats.CommentCount
	}
	return 0
}

func (it *tiktokItem) shares() *int64 {
	if it.Statistics != nil && it.Statistics.ShareCount != nil {
		return it.Statistics.ShareCount
	}
	if it.Stats != nil {
		return it.Stats.ShareCount
	}
	return nil
}

// createdAt resolves the post timestamp from either Unix-seconds field,
// falling back to now rather than failing the record.
func (it *tiktokItem) createdAt() time.Time {
	if it.CreateTime != nil {
		return time.Unix(*it.CreateTime, 0).UTC()
	}
	if it.CreateTimeWeb != nil {
		return time.Unix(*it.CreateTimeWeb, 0).UTC()
	}
	return time.Now().UTC()
}

// handle resolves the author handle across both shapes.
func (a *tiktokAuthor) handle() string {
	if a == nil {
		return ""
	}
	if a.UniqueID != "" {
		return a.UniqueID
	}
	return a.UniqueIDWeb
}

func (a *tiktokAuthor) followers() int64 {
	if a.FollowerCount != nil {
		return *a.FollowerCount
	}
	if a.FollowerCountW != nil {
		return *a.FollowerCountW
	}
	return 0
}

func (a *tiktokAuthor) avatarURL() string {
	if url := a.AvatarLarger.first(); url != "" {
		return url
	}
	return a.AvatarLargerW.first()
}

// NormalizeTikTokPost converts one raw TikTok item into the canonical Post
// model. The handle argument builds the canonical URL when the payload
// omits the author. The only failure is a missing platform post ID.
func NormalizeTikTokPost(it *tiktokItem, handle string) (*posts.Post, error) {
	id := it.postID()
	if id == "" {
		return nil, &TransformError{Platform: posts.PlatformTikTok, Field: "platform post ID"}
	}

	if h := it.Author.handle(); h != "" {
		handle = h
	}

	originalURL := ""
	if handle != "" {
		originalURL = fmt.Sprintf("https://www.tiktok.com/@%s/video/%s", handle, id)
	}

	post := &posts.Post{
		PlatformPostID: id,
		Platform:       posts.PlatformTikTok,
		OriginalURL:    originalURL,
		EmbedURL:       fmt.Sprintf("https://www.tiktok.com/embed/v2/%s", id),
		Caption:        it.Desc,
		VideoURL:       it.videoURL(),
		Thumbnail:      it.coverURL(),
		IsVideo:        true,
		DatePosted:     it.createdAt(),
		Metrics: posts.Metrics{
			Likes:    it.likes(),
			Comments: it.comments(),
			Views:    it.playCount(),
			Shares:   it.shares(),
		},
	}

	if it.Video != nil {
		post.Width = it.Video.Width
		post.Height = it.Video.Height
	}

	return post, nil
}

// NormalizeTikTokProfile converts a raw TikTok author into the canonical
// Profile model.
func NormalizeTikTokProfile(a *tiktokAuthor, handle string) (*profiles.Profile, error) {
	if a == nil {
		return nil, &TransformError{Platform: posts.PlatformTikTok, Field: "author"}
	}

	username := a.handle()
	if username == "" {
		username = handle
	}
	if username == "" {
		return nil, &TransformError{Platform: posts.PlatformTikTok, Field: "unique_id"}
	}

	return &profiles.Profile{
		Handle:         username,
		Platform:       posts.PlatformTikTok,
		DisplayName:    a.Nickname,
		Bio:            a.Signature,
		FollowersCount: a.followers(),
		AvatarURL:      a.avatarURL(),
		Verified:       a.Verified,
	}, nil
}

// author resolves the profile payload across response generations.
func (r *tiktokProfileResponse) author() *tiktokAuthor {
	if r.User != nil {
		return r.User
	}
	return r.Author
}

// item resolves the single-post payload across response generations.
func (r *tiktokPostResponse) item() *tiktokItem {
	if r.AwemeDetail != nil {
		return r.AwemeDetail
	}
	if r.ItemInfo != nil {
		return r.ItemInfo.ItemStruct
	}
	return nil
}
