package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// oEmbedResponse represents a standard oEmbed response
type oEmbedResponse struct {
	Version      string `json:"version"`
	Type         string `json:"type"`
	HTML         string `json:"html"`
	AuthorName   string `json:"author_name"`
	ProviderName string `json:"provider_name"`
	ThumbnailURL string `json:"thumbnail_url"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
}

// OEmbedFetcher fetches renderable embed HTML from an oEmbed endpoint.
// The provider's HTML payload usually carries a <script> loader next to
// the blockquote; only the blockquote survives.
type OEmbedFetcher struct {
	endpoint   string
	httpClient *http.Client
	userAgent  string
}

// NewOEmbedFetcher creates a fetcher against the given oEmbed endpoint.
func NewOEmbedFetcher(endpoint string, httpClient *http.Client, userAgent string) *OEmbedFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &OEmbedFetcher{
		endpoint:   endpoint,
		httpClient: httpClient,
		userAgent:  userAgent,
	}
}

// FetchEmbedHTML resolves a post URL to sanitized embed HTML.
func (f *OEmbedFetcher) FetchEmbedHTML(ctx context.Context, sourceURL string) (string, error) {
	oembedURL := fmt.Sprintf("%s?url=%s&format=json&omitscript=true", f.endpoint, url.QueryEscape(sourceURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, oembedURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create oEmbed request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("oEmbed request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oEmbed endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read oEmbed response: %w", err)
	}

	var oembed oEmbedResponse
	if err := json.Unmarshal(body, &oembed); err != nil {
		return "", fmt.Errorf("failed to parse oEmbed response: %w", err)
	}
	if oembed.HTML == "" {
		return "", fmt.Errorf("oEmbed response has no html field")
	}

	return extractBlockquote(oembed.HTML)
}

// extractBlockquote strips the provider payload down to its blockquote
// element, dropping script loaders and any other wrapper markup.
func extractBlockquote(embedHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(embedHTML))
	if err != nil {
		return "", fmt.Errorf("failed to parse embed HTML: %w", err)
	}

	blockquote := doc.Find("blockquote").First()
	if blockquote.Length() == 0 {
		return "", fmt.Errorf("embed HTML has no blockquote element")
	}

	rendered, err := goquery.OuterHtml(blockquote)
	if err != nil {
		return "", fmt.Errorf("failed to render blockquote: %w", err)
	}
	return strings.TrimSpace(rendered), nil
}
