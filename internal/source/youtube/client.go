// Package youtube wraps the YouTube Data API v3 playlistItems endpoint to
// fetch a channel's upload metadata.
package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/omprakashthakur/contenthub/internal/domain"
)

const (
	SourceID   = "youtube"
	SourceName = "YouTube"

	defaultBaseURL = "https://www.googleapis.com/youtube/v3"
	maxPageSize    = 50
)

// Config holds YouTube client configuration. Either PlaylistID or ChannelID
// must be set; with only a ChannelID the uploads playlist is derived from it.
type Config struct {
	BaseURL    string
	APIKey     string
	ChannelID  string
	PlaylistID string
	Timeout    time.Duration
}

// Client fetches video metadata from a channel's uploads playlist. No
// retries; failures propagate to the orchestrator.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	playlistID string
	logger     *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	playlistID := cfg.PlaylistID
	if playlistID == "" {
		playlistID = uploadsPlaylistID(cfg.ChannelID)
	}
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		apiKey:     cfg.APIKey,
		playlistID: playlistID,
		logger:     logger.With("source", SourceID),
	}
}

// uploadsPlaylistID derives the uploads playlist from a channel id: channel
// ids start with "UC", the matching uploads playlist with "UU".
func uploadsPlaylistID(channelID string) string {
	if strings.HasPrefix(channelID, "UC") {
		return "UU" + channelID[2:]
	}
	return channelID
}

// ID returns the source identifier.
func (c *Client) ID() string { return SourceID }

// Name returns the human-readable name.
func (c *Client) Name() string { return SourceName }

// Kind returns the content kind this source produces.
func (c *Client) Kind() domain.Kind { return domain.KindVlog }

// FetchPage fetches up to pageSize playlist items. The playlistItems API
// pages by token rather than number, so page > 1 walks the token chain.
func (c *Client) FetchPage(ctx context.Context, pageSize, page int) ([]domain.MediaItem, error) {
	if page < 1 {
		page = 1
	}

	pageToken := ""
	var resp *playlistItemsResponse
	var err error
	for i := 0; i < page; i++ {
		resp, err = c.fetch(ctx, pageSize, pageToken)
		if err != nil {
			return nil, err
		}
		pageToken = resp.NextPageToken
		if pageToken == "" && i < page-1 {
			return nil, nil
		}
	}

	items := make([]domain.MediaItem, 0, len(resp.Items))
	for _, it := range resp.Items {
		items = append(items, toMediaItem(it))
	}

	c.logger.Debug("fetched page", "page", page, "videos", len(items), "total_results", resp.PageInfo.TotalResults)

	return items, nil
}

// Probe checks connectivity and credentials, returning the playlist's total
// item count without persisting anything.
func (c *Client) Probe(ctx context.Context) (int, error) {
	resp, err := c.fetch(ctx, 1, "")
	if err != nil {
		return 0, err
	}
	return resp.PageInfo.TotalResults, nil
}

func (c *Client) fetch(ctx context.Context, pageSize int, pageToken string) (*playlistItemsResponse, error) {
	if c.apiKey == "" {
		return nil, &domain.ConfigurationError{Field: "youtube api key"}
	}
	if c.playlistID == "" {
		return nil, &domain.ConfigurationError{Field: "youtube channel or playlist id"}
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	url := fmt.Sprintf("%s/playlistItems?part=snippet&playlistId=%s&maxResults=%d&key=%s",
		c.baseURL, c.playlistID, pageSize, c.apiKey)
	if pageToken != "" {
		url += "&pageToken=" + pageToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Provider: SourceID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ProviderError{Provider: SourceID, StatusCode: resp.StatusCode}
	}

	var apiResp playlistItemsResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &domain.ProviderError{Provider: SourceID, Err: fmt.Errorf("decode response: %w", err)}
	}
	if apiResp.Kind == "" && apiResp.Items == nil {
		return nil, &domain.ProviderError{Provider: SourceID, Err: fmt.Errorf("empty response body")}
	}

	return &apiResp, nil
}

func toMediaItem(it PlaylistItem) domain.MediaItem {
	sn := it.Snippet
	videoID := sn.ResourceID.VideoID

	publishedAt, err := time.Parse(time.RFC3339, sn.PublishedAt)
	if err != nil {
		publishedAt = time.Time{}
	}

	item := domain.MediaItem{
		ExternalID:  videoID,
		Title:       sn.Title,
		Description: sn.Description,
		AuthorName:  sn.ChannelTitle,
		AuthorURL:   "https://www.youtube.com/channel/" + sn.ChannelID,
		PublishedAt: publishedAt,
		VideoID:     videoID,
		URLVariants: map[string]string{},
	}
	if videoID != "" {
		item.PageURL = "https://www.youtube.com/watch?v=" + videoID
	}

	setVariant := func(key string, t *Thumbnail) {
		if t != nil && t.URL != "" {
			item.URLVariants[key] = t.URL
			if t.Width > item.Width {
				item.Width, item.Height = t.Width, t.Height
			}
		}
	}
	setVariant("original", sn.Thumbnails.Maxres)
	setVariant("large2x", sn.Thumbnails.Standard)
	setVariant("large", sn.Thumbnails.High)
	setVariant("medium", sn.Thumbnails.Medium)
	setVariant("small", sn.Thumbnails.Default)

	return item
}
