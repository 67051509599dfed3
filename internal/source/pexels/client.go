// Package pexels wraps the Pexels collection media API.
package pexels

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/omprakashthakur/contenthub/internal/domain"
)

const (
	SourceID   = "pexels"
	SourceName = "Pexels"

	defaultBaseURL = "https://api.pexels.com/v1"
	maxPageSize    = 50
)

// Config holds Pexels client configuration.
type Config struct {
	BaseURL      string
	APIKey       string
	CollectionID string
	Timeout      time.Duration
}

// Client fetches photos from a Pexels collection. It performs no retries;
// a transient failure propagates to the orchestrator.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	apiKey       string
	collectionID string
	logger       *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		httpClient:   &http.Client{Timeout: cfg.Timeout},
		baseURL:      baseURL,
		apiKey:       cfg.APIKey,
		collectionID: cfg.CollectionID,
		logger:       logger.With("source", SourceID),
	}
}

// ID returns the source identifier.
func (c *Client) ID() string { return SourceID }

// Name returns the human-readable name.
func (c *Client) Name() string { return SourceName }

// Kind returns the content kind this source produces.
func (c *Client) Kind() domain.Kind { return domain.KindPhoto }

// FetchPage fetches one page of collection media. pageSize is clamped to the
// provider limit; page is 1-based.
func (c *Client) FetchPage(ctx context.Context, pageSize, page int) ([]domain.MediaItem, error) {
	resp, err := c.fetchPage(ctx, pageSize, page)
	if err != nil {
		return nil, err
	}

	items := make([]domain.MediaItem, 0, len(resp.Media))
	for _, p := range resp.Media {
		if p.Type != "" && p.Type != "Photo" {
			continue
		}
		items = append(items, toMediaItem(p))
	}

	c.logger.Debug("fetched page", "page", page, "photos", len(items), "total_results", resp.TotalResults)

	return items, nil
}

// Probe checks connectivity and credentials, returning the collection's
// total item count without persisting anything.
func (c *Client) Probe(ctx context.Context) (int, error) {
	resp, err := c.fetchPage(ctx, 1, 1)
	if err != nil {
		return 0, err
	}
	return resp.TotalResults, nil
}

func (c *Client) fetchPage(ctx context.Context, pageSize, page int) (*collectionResponse, error) {
	if c.apiKey == "" {
		return nil, &domain.ConfigurationError{Field: "pexels api key"}
	}
	if c.collectionID == "" {
		return nil, &domain.ConfigurationError{Field: "pexels collection id"}
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	if page < 1 {
		page = 1
	}

	url := fmt.Sprintf("%s/collections/%s?type=photos&per_page=%d&page=%d",
		c.baseURL, c.collectionID, pageSize, page)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Provider: SourceID, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &domain.ProviderError{Provider: SourceID, StatusCode: resp.StatusCode}
	}

	var apiResp collectionResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, &domain.ProviderError{Provider: SourceID, Err: fmt.Errorf("decode response: %w", err)}
	}
	if apiResp.Media == nil && apiResp.TotalResults == 0 && apiResp.ID == "" {
		return nil, &domain.ProviderError{Provider: SourceID, Err: fmt.Errorf("empty response body")}
	}

	return &apiResp, nil
}

func toMediaItem(p Photo) domain.MediaItem {
	var id string
	if p.ID != 0 {
		id = strconv.FormatInt(p.ID, 10)
	}
	return domain.MediaItem{
		ExternalID: id,
		Alt:        p.Alt,
		AuthorName: p.Photographer,
		AuthorURL:  p.PhotographerURL,
		PageURL:    p.URL,
		Width:      p.Width,
		Height:     p.Height,
		URLVariants: map[string]string{
			"original": p.Src.Original,
			"large2x":  p.Src.Large2x,
			"large":    p.Src.Large,
			"medium":   p.Src.Medium,
			"small":    p.Src.Small,
		},
	}
}
