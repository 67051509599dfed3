package pexels

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omprakashthakur/contenthub/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

const collectionBody = `{
	"id": "abc123",
	"page": 1,
	"per_page": 3,
	"total_results": 42,
	"media": [
		{
			"id": 101,
			"type": "Photo",
			"width": 4000,
			"height": 3000,
			"url": "https://www.pexels.com/photo/101",
			"alt": "Mountain sunrise",
			"photographer": "Alice",
			"photographer_url": "https://www.pexels.com/@alice",
			"src": {
				"original": "https://images.pexels.com/101/original.jpg",
				"large": "https://images.pexels.com/101/large.jpg"
			}
		},
		{
			"type": "Photo",
			"photographer": "Bob",
			"src": {
				"medium": "https://images.pexels.com/x/medium.jpg"
			}
		},
		{
			"id": 103,
			"type": "Video",
			"alt": "not a photo"
		}
	]
}`

func TestFetchPage(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/collections/col-1", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("per_page"))
		assert.Equal(t, "1", r.URL.Query().Get("page"))
		w.Write([]byte(collectionBody))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "secret", CollectionID: "col-1", Timeout: 5 * time.Second}, testLogger())

	items, err := c.FetchPage(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.Equal(t, "secret", gotAuth)

	// the Video entry is filtered out
	require.Len(t, items, 2)

	assert.Equal(t, "101", items[0].ExternalID)
	assert.Equal(t, "Mountain sunrise", items[0].Alt)
	assert.Equal(t, "Alice", items[0].AuthorName)
	assert.Equal(t, "https://images.pexels.com/101/original.jpg", items[0].URLVariants["original"])
	assert.Equal(t, 4000, items[0].Width)

	// item without an id keeps an empty ExternalID for the normalizer to handle
	assert.Empty(t, items[1].ExternalID)
	assert.Equal(t, "https://images.pexels.com/x/medium.jpg", items[1].URLVariants["medium"])
}

func TestFetchPage_MissingKeyFailsFast(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, CollectionID: "col-1"}, testLogger())

	_, err := c.FetchPage(context.Background(), 10, 1)

	var cfgErr *domain.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.False(t, called, "no network call should be made without a credential")
}

func TestFetchPage_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "secret", CollectionID: "col-1"}, testLogger())

	_, err := c.FetchPage(context.Background(), 10, 1)

	var provErr *domain.ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, http.StatusTooManyRequests, provErr.StatusCode)
}

func TestFetchPage_EmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "secret", CollectionID: "col-1"}, testLogger())

	_, err := c.FetchPage(context.Background(), 10, 1)

	var provErr *domain.ProviderError
	require.True(t, errors.As(err, &provErr))
}

func TestProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("per_page"))
		w.Write([]byte(collectionBody))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "secret", CollectionID: "col-1"}, testLogger())

	count, err := c.Probe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}

func TestFetchPage_ClampsPageSize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "50", r.URL.Query().Get("per_page"))
		w.Write([]byte(collectionBody))
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "secret", CollectionID: "col-1"}, testLogger())

	_, err := c.FetchPage(context.Background(), 500, 1)
	require.NoError(t, err)
}
