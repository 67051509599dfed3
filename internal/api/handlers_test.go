package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omprakashthakur/contenthub/internal/domain"
	"github.com/omprakashthakur/contenthub/internal/service"
)

type fakeContentService struct {
	listFn   func(ctx context.Context, kind domain.Kind) ([]domain.ContentRecord, error)
	createFn func(ctx context.Context, kind domain.Kind, input service.ContentInput) (*domain.ContentRecord, error)
	updateFn func(ctx context.Context, kind domain.Kind, id string, input service.ContentInput) (*domain.ContentRecord, error)
	deleteFn func(ctx context.Context, kind domain.Kind, id string) error
}

func (f *fakeContentService) List(ctx context.Context, kind domain.Kind) ([]domain.ContentRecord, error) {
	return f.listFn(ctx, kind)
}

func (f *fakeContentService) Create(ctx context.Context, kind domain.Kind, input service.ContentInput) (*domain.ContentRecord, error) {
	return f.createFn(ctx, kind, input)
}

func (f *fakeContentService) Update(ctx context.Context, kind domain.Kind, id string, input service.ContentInput) (*domain.ContentRecord, error) {
	return f.updateFn(ctx, kind, id, input)
}

func (f *fakeContentService) Delete(ctx context.Context, kind domain.Kind, id string) error {
	return f.deleteFn(ctx, kind, id)
}

type fakeSource struct {
	id      string
	probeFn func(ctx context.Context) (int, error)
}

func (f *fakeSource) ID() string        { return f.id }
func (f *fakeSource) Name() string      { return f.id }
func (f *fakeSource) Kind() domain.Kind { return domain.KindPhoto }
func (f *fakeSource) FetchPage(context.Context, int, int) ([]domain.MediaItem, error) {
	return nil, nil
}
func (f *fakeSource) Probe(ctx context.Context) (int, error) { return f.probeFn(ctx) }

type fakeSyncRunner struct {
	source *fakeSource
	syncFn func(ctx context.Context, opts service.SyncOptions) (*domain.SyncReport, error)
}

func (f *fakeSyncRunner) Sync(ctx context.Context, opts service.SyncOptions) (*domain.SyncReport, error) {
	return f.syncFn(ctx, opts)
}

func (f *fakeSyncRunner) Source() service.Source { return f.source }

func newTestServer(t *testing.T, content ContentService, syncs map[string]SyncRunner) *httptest.Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	h := NewHandler(content, syncs, logger)
	srv := httptest.NewServer(NewRouter(h, RouterConfig{CORSOrigins: []string{"*"}, SyncRateLimit: 1000}, logger))
	t.Cleanup(srv.Close)
	return srv
}

func decodeResponse(t *testing.T, resp *http.Response) Response {
	t.Helper()
	defer resp.Body.Close()
	var out Response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestListContent(t *testing.T) {
	content := &fakeContentService{
		listFn: func(_ context.Context, kind domain.Kind) ([]domain.ContentRecord, error) {
			assert.Equal(t, domain.KindPhoto, kind)
			return []domain.ContentRecord{{ID: "pexels-1", Title: "One"}}, nil
		},
	}
	srv := newTestServer(t, content, nil)

	resp, err := http.Get(srv.URL + "/api/content/photo")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.True(t, out.Success)
	assert.NotNil(t, out.Data)
}

func TestListContent_UnknownKind(t *testing.T) {
	srv := newTestServer(t, &fakeContentService{}, nil)

	resp, err := http.Get(srv.URL + "/api/content/podcast")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.False(t, out.Success)
}

func TestCreateContent(t *testing.T) {
	content := &fakeContentService{
		createFn: func(_ context.Context, kind domain.Kind, input service.ContentInput) (*domain.ContentRecord, error) {
			return &domain.ContentRecord{ID: "native-1", Title: input.Title}, nil
		},
	}
	srv := newTestServer(t, content, nil)

	body, _ := json.Marshal(service.ContentInput{Title: "New Post", URL: "https://x/img.jpg"})
	resp, err := http.Post(srv.URL+"/api/content/post", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.True(t, out.Success)
}

func TestCreateContent_ValidationError(t *testing.T) {
	content := &fakeContentService{
		createFn: func(context.Context, domain.Kind, service.ContentInput) (*domain.ContentRecord, error) {
			return nil, &domain.ValidationError{Fields: []domain.FieldError{{Field: "URL", Message: "failed on \"required\""}}}
		},
	}
	srv := newTestServer(t, content, nil)

	resp, err := http.Post(srv.URL+"/api/content/post", "application/json", bytes.NewReader([]byte(`{"title":"x"}`)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	out := decodeResponse(t, resp)
	require.Len(t, out.Fields, 1)
	assert.Equal(t, "URL", out.Fields[0].Field)
}

func TestCreateContent_MalformedJSON(t *testing.T) {
	srv := newTestServer(t, &fakeContentService{}, nil)

	resp, err := http.Post(srv.URL+"/api/content/post", "application/json", bytes.NewReader([]byte(`{not json`)))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteContent_NotFound(t *testing.T) {
	content := &fakeContentService{
		deleteFn: func(context.Context, domain.Kind, string) error {
			return domain.ErrNotFound
		},
	}
	srv := newTestServer(t, content, nil)

	req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/api/content/vlog/missing", nil)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTriggerSync_Success(t *testing.T) {
	var gotOpts service.SyncOptions
	runner := &fakeSyncRunner{
		source: &fakeSource{id: "pexels"},
		syncFn: func(_ context.Context, opts service.SyncOptions) (*domain.SyncReport, error) {
			gotOpts = opts
			return &domain.SyncReport{
				Provider:     "pexels",
				TotalFetched: 10,
				Inserted:     7,
				Skipped:      2,
				Failed:       1,
				Items:        []domain.SyncedItem{{ID: "pexels-1", Title: "One"}},
			}, nil
		},
	}
	srv := newTestServer(t, &fakeContentService{}, map[string]SyncRunner{"pexels": runner})

	resp, err := http.Get(srv.URL + "/api/sync/pexels?maxResults=10&forceSync=true")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, 10, gotOpts.MaxItems)
	assert.True(t, gotOpts.Force)

	out := decodeResponse(t, resp)
	assert.True(t, out.Success)
	require.NotNil(t, out.SyncedCount)
	assert.Equal(t, 7, *out.SyncedCount)
	assert.Equal(t, 10, *out.TotalFetched)
	assert.Equal(t, 2, *out.SkippedCount)
	assert.Equal(t, 1, *out.FailedCount)
	assert.Len(t, out.Items, 1)
}

func TestTriggerSync_ConfigurationErrorIs400(t *testing.T) {
	runner := &fakeSyncRunner{
		source: &fakeSource{id: "pexels"},
		syncFn: func(context.Context, service.SyncOptions) (*domain.SyncReport, error) {
			return nil, &domain.ConfigurationError{Field: "pexels api key"}
		},
	}
	srv := newTestServer(t, &fakeContentService{}, map[string]SyncRunner{"pexels": runner})

	resp, err := http.Get(srv.URL + "/api/sync/pexels")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestTriggerSync_ProviderOutageIs502(t *testing.T) {
	runner := &fakeSyncRunner{
		source: &fakeSource{id: "youtube"},
		syncFn: func(context.Context, service.SyncOptions) (*domain.SyncReport, error) {
			return nil, &domain.ProviderError{Provider: "youtube", StatusCode: 503}
		},
	}
	srv := newTestServer(t, &fakeContentService{}, map[string]SyncRunner{"youtube": runner})

	resp, err := http.Get(srv.URL + "/api/sync/youtube")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestTriggerSync_UnknownProvider(t *testing.T) {
	srv := newTestServer(t, &fakeContentService{}, map[string]SyncRunner{})

	resp, err := http.Get(srv.URL + "/api/sync/flickr")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTriggerSync_BadQueryParams(t *testing.T) {
	srv := newTestServer(t, &fakeContentService{}, map[string]SyncRunner{
		"pexels": &fakeSyncRunner{source: &fakeSource{id: "pexels"}},
	})

	resp, err := http.Get(srv.URL + "/api/sync/pexels?maxResults=-3")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/sync/pexels?forceSync=maybe")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestProbeSync(t *testing.T) {
	runner := &fakeSyncRunner{
		source: &fakeSource{
			id:      "youtube",
			probeFn: func(context.Context) (int, error) { return 120, nil },
		},
	}
	srv := newTestServer(t, &fakeContentService{}, map[string]SyncRunner{"youtube": runner})

	resp, err := http.Get(srv.URL + "/api/sync/youtube/probe")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	out := decodeResponse(t, resp)
	assert.True(t, out.Success)
	require.NotNil(t, out.TotalFetched)
	assert.Equal(t, 120, *out.TotalFetched)
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &fakeContentService{}, nil)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}
