// Package api exposes the content CRUD and sync trigger endpoints.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/omprakashthakur/contenthub/internal/domain"
	"github.com/omprakashthakur/contenthub/internal/service"
)

// ContentService is the admin CRUD and listing surface the handlers call.
type ContentService interface {
	List(ctx context.Context, kind domain.Kind) ([]domain.ContentRecord, error)
	Create(ctx context.Context, kind domain.Kind, input service.ContentInput) (*domain.ContentRecord, error)
	Update(ctx context.Context, kind domain.Kind, id string, input service.ContentInput) (*domain.ContentRecord, error)
	Delete(ctx context.Context, kind domain.Kind, id string) error
}

// SyncRunner triggers a sync against one provider.
type SyncRunner interface {
	Sync(ctx context.Context, opts service.SyncOptions) (*domain.SyncReport, error)
	Source() service.Source
}

// Handler bundles the HTTP handlers and their dependencies.
type Handler struct {
	content ContentService
	syncs   map[string]SyncRunner
	logger  *slog.Logger
}

func NewHandler(content ContentService, syncs map[string]SyncRunner, logger *slog.Logger) *Handler {
	return &Handler{content: content, syncs: syncs, logger: logger}
}

func kindParam(r *http.Request) (domain.Kind, error) {
	kind := domain.Kind(chi.URLParam(r, "kind"))
	if !kind.Valid() {
		return "", fmt.Errorf("unknown content kind %q: %w", kind, domain.ErrNotFound)
	}
	return kind, nil
}

// ListContent handles GET /api/content/{kind}.
func (h *Handler) ListContent(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		respondError(w, "unknown content kind", err)
		return
	}

	records, err := h.content.List(r.Context(), kind)
	if err != nil {
		respondError(w, "list failed", err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Data: records})
}

// CreateContent handles POST /api/content/{kind}.
func (h *Handler) CreateContent(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		respondError(w, "unknown content kind", err)
		return
	}

	var input service.ContentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Message: "invalid JSON body", Error: err.Error()})
		return
	}

	record, err := h.content.Create(r.Context(), kind, input)
	if err != nil {
		respondError(w, "create failed", err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{Success: true, Message: "created", Data: record})
}

// UpdateContent handles PUT /api/content/{kind}/{id}.
func (h *Handler) UpdateContent(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		respondError(w, "unknown content kind", err)
		return
	}
	id := chi.URLParam(r, "id")

	var input service.ContentInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{Success: false, Message: "invalid JSON body", Error: err.Error()})
		return
	}

	record, err := h.content.Update(r.Context(), kind, id, input)
	if err != nil {
		respondError(w, "update failed", err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "updated", Data: record})
}

// DeleteContent handles DELETE /api/content/{kind}/{id}.
func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	kind, err := kindParam(r)
	if err != nil {
		respondError(w, "unknown content kind", err)
		return
	}
	id := chi.URLParam(r, "id")

	if err := h.content.Delete(r.Context(), kind, id); err != nil {
		respondError(w, "delete failed", err)
		return
	}

	respondJSON(w, http.StatusOK, Response{Success: true, Message: "deleted"})
}

// TriggerSync handles GET /api/sync/{provider}?maxResults=N&forceSync=bool.
func (h *Handler) TriggerSync(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	runner, ok := h.syncs[provider]
	if !ok {
		respondError(w, "unknown provider", fmt.Errorf("provider %q: %w", provider, domain.ErrNotFound))
		return
	}

	opts := service.SyncOptions{}
	if v := r.URL.Query().Get("maxResults"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Message: "maxResults must be a positive integer"})
			return
		}
		opts.MaxItems = n
	}
	if v := r.URL.Query().Get("forceSync"); v != "" {
		force, err := strconv.ParseBool(v)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{Success: false, Message: "forceSync must be a boolean"})
			return
		}
		opts.Force = force
	}

	h.logger.Info("sync triggered", "provider", provider, "max_results", opts.MaxItems, "force", opts.Force)

	report, err := runner.Sync(r.Context(), opts)
	if err != nil {
		respondError(w, "sync failed", err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success:      true,
		Message:      fmt.Sprintf("synced %d of %d items", report.Inserted, report.TotalFetched),
		SyncedCount:  &report.Inserted,
		TotalFetched: &report.TotalFetched,
		SkippedCount: &report.Skipped,
		FailedCount:  &report.Failed,
		Items:        report.Items,
	})
}

// ProbeSync handles GET /api/sync/{provider}/probe: a connectivity check
// that reports the provider's item count without persisting anything.
func (h *Handler) ProbeSync(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	runner, ok := h.syncs[provider]
	if !ok {
		respondError(w, "unknown provider", fmt.Errorf("provider %q: %w", provider, domain.ErrNotFound))
		return
	}

	count, err := runner.Source().Probe(r.Context())
	if err != nil {
		respondError(w, "probe failed", err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success:      true,
		Message:      fmt.Sprintf("%s reachable", runner.Source().Name()),
		TotalFetched: &count,
	})
}

// Health handles GET /api/health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, Response{Success: true, Message: "ok"})
}
