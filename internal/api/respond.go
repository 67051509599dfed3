package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/omprakashthakur/contenthub/internal/domain"
)

// Response is the common envelope for all endpoints. Sync endpoints add the
// count fields; CRUD endpoints fill Data.
type Response struct {
	Success      bool                `json:"success"`
	Message      string              `json:"message,omitempty"`
	Data         any                 `json:"data,omitempty"`
	SyncedCount  *int                `json:"syncedCount,omitempty"`
	TotalFetched *int                `json:"totalFetched,omitempty"`
	SkippedCount *int                `json:"skippedCount,omitempty"`
	FailedCount  *int                `json:"failedCount,omitempty"`
	Items        []domain.SyncedItem `json:"items,omitempty"`
	Error        string              `json:"error,omitempty"`
	Fields       []domain.FieldError `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("write response failed", "error", err)
	}
}

// respondError maps the error taxonomy to status codes: a missing credential
// is the caller's configuration problem (400-class), a provider outage is
// not (500-class).
func respondError(w http.ResponseWriter, message string, err error) {
	resp := Response{Success: false, Message: message, Error: err.Error()}

	var (
		cfgErr  *domain.ConfigurationError
		provErr *domain.ProviderError
		valErr  *domain.ValidationError
	)
	switch {
	case errors.As(err, &cfgErr):
		respondJSON(w, http.StatusBadRequest, resp)
	case errors.As(err, &valErr):
		resp.Fields = valErr.Fields
		respondJSON(w, http.StatusUnprocessableEntity, resp)
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, resp)
	case errors.As(err, &provErr):
		respondJSON(w, http.StatusBadGateway, resp)
	default:
		respondJSON(w, http.StatusInternalServerError, resp)
	}
}
