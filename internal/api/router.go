package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// RouterConfig holds the HTTP-surface settings.
type RouterConfig struct {
	CORSOrigins []string
	// SyncRateLimit bounds sync triggers per IP per minute; syncs hit
	// external quota-limited APIs.
	SyncRateLimit int
}

// NewRouter wires the middleware stack and routes.
func NewRouter(h *Handler, cfg RouterConfig, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	r.Get("/api/health", h.Health)

	r.Route("/api/content/{kind}", func(r chi.Router) {
		r.Get("/", h.ListContent)
		r.Post("/", h.CreateContent)
		r.Put("/{id}", h.UpdateContent)
		r.Delete("/{id}", h.DeleteContent)
	})

	r.Route("/api/sync/{provider}", func(r chi.Router) {
		limit := cfg.SyncRateLimit
		if limit <= 0 {
			limit = 10
		}
		r.Use(httprate.LimitByIP(limit, time.Minute))
		r.Get("/", h.TriggerSync)
		r.Get("/probe", h.ProbeSync)
	})

	return r
}
