package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/viralforge/mesh/services/data-ai/M60-creator-matching-engine/internal/application"
)

type Handler struct {
	service *application.Service
	ready   func() bool
}

func NewHandler(service *application.Service, ready func() bool) *Handler {
	if ready == nil {
		ready = func() bool { return true }
	}
	return &Handler{service: service, ready: ready}
}

func NewRouter(handler *Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware(logger))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { writeMessage(w, http.StatusOK, "ok") })
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		if !handler.ready() {
			writeError(w, http.StatusServiceUnavailable, "NOT_READY", "index warmup in progress")
			return
		}
		writeMessage(w, http.StatusOK, "ready")
	})

	r.Route("/v1", func(r chi.Router) {
		r.Route("/match", func(r chi.Router) {
			r.Post("/search", handler.detailedSearch)
			r.Post("/campaign", handler.campaignSearch)
		})
		r.Get("/campaigns/{campaign_id}/matches", handler.listStoredMatches)
		r.Route("/creators", func(r chi.Router) {
			r.Post("/{creator_id}/embedding", handler.generateCreatorEmbedding)
			r.Post("/embeddings/batch", handler.generateBatchEmbeddings)
		})
	})
	return r
}
