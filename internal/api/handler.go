// Package api provides HTTP handlers for the NOVA API.
package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/novalabs/nova-server/internal/assistant"
	"github.com/novalabs/nova-server/internal/auth"
	"github.com/novalabs/nova-server/internal/domain"
	"github.com/novalabs/nova-server/internal/store"
)

// maxRequestBodySize caps inbound JSON bodies. Image uploads arrive base64
// encoded inside the JSON payload, so the limit is generous.
const maxRequestBodySize = 8 << 20 // 8MB

// Handler serves the NOVA REST API.
type Handler struct {
	repo     store.Repository
	pipeline *assistant.Pipeline
	auth     *auth.Service
}

// NewHandler creates a new Handler with common dependencies.
func NewHandler(repo store.Repository, pipeline *assistant.Pipeline, authSvc *auth.Service) *Handler {
	return &Handler{
		repo:     repo,
		pipeline: pipeline,
		auth:     authSvc,
	}
}

// RegisterRoutes mounts all API routes on the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.HandleRegister)
			r.Post("/login", h.HandleLogin)
			r.With(h.auth.Middleware()).Get("/me", h.HandleMe)
		})

		r.Group(func(r chi.Router) {
			r.Use(h.auth.Middleware())

			r.Post("/ai/study-style", h.HandleStudyStyle)
			r.Post("/ai/stress", h.HandleStress)
			r.Post("/ai/roadmap", h.HandleRoadmap)
			r.Post("/ai/chat", h.HandleChat)
			r.Post("/ai/support", h.HandleSupport)
			r.Post("/ai/image", h.HandleImage)

			r.Get("/history", h.HandleListHistory)
			r.Delete("/history/{id}", h.HandleDeleteHistory)
			r.Delete("/history", h.HandleClearHistory)
		})
	})
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// decodeBody decodes a size-limited JSON request body into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if err == io.EOF {
			Error(w, http.StatusBadRequest, "request body is empty")
			return false
		}
		Error(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// saveHistory persists one interaction. Failures are logged, not surfaced:
// the student already has their response, losing the log line is the lesser
// problem. One retry on SQLite lock contention.
func (h *Handler) saveHistory(r *http.Request, feature domain.FeatureType, prompt string, response interface{}) {
	userID := auth.UserIDFromContext(r.Context())
	if userID == "" {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		slog.Error("failed to serialize response for history", "feature", feature, "error", err)
		return
	}

	entry := &domain.HistoryEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Feature:   feature,
		Prompt:    prompt,
		Response:  string(payload),
		CreatedAt: time.Now(),
	}

	err = h.repo.SaveHistory(r.Context(), entry)
	if err != nil && store.IsBusy(err) {
		err = h.repo.SaveHistory(r.Context(), entry)
	}
	if err != nil {
		slog.Error("failed to save history entry", "feature", feature, "user_id", userID, "error", err)
	}
}
