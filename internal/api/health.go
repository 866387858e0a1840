package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/novalabs/nova-server/internal/store"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	repo      store.Repository
	providers []string
}

// NewHealthHandler creates a new health handler. providers lists the names
// of the AI providers constructed at startup; an empty list means the
// service is running in guaranteed mock mode, which is still healthy.
func NewHealthHandler(repo store.Repository, providers []string) *HealthHandler {
	return &HealthHandler{repo: repo, providers: providers}
}

// Health returns the health status of the API and its dependencies.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{"api": "ok"}
	status := map[string]interface{}{
		"status":    "healthy",
		"checks":    checks,
		"providers": len(h.providers),
	}
	statusCode := http.StatusOK

	if err := h.repo.Ping(ctx); err != nil {
		slog.Error("Health check failed", "error", err)
		status["status"] = "degraded"
		checks["database"] = "unreachable"
		statusCode = http.StatusServiceUnavailable
	} else {
		checks["database"] = "ok"
	}

	JSON(w, statusCode, status)
}

// RegisterHealth registers the health check route.
func (h *HealthHandler) RegisterHealth(r chi.Router) {
	r.Get("/healthz", h.Health)
}
