package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/novalabs/nova-server/internal/auth"
	"github.com/novalabs/nova-server/internal/domain"
	"github.com/novalabs/nova-server/internal/store"
)

const defaultHistoryPageSize = 20

type historyListResponse struct {
	Entries []*domain.HistoryEntry `json:"entries"`
}

// HandleListHistory returns the user's history, newest first.
func (h *Handler) HandleListHistory(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	limit := defaultHistoryPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	entries, err := h.repo.ListHistory(r.Context(), userID, limit)
	if err != nil {
		slog.Error("failed to list history", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	if entries == nil {
		entries = []*domain.HistoryEntry{}
	}
	JSON(w, http.StatusOK, historyListResponse{Entries: entries})
}

// HandleDeleteHistory removes one entry owned by the user.
func (h *Handler) HandleDeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())
	entryID := chi.URLParam(r, "id")
	if entryID == "" {
		Error(w, http.StatusBadRequest, "missing entry id")
		return
	}

	if err := h.repo.DeleteHistory(r.Context(), userID, entryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			Error(w, http.StatusNotFound, "history entry not found")
			return
		}
		slog.Error("failed to delete history entry", "user_id", userID, "entry_id", entryID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to delete history entry")
		return
	}

	JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// HandleClearHistory removes all of the user's history.
func (h *Handler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	userID := auth.UserIDFromContext(r.Context())

	deleted, err := h.repo.ClearHistory(r.Context(), userID)
	if err != nil {
		slog.Error("failed to clear history", "user_id", userID, "error", err)
		Error(w, http.StatusInternalServerError, "failed to clear history")
		return
	}

	JSON(w, http.StatusOK, map[string]int64{"deleted": deleted})
}
