// Package handler exposes the watch history, progress, watchlist, and
// recommendation endpoints. Every route here requires authentication.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pelicanmedia/pelican/internal/httpx"
	"github.com/pelicanmedia/pelican/internal/middleware"
	"github.com/pelicanmedia/pelican/internal/viewing/service"
	"github.com/pelicanmedia/pelican/pkg/errors"
	"github.com/pelicanmedia/pelican/pkg/interfaces"
)

// ViewingHandler serves the per-user viewing routes.
type ViewingHandler struct {
	viewing *service.ViewingService
	logger  interfaces.Logger
}

// NewViewingHandler creates a new viewing handler.
func NewViewingHandler(viewing *service.ViewingService, logger interfaces.Logger) *ViewingHandler {
	return &ViewingHandler{viewing: viewing, logger: logger}
}

// History

// ListHistory returns the caller's watch history, newest first.
func (h *ViewingHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	entries, err := h.viewing.ListHistory(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]interface{}{"history": entries})
}

// AddHistory appends a history entry for the given media item.
func (h *ViewingHandler) AddHistory(w http.ResponseWriter, r *http.Request) {
	userID, mediaID, err := callerAndMedia(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	entry, err := h.viewing.RecordHistory(r.Context(), userID, mediaID)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, entry)
}

// DeleteHistory removes one history entry for the given media item.
func (h *ViewingHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID, mediaID, err := callerAndMedia(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.viewing.DeleteHistoryEntry(r.Context(), userID, mediaID); err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.Message(w, http.StatusOK, "history entry removed")
}

// ClearHistory removes the caller's entire watch history.
func (h *ViewingHandler) ClearHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.viewing.ClearHistory(r.Context(), userID); err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.Message(w, http.StatusOK, "history cleared")
}

// Progress

type progressRequest struct {
	Timestamp float64 `json:"timestamp"`
}

type progressResponse struct {
	Timestamp float64 `json:"timestamp"`
}

// SaveProgress upserts the caller's playback position for the media item.
func (h *ViewingHandler) SaveProgress(w http.ResponseWriter, r *http.Request) {
	userID, mediaID, err := callerAndMedia(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	var req progressRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.viewing.SaveProgress(r.Context(), userID, mediaID, req.Timestamp); err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.Message(w, http.StatusOK, "progress saved")
}

// GetProgress returns the caller's saved position, zero when none exists.
func (h *ViewingHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	userID, mediaID, err := callerAndMedia(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	position, err := h.viewing.GetProgress(r.Context(), userID, mediaID)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, progressResponse{Timestamp: position})
}

// Watchlist

// ListWatchlist returns the caller's bookmarks with their media items.
func (h *ViewingHandler) ListWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	entries, err := h.viewing.ListWatchlist(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]interface{}{"watchlist": entries})
}

// AddToWatchlist bookmarks the media item for the caller.
func (h *ViewingHandler) AddToWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, mediaID, err := callerAndMedia(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if _, err := h.viewing.AddToWatchlist(r.Context(), userID, mediaID); err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.Message(w, http.StatusCreated, "added to watchlist")
}

// RemoveFromWatchlist removes the bookmark; removing an absent one succeeds.
func (h *ViewingHandler) RemoveFromWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, mediaID, err := callerAndMedia(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	if err := h.viewing.RemoveFromWatchlist(r.Context(), userID, mediaID); err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.Message(w, http.StatusOK, "removed from watchlist")
}

// Recommendations

// Recommend suggests media based on the categories the caller has watched.
func (h *ViewingHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	userID, err := callerID(r)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	result, err := h.viewing.Recommend(r.Context(), userID)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, result)
}

func callerID(r *http.Request) (uuid.UUID, error) {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		return uuid.Nil, errors.Unauthorized("authentication required")
	}
	return userID, nil
}

func callerAndMedia(r *http.Request) (userID, mediaID uuid.UUID, err error) {
	userID, err = callerID(r)
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	mediaID, err = uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, errors.BadRequest("invalid media id")
	}
	return userID, mediaID, nil
}
