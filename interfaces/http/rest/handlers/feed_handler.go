package handlers

import (
	"net/http"
	"strconv"

	"socialgraph/domain/social"
	apperrors "socialgraph/pkg/errors"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// FeedHandler handles feed requests.
type FeedHandler struct {
	store  social.Store
	logger *zap.Logger
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(store social.Store, logger *zap.Logger) *FeedHandler {
	return &FeedHandler{store: store, logger: logger}
}

// GetFeed handles GET /feed/{username}. An unknown username yields an
// empty feed with a success status; the traversal cannot tell it apart
// from a user who follows no one.
func (h *FeedHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	limit := social.DefaultFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			apperrors.WriteJSON(w, apperrors.NewValidationError("limit must be a positive integer"))
			return
		}
		limit = n
	}

	feed, err := h.store.Feed(r.Context(), username, limit)
	if err != nil {
		h.logger.Error("Failed to fetch feed",
			zap.String("username", username),
			zap.Int("limit", limit),
			zap.Error(err),
		)
		apperrors.WriteJSON(w, storeError(err, "User not found"))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, feed)
}
