package handlers

import (
	"encoding/json"
	"net/http"

	"socialgraph/domain/social"
	apperrors "socialgraph/pkg/errors"
	"socialgraph/pkg/observability"

	"go.uber.org/zap"
)

// FollowHandler handles follow and unfollow requests.
type FollowHandler struct {
	store   social.Store
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewFollowHandler creates a new follow handler.
func NewFollowHandler(store social.Store, logger *zap.Logger, metrics *observability.Collector) *FollowHandler {
	return &FollowHandler{store: store, logger: logger, metrics: metrics}
}

// FollowRequest represents the request body for follow and unfollow.
type FollowRequest struct {
	FollowerUsername string `json:"follower_username" validate:"required"`
	FolloweeUsername string `json:"followee_username" validate:"required"`
}

// Follow handles POST /follow. Following twice leaves exactly one edge
// and both calls succeed.
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	var req FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteJSON(w, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := validateStruct(req); err != nil {
		apperrors.WriteJSON(w, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := h.store.Follow(r.Context(), req.FollowerUsername, req.FolloweeUsername); err != nil {
		h.logger.Debug("Follow failed",
			zap.String("follower", req.FollowerUsername),
			zap.String("followee", req.FolloweeUsername),
			zap.Error(err),
		)
		apperrors.WriteJSON(w, storeError(err, "One or both users not found"))
		return
	}

	if h.metrics != nil {
		h.metrics.FollowsCreated.Inc()
	}
	respondJSON(w, h.logger, http.StatusCreated, detailResponse{
		Detail: "OK",
		Data: map[string]string{
			"follower": req.FollowerUsername,
			"followee": req.FolloweeUsername,
		},
	})
}

// Unfollow handles POST /unfollow. Removing an edge that does not exist
// still succeeds.
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	var req FollowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteJSON(w, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := validateStruct(req); err != nil {
		apperrors.WriteJSON(w, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := h.store.Unfollow(r.Context(), req.FollowerUsername, req.FolloweeUsername); err != nil {
		h.logger.Error("Unfollow failed",
			zap.String("follower", req.FollowerUsername),
			zap.String("followee", req.FolloweeUsername),
			zap.Error(err),
		)
		apperrors.WriteJSON(w, storeError(err, "One or both users not found"))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, detailResponse{Detail: "OK"})
}
