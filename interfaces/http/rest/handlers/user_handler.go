package handlers

import (
	"encoding/json"
	"net/http"

	"socialgraph/domain/social"
	apperrors "socialgraph/pkg/errors"
	"socialgraph/pkg/observability"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// UserHandler handles user-related HTTP requests.
type UserHandler struct {
	store   social.Store
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewUserHandler creates a new user handler.
func NewUserHandler(store social.Store, logger *zap.Logger, metrics *observability.Collector) *UserHandler {
	return &UserHandler{store: store, logger: logger, metrics: metrics}
}

// CreateUserRequest represents the request body for creating a user.
type CreateUserRequest struct {
	Username string `json:"username" validate:"required"`
	Name     string `json:"name,omitempty"`
	Bio      string `json:"bio,omitempty"`
}

// CreateUser handles POST /users.
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteJSON(w, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := validateStruct(req); err != nil {
		apperrors.WriteJSON(w, apperrors.NewValidationError(err.Error()))
		return
	}

	user, err := h.store.CreateUser(r.Context(), social.NewUser{
		Username: req.Username,
		Name:     req.Name,
		Bio:      req.Bio,
	})
	if err != nil {
		h.logger.Error("Failed to create user",
			zap.String("username", req.Username),
			zap.Error(err),
		)
		apperrors.WriteJSON(w, storeError(err, "User not found"))
		return
	}

	if h.metrics != nil {
		h.metrics.UsersCreated.Inc()
	}
	respondJSON(w, h.logger, http.StatusCreated, user)
}

// GetUser handles GET /users/{username}.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	profile, err := h.store.UserByUsername(r.Context(), username)
	if err != nil {
		h.logger.Debug("User lookup failed",
			zap.String("username", username),
			zap.Error(err),
		)
		apperrors.WriteJSON(w, storeError(err, "User not found"))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, profile)
}
