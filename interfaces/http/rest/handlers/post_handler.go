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

// PostHandler handles post-related HTTP requests.
type PostHandler struct {
	store   social.Store
	logger  *zap.Logger
	metrics *observability.Collector
}

// NewPostHandler creates a new post handler.
func NewPostHandler(store social.Store, logger *zap.Logger, metrics *observability.Collector) *PostHandler {
	return &PostHandler{store: store, logger: logger, metrics: metrics}
}

// CreatePostRequest represents the request body for creating a post.
// The max tag matches social.ContentMaxLen.
type CreatePostRequest struct {
	AuthorUsername string `json:"author_username" validate:"required"`
	Content        string `json:"content" validate:"required,max=500"`
}

// LikeRequest represents the request body for liking a post.
type LikeRequest struct {
	Username string `json:"username" validate:"required"`
}

// CreatePost handles POST /posts.
func (h *PostHandler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteJSON(w, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := validateStruct(req); err != nil {
		apperrors.WriteJSON(w, apperrors.NewValidationError(err.Error()))
		return
	}

	post, err := h.store.CreatePost(r.Context(), req.AuthorUsername, req.Content)
	if err != nil {
		h.logger.Debug("Failed to create post",
			zap.String("author", req.AuthorUsername),
			zap.Error(err),
		)
		apperrors.WriteJSON(w, storeError(err, "Author not found"))
		return
	}

	if h.metrics != nil {
		h.metrics.PostsCreated.Inc()
	}
	respondJSON(w, h.logger, http.StatusCreated, post)
}

// GetPost handles GET /posts/{postID}.
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	detail, err := h.store.PostByID(r.Context(), postID)
	if err != nil {
		h.logger.Debug("Post lookup failed",
			zap.String("postID", postID),
			zap.Error(err),
		)
		apperrors.WriteJSON(w, storeError(err, "Post not found"))
		return
	}

	respondJSON(w, h.logger, http.StatusOK, detail)
}

// LikePost handles POST /posts/{postID}/like. Liking twice has no
// additional effect.
func (h *PostHandler) LikePost(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "postID")

	var req LikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperrors.WriteJSON(w, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}
	if err := validateStruct(req); err != nil {
		apperrors.WriteJSON(w, apperrors.NewValidationError(err.Error()))
		return
	}

	if err := h.store.Like(r.Context(), req.Username, postID); err != nil {
		h.logger.Debug("Like failed",
			zap.String("username", req.Username),
			zap.String("postID", postID),
			zap.Error(err),
		)
		apperrors.WriteJSON(w, storeError(err, "User or post not found"))
		return
	}

	if h.metrics != nil {
		h.metrics.LikesCreated.Inc()
	}
	respondJSON(w, h.logger, http.StatusOK, detailResponse{
		Detail: "liked",
		Data: map[string]string{
			"username": req.Username,
			"post_id":  postID,
		},
	})
}
