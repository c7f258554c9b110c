// Package handlers contains one HTTP handler per API endpoint. Every
// handler validates the request shape, invokes the injected store, and
// maps the result or its absence to a response.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"socialgraph/domain/social"
	apperrors "socialgraph/pkg/errors"

	"go.uber.org/zap"
)

// detailResponse mirrors the detail/data envelope the relationship
// endpoints answer with.
type detailResponse struct {
	Detail string `json:"detail"`
	Data   any    `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// storeError classifies a store failure for the HTTP surface. notFoundMsg
// names what was missing from the caller's point of view; a constraint
// conflict keeps the documented 400 status.
func storeError(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, social.ErrUsernameTaken):
		return apperrors.NewConflictError("username already exists").
			WithStatus(http.StatusBadRequest).
			WithCause(err)
	case errors.Is(err, social.ErrNotFound):
		return apperrors.NewNotFoundError(notFoundMsg).WithCause(err)
	default:
		return apperrors.NewDatabaseError(err)
	}
}
