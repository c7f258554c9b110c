package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := NewDatabaseError(cause)

	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "boom")
}

func TestGetAppErrorThroughWrapping(t *testing.T) {
	appErr := NewNotFoundError("user not found")
	wrapped := fmt.Errorf("handling request: %w", appErr)

	got := GetAppError(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrorTypeNotFound, got.Type)
}

func TestWriteJSONUsesStatusOverride(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, NewConflictError("username already exists").WithStatus(http.StatusBadRequest))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Error)
	assert.Equal(t, string(ErrorTypeConflict), body.Type)
	assert.Equal(t, "username already exists", body.Message)
}

func TestWriteJSONHidesUnclassifiedErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, errors.New("connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, string(ErrorTypeInternal), body.Type)
	assert.NotContains(t, body.Message, "connection reset")
}
