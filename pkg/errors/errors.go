// Package errors defines the typed application errors the HTTP layer
// renders.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorType classifies an error for clients.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "VALIDATION"
	ErrorTypeNotFound   ErrorType = "NOT_FOUND"
	ErrorTypeConflict   ErrorType = "CONFLICT"
	ErrorTypeDatabase   ErrorType = "DATABASE"
	ErrorTypeInternal   ErrorType = "INTERNAL"
)

// AppError is an error with a client-facing classification and HTTP
// status.
type AppError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	Code       string    `json:"code,omitempty"`
	Cause      error     `json:"-"`
	HTTPStatus int       `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCode adds a machine-readable error code.
func (e *AppError) WithCode(code string) *AppError {
	e.Code = code
	return e
}

// WithCause wraps an underlying error.
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// WithStatus overrides the HTTP status. The duplicate-username case uses
// this: the documented surface answers 400 even though the error is
// conflict-typed.
func (e *AppError) WithStatus(status int) *AppError {
	e.HTTPStatus = status
	return e
}

// NewValidationError creates a validation error.
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Message:    message,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Message:    message,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewConflictError creates a conflict error.
func NewConflictError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Message:    message,
		HTTPStatus: http.StatusConflict,
	}
}

// NewDatabaseError creates an error for a failed store interaction.
func NewDatabaseError(err error) *AppError {
	return &AppError{
		Type:       ErrorTypeDatabase,
		Message:    "store operation failed",
		Cause:      err,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// NewInternalError creates a generic internal error.
func NewInternalError(message string) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

// GetAppError extracts an AppError from an error chain, or nil.
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// ErrorResponse is the structured error body every non-success status
// carries.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WriteJSON renders err as a JSON error response. Errors that are not
// AppErrors render as an internal error without leaking their message.
func WriteJSON(w http.ResponseWriter, err error) {
	appErr := GetAppError(err)
	if appErr == nil {
		appErr = NewInternalError("an internal error occurred")
	}

	status := appErr.HTTPStatus
	if status == 0 {
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   true,
		Type:    string(appErr.Type),
		Message: appErr.Message,
		Code:    appErr.Code,
	})
}
