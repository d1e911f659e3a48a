package common

import (
	"encoding/json"
	"go-crop-api/logger"
	"net/http"

	"github.com/sirupsen/logrus"
)

// AppError is the single error shape that crosses the HTTP boundary.
// The wrapped internal error is logged server-side and never serialized.
type AppError struct {
	Code    int               `json:"code"`
	Kind    string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
	Err     error             `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Kind:    kindForCode(code),
		Message: message,
		Err:     err,
	}
}

// NewValidationError carries field-level details for 400 responses.
func NewValidationError(message string, details map[string]string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Kind:    "validation_error",
		Message: message,
		Details: details,
	}
}

func NewConflictError(message string, err error) *AppError {
	return &AppError{Code: http.StatusConflict, Kind: "conflict", Message: message, Err: err}
}

// NewInvalidCredentialsError is returned for both unknown-email and
// wrong-password logins so callers cannot enumerate registered users.
func NewInvalidCredentialsError() *AppError {
	return &AppError{Code: http.StatusUnauthorized, Kind: "invalid_credentials", Message: "Invalid email or password"}
}

func NewInvalidTokenError(err error) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Kind: "invalid_token", Message: "Invalid or expired token", Err: err}
}

func NewStorageUnavailableError(err error) *AppError {
	return &AppError{Code: http.StatusServiceUnavailable, Kind: "storage_unavailable", Message: "Storage temporarily unavailable", Err: err}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Kind: "internal", Message: message, Err: err}
}

func kindForCode(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "validation_error"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusServiceUnavailable:
		return "storage_unavailable"
	default:
		return "internal"
	}
}

func (e *AppError) Send(w http.ResponseWriter) {
	if e.Err != nil {
		logger.Log.WithFields(logrus.Fields{
			"status_code":    e.Code,
			"error_kind":     e.Kind,
			"internal_error": e.Err.Error(),
		}).Error(e.Message)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.Code)
	json.NewEncoder(w).Encode(e)
}
