// Package httputil provides HTTP utility functions for request and response handling.
package httputil

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/sporeid/internal/errors"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// errorMapping ties a standard domain error to its status and error code. When
// exposeMessage is false the client gets the fixed message instead of err.Error().
type errorMapping struct {
	target        error
	status        int
	code          string
	message       string
	exposeMessage bool
}

var errorMappings = []errorMapping{
	{target: apperrors.ErrNotFound, status: http.StatusNotFound, code: "not_found",
		message: "The requested resource was not found"},
	{target: apperrors.ErrConflict, status: http.StatusConflict, code: "conflict", exposeMessage: true},
	{target: apperrors.ErrInvalidInput, status: http.StatusUnprocessableEntity, code: "invalid_input",
		exposeMessage: true},
	{target: apperrors.ErrGone, status: http.StatusGone, code: "gone", exposeMessage: true},
}

// HandleErrorGin maps domain errors to HTTP status codes and writes a JSON error body.
// Unknown errors become 500 without leaking details.
func HandleErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if err == nil {
		return
	}

	status := http.StatusInternalServerError
	response := ErrorResponse{Error: "internal_error", Message: "An internal error occurred"}

	for _, m := range errorMappings {
		if !apperrors.Is(err, m.target) {
			continue
		}
		status = m.status
		response = ErrorResponse{Error: m.code, Message: m.message}
		if m.exposeMessage {
			response.Message = err.Error()
		}
		break
	}

	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(c.Request.Context(), level, "request failed",
			slog.Int("status_code", status),
			slog.String("error_code", response.Error),
			slog.Any("error", err),
		)
	}

	c.JSON(status, response)
}

// HandleBadRequestGin writes a 400 Bad Request response for malformed JSON or parameters.
func HandleBadRequestGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("bad request", slog.Any("error", err))
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "bad_request",
		Message: err.Error(),
	})
}

// HandleValidationErrorGin writes a 422 Unprocessable Entity response for validation errors.
func HandleValidationErrorGin(c *gin.Context, err error, logger *slog.Logger) {
	if logger != nil {
		logger.Warn("validation failed", slog.Any("error", err))
	}

	c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}
