package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Breyner794/barber-shop/internal/pkg/apperror"
)

// ErrorResponse defines the JSON structure for error responses.
type ErrorResponse struct {
	Error string        `json:"error"`
	Kind  apperror.Kind `json:"kind"`
	Field string        `json:"field,omitempty"`
}

// Error sends a JSON error response.
// It checks if the error is an AppError to determine the status code.
// If it's not an AppError, it defaults to 500 Internal Server Error.
func Error(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.Code >= http.StatusInternalServerError {
			slog.ErrorContext(c.Request.Context(), "request failed",
				slog.String("path", c.FullPath()), slog.Any("err", err))
		}
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message, Kind: appErr.Kind, Field: appErr.Field})
		return
	}

	slog.ErrorContext(c.Request.Context(), "unexpected error",
		slog.String("path", c.FullPath()), slog.Any("err", err))
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Kind: apperror.KindInternal})
}

// BadRequest sends a 400 validation response for malformed request input.
func BadRequest(c *gin.Context, message, field string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Kind: apperror.KindValidation, Field: field})
}
