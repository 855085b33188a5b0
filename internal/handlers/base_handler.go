package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HRP-2025/directory-service/internal/remote"
	"github.com/HRP-2025/directory-service/internal/repositories"
	"github.com/HRP-2025/directory-service/internal/utils"
	"github.com/HRP-2025/directory-service/internal/validator"
)

// ErrorResponse is the uniform error body for all endpoints
type ErrorResponse struct {
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// SuccessResponse wraps list payloads that carry metadata
type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta interface{} `json:"meta,omitempty"`
}

// BaseHandler provides shared logging and error mapping for handlers
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs with the request-scoped logger when middleware put one
// on the context.
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	if l, exists := c.Get("logger"); exists {
		if logger, ok := l.(utils.Logger); ok {
			logger.Info(msg, args...)
			return
		}
	}
	h.logger.Info(msg, args...)
}

// handleServiceError maps domain errors onto HTTP statuses.
func (h *BaseHandler) handleServiceError(c *gin.Context, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Validation failed",
			Details: validationErrs,
		})
		return
	}

	if errors.Is(err, repositories.ErrDuplicateEmail) {
		c.JSON(http.StatusConflict, ErrorResponse{
			Message: "Email already in use",
		})
		return
	}

	if errors.Is(err, repositories.ErrNotFound) {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Message: "Employee not found",
		})
		return
	}

	var requestFailed *remote.RequestFailed
	if errors.As(err, &requestFailed) {
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Message: "Remote directory unavailable",
			Details: requestFailed.Error(),
		})
		return
	}

	h.logger.Error("Unhandled service error", "error", err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Message: "Internal server error",
	})
}
