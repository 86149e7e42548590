package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/drobe/backend/internal/domain/shared"
	"github.com/drobe/backend/internal/interfaces/http/dto"
	"github.com/drobe/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// IdempotencyKeyHeader carries the client's retry key on checkout
const IdempotencyKeyHeader = "Idempotency-Key"

// parseUUIDParam reads a path parameter as a UUID. On failure it writes a
// 400 response naming the subject and returns false.
func (h *BaseHandler) parseUUIDParam(c *gin.Context, param, subject string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		h.BadRequest(c, fmt.Sprintf("Invalid %s ID format", subject))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body. Field rule violations are reported field
// by field; a body that does not decode at all is an invalid JSON error.
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			middleware.HandleValidationError(c, err)
			return false
		}
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidJSON, "Invalid request body")
		return false
	}
	return true
}

// bindQuery binds query parameters
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			middleware.HandleValidationError(c, err)
			return false
		}
		h.BadRequest(c, "Invalid query parameters")
		return false
	}
	return true
}

// pageOrDefault normalizes the page number and size used for list metadata
func pageOrDefault(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = shared.DefaultPageSize
	}
	return page, pageSize
}
