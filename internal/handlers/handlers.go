package handlers

import (
	"context"
	"errors"
	"net/http"

	"storefront-service/internal/dto"
	"storefront-service/internal/middleware"
	"storefront-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// serviceContext переносит пользователя из gin-контекста в контекст сервисов
func serviceContext(c *gin.Context) context.Context {
	ctx := c.Request.Context()
	if v, ok := c.Get(middleware.CtxUserID); ok {
		ctx = service.WithUserID(ctx, v.(uuid.UUID))
	}
	if v, ok := c.Get(middleware.CtxUserRole); ok {
		ctx = service.WithRole(ctx, v.(service.Role))
	}
	return ctx
}

// respondError транслирует ошибку сервисного слоя в HTTP-статус
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, dto.Error("unauthorized"))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.Error("forbidden"))
	case errors.Is(err, service.ErrOrderNotFound),
		errors.Is(err, service.ErrProductNotFound):
		c.JSON(http.StatusNotFound, dto.Error(err.Error()))
	case errors.Is(err, service.ErrEmptyItems),
		errors.Is(err, service.ErrQuantityInvalid),
		errors.Is(err, service.ErrInvalidPincode),
		errors.Is(err, service.ErrMissingAddress),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidRange),
		errors.Is(err, service.ErrReasonRequired):
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
	case errors.Is(err, service.ErrInvalidState):
		c.JSON(http.StatusBadRequest, dto.Error(err.Error()))
	case errors.Is(err, service.ErrSettingsVersion):
		c.JSON(http.StatusConflict, dto.Error(err.Error()))
	case service.IsInsufficientStock(err):
		c.JSON(http.StatusConflict, dto.Error(err.Error()))
	default:
		log.Error("internal error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.Error("internal server error"))
	}
}

func parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.Error("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}
