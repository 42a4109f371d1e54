package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-api/internal/middleware"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
	"github.com/yourusername/exam-api/internal/service"
)

// callerFrom восстанавливает идентичность администратора из контекста Gin.
// Контекст заполняет AuthMiddleware; на публичных маршрутах не вызывать.
func callerFrom(c *gin.Context) service.Caller {
	return service.Caller{
		ID:   c.MustGet(middleware.CtxAdminID).(uint),
		Role: c.MustGet(middleware.CtxRole).(string),
	}
}

// handleServiceError транслирует сентинельные ошибки сервисов в HTTP-статусы
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrIncompleteSubmission):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrForbidden), errors.Is(err, apperrors.ErrLoginQuotaExceeded):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("[Handler] Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "detail": err.Error()})
	}
}
