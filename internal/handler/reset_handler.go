package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-api/internal/service"
)

// ResetHandler обрабатывает запросы на сброс пароля администраторов
type ResetHandler struct {
	resetService *service.ResetService
}

// NewResetHandler создает новый обработчик сброса паролей
func NewResetHandler(resetService *service.ResetService) *ResetHandler {
	return &ResetHandler{resetService: resetService}
}

// ForgotPasswordRequest представляет заявку на сброс пароля
type ForgotPasswordRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username"`
	Whatsapp string `json:"whatsapp"`
	Reason   string `json:"reason"`
}

// Request регистрирует заявку на сброс (публичный маршрут)
func (h *ResetHandler) Request(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.resetService.Request(req.Email, req.Username, req.Whatsapp, req.Reason)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Permintaan reset terkirim", "data": created})
}

// List возвращает все заявки на сброс
func (h *ResetHandler) List(c *gin.Context) {
	requests, err := h.resetService.List()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": requests})
}

// ProcessRequest представляет одобрение/отклонение заявки
type ProcessRequest struct {
	RequestID uint `json:"request_id" binding:"required"`
}

// Approve одобряет заявку: новый пароль уходит заявителю на почту
func (h *ResetHandler) Approve(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	processed, err := h.resetService.Approve(callerFrom(c), req.RequestID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Permintaan disetujui", "data": processed})
}

// Reject отклоняет заявку
func (h *ResetHandler) Reject(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	processed, err := h.resetService.Reject(req.RequestID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Permintaan ditolak", "data": processed})
}
