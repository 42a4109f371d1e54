package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-api/internal/service"
)

// InviteHandler обрабатывает приглашения и вход участников по коду
type InviteHandler struct {
	inviteService *service.InviteService
}

// NewInviteHandler создает новый обработчик приглашений
func NewInviteHandler(inviteService *service.InviteService) *InviteHandler {
	return &InviteHandler{inviteService: inviteService}
}

// InviteRequest представляет запрос на рассылку приглашений
type InviteRequest struct {
	ExamID    uint     `json:"exam_id" binding:"required"`
	Emails    []string `json:"emails" binding:"required"`
	MaxLogins int      `json:"max_logins"`
}

// Invite рассылает коды приглашений на экзамен
func (h *InviteHandler) Invite(c *gin.Context) {
	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	results, err := h.inviteService.Invite(callerFrom(c), req.ExamID, req.Emails, req.MaxLogins)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Undangan diproses", "data": results})
}

// InviteLoginRequest представляет вход участника по коду приглашения
type InviteLoginRequest struct {
	Email     string `json:"email" binding:"required"`
	LoginCode string `json:"login_code" binding:"required"`
}

// Login проводит вход участника по email и коду
func (h *InviteHandler) Login(c *gin.Context) {
	var req InviteLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	login, err := h.inviteService.Login(req.Email, req.LoginCode)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login berhasil", "data": login})
}

// List возвращает приглашения администратора
func (h *InviteHandler) List(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}
		limit = n
	}

	invitations, err := h.inviteService.List(callerFrom(c), limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": invitations})
}

// Delete удаляет приглашение
func (h *InviteHandler) Delete(c *gin.Context) {
	inviteID := c.MustGet("inviteID").(uint)

	if err := h.inviteService.Delete(callerFrom(c), inviteID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Undangan dihapus"})
}
