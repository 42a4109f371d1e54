package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-api/internal/service"
)

// AuthHandler обрабатывает вход и профиль администратора
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создает новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest представляет запрос на вход администратора
type LoginRequest struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// Login обрабатывает вход администратора
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	login, err := h.authService.Login(req.Identifier, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, login)
}

// Me возвращает профиль текущего администратора
func (h *AuthHandler) Me(c *gin.Context) {
	caller := callerFrom(c)

	admin, err := h.authService.Me(caller.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, admin)
}

// Logout завершает сессию. Токены не хранятся на сервере,
// клиенту достаточно забыть свой.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logout berhasil"})
}
