package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-api/internal/service"
)

// AdminHandler обрабатывает управление учетными записями администраторов
type AdminHandler struct {
	adminService *service.AdminService
}

// NewAdminHandler создает новый обработчик администраторов
func NewAdminHandler(adminService *service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// List возвращает все учетные записи
func (h *AdminHandler) List(c *gin.Context) {
	admins, err := h.adminService.List()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": admins})
}

// CreateAdminRequest представляет запрос на создание администратора
type CreateAdminRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

// Create регистрирует нового администратора
func (h *AdminHandler) Create(c *gin.Context) {
	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.adminService.Create(req.Username, req.Email, req.Password, req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Admin berhasil dibuat", "data": admin})
}

// Delete удаляет администратора
func (h *AdminHandler) Delete(c *gin.Context) {
	adminID := c.MustGet("targetAdminID").(uint)

	if err := h.adminService.Delete(callerFrom(c), adminID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin berhasil dihapus"})
}

// UpdateRoleRequest представляет запрос на смену роли
type UpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// UpdateRole изменяет роль администратора
func (h *AdminHandler) UpdateRole(c *gin.Context) {
	adminID := c.MustGet("targetAdminID").(uint)

	var req UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.adminService.UpdateRole(callerFrom(c), adminID, req.Role)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role diperbarui", "data": admin})
}

// UpdateUsernameRequest представляет запрос на смену имени пользователя
type UpdateUsernameRequest struct {
	Username string `json:"username" binding:"required"`
}

// UpdateUsername изменяет имя пользователя администратора
func (h *AdminHandler) UpdateUsername(c *gin.Context) {
	adminID := c.MustGet("targetAdminID").(uint)

	var req UpdateUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := h.adminService.UpdateUsername(adminID, req.Username)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Username diperbarui", "data": admin})
}

// ToggleStatus включает/выключает учетную запись
func (h *AdminHandler) ToggleStatus(c *gin.Context) {
	adminID := c.MustGet("targetAdminID").(uint)

	admin, err := h.adminService.ToggleActive(callerFrom(c), adminID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status diperbarui", "data": admin})
}

// ChangePasswordRequest представляет запрос смены собственного пароля
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=6"`
}

// ChangePassword меняет пароль текущего администратора
func (h *AdminHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.adminService.ChangePassword(callerFrom(c), req.OldPassword, req.NewPassword); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password berhasil diganti"})
}
