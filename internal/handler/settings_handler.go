package handler

import (
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/service"
	"github.com/yourusername/exam-api/internal/storage"
)

// Файловые настройки: значением становится путь загруженного изображения
var settingImageKeys = []string{"adminBgImage", "pesertaBgImage", "headerLogo"}

// SettingsHandler обрабатывает настройки приложения и SMTP
type SettingsHandler struct {
	settingsService *service.SettingsService
	files           storage.FileStorage
}

// NewSettingsHandler создает новый обработчик настроек
func NewSettingsHandler(settingsService *service.SettingsService, files storage.FileStorage) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		files:           files,
	}
}

// All возвращает публичные настройки приложения
func (h *SettingsHandler) All(c *gin.Context) {
	settings, err := h.settingsService.All()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": settings})
}

// Save перезаписывает настройки приложения. Multipart несет изображения
// (adminBgImage, pesertaBgImage, headerLogo) и текст headerText; для
// запросов без файлов принимается и чистый JSON ключ-значение.
func (h *SettingsHandler) Save(c *gin.Context) {
	values := map[string]string{}

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		for _, key := range settingImageKeys {
			fh, err := c.FormFile(key)
			if err != nil {
				continue
			}
			src, err := fh.Open()
			if err != nil {
				log.Printf("[SettingsHandler] Ошибка открытия файла %s: %v", fh.Filename, err)
				continue
			}
			path, err := h.files.Save(storage.DirGambar, fh.Filename, src)
			src.Close()
			if err != nil {
				handleServiceError(c, err)
				return
			}
			values[key] = path
		}
		if v, ok := c.GetPostForm("headerText"); ok {
			values["headerText"] = v
		}
	} else if err := c.ShouldBindJSON(&values); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.settingsService.Save(values); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pengaturan tersimpan"})
}

// GetSmtp возвращает SMTP-настройки текущего администратора.
// Пароль наружу не отдается.
func (h *SettingsHandler) GetSmtp(c *gin.Context) {
	caller := callerFrom(c)

	setting, err := h.settingsService.GetSmtp(caller.ID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	setting.AuthPass = ""
	c.JSON(http.StatusOK, gin.H{"data": setting})
}

// SmtpRequest представляет SMTP-настройки администратора
type SmtpRequest struct {
	Service  string `json:"service"`
	Host     string `json:"host" binding:"required"`
	Port     int    `json:"port" binding:"required"`
	Secure   bool   `json:"secure"`
	AuthUser string `json:"auth_user"`
	AuthPass string `json:"auth_pass"`
	FromName string `json:"from_name"`
}

// SaveSmtp сохраняет SMTP-настройки текущего администратора
func (h *SettingsHandler) SaveSmtp(c *gin.Context) {
	var req SmtpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	caller := callerFrom(c)
	setting, err := h.settingsService.SaveSmtp(caller.ID, &entity.SmtpSetting{
		Service:  req.Service,
		Host:     req.Host,
		Port:     req.Port,
		Secure:   req.Secure,
		AuthUser: req.AuthUser,
		AuthPass: req.AuthPass,
		FromName: req.FromName,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}

	setting.AuthPass = ""
	c.JSON(http.StatusOK, gin.H{"message": "Pengaturan SMTP tersimpan", "data": setting})
}
