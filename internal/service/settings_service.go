package service

import (
	"errors"
	"fmt"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// Ключи публичных настроек приложения: текст шапки и пути загруженных
// изображений (фон админки, фон участника, логотип шапки)
var allowedSettingKeys = map[string]bool{
	"headerText":     true,
	"headerLogo":     true,
	"adminBgImage":   true,
	"pesertaBgImage": true,
}

// SettingsService управляет публичными настройками и SMTP-конфигурацией
type SettingsService struct {
	settingsRepo repository.SettingsRepository
}

// NewSettingsService создает новый сервис настроек
func NewSettingsService(settingsRepo repository.SettingsRepository) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo}
}

// All возвращает все публичные настройки
func (s *SettingsService) All() (map[string]string, error) {
	return s.settingsRepo.AllSettings()
}

// Save перезаписывает набор настроек. Неизвестные ключи отклоняются.
func (s *SettingsService) Save(values map[string]string) error {
	for key := range values {
		if !allowedSettingKeys[key] {
			return fmt.Errorf("%w: setting key '%s' tidak dikenal", apperrors.ErrValidation, key)
		}
	}
	for key, value := range values {
		if err := s.settingsRepo.UpsertSetting(key, value); err != nil {
			return err
		}
	}
	return nil
}

// GetSmtp возвращает SMTP-настройки администратора.
// Отсутствие записи не ошибка: возвращается пустая заготовка.
func (s *SettingsService) GetSmtp(adminID uint) (*entity.SmtpSetting, error) {
	setting, err := s.settingsRepo.GetSmtpByUser(adminID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &entity.SmtpSetting{UserID: adminID}, nil
		}
		return nil, err
	}
	return setting, nil
}

// SaveSmtp сохраняет SMTP-настройки администратора
func (s *SettingsService) SaveSmtp(adminID uint, setting *entity.SmtpSetting) (*entity.SmtpSetting, error) {
	if setting.Host == "" || setting.Port == 0 {
		return nil, fmt.Errorf("%w: host dan port wajib diisi", apperrors.ErrValidation)
	}

	setting.UserID = adminID
	if err := s.settingsRepo.UpsertSmtp(setting); err != nil {
		return nil, err
	}
	return setting, nil
}
