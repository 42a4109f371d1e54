package repository

import (
	"github.com/yourusername/exam-api/internal/domain/entity"
)

// SettingsRepository определяет методы для работы с настройками приложения
type SettingsRepository interface {
	// AllSettings возвращает все настройки как карту ключ → значение
	AllSettings() (map[string]string, error)
	// UpsertSetting создает или перезаписывает настройку по ключу
	UpsertSetting(key, value string) error

	GetSmtpByUser(userID uint) (*entity.SmtpSetting, error)
	UpsertSmtp(setting *entity.SmtpSetting) error
}

// ResetRepository определяет методы для работы с запросами на сброс пароля
type ResetRepository interface {
	Create(req *entity.PasswordResetRequest) error
	GetByID(id uint) (*entity.PasswordResetRequest, error)
	List() ([]entity.PasswordResetRequest, error)
	Update(req *entity.PasswordResetRequest) error
}
