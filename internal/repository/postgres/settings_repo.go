package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/exam-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// SettingsRepo реализует repository.SettingsRepository
type SettingsRepo struct {
	db *gorm.DB
}

// NewSettingsRepo создает новый репозиторий настроек
func NewSettingsRepo(db *gorm.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

// AllSettings возвращает все настройки приложения как карту ключ → значение
func (r *SettingsRepo) AllSettings() (map[string]string, error) {
	var settings []entity.AppSetting
	if err := r.db.Find(&settings).Error; err != nil {
		return nil, err
	}
	result := make(map[string]string, len(settings))
	for _, s := range settings {
		result[s.SettingKey] = s.SettingValue
	}
	return result, nil
}

// UpsertSetting создает или перезаписывает настройку по ключу
func (r *SettingsRepo) UpsertSetting(key, value string) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"setting_value", "updated_at"}),
	}).Create(&entity.AppSetting{SettingKey: key, SettingValue: value}).Error
}

// GetSmtpByUser возвращает SMTP-настройки администратора
func (r *SettingsRepo) GetSmtpByUser(userID uint) (*entity.SmtpSetting, error) {
	var setting entity.SmtpSetting
	err := r.db.Where("user_id = ?", userID).First(&setting).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// UpsertSmtp создает или обновляет SMTP-настройки администратора
func (r *SettingsRepo) UpsertSmtp(setting *entity.SmtpSetting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"service", "host", "port", "secure", "auth_user", "auth_pass", "from_name", "updated_at",
		}),
	}).Create(setting).Error
}

// ResetRepo реализует repository.ResetRepository
type ResetRepo struct {
	db *gorm.DB
}

// NewResetRepo создает новый репозиторий запросов на сброс пароля
func NewResetRepo(db *gorm.DB) *ResetRepo {
	return &ResetRepo{db: db}
}

// Create создает запрос на сброс пароля
func (r *ResetRepo) Create(req *entity.PasswordResetRequest) error {
	return r.db.Create(req).Error
}

// GetByID возвращает запрос по ID
func (r *ResetRepo) GetByID(id uint) (*entity.PasswordResetRequest, error) {
	var req entity.PasswordResetRequest
	err := r.db.First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &req, nil
}

// List возвращает все запросы, новые первыми
func (r *ResetRepo) List() ([]entity.PasswordResetRequest, error) {
	var requests []entity.PasswordResetRequest
	err := r.db.Order("created_at DESC").Find(&requests).Error
	return requests, err
}

// Update сохраняет изменения запроса
func (r *ResetRepo) Update(req *entity.PasswordResetRequest) error {
	return r.db.Save(req).Error
}
