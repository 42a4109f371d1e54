package entity

import "time"

// AppSetting хранит одну пару ключ-значение общих настроек приложения
// (логотип, фоновые изображения, текст шапки)
type AppSetting struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SettingKey   string    `gorm:"size:50;not null;uniqueIndex" json:"setting_key"`
	SettingValue string    `gorm:"type:text;not null;default:''" json:"setting_value"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (AppSetting) TableName() string {
	return "app_settings"
}
