package entity

import "time"

// SmtpSetting хранит SMTP-конфигурацию исходящей почты отдельного администратора.
// Конфигурация никогда не применяется к процессу глобально: из нее собирается
// значение service.MailerConfig и передается в отправку явно (см. service.Mailer).
type SmtpSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	Service   string    `gorm:"size:30;not null;default:'gmail'" json:"service"`
	Host      string    `gorm:"size:100;not null;default:'smtp.gmail.com'" json:"host"`
	Port      int       `gorm:"not null;default:587" json:"port"`
	Secure    bool      `gorm:"not null;default:false" json:"secure"`
	AuthUser  string    `gorm:"size:100;not null;default:''" json:"auth_user"`
	AuthPass  string    `gorm:"size:100;not null;default:''" json:"auth_pass"`
	FromName  string    `gorm:"size:100;not null;default:'Admin Ujian'" json:"from_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (SmtpSetting) TableName() string {
	return "smtp_settings"
}

// Configured проверяет, заполнены ли обязательные поля для отправки
func (s *SmtpSetting) Configured() bool {
	return s.Host != "" && s.AuthUser != "" && s.AuthPass != ""
}
