package entity

import "time"

// Статусы запроса на сброс пароля
const (
	ResetStatusPending  = "pending"
	ResetStatusApproved = "approved"
	ResetStatusRejected = "rejected"
)

// PasswordResetRequest представляет запрос администратора на сброс пароля.
// Запрос обрабатывается суперадмином: approve меняет пароль и отправляет письмо,
// reject лишь помечает запрос отклоненным.
type PasswordResetRequest struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"size:100;not null;index" json:"email"`
	Username  string    `gorm:"size:50;not null;default:''" json:"username"`
	Whatsapp  string    `gorm:"size:30;not null;default:''" json:"whatsapp"`
	Reason    string    `gorm:"type:text;not null;default:''" json:"reason"`
	Status    string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (PasswordResetRequest) TableName() string {
	return "password_reset_requests"
}
