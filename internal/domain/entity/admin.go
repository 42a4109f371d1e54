package entity

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Роли администраторов
const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// Admin представляет учетную запись администратора
type Admin struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"`
	Role      string    `gorm:"size:20;not null;default:'admin'" json:"role"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Admin) TableName() string {
	return "admins"
}

// IsSuperadmin проверяет, является ли администратор суперадмином
func (a *Admin) IsSuperadmin() bool {
	return a.Role == RoleSuperadmin
}

// SetPassword хеширует и устанавливает пароль администратора
func (a *Admin) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.Password = string(hash)
	return nil
}

// CheckPassword проверяет, соответствует ли пароль сохраненному хешу
func (a *Admin) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(password)) == nil
}
