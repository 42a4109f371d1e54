package entity

import "time"

// Invitation представляет приглашение участника на экзамен.
// login_count увеличивается атомарно при каждом успешном входе;
// доступ закрывается, когда счетчик достигает max_logins.
type Invitation struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Email      string    `gorm:"size:100;not null;index" json:"email"`
	ExamID     uint      `gorm:"not null;index" json:"exam_id"`
	LoginCode  string    `gorm:"size:12;not null;uniqueIndex" json:"login_code"`
	MaxLogins  int       `gorm:"not null;default:1" json:"max_logins"`
	LoginCount int       `gorm:"not null;default:0" json:"login_count"`
	AdminID    uint      `gorm:"not null;index" json:"admin_id"`
	Exam       *Exam     `gorm:"foreignKey:ExamID" json:"exam,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Invitation) TableName() string {
	return "invitations"
}

// QuotaExhausted проверяет, исчерпана ли квота входов
func (i *Invitation) QuotaExhausted() bool {
	return i.LoginCount >= i.MaxLogins
}
