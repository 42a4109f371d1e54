package entity

import "time"

// Peserta представляет участника экзамена
type Peserta struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nama      string    `gorm:"size:100;not null" json:"nama"`
	Nohp      string    `gorm:"size:30;not null" json:"nohp"`
	Email     string    `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Password  string    `gorm:"size:100;not null" json:"-"` // легаси-поле: пароль либо код входа
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
// Таблица исторически называется 'peserta', без множественного числа
func (Peserta) TableName() string {
	return "peserta"
}
