package entity

import "time"

// Option представляет вариант ответа вопроса.
// Для pilihanGanda каждая строка - один вариант, is_correct выставлен у ключа.
// Для teksSingkat существует единственная синтетическая опция: opsi_text хранит
// принятые ответы через запятую, is_correct всегда true.
// Опции заменяются целиком при редактировании вопроса (delete-then-insert).
type Option struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	QuestionID uint      `gorm:"not null;index" json:"question_id"`
	OpsiText   string    `gorm:"type:text;not null" json:"opsi_text"`
	IsCorrect  bool      `gorm:"not null;default:false" json:"is_correct"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Option) TableName() string {
	return "options"
}
