package entity

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// Типы вопросов. Значения совпадают с tipe_soal, который присылает фронтенд.
const (
	QuestionTypeMultipleChoice = "pilihanGanda"
	QuestionTypeShortAnswer    = "teksSingkat"
	QuestionTypeEssay          = "essay"
	QuestionTypeDocument       = "soalDokumen"
)

// FileConfig описывает ограничения загрузки файлов для вопроса типа soalDokumen
type FileConfig struct {
	AllowedTypes []string `json:"allowedTypes"`
	MaxSize      int      `json:"maxSize"`  // в мегабайтах
	MaxCount     int      `json:"maxCount"` // максимум файлов
}

// Scan реализует интерфейс sql.Scanner для FileConfig
// Используется GORM для чтения JSONB данных из базы
func (c *FileConfig) Scan(value interface{}) error {
	if value == nil {
		*c = FileConfig{}
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to unmarshal JSONB value: expected []byte")
	}
	if len(bytes) == 0 {
		*c = FileConfig{}
		return nil
	}
	return json.Unmarshal(bytes, c)
}

// Value реализует интерфейс driver.Valuer для FileConfig
func (c FileConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Question представляет вопрос экзамена.
// Вопрос принадлежит ровно одному экзамену и удаляется, если при редактировании
// экзамена он больше не присутствует в отправленном наборе.
type Question struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	ExamID     uint        `gorm:"not null;index" json:"exam_id"`
	TipeSoal   string      `gorm:"size:20;not null" json:"tipe_soal"`
	SoalText   string      `gorm:"type:text;not null" json:"soal_text"`
	Gambar     *string     `gorm:"size:255" json:"gambar"`
	FileConfig *FileConfig `gorm:"type:jsonb" json:"file_config,omitempty"`
	Bobot      int         `gorm:"not null;default:1" json:"bobot"`
	Options    []Option    `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Question) TableName() string {
	return "questions"
}

// HasOptions сообщает, хранит ли вопрос варианты ответов
// (для pilihanGanda это список опций, для teksSingkat - синтетическая опция с ключом)
func (q *Question) HasOptions() bool {
	return q.TipeSoal == QuestionTypeMultipleChoice || q.TipeSoal == QuestionTypeShortAnswer
}

// IsDocument проверяет, является ли вопрос заданием на загрузку документов
func (q *Question) IsDocument() bool {
	return q.TipeSoal == QuestionTypeDocument
}
