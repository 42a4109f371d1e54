package entity

import (
	"encoding/json"
	"time"
)

// ExamResult представляет один ответ участника на один вопрос экзамена.
// Составная идентичность (peserta_id, exam_id, question_id) уникальна:
// запись всегда создается или перезаписывается через upsert, никогда не дублируется.
//
// CreatedAt обновляется только при финальной отправке (момент оценивания),
// черновики его не трогают. Автоматику GORM для этого поля отключаем.
type ExamResult struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	PesertaID   uint      `gorm:"not null;index;uniqueIndex:idx_peserta_exam_question" json:"peserta_id"`
	ExamID      uint      `gorm:"not null;index;uniqueIndex:idx_peserta_exam_question" json:"exam_id"`
	QuestionID  uint      `gorm:"not null;index;uniqueIndex:idx_peserta_exam_question" json:"question_id"`
	JawabanText *string   `gorm:"type:text" json:"jawaban_text"`
	Benar       bool      `gorm:"not null;default:false" json:"benar"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false;autoUpdateTime:false" json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (ExamResult) TableName() string {
	return "hasil_ujian"
}

// JawabanFiles разбирает jawaban_text как JSON-массив путей загруженных файлов.
// Если там лежит обычная строка (старый формат), она возвращается одним элементом.
func (r *ExamResult) JawabanFiles() []string {
	if r.JawabanText == nil || *r.JawabanText == "" {
		return nil
	}
	var files []string
	if err := json.Unmarshal([]byte(*r.JawabanText), &files); err == nil {
		return files
	}
	return []string{*r.JawabanText}
}
