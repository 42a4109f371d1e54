package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
)

// RecapRow - одна строка рекапа: (участник, вопрос) со всеми денормализованными полями
type RecapRow struct {
	PesertaID        uint      `json:"peserta_id"`
	Nama             string    `json:"nama"`
	Email            string    `json:"email"`
	Nohp             string    `json:"nohp"`
	ExamID           uint      `json:"exam_id"`
	Ujian            string    `json:"ujian"`
	QuestionID       uint      `json:"question_id"`
	SoalText         string    `json:"soal_text"`
	TipeSoal         string    `json:"tipe_soal"`
	Bobot            int       `json:"bobot"`
	JawabanText      *string   `json:"jawaban_text"`
	Benar            bool      `json:"benar"`
	CreatedAt        time.Time `json:"created_at"`
	JawabanFiles     []string  `gorm:"-" json:"jawaban_files,omitempty"`
	KunciJawabanText string    `gorm:"-" json:"kunci_jawaban_text"`
}

// PesertaResultRow - строка детального отчета по одному участнику
type PesertaResultRow struct {
	QuestionID      uint      `json:"question_id"`
	SoalText        string    `json:"soal_text"`
	TipeSoal        string    `json:"tipe_soal"`
	Bobot           int       `json:"bobot"`
	JawabanText     *string   `json:"jawaban_text"`
	Benar           bool      `json:"benar"`
	CreatedAt       time.Time `json:"created_at"`
	ExamID          uint      `json:"exam_id"`
	KeteranganUjian string    `json:"keterangan_ujian"`
	AdminID         uint      `json:"admin_id"`

	Pilihan      []entity.Option `gorm:"-" json:"pilihan"`
	JawabanFiles []string        `gorm:"-" json:"jawaban_files,omitempty"`
}

// HasilRepository определяет методы для работы с результатами экзаменов
type HasilRepository interface {
	// Upsert находит или создает запись по составному ключу (peserta, exam, question)
	// внутри переданной транзакции. bumpTimestamp = true только для финальной отправки.
	Upsert(tx *gorm.DB, result *entity.ExamResult, bumpTimestamp bool) error

	// Find возвращает запись по составному ключу
	Find(pesertaID, examID, questionID uint) (*entity.ExamResult, error)

	// UpdateBenar меняет только флаг корректности, не трогая ответ и метку времени
	UpdateBenar(pesertaID, examID, questionID uint, benar bool) error

	// Recap возвращает плоский рекап по всем результатам экзаменов данного администратора
	Recap(adminID uint, allAdmins bool) ([]RecapRow, error)

	// ByPeserta возвращает результаты одного участника, опционально фильтруя по владельцу экзамена
	ByPeserta(pesertaID uint, adminID uint, allAdmins bool) ([]PesertaResultRow, error)
}
