package entity

import (
	"fmt"
	"time"
)

// Exam представляет экзамен (ujian), созданный администратором.
// Экзамен никогда не удаляется физически: is_deleted сохраняет историю результатов.
type Exam struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Keterangan      string     `gorm:"size:255;not null" json:"keterangan"`
	Tanggal         string     `gorm:"size:10;not null" json:"tanggal"`          // YYYY-MM-DD
	TanggalBerakhir string     `gorm:"size:10;not null" json:"tanggal_berakhir"` // YYYY-MM-DD
	JamMulai        string     `gorm:"size:8;not null" json:"jam_mulai"`         // HH:MM:SS
	JamBerakhir     string     `gorm:"size:8;not null" json:"jam_berakhir"`      // HH:MM:SS
	Durasi          int        `gorm:"not null;default:0" json:"durasi"`         // в минутах
	AcakSoal        bool       `gorm:"not null;default:false" json:"acak_soal"`
	AcakOpsi        bool       `gorm:"not null;default:false" json:"acak_opsi"`
	AdminID         uint       `gorm:"not null;index" json:"admin_id"`
	IsDeleted       bool       `gorm:"not null;default:false;index" json:"is_deleted"`
	Questions       []Question `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Exam) TableName() string {
	return "exams"
}

// OwnedBy проверяет, принадлежит ли экзамен данному администратору
func (e *Exam) OwnedBy(adminID uint) bool {
	return e.AdminID == adminID
}

// AccessWindowError возвращает причину недоступности экзамена в момент now,
// либо пустую строку, если экзамен открыт. Даты и время хранятся строками
// в том же формате, в каком их присылает фронтенд.
func (e *Exam) AccessWindowError(now time.Time) string {
	const layout = "2006-01-02 15:04:05"

	start, err1 := time.ParseInLocation(layout, e.Tanggal+" "+normalizeClock(e.JamMulai), now.Location())
	end, err2 := time.ParseInLocation(layout, e.TanggalBerakhir+" "+normalizeClock(e.JamBerakhir), now.Location())
	if err1 != nil || err2 != nil {
		// Некорректно заполненное расписание не должно блокировать доступ
		return ""
	}

	switch {
	case now.Before(start):
		return "Ujian belum dimulai."
	case now.After(end):
		return "Ujian sudah berakhir."
	}

	// В пределах диапазона дат проверяем ежедневное окно по часам
	clock := now.Format("15:04:05")
	if clock < normalizeClock(e.JamMulai) || clock > normalizeClock(e.JamBerakhir) {
		return fmt.Sprintf("Jam ujian saat ini ditutup. Akses: %s - %s", e.JamMulai, e.JamBerakhir)
	}
	return ""
}

// normalizeClock дополняет "HH:MM" до "HH:MM:SS"
func normalizeClock(v string) string {
	if len(v) == 5 {
		return v + ":00"
	}
	return v
}
