package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// HasilRepo реализует repository.HasilRepository
type HasilRepo struct {
	db *gorm.DB
}

// NewHasilRepo создает новый репозиторий результатов экзаменов
func NewHasilRepo(db *gorm.DB) *HasilRepo {
	return &HasilRepo{db: db}
}

// Upsert находит или создает запись по составному ключу (peserta, exam, question)
// В ПЕРЕДАННОЙ ТРАНЗАКЦИИ. Существующая запись перезаписывается: при финальной
// отправке (bumpTimestamp=true) обновляется и created_at, черновик метку не трогает.
func (r *HasilRepo) Upsert(tx *gorm.DB, result *entity.ExamResult, bumpTimestamp bool) error {
	var existing entity.ExamResult
	err := tx.Where("peserta_id = ? AND exam_id = ? AND question_id = ?",
		result.PesertaID, result.ExamID, result.QuestionID).
		First(&existing).Error

	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		// Новая запись: created_at выставляем явно, автозаполнение отключено
		result.CreatedAt = time.Now()
		return tx.Create(result).Error
	}

	return tx.Model(&entity.ExamResult{}).
		Where("id = ?", existing.ID).
		Updates(resultUpdateColumns(result, bumpTimestamp, time.Now())).Error
}

// resultUpdateColumns собирает колонки перезаписи существующей строки.
// created_at попадает в набор только при финальной отправке: черновик
// обновляет ответ, но не момент оценивания.
func resultUpdateColumns(result *entity.ExamResult, bumpTimestamp bool, now time.Time) map[string]interface{} {
	updates := map[string]interface{}{
		"jawaban_text": result.JawabanText,
		"benar":        result.Benar,
	}
	if bumpTimestamp {
		updates["created_at"] = now
	}
	return updates
}

// Find возвращает запись по составному ключу
func (r *HasilRepo) Find(pesertaID, examID, questionID uint) (*entity.ExamResult, error) {
	var result entity.ExamResult
	err := r.db.Where("peserta_id = ? AND exam_id = ? AND question_id = ?",
		pesertaID, examID, questionID).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &result, nil
}

// UpdateBenar меняет только флаг корректности.
// Ответ и created_at намеренно не затрагиваются: ручная корректировка
// не является повторным оцениванием.
func (r *HasilRepo) UpdateBenar(pesertaID, examID, questionID uint, benar bool) error {
	res := r.db.Model(&entity.ExamResult{}).
		Where("peserta_id = ? AND exam_id = ? AND question_id = ?", pesertaID, examID, questionID).
		UpdateColumn("benar", benar)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Recap возвращает плоский рекап (участник × вопрос) по экзаменам администратора.
// allAdmins=true (суперадмин без фильтра) снимает ограничение по владельцу.
func (r *HasilRepo) Recap(adminID uint, allAdmins bool) ([]repository.RecapRow, error) {
	rows := []repository.RecapRow{}

	q := r.db.Table("hasil_ujian AS h").
		Joins("JOIN peserta p ON p.id = h.peserta_id").
		Joins("JOIN exams e ON e.id = h.exam_id").
		Joins("JOIN questions q ON q.id = h.question_id").
		Select(`p.id AS peserta_id, p.nama, p.email, p.nohp,
			e.id AS exam_id, e.keterangan AS ujian,
			q.id AS question_id, q.soal_text, q.tipe_soal, q.bobot,
			h.jawaban_text, h.benar, h.created_at`)

	if !allAdmins {
		q = q.Where("e.admin_id = ?", adminID)
	}

	err := q.Order("e.id").Order("p.id").Order("q.id").Scan(&rows).Error
	return rows, err
}

// ByPeserta возвращает результаты одного участника.
// Не-суперадмин видит только строки по собственным экзаменам.
func (r *HasilRepo) ByPeserta(pesertaID uint, adminID uint, allAdmins bool) ([]repository.PesertaResultRow, error) {
	rows := []repository.PesertaResultRow{}

	q := r.db.Table("hasil_ujian AS h").
		Joins("JOIN questions q ON q.id = h.question_id").
		Joins("JOIN exams e ON e.id = h.exam_id").
		Where("h.peserta_id = ?", pesertaID).
		Select(`q.id AS question_id, q.soal_text, q.tipe_soal, q.bobot,
			h.jawaban_text, h.benar, h.created_at, h.exam_id,
			e.keterangan AS keterangan_ujian, e.admin_id`)

	if !allAdmins {
		q = q.Where("e.admin_id = ?", adminID)
	}

	err := q.Order("q.id").Scan(&rows).Error
	return rows, err
}
