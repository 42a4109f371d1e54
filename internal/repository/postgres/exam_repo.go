package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// ExamRepo реализует repository.ExamRepository
type ExamRepo struct {
	db *gorm.DB
}

// NewExamRepo создает новый репозиторий экзаменов
func NewExamRepo(db *gorm.DB) *ExamRepo {
	return &ExamRepo{db: db}
}

// GetByID возвращает экзамен по ID (включая архивированные)
func (r *ExamRepo) GetByID(id uint) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.First(&exam, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// GetActiveByID возвращает неархивированный экзамен по ID
func (r *ExamRepo) GetActiveByID(id uint) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.Where("id = ? AND is_deleted = false", id).First(&exam).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// GetWithQuestions возвращает экзамен вместе с вопросами и их опциями
func (r *ExamRepo) GetWithQuestions(id uint) (*entity.Exam, error) {
	var exam entity.Exam
	err := r.db.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.id")
	}).Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("options.id")
	}).First(&exam, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &exam, nil
}

// ListByAdmin возвращает неархивированные экзамены администратора
func (r *ExamRepo) ListByAdmin(adminID uint) ([]entity.Exam, error) {
	var exams []entity.Exam
	err := r.db.Where("is_deleted = false AND admin_id = ?", adminID).
		Order("created_at ASC").
		Find(&exams).Error
	return exams, err
}

// Create сохраняет новый экзамен в рамках транзакции
func (r *ExamRepo) Create(tx *gorm.DB, exam *entity.Exam) error {
	return tx.Create(exam).Error
}

// Update сохраняет изменения полей экзамена в рамках транзакции
func (r *ExamRepo) Update(tx *gorm.DB, exam *entity.Exam) error {
	return tx.Model(&entity.Exam{}).Where("id = ?", exam.ID).Updates(map[string]interface{}{
		"keterangan":       exam.Keterangan,
		"tanggal":          exam.Tanggal,
		"tanggal_berakhir": exam.TanggalBerakhir,
		"jam_mulai":        exam.JamMulai,
		"jam_berakhir":     exam.JamBerakhir,
		"durasi":           exam.Durasi,
		"acak_soal":        exam.AcakSoal,
		"acak_opsi":        exam.AcakOpsi,
	}).Error
}

// SoftDelete помечает экзамен архивированным. Физическое удаление не выполняется,
// чтобы сохранить исторические результаты.
func (r *ExamRepo) SoftDelete(id uint) error {
	res := r.db.Model(&entity.Exam{}).Where("id = ?", id).UpdateColumn("is_deleted", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
