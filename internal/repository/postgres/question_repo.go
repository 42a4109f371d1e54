package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// QuestionRepo реализует repository.QuestionRepository
type QuestionRepo struct {
	db *gorm.DB
}

// NewQuestionRepo создает новый репозиторий вопросов
func NewQuestionRepo(db *gorm.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

// GetByID возвращает вопрос по ID
func (r *QuestionRepo) GetByID(id uint) (*entity.Question, error) {
	var question entity.Question
	err := r.db.First(&question, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &question, nil
}

// GetByExamID возвращает все вопросы экзамена
func (r *QuestionRepo) GetByExamID(examID uint) ([]entity.Question, error) {
	var questions []entity.Question
	err := r.db.Where("exam_id = ?", examID).Order("id").Find(&questions).Error
	return questions, err
}

// Create сохраняет новый вопрос в рамках транзакции
func (r *QuestionRepo) Create(tx *gorm.DB, question *entity.Question) error {
	return tx.Create(question).Error
}

// Update сохраняет изменения полей вопроса в рамках транзакции
func (r *QuestionRepo) Update(tx *gorm.DB, question *entity.Question) error {
	return tx.Model(&entity.Question{}).Where("id = ?", question.ID).Updates(map[string]interface{}{
		"tipe_soal":   question.TipeSoal,
		"soal_text":   question.SoalText,
		"gambar":      question.Gambar,
		"file_config": question.FileConfig,
		"bobot":       question.Bobot,
	}).Error
}

// DeleteExcept удаляет вопросы экзамена, не попавшие в keepIDs, вместе с опциями.
// Сначала опции: FK на questions не каскадируется на уровне GORM.
func (r *QuestionRepo) DeleteExcept(tx *gorm.DB, examID uint, keepIDs []uint) error {
	victims := tx.Model(&entity.Question{}).Select("id").Where("exam_id = ?", examID)
	if len(keepIDs) > 0 {
		victims = victims.Where("id NOT IN ?", keepIDs)
	}

	if err := tx.Where("question_id IN (?)", victims).Delete(&entity.Option{}).Error; err != nil {
		return err
	}

	q := tx.Where("exam_id = ?", examID)
	if len(keepIDs) > 0 {
		q = q.Where("id NOT IN ?", keepIDs)
	}
	return q.Delete(&entity.Question{}).Error
}

// ReplaceOptions удаляет старые опции вопроса и записывает новый набор
func (r *QuestionRepo) ReplaceOptions(tx *gorm.DB, questionID uint, options []entity.Option) error {
	if err := tx.Where("question_id = ?", questionID).Delete(&entity.Option{}).Error; err != nil {
		return err
	}
	for i := range options {
		options[i].ID = 0
		options[i].QuestionID = questionID
	}
	if len(options) == 0 {
		return nil
	}
	return tx.Create(&options).Error
}

// OptionRepo реализует repository.OptionRepository
type OptionRepo struct {
	db *gorm.DB
}

// NewOptionRepo создает новый репозиторий вариантов ответов
func NewOptionRepo(db *gorm.DB) *OptionRepo {
	return &OptionRepo{db: db}
}

// GetByID возвращает опцию по ID
func (r *OptionRepo) GetByID(id uint) (*entity.Option, error) {
	var option entity.Option
	err := r.db.First(&option, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &option, nil
}

// GetByQuestionID возвращает все опции вопроса
func (r *OptionRepo) GetByQuestionID(questionID uint) ([]entity.Option, error) {
	var options []entity.Option
	err := r.db.Where("question_id = ?", questionID).Order("id").Find(&options).Error
	return options, err
}

// GetAnswerKey возвращает опцию с is_correct = true (ключ ответа).
// Несколько правильных опций при записи не запрещены, берется первая.
func (r *OptionRepo) GetAnswerKey(questionID uint) (*entity.Option, error) {
	var option entity.Option
	err := r.db.Where("question_id = ? AND is_correct = true", questionID).
		Order("id").
		First(&option).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &option, nil
}

// AnswerKeyTexts возвращает тексты всех правильных опций вопроса
func (r *OptionRepo) AnswerKeyTexts(questionID uint) ([]string, error) {
	var texts []string
	err := r.db.Model(&entity.Option{}).
		Where("question_id = ? AND is_correct = true", questionID).
		Order("id").
		Pluck("opsi_text", &texts).Error
	return texts, err
}
