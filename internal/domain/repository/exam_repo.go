package repository

import (
	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
)

// ExamRepository определяет методы для работы с экзаменами.
// Мутирующие методы принимают транзакцию: создание и синхронизация
// экзамена с вопросами выполняются как единое целое.
type ExamRepository interface {
	GetByID(id uint) (*entity.Exam, error)
	GetActiveByID(id uint) (*entity.Exam, error)
	GetWithQuestions(id uint) (*entity.Exam, error)
	ListByAdmin(adminID uint) ([]entity.Exam, error)
	Create(tx *gorm.DB, exam *entity.Exam) error
	Update(tx *gorm.DB, exam *entity.Exam) error
	SoftDelete(id uint) error
}

// QuestionRepository определяет методы для работы с вопросами и их опциями
type QuestionRepository interface {
	GetByID(id uint) (*entity.Question, error)
	GetByExamID(examID uint) ([]entity.Question, error)
	Create(tx *gorm.DB, question *entity.Question) error
	Update(tx *gorm.DB, question *entity.Question) error
	// DeleteExcept удаляет вопросы экзамена, чьи ID не входят в keepIDs,
	// вместе с их опциями. Пустой keepIDs удаляет все вопросы экзамена.
	DeleteExcept(tx *gorm.DB, examID uint, keepIDs []uint) error
	// ReplaceOptions заменяет весь набор опций вопроса новым
	ReplaceOptions(tx *gorm.DB, questionID uint, options []entity.Option) error
}

// OptionRepository определяет методы для чтения вариантов ответов.
// GradingEngine использует его только на чтение и никогда не мутирует опции.
type OptionRepository interface {
	GetByID(id uint) (*entity.Option, error)
	GetByQuestionID(questionID uint) ([]entity.Option, error)
	// GetAnswerKey возвращает опцию с is_correct = true для вопроса (ключ ответа)
	GetAnswerKey(questionID uint) (*entity.Option, error)
	// AnswerKeyTexts возвращает тексты всех правильных опций вопроса
	AnswerKeyTexts(questionID uint) ([]string, error)
}
