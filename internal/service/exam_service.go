package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// OptionInput - один вариант ответа при создании/редактировании вопроса
type OptionInput struct {
	OpsiText string `json:"opsi_text"`
}

// QuestionInput - вопрос в составе экзамена. ID = 0 означает новый вопрос;
// вопросы экзамена, отсутствующие в отправленном наборе, удаляются.
type QuestionInput struct {
	ID           uint               `json:"id"`
	TipeSoal     string             `json:"tipe_soal"`
	SoalText     string             `json:"soal_text"`
	Gambar       *string            `json:"gambar"`
	FileConfig   *entity.FileConfig `json:"file_config"`
	Bobot        int                `json:"bobot"`
	KunciJawaban string             `json:"kunci_jawaban"`
	Opsi         []OptionInput      `json:"opsi"`
}

// ExamInput - полезная нагрузка создания/редактирования экзамена
type ExamInput struct {
	Keterangan      string          `json:"keterangan"`
	Tanggal         string          `json:"tanggal"`
	TanggalBerakhir string          `json:"tanggal_berakhir"`
	JamMulai        string          `json:"jam_mulai"`
	JamBerakhir     string          `json:"jam_berakhir"`
	Durasi          int             `json:"durasi"`
	AcakSoal        bool            `json:"acak_soal"`
	AcakOpsi        bool            `json:"acak_opsi"`
	Soal            []QuestionInput `json:"soal"`
}

// ExamService предоставляет методы для работы с экзаменами
type ExamService struct {
	examRepo     repository.ExamRepository
	questionRepo repository.QuestionRepository
	runTx        func(fn func(tx *gorm.DB) error) error
}

// NewExamService создает новый сервис экзаменов
func NewExamService(examRepo repository.ExamRepository, questionRepo repository.QuestionRepository, db *gorm.DB) *ExamService {
	return &ExamService{
		examRepo:     examRepo,
		questionRepo: questionRepo,
		runTx: func(fn func(tx *gorm.DB) error) error {
			return db.Transaction(fn)
		},
	}
}

func validateExamInput(input *ExamInput) error {
	if strings.TrimSpace(input.Keterangan) == "" {
		return fmt.Errorf("%w: keterangan wajib diisi", apperrors.ErrValidation)
	}
	if input.Tanggal == "" || input.TanggalBerakhir == "" {
		return fmt.Errorf("%w: tanggal ujian wajib diisi", apperrors.ErrValidation)
	}
	if input.JamMulai == "" || input.JamBerakhir == "" {
		return fmt.Errorf("%w: jam ujian wajib diisi", apperrors.ErrValidation)
	}
	return nil
}

// buildOptions формирует набор опций вопроса из входных данных.
// pilihanGanda: is_correct вычисляется сравнением текста опции с ключом.
// teksSingkat: единственная синтетическая опция хранит ключ ответа
// (допустимые варианты через запятую). Остальные типы опций не имеют.
func buildOptions(q *QuestionInput) []entity.Option {
	switch q.TipeSoal {
	case entity.QuestionTypeMultipleChoice:
		options := make([]entity.Option, 0, len(q.Opsi))
		for _, o := range q.Opsi {
			options = append(options, entity.Option{
				OpsiText:  o.OpsiText,
				IsCorrect: o.OpsiText == q.KunciJawaban,
			})
		}
		return options
	case entity.QuestionTypeShortAnswer:
		if q.KunciJawaban == "" {
			return nil
		}
		return []entity.Option{{OpsiText: q.KunciJawaban, IsCorrect: true}}
	default:
		return nil
	}
}

// Create создает экзамен вместе с вопросами и опциями в одной транзакции
func (s *ExamService) Create(caller Caller, input *ExamInput) (*entity.Exam, error) {
	if err := validateExamInput(input); err != nil {
		return nil, err
	}

	exam := &entity.Exam{
		Keterangan:      input.Keterangan,
		Tanggal:         input.Tanggal,
		TanggalBerakhir: input.TanggalBerakhir,
		JamMulai:        input.JamMulai,
		JamBerakhir:     input.JamBerakhir,
		Durasi:          input.Durasi,
		AcakSoal:        input.AcakSoal,
		AcakOpsi:        input.AcakOpsi,
		AdminID:         caller.ID,
	}

	err := s.runTx(func(tx *gorm.DB) error {
		if err := s.examRepo.Create(tx, exam); err != nil {
			return err
		}
		for i := range input.Soal {
			if err := s.createQuestion(tx, exam.ID, &input.Soal[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[ExamService] Ошибка создания экзамена admin=%d: %v", caller.ID, err)
		return nil, err
	}

	return s.examRepo.GetWithQuestions(exam.ID)
}

func (s *ExamService) createQuestion(tx *gorm.DB, examID uint, q *QuestionInput) error {
	bobot := q.Bobot
	if bobot <= 0 {
		bobot = 1
	}
	question := &entity.Question{
		ExamID:     examID,
		TipeSoal:   q.TipeSoal,
		SoalText:   q.SoalText,
		Gambar:     q.Gambar,
		FileConfig: q.FileConfig,
		Bobot:      bobot,
	}
	if err := s.questionRepo.Create(tx, question); err != nil {
		return err
	}
	return s.questionRepo.ReplaceOptions(tx, question.ID, buildOptions(q))
}

// Update синхронизирует экзамен с отправленным набором вопросов:
// вопросы с ID обновляются, без ID создаются, не присланные - удаляются.
// Опции каждого присланного вопроса заменяются целиком.
func (s *ExamService) Update(caller Caller, examID uint, input *ExamInput) (*entity.Exam, error) {
	exam, err := s.examRepo.GetActiveByID(examID)
	if err != nil {
		return nil, err
	}
	if !caller.IsSuperadmin() && !exam.OwnedBy(caller.ID) {
		return nil, apperrors.ErrForbidden
	}
	if err := validateExamInput(input); err != nil {
		return nil, err
	}

	err = s.runTx(func(tx *gorm.DB) error {
		exam.Keterangan = input.Keterangan
		exam.Tanggal = input.Tanggal
		exam.TanggalBerakhir = input.TanggalBerakhir
		exam.JamMulai = input.JamMulai
		exam.JamBerakhir = input.JamBerakhir
		exam.Durasi = input.Durasi
		exam.AcakSoal = input.AcakSoal
		exam.AcakOpsi = input.AcakOpsi
		if err := s.examRepo.Update(tx, exam); err != nil {
			return err
		}

		keepIDs := make([]uint, 0, len(input.Soal))
		for i := range input.Soal {
			q := &input.Soal[i]
			if q.ID == 0 {
				if err := s.createQuestion(tx, examID, q); err != nil {
					return err
				}
				continue
			}

			keepIDs = append(keepIDs, q.ID)
			bobot := q.Bobot
			if bobot <= 0 {
				bobot = 1
			}
			question := &entity.Question{
				ID:         q.ID,
				TipeSoal:   q.TipeSoal,
				SoalText:   q.SoalText,
				Gambar:     q.Gambar,
				FileConfig: q.FileConfig,
				Bobot:      bobot,
			}
			if err := s.questionRepo.Update(tx, question); err != nil {
				return err
			}
			if err := s.questionRepo.ReplaceOptions(tx, q.ID, buildOptions(q)); err != nil {
				return err
			}
		}

		return s.questionRepo.DeleteExcept(tx, examID, keepIDs)
	})
	if err != nil {
		log.Printf("[ExamService] Ошибка обновления экзамена id=%d: %v", examID, err)
		return nil, err
	}

	return s.examRepo.GetWithQuestions(examID)
}

// List возвращает экзамены администратора. Суперадмин может целиться
// в другого администратора через targetAdminID.
func (s *ExamService) List(caller Caller, targetAdminID uint) ([]entity.Exam, error) {
	adminID := caller.ID
	if caller.IsSuperadmin() && targetAdminID != 0 {
		adminID = targetAdminID
	}
	return s.examRepo.ListByAdmin(adminID)
}

// Get возвращает экзамен с вопросами, включая ключи ответов.
// Только для владельца либо суперадмина.
func (s *ExamService) Get(caller Caller, examID uint) (*entity.Exam, error) {
	exam, err := s.examRepo.GetWithQuestions(examID)
	if err != nil {
		return nil, err
	}
	if !caller.IsSuperadmin() && !exam.OwnedBy(caller.ID) {
		return nil, apperrors.ErrForbidden
	}
	return exam, nil
}

// GetPublic возвращает экзамен для прохождения участником: флаги is_correct
// обнуляются, а синтетические опции teksSingkat (они и есть ключ) вырезаются.
func (s *ExamService) GetPublic(examID uint) (*entity.Exam, error) {
	exam, err := s.examRepo.GetWithQuestions(examID)
	if err != nil {
		return nil, err
	}
	if exam.IsDeleted {
		return nil, apperrors.ErrNotFound
	}

	for i := range exam.Questions {
		q := &exam.Questions[i]
		if q.TipeSoal == entity.QuestionTypeShortAnswer {
			q.Options = []entity.Option{}
			continue
		}
		for j := range q.Options {
			q.Options[j].IsCorrect = false
		}
	}
	return exam, nil
}

// CheckActive проверяет доступность экзамена в текущий момент.
// Пустая строка причины означает, что экзамен открыт.
func (s *ExamService) CheckActive(examID uint, now time.Time) (*entity.Exam, string, error) {
	exam, err := s.examRepo.GetActiveByID(examID)
	if err != nil {
		return nil, "", err
	}
	return exam, exam.AccessWindowError(now), nil
}

// Delete архивирует экзамен (мягкое удаление)
func (s *ExamService) Delete(caller Caller, examID uint) error {
	exam, err := s.examRepo.GetActiveByID(examID)
	if err != nil {
		return err
	}
	if !caller.IsSuperadmin() && !exam.OwnedBy(caller.ID) {
		return apperrors.ErrForbidden
	}
	return s.examRepo.SoftDelete(examID)
}
