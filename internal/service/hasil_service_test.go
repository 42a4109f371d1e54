package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
	"github.com/yourusername/exam-api/internal/service/grading"
)

// MockHasilRepo - мок репозитория результатов
type MockHasilRepo struct {
	mock.Mock
}

func (m *MockHasilRepo) Upsert(tx *gorm.DB, result *entity.ExamResult, bumpTimestamp bool) error {
	args := m.Called(tx, result, bumpTimestamp)
	return args.Error(0)
}

func (m *MockHasilRepo) Find(pesertaID, examID, questionID uint) (*entity.ExamResult, error) {
	args := m.Called(pesertaID, examID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.ExamResult), args.Error(1)
}

func (m *MockHasilRepo) UpdateBenar(pesertaID, examID, questionID uint, benar bool) error {
	args := m.Called(pesertaID, examID, questionID, benar)
	return args.Error(0)
}

func (m *MockHasilRepo) Recap(adminID uint, allAdmins bool) ([]repository.RecapRow, error) {
	args := m.Called(adminID, allAdmins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.RecapRow), args.Error(1)
}

func (m *MockHasilRepo) ByPeserta(pesertaID, adminID uint, allAdmins bool) ([]repository.PesertaResultRow, error) {
	args := m.Called(pesertaID, adminID, allAdmins)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.PesertaResultRow), args.Error(1)
}

// MockExamRepo - мок репозитория экзаменов
type MockExamRepo struct {
	mock.Mock
}

func (m *MockExamRepo) GetByID(id uint) (*entity.Exam, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Exam), args.Error(1)
}

func (m *MockExamRepo) GetActiveByID(id uint) (*entity.Exam, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Exam), args.Error(1)
}

func (m *MockExamRepo) GetWithQuestions(id uint) (*entity.Exam, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Exam), args.Error(1)
}

func (m *MockExamRepo) ListByAdmin(adminID uint) ([]entity.Exam, error) {
	args := m.Called(adminID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Exam), args.Error(1)
}

func (m *MockExamRepo) Create(tx *gorm.DB, exam *entity.Exam) error {
	args := m.Called(tx, exam)
	return args.Error(0)
}

func (m *MockExamRepo) Update(tx *gorm.DB, exam *entity.Exam) error {
	args := m.Called(tx, exam)
	return args.Error(0)
}

func (m *MockExamRepo) SoftDelete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

// MockOptionRepo - мок репозитория опций
type MockOptionRepo struct {
	mock.Mock
}

func (m *MockOptionRepo) GetByID(id uint) (*entity.Option, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Option), args.Error(1)
}

func (m *MockOptionRepo) GetByQuestionID(questionID uint) ([]entity.Option, error) {
	args := m.Called(questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Option), args.Error(1)
}

func (m *MockOptionRepo) GetAnswerKey(questionID uint) (*entity.Option, error) {
	args := m.Called(questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Option), args.Error(1)
}

func (m *MockOptionRepo) AnswerKeyTexts(questionID uint) ([]string, error) {
	args := m.Called(questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func newTestService(hasilRepo *MockHasilRepo, examRepo *MockExamRepo, optionRepo *MockOptionRepo) *HasilService {
	svc := NewHasilService(hasilRepo, examRepo, optionRepo, grading.NewEngine(optionRepo), nil)
	// Подменяем транзакцию: моки не требуют живого соединения
	svc.runTx = func(fn func(tx *gorm.DB) error) error {
		return fn(nil)
	}
	return svc
}

func strPtr(s string) *string { return &s }

func TestParseSubmission(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		raw := []byte(`{"peserta_id": 5, "exam_id": 10, "jawaban": [{"question_id": 1, "tipe_soal": "essay", "jawaban_text": "ответ"}]}`)

		sub, err := ParseSubmission(raw)

		require.NoError(t, err)
		assert.Equal(t, uint(5), sub.PesertaID)
		assert.Equal(t, uint(10), sub.ExamID)
		require.Len(t, sub.Jawaban, 1)
		assert.Equal(t, uint(1), sub.Jawaban[0].QuestionID)
	})

	t.Run("MissingPesertaID", func(t *testing.T) {
		raw := []byte(`{"exam_id": 10, "jawaban": [{"question_id": 1}]}`)

		_, err := ParseSubmission(raw)

		assert.ErrorIs(t, err, apperrors.ErrIncompleteSubmission)
	})

	t.Run("MissingExamID", func(t *testing.T) {
		raw := []byte(`{"peserta_id": 5, "jawaban": [{"question_id": 1}]}`)

		_, err := ParseSubmission(raw)

		assert.ErrorIs(t, err, apperrors.ErrIncompleteSubmission)
	})

	t.Run("EmptyJawaban", func(t *testing.T) {
		raw := []byte(`{"peserta_id": 5, "exam_id": 10, "jawaban": []}`)

		_, err := ParseSubmission(raw)

		assert.ErrorIs(t, err, apperrors.ErrIncompleteSubmission)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		_, err := ParseSubmission([]byte(`{"peserta_id": `))

		assert.ErrorIs(t, err, apperrors.ErrIncompleteSubmission)
	})
}

func TestSaveDraft(t *testing.T) {
	hasilRepo := new(MockHasilRepo)
	examRepo := new(MockExamRepo)
	optionRepo := new(MockOptionRepo)
	svc := newTestService(hasilRepo, examRepo, optionRepo)

	sub := &Submission{
		PesertaID: 5,
		ExamID:    10,
		Jawaban: []AnswerInput{
			{QuestionID: 1, TipeSoal: entity.QuestionTypeMultipleChoice, JawabanText: strPtr("7")},
			{TipeSoal: entity.QuestionTypeEssay, JawabanText: strPtr("без question_id")},
			{QuestionID: 2, TipeSoal: entity.QuestionTypeEssay, JawabanText: strPtr("черновик эссе")},
		},
	}

	hasilRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(r *entity.ExamResult) bool {
		return r.QuestionID == 1 && *r.JawabanText == "7" && !r.Benar
	}), false).Return(nil)
	hasilRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(r *entity.ExamResult) bool {
		return r.QuestionID == 2 && *r.JawabanText == "черновик эссе" && !r.Benar
	}), false).Return(nil)

	err := svc.SaveDraft(sub)

	require.NoError(t, err)
	// Черновик не оценивается: опции не читаются вообще
	optionRepo.AssertNotCalled(t, "GetByID", mock.Anything)
	hasilRepo.AssertNumberOfCalls(t, "Upsert", 2)
}

func TestSaveDraft_ErrorAbortsBatch(t *testing.T) {
	hasilRepo := new(MockHasilRepo)
	examRepo := new(MockExamRepo)
	optionRepo := new(MockOptionRepo)
	svc := newTestService(hasilRepo, examRepo, optionRepo)

	dbErr := errors.New("connection reset")
	hasilRepo.On("Upsert", mock.Anything, mock.Anything, false).Return(dbErr)

	err := svc.SaveDraft(&Submission{
		PesertaID: 5,
		ExamID:    10,
		Jawaban:   []AnswerInput{{QuestionID: 1, JawabanText: strPtr("x")}},
	})

	assert.ErrorIs(t, err, dbErr)
}

func TestSubmitFinal(t *testing.T) {
	hasilRepo := new(MockHasilRepo)
	examRepo := new(MockExamRepo)
	optionRepo := new(MockOptionRepo)
	svc := newTestService(hasilRepo, examRepo, optionRepo)

	optionRepo.On("GetByID", uint(7)).Return(&entity.Option{
		ID:         7,
		QuestionID: 1,
		OpsiText:   "Jakarta",
		IsCorrect:  true,
	}, nil)

	// Множественный выбор: текст переписывается текстом опции, benar от ключа
	hasilRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(r *entity.ExamResult) bool {
		return r.QuestionID == 1 && *r.JawabanText == "Jakarta" && r.Benar
	}), true).Return(nil)
	// Документ: пути новых файлов сериализуются в JSON, benar всегда false
	hasilRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(r *entity.ExamResult) bool {
		return r.QuestionID == 3 &&
			*r.JawabanText == `["/storage/uploads_jawaban/a.pdf"]` &&
			!r.Benar
	}), true).Return(nil)

	sub := &Submission{
		PesertaID: 5,
		ExamID:    10,
		Jawaban: []AnswerInput{
			{QuestionID: 1, TipeSoal: entity.QuestionTypeMultipleChoice, JawabanText: strPtr("7")},
			{QuestionID: 3, TipeSoal: entity.QuestionTypeDocument},
		},
	}
	uploads := map[uint][]string{
		3: {"/storage/uploads_jawaban/a.pdf"},
	}

	err := svc.SubmitFinal(sub, uploads)

	require.NoError(t, err)
	hasilRepo.AssertExpectations(t)
}

func TestSubmitFinal_ErrorAbortsBatch(t *testing.T) {
	hasilRepo := new(MockHasilRepo)
	examRepo := new(MockExamRepo)
	optionRepo := new(MockOptionRepo)
	svc := newTestService(hasilRepo, examRepo, optionRepo)

	dbErr := errors.New("deadlock detected")
	hasilRepo.On("Upsert", mock.Anything, mock.Anything, true).Return(dbErr)

	err := svc.SubmitFinal(&Submission{
		PesertaID: 5,
		ExamID:    10,
		Jawaban:   []AnswerInput{{QuestionID: 1, TipeSoal: entity.QuestionTypeEssay, JawabanText: strPtr("x")}},
	}, nil)

	assert.ErrorIs(t, err, dbErr)
}

func TestSetManualGrade(t *testing.T) {
	t.Run("OwnerCanOverride", func(t *testing.T) {
		hasilRepo := new(MockHasilRepo)
		examRepo := new(MockExamRepo)
		optionRepo := new(MockOptionRepo)
		svc := newTestService(hasilRepo, examRepo, optionRepo)

		hasilRepo.On("Find", uint(5), uint(10), uint(1)).Return(&entity.ExamResult{
			ID: 42, PesertaID: 5, ExamID: 10, QuestionID: 1, Benar: false,
		}, nil)
		examRepo.On("GetByID", uint(10)).Return(&entity.Exam{ID: 10, AdminID: 3}, nil)
		hasilRepo.On("UpdateBenar", uint(5), uint(10), uint(1), true).Return(nil)

		result, err := svc.SetManualGrade(Caller{ID: 3, Role: entity.RoleAdmin}, 5, 10, 1, true)

		require.NoError(t, err)
		assert.True(t, result.Benar)
		hasilRepo.AssertExpectations(t)
	})

	t.Run("ForeignExamForbidden", func(t *testing.T) {
		hasilRepo := new(MockHasilRepo)
		examRepo := new(MockExamRepo)
		optionRepo := new(MockOptionRepo)
		svc := newTestService(hasilRepo, examRepo, optionRepo)

		hasilRepo.On("Find", uint(5), uint(10), uint(1)).Return(&entity.ExamResult{ID: 42}, nil)
		examRepo.On("GetByID", uint(10)).Return(&entity.Exam{ID: 10, AdminID: 99}, nil)

		_, err := svc.SetManualGrade(Caller{ID: 3, Role: entity.RoleAdmin}, 5, 10, 1, true)

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
		hasilRepo.AssertNotCalled(t, "UpdateBenar", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("SuperadminBypassesOwnership", func(t *testing.T) {
		hasilRepo := new(MockHasilRepo)
		examRepo := new(MockExamRepo)
		optionRepo := new(MockOptionRepo)
		svc := newTestService(hasilRepo, examRepo, optionRepo)

		hasilRepo.On("Find", uint(5), uint(10), uint(1)).Return(&entity.ExamResult{ID: 42, Benar: true}, nil)
		examRepo.On("GetByID", uint(10)).Return(&entity.Exam{ID: 10, AdminID: 99}, nil)
		hasilRepo.On("UpdateBenar", uint(5), uint(10), uint(1), false).Return(nil)

		result, err := svc.SetManualGrade(Caller{ID: 1, Role: entity.RoleSuperadmin}, 5, 10, 1, false)

		require.NoError(t, err)
		assert.False(t, result.Benar)
	})

	t.Run("MissingResult", func(t *testing.T) {
		hasilRepo := new(MockHasilRepo)
		examRepo := new(MockExamRepo)
		optionRepo := new(MockOptionRepo)
		svc := newTestService(hasilRepo, examRepo, optionRepo)

		hasilRepo.On("Find", uint(5), uint(10), uint(1)).Return(nil, apperrors.ErrNotFound)

		_, err := svc.SetManualGrade(Caller{ID: 3, Role: entity.RoleAdmin}, 5, 10, 1, true)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestRecap(t *testing.T) {
	t.Run("AdminSeesOwnExamsOnly", func(t *testing.T) {
		hasilRepo := new(MockHasilRepo)
		examRepo := new(MockExamRepo)
		optionRepo := new(MockOptionRepo)
		svc := newTestService(hasilRepo, examRepo, optionRepo)

		hasilRepo.On("Recap", uint(3), false).Return([]repository.RecapRow{
			{QuestionID: 1, TipeSoal: entity.QuestionTypeShortAnswer, JawabanText: strPtr("soekarno")},
		}, nil)
		optionRepo.On("AnswerKeyTexts", uint(1)).Return([]string{"Soekarno", "Bung Karno"}, nil)

		rows, err := svc.Recap(Caller{ID: 3, Role: entity.RoleAdmin}, 0)

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "Soekarno, Bung Karno", rows[0].KunciJawabanText)
	})

	t.Run("SuperadminSeesAll", func(t *testing.T) {
		hasilRepo := new(MockHasilRepo)
		examRepo := new(MockExamRepo)
		optionRepo := new(MockOptionRepo)
		svc := newTestService(hasilRepo, examRepo, optionRepo)

		hasilRepo.On("Recap", uint(1), true).Return([]repository.RecapRow{}, nil)

		_, err := svc.Recap(Caller{ID: 1, Role: entity.RoleSuperadmin}, 0)

		require.NoError(t, err)
		hasilRepo.AssertExpectations(t)
	})

	t.Run("SuperadminFiltersByTargetAdmin", func(t *testing.T) {
		hasilRepo := new(MockHasilRepo)
		examRepo := new(MockExamRepo)
		optionRepo := new(MockOptionRepo)
		svc := newTestService(hasilRepo, examRepo, optionRepo)

		hasilRepo.On("Recap", uint(7), false).Return([]repository.RecapRow{}, nil)

		_, err := svc.Recap(Caller{ID: 1, Role: entity.RoleSuperadmin}, 7)

		require.NoError(t, err)
		hasilRepo.AssertExpectations(t)
	})

	t.Run("DocumentRowExpandsFiles", func(t *testing.T) {
		hasilRepo := new(MockHasilRepo)
		examRepo := new(MockExamRepo)
		optionRepo := new(MockOptionRepo)
		svc := newTestService(hasilRepo, examRepo, optionRepo)

		hasilRepo.On("Recap", uint(3), false).Return([]repository.RecapRow{
			{
				QuestionID:  2,
				TipeSoal:    entity.QuestionTypeDocument,
				JawabanText: strPtr(`["/storage/uploads_jawaban/a.pdf","/storage/uploads_jawaban/b.pdf"]`),
			},
		}, nil)
		optionRepo.On("AnswerKeyTexts", uint(2)).Return([]string{}, nil)

		rows, err := svc.Recap(Caller{ID: 3, Role: entity.RoleAdmin}, 0)

		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, []string{"/storage/uploads_jawaban/a.pdf", "/storage/uploads_jawaban/b.pdf"}, rows[0].JawabanFiles)
		assert.Equal(t, "/storage/uploads_jawaban/a.pdf", *rows[0].JawabanText)
	})
}

func TestByPeserta(t *testing.T) {
	t.Run("EmptyResultIsNotFound", func(t *testing.T) {
		hasilRepo := new(MockHasilRepo)
		examRepo := new(MockExamRepo)
		optionRepo := new(MockOptionRepo)
		svc := newTestService(hasilRepo, examRepo, optionRepo)

		hasilRepo.On("ByPeserta", uint(5), uint(3), false).Return([]repository.PesertaResultRow{}, nil)

		_, err := svc.ByPeserta(Caller{ID: 3, Role: entity.RoleAdmin}, 5)

		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("AttachesOptionsAndFiles", func(t *testing.T) {
		hasilRepo := new(MockHasilRepo)
		examRepo := new(MockExamRepo)
		optionRepo := new(MockOptionRepo)
		svc := newTestService(hasilRepo, examRepo, optionRepo)

		hasilRepo.On("ByPeserta", uint(5), uint(3), false).Return([]repository.PesertaResultRow{
			{QuestionID: 1, TipeSoal: entity.QuestionTypeMultipleChoice, JawabanText: strPtr("Jakarta")},
			{QuestionID: 2, TipeSoal: entity.QuestionTypeDocument, JawabanText: strPtr(`["/storage/uploads_jawaban/a.pdf"]`)},
			{QuestionID: 3, TipeSoal: entity.QuestionTypeEssay, JawabanText: strPtr("эссе")},
		}, nil)
		optionRepo.On("GetByQuestionID", uint(1)).Return([]entity.Option{
			{ID: 7, QuestionID: 1, OpsiText: "Jakarta", IsCorrect: true},
			{ID: 8, QuestionID: 1, OpsiText: "Bandung", IsCorrect: false},
		}, nil)

		rows, err := svc.ByPeserta(Caller{ID: 3, Role: entity.RoleAdmin}, 5)

		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Len(t, rows[0].Pilihan, 2)
		assert.Equal(t, []string{"/storage/uploads_jawaban/a.pdf"}, rows[1].JawabanFiles)
		assert.Empty(t, rows[2].Pilihan)
	})
}
