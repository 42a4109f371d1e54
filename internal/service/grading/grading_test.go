package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/exam-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// ============================================================================
// Моки для Engine
// ============================================================================

// MockOptionRepo реализует repository.OptionRepository
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

func strPtr(s string) *string { return &s }

// ============================================================================
// Тесты
// ============================================================================

func TestGrade_MultipleChoice(t *testing.T) {
	jakarta := &entity.Option{ID: 1, QuestionID: 10, OpsiText: "Jakarta", IsCorrect: true}
	bandung := &entity.Option{ID: 2, QuestionID: 10, OpsiText: "Bandung", IsCorrect: false}

	tests := []struct {
		name      string
		answer    *string
		option    *entity.Option
		optionErr error
		wantText  string
		wantBenar bool
	}{
		{
			name:      "правильная опция: текст заменяется, benar=true",
			answer:    strPtr("1"),
			option:    jakarta,
			wantText:  "Jakarta",
			wantBenar: true,
		},
		{
			name:      "неправильная опция: текст заменяется, benar=false",
			answer:    strPtr("2"),
			option:    bandung,
			wantText:  "Bandung",
			wantBenar: false,
		},
		{
			name:      "несуществующий id: сырой текст сохраняется",
			answer:    strPtr("99"),
			optionErr: apperrors.ErrNotFound,
			wantText:  "99",
			wantBenar: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOptionRepo)
			if tt.option != nil {
				repo.On("GetByID", tt.option.ID).Return(tt.option, nil)
			} else if tt.optionErr != nil {
				repo.On("GetByID", mock.Anything).Return(nil, tt.optionErr)
			}

			engine := NewEngine(repo)
			text, benar := engine.Grade(10, entity.QuestionTypeMultipleChoice, tt.answer, nil)

			require.NotNil(t, text)
			assert.Equal(t, tt.wantText, *text)
			assert.Equal(t, tt.wantBenar, benar)
			repo.AssertExpectations(t)
		})
	}
}

func TestGrade_MultipleChoice_EmptyAnswerSkipsLookup(t *testing.T) {
	repo := new(MockOptionRepo)
	engine := NewEngine(repo)

	text, benar := engine.Grade(10, entity.QuestionTypeMultipleChoice, nil, nil)

	assert.Nil(t, text)
	assert.False(t, benar)
	// Пустой ответ не должен ходить в репозиторий
	repo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestGrade_ShortAnswer(t *testing.T) {
	key := &entity.Option{ID: 5, QuestionID: 20, OpsiText: "Soekarno, Bung Karno", IsCorrect: true}

	tests := []struct {
		name      string
		answer    string
		wantBenar bool
	}{
		{"точное совпадение", "Soekarno", true},
		{"синоним с лишними пробелами и регистром", " bung   karno ", true},
		{"несовпадающий ответ", "sukarno", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOptionRepo)
			repo.On("GetAnswerKey", uint(20)).Return(key, nil)

			engine := NewEngine(repo)
			text, benar := engine.Grade(20, entity.QuestionTypeShortAnswer, strPtr(tt.answer), nil)

			require.NotNil(t, text)
			// Текст ответа хранится дословно, как прислал участник
			assert.Equal(t, tt.answer, *text)
			assert.Equal(t, tt.wantBenar, benar)
		})
	}
}

func TestGrade_ShortAnswer_NoAnswerKey(t *testing.T) {
	repo := new(MockOptionRepo)
	repo.On("GetAnswerKey", uint(20)).Return(nil, apperrors.ErrNotFound)

	engine := NewEngine(repo)
	_, benar := engine.Grade(20, entity.QuestionTypeShortAnswer, strPtr("apapun"), nil)

	assert.False(t, benar)
}

func TestGrade_Document(t *testing.T) {
	engine := NewEngine(new(MockOptionRepo))

	t.Run("новые файлы кодируются JSON-массивом", func(t *testing.T) {
		text, benar := engine.Grade(30, entity.QuestionTypeDocument, nil,
			[]string{"/storage/uploads_jawaban/x.pdf"})

		require.NotNil(t, text)
		assert.Equal(t, `["/storage/uploads_jawaban/x.pdf"]`, *text)
		assert.False(t, benar)
	})

	t.Run("без новых файлов прежний ответ удерживается", func(t *testing.T) {
		prev := strPtr(`["/storage/uploads_jawaban/old.pdf"]`)
		text, benar := engine.Grade(30, entity.QuestionTypeDocument, prev, nil)

		assert.Equal(t, prev, text)
		assert.False(t, benar)
	})

	t.Run("черновик без файлов остается nil", func(t *testing.T) {
		text, benar := engine.Grade(30, entity.QuestionTypeDocument, nil, nil)

		assert.Nil(t, text)
		assert.False(t, benar)
	})
}

func TestGrade_Essay(t *testing.T) {
	repo := new(MockOptionRepo)
	engine := NewEngine(repo)

	text, benar := engine.Grade(40, entity.QuestionTypeEssay, strPtr("Jawaban panjang peserta"), nil)

	require.NotNil(t, text)
	assert.Equal(t, "Jawaban panjang peserta", *text)
	assert.False(t, benar)
	repo.AssertNotCalled(t, "GetAnswerKey", mock.Anything)
}

func TestNormalizeAnswer(t *testing.T) {
	assert.Equal(t, "bungkarno", NormalizeAnswer(" Bung   Karno "))
	assert.Equal(t, "soekarno", NormalizeAnswer("SOEKARNO"))
	assert.Equal(t, "", NormalizeAnswer("   "))
	assert.Equal(t, "tabdannewline", NormalizeAnswer("tab\tdan\nnewline"))
}
