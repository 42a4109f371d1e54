package grading

import (
	"encoding/json"
	"log"
	"strconv"
	"strings"
	"unicode"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
)

// Engine решает, верен ли ответ участника, по правилам типа вопроса.
// Варианты ответов читаются через repository.OptionRepository, запись не выполняется никогда.
type Engine struct {
	options repository.OptionRepository
}

// NewEngine создает новый движок оценивания
func NewEngine(options repository.OptionRepository) *Engine {
	return &Engine{options: options}
}

// Grade оценивает один ответ на вопрос questionID.
//
// Возвращает итоговый текст ответа (он может отличаться от присланного:
// для pilihanGanda id опции заменяется текстом опции, для soalDokumen ответом
// становится JSON-массив путей загруженных файлов) и флаг корректности.
//
// Неразрешимый id опции или отсутствующий ключ ответа НЕ являются ошибкой:
// ответ деградирует до benar=false. Это политика оценивания, а не сбой.
func (e *Engine) Grade(questionID uint, tipeSoal string, jawabanText *string, uploadedPaths []string) (*string, bool) {
	switch tipeSoal {
	case entity.QuestionTypeDocument:
		return e.gradeDocument(jawabanText, uploadedPaths)
	case entity.QuestionTypeMultipleChoice:
		return e.gradeMultipleChoice(jawabanText)
	case entity.QuestionTypeShortAnswer:
		return e.gradeShortAnswer(questionID, jawabanText)
	default:
		// essay и неизвестные типы: текст хранится дословно, оценка только ручная
		return jawabanText, false
	}
}

// gradeDocument сохраняет пути новых файлов либо удерживает прежний ответ.
// Отправка без новых файлов не затирает файл, сохраненный черновиком ранее.
// Документы всегда benar=false: их проверяет человек.
func (e *Engine) gradeDocument(jawabanText *string, uploadedPaths []string) (*string, bool) {
	if len(uploadedPaths) == 0 {
		return jawabanText, false
	}
	encoded, err := json.Marshal(uploadedPaths)
	if err != nil {
		// Массив строк не может не сериализоваться, но деградируем на всякий случай
		log.Printf("[GradingEngine] Не удалось сериализовать пути файлов: %v", err)
		return jawabanText, false
	}
	text := string(encoded)
	return &text, false
}

// gradeMultipleChoice трактует ответ как id опции.
// Найденная опция дает ее is_correct, а текст ответа заменяется текстом опции -
// намеренная денормализация, чтобы таблица результатов читалась без join к options.
func (e *Engine) gradeMultipleChoice(jawabanText *string) (*string, bool) {
	if jawabanText == nil || *jawabanText == "" {
		return jawabanText, false
	}

	optionID, err := strconv.Atoi(strings.TrimSpace(*jawabanText))
	if err != nil || optionID <= 0 {
		return jawabanText, false
	}

	option, err := e.options.GetByID(uint(optionID))
	if err != nil {
		// Опция не нашлась: сохраняем сырой текст, benar=false
		return jawabanText, false
	}

	text := option.OpsiText
	return &text, option.IsCorrect
}

// gradeShortAnswer сравнивает нормализованный ответ с каждым принятым токеном ключа.
// Ключ хранится одной опцией: синонимы через запятую ("Soekarno, Bung Karno").
func (e *Engine) gradeShortAnswer(questionID uint, jawabanText *string) (*string, bool) {
	if jawabanText == nil || *jawabanText == "" {
		return jawabanText, false
	}

	key, err := e.options.GetAnswerKey(questionID)
	if err != nil {
		// Ключ ответа не задан: оценить нечем
		return jawabanText, false
	}

	userAnswer := NormalizeAnswer(*jawabanText)
	for _, accepted := range strings.Split(key.OpsiText, ",") {
		if userAnswer == NormalizeAnswer(accepted) {
			return jawabanText, true
		}
	}
	return jawabanText, false
}

// NormalizeAnswer приводит ответ к канонической форме для сравнения:
// нижний регистр, все пробельные символы удалены.
func NormalizeAnswer(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
