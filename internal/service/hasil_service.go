package service

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
	"github.com/yourusername/exam-api/internal/service/grading"
)

// Caller - аутентифицированный администратор, от имени которого выполняется операция.
// Ядро доверяет этой идентичности полностью: аутентификацию выполняет middleware.
type Caller struct {
	ID   uint
	Role string
}

// IsSuperadmin проверяет роль вызывающего
func (c Caller) IsSuperadmin() bool {
	return c.Role == entity.RoleSuperadmin
}

// AnswerInput - один ответ участника в том виде, в котором его присылает фронтенд
type AnswerInput struct {
	QuestionID  uint    `json:"question_id"`
	TipeSoal    string  `json:"tipe_soal"`
	JawabanText *string `json:"jawaban_text"`
}

// Submission - нормализованная отправка ответов (черновик или финал).
// Независимо от транспорта (raw JSON либо multipart с полем data) дальше
// по коду ходит только эта форма.
type Submission struct {
	PesertaID uint          `json:"peserta_id"`
	ExamID    uint          `json:"exam_id"`
	Jawaban   []AnswerInput `json:"jawaban"`
}

// ParseSubmission разбирает тело отправки и проверяет обязательные поля.
// Отсутствие peserta_id, exam_id или пустой список jawaban - ошибка
// ErrIncompleteSubmission, она возвращается ДО открытия транзакции.
func ParseSubmission(raw []byte) (*Submission, error) {
	var sub Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrIncompleteSubmission, err)
	}
	if sub.PesertaID == 0 || sub.ExamID == 0 || len(sub.Jawaban) == 0 {
		return nil, apperrors.ErrIncompleteSubmission
	}
	return &sub, nil
}

// HasilService - ядро записи результатов: нормализация, оценивание,
// транзакционный batch-upsert, ручная корректировка и отчеты
type HasilService struct {
	hasilRepo  repository.HasilRepository
	examRepo   repository.ExamRepository
	optionRepo repository.OptionRepository
	engine     *grading.Engine
	runTx      func(fn func(tx *gorm.DB) error) error
}

// NewHasilService создает новый сервис результатов
func NewHasilService(
	hasilRepo repository.HasilRepository,
	examRepo repository.ExamRepository,
	optionRepo repository.OptionRepository,
	engine *grading.Engine,
	db *gorm.DB,
) *HasilService {
	return &HasilService{
		hasilRepo:  hasilRepo,
		examRepo:   examRepo,
		optionRepo: optionRepo,
		engine:     engine,
		runTx: func(fn func(tx *gorm.DB) error) error {
			return db.Transaction(fn)
		},
	}
}

// SaveDraft сохраняет автосохранение ответов БЕЗ оценивания.
// Все строки пишутся в одной транзакции: либо весь черновик, либо ничего.
// benar всегда false, created_at существующих строк не трогается.
func (s *HasilService) SaveDraft(sub *Submission) error {
	return s.runTx(func(tx *gorm.DB) error {
		for _, j := range sub.Jawaban {
			// Записи без question_id молча пропускаются - это не ошибка
			if j.QuestionID == 0 {
				continue
			}

			result := &entity.ExamResult{
				PesertaID:   sub.PesertaID,
				ExamID:      sub.ExamID,
				QuestionID:  j.QuestionID,
				JawabanText: j.JawabanText,
				Benar:       false,
			}
			if err := s.hasilRepo.Upsert(tx, result, false); err != nil {
				log.Printf("[HasilService] Ошибка upsert черновика peserta=%d exam=%d question=%d: %v",
					sub.PesertaID, sub.ExamID, j.QuestionID, err)
				return err
			}
		}
		return nil
	})
}

// SubmitFinal сохраняет финальную отправку с автоматическим оцениванием.
// uploads - пути уже сохраненных файлов по question_id (поля dokumen_<id>).
// Вся пачка пишется в одной транзакции; любая ошибка откатывает все строки,
// частично оцененная отправка никогда не фиксируется.
func (s *HasilService) SubmitFinal(sub *Submission, uploads map[uint][]string) error {
	return s.runTx(func(tx *gorm.DB) error {
		for _, j := range sub.Jawaban {
			if j.QuestionID == 0 {
				continue
			}

			finalText, benar := s.engine.Grade(j.QuestionID, j.TipeSoal, j.JawabanText, uploads[j.QuestionID])

			result := &entity.ExamResult{
				PesertaID:   sub.PesertaID,
				ExamID:      sub.ExamID,
				QuestionID:  j.QuestionID,
				JawabanText: finalText,
				Benar:       benar,
			}
			// Финальная отправка обновляет created_at: метка = момент оценивания
			if err := s.hasilRepo.Upsert(tx, result, true); err != nil {
				log.Printf("[HasilService] Ошибка upsert финального ответа peserta=%d exam=%d question=%d: %v",
					sub.PesertaID, sub.ExamID, j.QuestionID, err)
				return err
			}
		}
		return nil
	})
}

// SetManualGrade - ручная корректировка флага benar администратором.
// Требует существующей записи и владения экзаменом (либо роли суперадмина).
// Текст ответа и метка времени не изменяются.
func (s *HasilService) SetManualGrade(caller Caller, pesertaID, examID, questionID uint, benar bool) (*entity.ExamResult, error) {
	result, err := s.hasilRepo.Find(pesertaID, examID, questionID)
	if err != nil {
		return nil, err
	}

	exam, err := s.examRepo.GetByID(examID)
	if err != nil {
		return nil, err
	}
	if !caller.IsSuperadmin() && !exam.OwnedBy(caller.ID) {
		return nil, apperrors.ErrForbidden
	}

	if err := s.hasilRepo.UpdateBenar(pesertaID, examID, questionID, benar); err != nil {
		return nil, err
	}

	result.Benar = benar
	return result, nil
}

// Recap возвращает плоский рекап результатов для админской таблицы.
// Не-суперадмин видит только собственные экзамены; суперадмин - все,
// либо одного целевого администратора через targetAdminID.
func (s *HasilService) Recap(caller Caller, targetAdminID uint) ([]repository.RecapRow, error) {
	adminID := caller.ID
	allAdmins := false

	if caller.IsSuperadmin() {
		if targetAdminID != 0 {
			adminID = targetAdminID
		} else {
			allAdmins = true
		}
	}

	rows, err := s.hasilRepo.Recap(adminID, allAdmins)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		row := &rows[i]

		// Для документов разворачиваем JSON-массив путей; первый файл идет превью
		if row.TipeSoal == entity.QuestionTypeDocument {
			files := parseJawabanFiles(row.JawabanText)
			row.JawabanFiles = files
			if len(files) > 0 {
				row.JawabanText = &files[0]
			} else {
				row.JawabanText = nil
			}
		}

		// Ключ ответа прикладывается для справки администратора
		kunci, err := s.optionRepo.AnswerKeyTexts(row.QuestionID)
		if err != nil {
			log.Printf("[HasilService] Ошибка чтения ключа ответа question=%d: %v", row.QuestionID, err)
			continue
		}
		row.KunciJawabanText = strings.Join(kunci, ", ")
	}

	return rows, nil
}

// ByPeserta возвращает детальный отчет по одному участнику.
// Пустой результат - ErrNotFound (404 на HTTP-поверхности).
func (s *HasilService) ByPeserta(caller Caller, pesertaID uint) ([]repository.PesertaResultRow, error) {
	rows, err := s.hasilRepo.ByPeserta(pesertaID, caller.ID, caller.IsSuperadmin())
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrNotFound
	}

	for i := range rows {
		row := &rows[i]
		row.Pilihan = []entity.Option{}

		switch row.TipeSoal {
		case entity.QuestionTypeMultipleChoice, entity.QuestionTypeShortAnswer:
			options, err := s.optionRepo.GetByQuestionID(row.QuestionID)
			if err != nil {
				return nil, err
			}
			row.Pilihan = options
		case entity.QuestionTypeDocument:
			row.JawabanFiles = parseJawabanFiles(row.JawabanText)
		}
	}

	return rows, nil
}

// parseJawabanFiles разбирает jawaban_text как JSON-массив путей файлов.
// Строка старого формата (не-JSON) возвращается одним элементом.
func parseJawabanFiles(text *string) []string {
	if text == nil || *text == "" {
		return nil
	}
	var files []string
	if err := json.Unmarshal([]byte(*text), &files); err == nil {
		return files
	}
	return []string{*text}
}
