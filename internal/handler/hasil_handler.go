package handler

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
	"github.com/yourusername/exam-api/internal/service"
	"github.com/yourusername/exam-api/internal/storage"
)

// HasilHandler обрабатывает запись и чтение результатов экзаменов
type HasilHandler struct {
	hasilService *service.HasilService
	files        storage.FileStorage
}

// NewHasilHandler создает новый обработчик результатов
func NewHasilHandler(hasilService *service.HasilService, files storage.FileStorage) *HasilHandler {
	return &HasilHandler{
		hasilService: hasilService,
		files:        files,
	}
}

// readSubmission нормализует тело запроса в service.Submission.
// Принимаются два транспорта: чистый JSON и multipart с полем data,
// содержащим тот же JSON. Семантика дальше одинаковая.
func (h *HasilHandler) readSubmission(c *gin.Context) (*service.Submission, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		data := c.PostForm("data")
		if data == "" {
			return nil, apperrors.ErrIncompleteSubmission
		}
		return service.ParseSubmission([]byte(data))
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	return service.ParseSubmission(raw)
}

// saveUploads сохраняет файловые части dokumen_<questionID> на диск.
// Ошибка сохранения одного файла не валит отправку: ответ деградирует
// до сохранения предыдущего текста (пустой список путей для вопроса).
func (h *HasilHandler) saveUploads(c *gin.Context, sub *service.Submission) map[uint][]string {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return nil
	}
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}

	uploads := make(map[uint][]string)
	for _, j := range sub.Jawaban {
		if j.QuestionID == 0 {
			continue
		}
		fileHeaders := form.File[fmt.Sprintf("dokumen_%d", j.QuestionID)]
		for _, fh := range fileHeaders {
			src, err := fh.Open()
			if err != nil {
				log.Printf("[HasilHandler] Ошибка открытия файла %s: %v", fh.Filename, err)
				continue
			}
			path, err := h.files.Save(storage.DirJawaban, fh.Filename, src)
			src.Close()
			if err != nil {
				log.Printf("[HasilHandler] Ошибка сохранения файла %s: %v", fh.Filename, err)
				continue
			}
			uploads[j.QuestionID] = append(uploads[j.QuestionID], path)
		}
	}
	return uploads
}

// SaveDraft обрабатывает автосохранение ответов без оценивания
func (h *HasilHandler) SaveDraft(c *gin.Context) {
	sub, err := h.readSubmission(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if err := h.hasilService.SaveDraft(sub); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Draft tersimpan"})
}

// Submit обрабатывает финальную отправку с оцениванием
func (h *HasilHandler) Submit(c *gin.Context) {
	sub, err := h.readSubmission(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	uploads := h.saveUploads(c, sub)

	if err := h.hasilService.SubmitFinal(sub, uploads); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Jawaban berhasil disimpan"})
}

// Recap возвращает сводную таблицу результатов для администратора
func (h *HasilHandler) Recap(c *gin.Context) {
	caller := callerFrom(c)

	var targetAdminID uint
	if v := c.Query("target_admin_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target_admin_id"})
			return
		}
		targetAdminID = uint(id)
	}

	rows, err := h.hasilService.Recap(caller, targetAdminID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// ByPeserta возвращает детальный результат одного участника
func (h *HasilHandler) ByPeserta(c *gin.Context) {
	caller := callerFrom(c)
	pesertaID := c.MustGet("pesertaID").(uint)

	rows, err := h.hasilService.ByPeserta(caller, pesertaID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// ManualGradeRequest представляет запрос ручной корректировки оценки
type ManualGradeRequest struct {
	PesertaID  uint  `json:"peserta_id" binding:"required"`
	ExamID     uint  `json:"exam_id" binding:"required"`
	QuestionID uint  `json:"question_id" binding:"required"`
	Benar      *bool `json:"benar" binding:"required"`
}

// ManualGrade устанавливает флаг правильности ответа вручную
func (h *HasilHandler) ManualGrade(c *gin.Context) {
	var req ManualGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.hasilService.SetManualGrade(callerFrom(c), req.PesertaID, req.ExamID, req.QuestionID, *req.Benar)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Nilai berhasil diperbarui", "data": result})
}
