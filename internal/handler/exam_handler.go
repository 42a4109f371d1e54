package handler

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
	"github.com/yourusername/exam-api/internal/service"
	"github.com/yourusername/exam-api/internal/storage"
)

// ExamHandler обрабатывает запросы, связанные с экзаменами
type ExamHandler struct {
	examService *service.ExamService
	files       storage.FileStorage
}

// NewExamHandler создает новый обработчик экзаменов
func NewExamHandler(examService *service.ExamService, files storage.FileStorage) *ExamHandler {
	return &ExamHandler{
		examService: examService,
		files:       files,
	}
}

// readExamInput нормализует тело запроса в service.ExamInput.
// Как и при отправке ответов, принимаются два транспорта: чистый JSON
// и multipart с полем data (когда вопросы несут картинки).
func (h *ExamHandler) readExamInput(c *gin.Context) (*service.ExamInput, error) {
	var input service.ExamInput
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		data := c.PostForm("data")
		if data == "" {
			return nil, fmt.Errorf("%w: поле data отсутствует", apperrors.ErrValidation)
		}
		if err := json.Unmarshal([]byte(data), &input); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		return &input, nil
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return &input, nil
}

// attachImages сохраняет файловые части gambar_<index> (index - позиция
// вопроса в отправленном наборе) и подставляет путь в вопрос. Без файла
// вопрос сохраняет путь, пришедший в JSON (gambar не перезагружают при
// каждом редактировании). Ошибка сохранения одного файла не валит запрос.
func (h *ExamHandler) attachImages(c *gin.Context, input *service.ExamInput) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return
	}
	form, err := c.MultipartForm()
	if err != nil {
		return
	}

	for i := range input.Soal {
		fileHeaders := form.File[fmt.Sprintf("gambar_%d", i)]
		if len(fileHeaders) == 0 {
			continue
		}
		fh := fileHeaders[0]
		src, err := fh.Open()
		if err != nil {
			log.Printf("[ExamHandler] Ошибка открытия файла %s: %v", fh.Filename, err)
			continue
		}
		path, err := h.files.Save(storage.DirGambar, fh.Filename, src)
		src.Close()
		if err != nil {
			log.Printf("[ExamHandler] Ошибка сохранения файла %s: %v", fh.Filename, err)
			continue
		}
		input.Soal[i].Gambar = &path
	}
}

// Create обрабатывает создание экзамена с вопросами
func (h *ExamHandler) Create(c *gin.Context) {
	input, err := h.readExamInput(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.attachImages(c, input)

	exam, err := h.examService.Create(callerFrom(c), input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Ujian berhasil dibuat", "data": exam})
}

// Update синхронизирует экзамен с отправленным набором вопросов
func (h *ExamHandler) Update(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	input, err := h.readExamInput(c)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.attachImages(c, input)

	exam, err := h.examService.Update(callerFrom(c), examID, input)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ujian berhasil diperbarui", "data": exam})
}

// List возвращает экзамены администратора
func (h *ExamHandler) List(c *gin.Context) {
	var targetAdminID uint
	if v := c.Query("target_admin_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid target_admin_id"})
			return
		}
		targetAdminID = uint(id)
	}

	exams, err := h.examService.List(callerFrom(c), targetAdminID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": exams})
}

// Get возвращает экзамен с вопросами и ключами ответов
func (h *ExamHandler) Get(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	exam, err := h.examService.Get(callerFrom(c), examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": exam})
}

// GetPublic возвращает экзамен для участника, без ключей ответов
func (h *ExamHandler) GetPublic(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	exam, err := h.examService.GetPublic(examID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": exam})
}

// CheckActive сообщает, открыт ли экзамен в данный момент
func (h *ExamHandler) CheckActive(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	exam, reason, err := h.examService.CheckActive(examID, time.Now())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if reason != "" {
		c.JSON(http.StatusForbidden, gin.H{"active": false, "message": reason})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": true, "data": exam})
}

// Delete архивирует экзамен
func (h *ExamHandler) Delete(c *gin.Context) {
	examID := c.MustGet("examID").(uint)

	if err := h.examService.Delete(callerFrom(c), examID); err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ujian berhasil dihapus"})
}
