package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/exam-api/internal/service"
)

// PesertaHandler обрабатывает запросы, связанные с участниками
type PesertaHandler struct {
	pesertaService *service.PesertaService
}

// NewPesertaHandler создает новый обработчик участников
func NewPesertaHandler(pesertaService *service.PesertaService) *PesertaHandler {
	return &PesertaHandler{pesertaService: pesertaService}
}

// PesertaRequest представляет данные участника при создании/изменении
type PesertaRequest struct {
	Nama     string `json:"nama"`
	Nohp     string `json:"nohp"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// List возвращает всех участников
func (h *PesertaHandler) List(c *gin.Context) {
	peserta, err := h.pesertaService.List()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": peserta})
}

// Get возвращает участника по ID
func (h *PesertaHandler) Get(c *gin.Context) {
	pesertaID := c.MustGet("pesertaID").(uint)

	peserta, err := h.pesertaService.Get(pesertaID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": peserta})
}

// Create регистрирует нового участника
func (h *PesertaHandler) Create(c *gin.Context) {
	var req PesertaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	peserta, err := h.pesertaService.Create(req.Nama, req.Nohp, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Peserta berhasil dibuat", "data": peserta})
}

// Update изменяет данные участника
func (h *PesertaHandler) Update(c *gin.Context) {
	pesertaID := c.MustGet("pesertaID").(uint)

	var req PesertaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	peserta, err := h.pesertaService.Update(pesertaID, req.Nama, req.Nohp, req.Email)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Peserta berhasil diperbarui", "data": peserta})
}

// Delete удаляет участника
func (h *PesertaHandler) Delete(c *gin.Context) {
	pesertaID := c.MustGet("pesertaID").(uint)

	if err := h.pesertaService.Delete(pesertaID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Peserta berhasil dihapus"})
}

// Import загружает участников из xlsx-файла (поле file)
func (h *PesertaHandler) Import(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File xlsx wajib diunggah"})
		return
	}

	src, err := fh.Open()
	if err != nil {
		handleServiceError(c, err)
		return
	}
	defer src.Close()

	summary, err := h.pesertaService.Import(src)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Import selesai", "data": summary})
}

// Export выгружает всех участников в xlsx
func (h *PesertaHandler) Export(c *gin.Context) {
	buf, err := h.pesertaService.Export()
	if err != nil {
		handleServiceError(c, err)
		return
	}

	filename := fmt.Sprintf("peserta_%s.xlsx", time.Now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
