package service

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// ImportSummary - итог импорта участников из Excel
type ImportSummary struct {
	Created int      `json:"created"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors,omitempty"`
}

// PesertaService управляет участниками экзаменов
type PesertaService struct {
	pesertaRepo repository.PesertaRepository
}

// NewPesertaService создает новый сервис участников
func NewPesertaService(pesertaRepo repository.PesertaRepository) *PesertaService {
	return &PesertaService{pesertaRepo: pesertaRepo}
}

// List возвращает всех участников
func (s *PesertaService) List() ([]entity.Peserta, error) {
	return s.pesertaRepo.List()
}

// Get возвращает участника по ID
func (s *PesertaService) Get(id uint) (*entity.Peserta, error) {
	return s.pesertaRepo.GetByID(id)
}

// Create регистрирует нового участника
func (s *PesertaService) Create(nama, nohp, email, password string) (*entity.Peserta, error) {
	nama = strings.TrimSpace(nama)
	email = strings.TrimSpace(strings.ToLower(email))
	if nama == "" || email == "" {
		return nil, fmt.Errorf("%w: nama dan email wajib diisi", apperrors.ErrValidation)
	}

	if existing, err := s.pesertaRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email %s sudah terdaftar", apperrors.ErrConflict, email)
	}

	peserta := &entity.Peserta{
		Nama:     nama,
		Nohp:     strings.TrimSpace(nohp),
		Email:    email,
		Password: password,
	}
	if err := s.pesertaRepo.Create(peserta); err != nil {
		return nil, err
	}
	return peserta, nil
}

// Update изменяет данные участника
func (s *PesertaService) Update(id uint, nama, nohp, email string) (*entity.Peserta, error) {
	peserta, err := s.pesertaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if nama = strings.TrimSpace(nama); nama != "" {
		peserta.Nama = nama
	}
	if nohp = strings.TrimSpace(nohp); nohp != "" {
		peserta.Nohp = nohp
	}
	if email = strings.TrimSpace(strings.ToLower(email)); email != "" {
		peserta.Email = email
	}

	if err := s.pesertaRepo.Update(peserta); err != nil {
		return nil, err
	}
	return peserta, nil
}

// Delete удаляет участника
func (s *PesertaService) Delete(id uint) error {
	return s.pesertaRepo.Delete(id)
}

// Import читает участников из xlsx: колонки Nama | Nohp | Email,
// первая строка - заголовок. Уже существующие email пропускаются,
// некорректные строки не прерывают импорт.
func (s *PesertaService) Import(r io.Reader) (*ImportSummary, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: file bukan xlsx yang valid", apperrors.ErrValidation)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%w: file tidak berisi data peserta", apperrors.ErrValidation)
	}

	summary := &ImportSummary{}
	for i, row := range rows[1:] {
		rowNum := i + 2
		if len(row) < 3 {
			summary.Errors = append(summary.Errors, fmt.Sprintf("baris %d: kolom tidak lengkap", rowNum))
			continue
		}

		nama := strings.TrimSpace(row[0])
		nohp := strings.TrimSpace(row[1])
		email := strings.TrimSpace(strings.ToLower(row[2]))
		if nama == "" || email == "" {
			summary.Errors = append(summary.Errors, fmt.Sprintf("baris %d: nama/email kosong", rowNum))
			continue
		}

		if _, err := s.pesertaRepo.GetByEmail(email); err == nil {
			summary.Skipped++
			continue
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}

		peserta := &entity.Peserta{Nama: nama, Nohp: nohp, Email: email}
		if err := s.pesertaRepo.Create(peserta); err != nil {
			log.Printf("[PesertaService] Ошибка импорта строки %d (%s): %v", rowNum, email, err)
			summary.Errors = append(summary.Errors, fmt.Sprintf("baris %d: %v", rowNum, err))
			continue
		}
		summary.Created++
	}

	return summary, nil
}

// Export выгружает всех участников в xlsx
func (s *PesertaService) Export() (*bytes.Buffer, error) {
	peserta, err := s.pesertaRepo.List()
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	headers := []string{"Nama", "No HP", "Email"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, p := range peserta {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), p.Nama)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), p.Nohp)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), p.Email)
	}

	return f.WriteToBuffer()
}
