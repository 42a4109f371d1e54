package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"strings"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

const (
	loginCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789" // без O/0 и I/1
	loginCodeLength   = 6
	codeRetryLimit    = 10
)

// InviteResult - итог рассылки одного приглашения
type InviteResult struct {
	Email     string `json:"email"`
	LoginCode string `json:"login_code,omitempty"`
	Sent      bool   `json:"sent"`
	Error     string `json:"error,omitempty"`
}

// InviteLogin - данные участника после входа по коду приглашения
type InviteLogin struct {
	Peserta    *entity.Peserta    `json:"peserta"`
	Exam       *entity.Exam       `json:"exam"`
	Invitation *entity.Invitation `json:"invitation"`
}

// InviteService рассылает приглашения и проводит вход участников по коду
type InviteService struct {
	inviteRepo   repository.InvitationRepository
	pesertaRepo  repository.PesertaRepository
	examRepo     repository.ExamRepository
	settingsRepo repository.SettingsRepository
	mailer       Mailer
}

// NewInviteService создает новый сервис приглашений
func NewInviteService(
	inviteRepo repository.InvitationRepository,
	pesertaRepo repository.PesertaRepository,
	examRepo repository.ExamRepository,
	settingsRepo repository.SettingsRepository,
	mailer Mailer,
) *InviteService {
	return &InviteService{
		inviteRepo:   inviteRepo,
		pesertaRepo:  pesertaRepo,
		examRepo:     examRepo,
		settingsRepo: settingsRepo,
		mailer:       mailer,
	}
}

// generateLoginCode создает уникальный код входа. Коллизии по уникальному
// индексу редки, но проверяются явно с ограниченным числом попыток.
func (s *InviteService) generateLoginCode() (string, error) {
	for attempt := 0; attempt < codeRetryLimit; attempt++ {
		var sb strings.Builder
		for i := 0; i < loginCodeLength; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(loginCodeAlphabet))))
			if err != nil {
				return "", err
			}
			sb.WriteByte(loginCodeAlphabet[n.Int64()])
		}
		code := sb.String()

		exists, err := s.inviteRepo.CodeExists(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", fmt.Errorf("login code space exhausted after %d attempts", codeRetryLimit)
}

// mailerConfigFor собирает конфигурацию отправки из smtp_settings администратора
func (s *InviteService) mailerConfigFor(adminID uint) (MailerConfig, error) {
	setting, err := s.settingsRepo.GetSmtpByUser(adminID)
	if err != nil {
		return MailerConfig{}, err
	}
	if !setting.Configured() {
		return MailerConfig{}, fmt.Errorf("%w: pengaturan SMTP belum lengkap", apperrors.ErrValidation)
	}
	return MailerConfig{
		Host:     setting.Host,
		Port:     setting.Port,
		Secure:   setting.Secure,
		Username: setting.AuthUser,
		Password: setting.AuthPass,
		FromName: setting.FromName,
	}, nil
}

// Invite создает приглашения на экзамен и рассылает коды по почте.
// Ошибка одного адресата не прерывает остальных: каждый email
// обрабатывается независимо, результат возвращается поимённо.
func (s *InviteService) Invite(caller Caller, examID uint, emails []string, maxLogins int) ([]InviteResult, error) {
	exam, err := s.examRepo.GetActiveByID(examID)
	if err != nil {
		return nil, err
	}
	if !caller.IsSuperadmin() && !exam.OwnedBy(caller.ID) {
		return nil, apperrors.ErrForbidden
	}
	if len(emails) == 0 {
		return nil, fmt.Errorf("%w: daftar email kosong", apperrors.ErrValidation)
	}
	if maxLogins <= 0 {
		maxLogins = 1
	}

	cfg, err := s.mailerConfigFor(caller.ID)
	if err != nil {
		return nil, err
	}

	results := make([]InviteResult, 0, len(emails))
	for _, email := range emails {
		email = strings.TrimSpace(strings.ToLower(email))
		if email == "" {
			continue
		}
		results = append(results, s.inviteOne(caller.ID, exam, email, maxLogins, cfg))
	}
	return results, nil
}

func (s *InviteService) inviteOne(adminID uint, exam *entity.Exam, email string, maxLogins int, cfg MailerConfig) InviteResult {
	code, err := s.generateLoginCode()
	if err != nil {
		log.Printf("[InviteService] Ошибка генерации кода для %s: %v", email, err)
		return InviteResult{Email: email, Error: err.Error()}
	}

	inv := &entity.Invitation{
		Email:     email,
		ExamID:    exam.ID,
		LoginCode: code,
		MaxLogins: maxLogins,
		AdminID:   adminID,
	}
	if err := s.inviteRepo.Create(inv); err != nil {
		log.Printf("[InviteService] Ошибка сохранения приглашения для %s: %v", email, err)
		return InviteResult{Email: email, Error: err.Error()}
	}

	// Участник создается заранее, чтобы вход по коду не требовал регистрации
	if _, err := s.pesertaRepo.GetByEmail(email); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			peserta := &entity.Peserta{Nama: email, Email: email, Password: code}
			if err := s.pesertaRepo.Create(peserta); err != nil {
				log.Printf("[InviteService] Ошибка создания peserta %s: %v", email, err)
			}
		}
	}

	subject := fmt.Sprintf("Undangan Ujian: %s", exam.Keterangan)
	body := fmt.Sprintf(
		"<p>Anda diundang mengikuti ujian <strong>%s</strong>.</p>"+
			"<p>Tanggal: %s s/d %s, pukul %s - %s.</p>"+
			"<p>Kode login Anda: <strong>%s</strong></p>",
		exam.Keterangan, exam.Tanggal, exam.TanggalBerakhir, exam.JamMulai, exam.JamBerakhir, code,
	)
	if err := s.mailer.Send(cfg, email, subject, body); err != nil {
		return InviteResult{Email: email, LoginCode: code, Error: err.Error()}
	}

	return InviteResult{Email: email, LoginCode: code, Sent: true}
}

// Login проводит вход участника по email и коду приглашения.
// Квота входов проверяется до инкремента; исчерпанная квота - ErrLoginQuotaExceeded.
func (s *InviteService) Login(email, code string) (*InviteLogin, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	code = strings.TrimSpace(strings.ToUpper(code))
	if email == "" || code == "" {
		return nil, fmt.Errorf("%w: email dan kode login wajib diisi", apperrors.ErrValidation)
	}

	inv, err := s.inviteRepo.GetByEmailAndCode(email, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if inv.QuotaExhausted() {
		return nil, apperrors.ErrLoginQuotaExceeded
	}

	exam, err := s.examRepo.GetActiveByID(inv.ExamID)
	if err != nil {
		return nil, err
	}

	peserta, err := s.pesertaRepo.GetByEmail(email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		peserta = &entity.Peserta{Nama: email, Email: email, Password: code}
		if err := s.pesertaRepo.Create(peserta); err != nil {
			return nil, err
		}
	}

	if err := s.inviteRepo.IncrementLoginCount(inv.ID); err != nil {
		return nil, err
	}
	inv.LoginCount++

	return &InviteLogin{Peserta: peserta, Exam: exam, Invitation: inv}, nil
}

// List возвращает приглашения администратора (новые сверху)
func (s *InviteService) List(caller Caller, limit int) ([]entity.Invitation, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.inviteRepo.ListByAdmin(caller.ID, limit)
}

// Delete удаляет приглашение. Только владелец либо суперадмин.
func (s *InviteService) Delete(caller Caller, id uint) error {
	inv, err := s.inviteRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !caller.IsSuperadmin() && inv.AdminID != caller.ID {
		return apperrors.ErrForbidden
	}
	return s.inviteRepo.Delete(id)
}
