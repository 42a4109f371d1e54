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

const newPasswordLength = 10

// ResetService обрабатывает запросы администраторов на сброс пароля.
// Самообслуживания нет: запрос одобряет суперадмин, новый пароль
// генерируется сервером и уходит на почту заявителя.
type ResetService struct {
	resetRepo    repository.ResetRepository
	adminRepo    repository.AdminRepository
	settingsRepo repository.SettingsRepository
	mailer       Mailer
}

// NewResetService создает новый сервис сброса паролей
func NewResetService(
	resetRepo repository.ResetRepository,
	adminRepo repository.AdminRepository,
	settingsRepo repository.SettingsRepository,
	mailer Mailer,
) *ResetService {
	return &ResetService{
		resetRepo:    resetRepo,
		adminRepo:    adminRepo,
		settingsRepo: settingsRepo,
		mailer:       mailer,
	}
}

// Request регистрирует заявку на сброс. Существование учетной записи
// не раскрывается: заявка принимается для любого email.
func (s *ResetService) Request(email, username, whatsapp, reason string) (*entity.PasswordResetRequest, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email wajib diisi", apperrors.ErrValidation)
	}

	req := &entity.PasswordResetRequest{
		Email:    email,
		Username: strings.TrimSpace(username),
		Whatsapp: strings.TrimSpace(whatsapp),
		Reason:   strings.TrimSpace(reason),
		Status:   entity.ResetStatusPending,
	}
	if err := s.resetRepo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// List возвращает все заявки (новые сверху решает репозиторий)
func (s *ResetService) List() ([]entity.PasswordResetRequest, error) {
	return s.resetRepo.List()
}

// Approve одобряет заявку: пароль заявителя заменяется сгенерированным
// и отправляется письмом через SMTP-настройки одобряющего суперадмина.
// Заявка на несуществующий email отклоняется как некорректная.
func (s *ResetService) Approve(caller Caller, requestID uint) (*entity.PasswordResetRequest, error) {
	req, err := s.resetRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != entity.ResetStatusPending {
		return nil, fmt.Errorf("%w: permintaan sudah diproses", apperrors.ErrValidation)
	}

	admin, err := s.adminRepo.GetByIdentifier(req.Email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: akun dengan email tersebut tidak ditemukan", apperrors.ErrValidation)
		}
		return nil, err
	}

	newPassword, err := generatePassword(newPasswordLength)
	if err != nil {
		return nil, err
	}
	if err := admin.SetPassword(newPassword); err != nil {
		return nil, err
	}
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}

	req.Status = entity.ResetStatusApproved
	if err := s.resetRepo.Update(req); err != nil {
		return nil, err
	}

	// Письмо не критично: пароль уже сменен, ошибку лишь логируем
	if err := s.sendNewPassword(caller.ID, admin, newPassword); err != nil {
		log.Printf("[ResetService] Ошибка отправки нового пароля на %s: %v", admin.Email, err)
	}

	return req, nil
}

// Reject отклоняет заявку без изменений учетной записи
func (s *ResetService) Reject(requestID uint) (*entity.PasswordResetRequest, error) {
	req, err := s.resetRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != entity.ResetStatusPending {
		return nil, fmt.Errorf("%w: permintaan sudah diproses", apperrors.ErrValidation)
	}

	req.Status = entity.ResetStatusRejected
	if err := s.resetRepo.Update(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (s *ResetService) sendNewPassword(approverID uint, admin *entity.Admin, newPassword string) error {
	setting, err := s.settingsRepo.GetSmtpByUser(approverID)
	if err != nil {
		return err
	}
	if !setting.Configured() {
		return fmt.Errorf("smtp settings are incomplete")
	}

	cfg := MailerConfig{
		Host:     setting.Host,
		Port:     setting.Port,
		Secure:   setting.Secure,
		Username: setting.AuthUser,
		Password: setting.AuthPass,
		FromName: setting.FromName,
	}
	body := fmt.Sprintf(
		"<p>Permintaan reset password Anda telah disetujui.</p>"+
			"<p>Password baru: <strong>%s</strong></p>"+
			"<p>Segera ganti password setelah login.</p>",
		newPassword,
	)
	return s.mailer.Send(cfg, admin.Email, "Password Baru Akun Admin", body)
}

func generatePassword(length int) (string, error) {
	const alphabet = "abcdefghijkmnpqrstuvwxyzABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(alphabet[n.Int64()])
	}
	return sb.String(), nil
}
