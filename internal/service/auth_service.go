package service

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
	"github.com/yourusername/exam-api/pkg/auth"
)

// AdminLogin - результат успешного входа администратора
type AdminLogin struct {
	Token string        `json:"token"`
	Admin *entity.Admin `json:"admin"`
}

// AuthService проводит аутентификацию администраторов
type AuthService struct {
	adminRepo  repository.AdminRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации
func NewAuthService(adminRepo repository.AdminRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		adminRepo:  adminRepo,
		jwtService: jwtService,
	}
}

// Login проверяет учетные данные (email либо username) и выдает JWT.
// Неверный идентификатор и неверный пароль неразличимы для клиента.
func (s *AuthService) Login(identifier, password string) (*AdminLogin, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, fmt.Errorf("%w: username dan password wajib diisi", apperrors.ErrValidation)
	}

	admin, err := s.adminRepo.GetByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if !admin.IsActive {
		log.Printf("[AuthService] Отклонен вход деактивированного администратора id=%d", admin.ID)
		return nil, apperrors.ErrForbidden
	}
	if !admin.CheckPassword(password) {
		return nil, apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		log.Printf("[AuthService] Ошибка генерации токена для admin=%d: %v", admin.ID, err)
		return nil, err
	}

	return &AdminLogin{Token: token, Admin: admin}, nil
}

// Me возвращает профиль текущего администратора
func (s *AuthService) Me(adminID uint) (*entity.Admin, error) {
	return s.adminRepo.GetByID(adminID)
}
