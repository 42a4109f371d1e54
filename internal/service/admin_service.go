package service

import (
	"fmt"
	"strings"

	"github.com/yourusername/exam-api/internal/domain/entity"
	"github.com/yourusername/exam-api/internal/domain/repository"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// AdminService управляет учетными записями администраторов.
// Все мутации, кроме смены собственного пароля, доступны только суперадмину;
// роль проверяется в middleware, сервис повторяет проверки, влияющие на данные.
type AdminService struct {
	adminRepo repository.AdminRepository
}

// NewAdminService создает новый сервис управления администраторами
func NewAdminService(adminRepo repository.AdminRepository) *AdminService {
	return &AdminService{adminRepo: adminRepo}
}

// List возвращает все учетные записи администраторов
func (s *AdminService) List() ([]entity.Admin, error) {
	return s.adminRepo.List()
}

// Create регистрирует нового администратора
func (s *AdminService) Create(username, email, password, role string) (*entity.Admin, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || password == "" {
		return nil, fmt.Errorf("%w: username, email dan password wajib diisi", apperrors.ErrValidation)
	}
	if role != entity.RoleAdmin && role != entity.RoleSuperadmin {
		role = entity.RoleAdmin
	}

	if existing, err := s.adminRepo.GetByIdentifier(email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email %s sudah terdaftar", apperrors.ErrConflict, email)
	}

	admin := &entity.Admin{
		Username: username,
		Email:    email,
		Role:     role,
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		return nil, err
	}
	if err := s.adminRepo.Create(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// Delete удаляет администратора. Самоудаление запрещено: в системе
// всегда остается хотя бы один действующий суперадмин.
func (s *AdminService) Delete(caller Caller, id uint) error {
	if caller.ID == id {
		return fmt.Errorf("%w: tidak dapat menghapus akun sendiri", apperrors.ErrValidation)
	}
	return s.adminRepo.Delete(id)
}

// UpdateRole изменяет роль администратора
func (s *AdminService) UpdateRole(caller Caller, id uint, role string) (*entity.Admin, error) {
	if role != entity.RoleAdmin && role != entity.RoleSuperadmin {
		return nil, fmt.Errorf("%w: role tidak dikenal", apperrors.ErrValidation)
	}
	if caller.ID == id && role != entity.RoleSuperadmin {
		return nil, fmt.Errorf("%w: tidak dapat menurunkan role sendiri", apperrors.ErrValidation)
	}

	admin, err := s.adminRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	admin.Role = role
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// UpdateUsername изменяет имя пользователя администратора
func (s *AdminService) UpdateUsername(id uint, username string) (*entity.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("%w: username wajib diisi", apperrors.ErrValidation)
	}

	admin, err := s.adminRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	admin.Username = username
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// ToggleActive включает либо выключает учетную запись.
// Деактивация собственной записи запрещена.
func (s *AdminService) ToggleActive(caller Caller, id uint) (*entity.Admin, error) {
	if caller.ID == id {
		return nil, fmt.Errorf("%w: tidak dapat menonaktifkan akun sendiri", apperrors.ErrValidation)
	}

	admin, err := s.adminRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	admin.IsActive = !admin.IsActive
	if err := s.adminRepo.Update(admin); err != nil {
		return nil, err
	}
	return admin, nil
}

// ChangePassword меняет пароль текущего администратора после проверки старого
func (s *AdminService) ChangePassword(caller Caller, oldPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return fmt.Errorf("%w: password baru minimal 6 karakter", apperrors.ErrValidation)
	}

	admin, err := s.adminRepo.GetByID(caller.ID)
	if err != nil {
		return err
	}
	if !admin.CheckPassword(oldPassword) {
		return apperrors.ErrUnauthorized
	}
	if err := admin.SetPassword(newPassword); err != nil {
		return err
	}
	return s.adminRepo.Update(admin)
}
