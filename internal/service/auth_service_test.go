package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/exam-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
	"github.com/yourusername/exam-api/pkg/auth"
)

// MockAdminRepo - мок репозитория администраторов
type MockAdminRepo struct {
	mock.Mock
}

func (m *MockAdminRepo) Create(admin *entity.Admin) error {
	args := m.Called(admin)
	return args.Error(0)
}

func (m *MockAdminRepo) GetByID(id uint) (*entity.Admin, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Admin), args.Error(1)
}

func (m *MockAdminRepo) GetByIdentifier(identifier string) (*entity.Admin, error) {
	args := m.Called(identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Admin), args.Error(1)
}

func (m *MockAdminRepo) List() ([]entity.Admin, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Admin), args.Error(1)
}

func (m *MockAdminRepo) Update(admin *entity.Admin) error {
	args := m.Called(admin)
	return args.Error(0)
}

func (m *MockAdminRepo) Delete(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func testJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)
	return jwtService
}

func activeAdmin(t *testing.T, password string) *entity.Admin {
	t.Helper()
	admin := &entity.Admin{
		ID:       3,
		Username: "guru",
		Email:    "guru@example.com",
		Role:     entity.RoleAdmin,
		IsActive: true,
	}
	require.NoError(t, admin.SetPassword(password))
	return admin
}

func TestAdminLogin(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		svc := NewAuthService(adminRepo, testJWTService(t))

		adminRepo.On("GetByIdentifier", "guru").Return(activeAdmin(t, "rahasia123"), nil)

		login, err := svc.Login("guru", "rahasia123")

		require.NoError(t, err)
		assert.NotEmpty(t, login.Token)
		assert.Equal(t, uint(3), login.Admin.ID)

		// Выданный токен обязан проходить обратную проверку
		claims, err := testJWTService(t).ParseToken(login.Token)
		require.NoError(t, err)
		assert.Equal(t, uint(3), claims.UserID)
		assert.Equal(t, entity.RoleAdmin, claims.Role)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		svc := NewAuthService(adminRepo, testJWTService(t))

		adminRepo.On("GetByIdentifier", "guru").Return(activeAdmin(t, "rahasia123"), nil)

		_, err := svc.Login("guru", "salah")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("UnknownIdentifierIndistinguishable", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		svc := NewAuthService(adminRepo, testJWTService(t))

		adminRepo.On("GetByIdentifier", "hantu").Return(nil, apperrors.ErrNotFound)

		_, err := svc.Login("hantu", "apapun")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	})

	t.Run("DeactivatedAccountForbidden", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		svc := NewAuthService(adminRepo, testJWTService(t))

		admin := activeAdmin(t, "rahasia123")
		admin.IsActive = false
		adminRepo.On("GetByIdentifier", "guru").Return(admin, nil)

		_, err := svc.Login("guru", "rahasia123")

		assert.ErrorIs(t, err, apperrors.ErrForbidden)
	})
}

func TestAdminService(t *testing.T) {
	t.Run("CreateHashesPassword", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		svc := NewAdminService(adminRepo)

		adminRepo.On("GetByIdentifier", "guru@example.com").Return(nil, apperrors.ErrNotFound)
		adminRepo.On("Create", mock.MatchedBy(func(a *entity.Admin) bool {
			return a.Username == "guru" && a.Password != "rahasia123" && a.CheckPassword("rahasia123")
		})).Return(nil)

		admin, err := svc.Create("guru", "Guru@Example.com", "rahasia123", "bukan-role")

		require.NoError(t, err)
		assert.Equal(t, "guru@example.com", admin.Email)
		// Неизвестная роль понижается до обычного администратора
		assert.Equal(t, entity.RoleAdmin, admin.Role)
	})

	t.Run("CreateDuplicateEmailRejected", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		svc := NewAdminService(adminRepo)

		adminRepo.On("GetByIdentifier", "guru@example.com").Return(activeAdmin(t, "rahasia123"), nil)

		_, err := svc.Create("guru", "guru@example.com", "rahasia123", entity.RoleAdmin)

		assert.ErrorIs(t, err, apperrors.ErrConflict)
		adminRepo.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("SelfDeleteRejected", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		svc := NewAdminService(adminRepo)

		err := svc.Delete(Caller{ID: 3, Role: entity.RoleSuperadmin}, 3)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		adminRepo.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("SelfDemotionRejected", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		svc := NewAdminService(adminRepo)

		_, err := svc.UpdateRole(Caller{ID: 3, Role: entity.RoleSuperadmin}, 3, entity.RoleAdmin)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("ToggleActive", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		svc := NewAdminService(adminRepo)

		adminRepo.On("GetByID", uint(7)).Return(&entity.Admin{ID: 7, IsActive: true}, nil)
		adminRepo.On("Update", mock.MatchedBy(func(a *entity.Admin) bool {
			return a.ID == 7 && !a.IsActive
		})).Return(nil)

		admin, err := svc.ToggleActive(Caller{ID: 3, Role: entity.RoleSuperadmin}, 7)

		require.NoError(t, err)
		assert.False(t, admin.IsActive)
	})

	t.Run("ChangePasswordRequiresOldPassword", func(t *testing.T) {
		adminRepo := new(MockAdminRepo)
		svc := NewAdminService(adminRepo)

		adminRepo.On("GetByID", uint(3)).Return(activeAdmin(t, "rahasia123"), nil)

		err := svc.ChangePassword(Caller{ID: 3}, "salah", "barubanget")

		assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
		adminRepo.AssertNotCalled(t, "Update", mock.Anything)
	})
}
