package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/exam-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// MockResetRepo - мок репозитория запросов на сброс пароля
type MockResetRepo struct {
	mock.Mock
}

func (m *MockResetRepo) Create(req *entity.PasswordResetRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

func (m *MockResetRepo) GetByID(id uint) (*entity.PasswordResetRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PasswordResetRequest), args.Error(1)
}

func (m *MockResetRepo) List() ([]entity.PasswordResetRequest, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.PasswordResetRequest), args.Error(1)
}

func (m *MockResetRepo) Update(req *entity.PasswordResetRequest) error {
	args := m.Called(req)
	return args.Error(0)
}

func newResetFixture() (*MockResetRepo, *MockAdminRepo, *MockSettingsRepo, *MockMailer, *ResetService) {
	resetRepo := new(MockResetRepo)
	adminRepo := new(MockAdminRepo)
	settingsRepo := new(MockSettingsRepo)
	mailer := new(MockMailer)
	svc := NewResetService(resetRepo, adminRepo, settingsRepo, mailer)
	return resetRepo, adminRepo, settingsRepo, mailer, svc
}

func TestResetRequest(t *testing.T) {
	resetRepo, _, _, _, svc := newResetFixture()

	resetRepo.On("Create", mock.MatchedBy(func(r *entity.PasswordResetRequest) bool {
		return r.Email == "guru@example.com" && r.Status == entity.ResetStatusPending
	})).Return(nil)

	req, err := svc.Request(" Guru@Example.com ", "guru", "0812", "lupa password")

	require.NoError(t, err)
	assert.Equal(t, entity.ResetStatusPending, req.Status)
}

func TestResetApprove(t *testing.T) {
	t.Run("ReplacesPasswordAndMailsIt", func(t *testing.T) {
		resetRepo, adminRepo, settingsRepo, mailer, svc := newResetFixture()

		admin := activeAdmin(t, "lama12345")
		resetRepo.On("GetByID", uint(1)).Return(&entity.PasswordResetRequest{
			ID: 1, Email: "guru@example.com", Status: entity.ResetStatusPending,
		}, nil)
		adminRepo.On("GetByIdentifier", "guru@example.com").Return(admin, nil)
		adminRepo.On("Update", admin).Return(nil)
		resetRepo.On("Update", mock.MatchedBy(func(r *entity.PasswordResetRequest) bool {
			return r.Status == entity.ResetStatusApproved
		})).Return(nil)
		settingsRepo.On("GetSmtpByUser", uint(9)).Return(configuredSmtp(), nil)
		mailer.On("Send", mock.Anything, "guru@example.com", mock.Anything, mock.Anything).Return(nil)

		req, err := svc.Approve(Caller{ID: 9, Role: entity.RoleSuperadmin}, 1)

		require.NoError(t, err)
		assert.Equal(t, entity.ResetStatusApproved, req.Status)
		// Старый пароль больше не действует
		assert.False(t, admin.CheckPassword("lama12345"))
		mailer.AssertExpectations(t)
	})

	t.Run("UnknownAccountRejected", func(t *testing.T) {
		resetRepo, adminRepo, _, _, svc := newResetFixture()

		resetRepo.On("GetByID", uint(1)).Return(&entity.PasswordResetRequest{
			ID: 1, Email: "hantu@example.com", Status: entity.ResetStatusPending,
		}, nil)
		adminRepo.On("GetByIdentifier", "hantu@example.com").Return(nil, apperrors.ErrNotFound)

		_, err := svc.Approve(Caller{ID: 9, Role: entity.RoleSuperadmin}, 1)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})

	t.Run("AlreadyProcessedRejected", func(t *testing.T) {
		resetRepo, adminRepo, _, _, svc := newResetFixture()

		resetRepo.On("GetByID", uint(1)).Return(&entity.PasswordResetRequest{
			ID: 1, Status: entity.ResetStatusApproved,
		}, nil)

		_, err := svc.Approve(Caller{ID: 9, Role: entity.RoleSuperadmin}, 1)

		assert.ErrorIs(t, err, apperrors.ErrValidation)
		adminRepo.AssertNotCalled(t, "GetByIdentifier", mock.Anything)
	})
}

func TestResetReject(t *testing.T) {
	resetRepo, adminRepo, _, _, svc := newResetFixture()

	resetRepo.On("GetByID", uint(1)).Return(&entity.PasswordResetRequest{
		ID: 1, Email: "guru@example.com", Status: entity.ResetStatusPending,
	}, nil)
	resetRepo.On("Update", mock.MatchedBy(func(r *entity.PasswordResetRequest) bool {
		return r.Status == entity.ResetStatusRejected
	})).Return(nil)

	req, err := svc.Reject(1)

	require.NoError(t, err)
	assert.Equal(t, entity.ResetStatusRejected, req.Status)
	// Учетная запись не трогается
	adminRepo.AssertNotCalled(t, "Update", mock.Anything)
}
