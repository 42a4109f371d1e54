package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// InvitationRepo реализует repository.InvitationRepository
type InvitationRepo struct {
	db *gorm.DB
}

// NewInvitationRepo создает новый репозиторий приглашений
func NewInvitationRepo(db *gorm.DB) *InvitationRepo {
	return &InvitationRepo{db: db}
}

// Create создает новое приглашение
func (r *InvitationRepo) Create(inv *entity.Invitation) error {
	return r.db.Create(inv).Error
}

// GetByID возвращает приглашение по ID
func (r *InvitationRepo) GetByID(id uint) (*entity.Invitation, error) {
	var inv entity.Invitation
	err := r.db.First(&inv, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// GetByEmailAndCode возвращает приглашение по паре email + код входа
func (r *InvitationRepo) GetByEmailAndCode(email, code string) (*entity.Invitation, error) {
	var inv entity.Invitation
	err := r.db.Where("email = ? AND login_code = ?", email, code).First(&inv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// CodeExists проверяет, занят ли код входа
func (r *InvitationRepo) CodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Invitation{}).Where("login_code = ?", code).Count(&count).Error
	return count > 0, err
}

// IncrementLoginCount атомарно увеличивает счетчик входов.
// Инкремент выполняется на стороне БД, гонка двух одновременных входов не теряет счет.
func (r *InvitationRepo) IncrementLoginCount(id uint) error {
	return r.db.Model(&entity.Invitation{}).
		Where("id = ?", id).
		UpdateColumn("login_count", gorm.Expr("login_count + 1")).Error
}

// ListByAdmin возвращает приглашения администратора, новые первыми
func (r *InvitationRepo) ListByAdmin(adminID uint, limit int) ([]entity.Invitation, error) {
	var invitations []entity.Invitation
	err := r.db.Preload("Exam").
		Where("admin_id = ?", adminID).
		Order("created_at DESC").
		Limit(limit).
		Find(&invitations).Error
	return invitations, err
}

// Delete удаляет приглашение
func (r *InvitationRepo) Delete(id uint) error {
	res := r.db.Delete(&entity.Invitation{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
