package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// AdminRepo реализует repository.AdminRepository
type AdminRepo struct {
	db *gorm.DB
}

// NewAdminRepo создает новый репозиторий администраторов
func NewAdminRepo(db *gorm.DB) *AdminRepo {
	return &AdminRepo{db: db}
}

// Create создает нового администратора
func (r *AdminRepo) Create(admin *entity.Admin) error {
	return r.db.Create(admin).Error
}

// GetByID возвращает администратора по ID
func (r *AdminRepo) GetByID(id uint) (*entity.Admin, error) {
	var admin entity.Admin
	err := r.db.First(&admin, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// GetByIdentifier ищет администратора по email либо username.
// Фронтенд шлет оба варианта в одном поле.
func (r *AdminRepo) GetByIdentifier(identifier string) (*entity.Admin, error) {
	var admin entity.Admin
	err := r.db.Where("email = ? OR username = ?", identifier, identifier).
		First(&admin).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &admin, nil
}

// List возвращает всех администраторов, новые первыми
func (r *AdminRepo) List() ([]entity.Admin, error) {
	var admins []entity.Admin
	err := r.db.Order("created_at DESC").Find(&admins).Error
	return admins, err
}

// Update сохраняет изменения администратора
func (r *AdminRepo) Update(admin *entity.Admin) error {
	return r.db.Save(admin).Error
}

// Delete удаляет администратора
func (r *AdminRepo) Delete(id uint) error {
	res := r.db.Delete(&entity.Admin{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
