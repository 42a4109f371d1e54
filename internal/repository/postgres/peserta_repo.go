package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/exam-api/internal/domain/entity"
	apperrors "github.com/yourusername/exam-api/internal/pkg/errors"
)

// PesertaRepo реализует repository.PesertaRepository
type PesertaRepo struct {
	db *gorm.DB
}

// NewPesertaRepo создает новый репозиторий участников
func NewPesertaRepo(db *gorm.DB) *PesertaRepo {
	return &PesertaRepo{db: db}
}

// Create создает нового участника
func (r *PesertaRepo) Create(peserta *entity.Peserta) error {
	return r.db.Create(peserta).Error
}

// GetByID возвращает участника по ID
func (r *PesertaRepo) GetByID(id uint) (*entity.Peserta, error) {
	var peserta entity.Peserta
	err := r.db.First(&peserta, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &peserta, nil
}

// GetByEmail возвращает участника по email
func (r *PesertaRepo) GetByEmail(email string) (*entity.Peserta, error) {
	var peserta entity.Peserta
	err := r.db.Where("email = ?", email).First(&peserta).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &peserta, nil
}

// List возвращает всех участников, новые первыми
func (r *PesertaRepo) List() ([]entity.Peserta, error) {
	var peserta []entity.Peserta
	err := r.db.Order("created_at DESC").Find(&peserta).Error
	return peserta, err
}

// Update сохраняет изменения участника
func (r *PesertaRepo) Update(peserta *entity.Peserta) error {
	return r.db.Save(peserta).Error
}

// Delete удаляет участника
func (r *PesertaRepo) Delete(id uint) error {
	res := r.db.Delete(&entity.Peserta{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
