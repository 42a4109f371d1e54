package repository

import (
	"github.com/yourusername/exam-api/internal/domain/entity"
)

// AdminRepository определяет методы для работы с учетными записями администраторов
type AdminRepository interface {
	Create(admin *entity.Admin) error
	GetByID(id uint) (*entity.Admin, error)
	// GetByIdentifier ищет администратора по email либо username
	GetByIdentifier(identifier string) (*entity.Admin, error)
	List() ([]entity.Admin, error)
	Update(admin *entity.Admin) error
	Delete(id uint) error
}

// PesertaRepository определяет методы для работы с участниками
type PesertaRepository interface {
	Create(peserta *entity.Peserta) error
	GetByID(id uint) (*entity.Peserta, error)
	GetByEmail(email string) (*entity.Peserta, error)
	List() ([]entity.Peserta, error)
	Update(peserta *entity.Peserta) error
	Delete(id uint) error
}
