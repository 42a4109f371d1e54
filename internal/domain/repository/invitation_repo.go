package repository

import (
	"github.com/yourusername/exam-api/internal/domain/entity"
)

// InvitationRepository определяет методы для работы с приглашениями
type InvitationRepository interface {
	Create(inv *entity.Invitation) error
	GetByID(id uint) (*entity.Invitation, error)
	GetByEmailAndCode(email, code string) (*entity.Invitation, error)
	CodeExists(code string) (bool, error)
	// IncrementLoginCount атомарно увеличивает счетчик входов
	IncrementLoginCount(id uint) error
	ListByAdmin(adminID uint, limit int) ([]entity.Invitation, error)
	Delete(id uint) error
}
