package repository

import (
	"github.com/aurora-society/aurora-backend/internal/domain"
	"gorm.io/gorm"
)

// ContactRepository contact message data access
type ContactRepository interface {
	Create(msg *domain.ContactMessage) error
	FindAll(page, limit int) ([]*domain.ContactMessage, int64, error)
}

type contactRepository struct {
	db *gorm.DB
}

// NewContactRepository creates a new ContactRepository
func NewContactRepository(db *gorm.DB) ContactRepository {
	return &contactRepository{db: db}
}

func (r *contactRepository) Create(msg *domain.ContactMessage) error {
	return r.db.Create(msg).Error
}

func (r *contactRepository) FindAll(page, limit int) ([]*domain.ContactMessage, int64, error) {
	var total int64
	if err := r.db.Model(&domain.ContactMessage{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var msgs []*domain.ContactMessage
	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&msgs).Error
	return msgs, total, err
}
