package repository

import (
	"github.com/aurora-society/aurora-backend/internal/domain"
	"gorm.io/gorm"
)

// LinkedAccountRepository linked (dependent) account data access
type LinkedAccountRepository interface {
	Create(account *domain.LinkedAccount) error
	FindBySponsorID(sponsorID string) ([]*domain.LinkedAccount, error)
	FindByLinkedMemberID(memberID string) (*domain.LinkedAccount, error)
	DeleteForMember(memberID string) error
}

type linkedAccountRepository struct {
	db *gorm.DB
}

// NewLinkedAccountRepository creates a new LinkedAccountRepository
func NewLinkedAccountRepository(db *gorm.DB) LinkedAccountRepository {
	return &linkedAccountRepository{db: db}
}

func (r *linkedAccountRepository) Create(account *domain.LinkedAccount) error {
	return r.db.Create(account).Error
}

func (r *linkedAccountRepository) FindBySponsorID(sponsorID string) ([]*domain.LinkedAccount, error) {
	var accounts []*domain.LinkedAccount
	err := r.db.Where("sponsor_id = ?", sponsorID).Order("created_at DESC").Find(&accounts).Error
	return accounts, err
}

func (r *linkedAccountRepository) FindByLinkedMemberID(memberID string) (*domain.LinkedAccount, error) {
	var account domain.LinkedAccount
	err := r.db.Where("linked_member_id = ?", memberID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *linkedAccountRepository) DeleteForMember(memberID string) error {
	return r.db.Where("sponsor_id = ? OR linked_member_id = ?", memberID, memberID).
		Delete(&domain.LinkedAccount{}).Error
}
