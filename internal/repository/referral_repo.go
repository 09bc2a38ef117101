package repository

import (
	"github.com/aurora-society/aurora-backend/internal/domain"
	"gorm.io/gorm"
)

// ReferralRepository referral (sponsorship) record data access
type ReferralRepository interface {
	Create(referral *domain.Referral) error
	FindByID(id string) (*domain.Referral, error)
	FindByReferredID(referredID string) (*domain.Referral, error)
	FindBySponsorID(sponsorID string) ([]*domain.Referral, error)
	Update(referral *domain.Referral) error
	FindAll(page, limit int, approvalState string) ([]*domain.Referral, int64, error)
	DeleteForMember(memberID string) error
}

type referralRepository struct {
	db *gorm.DB
}

// NewReferralRepository creates a new ReferralRepository
func NewReferralRepository(db *gorm.DB) ReferralRepository {
	return &referralRepository{db: db}
}

func (r *referralRepository) Create(referral *domain.Referral) error {
	return r.db.Create(referral).Error
}

func (r *referralRepository) FindByID(id string) (*domain.Referral, error) {
	var referral domain.Referral
	err := r.db.Where("id = ?", id).First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *referralRepository) FindByReferredID(referredID string) (*domain.Referral, error) {
	var referral domain.Referral
	err := r.db.Where("referred_id = ?", referredID).First(&referral).Error
	if err != nil {
		return nil, err
	}
	return &referral, nil
}

func (r *referralRepository) FindBySponsorID(sponsorID string) ([]*domain.Referral, error) {
	var referrals []*domain.Referral
	err := r.db.Where("sponsor_id = ?", sponsorID).Order("created_at DESC").Find(&referrals).Error
	return referrals, err
}

func (r *referralRepository) Update(referral *domain.Referral) error {
	return r.db.Save(referral).Error
}

// FindAll lists referrals for the admin back-office, optionally filtered by
// approval state: "pending", "approved" or "rejected"
func (r *referralRepository) FindAll(page, limit int, approvalState string) ([]*domain.Referral, int64, error) {
	query := r.db.Model(&domain.Referral{})
	switch approvalState {
	case "pending":
		query = query.Where("sponsor_approved IS NULL")
	case "approved":
		query = query.Where("sponsor_approved = ?", true)
	case "rejected":
		query = query.Where("sponsor_approved = ?", false)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var referrals []*domain.Referral
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&referrals).Error; err != nil {
		return nil, 0, err
	}
	return referrals, total, nil
}

// DeleteForMember removes referral rows where the member appears on either side
func (r *referralRepository) DeleteForMember(memberID string) error {
	return r.db.Where("sponsor_id = ? OR referred_id = ?", memberID, memberID).
		Delete(&domain.Referral{}).Error
}
