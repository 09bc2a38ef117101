package repository

import (
	"github.com/aurora-society/aurora-backend/internal/domain"
	"gorm.io/gorm"
)

// ReferralLinkRepository shareable referral link data access
type ReferralLinkRepository interface {
	Create(link *domain.ReferralLink) error
	FindByID(id string) (*domain.ReferralLink, error)
	FindByLinkCode(code string) (*domain.ReferralLink, error)
	FindBySponsorID(sponsorID string) ([]*domain.ReferralLink, error)
	IncrementClicks(id string) error
	IncrementRegistrations(id string) error
	Deactivate(id string) error
	DeleteBySponsorID(sponsorID string) error
}

type referralLinkRepository struct {
	db *gorm.DB
}

// NewReferralLinkRepository creates a new ReferralLinkRepository
func NewReferralLinkRepository(db *gorm.DB) ReferralLinkRepository {
	return &referralLinkRepository{db: db}
}

func (r *referralLinkRepository) Create(link *domain.ReferralLink) error {
	return r.db.Create(link).Error
}

func (r *referralLinkRepository) FindByID(id string) (*domain.ReferralLink, error) {
	var link domain.ReferralLink
	err := r.db.Where("id = ?", id).First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *referralLinkRepository) FindByLinkCode(code string) (*domain.ReferralLink, error) {
	var link domain.ReferralLink
	err := r.db.Where("link_code = ?", code).First(&link).Error
	if err != nil {
		return nil, err
	}
	return &link, nil
}

func (r *referralLinkRepository) FindBySponsorID(sponsorID string) ([]*domain.ReferralLink, error) {
	var links []*domain.ReferralLink
	err := r.db.Where("sponsor_id = ?", sponsorID).Order("created_at DESC").Find(&links).Error
	return links, err
}

func (r *referralLinkRepository) IncrementClicks(id string) error {
	return r.db.Model(&domain.ReferralLink{}).Where("id = ?", id).
		UpdateColumn("click_count", gorm.Expr("click_count + 1")).Error
}

func (r *referralLinkRepository) IncrementRegistrations(id string) error {
	return r.db.Model(&domain.ReferralLink{}).Where("id = ?", id).
		UpdateColumn("registration_count", gorm.Expr("registration_count + 1")).Error
}

func (r *referralLinkRepository) Deactivate(id string) error {
	return r.db.Model(&domain.ReferralLink{}).Where("id = ?", id).
		Update("is_active", false).Error
}

func (r *referralLinkRepository) DeleteBySponsorID(sponsorID string) error {
	return r.db.Where("sponsor_id = ?", sponsorID).Delete(&domain.ReferralLink{}).Error
}
