package repository

import (
	"github.com/aurora-society/aurora-backend/internal/domain"
	"gorm.io/gorm"
)

// PrivateProfileRepository private profile data access
type PrivateProfileRepository interface {
	Create(profile *domain.PrivateProfile) error
	FindByMemberID(memberID string) (*domain.PrivateProfile, error)
	Update(profile *domain.PrivateProfile) error
	DeleteByMemberID(memberID string) error
}

type privateProfileRepository struct {
	db *gorm.DB
}

// NewPrivateProfileRepository creates a new PrivateProfileRepository
func NewPrivateProfileRepository(db *gorm.DB) PrivateProfileRepository {
	return &privateProfileRepository{db: db}
}

func (r *privateProfileRepository) Create(profile *domain.PrivateProfile) error {
	return r.db.Create(profile).Error
}

func (r *privateProfileRepository) FindByMemberID(memberID string) (*domain.PrivateProfile, error) {
	var profile domain.PrivateProfile
	err := r.db.Where("member_id = ?", memberID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *privateProfileRepository) Update(profile *domain.PrivateProfile) error {
	return r.db.Save(profile).Error
}

func (r *privateProfileRepository) DeleteByMemberID(memberID string) error {
	return r.db.Where("member_id = ?", memberID).Delete(&domain.PrivateProfile{}).Error
}
