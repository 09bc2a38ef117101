package repository

import (
	"github.com/aurora-society/aurora-backend/internal/domain"
	"gorm.io/gorm"
)

// TwoFactorRepository two-factor code data access
type TwoFactorRepository interface {
	Create(code *domain.TwoFactorCode) error
	FindUnusedByMemberAndCode(memberID, code string) (*domain.TwoFactorCode, error)
	DeleteUnusedByMember(memberID string) error
	MarkUsed(id string) error
	DeleteByMember(memberID string) error
}

type twoFactorRepository struct {
	db *gorm.DB
}

// NewTwoFactorRepository creates a new TwoFactorRepository
func NewTwoFactorRepository(db *gorm.DB) TwoFactorRepository {
	return &twoFactorRepository{db: db}
}

func (r *twoFactorRepository) Create(code *domain.TwoFactorCode) error {
	return r.db.Create(code).Error
}

func (r *twoFactorRepository) FindUnusedByMemberAndCode(memberID, code string) (*domain.TwoFactorCode, error) {
	var tfc domain.TwoFactorCode
	err := r.db.Where("member_id = ? AND code = ? AND used = ?", memberID, code, false).
		First(&tfc).Error
	if err != nil {
		return nil, err
	}
	return &tfc, nil
}

// DeleteUnusedByMember invalidates any prior unused code before a new issue
func (r *twoFactorRepository) DeleteUnusedByMember(memberID string) error {
	return r.db.Where("member_id = ? AND used = ?", memberID, false).
		Delete(&domain.TwoFactorCode{}).Error
}

func (r *twoFactorRepository) MarkUsed(id string) error {
	return r.db.Model(&domain.TwoFactorCode{}).Where("id = ?", id).
		Update("used", true).Error
}

func (r *twoFactorRepository) DeleteByMember(memberID string) error {
	return r.db.Where("member_id = ?", memberID).Delete(&domain.TwoFactorCode{}).Error
}
