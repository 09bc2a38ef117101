package repository

import (
	"time"

	"github.com/aurora-society/aurora-backend/internal/domain"
	"gorm.io/gorm"
)

// MemberRepository member data access interface
type MemberRepository interface {
	// Read operations
	FindByID(id string) (*domain.Member, error)
	FindByEmail(email string) (*domain.Member, error)
	FindByReferralCode(code string) (*domain.Member, error)
	FindSummariesByIDs(ids []string) (map[string]*domain.MemberSummary, error)

	// Write operations
	Create(member *domain.Member) error
	Update(member *domain.Member) error
	UpdateFields(id string, fields map[string]interface{}) error
	UpdateLoginTime(id string) error
	Delete(id string) error

	// Validation operations
	ExistsByEmail(email string) (bool, error)
	ExistsByReferralCode(code string) (bool, error)

	// Listing operations
	FindActive(page, limit int, keyword string) ([]*domain.Member, int64, error)
	FindAll(page, limit int, keyword string) ([]*domain.Member, int64, error)
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new MemberRepository
func NewMemberRepository(db *gorm.DB) MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) FindByID(id string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.Where("id = ?", id).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) FindByEmail(email string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.Where("email = ?", email).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *memberRepository) FindByReferralCode(code string) (*domain.Member, error) {
	var member domain.Member
	err := r.db.Where("referral_code = ?", code).First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

// FindSummariesByIDs resolves profile cards for a set of member ids
func (r *memberRepository) FindSummariesByIDs(ids []string) (map[string]*domain.MemberSummary, error) {
	if len(ids) == 0 {
		return map[string]*domain.MemberSummary{}, nil
	}
	var members []*domain.Member
	if err := r.db.Where("id IN ?", ids).Find(&members).Error; err != nil {
		return nil, err
	}
	result := make(map[string]*domain.MemberSummary, len(members))
	for _, m := range members {
		result[m.ID] = m.ToSummary()
	}
	return result, nil
}

func (r *memberRepository) Create(member *domain.Member) error {
	member.CreatedAt = time.Now()
	return r.db.Create(member).Error
}

func (r *memberRepository) Update(member *domain.Member) error {
	return r.db.Save(member).Error
}

func (r *memberRepository) UpdateFields(id string, fields map[string]interface{}) error {
	return r.db.Model(&domain.Member{}).Where("id = ?", id).Updates(fields).Error
}

func (r *memberRepository) UpdateLoginTime(id string) error {
	now := time.Now()
	return r.db.Model(&domain.Member{}).Where("id = ?", id).Update("last_login_at", now).Error
}

func (r *memberRepository) Delete(id string) error {
	return r.db.Where("id = ?", id).Delete(&domain.Member{}).Error
}

func (r *memberRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Member{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *memberRepository) ExistsByReferralCode(code string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Member{}).Where("referral_code = ?", code).Count(&count).Error
	return count > 0, err
}

// FindActive lists approved, active members for the members directory
func (r *memberRepository) FindActive(page, limit int, keyword string) ([]*domain.Member, int64, error) {
	return r.list(r.db.Model(&domain.Member{}).Where("is_active = ?", true), page, limit, keyword)
}

// FindAll lists every member for the admin back-office
func (r *memberRepository) FindAll(page, limit int, keyword string) ([]*domain.Member, int64, error) {
	return r.list(r.db.Model(&domain.Member{}), page, limit, keyword)
}

func (r *memberRepository) list(query *gorm.DB, page, limit int, keyword string) ([]*domain.Member, int64, error) {
	if keyword != "" {
		like := "%" + keyword + "%"
		query = query.Where("first_name LIKE ? OR last_name LIKE ? OR username LIKE ? OR email LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []*domain.Member
	offset := (page - 1) * limit
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&members).Error; err != nil {
		return nil, 0, err
	}
	return members, total, nil
}
