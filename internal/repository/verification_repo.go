package repository

import (
	"time"

	"github.com/aurora-society/aurora-backend/internal/domain"
	"gorm.io/gorm"
)

// VerificationRepository identity-verification session data access
type VerificationRepository interface {
	Create(session *domain.VerificationSession) error
	FindByToken(token string) (*domain.VerificationSession, error)
	UpdateStatusByToken(token, status string) error
	DeleteByMember(memberID string) error
}

type verificationRepository struct {
	db *gorm.DB
}

// NewVerificationRepository creates a new VerificationRepository
func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) Create(session *domain.VerificationSession) error {
	return r.db.Create(session).Error
}

func (r *verificationRepository) FindByToken(token string) (*domain.VerificationSession, error) {
	var session domain.VerificationSession
	err := r.db.Where("token = ?", token).First(&session).Error
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *verificationRepository) UpdateStatusByToken(token, status string) error {
	return r.db.Model(&domain.VerificationSession{}).Where("token = ?", token).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()}).Error
}

func (r *verificationRepository) DeleteByMember(memberID string) error {
	return r.db.Where("member_id = ?", memberID).Delete(&domain.VerificationSession{}).Error
}
