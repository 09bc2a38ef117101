package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VerificationSession tracks an identity-verification attempt with the
// third-party provider, keyed by the registration token carried on the
// provider's callback URL
type VerificationSession struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	MemberID  string    `gorm:"column:member_id;type:char(36);index" json:"member_id"`
	Token     string    `gorm:"column:token;uniqueIndex;size:64" json:"-"`
	Status    string    `gorm:"column:status;size:20;default:pending" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (VerificationSession) TableName() string {
	return "verification_sessions"
}

// BeforeCreate assigns a UUID primary key when absent
func (v *VerificationSession) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	return nil
}
