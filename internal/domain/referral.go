package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referral lifecycle status values
const (
	ReferralPending   = "pending"
	ReferralConfirmed = "confirmed"
)

// Referral links a sponsor to a referred member. SponsorApproved is a
// tri-state: nil means awaiting decision, true approved, false rejected.
// A referred member has at most one referral record.
type Referral struct {
	ID                string     `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	SponsorID         string     `gorm:"column:sponsor_id;type:char(36);index" json:"sponsor_id"`
	ReferredID        string     `gorm:"column:referred_id;type:char(36);uniqueIndex" json:"referred_id"`
	ReferralCode      string     `gorm:"column:referral_code;size:32" json:"referral_code"`
	Status            string     `gorm:"column:status;size:20;default:pending" json:"status"`
	SponsorApproved   *bool      `gorm:"column:sponsor_approved" json:"sponsor_approved"`
	RejectionReason   *string    `gorm:"column:rejection_reason;size:500" json:"rejection_reason,omitempty"`
	SponsorApprovedAt *time.Time `gorm:"column:sponsor_approved_at" json:"sponsor_approved_at,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Referral) TableName() string {
	return "referrals"
}

// BeforeCreate assigns a UUID primary key when absent
func (r *Referral) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// ReferralResponse a referral with the referred member's profile card
type ReferralResponse struct {
	ID               string         `json:"id"`
	ReferralCode     string         `json:"referral_code"`
	Status           string         `json:"status"`
	SponsorApproved  *bool          `json:"sponsor_approved"`
	RejectionReason  *string        `json:"rejection_reason,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	ReferredProfile  *MemberSummary `json:"referred_profile,omitempty"`
	SponsorProfile   *MemberSummary `json:"sponsor_profile,omitempty"`
}
