package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReferralLink a shareable wrapper around a sponsor's referral code with
// tracking metadata. Links are deactivated, never required to be deleted.
type ReferralLink struct {
	ID                string     `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	SponsorID         string     `gorm:"column:sponsor_id;type:char(36);index" json:"sponsor_id"`
	ReferralCode      string     `gorm:"column:referral_code;size:32" json:"referral_code"`
	LinkCode          string     `gorm:"column:link_code;uniqueIndex;size:40" json:"link_code"`
	LinkName          string     `gorm:"column:link_name;size:150" json:"link_name,omitempty"`
	IsFamilyLink      bool       `gorm:"column:is_family_link;default:false" json:"is_family_link"`
	IsActive          bool       `gorm:"column:is_active;default:true" json:"is_active"`
	ClickCount        int        `gorm:"column:click_count;default:0" json:"click_count"`
	RegistrationCount int        `gorm:"column:registration_count;default:0" json:"registration_count"`
	ExpiresAt         *time.Time `gorm:"column:expires_at" json:"expires_at,omitempty"`
	CreatedAt         time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt         time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (ReferralLink) TableName() string {
	return "referral_links"
}

// BeforeCreate assigns a UUID primary key when absent
func (l *ReferralLink) BeforeCreate(*gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// Expired reports whether the link is past its optional expiry
func (l *ReferralLink) Expired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}
