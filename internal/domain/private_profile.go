package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PrivateProfile sensitive member fields kept apart from the public profile
type PrivateProfile struct {
	ID             string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	MemberID       string    `gorm:"column:member_id;type:char(36);uniqueIndex" json:"member_id"`
	MobileNumber   string    `gorm:"column:mobile_number;size:30" json:"mobile_number,omitempty"`
	WealthAmount   *float64  `gorm:"column:wealth_amount" json:"wealth_amount,omitempty"`
	WealthCurrency string    `gorm:"column:wealth_currency;size:10" json:"wealth_currency,omitempty"`
	WealthUnit     string    `gorm:"column:wealth_unit;size:20" json:"wealth_unit,omitempty"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (PrivateProfile) TableName() string {
	return "private_profiles"
}

// BeforeCreate assigns a UUID primary key when absent
func (p *PrivateProfile) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
