package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TwoFactorCode a single-use 6-digit login code. At most one unused code
// exists per member; issuing a new one deletes the previous.
type TwoFactorCode struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	MemberID  string    `gorm:"column:member_id;type:char(36);index" json:"member_id"`
	Code      string    `gorm:"column:code;size:6" json:"-"`
	Used      bool      `gorm:"column:used;default:false" json:"used"`
	ExpiresAt time.Time `gorm:"column:expires_at" json:"expires_at"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (TwoFactorCode) TableName() string {
	return "two_factor_codes"
}

// BeforeCreate assigns a UUID primary key when absent
func (c *TwoFactorCode) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
