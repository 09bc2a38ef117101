package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LinkedAccount a dependent account created under a family-type referral
// link, pointing back to the sponsoring member
type LinkedAccount struct {
	ID             string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	SponsorID      string    `gorm:"column:sponsor_id;type:char(36);index" json:"sponsor_id"`
	LinkedMemberID string    `gorm:"column:linked_member_id;type:char(36);uniqueIndex" json:"linked_member_id"`
	RelationType   string    `gorm:"column:relation_type;size:50;default:family" json:"relation_type"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

func (LinkedAccount) TableName() string {
	return "linked_accounts"
}

// BeforeCreate assigns a UUID primary key when absent
func (a *LinkedAccount) BeforeCreate(*gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
