package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactMessage a contact-form submission relayed to staff by mail
type ContactMessage struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"column:name;size:150" json:"name"`
	Email     string    `gorm:"column:email;size:255" json:"email"`
	Phone     string    `gorm:"column:phone;size:30" json:"phone,omitempty"`
	Category  string    `gorm:"column:category;size:50" json:"category"`
	Message   string    `gorm:"column:message;type:text" json:"message"`
	Status    string    `gorm:"column:status;size:20;default:new" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (ContactMessage) TableName() string {
	return "contact_messages"
}

// BeforeCreate assigns a UUID primary key when absent
func (c *ContactMessage) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
