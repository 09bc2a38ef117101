package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation a message thread with N members
type Conversation struct {
	ID        string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Title     string    `gorm:"column:title;size:200" json:"title,omitempty"`
	Type      string    `gorm:"column:type;size:20;default:direct" json:"type"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;index" json:"updated_at"`
}

func (Conversation) TableName() string {
	return "conversations"
}

// BeforeCreate assigns a UUID primary key when absent
func (c *Conversation) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}

// ConversationMember membership row tying a member to a conversation
type ConversationMember struct {
	ID             string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	ConversationID string    `gorm:"column:conversation_id;type:char(36);index:idx_conv_member,unique" json:"conversation_id"`
	MemberID       string    `gorm:"column:member_id;type:char(36);index:idx_conv_member,unique" json:"member_id"`
	JoinedAt       time.Time `gorm:"column:joined_at" json:"joined_at"`
}

func (ConversationMember) TableName() string {
	return "conversation_members"
}

// BeforeCreate assigns a UUID primary key when absent
func (m *ConversationMember) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// Message belongs to one conversation and one sender. Rows are insert-only
// from the application's perspective; delete is a hard row delete.
type Message struct {
	ID             string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	ConversationID string    `gorm:"column:conversation_id;type:char(36);index" json:"conversation_id"`
	SenderID       string    `gorm:"column:sender_id;type:char(36);index" json:"sender_id"`
	Content        string    `gorm:"column:content;type:text" json:"content"`
	IsRead         bool      `gorm:"column:is_read;default:false" json:"is_read"`
	CreatedAt      time.Time `gorm:"column:created_at;index" json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// BeforeCreate assigns a UUID primary key when absent
func (m *Message) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// ConversationSummary a conversation with the peer and its latest message
type ConversationSummary struct {
	ID          string         `json:"id"`
	Title       string         `json:"title,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at"`
	Peer        *MemberSummary `json:"peer,omitempty"`
	LastMessage *Message       `json:"last_message,omitempty"`
}
