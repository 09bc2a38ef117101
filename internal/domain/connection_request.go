package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Connection request status values
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// ConnectionRequest a directed request, unique per ordered pair.
// Acceptance supersedes it with a pair of Friendship rows.
type ConnectionRequest struct {
	ID          string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	RequesterID string    `gorm:"column:requester_id;type:char(36);index:idx_request_pair,unique" json:"requester_id"`
	RecipientID string    `gorm:"column:recipient_id;type:char(36);index:idx_request_pair,unique" json:"recipient_id"`
	Status      string    `gorm:"column:status;size:20;default:pending" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (ConnectionRequest) TableName() string {
	return "connection_requests"
}

// BeforeCreate assigns a UUID primary key when absent
func (r *ConnectionRequest) BeforeCreate(*gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// RequestResponse a request with the counterpart's profile card
type RequestResponse struct {
	ID        string         `json:"id"`
	Status    string         `json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	Requester *MemberSummary `json:"requester,omitempty"`
	Recipient *MemberSummary `json:"recipient,omitempty"`
}
