package repository

import (
	"github.com/aurora-society/aurora-backend/internal/domain"
	"gorm.io/gorm"
)

// ConnectionRequestRepository connection request data access
type ConnectionRequestRepository interface {
	Create(req *domain.ConnectionRequest) error
	FindByID(id string) (*domain.ConnectionRequest, error)
	FindByPair(requesterID, recipientID string) (*domain.ConnectionRequest, error)
	FindPendingForRecipient(recipientID string) ([]*domain.ConnectionRequest, error)
	FindSentByRequester(requesterID string) ([]*domain.ConnectionRequest, error)
	UpdateStatus(id, status string) error
	DeleteForMember(memberID string) error
}

type connectionRequestRepository struct {
	db *gorm.DB
}

// NewConnectionRequestRepository creates a new ConnectionRequestRepository
func NewConnectionRequestRepository(db *gorm.DB) ConnectionRequestRepository {
	return &connectionRequestRepository{db: db}
}

func (r *connectionRequestRepository) Create(req *domain.ConnectionRequest) error {
	return r.db.Create(req).Error
}

func (r *connectionRequestRepository) FindByID(id string) (*domain.ConnectionRequest, error) {
	var req domain.ConnectionRequest
	err := r.db.Where("id = ?", id).First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByPair looks up the request for an ordered requester/recipient pair
func (r *connectionRequestRepository) FindByPair(requesterID, recipientID string) (*domain.ConnectionRequest, error) {
	var req domain.ConnectionRequest
	err := r.db.Where("requester_id = ? AND recipient_id = ?", requesterID, recipientID).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *connectionRequestRepository) FindPendingForRecipient(recipientID string) ([]*domain.ConnectionRequest, error) {
	var reqs []*domain.ConnectionRequest
	err := r.db.Where("recipient_id = ? AND status = ?", recipientID, domain.RequestPending).
		Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *connectionRequestRepository) FindSentByRequester(requesterID string) ([]*domain.ConnectionRequest, error) {
	var reqs []*domain.ConnectionRequest
	err := r.db.Where("requester_id = ?", requesterID).
		Order("created_at DESC").Find(&reqs).Error
	return reqs, err
}

func (r *connectionRequestRepository) UpdateStatus(id, status string) error {
	return r.db.Model(&domain.ConnectionRequest{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *connectionRequestRepository) DeleteForMember(memberID string) error {
	return r.db.Where("requester_id = ? OR recipient_id = ?", memberID, memberID).
		Delete(&domain.ConnectionRequest{}).Error
}
