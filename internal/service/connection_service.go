package service

import (
	"context"
	"errors"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/repository"
	"gorm.io/gorm"
)

// ConnectionService connection requests and the friendships they become
type ConnectionService interface {
	SendRequest(ctx context.Context, requesterID, recipientID string) (*domain.ConnectionRequest, error)
	AcceptRequest(ctx context.Context, recipientID, requestID string) error
	RejectRequest(ctx context.Context, recipientID, requestID string) error
	ListIncoming(ctx context.Context, recipientID string) ([]*domain.RequestResponse, error)
	ListSent(ctx context.Context, requesterID string) ([]*domain.RequestResponse, error)
	ListConnections(ctx context.Context, memberID string) ([]*domain.ConnectionResponse, error)
	UpdateGrants(ctx context.Context, ownerID, friendID string, grants domain.Grants) error
	RemoveConnection(ctx context.Context, memberID, friendID string) error
}

type connectionService struct {
	requestRepo repository.ConnectionRequestRepository
	friendRepo  repository.FriendshipRepository
	memberRepo  repository.MemberRepository
}

// NewConnectionService creates a new ConnectionService
func NewConnectionService(
	requestRepo repository.ConnectionRequestRepository,
	friendRepo repository.FriendshipRepository,
	memberRepo repository.MemberRepository,
) ConnectionService {
	return &connectionService{
		requestRepo: requestRepo,
		friendRepo:  friendRepo,
		memberRepo:  memberRepo,
	}
}

// SendRequest creates a pending request toward another member. Duplicate
// requests and requests between already-connected members are rejected.
func (s *connectionService) SendRequest(ctx context.Context, requesterID, recipientID string) (*domain.ConnectionRequest, error) {
	if requesterID == recipientID {
		return nil, common.E(common.KindValidation, common.ErrInvalidInput)
	}
	if _, err := s.memberRepo.FindByID(recipientID); err != nil {
		return nil, common.E(common.KindNotFound, common.ErrMemberNotFound)
	}

	connected, err := s.friendRepo.ExistsBetween(requesterID, recipientID)
	if err != nil {
		return nil, err
	}
	if connected {
		return nil, common.E(common.KindValidation, common.ErrAlreadyConnected)
	}

	// Either direction counts: a counter-request should be an accept instead
	for _, pair := range [][2]string{{requesterID, recipientID}, {recipientID, requesterID}} {
		existing, err := s.requestRepo.FindByPair(pair[0], pair[1])
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		if existing != nil && existing.Status == domain.RequestPending {
			return nil, common.E(common.KindValidation, common.ErrRequestExists)
		}
	}

	request := &domain.ConnectionRequest{
		RequesterID: requesterID,
		RecipientID: recipientID,
		Status:      domain.RequestPending,
	}
	if err := s.requestRepo.Create(request); err != nil {
		return nil, err
	}
	return request, nil
}

// AcceptRequest turns a pending request into the two directed friendship
// rows. Both start with all grants off; each side opens sections later.
func (s *connectionService) AcceptRequest(ctx context.Context, recipientID, requestID string) error {
	request, err := s.loadPendingFor(recipientID, requestID)
	if err != nil {
		return err
	}

	forward := &domain.Friendship{MemberID: request.RequesterID, FriendID: request.RecipientID}
	mirror := &domain.Friendship{MemberID: request.RecipientID, FriendID: request.RequesterID}
	if err := s.friendRepo.CreatePair(forward, mirror); err != nil {
		return err
	}

	return s.requestRepo.UpdateStatus(request.ID, domain.RequestAccepted)
}

// RejectRequest declines a pending request
func (s *connectionService) RejectRequest(ctx context.Context, recipientID, requestID string) error {
	request, err := s.loadPendingFor(recipientID, requestID)
	if err != nil {
		return err
	}
	return s.requestRepo.UpdateStatus(request.ID, domain.RequestRejected)
}

// ListIncoming returns pending requests with requester profile cards
func (s *connectionService) ListIncoming(ctx context.Context, recipientID string) ([]*domain.RequestResponse, error) {
	requests, err := s.requestRepo.FindPendingForRecipient(recipientID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.RequesterID)
	}
	summaries, err := s.memberRepo.FindSummariesByIDs(ids)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, &domain.RequestResponse{
			ID:        r.ID,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			Requester: summaries[r.RequesterID],
		})
	}
	return responses, nil
}

// ListSent returns the member's outgoing requests with recipient cards
func (s *connectionService) ListSent(ctx context.Context, requesterID string) ([]*domain.RequestResponse, error) {
	requests, err := s.requestRepo.FindSentByRequester(requesterID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(requests))
	for _, r := range requests {
		ids = append(ids, r.RecipientID)
	}
	summaries, err := s.memberRepo.FindSummariesByIDs(ids)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.RequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, &domain.RequestResponse{
			ID:        r.ID,
			Status:    r.Status,
			CreatedAt: r.CreatedAt,
			Recipient: summaries[r.RecipientID],
		})
	}
	return responses, nil
}

// ListConnections returns the member's connections with the grants in both
// directions. The owned rows carry what the member granted; the mirror rows
// are fetched per peer for the reverse direction.
func (s *connectionService) ListConnections(ctx context.Context, memberID string) ([]*domain.ConnectionResponse, error) {
	owned, err := s.friendRepo.FindByMember(memberID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(owned))
	for _, f := range owned {
		ids = append(ids, f.FriendID)
	}
	summaries, err := s.memberRepo.FindSummariesByIDs(ids)
	if err != nil {
		return nil, err
	}

	responses := make([]*domain.ConnectionResponse, 0, len(owned))
	for _, f := range owned {
		resp := &domain.ConnectionResponse{
			FriendshipID:   f.ID,
			Peer:           summaries[f.FriendID],
			GrantedToPeer:  domain.GrantsOf(f),
			ConnectedSince: f.CreatedAt,
		}
		mirror, err := s.friendRepo.FindByOwnerAndFriend(f.FriendID, memberID)
		if err == nil {
			resp.GrantedByPeer = domain.GrantsOf(mirror)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// UpdateGrants replaces the owner's grant set toward a friend. Only the row
// owner may change it; the mirror row is untouched.
func (s *connectionService) UpdateGrants(ctx context.Context, ownerID, friendID string, grants domain.Grants) error {
	err := s.friendRepo.UpdateGrants(ownerID, friendID, grants)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.E(common.KindNotFound, common.ErrNotConnected)
	}
	return err
}

// RemoveConnection deletes both directed rows and any request between the pair
func (s *connectionService) RemoveConnection(ctx context.Context, memberID, friendID string) error {
	connected, err := s.friendRepo.ExistsBetween(memberID, friendID)
	if err != nil {
		return err
	}
	if !connected {
		return common.E(common.KindNotFound, common.ErrNotConnected)
	}
	return s.friendRepo.DeletePair(memberID, friendID)
}

func (s *connectionService) loadPendingFor(recipientID, requestID string) (*domain.ConnectionRequest, error) {
	request, err := s.requestRepo.FindByID(requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.E(common.KindNotFound, common.ErrNotFound)
		}
		return nil, err
	}
	if request.RecipientID != recipientID {
		return nil, common.E(common.KindAuth, common.ErrForbidden)
	}
	if request.Status != domain.RequestPending {
		return nil, common.E(common.KindValidation, common.ErrInvalidInput)
	}
	return request, nil
}
