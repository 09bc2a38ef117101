package service

import (
	"context"
	"errors"
	"time"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/repository"
	"gorm.io/gorm"
)

// ApprovalStatus what a newly registered member sees while gated
type ApprovalStatus struct {
	State           string  `json:"state"` // "pending", "approved", "rejected", "none"
	RejectionReason *string `json:"rejection_reason,omitempty"`
}

// ApprovalService the sponsor-approval state machine. Transitions are
// idempotent: approving an approved record reasserts the state.
type ApprovalService interface {
	Approve(ctx context.Context, actorID, referralID string, isAdmin bool) (*domain.Referral, error)
	Reject(ctx context.Context, actorID, referralID, reason string, isAdmin bool) (*domain.Referral, error)
	Reset(ctx context.Context, referralID string) (*domain.Referral, error)
	StatusFor(ctx context.Context, memberID string) (*ApprovalStatus, error)
}

type approvalService struct {
	refRepo    repository.ReferralRepository
	memberRepo repository.MemberRepository
}

// NewApprovalService creates a new ApprovalService
func NewApprovalService(refRepo repository.ReferralRepository, memberRepo repository.MemberRepository) ApprovalService {
	return &approvalService{refRepo: refRepo, memberRepo: memberRepo}
}

// Approve marks the referral approved, clears any rejection reason, stamps
// the decision, and unlocks the referred member
func (s *approvalService) Approve(ctx context.Context, actorID, referralID string, isAdmin bool) (*domain.Referral, error) {
	referral, err := s.load(referralID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && referral.SponsorID != actorID {
		return nil, common.E(common.KindAuth, common.ErrForbidden)
	}

	approved := true
	now := time.Now()
	referral.SponsorApproved = &approved
	referral.RejectionReason = nil
	referral.SponsorApprovedAt = &now
	referral.Status = domain.ReferralConfirmed

	if err := s.refRepo.Update(referral); err != nil {
		return nil, err
	}

	// Approval is what makes the member visible and usable
	if err := s.memberRepo.UpdateFields(referral.ReferredID, map[string]interface{}{"is_active": true}); err != nil {
		return nil, err
	}
	return referral, nil
}

// Reject marks the referral rejected with an optional free-text reason
func (s *approvalService) Reject(ctx context.Context, actorID, referralID, reason string, isAdmin bool) (*domain.Referral, error) {
	referral, err := s.load(referralID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && referral.SponsorID != actorID {
		return nil, common.E(common.KindAuth, common.ErrForbidden)
	}

	rejected := false
	now := time.Now()
	referral.SponsorApproved = &rejected
	referral.SponsorApprovedAt = &now
	if reason != "" {
		referral.RejectionReason = &reason
	}

	if err := s.refRepo.Update(referral); err != nil {
		return nil, err
	}

	if err := s.memberRepo.UpdateFields(referral.ReferredID, map[string]interface{}{"is_active": false}); err != nil {
		return nil, err
	}
	return referral, nil
}

// Reset returns a rejected referral to pending so the candidate gets
// another chance. Admin-only; the handler enforces the role, this enforces
// the state precondition.
func (s *approvalService) Reset(ctx context.Context, referralID string) (*domain.Referral, error) {
	referral, err := s.load(referralID)
	if err != nil {
		return nil, err
	}
	if referral.SponsorApproved == nil || *referral.SponsorApproved {
		return nil, common.E(common.KindValidation, common.ErrApprovalNotReset)
	}

	referral.SponsorApproved = nil
	referral.RejectionReason = nil
	referral.SponsorApprovedAt = nil
	referral.Status = domain.ReferralPending

	if err := s.refRepo.Update(referral); err != nil {
		return nil, err
	}
	return referral, nil
}

// StatusFor resolves the gating state shown to a referred member
func (s *approvalService) StatusFor(ctx context.Context, memberID string) (*ApprovalStatus, error) {
	referral, err := s.refRepo.FindByReferredID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// No referral record: nothing gates this member
			return &ApprovalStatus{State: "none"}, nil
		}
		return nil, err
	}

	switch {
	case referral.SponsorApproved == nil:
		return &ApprovalStatus{State: "pending"}, nil
	case *referral.SponsorApproved:
		return &ApprovalStatus{State: "approved"}, nil
	default:
		return &ApprovalStatus{State: "rejected", RejectionReason: referral.RejectionReason}, nil
	}
}

func (s *approvalService) load(referralID string) (*domain.Referral, error) {
	referral, err := s.refRepo.FindByID(referralID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.E(common.KindNotFound, common.ErrNotFound)
		}
		return nil, err
	}
	return referral, nil
}
