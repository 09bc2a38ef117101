package service

import (
	"context"
	"errors"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/repository"
	pkglogger "github.com/aurora-society/aurora-backend/pkg/logger"
	"gorm.io/gorm"
)

// AdminService back-office member and referral management
type AdminService interface {
	ListMembers(ctx context.Context, page, limit int, keyword string) ([]*domain.MemberResponse, int64, error)
	SetLevel(ctx context.Context, memberID string, level int) error
	SetActive(ctx context.Context, memberID string, active bool) error
	ResetVerification(ctx context.Context, memberID string) error
	ListReferrals(ctx context.Context, page, limit int, approvalState string) ([]*domain.ReferralResponse, int64, error)
	DeleteAccount(ctx context.Context, memberID string) error
}

type adminService struct {
	memberRepo  repository.MemberRepository
	privateRepo repository.PrivateProfileRepository
	refRepo     repository.ReferralRepository
	linkRepo    repository.ReferralLinkRepository
	linkedRepo  repository.LinkedAccountRepository
	friendRepo  repository.FriendshipRepository
	requestRepo repository.ConnectionRequestRepository
	convRepo    repository.ConversationRepository
	codeRepo    repository.TwoFactorRepository
	verifyRepo  repository.VerificationRepository
}

// NewAdminService creates a new AdminService
func NewAdminService(
	memberRepo repository.MemberRepository,
	privateRepo repository.PrivateProfileRepository,
	refRepo repository.ReferralRepository,
	linkRepo repository.ReferralLinkRepository,
	linkedRepo repository.LinkedAccountRepository,
	friendRepo repository.FriendshipRepository,
	requestRepo repository.ConnectionRequestRepository,
	convRepo repository.ConversationRepository,
	codeRepo repository.TwoFactorRepository,
	verifyRepo repository.VerificationRepository,
) AdminService {
	return &adminService{
		memberRepo:  memberRepo,
		privateRepo: privateRepo,
		refRepo:     refRepo,
		linkRepo:    linkRepo,
		linkedRepo:  linkedRepo,
		friendRepo:  friendRepo,
		requestRepo: requestRepo,
		convRepo:    convRepo,
		codeRepo:    codeRepo,
		verifyRepo:  verifyRepo,
	}
}

// ListMembers pages every member, active or not, with keyword search
func (s *adminService) ListMembers(ctx context.Context, page, limit int, keyword string) ([]*domain.MemberResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	members, total, err := s.memberRepo.FindAll(page, limit, keyword)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*domain.MemberResponse, 0, len(members))
	for _, m := range members {
		responses = append(responses, m.ToResponse())
	}
	return responses, total, nil
}

// SetLevel grants or revokes roles by moving the member's level
func (s *adminService) SetLevel(ctx context.Context, memberID string, level int) error {
	if level < 0 {
		return common.E(common.KindValidation, common.ErrInvalidInput)
	}
	if err := s.requireMember(memberID); err != nil {
		return err
	}
	return s.memberRepo.UpdateFields(memberID, map[string]interface{}{"level": level})
}

// SetActive toggles the account on or off without touching its data
func (s *adminService) SetActive(ctx context.Context, memberID string, active bool) error {
	if err := s.requireMember(memberID); err != nil {
		return err
	}
	return s.memberRepo.UpdateFields(memberID, map[string]interface{}{"is_active": active})
}

// ResetVerification returns the member's identity check to pending so the
// provider flow can be run again
func (s *adminService) ResetVerification(ctx context.Context, memberID string) error {
	if err := s.requireMember(memberID); err != nil {
		return err
	}
	if err := s.verifyRepo.DeleteByMember(memberID); err != nil {
		return err
	}
	return s.memberRepo.UpdateFields(memberID, map[string]interface{}{
		"verification_status": domain.VerificationPending,
	})
}

// ListReferrals pages all referrals filtered by approval state
// ("pending", "approved", "rejected", or empty for all), with both profile
// cards resolved
func (s *adminService) ListReferrals(ctx context.Context, page, limit int, approvalState string) ([]*domain.ReferralResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	referrals, total, err := s.refRepo.FindAll(page, limit, approvalState)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]string, 0, len(referrals)*2)
	for _, r := range referrals {
		ids = append(ids, r.ReferredID, r.SponsorID)
	}
	summaries, err := s.memberRepo.FindSummariesByIDs(ids)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*domain.ReferralResponse, 0, len(referrals))
	for _, r := range referrals {
		responses = append(responses, &domain.ReferralResponse{
			ID:              r.ID,
			ReferralCode:    r.ReferralCode,
			Status:          r.Status,
			SponsorApproved: r.SponsorApproved,
			RejectionReason: r.RejectionReason,
			CreatedAt:       r.CreatedAt,
			ReferredProfile: summaries[r.ReferredID],
			SponsorProfile:  summaries[r.SponsorID],
		})
	}
	return responses, total, nil
}

// DeleteAccount removes a member and everything hanging off the account.
// The order runs from leaves to the member row so a partial failure leaves
// no orphaned references.
func (s *adminService) DeleteAccount(ctx context.Context, memberID string) error {
	if err := s.requireMember(memberID); err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"conversations", func() error { return s.convRepo.DeleteAllForMember(memberID) }},
		{"friendships", func() error { return s.friendRepo.DeleteAllForMember(memberID) }},
		{"connection_requests", func() error { return s.requestRepo.DeleteForMember(memberID) }},
		{"referrals", func() error { return s.refRepo.DeleteForMember(memberID) }},
		{"referral_links", func() error { return s.linkRepo.DeleteBySponsorID(memberID) }},
		{"linked_accounts", func() error { return s.linkedRepo.DeleteForMember(memberID) }},
		{"two_factor_codes", func() error { return s.codeRepo.DeleteByMember(memberID) }},
		{"verification_sessions", func() error { return s.verifyRepo.DeleteByMember(memberID) }},
		{"private_profile", func() error { return s.privateRepo.DeleteByMemberID(memberID) }},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			pkglogger.GetLogger().Error().Err(err).
				Str("member_id", memberID).
				Str("step", step.name).
				Msg("account deletion step failed")
			return err
		}
	}
	return s.memberRepo.Delete(memberID)
}

func (s *adminService) requireMember(memberID string) error {
	if _, err := s.memberRepo.FindByID(memberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.E(common.KindNotFound, common.ErrMemberNotFound)
		}
		return err
	}
	return nil
}
