package service

import (
	"context"
	"errors"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/outbox"
	"github.com/aurora-society/aurora-backend/internal/repository"
	pkgjwt "github.com/aurora-society/aurora-backend/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TokenPair access + refresh tokens handed out at login
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// LoginResult either a finished session or a two-factor challenge
type LoginResult struct {
	Member    *domain.MemberResponse `json:"member,omitempty"`
	Tokens    *TokenPair             `json:"tokens,omitempty"`
	TwoFactor bool                   `json:"two_factor_required"`
	MemberID  string                 `json:"member_id,omitempty"` // challenge handle when TwoFactor is set
}

// AuthService login, two-factor completion, and token refresh
type AuthService interface {
	Login(ctx context.Context, email, password string, withTwoFactor bool) (*LoginResult, error)
	CompleteTwoFactor(ctx context.Context, memberID, code string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
}

type authService struct {
	memberRepo repository.MemberRepository
	refRepo    repository.ReferralRepository
	twoFactor  TwoFactorService
	tokens     *pkgjwt.Manager
	tasks      *outbox.Outbox
}

// NewAuthService creates a new AuthService
func NewAuthService(
	memberRepo repository.MemberRepository,
	refRepo repository.ReferralRepository,
	twoFactor TwoFactorService,
	tokens *pkgjwt.Manager,
	tasks *outbox.Outbox,
) AuthService {
	return &authService{
		memberRepo: memberRepo,
		refRepo:    refRepo,
		twoFactor:  twoFactor,
		tokens:     tokens,
		tasks:      tasks,
	}
}

// Login checks credentials and the sponsor-approval gate. With two-factor
// requested, a code is mailed and no tokens are issued until it is verified.
func (s *authService) Login(ctx context.Context, email, password string, withTwoFactor bool) (*LoginResult, error) {
	member, err := s.memberRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.E(common.KindAuth, common.ErrInvalidCredentials)
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(member.Password), []byte(password)) != nil {
		return nil, common.E(common.KindAuth, common.ErrInvalidCredentials)
	}

	if !member.IsActive {
		if err := s.checkApprovalGate(member.ID); err != nil {
			return nil, err
		}
		return nil, common.E(common.KindAuth, common.ErrForbidden)
	}

	if withTwoFactor {
		if err := s.twoFactor.IssueCode(ctx, member.ID); err != nil {
			return nil, err
		}
		return &LoginResult{TwoFactor: true, MemberID: member.ID}, nil
	}

	return s.finishLogin(member)
}

// CompleteTwoFactor exchanges a verified code for the session tokens
func (s *authService) CompleteTwoFactor(ctx context.Context, memberID, code string) (*LoginResult, error) {
	if err := s.twoFactor.VerifyCode(ctx, memberID, code); err != nil {
		return nil, err
	}
	member, err := s.memberRepo.FindByID(memberID)
	if err != nil {
		return nil, common.E(common.KindAuth, common.ErrMemberNotFound)
	}
	return s.finishLogin(member)
}

// Refresh trades a valid refresh token for a fresh pair
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyToken(refreshToken)
	if err != nil {
		return nil, common.E(common.KindAuth, err)
	}

	member, err := s.memberRepo.FindByID(claims.MemberID)
	if err != nil {
		return nil, common.E(common.KindAuth, common.ErrMemberNotFound)
	}
	if !member.IsActive {
		return nil, common.E(common.KindAuth, common.ErrForbidden)
	}
	return s.issueTokens(member)
}

func (s *authService) finishLogin(member *domain.Member) (*LoginResult, error) {
	pair, err := s.issueTokens(member)
	if err != nil {
		return nil, err
	}

	// Login bookkeeping never delays the response
	memberID := member.ID
	s.tasks.Enqueue("login_timestamp", func() error {
		return s.memberRepo.UpdateLoginTime(memberID)
	})

	return &LoginResult{Member: member.ToResponse(), Tokens: pair}, nil
}

func (s *authService) issueTokens(member *domain.Member) (*TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(member.ID, member.FirstName+" "+member.LastName, member.Level)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(member.ID)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// checkApprovalGate distinguishes "still pending" from "rejected" for
// inactive members so the client can render the right waiting screen
func (s *authService) checkApprovalGate(memberID string) error {
	referral, err := s.refRepo.FindByReferredID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if referral.SponsorApproved == nil {
		return common.E(common.KindAuth, common.ErrAwaitingApproval)
	}
	return nil
}
