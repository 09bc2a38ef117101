package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/mailer"
	"github.com/aurora-society/aurora-backend/internal/outbox"
	"github.com/aurora-society/aurora-backend/internal/repository"
	pkglogger "github.com/aurora-society/aurora-backend/pkg/logger"
	"github.com/aurora-society/aurora-backend/pkg/storage"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

// draftTTL how long a phase-one draft waits for credential completion
const draftTTL = time.Hour

// AvatarUpload an optional avatar submitted with registration
type AvatarUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RegisterRequest full registration input. Exactly one of ReferralCode or
// LinkCode must be present.
type RegisterRequest struct {
	Email          string   `json:"email" binding:"required,email"`
	Password       string   `json:"password"`
	FirstName      string   `json:"first_name" binding:"required"`
	LastName       string   `json:"last_name" binding:"required"`
	Username       string   `json:"username"`
	Title          string   `json:"title"`
	JobFunction    string   `json:"job_function"`
	ActivityDomain string   `json:"activity_domain"`
	MobileNumber   string   `json:"mobile_number"`
	WealthTier     string   `json:"wealth_tier"`
	WealthAmount   *float64 `json:"wealth_amount"`
	WealthCurrency string   `json:"wealth_currency"`
	WealthUnit     string   `json:"wealth_unit"`
	ReferralCode   string   `json:"referral_code"`
	LinkCode       string   `json:"link_code"`

	Avatar *AvatarUpload `json:"-"`
}

// RegistrationResult the created member plus the gating state
type RegistrationResult struct {
	Member            *domain.MemberResponse `json:"member"`
	AwaitingApproval  bool                   `json:"awaiting_approval"`
	VerificationToken string                 `json:"verification_token"`
}

// DraftStore parks phase-one registration drafts until credentials arrive
type DraftStore interface {
	Save(ctx context.Context, token string, req *RegisterRequest) error
	Load(ctx context.Context, token string) (*RegisterRequest, error)
	Delete(ctx context.Context, token string)
}

type redisDraftStore struct {
	client *redis.Client
}

// NewRedisDraftStore wraps a redis client as a DraftStore
func NewRedisDraftStore(client *redis.Client) DraftStore {
	return &redisDraftStore{client: client}
}

func (s *redisDraftStore) Save(ctx context.Context, token string, req *RegisterRequest) error {
	if s.client == nil {
		return common.E(common.KindTransient, errors.New("draft storage unavailable"))
	}
	data, err := json.Marshal(req)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, draftKey(token), data, draftTTL).Err()
}

func (s *redisDraftStore) Load(ctx context.Context, token string) (*RegisterRequest, error) {
	if s.client == nil {
		return nil, common.E(common.KindTransient, errors.New("draft storage unavailable"))
	}
	raw, err := s.client.Get(ctx, draftKey(token)).Result()
	if err != nil {
		return nil, common.E(common.KindNotFound, common.ErrNotFound)
	}
	var req RegisterRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (s *redisDraftStore) Delete(ctx context.Context, token string) {
	if s.client == nil {
		return
	}
	s.client.Del(ctx, draftKey(token)) //nolint:errcheck
}

func draftKey(token string) string {
	return "registration:draft:" + token
}

// RegistrationService sequences account, profile, referral and linked
// account creation for new registrants
type RegistrationService interface {
	SaveDraft(ctx context.Context, req *RegisterRequest) (string, error)
	CompleteDraft(ctx context.Context, token, password string) (*RegistrationResult, error)
	Register(ctx context.Context, req *RegisterRequest) (*RegistrationResult, error)
}

type registrationService struct {
	memberRepo   repository.MemberRepository
	privateRepo  repository.PrivateProfileRepository
	refRepo      repository.ReferralRepository
	linkRepo     repository.ReferralLinkRepository
	linkedRepo   repository.LinkedAccountRepository
	verifyRepo   repository.VerificationRepository
	referrals    ReferralService
	drafts       DraftStore
	avatars      *storage.S3Client
	tasks        *outbox.Outbox
	mail         mailer.Mailer
}

// NewRegistrationService creates a new RegistrationService
func NewRegistrationService(
	memberRepo repository.MemberRepository,
	privateRepo repository.PrivateProfileRepository,
	refRepo repository.ReferralRepository,
	linkRepo repository.ReferralLinkRepository,
	linkedRepo repository.LinkedAccountRepository,
	verifyRepo repository.VerificationRepository,
	referrals ReferralService,
	drafts DraftStore,
	avatars *storage.S3Client,
	tasks *outbox.Outbox,
	mail mailer.Mailer,
) RegistrationService {
	return &registrationService{
		memberRepo:  memberRepo,
		privateRepo: privateRepo,
		refRepo:     refRepo,
		linkRepo:    linkRepo,
		linkedRepo:  linkedRepo,
		verifyRepo:  verifyRepo,
		referrals:   referrals,
		drafts:      drafts,
		avatars:     avatars,
		tasks:       tasks,
		mail:        mail,
	}
}

// SaveDraft validates the referral code, then parks the profile data so the
// registrant can finish credentials in a later step
func (s *registrationService) SaveDraft(ctx context.Context, req *RegisterRequest) (string, error) {
	if _, err := s.validateReferral(ctx, req); err != nil {
		return "", err
	}

	token := uuid.New().String()
	req.Password = "" // credentials are collected in phase two
	req.Avatar = nil
	if err := s.drafts.Save(ctx, token, req); err != nil {
		return "", err
	}
	return token, nil
}

// CompleteDraft finishes a deferred registration with the credentials
func (s *registrationService) CompleteDraft(ctx context.Context, token, password string) (*RegistrationResult, error) {
	req, err := s.drafts.Load(ctx, token)
	if err != nil {
		return nil, err
	}
	req.Password = password

	result, err := s.Register(ctx, req)
	if err != nil {
		return nil, err
	}
	s.drafts.Delete(ctx, token)
	return result, nil
}

// Register runs the full orchestration. Account and public profile creation
// are fatal on failure; private profile, referral-record and counter side
// effects deliberately are not.
func (s *registrationService) Register(ctx context.Context, req *RegisterRequest) (*RegistrationResult, error) {
	validation, err := s.validateReferral(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(req.Password) < 8 {
		return nil, common.E(common.KindValidation, errors.New("password must be at least 8 characters"))
	}

	exists, err := s.memberRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, common.E(common.KindValidation, common.ErrMemberExists)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	ownCode, err := s.freshMemberCode()
	if err != nil {
		return nil, err
	}

	member := &domain.Member{
		Email:              req.Email,
		Password:           string(hashed),
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Username:           req.Username,
		Title:              req.Title,
		JobFunction:        req.JobFunction,
		ActivityDomain:     req.ActivityDomain,
		ReferralCode:       ownCode,
		VerificationStatus: domain.VerificationPending,
		IsLinkedAccount:    validation.IsFamilyLink,
		IsActive:           false, // unlocked by sponsor approval
	}
	if !validation.IsFamilyLink {
		member.WealthTier = req.WealthTier
	}

	if err := s.memberRepo.Create(member); err != nil {
		return nil, fmt.Errorf("account creation failed: %w", err)
	}

	s.uploadAvatar(ctx, member, req.Avatar)

	// Private profile failure is non-fatal: the account exists and the
	// sensitive fields can be backfilled later
	private := &domain.PrivateProfile{
		MemberID:     member.ID,
		MobileNumber: req.MobileNumber,
	}
	if !validation.IsFamilyLink {
		private.WealthAmount = req.WealthAmount
		private.WealthCurrency = req.WealthCurrency
		private.WealthUnit = req.WealthUnit
	}
	if err := s.privateRepo.Create(private); err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("member_id", member.ID).
			Msg("private profile insert failed, continuing")
	}

	s.recordReferral(member, validation)

	token := s.startVerificationSession(member)

	return &RegistrationResult{
		Member:            member.ToResponse(),
		AwaitingApproval:  true,
		VerificationToken: token,
	}, nil
}

// validateReferral requires a validated code or link, distinguishing the
// missing / malformed / failed cases
func (s *registrationService) validateReferral(ctx context.Context, req *RegisterRequest) (*ValidationResult, error) {
	switch {
	case req.LinkCode != "":
		return s.referrals.ValidateLink(ctx, req.LinkCode)
	case req.ReferralCode != "":
		return s.referrals.ValidateCode(ctx, req.ReferralCode)
	default:
		return nil, common.E(common.KindValidation, common.ErrCodeRequired)
	}
}

// freshMemberCode generates the new member's own code, retrying on the
// unlikely collision
func (s *registrationService) freshMemberCode() (string, error) {
	for i := 0; i < 5; i++ {
		code := GenerateMemberCode()
		exists, err := s.memberRepo.ExistsByReferralCode(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique referral code")
}

// uploadAvatar stores the optional avatar; failure never aborts registration
func (s *registrationService) uploadAvatar(ctx context.Context, member *domain.Member, avatar *AvatarUpload) {
	if avatar == nil || s.avatars == nil {
		return
	}
	key := storage.GenerateKey(member.ID, "avatar", avatar.Filename)
	result, err := s.avatars.Upload(ctx, key, bytes.NewReader(avatar.Data), avatar.ContentType, int64(len(avatar.Data)))
	if err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("member_id", member.ID).
			Msg("avatar upload failed, continuing")
		return
	}

	url := result.URL
	if result.CDNURL != "" {
		url = result.CDNURL
	}
	member.AvatarURL = url
	if err := s.memberRepo.UpdateFields(member.ID, map[string]interface{}{"avatar_url": url}); err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("member_id", member.ID).
			Msg("avatar url update failed")
	}
}

// recordReferral creates the sponsorship row and the family linked account.
// A sponsor that cannot be resolved is logged, never fatal.
func (s *registrationService) recordReferral(member *domain.Member, validation *ValidationResult) {
	sponsorCode := validation.Code
	if validation.SponsorCode != "" {
		sponsorCode = validation.SponsorCode
	}

	sponsor, err := s.memberRepo.FindByReferralCode(sponsorCode)
	if err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("code", sponsorCode).
			Str("member_id", member.ID).
			Msg("sponsor resolution failed, registration continues without referral record")
		return
	}

	referral := &domain.Referral{
		SponsorID:    sponsor.ID,
		ReferredID:   member.ID,
		ReferralCode: sponsorCode,
		Status:       domain.ReferralPending,
		// SponsorApproved stays nil: awaiting the sponsor's decision
	}
	if err := s.refRepo.Create(referral); err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("member_id", member.ID).
			Msg("referral record insert failed, continuing")
		return
	}

	if validation.IsFamilyLink {
		linked := &domain.LinkedAccount{
			SponsorID:      sponsor.ID,
			LinkedMemberID: member.ID,
			RelationType:   "family",
		}
		if err := s.linkedRepo.Create(linked); err != nil {
			pkglogger.GetLogger().Error().Err(err).
				Str("member_id", member.ID).
				Msg("linked account insert failed, continuing")
		}
	}

	// Registration counter and sponsor notification are fire-and-forget
	if validation.SponsorCode != "" {
		linkCode := validation.Code
		s.tasks.Enqueue("referral_link_registration", func() error {
			link, err := s.linkRepo.FindByLinkCode(linkCode)
			if err != nil {
				return err
			}
			return s.linkRepo.IncrementRegistrations(link.ID)
		})
	}

	sponsorEmail := sponsor.Email
	registrantName := member.FirstName + " " + member.LastName
	s.tasks.Enqueue("sponsor_approval_mail", func() error {
		return s.mail.SendSponsorNotification(sponsorEmail, registrantName)
	})
}

// startVerificationSession prepares the identity-verification token the
// provider will echo back on its callback
func (s *registrationService) startVerificationSession(member *domain.Member) string {
	token := uuid.New().String()
	session := &domain.VerificationSession{
		MemberID: member.ID,
		Token:    token,
		Status:   domain.VerificationPending,
	}
	if err := s.verifyRepo.Create(session); err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("member_id", member.ID).
			Msg("verification session insert failed")
		return ""
	}
	return token
}
