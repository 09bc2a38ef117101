package service

import (
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
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// validationMemoTTL how long a successful validation is remembered.
// Re-validating an unchanged code inside this window is a no-op.
const validationMemoTTL = 10 * time.Minute

// ValidationCache remembers successful code validations
type ValidationCache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

// redisValidationCache redis-backed ValidationCache
type redisValidationCache struct {
	client *redis.Client
}

// NewRedisValidationCache wraps a redis client as a ValidationCache.
// A nil client disables memoization.
func NewRedisValidationCache(client *redis.Client) ValidationCache {
	return &redisValidationCache{client: client}
}

func (c *redisValidationCache) Get(ctx context.Context, key string) (string, bool) {
	if c.client == nil {
		return "", false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *redisValidationCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if c.client == nil {
		return
	}
	c.client.Set(ctx, key, value, ttl) //nolint:errcheck // memo only, losing it just costs a re-validation
}

// ValidationResult outcome of a server-side code/link validation
type ValidationResult struct {
	Valid        bool   `json:"valid"`
	Code         string `json:"code"`                    // normalized code that was validated
	SponsorCode  string `json:"sponsor_code,omitempty"`  // for links: the underlying member code
	SponsorID    string `json:"sponsor_id,omitempty"`
	SponsorName  string `json:"sponsor_name,omitempty"`
	IsFamilyLink bool   `json:"is_family_link"`
}

// CreateLinkRequest parameters for a new shareable link
type CreateLinkRequest struct {
	LinkName     string     `json:"link_name"`
	IsFamilyLink bool       `json:"is_family_link"`
	ExpiresAt    *time.Time `json:"expires_at"`
}

// ReferralService referral code validation and shareable link management
type ReferralService interface {
	ValidateCode(ctx context.Context, raw string) (*ValidationResult, error)
	ValidateLink(ctx context.Context, raw string) (*ValidationResult, error)
	CreateLink(ctx context.Context, sponsorID string, req *CreateLinkRequest) (*domain.ReferralLink, error)
	ListLinks(ctx context.Context, sponsorID string) ([]*domain.ReferralLink, error)
	DeactivateLink(ctx context.Context, sponsorID, linkID string) error
	ListSponsored(ctx context.Context, sponsorID string) ([]*domain.ReferralResponse, error)
	SendFamilyInvite(ctx context.Context, sponsorID, email, linkID string) error
}

type referralService struct {
	memberRepo repository.MemberRepository
	linkRepo   repository.ReferralLinkRepository
	refRepo    repository.ReferralRepository
	cache      ValidationCache
	tasks      *outbox.Outbox
	mail       mailer.Mailer
	baseURL    string
}

// NewReferralService creates a new ReferralService
func NewReferralService(
	memberRepo repository.MemberRepository,
	linkRepo repository.ReferralLinkRepository,
	refRepo repository.ReferralRepository,
	cache ValidationCache,
	tasks *outbox.Outbox,
	mail mailer.Mailer,
	baseURL string,
) ReferralService {
	return &referralService{
		memberRepo: memberRepo,
		linkRepo:   linkRepo,
		refRepo:    refRepo,
		cache:      cache,
		tasks:      tasks,
		mail:       mail,
		baseURL:    baseURL,
	}
}

// ValidateCode validates a sponsor code typed into the registration form.
// Malformed input and link codes pasted into the code field are rejected
// without touching the database.
func (s *referralService) ValidateCode(ctx context.Context, raw string) (*ValidationResult, error) {
	switch ClassifyCode(raw) {
	case CodeLink:
		return nil, common.E(common.KindValidation, common.ErrCodeIsLink)
	case CodeMalformed:
		return nil, common.E(common.KindValidation, common.ErrCodeMalformed)
	}

	code := NormalizeCode(raw)

	if result, ok := s.memoized(ctx, code); ok {
		return result, nil
	}

	sponsor, err := s.memberRepo.FindByReferralCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.E(common.KindValidation, common.ErrCodeInvalid)
		}
		return nil, err
	}
	if !sponsor.IsActive {
		return nil, common.E(common.KindValidation, common.ErrCodeInvalid)
	}

	result := &ValidationResult{
		Valid:       true,
		Code:        code,
		SponsorID:   sponsor.ID,
		SponsorName: sponsor.FirstName + " " + sponsor.LastName,
	}
	s.memoize(ctx, code, result)
	return result, nil
}

// ValidateLink validates a shareable link code and resolves the underlying
// sponsor code. A valid hit records a click, best-effort.
func (s *referralService) ValidateLink(ctx context.Context, raw string) (*ValidationResult, error) {
	if ClassifyCode(raw) != CodeLink {
		return nil, common.E(common.KindValidation, common.ErrCodeMalformed)
	}

	code := NormalizeCode(raw)

	if result, ok := s.memoized(ctx, code); ok {
		return result, nil
	}

	link, err := s.linkRepo.FindByLinkCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.E(common.KindValidation, common.ErrCodeInvalid)
		}
		return nil, err
	}
	if !link.IsActive {
		return nil, common.E(common.KindValidation, common.ErrLinkInactive)
	}
	if link.Expired(time.Now()) {
		return nil, common.E(common.KindValidation, common.ErrLinkExpired)
	}

	sponsor, err := s.memberRepo.FindByID(link.SponsorID)
	if err != nil {
		return nil, common.E(common.KindValidation, common.ErrCodeInvalid)
	}

	// Click tracking must never block or fail the validation
	linkID := link.ID
	s.tasks.Enqueue("referral_link_click", func() error {
		return s.linkRepo.IncrementClicks(linkID)
	})

	result := &ValidationResult{
		Valid:        true,
		Code:         code,
		SponsorCode:  link.ReferralCode,
		SponsorID:    sponsor.ID,
		SponsorName:  sponsor.FirstName + " " + sponsor.LastName,
		IsFamilyLink: link.IsFamilyLink,
	}
	s.memoize(ctx, code, result)
	return result, nil
}

// CreateLink creates a shareable link wrapping the sponsor's own code
func (s *referralService) CreateLink(ctx context.Context, sponsorID string, req *CreateLinkRequest) (*domain.ReferralLink, error) {
	sponsor, err := s.memberRepo.FindByID(sponsorID)
	if err != nil {
		return nil, common.E(common.KindNotFound, common.ErrMemberNotFound)
	}

	link := &domain.ReferralLink{
		SponsorID:    sponsor.ID,
		ReferralCode: sponsor.ReferralCode,
		LinkCode:     GenerateLinkCode(),
		LinkName:     req.LinkName,
		IsFamilyLink: req.IsFamilyLink,
		IsActive:     true,
		ExpiresAt:    req.ExpiresAt,
	}
	if err := s.linkRepo.Create(link); err != nil {
		return nil, err
	}
	return link, nil
}

func (s *referralService) ListLinks(ctx context.Context, sponsorID string) ([]*domain.ReferralLink, error) {
	return s.linkRepo.FindBySponsorID(sponsorID)
}

// DeactivateLink disables a link; links are never hard-deleted
func (s *referralService) DeactivateLink(ctx context.Context, sponsorID, linkID string) error {
	link, err := s.linkRepo.FindByID(linkID)
	if err != nil {
		return common.E(common.KindNotFound, common.ErrNotFound)
	}
	if link.SponsorID != sponsorID {
		return common.E(common.KindAuth, common.ErrForbidden)
	}
	return s.linkRepo.Deactivate(linkID)
}

// ListSponsored lists the sponsor's referrals with referred profile cards
func (s *referralService) ListSponsored(ctx context.Context, sponsorID string) ([]*domain.ReferralResponse, error) {
	referrals, err := s.refRepo.FindBySponsorID(sponsorID)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(referrals))
	for _, r := range referrals {
		ids = append(ids, r.ReferredID)
	}
	summaries, err := s.memberRepo.FindSummariesByIDs(ids)
	if err != nil {
		return nil, err
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
		})
	}
	return responses, nil
}

// SendFamilyInvite mails a registration link for one of the sponsor's links
func (s *referralService) SendFamilyInvite(ctx context.Context, sponsorID, email, linkID string) error {
	sponsor, err := s.memberRepo.FindByID(sponsorID)
	if err != nil {
		return common.E(common.KindNotFound, common.ErrMemberNotFound)
	}
	link, err := s.linkRepo.FindByID(linkID)
	if err != nil {
		return common.E(common.KindNotFound, common.ErrNotFound)
	}
	if link.SponsorID != sponsorID {
		return common.E(common.KindAuth, common.ErrForbidden)
	}

	linkURL := fmt.Sprintf("%s/register?link=%s&family=%t", s.baseURL, link.LinkCode, link.IsFamilyLink)
	sponsorName := sponsor.FirstName + " " + sponsor.LastName

	// Invitation delivery is best-effort; the link itself already exists
	s.tasks.Enqueue("family_invite_mail", func() error {
		return s.mail.SendFamilyInvite(email, sponsorName, linkURL)
	})
	return nil
}

func (s *referralService) memoized(ctx context.Context, code string) (*ValidationResult, bool) {
	raw, ok := s.cache.Get(ctx, memoKey(code))
	if !ok {
		return nil, false
	}
	var result ValidationResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (s *referralService) memoize(ctx context.Context, code string, result *ValidationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("code", code).Msg("validation memo skipped")
		return
	}
	s.cache.Set(ctx, memoKey(code), string(data), validationMemoTTL)
}

func memoKey(code string) string {
	return "referral:validated:" + code
}
