package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/mailer"
	"github.com/aurora-society/aurora-backend/internal/repository"
	"gorm.io/gorm"
)

// twoFactorTTL how long a login code stays valid
const twoFactorTTL = 5 * time.Minute

// TwoFactorService email-delivered login verification codes. At most one
// live code per member: issuing a new one invalidates any prior unused code.
type TwoFactorService interface {
	IssueCode(ctx context.Context, memberID string) error
	VerifyCode(ctx context.Context, memberID, code string) error
}

type twoFactorService struct {
	codeRepo   repository.TwoFactorRepository
	memberRepo repository.MemberRepository
	mail       mailer.Mailer
}

// NewTwoFactorService creates a new TwoFactorService
func NewTwoFactorService(
	codeRepo repository.TwoFactorRepository,
	memberRepo repository.MemberRepository,
	mail mailer.Mailer,
) TwoFactorService {
	return &twoFactorService{codeRepo: codeRepo, memberRepo: memberRepo, mail: mail}
}

// IssueCode generates and mails a fresh 6-digit code. Delivery failure is
// fatal here: a code the member never receives only locks them out.
func (s *twoFactorService) IssueCode(ctx context.Context, memberID string) error {
	member, err := s.memberRepo.FindByID(memberID)
	if err != nil {
		return common.E(common.KindNotFound, common.ErrMemberNotFound)
	}

	if err := s.codeRepo.DeleteUnusedByMember(memberID); err != nil {
		return err
	}

	code := randomDigits(6)
	record := &domain.TwoFactorCode{
		MemberID:  memberID,
		Code:      code,
		ExpiresAt: time.Now().Add(twoFactorTTL),
	}
	if err := s.codeRepo.Create(record); err != nil {
		return err
	}

	if err := s.mail.SendTwoFactorCode(member.Email, code); err != nil {
		return fmt.Errorf("two-factor code delivery: %w", err)
	}
	return nil
}

// VerifyCode consumes a pending code. Expired and mismatched codes are
// distinguished so the client can offer a resend on expiry.
func (s *twoFactorService) VerifyCode(ctx context.Context, memberID, code string) error {
	record, err := s.codeRepo.FindUnusedByMemberAndCode(memberID, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.E(common.KindAuth, common.ErrCodeMismatch)
		}
		return err
	}
	if time.Now().After(record.ExpiresAt) {
		return common.E(common.KindAuth, common.ErrCodeExpired)
	}
	return s.codeRepo.MarkUsed(record.ID)
}

func randomDigits(n int) string {
	digits := make([]byte, n)
	for i := range digits {
		v, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			panic(err)
		}
		digits[i] = byte('0' + v.Int64())
	}
	return string(digits)
}
