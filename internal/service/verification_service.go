package service

import (
	"context"
	"errors"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/mailer"
	"github.com/aurora-society/aurora-backend/internal/outbox"
	"github.com/aurora-society/aurora-backend/internal/repository"
	pkglogger "github.com/aurora-society/aurora-backend/pkg/logger"
	"gorm.io/gorm"
)

// VerificationService records identity-provider callback outcomes
type VerificationService interface {
	HandleCallback(ctx context.Context, token, status string) error
	StatusFor(ctx context.Context, memberID string) (string, error)
}

type verificationService struct {
	verifyRepo repository.VerificationRepository
	memberRepo repository.MemberRepository
	tasks      *outbox.Outbox
	mail       mailer.Mailer
}

// NewVerificationService creates a new VerificationService
func NewVerificationService(
	verifyRepo repository.VerificationRepository,
	memberRepo repository.MemberRepository,
	tasks *outbox.Outbox,
	mail mailer.Mailer,
) VerificationService {
	return &verificationService{
		verifyRepo: verifyRepo,
		memberRepo: memberRepo,
		tasks:      tasks,
		mail:       mail,
	}
}

// HandleCallback persists the provider's verdict for the session token and
// mirrors it onto the member. Unknown statuses are recorded as declined
// rather than dropped.
func (s *verificationService) HandleCallback(ctx context.Context, token, status string) error {
	switch status {
	case domain.VerificationApproved, domain.VerificationDeclined, domain.VerificationPending:
	default:
		pkglogger.GetLogger().Warn().Str("status", status).Msg("unknown verification status, recording as declined")
		status = domain.VerificationDeclined
	}

	session, err := s.verifyRepo.FindByToken(token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.E(common.KindNotFound, common.ErrNotFound)
		}
		return err
	}

	if err := s.verifyRepo.UpdateStatusByToken(token, status); err != nil {
		return err
	}
	if err := s.memberRepo.UpdateFields(session.MemberID, map[string]interface{}{
		"verification_status": status,
	}); err != nil {
		return err
	}

	memberID := session.MemberID
	outcome := status
	s.tasks.Enqueue("verification_outcome_mail", func() error {
		member, err := s.memberRepo.FindByID(memberID)
		if err != nil {
			return err
		}
		return s.mail.SendVerificationOutcome(member.Email, outcome)
	})
	return nil
}

// StatusFor reports the member's current verification status
func (s *verificationService) StatusFor(ctx context.Context, memberID string) (string, error) {
	member, err := s.memberRepo.FindByID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", common.E(common.KindNotFound, common.ErrMemberNotFound)
		}
		return "", err
	}
	return member.VerificationStatus, nil
}
