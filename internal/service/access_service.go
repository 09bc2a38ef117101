package service

import (
	"context"
	"errors"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/repository"
	"gorm.io/gorm"
)

// AccessService resolves what a viewer may see of another member's profile.
// The grants live on the row OWNED by the profile's subject: member A decides
// what member B sees of A.
type AccessService interface {
	ResolveGrants(ctx context.Context, viewerID, subjectID string) (domain.Grants, error)
	CanViewSection(ctx context.Context, viewerID, subjectID string, section domain.Section) (bool, error)
}

type accessService struct {
	friendRepo repository.FriendshipRepository
}

// NewAccessService creates a new AccessService
func NewAccessService(friendRepo repository.FriendshipRepository) AccessService {
	return &accessService{friendRepo: friendRepo}
}

// ResolveGrants returns the subject's grants toward the viewer. Viewing your
// own profile grants everything; no connection grants nothing.
func (s *accessService) ResolveGrants(ctx context.Context, viewerID, subjectID string) (domain.Grants, error) {
	if viewerID == subjectID {
		return domain.Grants{Business: true, Family: true, Personal: true, Influence: true}, nil
	}

	row, err := s.friendRepo.FindByOwnerAndFriend(subjectID, viewerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Grants{}, nil
		}
		return domain.Grants{}, err
	}
	return domain.GrantsOf(row), nil
}

// CanViewSection answers a single-section check
func (s *accessService) CanViewSection(ctx context.Context, viewerID, subjectID string, section domain.Section) (bool, error) {
	if !domain.ValidSection(section) {
		return false, common.E(common.KindValidation, common.ErrInvalidInput)
	}
	grants, err := s.ResolveGrants(ctx, viewerID, subjectID)
	if err != nil {
		return false, err
	}
	return grants.Allows(section), nil
}
