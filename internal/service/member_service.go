package service

import (
	"bytes"
	"context"
	"errors"
	"sync"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/repository"
	pkglogger "github.com/aurora-society/aurora-backend/pkg/logger"
	"github.com/aurora-society/aurora-backend/pkg/storage"
	"gorm.io/gorm"
)

// ProfileView a member profile filtered to what the viewer is granted.
// Private contact/wealth data rides along only when the personal section
// is open to the viewer (or the viewer is the subject).
type ProfileView struct {
	Member   *domain.MemberResponse `json:"member"`
	Private  *domain.PrivateProfile `json:"private,omitempty"`
	Sections domain.Grants          `json:"sections"`
}

// UpdateProfileRequest editable public profile fields
type UpdateProfileRequest struct {
	FirstName      *string `json:"first_name"`
	LastName       *string `json:"last_name"`
	Username       *string `json:"username"`
	Title          *string `json:"title"`
	JobFunction    *string `json:"job_function"`
	ActivityDomain *string `json:"activity_domain"`
	MobileNumber   *string `json:"mobile_number"`
}

// MemberService profile reads, updates and the members directory
type MemberService interface {
	GetProfile(ctx context.Context, viewerID, subjectID string) (*ProfileView, error)
	UpdateProfile(ctx context.Context, memberID string, req *UpdateProfileRequest) (*domain.MemberResponse, error)
	UploadAvatar(ctx context.Context, memberID string, avatar *AvatarUpload) (string, error)
	Directory(ctx context.Context, page, limit int, keyword string) ([]*domain.MemberResponse, int64, error)
}

type memberService struct {
	memberRepo  repository.MemberRepository
	privateRepo repository.PrivateProfileRepository
	access      AccessService

	mu         sync.Mutex
	avatars    *storage.S3Client
	newStorage func() (*storage.S3Client, error)
}

// NewMemberService creates a new MemberService. newStorage mints a fresh
// storage client when the current one's credentials go stale; nil disables
// the retry.
func NewMemberService(
	memberRepo repository.MemberRepository,
	privateRepo repository.PrivateProfileRepository,
	access AccessService,
	avatars *storage.S3Client,
	newStorage func() (*storage.S3Client, error),
) MemberService {
	return &memberService{
		memberRepo:  memberRepo,
		privateRepo: privateRepo,
		access:      access,
		avatars:     avatars,
		newStorage:  newStorage,
	}
}

// GetProfile returns the subject's profile shaped by the grants the subject
// gave the viewer
func (s *memberService) GetProfile(ctx context.Context, viewerID, subjectID string) (*ProfileView, error) {
	member, err := s.memberRepo.FindByID(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.E(common.KindNotFound, common.ErrMemberNotFound)
		}
		return nil, err
	}

	grants, err := s.access.ResolveGrants(ctx, viewerID, subjectID)
	if err != nil {
		return nil, err
	}

	view := &ProfileView{Member: member.ToResponse(), Sections: grants}

	if !grants.Allows(domain.SectionInfluence) {
		view.Member.WealthTier = ""
	}
	if !grants.Allows(domain.SectionBusiness) {
		view.Member.JobFunction = ""
		view.Member.ActivityDomain = ""
	}

	if grants.Allows(domain.SectionPersonal) {
		private, err := s.privateRepo.FindByMemberID(subjectID)
		if err == nil {
			view.Private = private
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return view, nil
}

// UpdateProfile applies the submitted fields; unset fields are untouched
func (s *memberService) UpdateProfile(ctx context.Context, memberID string, req *UpdateProfileRequest) (*domain.MemberResponse, error) {
	fields := map[string]interface{}{}
	if req.FirstName != nil {
		fields["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		fields["last_name"] = *req.LastName
	}
	if req.Username != nil {
		fields["username"] = *req.Username
	}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.JobFunction != nil {
		fields["job_function"] = *req.JobFunction
	}
	if req.ActivityDomain != nil {
		fields["activity_domain"] = *req.ActivityDomain
	}
	if len(fields) > 0 {
		if err := s.memberRepo.UpdateFields(memberID, fields); err != nil {
			return nil, err
		}
	}

	if req.MobileNumber != nil {
		if err := s.updateMobile(memberID, *req.MobileNumber); err != nil {
			return nil, err
		}
	}

	member, err := s.memberRepo.FindByID(memberID)
	if err != nil {
		return nil, err
	}
	return member.ToResponse(), nil
}

// UploadAvatar stores a new avatar and returns its public URL. A stale
// storage credential gets one refresh-and-retry before the error surfaces.
func (s *memberService) UploadAvatar(ctx context.Context, memberID string, avatar *AvatarUpload) (string, error) {
	if avatar == nil || len(avatar.Data) == 0 {
		return "", common.E(common.KindValidation, common.ErrInvalidInput)
	}

	key := storage.GenerateKey(memberID, "avatar", avatar.Filename)
	result, err := s.upload(ctx, key, avatar)
	if errors.Is(err, storage.ErrUnauthorized) {
		if renewErr := s.renewStorage(); renewErr != nil {
			return "", err
		}
		pkglogger.GetLogger().Warn().Str("member_id", memberID).Msg("storage credentials refreshed, retrying upload")
		result, err = s.upload(ctx, key, avatar)
	}
	if err != nil {
		return "", err
	}

	url := result.URL
	if result.CDNURL != "" {
		url = result.CDNURL
	}
	if err := s.memberRepo.UpdateFields(memberID, map[string]interface{}{"avatar_url": url}); err != nil {
		return "", err
	}
	return url, nil
}

// Directory pages the active-members listing
func (s *memberService) Directory(ctx context.Context, page, limit int, keyword string) ([]*domain.MemberResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	members, total, err := s.memberRepo.FindActive(page, limit, keyword)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*domain.MemberResponse, 0, len(members))
	for _, m := range members {
		resp := m.ToResponse()
		// The directory card never carries tier data; that is section-gated
		resp.WealthTier = ""
		responses = append(responses, resp)
	}
	return responses, total, nil
}

func (s *memberService) upload(ctx context.Context, key string, avatar *AvatarUpload) (*storage.UploadResult, error) {
	s.mu.Lock()
	client := s.avatars
	s.mu.Unlock()
	if client == nil {
		return nil, errors.New("avatar storage not configured")
	}
	return client.Upload(ctx, key, bytes.NewReader(avatar.Data), avatar.ContentType, int64(len(avatar.Data)))
}

func (s *memberService) renewStorage() error {
	if s.newStorage == nil {
		return errors.New("storage refresh not configured")
	}
	client, err := s.newStorage()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.avatars = client
	s.mu.Unlock()
	return nil
}

func (s *memberService) updateMobile(memberID, mobile string) error {
	private, err := s.privateRepo.FindByMemberID(memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.privateRepo.Create(&domain.PrivateProfile{MemberID: memberID, MobileNumber: mobile})
		}
		return err
	}
	private.MobileNumber = mobile
	return s.privateRepo.Update(private)
}
