package service

import (
	"context"
	"testing"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func profileSubject() *domain.Member {
	return &domain.Member{
		ID:             "subject-1",
		FirstName:      "Ada",
		LastName:       "Byron",
		JobFunction:    "investor",
		ActivityDomain: "energy",
		WealthTier:     "tier-2",
		IsActive:       true,
	}
}

func newMemberFixture(friendRepo *mockFriendRepo) (*mockMemberRepo, *mockPrivateRepo, MemberService) {
	memberRepo := new(mockMemberRepo)
	privateRepo := new(mockPrivateRepo)
	access := NewAccessService(friendRepo)
	svc := NewMemberService(memberRepo, privateRepo, access, nil, nil)
	return memberRepo, privateRepo, svc
}

func TestGetProfile_StrangerSeesNothingGated(t *testing.T) {
	friendRepo := new(mockFriendRepo)
	friendRepo.On("FindByOwnerAndFriend", "subject-1", "viewer-1").Return(nil, gorm.ErrRecordNotFound)
	memberRepo, privateRepo, svc := newMemberFixture(friendRepo)
	memberRepo.On("FindByID", "subject-1").Return(profileSubject(), nil)

	view, err := svc.GetProfile(context.Background(), "viewer-1", "subject-1")
	assert.NoError(t, err)
	assert.Equal(t, "Ada", view.Member.FirstName, "name stays public")
	assert.Empty(t, view.Member.WealthTier)
	assert.Empty(t, view.Member.JobFunction)
	assert.Empty(t, view.Member.ActivityDomain)
	assert.Nil(t, view.Private)
	privateRepo.AssertNotCalled(t, "FindByMemberID", mock.Anything)
}

func TestGetProfile_GrantsOpenSections(t *testing.T) {
	friendRepo := new(mockFriendRepo)
	friendRepo.On("FindByOwnerAndFriend", "subject-1", "viewer-1").Return(&domain.Friendship{
		MemberID: "subject-1", FriendID: "viewer-1",
		BusinessAccess: true, PersonalAccess: true,
	}, nil)
	memberRepo, privateRepo, svc := newMemberFixture(friendRepo)
	memberRepo.On("FindByID", "subject-1").Return(profileSubject(), nil)
	privateRepo.On("FindByMemberID", "subject-1").Return(&domain.PrivateProfile{
		MemberID: "subject-1", MobileNumber: "+441234",
	}, nil)

	view, err := svc.GetProfile(context.Background(), "viewer-1", "subject-1")
	assert.NoError(t, err)
	assert.Equal(t, "investor", view.Member.JobFunction)
	assert.Empty(t, view.Member.WealthTier, "influence stays closed")
	assert.NotNil(t, view.Private)
	assert.Equal(t, "+441234", view.Private.MobileNumber)
	assert.True(t, view.Sections.Business)
	assert.False(t, view.Sections.Influence)
}

func TestGetProfile_OwnProfileIsUnfiltered(t *testing.T) {
	friendRepo := new(mockFriendRepo)
	memberRepo, privateRepo, svc := newMemberFixture(friendRepo)
	memberRepo.On("FindByID", "subject-1").Return(profileSubject(), nil)
	privateRepo.On("FindByMemberID", "subject-1").Return(&domain.PrivateProfile{
		MemberID: "subject-1",
	}, nil)

	view, err := svc.GetProfile(context.Background(), "subject-1", "subject-1")
	assert.NoError(t, err)
	assert.Equal(t, "tier-2", view.Member.WealthTier)
	assert.Equal(t, "investor", view.Member.JobFunction)
	assert.NotNil(t, view.Private)
	friendRepo.AssertNotCalled(t, "FindByOwnerAndFriend")
}

func TestGetProfile_UnknownMember(t *testing.T) {
	memberRepo, _, svc := newMemberFixture(new(mockFriendRepo))
	memberRepo.On("FindByID", "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.GetProfile(context.Background(), "viewer-1", "ghost")
	assert.ErrorIs(t, err, common.ErrMemberNotFound)
}

func TestUpdateProfile_PartialFields(t *testing.T) {
	memberRepo, privateRepo, svc := newMemberFixture(new(mockFriendRepo))
	title := "Baroness"
	memberRepo.On("UpdateFields", "subject-1", map[string]interface{}{"title": "Baroness"}).Return(nil)
	memberRepo.On("FindByID", "subject-1").Return(profileSubject(), nil)

	_, err := svc.UpdateProfile(context.Background(), "subject-1", &UpdateProfileRequest{Title: &title})
	assert.NoError(t, err)
	memberRepo.AssertCalled(t, "UpdateFields", "subject-1", map[string]interface{}{"title": "Baroness"})
	privateRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUpdateProfile_MobileCreatesMissingPrivateRow(t *testing.T) {
	memberRepo, privateRepo, svc := newMemberFixture(new(mockFriendRepo))
	mobile := "+15550000"
	privateRepo.On("FindByMemberID", "subject-1").Return(nil, gorm.ErrRecordNotFound)
	privateRepo.On("Create", mock.AnythingOfType("*domain.PrivateProfile")).Return(nil)
	memberRepo.On("FindByID", "subject-1").Return(profileSubject(), nil)

	_, err := svc.UpdateProfile(context.Background(), "subject-1", &UpdateProfileRequest{MobileNumber: &mobile})
	assert.NoError(t, err)

	created := firstCall(t, &privateRepo.Mock, "Create").Get(0).(*domain.PrivateProfile)
	assert.Equal(t, "+15550000", created.MobileNumber)
	memberRepo.AssertNotCalled(t, "UpdateFields", mock.Anything, mock.Anything)
}

func TestDirectory_NeverLeaksTier(t *testing.T) {
	memberRepo, _, svc := newMemberFixture(new(mockFriendRepo))
	memberRepo.On("FindActive", 1, 20, "").Return([]*domain.Member{
		profileSubject(),
	}, int64(1), nil)

	members, total, err := svc.Directory(context.Background(), 0, 0, "")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, members, 1)
	assert.Empty(t, members[0].WealthTier)
}

func TestUploadAvatar_EmptyPayload(t *testing.T) {
	_, _, svc := newMemberFixture(new(mockFriendRepo))

	_, err := svc.UploadAvatar(context.Background(), "subject-1", &AvatarUpload{})
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}
