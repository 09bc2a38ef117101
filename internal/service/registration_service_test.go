package service

import (
	"context"
	"testing"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/outbox"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type registrationFixture struct {
	memberRepo  *mockMemberRepo
	privateRepo *mockPrivateRepo
	refRepo     *mockReferralRepo
	linkRepo    *mockLinkRepo
	linkedRepo  *mockLinkedRepo
	verifyRepo  *mockVerifyRepo
	svc         RegistrationService
}

func newRegistrationFixture(t *testing.T) *registrationFixture {
	t.Helper()

	f := &registrationFixture{
		memberRepo:  new(mockMemberRepo),
		privateRepo: new(mockPrivateRepo),
		refRepo:     new(mockReferralRepo),
		linkRepo:    new(mockLinkRepo),
		linkedRepo:  new(mockLinkedRepo),
		verifyRepo:  new(mockVerifyRepo),
	}

	referrals := NewReferralService(
		f.memberRepo, f.linkRepo, f.refRepo,
		newMemoryCache(), outbox.New(8), &mockMailer{}, "https://aurora.test",
	)
	f.svc = NewRegistrationService(
		f.memberRepo, f.privateRepo, f.refRepo, f.linkRepo, f.linkedRepo, f.verifyRepo,
		referrals, newMemoryDrafts(), nil, outbox.New(8), &mockMailer{},
	)
	return f
}

func (f *registrationFixture) stubSponsor() {
	sponsor := &domain.Member{
		ID:           "sponsor-1",
		Email:        "sponsor@aurora.test",
		FirstName:    "Ada",
		LastName:     "Byron",
		ReferralCode: "AURORA-AB12CD",
		IsActive:     true,
	}
	f.memberRepo.On("FindByReferralCode", "AURORA-AB12CD").Return(sponsor, nil)
	f.memberRepo.On("FindByID", "sponsor-1").Return(sponsor, nil)
}

func (f *registrationFixture) stubHappyPath() {
	f.memberRepo.On("ExistsByEmail", mock.Anything).Return(false, nil)
	f.memberRepo.On("ExistsByReferralCode", mock.Anything).Return(false, nil)
	f.memberRepo.On("Create", mock.AnythingOfType("*domain.Member")).Return(nil)
	f.privateRepo.On("Create", mock.AnythingOfType("*domain.PrivateProfile")).Return(nil)
	f.refRepo.On("Create", mock.AnythingOfType("*domain.Referral")).Return(nil)
	f.verifyRepo.On("Create", mock.AnythingOfType("*domain.VerificationSession")).Return(nil)
}

func baseRegisterRequest() *RegisterRequest {
	amount := 25.0
	return &RegisterRequest{
		Email:          "new@aurora.test",
		Password:       "long-enough-password",
		FirstName:      "Grace",
		LastName:       "Hopper",
		MobileNumber:   "+33600000000",
		WealthTier:     "tier-3",
		WealthAmount:   &amount,
		WealthCurrency: "EUR",
		WealthUnit:     "million",
		ReferralCode:   "AURORA-AB12CD",
	}
}

func TestRegister_WithSponsorCode(t *testing.T) {
	f := newRegistrationFixture(t)
	f.stubSponsor()
	f.stubHappyPath()

	result, err := f.svc.Register(context.Background(), baseRegisterRequest())
	assert.NoError(t, err)
	assert.True(t, result.AwaitingApproval)
	assert.NotEmpty(t, result.VerificationToken)

	created := firstCall(t, &f.memberRepo.Mock, "Create").Get(0).(*domain.Member)
	assert.False(t, created.IsActive, "member must stay locked until sponsor approval")
	assert.False(t, created.IsLinkedAccount)
	assert.Equal(t, "tier-3", created.WealthTier)
	assert.Equal(t, CodeSponsor, ClassifyCode(created.ReferralCode), "member gets their own fresh code")
	assert.NotEqual(t, "AURORA-AB12CD", created.ReferralCode)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("long-enough-password")))

	referral := firstCall(t, &f.refRepo.Mock, "Create").Get(0).(*domain.Referral)
	assert.Equal(t, "sponsor-1", referral.SponsorID)
	assert.Nil(t, referral.SponsorApproved, "approval starts undecided, not false")
	assert.Equal(t, domain.ReferralPending, referral.Status)

	f.linkedRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_WithFamilyLink(t *testing.T) {
	f := newRegistrationFixture(t)
	f.stubSponsor()
	f.stubHappyPath()
	f.linkRepo.On("FindByLinkCode", "AURORA-LINK-XY34ZW").Return(&domain.ReferralLink{
		ID:           "link-1",
		SponsorID:    "sponsor-1",
		ReferralCode: "AURORA-AB12CD",
		LinkCode:     "AURORA-LINK-XY34ZW",
		IsFamilyLink: true,
		IsActive:     true,
	}, nil)
	f.linkedRepo.On("Create", mock.AnythingOfType("*domain.LinkedAccount")).Return(nil)

	req := baseRegisterRequest()
	req.ReferralCode = ""
	req.LinkCode = "AURORA-LINK-XY34ZW"

	_, err := f.svc.Register(context.Background(), req)
	assert.NoError(t, err)

	created := firstCall(t, &f.memberRepo.Mock, "Create").Get(0).(*domain.Member)
	assert.True(t, created.IsLinkedAccount)
	assert.Empty(t, created.WealthTier, "family registrations never carry tier data")

	private := firstCall(t, &f.privateRepo.Mock, "Create").Get(0).(*domain.PrivateProfile)
	assert.Nil(t, private.WealthAmount, "family registrations never carry wealth data")
	assert.Empty(t, private.WealthCurrency)

	linked := firstCall(t, &f.linkedRepo.Mock, "Create").Get(0).(*domain.LinkedAccount)
	assert.Equal(t, "sponsor-1", linked.SponsorID)
	assert.Equal(t, "family", linked.RelationType)
}

func TestRegister_NoCodeNoLink(t *testing.T) {
	f := newRegistrationFixture(t)

	req := baseRegisterRequest()
	req.ReferralCode = ""

	_, err := f.svc.Register(context.Background(), req)
	assert.ErrorIs(t, err, common.ErrCodeRequired)
	f.memberRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newRegistrationFixture(t)
	f.stubSponsor()
	f.memberRepo.On("ExistsByEmail", "new@aurora.test").Return(true, nil)

	_, err := f.svc.Register(context.Background(), baseRegisterRequest())
	assert.ErrorIs(t, err, common.ErrMemberExists)
	f.memberRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestRegister_ShortPassword(t *testing.T) {
	f := newRegistrationFixture(t)
	f.stubSponsor()

	req := baseRegisterRequest()
	req.Password = "short"

	_, err := f.svc.Register(context.Background(), req)
	assert.Error(t, err)
	assert.Equal(t, common.KindValidation, common.KindOf(err))
}

func TestDraftFlow_RoundTrip(t *testing.T) {
	f := newRegistrationFixture(t)
	f.stubSponsor()
	f.stubHappyPath()

	req := baseRegisterRequest()
	req.Password = "" // phase one carries no credentials

	token, err := f.svc.SaveDraft(context.Background(), req)
	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	result, err := f.svc.CompleteDraft(context.Background(), token, "long-enough-password")
	assert.NoError(t, err)
	assert.True(t, result.AwaitingApproval)

	// The draft is consumed
	_, err = f.svc.CompleteDraft(context.Background(), token, "long-enough-password")
	assert.Error(t, err)
}

func TestRedisDraftStore_NoClientDegradesGracefully(t *testing.T) {
	// redis can be absent at startup; the store must refuse, not crash
	store := NewRedisDraftStore(nil)

	err := store.Save(context.Background(), "tok-1", baseRegisterRequest())
	assert.Error(t, err)
	assert.Equal(t, common.KindTransient, common.KindOf(err))

	_, err = store.Load(context.Background(), "tok-1")
	assert.Error(t, err)
	assert.Equal(t, common.KindTransient, common.KindOf(err))

	assert.NotPanics(t, func() { store.Delete(context.Background(), "tok-1") })
}

// firstCall returns the arguments of the first recorded call to method
func firstCall(t *testing.T, m *mock.Mock, method string) mock.Arguments {
	t.Helper()
	for _, call := range m.Calls {
		if call.Method == method {
			return call.Arguments
		}
	}
	t.Fatalf("no call to %s recorded", method)
	return nil
}
