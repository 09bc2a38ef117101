package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/stretchr/testify/mock"
)

var errNoDraft = errors.New("draft not found")

// --- Mock MemberRepository ---

type mockMemberRepo struct {
	mock.Mock
}

func (m *mockMemberRepo) FindByID(id string) (*domain.Member, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) FindByEmail(email string) (*domain.Member, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) FindByReferralCode(code string) (*domain.Member, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *mockMemberRepo) FindSummariesByIDs(ids []string) (map[string]*domain.MemberSummary, error) {
	args := m.Called(ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*domain.MemberSummary), args.Error(1)
}

func (m *mockMemberRepo) Create(member *domain.Member) error {
	return m.Called(member).Error(0)
}

func (m *mockMemberRepo) Update(member *domain.Member) error {
	return m.Called(member).Error(0)
}

func (m *mockMemberRepo) UpdateFields(id string, fields map[string]interface{}) error {
	return m.Called(id, fields).Error(0)
}

func (m *mockMemberRepo) UpdateLoginTime(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockMemberRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockMemberRepo) ExistsByEmail(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func (m *mockMemberRepo) ExistsByReferralCode(code string) (bool, error) {
	args := m.Called(code)
	return args.Bool(0), args.Error(1)
}

func (m *mockMemberRepo) FindActive(page, limit int, keyword string) ([]*domain.Member, int64, error) {
	args := m.Called(page, limit, keyword)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Member), args.Get(1).(int64), args.Error(2)
}

func (m *mockMemberRepo) FindAll(page, limit int, keyword string) ([]*domain.Member, int64, error) {
	args := m.Called(page, limit, keyword)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Member), args.Get(1).(int64), args.Error(2)
}

// --- Mock ReferralRepository ---

type mockReferralRepo struct {
	mock.Mock
}

func (m *mockReferralRepo) Create(referral *domain.Referral) error {
	return m.Called(referral).Error(0)
}

func (m *mockReferralRepo) FindByID(id string) (*domain.Referral, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Referral), args.Error(1)
}

func (m *mockReferralRepo) FindByReferredID(referredID string) (*domain.Referral, error) {
	args := m.Called(referredID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Referral), args.Error(1)
}

func (m *mockReferralRepo) FindBySponsorID(sponsorID string) ([]*domain.Referral, error) {
	args := m.Called(sponsorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Referral), args.Error(1)
}

func (m *mockReferralRepo) Update(referral *domain.Referral) error {
	return m.Called(referral).Error(0)
}

func (m *mockReferralRepo) FindAll(page, limit int, approvalState string) ([]*domain.Referral, int64, error) {
	args := m.Called(page, limit, approvalState)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Referral), args.Get(1).(int64), args.Error(2)
}

func (m *mockReferralRepo) DeleteForMember(memberID string) error {
	return m.Called(memberID).Error(0)
}

// --- Mock ReferralLinkRepository ---

type mockLinkRepo struct {
	mock.Mock
}

func (m *mockLinkRepo) Create(link *domain.ReferralLink) error {
	return m.Called(link).Error(0)
}

func (m *mockLinkRepo) FindByID(id string) (*domain.ReferralLink, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralLink), args.Error(1)
}

func (m *mockLinkRepo) FindByLinkCode(code string) (*domain.ReferralLink, error) {
	args := m.Called(code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReferralLink), args.Error(1)
}

func (m *mockLinkRepo) FindBySponsorID(sponsorID string) ([]*domain.ReferralLink, error) {
	args := m.Called(sponsorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReferralLink), args.Error(1)
}

func (m *mockLinkRepo) IncrementClicks(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockLinkRepo) IncrementRegistrations(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockLinkRepo) Deactivate(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockLinkRepo) DeleteBySponsorID(sponsorID string) error {
	return m.Called(sponsorID).Error(0)
}

// --- Mock LinkedAccountRepository ---

type mockLinkedRepo struct {
	mock.Mock
}

func (m *mockLinkedRepo) Create(account *domain.LinkedAccount) error {
	return m.Called(account).Error(0)
}

func (m *mockLinkedRepo) FindBySponsorID(sponsorID string) ([]*domain.LinkedAccount, error) {
	args := m.Called(sponsorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.LinkedAccount), args.Error(1)
}

func (m *mockLinkedRepo) FindByLinkedMemberID(memberID string) (*domain.LinkedAccount, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LinkedAccount), args.Error(1)
}

func (m *mockLinkedRepo) DeleteForMember(memberID string) error {
	return m.Called(memberID).Error(0)
}

// --- Mock PrivateProfileRepository ---

type mockPrivateRepo struct {
	mock.Mock
}

func (m *mockPrivateRepo) Create(profile *domain.PrivateProfile) error {
	return m.Called(profile).Error(0)
}

func (m *mockPrivateRepo) FindByMemberID(memberID string) (*domain.PrivateProfile, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PrivateProfile), args.Error(1)
}

func (m *mockPrivateRepo) Update(profile *domain.PrivateProfile) error {
	return m.Called(profile).Error(0)
}

func (m *mockPrivateRepo) DeleteByMemberID(memberID string) error {
	return m.Called(memberID).Error(0)
}

// --- Mock VerificationRepository ---

type mockVerifyRepo struct {
	mock.Mock
}

func (m *mockVerifyRepo) Create(session *domain.VerificationSession) error {
	return m.Called(session).Error(0)
}

func (m *mockVerifyRepo) FindByToken(token string) (*domain.VerificationSession, error) {
	args := m.Called(token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationSession), args.Error(1)
}

func (m *mockVerifyRepo) UpdateStatusByToken(token, status string) error {
	return m.Called(token, status).Error(0)
}

func (m *mockVerifyRepo) DeleteByMember(memberID string) error {
	return m.Called(memberID).Error(0)
}

// --- Mock FriendshipRepository ---

type mockFriendRepo struct {
	mock.Mock
}

func (m *mockFriendRepo) CreatePair(a, b *domain.Friendship) error {
	return m.Called(a, b).Error(0)
}

func (m *mockFriendRepo) FindPair(memberA, memberB string) ([]*domain.Friendship, error) {
	args := m.Called(memberA, memberB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Friendship), args.Error(1)
}

func (m *mockFriendRepo) FindByOwnerAndFriend(ownerID, friendID string) (*domain.Friendship, error) {
	args := m.Called(ownerID, friendID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Friendship), args.Error(1)
}

func (m *mockFriendRepo) FindByMember(memberID string) ([]*domain.Friendship, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Friendship), args.Error(1)
}

func (m *mockFriendRepo) UpdateGrants(ownerID, friendID string, grants domain.Grants) error {
	return m.Called(ownerID, friendID, grants).Error(0)
}

func (m *mockFriendRepo) DeletePair(memberA, memberB string) error {
	return m.Called(memberA, memberB).Error(0)
}

func (m *mockFriendRepo) DeleteAllForMember(memberID string) error {
	return m.Called(memberID).Error(0)
}

func (m *mockFriendRepo) FindAll(page, limit int) ([]*domain.Friendship, int64, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Friendship), args.Get(1).(int64), args.Error(2)
}

func (m *mockFriendRepo) ExistsBetween(memberA, memberB string) (bool, error) {
	args := m.Called(memberA, memberB)
	return args.Bool(0), args.Error(1)
}

// --- Mock ConnectionRequestRepository ---

type mockRequestRepo struct {
	mock.Mock
}

func (m *mockRequestRepo) Create(req *domain.ConnectionRequest) error {
	return m.Called(req).Error(0)
}

func (m *mockRequestRepo) FindByID(id string) (*domain.ConnectionRequest, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConnectionRequest), args.Error(1)
}

func (m *mockRequestRepo) FindByPair(requesterID, recipientID string) (*domain.ConnectionRequest, error) {
	args := m.Called(requesterID, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConnectionRequest), args.Error(1)
}

func (m *mockRequestRepo) FindPendingForRecipient(recipientID string) ([]*domain.ConnectionRequest, error) {
	args := m.Called(recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ConnectionRequest), args.Error(1)
}

func (m *mockRequestRepo) FindSentByRequester(requesterID string) ([]*domain.ConnectionRequest, error) {
	args := m.Called(requesterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ConnectionRequest), args.Error(1)
}

func (m *mockRequestRepo) UpdateStatus(id, status string) error {
	return m.Called(id, status).Error(0)
}

func (m *mockRequestRepo) DeleteForMember(memberID string) error {
	return m.Called(memberID).Error(0)
}

// --- Mock ConversationRepository ---

type mockConvRepo struct {
	mock.Mock
}

func (m *mockConvRepo) CreateWithMembers(conv *domain.Conversation, memberIDs []string) error {
	return m.Called(conv, memberIDs).Error(0)
}

func (m *mockConvRepo) FindByID(id string) (*domain.Conversation, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConvRepo) FindByMember(memberID string) ([]*domain.Conversation, error) {
	args := m.Called(memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Conversation), args.Error(1)
}

func (m *mockConvRepo) FindDirectBetween(memberA, memberB string) (*domain.Conversation, error) {
	args := m.Called(memberA, memberB)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversation), args.Error(1)
}

func (m *mockConvRepo) FindMemberIDs(conversationID string) ([]string, error) {
	args := m.Called(conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *mockConvRepo) IsMember(conversationID, memberID string) (bool, error) {
	args := m.Called(conversationID, memberID)
	return args.Bool(0), args.Error(1)
}

func (m *mockConvRepo) Touch(conversationID string) error {
	return m.Called(conversationID).Error(0)
}

func (m *mockConvRepo) DeleteCascade(conversationID string) error {
	return m.Called(conversationID).Error(0)
}

func (m *mockConvRepo) DeleteAllForMember(memberID string) error {
	return m.Called(memberID).Error(0)
}

// --- Mock MessageRepository ---

type mockMsgRepo struct {
	mock.Mock
}

func (m *mockMsgRepo) Create(msg *domain.Message) error {
	return m.Called(msg).Error(0)
}

func (m *mockMsgRepo) FindByID(id string) (*domain.Message, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMsgRepo) FindByConversation(conversationID string, page, limit int) ([]*domain.Message, int64, error) {
	args := m.Called(conversationID, page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.Message), args.Get(1).(int64), args.Error(2)
}

func (m *mockMsgRepo) FindLastByConversation(conversationID string) (*domain.Message, error) {
	args := m.Called(conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Message), args.Error(1)
}

func (m *mockMsgRepo) MarkRead(conversationID, readerID string) error {
	return m.Called(conversationID, readerID).Error(0)
}

func (m *mockMsgRepo) Delete(id string) error {
	return m.Called(id).Error(0)
}

// --- Mock TwoFactorRepository ---

type mockTwoFactorRepo struct {
	mock.Mock
}

func (m *mockTwoFactorRepo) Create(code *domain.TwoFactorCode) error {
	return m.Called(code).Error(0)
}

func (m *mockTwoFactorRepo) FindUnusedByMemberAndCode(memberID, code string) (*domain.TwoFactorCode, error) {
	args := m.Called(memberID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TwoFactorCode), args.Error(1)
}

func (m *mockTwoFactorRepo) DeleteUnusedByMember(memberID string) error {
	return m.Called(memberID).Error(0)
}

func (m *mockTwoFactorRepo) MarkUsed(id string) error {
	return m.Called(id).Error(0)
}

func (m *mockTwoFactorRepo) DeleteByMember(memberID string) error {
	return m.Called(memberID).Error(0)
}

// --- Mock ContactRepository ---

type mockContactRepo struct {
	mock.Mock
}

func (m *mockContactRepo) Create(msg *domain.ContactMessage) error {
	return m.Called(msg).Error(0)
}

func (m *mockContactRepo) FindAll(page, limit int) ([]*domain.ContactMessage, int64, error) {
	args := m.Called(page, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*domain.ContactMessage), args.Get(1).(int64), args.Error(2)
}

// --- Mock Mailer ---

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) Send(to, subject, html string) error {
	return m.Called(to, subject, html).Error(0)
}

func (m *mockMailer) SendTwoFactorCode(to, code string) error {
	return m.Called(to, code).Error(0)
}

func (m *mockMailer) SendFamilyInvite(to, sponsorName, linkURL string) error {
	return m.Called(to, sponsorName, linkURL).Error(0)
}

func (m *mockMailer) SendVerificationOutcome(to, status string) error {
	return m.Called(to, status).Error(0)
}

func (m *mockMailer) SendSponsorNotification(to, registrantName string) error {
	return m.Called(to, registrantName).Error(0)
}

func (m *mockMailer) SendContactRelay(name, email, category, message string) error {
	return m.Called(name, email, category, message).Error(0)
}

// --- In-memory ValidationCache ---

type memoryCache struct {
	mu    sync.Mutex
	items map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[string]string)}
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	val, ok := c.items[key]
	return val, ok
}

func (c *memoryCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

// --- In-memory DraftStore ---

type memoryDrafts struct {
	mu    sync.Mutex
	items map[string]*RegisterRequest
}

func newMemoryDrafts() *memoryDrafts {
	return &memoryDrafts{items: make(map[string]*RegisterRequest)}
}

func (d *memoryDrafts) Save(ctx context.Context, token string, req *RegisterRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	copied := *req
	d.items[token] = &copied
	return nil
}

func (d *memoryDrafts) Load(ctx context.Context, token string) (*RegisterRequest, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	req, ok := d.items[token]
	if !ok {
		return nil, errNoDraft
	}
	copied := *req
	return &copied, nil
}

func (d *memoryDrafts) Delete(ctx context.Context, token string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.items, token)
}
