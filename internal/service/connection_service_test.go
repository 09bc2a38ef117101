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

type connectionFixture struct {
	requestRepo *mockRequestRepo
	friendRepo  *mockFriendRepo
	memberRepo  *mockMemberRepo
	svc         ConnectionService
}

func newConnectionFixture() *connectionFixture {
	f := &connectionFixture{
		requestRepo: new(mockRequestRepo),
		friendRepo:  new(mockFriendRepo),
		memberRepo:  new(mockMemberRepo),
	}
	f.svc = NewConnectionService(f.requestRepo, f.friendRepo, f.memberRepo)
	return f
}

func TestSendRequest_Success(t *testing.T) {
	f := newConnectionFixture()
	f.memberRepo.On("FindByID", "bob").Return(&domain.Member{ID: "bob"}, nil)
	f.friendRepo.On("ExistsBetween", "alice", "bob").Return(false, nil)
	f.requestRepo.On("FindByPair", "alice", "bob").Return(nil, gorm.ErrRecordNotFound)
	f.requestRepo.On("FindByPair", "bob", "alice").Return(nil, gorm.ErrRecordNotFound)
	f.requestRepo.On("Create", mock.AnythingOfType("*domain.ConnectionRequest")).Return(nil)

	request, err := f.svc.SendRequest(context.Background(), "alice", "bob")
	assert.NoError(t, err)
	assert.Equal(t, "alice", request.RequesterID)
	assert.Equal(t, "bob", request.RecipientID)
	assert.Equal(t, domain.RequestPending, request.Status)
}

func TestSendRequest_ToSelf(t *testing.T) {
	f := newConnectionFixture()

	_, err := f.svc.SendRequest(context.Background(), "alice", "alice")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	f.requestRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSendRequest_UnknownRecipient(t *testing.T) {
	f := newConnectionFixture()
	f.memberRepo.On("FindByID", "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, err := f.svc.SendRequest(context.Background(), "alice", "ghost")
	assert.ErrorIs(t, err, common.ErrMemberNotFound)
}

func TestSendRequest_AlreadyConnected(t *testing.T) {
	f := newConnectionFixture()
	f.memberRepo.On("FindByID", "bob").Return(&domain.Member{ID: "bob"}, nil)
	f.friendRepo.On("ExistsBetween", "alice", "bob").Return(true, nil)

	_, err := f.svc.SendRequest(context.Background(), "alice", "bob")
	assert.ErrorIs(t, err, common.ErrAlreadyConnected)
	f.requestRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSendRequest_PendingCounterRequest(t *testing.T) {
	// Bob already asked Alice; her request should surface the existing one
	f := newConnectionFixture()
	f.memberRepo.On("FindByID", "bob").Return(&domain.Member{ID: "bob"}, nil)
	f.friendRepo.On("ExistsBetween", "alice", "bob").Return(false, nil)
	f.requestRepo.On("FindByPair", "alice", "bob").Return(nil, gorm.ErrRecordNotFound)
	f.requestRepo.On("FindByPair", "bob", "alice").Return(&domain.ConnectionRequest{
		ID: "req-9", RequesterID: "bob", RecipientID: "alice", Status: domain.RequestPending,
	}, nil)

	_, err := f.svc.SendRequest(context.Background(), "alice", "bob")
	assert.ErrorIs(t, err, common.ErrRequestExists)
	f.requestRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSendRequest_OldRejectedRequestDoesNotBlock(t *testing.T) {
	f := newConnectionFixture()
	f.memberRepo.On("FindByID", "bob").Return(&domain.Member{ID: "bob"}, nil)
	f.friendRepo.On("ExistsBetween", "alice", "bob").Return(false, nil)
	f.requestRepo.On("FindByPair", "alice", "bob").Return(&domain.ConnectionRequest{
		ID: "req-old", Status: domain.RequestRejected,
	}, nil)
	f.requestRepo.On("FindByPair", "bob", "alice").Return(nil, gorm.ErrRecordNotFound)
	f.requestRepo.On("Create", mock.AnythingOfType("*domain.ConnectionRequest")).Return(nil)

	_, err := f.svc.SendRequest(context.Background(), "alice", "bob")
	assert.NoError(t, err)
}

func TestAcceptRequest_CreatesBothRows(t *testing.T) {
	f := newConnectionFixture()
	f.requestRepo.On("FindByID", "req-1").Return(&domain.ConnectionRequest{
		ID: "req-1", RequesterID: "alice", RecipientID: "bob", Status: domain.RequestPending,
	}, nil)
	f.friendRepo.On("CreatePair",
		mock.AnythingOfType("*domain.Friendship"),
		mock.AnythingOfType("*domain.Friendship")).Return(nil)
	f.requestRepo.On("UpdateStatus", "req-1", domain.RequestAccepted).Return(nil)

	err := f.svc.AcceptRequest(context.Background(), "bob", "req-1")
	assert.NoError(t, err)

	args := firstCall(t, &f.friendRepo.Mock, "CreatePair")
	forward := args.Get(0).(*domain.Friendship)
	mirror := args.Get(1).(*domain.Friendship)
	assert.Equal(t, "alice", forward.MemberID)
	assert.Equal(t, "bob", forward.FriendID)
	assert.Equal(t, "bob", mirror.MemberID)
	assert.Equal(t, "alice", mirror.FriendID)
	// Every grant starts closed on both sides
	assert.Equal(t, domain.Grants{}, domain.GrantsOf(forward))
	assert.Equal(t, domain.Grants{}, domain.GrantsOf(mirror))
}

func TestAcceptRequest_WrongRecipient(t *testing.T) {
	f := newConnectionFixture()
	f.requestRepo.On("FindByID", "req-1").Return(&domain.ConnectionRequest{
		ID: "req-1", RequesterID: "alice", RecipientID: "bob", Status: domain.RequestPending,
	}, nil)

	err := f.svc.AcceptRequest(context.Background(), "mallory", "req-1")
	assert.ErrorIs(t, err, common.ErrForbidden)
	f.friendRepo.AssertNotCalled(t, "CreatePair", mock.Anything, mock.Anything)
}

func TestAcceptRequest_AlreadyDecided(t *testing.T) {
	f := newConnectionFixture()
	f.requestRepo.On("FindByID", "req-1").Return(&domain.ConnectionRequest{
		ID: "req-1", RequesterID: "alice", RecipientID: "bob", Status: domain.RequestAccepted,
	}, nil)

	err := f.svc.AcceptRequest(context.Background(), "bob", "req-1")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestRejectRequest(t *testing.T) {
	f := newConnectionFixture()
	f.requestRepo.On("FindByID", "req-1").Return(&domain.ConnectionRequest{
		ID: "req-1", RequesterID: "alice", RecipientID: "bob", Status: domain.RequestPending,
	}, nil)
	f.requestRepo.On("UpdateStatus", "req-1", domain.RequestRejected).Return(nil)

	err := f.svc.RejectRequest(context.Background(), "bob", "req-1")
	assert.NoError(t, err)
	f.friendRepo.AssertNotCalled(t, "CreatePair", mock.Anything, mock.Anything)
}

func TestListConnections_BothDirections(t *testing.T) {
	f := newConnectionFixture()
	f.friendRepo.On("FindByMember", "alice").Return([]*domain.Friendship{
		{ID: "f-1", MemberID: "alice", FriendID: "bob", BusinessAccess: true},
	}, nil)
	f.memberRepo.On("FindSummariesByIDs", []string{"bob"}).Return(map[string]*domain.MemberSummary{
		"bob": {ID: "bob", FirstName: "Bob"},
	}, nil)
	f.friendRepo.On("FindByOwnerAndFriend", "bob", "alice").Return(&domain.Friendship{
		MemberID: "bob", FriendID: "alice", PersonalAccess: true,
	}, nil)

	connections, err := f.svc.ListConnections(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Len(t, connections, 1)
	assert.Equal(t, "bob", connections[0].Peer.ID)
	assert.True(t, connections[0].GrantedToPeer.Business)
	assert.False(t, connections[0].GrantedToPeer.Personal)
	assert.True(t, connections[0].GrantedByPeer.Personal)
	assert.False(t, connections[0].GrantedByPeer.Business)
}

func TestUpdateGrants_NotConnected(t *testing.T) {
	f := newConnectionFixture()
	f.friendRepo.On("UpdateGrants", "alice", "stranger", mock.Anything).Return(gorm.ErrRecordNotFound)

	err := f.svc.UpdateGrants(context.Background(), "alice", "stranger", domain.Grants{Business: true})
	assert.ErrorIs(t, err, common.ErrNotConnected)
	assert.Equal(t, common.KindNotFound, common.KindOf(err))
}

func TestRemoveConnection_NotConnected(t *testing.T) {
	f := newConnectionFixture()
	f.friendRepo.On("ExistsBetween", "alice", "stranger").Return(false, nil)

	err := f.svc.RemoveConnection(context.Background(), "alice", "stranger")
	assert.ErrorIs(t, err, common.ErrNotConnected)
	f.friendRepo.AssertNotCalled(t, "DeletePair", mock.Anything, mock.Anything)
}

func TestRemoveConnection_DeletesPair(t *testing.T) {
	f := newConnectionFixture()
	f.friendRepo.On("ExistsBetween", "alice", "bob").Return(true, nil)
	f.friendRepo.On("DeletePair", "alice", "bob").Return(nil)

	err := f.svc.RemoveConnection(context.Background(), "alice", "bob")
	assert.NoError(t, err)
	f.friendRepo.AssertCalled(t, "DeletePair", "alice", "bob")
}
