package service

import (
	"context"
	"errors"
	"testing"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type messagingFixture struct {
	convRepo   *mockConvRepo
	msgRepo    *mockMsgRepo
	memberRepo *mockMemberRepo
	friendRepo *mockFriendRepo
	svc        MessagingService
}

func newMessagingFixture() *messagingFixture {
	f := &messagingFixture{
		convRepo:   new(mockConvRepo),
		msgRepo:    new(mockMsgRepo),
		memberRepo: new(mockMemberRepo),
		friendRepo: new(mockFriendRepo),
	}
	// nil hub: push delivery is exercised at the ws layer
	f.svc = NewMessagingService(f.convRepo, f.msgRepo, f.memberRepo, f.friendRepo, nil)
	return f
}

func TestStartConversation_RequiresConnection(t *testing.T) {
	f := newMessagingFixture()
	f.friendRepo.On("ExistsBetween", "alice", "stranger").Return(false, nil)

	_, err := f.svc.StartConversation(context.Background(), "alice", "stranger")
	assert.ErrorIs(t, err, common.ErrNotConnected)
	assert.Equal(t, common.KindAuth, common.KindOf(err))
	f.convRepo.AssertNotCalled(t, "CreateWithMembers", mock.Anything, mock.Anything)
}

func TestStartConversation_ReusesExistingThread(t *testing.T) {
	f := newMessagingFixture()
	f.friendRepo.On("ExistsBetween", "alice", "bob").Return(true, nil)
	f.convRepo.On("FindDirectBetween", "alice", "bob").Return(&domain.Conversation{ID: "conv-1"}, nil)

	conv, err := f.svc.StartConversation(context.Background(), "alice", "bob")
	assert.NoError(t, err)
	assert.Equal(t, "conv-1", conv.ID)
	f.convRepo.AssertNotCalled(t, "CreateWithMembers", mock.Anything, mock.Anything)
}

func TestStartConversation_CreatesWhenNoneExists(t *testing.T) {
	f := newMessagingFixture()
	f.friendRepo.On("ExistsBetween", "alice", "bob").Return(true, nil)
	f.convRepo.On("FindDirectBetween", "alice", "bob").Return(nil, gorm.ErrRecordNotFound)
	f.convRepo.On("CreateWithMembers", mock.AnythingOfType("*domain.Conversation"), []string{"alice", "bob"}).Return(nil)

	conv, err := f.svc.StartConversation(context.Background(), "alice", "bob")
	assert.NoError(t, err)
	assert.Equal(t, "direct", conv.Type)
}

func TestStartConversation_WithSelf(t *testing.T) {
	f := newMessagingFixture()

	_, err := f.svc.StartConversation(context.Background(), "alice", "alice")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestSendMessage_WhitespaceOnly(t *testing.T) {
	f := newMessagingFixture()

	_, err := f.svc.SendMessage(context.Background(), "alice", "conv-1", "   \n\t ")
	assert.ErrorIs(t, err, common.ErrEmptyMessage)
	f.msgRepo.AssertNotCalled(t, "Create", mock.Anything)
	f.convRepo.AssertNotCalled(t, "IsMember", mock.Anything, mock.Anything)
}

func TestSendMessage_NonParticipant(t *testing.T) {
	f := newMessagingFixture()
	f.convRepo.On("IsMember", "conv-1", "mallory").Return(false, nil)

	_, err := f.svc.SendMessage(context.Background(), "mallory", "conv-1", "hello")
	assert.ErrorIs(t, err, common.ErrNotParticipant)
	f.msgRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestSendMessage_TrimsAndPersists(t *testing.T) {
	f := newMessagingFixture()
	f.convRepo.On("IsMember", "conv-1", "alice").Return(true, nil)
	f.msgRepo.On("Create", mock.AnythingOfType("*domain.Message")).Return(nil)
	f.convRepo.On("Touch", "conv-1").Return(nil)

	msg, err := f.svc.SendMessage(context.Background(), "alice", "conv-1", "  hello bob  ")
	assert.NoError(t, err)
	assert.Equal(t, "hello bob", msg.Content)
	assert.Equal(t, "alice", msg.SenderID)
	f.convRepo.AssertCalled(t, "Touch", "conv-1")
}

func TestSendMessage_TouchFailureIsNotFatal(t *testing.T) {
	f := newMessagingFixture()
	f.convRepo.On("IsMember", "conv-1", "alice").Return(true, nil)
	f.msgRepo.On("Create", mock.AnythingOfType("*domain.Message")).Return(nil)
	f.convRepo.On("Touch", "conv-1").Return(errors.New("deadlock"))

	msg, err := f.svc.SendMessage(context.Background(), "alice", "conv-1", "hello")
	assert.NoError(t, err, "the message is already persisted")
	assert.NotNil(t, msg)
}

func TestListMessages_ClampsPaging(t *testing.T) {
	f := newMessagingFixture()
	f.convRepo.On("IsMember", "conv-1", "alice").Return(true, nil)
	f.msgRepo.On("FindByConversation", "conv-1", 1, 50).Return([]*domain.Message{}, int64(0), nil)

	_, _, err := f.svc.ListMessages(context.Background(), "alice", "conv-1", 0, 9999)
	assert.NoError(t, err)
	f.msgRepo.AssertCalled(t, "FindByConversation", "conv-1", 1, 50)
}

func TestDeleteMessage_OnlySender(t *testing.T) {
	f := newMessagingFixture()
	f.msgRepo.On("FindByID", "msg-1").Return(&domain.Message{
		ID: "msg-1", SenderID: "alice", ConversationID: "conv-1",
	}, nil)

	err := f.svc.DeleteMessage(context.Background(), "bob", "msg-1")
	assert.ErrorIs(t, err, common.ErrNotSender)
	f.msgRepo.AssertNotCalled(t, "Delete", mock.Anything)
}

func TestDeleteMessage_BySender(t *testing.T) {
	f := newMessagingFixture()
	f.msgRepo.On("FindByID", "msg-1").Return(&domain.Message{
		ID: "msg-1", SenderID: "alice",
	}, nil)
	f.msgRepo.On("Delete", "msg-1").Return(nil)

	err := f.svc.DeleteMessage(context.Background(), "alice", "msg-1")
	assert.NoError(t, err)
}

func TestMarkRead_NonParticipant(t *testing.T) {
	f := newMessagingFixture()
	f.convRepo.On("IsMember", "conv-1", "mallory").Return(false, nil)

	err := f.svc.MarkRead(context.Background(), "mallory", "conv-1")
	assert.ErrorIs(t, err, common.ErrNotParticipant)
	f.msgRepo.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
}

func TestDeleteConversation_Cascades(t *testing.T) {
	f := newMessagingFixture()
	f.convRepo.On("IsMember", "conv-1", "alice").Return(true, nil)
	f.convRepo.On("DeleteCascade", "conv-1").Return(nil)

	err := f.svc.DeleteConversation(context.Background(), "alice", "conv-1")
	assert.NoError(t, err)
	f.convRepo.AssertCalled(t, "DeleteCascade", "conv-1")
}

func TestListConversations_PeerAndLastMessage(t *testing.T) {
	f := newMessagingFixture()
	f.convRepo.On("FindByMember", "alice").Return([]*domain.Conversation{
		{ID: "conv-1", Type: "direct"},
	}, nil)
	f.convRepo.On("FindMemberIDs", "conv-1").Return([]string{"alice", "bob"}, nil)
	f.memberRepo.On("FindByID", "bob").Return(&domain.Member{ID: "bob", FirstName: "Bob"}, nil)
	f.msgRepo.On("FindLastByConversation", "conv-1").Return(&domain.Message{
		ID: "msg-9", Content: "see you there",
	}, nil)

	summaries, err := f.svc.ListConversations(context.Background(), "alice")
	assert.NoError(t, err)
	assert.Len(t, summaries, 1)
	assert.Equal(t, "bob", summaries[0].Peer.ID)
	assert.Equal(t, "see you there", summaries[0].LastMessage.Content)
}
