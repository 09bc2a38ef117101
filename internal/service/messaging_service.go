package service

import (
	"context"
	"errors"
	"strings"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/repository"
	"github.com/aurora-society/aurora-backend/internal/ws"
	pkglogger "github.com/aurora-society/aurora-backend/pkg/logger"
	"gorm.io/gorm"
)

// MessagingService direct conversations and their messages
type MessagingService interface {
	StartConversation(ctx context.Context, memberID, peerID string) (*domain.Conversation, error)
	ListConversations(ctx context.Context, memberID string) ([]*domain.ConversationSummary, error)
	ListMessages(ctx context.Context, memberID, conversationID string, page, limit int) ([]*domain.Message, int64, error)
	SendMessage(ctx context.Context, memberID, conversationID, content string) (*domain.Message, error)
	MarkRead(ctx context.Context, memberID, conversationID string) error
	DeleteMessage(ctx context.Context, memberID, messageID string) error
	DeleteConversation(ctx context.Context, memberID, conversationID string) error
}

type messagingService struct {
	convRepo   repository.ConversationRepository
	msgRepo    repository.MessageRepository
	memberRepo repository.MemberRepository
	friendRepo repository.FriendshipRepository
	hub        *ws.Hub
}

// NewMessagingService creates a new MessagingService
func NewMessagingService(
	convRepo repository.ConversationRepository,
	msgRepo repository.MessageRepository,
	memberRepo repository.MemberRepository,
	friendRepo repository.FriendshipRepository,
	hub *ws.Hub,
) MessagingService {
	return &messagingService{
		convRepo:   convRepo,
		msgRepo:    msgRepo,
		memberRepo: memberRepo,
		friendRepo: friendRepo,
		hub:        hub,
	}
}

// StartConversation returns the direct conversation with the peer, creating
// it if none exists. Messaging requires an accepted connection.
func (s *messagingService) StartConversation(ctx context.Context, memberID, peerID string) (*domain.Conversation, error) {
	if memberID == peerID {
		return nil, common.E(common.KindValidation, common.ErrInvalidInput)
	}

	connected, err := s.friendRepo.ExistsBetween(memberID, peerID)
	if err != nil {
		return nil, err
	}
	if !connected {
		return nil, common.E(common.KindAuth, common.ErrNotConnected)
	}

	existing, err := s.convRepo.FindDirectBetween(memberID, peerID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv := &domain.Conversation{Type: "direct"}
	if err := s.convRepo.CreateWithMembers(conv, []string{memberID, peerID}); err != nil {
		return nil, err
	}
	return conv, nil
}

// ListConversations returns the member's threads with the peer card and the
// latest message of each
func (s *messagingService) ListConversations(ctx context.Context, memberID string) ([]*domain.ConversationSummary, error) {
	convs, err := s.convRepo.FindByMember(memberID)
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.ConversationSummary, 0, len(convs))
	for _, conv := range convs {
		summary := &domain.ConversationSummary{
			ID:        conv.ID,
			Title:     conv.Title,
			UpdatedAt: conv.UpdatedAt,
		}

		memberIDs, err := s.convRepo.FindMemberIDs(conv.ID)
		if err != nil {
			return nil, err
		}
		for _, id := range memberIDs {
			if id == memberID {
				continue
			}
			peer, err := s.memberRepo.FindByID(id)
			if err == nil {
				summary.Peer = peer.ToSummary()
			}
			break
		}

		last, err := s.msgRepo.FindLastByConversation(conv.ID)
		if err == nil {
			summary.LastMessage = last
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// ListMessages pages a conversation's messages for a participant
func (s *messagingService) ListMessages(ctx context.Context, memberID, conversationID string, page, limit int) ([]*domain.Message, int64, error) {
	if err := s.requireMember(conversationID, memberID); err != nil {
		return nil, 0, err
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.msgRepo.FindByConversation(conversationID, page, limit)
}

// SendMessage inserts a message and pushes it to open subscriptions.
// Whitespace-only content never reaches the database.
func (s *messagingService) SendMessage(ctx context.Context, memberID, conversationID, content string) (*domain.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.E(common.KindValidation, common.ErrEmptyMessage)
	}
	if err := s.requireMember(conversationID, memberID); err != nil {
		return nil, err
	}

	msg := &domain.Message{
		ConversationID: conversationID,
		SenderID:       memberID,
		Content:        content,
	}
	if err := s.msgRepo.Create(msg); err != nil {
		return nil, err
	}

	// Recency bump is best-effort; the message is already persisted
	if err := s.convRepo.Touch(conversationID); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("conversation_id", conversationID).Msg("conversation touch failed")
	}

	if s.hub != nil {
		s.hub.BroadcastMessage(msg)
	}
	return msg, nil
}

// MarkRead flags the peer's messages as read for this member
func (s *messagingService) MarkRead(ctx context.Context, memberID, conversationID string) error {
	if err := s.requireMember(conversationID, memberID); err != nil {
		return err
	}
	return s.msgRepo.MarkRead(conversationID, memberID)
}

// DeleteMessage removes a message; only its sender may do so
func (s *messagingService) DeleteMessage(ctx context.Context, memberID, messageID string) error {
	msg, err := s.msgRepo.FindByID(messageID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.E(common.KindNotFound, common.ErrNotFound)
		}
		return err
	}
	if msg.SenderID != memberID {
		return common.E(common.KindAuth, common.ErrNotSender)
	}
	return s.msgRepo.Delete(messageID)
}

// DeleteConversation cascades a thread the member participates in
func (s *messagingService) DeleteConversation(ctx context.Context, memberID, conversationID string) error {
	if err := s.requireMember(conversationID, memberID); err != nil {
		return err
	}
	return s.convRepo.DeleteCascade(conversationID)
}

func (s *messagingService) requireMember(conversationID, memberID string) error {
	ok, err := s.convRepo.IsMember(conversationID, memberID)
	if err != nil {
		return err
	}
	if !ok {
		return common.E(common.KindAuth, common.ErrNotParticipant)
	}
	return nil
}
