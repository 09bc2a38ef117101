package repository

import (
	"time"

	"github.com/aurora-society/aurora-backend/internal/domain"
	"gorm.io/gorm"
)

// ConversationRepository conversation and membership data access
type ConversationRepository interface {
	CreateWithMembers(conv *domain.Conversation, memberIDs []string) error
	FindByID(id string) (*domain.Conversation, error)
	FindByMember(memberID string) ([]*domain.Conversation, error)
	FindDirectBetween(memberA, memberB string) (*domain.Conversation, error)
	FindMemberIDs(conversationID string) ([]string, error)
	IsMember(conversationID, memberID string) (bool, error)
	Touch(conversationID string) error
	DeleteCascade(conversationID string) error
	DeleteAllForMember(memberID string) error
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository creates a new ConversationRepository
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

// CreateWithMembers inserts the conversation and its membership rows together
func (r *conversationRepository) CreateWithMembers(conv *domain.Conversation, memberIDs []string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(conv).Error; err != nil {
			return err
		}
		for _, id := range memberIDs {
			member := &domain.ConversationMember{
				ConversationID: conv.ID,
				MemberID:       id,
				JoinedAt:       time.Now(),
			}
			if err := tx.Create(member).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *conversationRepository) FindByID(id string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.Where("id = ?", id).First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

// FindByMember lists the member's conversations, most recently active first
func (r *conversationRepository) FindByMember(memberID string) ([]*domain.Conversation, error) {
	var convs []*domain.Conversation
	err := r.db.
		Joins("JOIN conversation_members cm ON cm.conversation_id = conversations.id").
		Where("cm.member_id = ?", memberID).
		Order("conversations.updated_at DESC").
		Find(&convs).Error
	return convs, err
}

// FindDirectBetween returns the existing direct conversation between two
// members, if one exists
func (r *conversationRepository) FindDirectBetween(memberA, memberB string) (*domain.Conversation, error) {
	var conv domain.Conversation
	err := r.db.
		Joins("JOIN conversation_members a ON a.conversation_id = conversations.id AND a.member_id = ?", memberA).
		Joins("JOIN conversation_members b ON b.conversation_id = conversations.id AND b.member_id = ?", memberB).
		Where("conversations.type = ?", "direct").
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *conversationRepository) FindMemberIDs(conversationID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&domain.ConversationMember{}).
		Where("conversation_id = ?", conversationID).
		Pluck("member_id", &ids).Error
	return ids, err
}

func (r *conversationRepository) IsMember(conversationID, memberID string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.ConversationMember{}).
		Where("conversation_id = ? AND member_id = ?", conversationID, memberID).
		Count(&count).Error
	return count > 0, err
}

// Touch bumps updated_at so recency ordering reflects the latest message
func (r *conversationRepository) Touch(conversationID string) error {
	return r.db.Model(&domain.Conversation{}).Where("id = ?", conversationID).
		Update("updated_at", time.Now()).Error
}

// DeleteCascade removes messages, then membership rows, then the
// conversation, in that order, to respect foreign-key dependencies
func (r *conversationRepository) DeleteCascade(conversationID string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("conversation_id = ?", conversationID).
			Delete(&domain.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", conversationID).
			Delete(&domain.ConversationMember{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", conversationID).
			Delete(&domain.Conversation{}).Error
	})
}

// DeleteAllForMember cascades every conversation the member belongs to
func (r *conversationRepository) DeleteAllForMember(memberID string) error {
	var ids []string
	if err := r.db.Model(&domain.ConversationMember{}).
		Where("member_id = ?", memberID).
		Pluck("conversation_id", &ids).Error; err != nil {
		return err
	}
	for _, id := range ids {
		if err := r.DeleteCascade(id); err != nil {
			return err
		}
	}
	return nil
}
