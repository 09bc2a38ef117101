package repository

import (
	"github.com/aurora-society/aurora-backend/internal/domain"
	"gorm.io/gorm"
)

// FriendshipRepository friendship (connection) data access. A connection is
// two directed rows; the pair operations keep them in step.
type FriendshipRepository interface {
	CreatePair(a, b *domain.Friendship) error
	FindPair(memberA, memberB string) ([]*domain.Friendship, error)
	FindByOwnerAndFriend(ownerID, friendID string) (*domain.Friendship, error)
	FindByMember(memberID string) ([]*domain.Friendship, error)
	UpdateGrants(ownerID, friendID string, grants domain.Grants) error
	DeletePair(memberA, memberB string) error
	DeleteAllForMember(memberID string) error
	FindAll(page, limit int) ([]*domain.Friendship, int64, error)
	ExistsBetween(memberA, memberB string) (bool, error)
}

type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository creates a new FriendshipRepository
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// CreatePair inserts both directed rows in one transaction
func (r *friendshipRepository) CreatePair(a, b *domain.Friendship) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		return tx.Create(b).Error
	})
}

// FindPair returns the rows between two members in either direction
func (r *friendshipRepository) FindPair(memberA, memberB string) ([]*domain.Friendship, error) {
	var rows []*domain.Friendship
	err := r.db.Where(
		"(member_id = ? AND friend_id = ?) OR (member_id = ? AND friend_id = ?)",
		memberA, memberB, memberB, memberA,
	).Find(&rows).Error
	return rows, err
}

func (r *friendshipRepository) FindByOwnerAndFriend(ownerID, friendID string) (*domain.Friendship, error) {
	var row domain.Friendship
	err := r.db.Where("member_id = ? AND friend_id = ?", ownerID, friendID).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// FindByMember returns the rows the member owns (their grants toward peers)
func (r *friendshipRepository) FindByMember(memberID string) ([]*domain.Friendship, error) {
	var rows []*domain.Friendship
	err := r.db.Where("member_id = ?", memberID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// UpdateGrants replaces the flag set on the row the owner controls
func (r *friendshipRepository) UpdateGrants(ownerID, friendID string, grants domain.Grants) error {
	result := r.db.Model(&domain.Friendship{}).
		Where("member_id = ? AND friend_id = ?", ownerID, friendID).
		Updates(map[string]interface{}{
			"business_access":  grants.Business,
			"family_access":    grants.Family,
			"personal_access":  grants.Personal,
			"influence_access": grants.Influence,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeletePair removes both directions
func (r *friendshipRepository) DeletePair(memberA, memberB string) error {
	return r.db.Where(
		"(member_id = ? AND friend_id = ?) OR (member_id = ? AND friend_id = ?)",
		memberA, memberB, memberB, memberA,
	).Delete(&domain.Friendship{}).Error
}

func (r *friendshipRepository) DeleteAllForMember(memberID string) error {
	return r.db.Where("member_id = ? OR friend_id = ?", memberID, memberID).
		Delete(&domain.Friendship{}).Error
}

func (r *friendshipRepository) FindAll(page, limit int) ([]*domain.Friendship, int64, error) {
	var total int64
	if err := r.db.Model(&domain.Friendship{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*domain.Friendship
	offset := (page - 1) * limit
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error
	return rows, total, err
}

func (r *friendshipRepository) ExistsBetween(memberA, memberB string) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Friendship{}).Where(
		"(member_id = ? AND friend_id = ?) OR (member_id = ? AND friend_id = ?)",
		memberA, memberB, memberB, memberA,
	).Count(&count).Error
	return count > 0, err
}
