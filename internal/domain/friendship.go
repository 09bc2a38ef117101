package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Section names a profile section guarded by a permission flag
type Section string

// Guarded profile sections
const (
	SectionBusiness  Section = "business"
	SectionFamily    Section = "family"
	SectionPersonal  Section = "personal"
	SectionInfluence Section = "influence"
)

// ValidSection reports whether s names a guarded section
func ValidSection(s Section) bool {
	switch s {
	case SectionBusiness, SectionFamily, SectionPersonal, SectionInfluence:
		return true
	}
	return false
}

// Friendship one direction of an accepted connection. The row's owner
// (MemberID) controls what FriendID may see of the owner's profile; the
// mirror row carries the opposite grants. Deleting a connection removes
// both rows.
type Friendship struct {
	ID              string    `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	MemberID        string    `gorm:"column:member_id;type:char(36);index:idx_friend_pair,unique" json:"member_id"`
	FriendID        string    `gorm:"column:friend_id;type:char(36);index:idx_friend_pair,unique" json:"friend_id"`
	BusinessAccess  bool      `gorm:"column:business_access;default:false" json:"business_access"`
	FamilyAccess    bool      `gorm:"column:family_access;default:false" json:"family_access"`
	PersonalAccess  bool      `gorm:"column:personal_access;default:false" json:"personal_access"`
	InfluenceAccess bool      `gorm:"column:influence_access;default:false" json:"influence_access"`
	CreatedAt       time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt       time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Friendship) TableName() string {
	return "friendships"
}

// BeforeCreate assigns a UUID primary key when absent
func (f *Friendship) BeforeCreate(*gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// Grants the four section flags as a value type
type Grants struct {
	Business  bool `json:"business_access"`
	Family    bool `json:"family_access"`
	Personal  bool `json:"personal_access"`
	Influence bool `json:"influence_access"`
}

// GrantsOf extracts the flag set from a friendship row
func GrantsOf(f *Friendship) Grants {
	return Grants{
		Business:  f.BusinessAccess,
		Family:    f.FamilyAccess,
		Personal:  f.PersonalAccess,
		Influence: f.InfluenceAccess,
	}
}

// Allows reports whether the grant set covers the given section
func (g Grants) Allows(s Section) bool {
	switch s {
	case SectionBusiness:
		return g.Business
	case SectionFamily:
		return g.Family
	case SectionPersonal:
		return g.Personal
	case SectionInfluence:
		return g.Influence
	}
	return false
}

// ConnectionResponse a connection with the peer's profile card and the
// grants each side has given the other
type ConnectionResponse struct {
	FriendshipID   string         `json:"friendship_id"`
	Peer           *MemberSummary `json:"peer"`
	GrantedToPeer  Grants         `json:"granted_to_peer"`  // what I let the peer see
	GrantedByPeer  Grants         `json:"granted_by_peer"`  // what the peer lets me see
	ConnectedSince time.Time      `json:"connected_since"`
}
