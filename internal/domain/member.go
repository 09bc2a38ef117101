package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Verification status values reported back by the identity provider
const (
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationDeclined = "declined"
)

// Member domain model (members table). Wealth tier fields live here on the
// public profile; the sensitive amount itself is on PrivateProfile.
type Member struct {
	ID                 string     `gorm:"column:id;type:char(36);primaryKey" json:"id"`
	Email              string     `gorm:"column:email;uniqueIndex;size:255" json:"email"`
	Password           string     `gorm:"column:password;size:255" json:"-"`
	FirstName          string     `gorm:"column:first_name;size:100" json:"first_name"`
	LastName           string     `gorm:"column:last_name;size:100" json:"last_name"`
	Username           string     `gorm:"column:username;size:100;index" json:"username,omitempty"`
	Title              string     `gorm:"column:title;size:50" json:"title,omitempty"`
	JobFunction        string     `gorm:"column:job_function;size:150" json:"job_function,omitempty"`
	ActivityDomain     string     `gorm:"column:activity_domain;size:150" json:"activity_domain,omitempty"`
	AvatarURL          string     `gorm:"column:avatar_url;size:500" json:"avatar_url,omitempty"`
	ReferralCode       string     `gorm:"column:referral_code;uniqueIndex;size:32" json:"referral_code"`
	WealthTier         string     `gorm:"column:wealth_tier;size:50" json:"wealth_tier,omitempty"`
	VerificationStatus string     `gorm:"column:verification_status;size:20;default:pending" json:"verification_status"`
	IsFounder          bool       `gorm:"column:is_founder;default:false" json:"is_founder"`
	IsPatron           bool       `gorm:"column:is_patron;default:false" json:"is_patron"`
	IsLinkedAccount    bool       `gorm:"column:is_linked_account;default:false" json:"is_linked_account"`
	IsActive           bool       `gorm:"column:is_active;default:false" json:"is_active"`
	Level              int        `gorm:"column:level;default:1" json:"level"`
	LastLoginAt        *time.Time `gorm:"column:last_login_at" json:"-"`
	CreatedAt          time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt          time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Member) TableName() string {
	return "members"
}

// BeforeCreate assigns a UUID primary key when absent
func (m *Member) BeforeCreate(*gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return nil
}

// AdminLevel members at or above this level may use the back-office
const AdminLevel = 10

// IsAdmin reports whether the member may use admin surfaces
func (m *Member) IsAdmin() bool {
	return m.Level >= AdminLevel
}

// MemberResponse public view of a member
type MemberResponse struct {
	ID                 string `json:"id"`
	Email              string `json:"email"`
	FirstName          string `json:"first_name"`
	LastName           string `json:"last_name"`
	Username           string `json:"username,omitempty"`
	Title              string `json:"title,omitempty"`
	JobFunction        string `json:"job_function,omitempty"`
	ActivityDomain     string `json:"activity_domain,omitempty"`
	AvatarURL          string `json:"avatar_url,omitempty"`
	ReferralCode       string `json:"referral_code"`
	WealthTier         string `json:"wealth_tier,omitempty"`
	VerificationStatus string `json:"verification_status"`
	IsFounder          bool   `json:"is_founder"`
	IsPatron           bool   `json:"is_patron"`
	IsLinkedAccount    bool   `json:"is_linked_account"`
	IsActive           bool   `json:"is_active"`
	Level              int    `json:"level"`
}

// ToResponse converts Member to MemberResponse
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		ID:                 m.ID,
		Email:              m.Email,
		FirstName:          m.FirstName,
		LastName:           m.LastName,
		Username:           m.Username,
		Title:              m.Title,
		JobFunction:        m.JobFunction,
		ActivityDomain:     m.ActivityDomain,
		AvatarURL:          m.AvatarURL,
		ReferralCode:       m.ReferralCode,
		WealthTier:         m.WealthTier,
		VerificationStatus: m.VerificationStatus,
		IsFounder:          m.IsFounder,
		IsPatron:           m.IsPatron,
		IsLinkedAccount:    m.IsLinkedAccount,
		IsActive:           m.IsActive,
		Level:              m.Level,
	}
}

// MemberSummary a compact profile card used in listings and conversations
type MemberSummary struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// ToSummary converts Member to MemberSummary
func (m *Member) ToSummary() *MemberSummary {
	return &MemberSummary{
		ID:        m.ID,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Username:  m.Username,
		AvatarURL: m.AvatarURL,
	}
}
