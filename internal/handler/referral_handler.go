package handler

import (
	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/middleware"
	"github.com/aurora-society/aurora-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ReferralHandler handles sponsor-side referral management
type ReferralHandler struct {
	referrals service.ReferralService
	approvals service.ApprovalService
}

// NewReferralHandler creates a new ReferralHandler
func NewReferralHandler(referrals service.ReferralService, approvals service.ApprovalService) *ReferralHandler {
	return &ReferralHandler{referrals: referrals, approvals: approvals}
}

// CreateLink handles POST /api/v1/referral/links
func (h *ReferralHandler) CreateLink(c *gin.Context) {
	var req service.CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	link, err := h.referrals.CreateLink(c.Request.Context(), middleware.GetMemberID(c), &req)
	if err != nil {
		common.KindResponse(c, "Link creation failed", err)
		return
	}
	common.Created(c, link)
}

// ListLinks handles GET /api/v1/referral/links
func (h *ReferralHandler) ListLinks(c *gin.Context) {
	links, err := h.referrals.ListLinks(c.Request.Context(), middleware.GetMemberID(c))
	if err != nil {
		common.KindResponse(c, "Failed to list links", err)
		return
	}
	common.Success(c, links)
}

// DeactivateLink handles DELETE /api/v1/referral/links/:id
func (h *ReferralHandler) DeactivateLink(c *gin.Context) {
	err := h.referrals.DeactivateLink(c.Request.Context(), middleware.GetMemberID(c), c.Param("id"))
	if err != nil {
		common.KindResponse(c, "Link deactivation failed", err)
		return
	}
	common.Success(c, gin.H{"deactivated": true})
}

// ListSponsored handles GET /api/v1/referral/sponsored
func (h *ReferralHandler) ListSponsored(c *gin.Context) {
	referrals, err := h.referrals.ListSponsored(c.Request.Context(), middleware.GetMemberID(c))
	if err != nil {
		common.KindResponse(c, "Failed to list sponsored members", err)
		return
	}
	common.Success(c, referrals)
}

// FamilyInviteRequest family invitation request
type FamilyInviteRequest struct {
	Email  string `json:"email" binding:"required,email"`
	LinkID string `json:"link_id" binding:"required"`
}

// SendFamilyInvite handles POST /api/v1/referral/family-invite
func (h *ReferralHandler) SendFamilyInvite(c *gin.Context) {
	var req FamilyInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	err := h.referrals.SendFamilyInvite(c.Request.Context(), middleware.GetMemberID(c), req.Email, req.LinkID)
	if err != nil {
		common.KindResponse(c, "Invitation failed", err)
		return
	}
	common.Success(c, gin.H{"sent": true})
}

// Approve handles POST /api/v1/referral/:id/approve
func (h *ReferralHandler) Approve(c *gin.Context) {
	referral, err := h.approvals.Approve(
		c.Request.Context(),
		middleware.GetMemberID(c),
		c.Param("id"),
		middleware.GetMemberLevel(c) >= domain.AdminLevel,
	)
	if err != nil {
		common.KindResponse(c, "Approval failed", err)
		return
	}
	common.Success(c, referral)
}

// RejectRequest rejection with an optional reason
type RejectRequest struct {
	Reason string `json:"reason"`
}

// Reject handles POST /api/v1/referral/:id/reject
func (h *ReferralHandler) Reject(c *gin.Context) {
	var req RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	referral, err := h.approvals.Reject(
		c.Request.Context(),
		middleware.GetMemberID(c),
		c.Param("id"),
		req.Reason,
		middleware.GetMemberLevel(c) >= domain.AdminLevel,
	)
	if err != nil {
		common.KindResponse(c, "Rejection failed", err)
		return
	}
	common.Success(c, referral)
}
