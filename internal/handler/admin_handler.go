package handler

import (
	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AdminHandler handles back-office requests. All routes behind RequireAdmin.
type AdminHandler struct {
	admin     service.AdminService
	approvals service.ApprovalService
	contact   service.ContactService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(admin service.AdminService, approvals service.ApprovalService, contact service.ContactService) *AdminHandler {
	return &AdminHandler{admin: admin, approvals: approvals, contact: contact}
}

// ListMembers handles GET /api/v1/admin/members
func (h *AdminHandler) ListMembers(c *gin.Context) {
	page, limit := parsePagination(c, 20)
	keyword := c.Query("q")

	members, total, err := h.admin.ListMembers(c.Request.Context(), page, limit, keyword)
	if err != nil {
		common.KindResponse(c, "Failed to list members", err)
		return
	}
	common.SuccessWithMeta(c, members, common.NewMeta(page, limit, total))
}

// SetLevelRequest role change
type SetLevelRequest struct {
	Level int `json:"level" binding:"min=0"`
}

// SetLevel handles PUT /api/v1/admin/members/:id/level
func (h *AdminHandler) SetLevel(c *gin.Context) {
	var req SetLevelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	if err := h.admin.SetLevel(c.Request.Context(), c.Param("id"), req.Level); err != nil {
		common.KindResponse(c, "Level change failed", err)
		return
	}
	common.Success(c, gin.H{"level": req.Level})
}

// SetActiveRequest activation toggle
type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive handles PUT /api/v1/admin/members/:id/active
func (h *AdminHandler) SetActive(c *gin.Context) {
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	if err := h.admin.SetActive(c.Request.Context(), c.Param("id"), *req.Active); err != nil {
		common.KindResponse(c, "Activation change failed", err)
		return
	}
	common.Success(c, gin.H{"active": *req.Active})
}

// ResetVerification handles POST /api/v1/admin/members/:id/reset-verification
func (h *AdminHandler) ResetVerification(c *gin.Context) {
	if err := h.admin.ResetVerification(c.Request.Context(), c.Param("id")); err != nil {
		common.KindResponse(c, "Verification reset failed", err)
		return
	}
	common.Success(c, gin.H{"reset": true})
}

// ListReferrals handles GET /api/v1/admin/referrals?state=pending|approved|rejected
func (h *AdminHandler) ListReferrals(c *gin.Context) {
	page, limit := parsePagination(c, 20)

	referrals, total, err := h.admin.ListReferrals(c.Request.Context(), page, limit, c.Query("state"))
	if err != nil {
		common.KindResponse(c, "Failed to list referrals", err)
		return
	}
	common.SuccessWithMeta(c, referrals, common.NewMeta(page, limit, total))
}

// ResetApproval handles POST /api/v1/admin/referrals/:id/reset
func (h *AdminHandler) ResetApproval(c *gin.Context) {
	referral, err := h.approvals.Reset(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.KindResponse(c, "Approval reset failed", err)
		return
	}
	common.Success(c, referral)
}

// DeleteAccount handles DELETE /api/v1/admin/members/:id
func (h *AdminHandler) DeleteAccount(c *gin.Context) {
	if err := h.admin.DeleteAccount(c.Request.Context(), c.Param("id")); err != nil {
		common.KindResponse(c, "Account deletion failed", err)
		return
	}
	common.Success(c, gin.H{"deleted": true})
}

// ListContactMessages handles GET /api/v1/admin/contact-messages
func (h *AdminHandler) ListContactMessages(c *gin.Context) {
	page, limit := parsePagination(c, 20)

	messages, total, err := h.contact.List(c.Request.Context(), page, limit)
	if err != nil {
		common.KindResponse(c, "Failed to list contact messages", err)
		return
	}
	common.SuccessWithMeta(c, messages, common.NewMeta(page, limit, total))
}
