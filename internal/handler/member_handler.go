package handler

import (
	"io"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/middleware"
	"github.com/aurora-society/aurora-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// MemberHandler handles member profile and directory requests
type MemberHandler struct {
	members service.MemberService
	access  service.AccessService
}

// NewMemberHandler creates a new MemberHandler
func NewMemberHandler(members service.MemberService, access service.AccessService) *MemberHandler {
	return &MemberHandler{members: members, access: access}
}

// Directory handles GET /api/v1/members
func (h *MemberHandler) Directory(c *gin.Context) {
	page, limit := parsePagination(c, 20)
	keyword := c.Query("q")

	members, total, err := h.members.Directory(c.Request.Context(), page, limit, keyword)
	if err != nil {
		common.KindResponse(c, "Failed to list members", err)
		return
	}
	common.SuccessWithMeta(c, members, common.NewMeta(page, limit, total))
}

// GetProfile handles GET /api/v1/members/:id
func (h *MemberHandler) GetProfile(c *gin.Context) {
	view, err := h.members.GetProfile(c.Request.Context(), middleware.GetMemberID(c), c.Param("id"))
	if err != nil {
		common.KindResponse(c, "Failed to load profile", err)
		return
	}
	common.Success(c, view)
}

// GetMyProfile handles GET /api/v1/members/me
func (h *MemberHandler) GetMyProfile(c *gin.Context) {
	memberID := middleware.GetMemberID(c)
	view, err := h.members.GetProfile(c.Request.Context(), memberID, memberID)
	if err != nil {
		common.KindResponse(c, "Failed to load profile", err)
		return
	}
	common.Success(c, view)
}

// UpdateProfile handles PUT /api/v1/members/me
func (h *MemberHandler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	member, err := h.members.UpdateProfile(c.Request.Context(), middleware.GetMemberID(c), &req)
	if err != nil {
		common.KindResponse(c, "Profile update failed", err)
		return
	}
	common.Success(c, member)
}

// UploadAvatar handles POST /api/v1/members/me/avatar
func (h *MemberHandler) UploadAvatar(c *gin.Context) {
	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		common.ErrorResponse(c, 400, "Avatar file is required", err)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
	if err != nil {
		common.ErrorResponse(c, 400, "Failed to read avatar file", err)
		return
	}

	url, err := h.members.UploadAvatar(c.Request.Context(), middleware.GetMemberID(c), &service.AvatarUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		common.KindResponse(c, "Avatar upload failed", err)
		return
	}
	common.Success(c, gin.H{"avatar_url": url})
}

// CheckSection handles GET /api/v1/members/:id/sections/:section
func (h *MemberHandler) CheckSection(c *gin.Context) {
	section := domain.Section(c.Param("section"))
	allowed, err := h.access.CanViewSection(c.Request.Context(), middleware.GetMemberID(c), c.Param("id"), section)
	if err != nil {
		common.KindResponse(c, "Section check failed", err)
		return
	}
	common.Success(c, gin.H{"section": section, "allowed": allowed})
}
