package handler

import (
	"encoding/json"
	"io"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/middleware"
	"github.com/aurora-society/aurora-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// maxAvatarSize upload cap for registration avatars
const maxAvatarSize = 5 << 20

// RegistrationHandler handles registration and referral validation requests
type RegistrationHandler struct {
	registration service.RegistrationService
	referrals    service.ReferralService
}

// NewRegistrationHandler creates a new RegistrationHandler
func NewRegistrationHandler(registration service.RegistrationService, referrals service.ReferralService) *RegistrationHandler {
	return &RegistrationHandler{registration: registration, referrals: referrals}
}

// ValidateCodeRequest code validation request
type ValidateCodeRequest struct {
	Code string `json:"code" binding:"required"`
}

// ValidateCode handles POST /api/v1/referral/validate-code
func (h *RegistrationHandler) ValidateCode(c *gin.Context) {
	var req ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	result, err := h.referrals.ValidateCode(c.Request.Context(), req.Code)
	if err != nil {
		common.KindResponse(c, "Code validation failed", err)
		return
	}
	common.Success(c, result)
}

// ValidateLink handles POST /api/v1/referral/validate-link
func (h *RegistrationHandler) ValidateLink(c *gin.Context) {
	var req ValidateCodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	result, err := h.referrals.ValidateLink(c.Request.Context(), req.Code)
	if err != nil {
		common.KindResponse(c, "Link validation failed", err)
		return
	}
	common.Success(c, result)
}

// Register handles POST /api/v1/register. Accepts either a JSON body or a
// multipart form with a "payload" JSON part and an optional "avatar" file.
func (h *RegistrationHandler) Register(c *gin.Context) {
	req, err := h.bindRegisterRequest(c)
	if err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	result, regErr := h.registration.Register(c.Request.Context(), req)
	if regErr != nil {
		common.KindResponse(c, "Registration failed", regErr)
		return
	}

	middleware.CountRegistration(req.LinkCode != "")
	common.Created(c, result)
}

// DraftRequest phase-one registration data
type DraftRequest = service.RegisterRequest

// SaveDraft handles POST /api/v1/register/draft
func (h *RegistrationHandler) SaveDraft(c *gin.Context) {
	var req DraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	token, err := h.registration.SaveDraft(c.Request.Context(), &req)
	if err != nil {
		common.KindResponse(c, "Draft save failed", err)
		return
	}
	common.Created(c, gin.H{"draft_token": token})
}

// CompleteDraftRequest phase-two credentials
type CompleteDraftRequest struct {
	Password string `json:"password" binding:"required"`
}

// CompleteDraft handles POST /api/v1/register/draft/:token/complete
func (h *RegistrationHandler) CompleteDraft(c *gin.Context) {
	var req CompleteDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	result, err := h.registration.CompleteDraft(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		common.KindResponse(c, "Registration failed", err)
		return
	}
	common.Created(c, result)
}

func (h *RegistrationHandler) bindRegisterRequest(c *gin.Context) (*service.RegisterRequest, error) {
	var req service.RegisterRequest

	if c.ContentType() != "multipart/form-data" {
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	payload := c.PostForm("payload")
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return nil, err
	}

	file, header, err := c.Request.FormFile("avatar")
	if err != nil {
		// Avatar is optional
		return &req, nil
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxAvatarSize))
	if err != nil {
		return nil, err
	}
	req.Avatar = &service.AvatarUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
	return &req, nil
}
