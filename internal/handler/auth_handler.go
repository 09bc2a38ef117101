package handler

import (
	"errors"
	"net/http"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/middleware"
	"github.com/aurora-society/aurora-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	auth      service.AuthService
	approvals service.ApprovalService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(auth service.AuthService, approvals service.ApprovalService) *AuthHandler {
	return &AuthHandler{auth: auth, approvals: approvals}
}

// LoginRequest login request
type LoginRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	TwoFactor bool   `json:"two_factor"`
}

// TwoFactorRequest second login step
type TwoFactorRequest struct {
	MemberID string `json:"member_id" binding:"required"`
	Code     string `json:"code" binding:"required"`
}

// RefreshRequest refresh token request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, req.TwoFactor)
	if errors.Is(err, common.ErrInvalidCredentials) {
		common.ErrorResponse(c, 401, "Invalid credentials", err)
		return
	}
	if errors.Is(err, common.ErrAwaitingApproval) {
		common.ErrorResponse(c, 403, "Your registration is awaiting sponsor approval", err)
		return
	}
	if err != nil {
		common.KindResponse(c, "Login failed", err)
		return
	}

	common.Success(c, result)
}

// VerifyTwoFactor handles POST /api/v1/auth/2fa/verify
func (h *AuthHandler) VerifyTwoFactor(c *gin.Context) {
	var req TwoFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	result, err := h.auth.CompleteTwoFactor(c.Request.Context(), req.MemberID, req.Code)
	if errors.Is(err, common.ErrCodeExpired) {
		common.ErrorResponse(c, 401, "Verification code expired, request a new one", err)
		return
	}
	if errors.Is(err, common.ErrCodeMismatch) {
		common.ErrorResponse(c, 401, "Verification code does not match", err)
		return
	}
	if err != nil {
		common.KindResponse(c, "Verification failed", err)
		return
	}

	common.Success(c, result)
}

// Refresh handles POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	tokens, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.ErrorResponse(c, 401, "Token refresh failed", err)
		return
	}

	common.Success(c, tokens)
}

// Me handles GET /api/v1/auth/me (requires JWT)
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, common.APIResponse{
		Success: true,
		Data: gin.H{
			"member_id": middleware.GetMemberID(c),
			"name":      middleware.GetMemberName(c),
			"level":     middleware.GetMemberLevel(c),
		},
	})
}

// ApprovalStatus handles GET /api/v1/auth/approval-status (requires JWT)
func (h *AuthHandler) ApprovalStatus(c *gin.Context) {
	status, err := h.approvals.StatusFor(c.Request.Context(), middleware.GetMemberID(c))
	if err != nil {
		common.KindResponse(c, "Failed to resolve approval status", err)
		return
	}
	common.Success(c, status)
}
