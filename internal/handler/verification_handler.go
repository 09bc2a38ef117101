package handler

import (
	"net/http"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/middleware"
	"github.com/aurora-society/aurora-backend/internal/service"
	pkglogger "github.com/aurora-society/aurora-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

// VerificationHandler handles identity-provider callbacks
type VerificationHandler struct {
	verification service.VerificationService
	loginURL     string
}

// NewVerificationHandler creates a new VerificationHandler
func NewVerificationHandler(verification service.VerificationService, loginURL string) *VerificationHandler {
	return &VerificationHandler{verification: verification, loginURL: loginURL}
}

// Callback handles GET /api/v1/verification/callback?token=...&status=...
// The provider redirects the member's browser here. Whatever the verdict,
// the member lands on the login page; the outcome is persisted and mailed.
func (h *VerificationHandler) Callback(c *gin.Context) {
	token := c.Query("token")
	status := c.Query("status")

	if err := h.verification.HandleCallback(c.Request.Context(), token, status); err != nil {
		pkglogger.GetLogger().Error().Err(err).
			Str("token", token).
			Str("status", status).
			Msg("verification callback failed")
	}

	c.Redirect(http.StatusFound, h.loginURL)
}

// Status handles GET /api/v1/verification/status (requires JWT)
func (h *VerificationHandler) Status(c *gin.Context) {
	status, err := h.verification.StatusFor(c.Request.Context(), middleware.GetMemberID(c))
	if err != nil {
		common.KindResponse(c, "Failed to resolve verification status", err)
		return
	}
	common.Success(c, gin.H{"verification_status": status})
}
