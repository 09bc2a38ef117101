package handler

import (
	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ContactHandler handles contact-form submissions
type ContactHandler struct {
	contact service.ContactService
}

// NewContactHandler creates a new ContactHandler
func NewContactHandler(contact service.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Submit handles POST /api/v1/contact (rate limited)
func (h *ContactHandler) Submit(c *gin.Context) {
	var req service.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	if err := h.contact.Submit(c.Request.Context(), &req); err != nil {
		common.KindResponse(c, "Submission failed", err)
		return
	}
	common.Created(c, gin.H{"received": true})
}
