package handler

import (
	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/aurora-society/aurora-backend/internal/middleware"
	"github.com/aurora-society/aurora-backend/internal/service"
	"github.com/gin-gonic/gin"
)

// ConnectionHandler handles connection requests and friendships
type ConnectionHandler struct {
	connections service.ConnectionService
}

// NewConnectionHandler creates a new ConnectionHandler
func NewConnectionHandler(connections service.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connections: connections}
}

// SendRequestBody new connection request
type SendRequestBody struct {
	RecipientID string `json:"recipient_id" binding:"required"`
}

// SendRequest handles POST /api/v1/connections/requests
func (h *ConnectionHandler) SendRequest(c *gin.Context) {
	var req SendRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	request, err := h.connections.SendRequest(c.Request.Context(), middleware.GetMemberID(c), req.RecipientID)
	if err != nil {
		common.KindResponse(c, "Request failed", err)
		return
	}
	common.Created(c, request)
}

// AcceptRequest handles POST /api/v1/connections/requests/:id/accept
func (h *ConnectionHandler) AcceptRequest(c *gin.Context) {
	err := h.connections.AcceptRequest(c.Request.Context(), middleware.GetMemberID(c), c.Param("id"))
	if err != nil {
		common.KindResponse(c, "Accept failed", err)
		return
	}
	common.Success(c, gin.H{"accepted": true})
}

// RejectRequest handles POST /api/v1/connections/requests/:id/reject
func (h *ConnectionHandler) RejectRequest(c *gin.Context) {
	err := h.connections.RejectRequest(c.Request.Context(), middleware.GetMemberID(c), c.Param("id"))
	if err != nil {
		common.KindResponse(c, "Reject failed", err)
		return
	}
	common.Success(c, gin.H{"rejected": true})
}

// ListIncoming handles GET /api/v1/connections/requests/incoming
func (h *ConnectionHandler) ListIncoming(c *gin.Context) {
	requests, err := h.connections.ListIncoming(c.Request.Context(), middleware.GetMemberID(c))
	if err != nil {
		common.KindResponse(c, "Failed to list requests", err)
		return
	}
	common.Success(c, requests)
}

// ListSent handles GET /api/v1/connections/requests/sent
func (h *ConnectionHandler) ListSent(c *gin.Context) {
	requests, err := h.connections.ListSent(c.Request.Context(), middleware.GetMemberID(c))
	if err != nil {
		common.KindResponse(c, "Failed to list requests", err)
		return
	}
	common.Success(c, requests)
}

// ListConnections handles GET /api/v1/connections
func (h *ConnectionHandler) ListConnections(c *gin.Context) {
	connections, err := h.connections.ListConnections(c.Request.Context(), middleware.GetMemberID(c))
	if err != nil {
		common.KindResponse(c, "Failed to list connections", err)
		return
	}
	common.Success(c, connections)
}

// UpdateGrants handles PUT /api/v1/connections/:friendId/grants
func (h *ConnectionHandler) UpdateGrants(c *gin.Context) {
	var grants domain.Grants
	if err := c.ShouldBindJSON(&grants); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	err := h.connections.UpdateGrants(c.Request.Context(), middleware.GetMemberID(c), c.Param("friendId"), grants)
	if err != nil {
		common.KindResponse(c, "Grant update failed", err)
		return
	}
	common.Success(c, grants)
}

// RemoveConnection handles DELETE /api/v1/connections/:friendId
func (h *ConnectionHandler) RemoveConnection(c *gin.Context) {
	err := h.connections.RemoveConnection(c.Request.Context(), middleware.GetMemberID(c), c.Param("friendId"))
	if err != nil {
		common.KindResponse(c, "Removal failed", err)
		return
	}
	common.Success(c, gin.H{"removed": true})
}
