package handler

import (
	"net/http"

	"github.com/aurora-society/aurora-backend/internal/common"
	"github.com/aurora-society/aurora-backend/internal/middleware"
	"github.com/aurora-society/aurora-backend/internal/service"
	"github.com/aurora-society/aurora-backend/internal/ws"
	pkglogger "github.com/aurora-society/aurora-backend/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer; the token already gates access
	CheckOrigin: func(r *http.Request) bool { return true },
}

// MessageHandler handles conversations, messages and their live subscriptions
type MessageHandler struct {
	messaging service.MessagingService
	hub       *ws.Hub
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(messaging service.MessagingService, hub *ws.Hub) *MessageHandler {
	return &MessageHandler{messaging: messaging, hub: hub}
}

// StartConversationRequest opens or reuses a direct thread
type StartConversationRequest struct {
	PeerID string `json:"peer_id" binding:"required"`
}

// StartConversation handles POST /api/v1/conversations
func (h *MessageHandler) StartConversation(c *gin.Context) {
	var req StartConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	conv, err := h.messaging.StartConversation(c.Request.Context(), middleware.GetMemberID(c), req.PeerID)
	if err != nil {
		common.KindResponse(c, "Failed to open conversation", err)
		return
	}
	common.Success(c, conv)
}

// ListConversations handles GET /api/v1/conversations
func (h *MessageHandler) ListConversations(c *gin.Context) {
	summaries, err := h.messaging.ListConversations(c.Request.Context(), middleware.GetMemberID(c))
	if err != nil {
		common.KindResponse(c, "Failed to list conversations", err)
		return
	}
	common.Success(c, summaries)
}

// ListMessages handles GET /api/v1/conversations/:id/messages
func (h *MessageHandler) ListMessages(c *gin.Context) {
	page, limit := parsePagination(c, 50)

	messages, total, err := h.messaging.ListMessages(c.Request.Context(), middleware.GetMemberID(c), c.Param("id"), page, limit)
	if err != nil {
		common.KindResponse(c, "Failed to list messages", err)
		return
	}
	common.SuccessWithMeta(c, messages, common.NewMeta(page, limit, total))
}

// SendMessageRequest message content
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage handles POST /api/v1/conversations/:id/messages
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, 400, "Invalid request body", err)
		return
	}

	msg, err := h.messaging.SendMessage(c.Request.Context(), middleware.GetMemberID(c), c.Param("id"), req.Content)
	if err != nil {
		common.KindResponse(c, "Message send failed", err)
		return
	}

	middleware.CountMessageSent()
	common.Created(c, msg)
}

// MarkRead handles POST /api/v1/conversations/:id/read
func (h *MessageHandler) MarkRead(c *gin.Context) {
	err := h.messaging.MarkRead(c.Request.Context(), middleware.GetMemberID(c), c.Param("id"))
	if err != nil {
		common.KindResponse(c, "Mark read failed", err)
		return
	}
	common.Success(c, gin.H{"read": true})
}

// DeleteMessage handles DELETE /api/v1/messages/:id
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	err := h.messaging.DeleteMessage(c.Request.Context(), middleware.GetMemberID(c), c.Param("id"))
	if err != nil {
		common.KindResponse(c, "Message delete failed", err)
		return
	}
	common.Success(c, gin.H{"deleted": true})
}

// DeleteConversation handles DELETE /api/v1/conversations/:id
func (h *MessageHandler) DeleteConversation(c *gin.Context) {
	err := h.messaging.DeleteConversation(c.Request.Context(), middleware.GetMemberID(c), c.Param("id"))
	if err != nil {
		common.KindResponse(c, "Conversation delete failed", err)
		return
	}
	common.Success(c, gin.H{"deleted": true})
}

// Subscribe handles GET /api/v1/conversations/:id/ws and upgrades to a
// WebSocket push stream for the conversation
func (h *MessageHandler) Subscribe(c *gin.Context) {
	memberID := middleware.GetMemberID(c)
	conversationID := c.Param("id")

	// Membership check before the upgrade; afterwards there is no clean
	// way to return an HTTP status
	if _, _, err := h.messaging.ListMessages(c.Request.Context(), memberID, conversationID, 1, 1); err != nil {
		common.KindResponse(c, "Subscription refused", err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		pkglogger.GetLogger().Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, memberID, conversationID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
