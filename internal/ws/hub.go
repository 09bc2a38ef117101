package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/aurora-society/aurora-backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const redisPubSubChannel = "conversation_messages"

// Event a message pushed to subscribers of an open conversation. The
// MessageID doubles as the dedup key on the receiving connection.
type Event struct {
	Type           string          `json:"type"` // "message"
	MessageID      string          `json:"message_id"`
	ConversationID string          `json:"conversation_id"`
	Message        *domain.Message `json:"message"`
}

// Hub manages WebSocket subscriptions keyed by conversation id
type Hub struct {
	// Registered clients grouped by conversation ID
	clients map[string]map[*Client]bool

	// Register/unregister channels
	register   chan *Client
	unregister chan *Client

	// Broadcast to a conversation's subscribers
	broadcast chan *Event

	mu          sync.RWMutex
	redisClient *redis.Client
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewHub creates a new Hub
func NewHub(redisClient *redis.Client) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	return &Hub{
		clients:     make(map[string]map[*Client]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *Event, 256),
		redisClient: redisClient,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	// Start Redis subscriber if Redis is available
	if h.redisClient != nil {
		go h.subscribeRedis()
	}

	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if h.clients[client.conversationID] == nil {
				h.clients[client.conversationID] = make(map[*Client]bool)
			}
			h.clients[client.conversationID][client] = true
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if clients, ok := h.clients[client.conversationID]; ok {
				if _, ok := clients[client]; ok {
					delete(clients, client)
					close(client.send)
					if len(clients) == 0 {
						delete(h.clients, client.conversationID)
					}
				}
			}
			h.mu.Unlock()

		case event := <-h.broadcast:
			h.mu.RLock()
			if clients, ok := h.clients[event.ConversationID]; ok {
				data, err := json.Marshal(event)
				if err == nil {
					for client := range clients {
						// Duplicate delivery (redis echo, fetch/push race)
						// is dropped per connection by message id
						if !client.markSeen(event.MessageID) {
							continue
						}
						select {
						case client.send <- data:
						default:
							close(client.send)
							delete(clients, client)
						}
					}
				}
			}
			h.mu.RUnlock()

		case <-h.ctx.Done():
			return
		}
	}
}

// BroadcastMessage pushes an inserted message to the conversation's
// subscribers (local + Redis publish for other instances)
func (h *Hub) BroadcastMessage(msg *domain.Message) {
	event := &Event{
		Type:           "message",
		MessageID:      msg.ID,
		ConversationID: msg.ConversationID,
		Message:        msg,
	}

	h.broadcast <- event

	if h.redisClient != nil {
		data, err := json.Marshal(event)
		if err == nil {
			h.redisClient.Publish(h.ctx, redisPubSubChannel, data) //nolint:errcheck
		}
	}
}

// subscribeRedis listens for messages published by other instances
func (h *Hub) subscribeRedis() {
	pubsub := h.redisClient.Subscribe(h.ctx, redisPubSubChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err == nil {
				// Only local broadcast (don't re-publish to Redis); the
				// per-connection dedup absorbs the echo of our own publish
				h.broadcast <- &event
			}
		case <-h.ctx.Done():
			return
		}
	}
}

// Stop gracefully shuts down the hub
func (h *Hub) Stop() {
	h.cancel()
}
