package ws

import (
	"log/slog"
	"sync"

	"github.com/BAYRYO/monopoly-rgpd/internal/broker"
	"github.com/BAYRYO/monopoly-rgpd/internal/model"
)

// Hub tracks every websocket connection and which rooms each one is
// subscribed to, and implements the broker.Publisher seam the core services
// emit through. Delivery is best-effort: messages to slow clients are
// dropped rather than blocking the serialized mutation path.
type Hub struct {
	mu            sync.RWMutex
	clients       map[model.ConnectionID]*Client
	subscriptions map[model.RoomID]map[model.ConnectionID]struct{}
	logger        *slog.Logger
}

// Ensure Hub implements Publisher
var _ broker.Publisher = (*Hub)(nil)

// NewHub creates a new Hub
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:       make(map[model.ConnectionID]*Client),
		subscriptions: make(map[model.RoomID]map[model.ConnectionID]struct{}),
		logger:        logger.With(slog.String("component", "ws")),
	}
}

// Add registers a newly connected client
func (h *Hub) Add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client.id] = client
	h.logger.Info("client connected",
		slog.String("conn", string(client.id)),
		slog.Int("total_clients", len(h.clients)),
	)
}

// Remove unregisters a client, drops its room subscriptions and closes its
// send channel
func (h *Hub) Remove(conn model.ConnectionID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	client, ok := h.clients[conn]
	if !ok {
		return
	}
	delete(h.clients, conn)
	for roomID, subs := range h.subscriptions {
		delete(subs, conn)
		if len(subs) == 0 {
			delete(h.subscriptions, roomID)
		}
	}
	client.shutdown()

	h.logger.Info("client disconnected",
		slog.String("conn", string(conn)),
		slog.Int("total_clients", len(h.clients)),
	)
}

// Join subscribes a connection to a room's broadcasts
func (h *Hub) Join(conn model.ConnectionID, roomID model.RoomID) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[conn]; !ok {
		return
	}
	subs, ok := h.subscriptions[roomID]
	if !ok {
		subs = make(map[model.ConnectionID]struct{})
		h.subscriptions[roomID] = subs
	}
	subs[conn] = struct{}{}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Publish sends an event to every subscriber of a room
func (h *Hub) Publish(roomID model.RoomID, event model.EventType, payload any) {
	h.PublishExcept(roomID, "", event, payload)
}

// PublishExcept sends an event to every subscriber of a room except one connection
func (h *Hub) PublishExcept(roomID model.RoomID, except model.ConnectionID, event model.EventType, payload any) {
	msg := ServerMessage{Type: event, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.subscriptions[roomID] {
		if conn == except {
			continue
		}
		h.deliver(conn, msg)
	}
}

// PublishTo sends an event to a single connection
func (h *Hub) PublishTo(conn model.ConnectionID, event model.EventType, payload any) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	h.deliver(conn, ServerMessage{Type: event, Payload: payload})
}

// PublishAll sends an event to every connected client
func (h *Hub) PublishAll(event model.EventType, payload any) {
	msg := ServerMessage{Type: event, Payload: payload}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for conn := range h.clients {
		h.deliver(conn, msg)
	}
}

// deliver queues a message for one connection. Callers hold at least the
// read lock, which keeps delivery and client shutdown mutually exclusive.
func (h *Hub) deliver(conn model.ConnectionID, msg ServerMessage) {
	client, ok := h.clients[conn]
	if !ok {
		return
	}
	if !client.push(msg) {
		h.logger.Warn("message dropped - client buffer full",
			slog.String("conn", string(conn)),
			slog.String("event", string(msg.Type)),
		)
	}
}
