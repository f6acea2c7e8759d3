package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/BAYRYO/monopoly-rgpd/internal/model"
	"github.com/BAYRYO/monopoly-rgpd/internal/services/registry"
	"github.com/BAYRYO/monopoly-rgpd/internal/services/turn"
)

// Handler upgrades HTTP requests to websocket connections and routes client
// intents to the room registry and turn coordinator. It owns the connection
// lifecycle: identity assignment, initial room-list sync, and the implicit
// disconnect intent when the socket drops.
type Handler struct {
	registry *registry.Service
	turn     *turn.Coordinator
	hub      *Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a new websocket Handler
func NewHandler(reg *registry.Service, coordinator *turn.Coordinator, hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		registry: reg,
		turn:     coordinator,
		hub:      hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The lobby is open; cross-origin browsers are expected
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

// ServeHTTP handles a websocket connection for its whole lifetime
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	connID := model.ConnectionID(uuid.NewString())
	client := NewClient(connID, conn, h.logger)
	h.hub.Add(client)

	// Initial sync: a freshly connected client immediately sees the lobby
	if err := h.registry.SyncRooms(r.Context(), connID); err != nil {
		h.logger.Error("initial room sync failed",
			slog.String("conn", string(connID)),
			slog.String("error", err.Error()),
		)
	}

	go client.writePump()
	client.readPump(func(c *Client, msg ClientMessage) {
		h.dispatch(r.Context(), c, msg)
	})

	// The socket dropped: tear down the subscription first so room
	// broadcasts from the removal no longer target this connection
	h.hub.Remove(connID)
	if err := h.registry.RemoveMember(context.Background(), connID); err != nil {
		h.logger.Error("disconnect cleanup failed",
			slog.String("conn", string(connID)),
			slog.String("error", err.Error()),
		)
	}
}

// dispatch routes one decoded intent. Service-level rejections (stale turn,
// unknown room) are logged and dropped; the services themselves publish the
// few client-visible error events.
func (h *Handler) dispatch(ctx context.Context, client *Client, msg ClientMessage) {
	connID := client.ID()

	var err error
	switch msg.Type {
	case model.EventCreateRoom:
		var p CreateRoomPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			_, err = h.registry.CreateRoom(ctx, connID, p.Name, p.IsPrivate, p.Password)
		}

	case model.EventJoinRoom:
		var p JoinRoomPayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			var roomID model.RoomID
			if roomID, _, err = h.registry.JoinRoom(ctx, p.RoomID, connID, p.Pseudo); err == nil {
				h.hub.Join(connID, roomID)
			}
		}

	case model.EventUpdatePlayerState:
		var p UpdatePlayerStatePayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = h.registry.UpdatePlayerState(ctx, p.RoomID, connID, p.Money, p.Position)
		}

	case model.EventStartGame:
		var roomID model.RoomID
		if err = json.Unmarshal(msg.Payload, &roomID); err == nil {
			err = h.turn.StartGame(ctx, roomID, connID)
		}

	case model.EventRollDice:
		var p model.RollDicePayload
		if err = json.Unmarshal(msg.Payload, &p); err == nil {
			err = h.turn.RecordRoll(ctx, connID, p)
		}

	case model.EventEndTurn:
		var roomID model.RoomID
		if err = json.Unmarshal(msg.Payload, &roomID); err == nil {
			err = h.turn.EndTurn(ctx, roomID, connID)
		}

	default:
		h.logger.Debug("unknown message type dropped",
			slog.String("conn", string(connID)),
			slog.String("type", string(msg.Type)),
		)
		return
	}

	if err != nil {
		h.logger.Debug("intent dropped",
			slog.String("conn", string(connID)),
			slog.String("type", string(msg.Type)),
			slog.String("error", err.Error()),
		)
	}
}
