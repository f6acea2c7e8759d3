package ws

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/BAYRYO/monopoly-rgpd/internal/model"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed between pongs before the connection is considered dead
	pongWait = 60 * time.Second

	// Time between keepalive pings
	pingPeriod = 30 * time.Second

	// Maximum inbound message size; intents are small JSON objects
	maxMessageSize = 1 << 16

	// Buffer size for outgoing messages
	sendBufferSize = 64
)

// Client represents a single websocket connection
type Client struct {
	id     model.ConnectionID
	conn   *websocket.Conn
	send   chan ServerMessage
	logger *slog.Logger
	closed atomic.Bool
}

// NewClient creates a new Client for an upgraded connection
func NewClient(id model.ConnectionID, conn *websocket.Conn, logger *slog.Logger) *Client {
	return &Client{
		id:     id,
		conn:   conn,
		send:   make(chan ServerMessage, sendBufferSize),
		logger: logger.With(slog.String("conn", string(id))),
	}
}

// ID returns the connection identity
func (c *Client) ID() model.ConnectionID {
	return c.id
}

// readPump reads client intents and hands them to dispatch until the
// connection drops. It blocks; the caller runs the disconnect path when it
// returns.
func (c *Client) readPump(dispatch func(*Client, ClientMessage)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			c.logger.Debug("read closed", slog.String("error", err.Error()))
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			// Malformed envelopes must never take down the process; drop them
			c.logger.Debug("malformed message dropped", slog.String("error", err.Error()))
			continue
		}

		dispatch(c, msg)
	}
}

// writePump forwards queued server messages to the peer and keeps the
// connection alive with pings
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("write failed", slog.String("error", err.Error()))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// push queues a message for delivery, dropping it if the client's buffer is
// full. A slow consumer must not block the broadcast path.
func (c *Client) push(msg ServerMessage) bool {
	if c.closed.Load() {
		return false
	}
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

// shutdown closes the send channel exactly once
func (c *Client) shutdown() {
	if c.closed.Swap(true) {
		return
	}
	close(c.send)
}
