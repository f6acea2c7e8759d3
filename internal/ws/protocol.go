package ws

import (
	"encoding/json"

	"github.com/BAYRYO/monopoly-rgpd/internal/model"
)

// ClientMessage is the envelope received from websocket clients. The payload
// shape depends on the message type; it stays raw until the type is known.
type ClientMessage struct {
	Type    model.EventType `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage is the envelope pushed to websocket clients
type ServerMessage struct {
	Type    model.EventType `json:"type"`
	Payload any             `json:"payload,omitempty"`
}

// CreateRoomPayload is the payload of a create_room intent
type CreateRoomPayload struct {
	Name      string `json:"name"`
	IsPrivate bool   `json:"isPrivate"`
	Password  string `json:"password,omitempty"`
}

// JoinRoomPayload is the payload of a join_room intent
type JoinRoomPayload struct {
	RoomID model.RoomID `json:"roomId"`
	Pseudo string       `json:"pseudo"`
}

// UpdatePlayerStatePayload is the payload of an update_player_state intent
type UpdatePlayerStatePayload struct {
	RoomID   model.RoomID `json:"roomId"`
	Money    int          `json:"money"`
	Position int          `json:"position"`
}
