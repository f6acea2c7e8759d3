package model

import (
	"regexp"
	"strings"
	"time"
)

// RoomID is the stable identifier of a room, derived from its name at creation
type RoomID string

// RoomState represents the current state of a room
type RoomState string

const (
	RoomStateWaiting RoomState = "waiting" // No game in progress
	RoomStatePlaying RoomState = "playing" // Game currently active
)

// DefaultRoomID is the identifier of the permanent pre-seeded room. It exists
// from process start and is never deleted, even when empty.
const DefaultRoomID RoomID = "default-room"

var whitespacePattern = regexp.MustCompile(`\s+`)

// DeriveRoomID normalizes a display name into a room identifier:
// lowercase with runs of whitespace collapsed to single hyphens.
func DeriveRoomID(name string) RoomID {
	return RoomID(whitespacePattern.ReplaceAllString(strings.ToLower(name), "-"))
}

// Room is an isolated game session with its own membership and turn state.
// The order of Players is the turn order; TurnIndex points into it and is
// only meaningful while State is RoomStatePlaying.
type Room struct {
	ID           RoomID
	Name         string
	Players      []Member
	MaxPlayers   int
	IsPrivate    bool
	PasswordHash string // bcrypt hash; advisory gate only, never serialized to clients
	State        RoomState
	TurnIndex    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MemberIndex returns the index of the member with the given connection id,
// or -1 if not present
func (r *Room) MemberIndex(id ConnectionID) int {
	for i := range r.Players {
		if r.Players[i].ID == id {
			return i
		}
	}
	return -1
}

// GetMember returns the member with the given connection id, or nil if not found
func (r *Room) GetMember(id ConnectionID) *Member {
	if i := r.MemberIndex(id); i >= 0 {
		return &r.Players[i]
	}
	return nil
}

// ActiveMember returns the member at TurnIndex, or nil if the index is out of
// bounds for the current membership
func (r *Room) ActiveMember() *Member {
	if r.TurnIndex < 0 || r.TurnIndex >= len(r.Players) {
		return nil
	}
	return &r.Players[r.TurnIndex]
}

// IsDefault reports whether this is the permanent default room
func (r *Room) IsDefault() bool {
	return r.ID == DefaultRoomID
}

// RoomSnapshot is the wire representation of a Room. The password hash is
// deliberately absent.
type RoomSnapshot struct {
	ID                 RoomID           `json:"id"`
	Name               string           `json:"name"`
	Players            []MemberSnapshot `json:"players"`
	MaxPlayers         int              `json:"maxPlayers"`
	IsPrivate          bool             `json:"isPrivate"`
	GameState          RoomState        `json:"gameState"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
}

// Snapshot returns an immutable wire view of the room
func (r *Room) Snapshot() RoomSnapshot {
	players := make([]MemberSnapshot, len(r.Players))
	for i := range r.Players {
		players[i] = r.Players[i].Snapshot()
	}
	return RoomSnapshot{
		ID:                 r.ID,
		Name:               r.Name,
		Players:            players,
		MaxPlayers:         r.MaxPlayers,
		IsPrivate:          r.IsPrivate,
		GameState:          r.State,
		CurrentPlayerIndex: r.TurnIndex,
	}
}
