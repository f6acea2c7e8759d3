package model

// EventType identifies the type of a message on the wire
type EventType string

// Events consumed from clients
const (
	EventCreateRoom        EventType = "create_room"
	EventJoinRoom          EventType = "join_room"
	EventUpdatePlayerState EventType = "update_player_state"
	EventStartGame         EventType = "start_game"
	EventRollDice          EventType = "roll_dice"
	EventEndTurn           EventType = "end_turn"
)

// Events produced for clients
const (
	EventRoomsList      EventType = "rooms_list"
	EventRoomCreated    EventType = "room_created"
	EventError          EventType = "error"
	EventPlayerJoined   EventType = "player_joined"
	EventGameStateSync  EventType = "game_state_sync"
	EventGameStarted    EventType = "game_started"
	EventRollDiceUpdate EventType = "roll_dice_update"
	EventTurnUpdate     EventType = "turn_update"
)

// PlayerJoinedPayload is sent to the other occupants of a room when a new
// member joins
type PlayerJoinedPayload struct {
	ID     ConnectionID `json:"id"`
	Pseudo string       `json:"pseudo"`
}

// GameStateSyncPayload brings a client joining a playing room up to date
type GameStateSyncPayload struct {
	GameState       RoomState    `json:"gameState"`
	CurrentPlayerID ConnectionID `json:"currentPlayerId"`
}

// GameStartedPayload announces the first active player to a room
type GameStartedPayload struct {
	FirstPlayerID ConnectionID `json:"firstPlayerId"`
}

// RollDicePayload carries a client-reported dice roll. It is rebroadcast
// verbatim as roll_dice_update when accepted; die values are not re-validated.
type RollDicePayload struct {
	RoomID   RoomID       `json:"roomId"`
	Die1     int          `json:"die1"`
	Die2     int          `json:"die2"`
	PlayerID ConnectionID `json:"playerId"`
}

// TurnUpdatePayload announces the new active player after a turn advance
type TurnUpdatePayload struct {
	ActivePlayerID ConnectionID `json:"activePlayerId"`
}
