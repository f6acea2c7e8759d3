package turn

import (
	"context"
	"log/slog"
	"sync"

	"github.com/BAYRYO/monopoly-rgpd/internal/broker"
	"github.com/BAYRYO/monopoly-rgpd/internal/dependencies/clock"
	"github.com/BAYRYO/monopoly-rgpd/internal/model"
	"github.com/BAYRYO/monopoly-rgpd/internal/storage"
)

// Coordinator owns per-room turn-order state: it starts games, relays
// accepted dice rolls and advances the turn pointer on end-turn intents.
//
// Invalid or stale intents (wrong turn, unknown room, game not running) are
// dropped without a client-visible error; a stale roll from a lockstep UI
// must not produce a crash or an error popup on every other client.
type Coordinator struct {
	storage   storage.Storage
	publisher broker.Publisher
	mu        *sync.Mutex
	clock     clock.Clock
	logger    *slog.Logger
}

// NewCoordinator creates a new Coordinator. The mutex is the process-wide
// exclusion region shared with the room registry; every mutation of room
// state anywhere in the process happens under it.
func NewCoordinator(
	storage storage.Storage,
	publisher broker.Publisher,
	mu *sync.Mutex,
	clock clock.Clock,
	logger *slog.Logger,
) *Coordinator {
	return &Coordinator{
		storage:   storage,
		publisher: publisher,
		mu:        mu,
		clock:     clock,
		logger:    logger.With(slog.String("component", "turn")),
	}
}

// StartGame transitions a waiting room with at least one member to playing
// and announces the first active player. Unsatisfied preconditions make this
// a no-op rather than an error.
func (c *Coordinator) StartGame(ctx context.Context, roomID model.RoomID, requester model.ConnectionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if room.State != model.RoomStateWaiting || len(room.Players) == 0 {
		c.logger.Debug("start_game ignored",
			slog.String("room", string(roomID)),
			slog.String("state", string(room.State)),
			slog.Int("players", len(room.Players)),
		)
		return nil
	}

	room.State = model.RoomStatePlaying
	room.TurnIndex = 0
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}

	firstPlayer := room.Players[0].ID
	c.publisher.Publish(roomID, model.EventGameStarted, model.GameStartedPayload{
		FirstPlayerID: firstPlayer,
	})

	c.logger.Info("game started",
		slog.String("room", string(roomID)),
		slog.String("first_player", string(firstPlayer)),
		slog.Int("players", len(room.Players)),
	)

	return nil
}

// RecordRoll relays a client-reported dice roll to the room. The roll is
// accepted only when the requester is the active member; the payload is
// rebroadcast verbatim and nothing is derived from it server-side.
func (c *Coordinator) RecordRoll(ctx context.Context, requester model.ConnectionID, roll model.RollDicePayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.storage.GetRoom(ctx, roll.RoomID)
	if err != nil {
		return err
	}

	active := room.ActiveMember()
	if active == nil || active.ID != requester {
		c.logger.Debug("roll_dice ignored: requester not active",
			slog.String("room", string(roll.RoomID)),
			slog.String("requester", string(requester)),
		)
		return nil
	}

	c.publisher.Publish(roll.RoomID, model.EventRollDiceUpdate, roll)
	return nil
}

// EndTurn advances the turn pointer to the next member in order. Accepted
// only from the active member of a playing room.
func (c *Coordinator) EndTurn(ctx context.Context, roomID model.RoomID, requester model.ConnectionID) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	room, err := c.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if room.State != model.RoomStatePlaying {
		return nil
	}

	active := room.ActiveMember()
	if active == nil || active.ID != requester {
		c.logger.Debug("end_turn ignored: requester not active",
			slog.String("room", string(roomID)),
			slog.String("requester", string(requester)),
		)
		return nil
	}

	room.TurnIndex = (room.TurnIndex + 1) % len(room.Players)
	room.UpdatedAt = c.clock.Now()

	if err := c.storage.SaveRoom(ctx, room); err != nil {
		return err
	}

	next := room.Players[room.TurnIndex].ID
	c.publisher.Publish(roomID, model.EventTurnUpdate, model.TurnUpdatePayload{
		ActivePlayerID: next,
	})

	c.logger.Info("turn passed",
		slog.String("room", string(roomID)),
		slog.String("next_player", string(next)),
	)

	return nil
}

// RepairTurnIndex applies the departure-advance rule after a member has been
// removed from a playing room. removedIndex is the member's position before
// removal; the room's TurnIndex still holds its pre-removal value when this
// is called. It returns true when the active member changed and a turn_update
// should be emitted.
//
// The caller (the room registry) already holds the shared mutex.
func RepairTurnIndex(room *model.Room, removedIndex int) bool {
	if room.State != model.RoomStatePlaying || len(room.Players) == 0 {
		return false
	}

	switch {
	case removedIndex == room.TurnIndex:
		// The active member left; the next member slides into their index.
		// Wrap to the start when they were last in order.
		if room.TurnIndex >= len(room.Players) {
			room.TurnIndex = 0
		}
		return true
	case removedIndex < room.TurnIndex:
		// Someone earlier in the order left; shift the pointer down so it
		// keeps naming the same member
		room.TurnIndex--
		return false
	default:
		return false
	}
}

// Interface for dependency injection
type CoordinatorInterface interface {
	StartGame(ctx context.Context, roomID model.RoomID, requester model.ConnectionID) error
	RecordRoll(ctx context.Context, requester model.ConnectionID, roll model.RollDicePayload) error
	EndTurn(ctx context.Context, roomID model.RoomID, requester model.ConnectionID) error
}

var _ CoordinatorInterface = (*Coordinator)(nil)
