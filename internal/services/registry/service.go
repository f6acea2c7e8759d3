package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/BAYRYO/monopoly-rgpd/internal/broker"
	"github.com/BAYRYO/monopoly-rgpd/internal/dependencies/clock"
	"github.com/BAYRYO/monopoly-rgpd/internal/dependencies/random"
	"github.com/BAYRYO/monopoly-rgpd/internal/model"
	"github.com/BAYRYO/monopoly-rgpd/internal/services/turn"
	"github.com/BAYRYO/monopoly-rgpd/internal/storage"
)

const (
	// GuestTagLength is the length of the random suffix on generated guest names
	GuestTagLength = 4

	guestPrefix = "Guest-"
)

// Config holds configurable registry settings
type Config struct {
	// DefaultRoomName is the display name of the permanent pre-seeded room
	DefaultRoomName string
	// DefaultRoomCapacity is the advertised capacity of the default room
	DefaultRoomCapacity int
	// MaxPlayers is the advertised capacity of newly created rooms
	MaxPlayers int
	// StartingMoney is the balance a member joins with
	StartingMoney int
	// EnforceCapacity rejects joins past MaxPlayers when set. Off by default:
	// the capacity is historically display-only.
	EnforceCapacity bool
}

// DefaultConfig returns the default registry configuration
func DefaultConfig() Config {
	return Config{
		DefaultRoomName:     "Salon Public",
		DefaultRoomCapacity: 10,
		MaxPlayers:          4,
		StartingMoney:       1500,
		EnforceCapacity:     false,
	}
}

// Service is the single source of truth for which rooms exist and who
// occupies them. All mutations run under the process-wide mutex shared with
// the turn coordinator, so no two operations ever interleave.
type Service struct {
	storage   storage.Storage
	publisher broker.Publisher
	mu        *sync.Mutex
	clock     clock.Clock
	random    random.Random
	cfg       Config
	logger    *slog.Logger
}

// NewService creates a new registry Service
func NewService(
	storage storage.Storage,
	publisher broker.Publisher,
	mu *sync.Mutex,
	clock clock.Clock,
	random random.Random,
	cfg Config,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:   storage,
		publisher: publisher,
		mu:        mu,
		clock:     clock,
		random:    random,
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "registry")),
	}
}

// EnsureDefaultRoom seeds the permanent default room if it is absent.
// Called once at startup; harmless to call again.
func (s *Service) EnsureDefaultRoom(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	exists, err := s.storage.RoomExists(ctx, model.DefaultRoomID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	now := s.clock.Now()
	room := &model.Room{
		ID:         model.DefaultRoomID,
		Name:       s.cfg.DefaultRoomName,
		Players:    []model.Member{},
		MaxPlayers: s.cfg.DefaultRoomCapacity,
		IsPrivate:  false,
		State:      model.RoomStateWaiting,
		TurnIndex:  0,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return fmt.Errorf("seeding default room: %w", err)
	}

	s.logger.Info("default room seeded", slog.String("room", string(model.DefaultRoomID)))
	return nil
}

// CreateRoom creates a room whose id is derived from its name. A name that
// collides with an existing room id is the one failure reported back to the
// requester as an explicit error event.
func (s *Service) CreateRoom(ctx context.Context, requester model.ConnectionID, name string, isPrivate bool, password string) (model.RoomID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roomID := model.DeriveRoomID(name)

	exists, err := s.storage.RoomExists(ctx, roomID)
	if err != nil {
		return "", err
	}
	if exists {
		s.publisher.PublishTo(requester, model.EventError, "Room already exists")
		return "", model.ErrRoomExists
	}

	var passwordHash string
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", fmt.Errorf("hashing room password: %w", err)
		}
		passwordHash = string(hash)
	}

	now := s.clock.Now()
	room := &model.Room{
		ID:           roomID,
		Name:         name,
		Players:      []model.Member{},
		MaxPlayers:   s.cfg.MaxPlayers,
		IsPrivate:    isPrivate,
		PasswordHash: passwordHash,
		State:        model.RoomStateWaiting,
		TurnIndex:    0,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return "", err
	}

	s.logger.Info("room created",
		slog.String("room", string(roomID)),
		slog.Bool("private", isPrivate),
	)

	if err := s.broadcastRoomsList(ctx); err != nil {
		return "", err
	}
	s.publisher.PublishTo(requester, model.EventRoomCreated, roomID)

	return roomID, nil
}

// JoinRoom adds the connection to a room. An unknown (or empty) room id falls
// back to the permanent default room rather than erroring. Joining a room the
// connection is already a member of only updates the pseudo; the member keeps
// their position in the turn order.
func (s *Service) JoinRoom(ctx context.Context, roomID model.RoomID, conn model.ConnectionID, pseudo string) (model.RoomID, model.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.resolveRoom(ctx, roomID)
	if err != nil {
		return "", model.Member{}, err
	}

	if pseudo == "" {
		pseudo = guestPrefix + s.random.String(GuestTagLength, random.GuestTagAlphabet)
	}

	member := room.GetMember(conn)
	if member != nil {
		member.Pseudo = pseudo
	} else {
		if s.cfg.EnforceCapacity && len(room.Players) >= room.MaxPlayers {
			s.publisher.PublishTo(conn, model.EventError, "Room is full")
			return "", model.Member{}, model.ErrRoomFull
		}
		room.Players = append(room.Players, model.Member{
			ID:       conn,
			Pseudo:   pseudo,
			Money:    s.cfg.StartingMoney,
			Position: 0,
			JoinedAt: s.clock.Now(),
		})
		member = &room.Players[len(room.Players)-1]
	}
	room.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return "", model.Member{}, err
	}

	s.logger.Info("member joined",
		slog.String("room", string(room.ID)),
		slog.String("conn", string(conn)),
		slog.String("pseudo", pseudo),
	)

	s.publisher.PublishExcept(room.ID, conn, model.EventPlayerJoined, model.PlayerJoinedPayload{
		ID:     conn,
		Pseudo: pseudo,
	})

	// A client joining a game in progress needs to know whose turn it is
	if room.State == model.RoomStatePlaying {
		if active := room.ActiveMember(); active != nil {
			s.publisher.PublishTo(conn, model.EventGameStateSync, model.GameStateSyncPayload{
				GameState:       room.State,
				CurrentPlayerID: active.ID,
			})
		}
	}

	if err := s.broadcastRoomsList(ctx); err != nil {
		return "", model.Member{}, err
	}

	return room.ID, *member, nil
}

// UpdatePlayerState overwrites a member's client-reported money and position.
// Values are echoed back for display and never validated against game rules.
func (s *Service) UpdatePlayerState(ctx context.Context, roomID model.RoomID, conn model.ConnectionID, money, position int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room, err := s.storage.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	member := room.GetMember(conn)
	if member == nil {
		return model.ErrMemberNotFound
	}

	member.Money = money
	member.Position = position
	room.UpdatedAt = s.clock.Now()

	if err := s.storage.SaveRoom(ctx, room); err != nil {
		return err
	}

	return s.broadcastRoomsList(ctx)
}

// RemoveMember removes the connection from every room it occupies, repairing
// the turn pointer of any playing room and deleting rooms left empty (the
// default room excepted: it is reset to waiting and kept).
func (s *Service) RemoveMember(ctx context.Context, conn model.ConnectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rooms, err := s.storage.ListRooms(ctx)
	if err != nil {
		return err
	}

	for _, room := range rooms {
		idx := room.MemberIndex(conn)
		if idx < 0 {
			continue
		}

		room.Players = append(room.Players[:idx], room.Players[idx+1:]...)

		if turn.RepairTurnIndex(room, idx) {
			if active := room.ActiveMember(); active != nil {
				s.publisher.Publish(room.ID, model.EventTurnUpdate, model.TurnUpdatePayload{
					ActivePlayerID: active.ID,
				})
			}
		}

		if len(room.Players) == 0 {
			if room.IsDefault() {
				// The default room is never deleted; it waits empty for the
				// next arrival
				room.State = model.RoomStateWaiting
				room.TurnIndex = 0
				room.UpdatedAt = s.clock.Now()
				if err := s.storage.SaveRoom(ctx, room); err != nil {
					return err
				}
			} else {
				if err := s.storage.DeleteRoom(ctx, room.ID); err != nil {
					return err
				}
				s.logger.Info("empty room deleted", slog.String("room", string(room.ID)))
			}
			continue
		}

		room.UpdatedAt = s.clock.Now()
		if err := s.storage.SaveRoom(ctx, room); err != nil {
			return err
		}

		s.logger.Info("member removed",
			slog.String("room", string(room.ID)),
			slog.String("conn", string(conn)),
		)
	}

	// The lobby list is refreshed for everyone after any disconnect sweep,
	// whether or not the connection occupied a room
	return s.broadcastRoomsList(ctx)
}

// ListRooms returns an immutable snapshot of all rooms for lobby display
func (s *Service) ListRooms(ctx context.Context) ([]model.RoomSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotRooms(ctx)
}

// SyncRooms sends the current room list to a single connection, used for the
// initial sync when a client connects
func (s *Service) SyncRooms(ctx context.Context, conn model.ConnectionID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshots, err := s.snapshotRooms(ctx)
	if err != nil {
		return err
	}
	s.publisher.PublishTo(conn, model.EventRoomsList, snapshots)
	return nil
}

// resolveRoom looks up a room, falling back to the permanent default room
// for unknown or empty ids
func (s *Service) resolveRoom(ctx context.Context, roomID model.RoomID) (*model.Room, error) {
	if roomID != "" {
		room, err := s.storage.GetRoom(ctx, roomID)
		if err == nil {
			return room, nil
		}
		if !errors.Is(err, model.ErrRoomNotFound) {
			return nil, err
		}
	}
	return s.storage.GetRoom(ctx, model.DefaultRoomID)
}

// snapshotRooms builds the wire view of every room. Callers hold the mutex.
func (s *Service) snapshotRooms(ctx context.Context) ([]model.RoomSnapshot, error) {
	rooms, err := s.storage.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	snapshots := make([]model.RoomSnapshot, len(rooms))
	for i, room := range rooms {
		snapshots[i] = room.Snapshot()
	}
	return snapshots, nil
}

// broadcastRoomsList pushes the full room list to every connected client.
// Callers hold the mutex.
func (s *Service) broadcastRoomsList(ctx context.Context) error {
	snapshots, err := s.snapshotRooms(ctx)
	if err != nil {
		return err
	}
	s.publisher.PublishAll(model.EventRoomsList, snapshots)
	return nil
}

// Interface for dependency injection
type ServiceInterface interface {
	EnsureDefaultRoom(ctx context.Context) error
	CreateRoom(ctx context.Context, requester model.ConnectionID, name string, isPrivate bool, password string) (model.RoomID, error)
	JoinRoom(ctx context.Context, roomID model.RoomID, conn model.ConnectionID, pseudo string) (model.RoomID, model.Member, error)
	UpdatePlayerState(ctx context.Context, roomID model.RoomID, conn model.ConnectionID, money, position int) error
	RemoveMember(ctx context.Context, conn model.ConnectionID) error
	ListRooms(ctx context.Context) ([]model.RoomSnapshot, error)
	SyncRooms(ctx context.Context, conn model.ConnectionID) error
}

var _ ServiceInterface = (*Service)(nil)
