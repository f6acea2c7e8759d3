package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/BAYRYO/monopoly-rgpd/internal/model"
)

type MemoryStorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestMemoryStorageSuite(t *testing.T) {
	suite.Run(t, new(MemoryStorageSuite))
}

func (s *MemoryStorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func (s *MemoryStorageSuite) room(id string, createdAt time.Time) *model.Room {
	return &model.Room{
		ID:         model.RoomID(id),
		Name:       id,
		Players:    []model.Member{},
		MaxPlayers: 4,
		State:      model.RoomStateWaiting,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	}
}

func (s *MemoryStorageSuite) TestSaveAndGetRoom() {
	room := s.room("table-1", time.Now())
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	got, err := s.storage.GetRoom(s.ctx, "table-1")
	s.Require().NoError(err)
	s.Equal(room.ID, got.ID)
	s.Equal(room.Name, got.Name)
}

func (s *MemoryStorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "missing")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *MemoryStorageSuite) TestDeleteRoom() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("table-1", time.Now())))
	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "table-1"))

	_, err := s.storage.GetRoom(s.ctx, "table-1")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *MemoryStorageSuite) TestDeleteMissingRoomIsNoop() {
	s.NoError(s.storage.DeleteRoom(s.ctx, "missing"))
}

func (s *MemoryStorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "table-1")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("table-1", time.Now())))

	exists, err = s.storage.RoomExists(s.ctx, "table-1")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *MemoryStorageSuite) TestListRoomsOrderedByCreation() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("newest", base.Add(2*time.Minute))))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("oldest", base)))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("middle", base.Add(time.Minute))))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 3)
	s.Equal(model.RoomID("oldest"), rooms[0].ID)
	s.Equal(model.RoomID("middle"), rooms[1].ID)
	s.Equal(model.RoomID("newest"), rooms[2].ID)
}

func (s *MemoryStorageSuite) TestListRoomsTiesBreakOnID() {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("beta", now)))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("alpha", now)))

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 2)
	s.Equal(model.RoomID("alpha"), rooms[0].ID)
	s.Equal(model.RoomID("beta"), rooms[1].ID)
}

func (s *MemoryStorageSuite) TestListRoomsEmpty() {
	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rooms)
}
