package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/BAYRYO/monopoly-rgpd/internal/model"
)

type RedisStorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestRedisStorageSuite(t *testing.T) {
	suite.Run(t, new(RedisStorageSuite))
}

func (s *RedisStorageSuite) SetupTest() {
	mini, err := miniredis.Run()
	s.Require().NoError(err)
	s.mini = mini

	client := goredis.NewClient(&goredis.Options{Addr: mini.Addr()})
	s.storage = NewWithClient(client, DefaultConfig())
	s.ctx = context.Background()
}

func (s *RedisStorageSuite) TearDownTest() {
	_ = s.storage.Close()
	s.mini.Close()
}

func (s *RedisStorageSuite) room(id string, createdAt time.Time) *model.Room {
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

func (s *RedisStorageSuite) TestSaveAndGetRoom() {
	room := s.room("table-1", time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	room.Players = []model.Member{{ID: "conn-1", Pseudo: "Alice", Money: 1500}}
	s.Require().NoError(s.storage.SaveRoom(s.ctx, room))

	got, err := s.storage.GetRoom(s.ctx, "table-1")
	s.Require().NoError(err)
	s.Equal(room.ID, got.ID)
	s.Require().Len(got.Players, 1)
	s.Equal("Alice", got.Players[0].Pseudo)
	s.Equal(1500, got.Players[0].Money)
}

func (s *RedisStorageSuite) TestGetRoomNotFound() {
	_, err := s.storage.GetRoom(s.ctx, "missing")
	s.ErrorIs(err, model.ErrRoomNotFound)
}

func (s *RedisStorageSuite) TestSaveSetsTTLOnRegularRooms() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("table-1", time.Now())))

	ttl := s.mini.TTL(roomKey("table-1"))
	s.Greater(ttl, time.Duration(0))
}

func (s *RedisStorageSuite) TestDefaultRoomNeverExpires() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room(string(model.DefaultRoomID), time.Now())))

	ttl := s.mini.TTL(roomKey(model.DefaultRoomID))
	s.Equal(time.Duration(0), ttl)
}

func (s *RedisStorageSuite) TestDeleteRoomClearsIndex() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("table-1", time.Now())))
	s.Require().NoError(s.storage.DeleteRoom(s.ctx, "table-1"))

	_, err := s.storage.GetRoom(s.ctx, "table-1")
	s.ErrorIs(err, model.ErrRoomNotFound)

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rooms)
}

func (s *RedisStorageSuite) TestRoomExists() {
	exists, err := s.storage.RoomExists(s.ctx, "table-1")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("table-1", time.Now())))

	exists, err = s.storage.RoomExists(s.ctx, "table-1")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *RedisStorageSuite) TestListRoomsOrderedByCreation() {
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

func (s *RedisStorageSuite) TestListRoomsSkipsExpiredEntries() {
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room("stale", time.Now())))
	s.Require().NoError(s.storage.SaveRoom(s.ctx, s.room(string(model.DefaultRoomID), time.Now())))

	// Expire the regular room; its index entry goes stale
	s.mini.FastForward(s.storage.cfg.RoomTTL + time.Minute)

	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(rooms, 1)
	s.Equal(model.DefaultRoomID, rooms[0].ID)
}

func (s *RedisStorageSuite) TestListRoomsEmpty() {
	rooms, err := s.storage.ListRooms(s.ctx)
	s.Require().NoError(err)
	s.Empty(rooms)
}
