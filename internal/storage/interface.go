package storage

import (
	"context"

	"github.com/BAYRYO/monopoly-rgpd/internal/model"
)

// Storage defines the interface for room persistence
type Storage interface {
	// SaveRoom creates or overwrites a room record
	SaveRoom(ctx context.Context, room *model.Room) error

	// GetRoom retrieves a room by id, returning model.ErrRoomNotFound if absent
	GetRoom(ctx context.Context, id model.RoomID) (*model.Room, error)

	// DeleteRoom removes a room; deleting an absent room is not an error
	DeleteRoom(ctx context.Context, id model.RoomID) error

	// RoomExists reports whether a room with the given id exists
	RoomExists(ctx context.Context, id model.RoomID) (bool, error)

	// ListRooms returns all rooms ordered by creation time, then id
	ListRooms(ctx context.Context) ([]*model.Room, error)
}
