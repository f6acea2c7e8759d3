package redis

import (
	"fmt"

	"github.com/BAYRYO/monopoly-rgpd/internal/model"
)

// Key prefix for all room-related data
const keyPrefix = "monopoly"

// roomKey returns the Redis key for a Room
func roomKey(id model.RoomID) string {
	return fmt.Sprintf("%s:room:%s", keyPrefix, id)
}

// roomIndexKey returns the Redis key for the SET of all room ids
func roomIndexKey() string {
	return fmt.Sprintf("%s:idx:rooms", keyPrefix)
}
