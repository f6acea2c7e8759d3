// Package broker defines the publish/subscribe seam between the room/turn
// services and the transport layer. The services emit (room, event, payload)
// tuples; the transport resolves who is subscribed and delivers them.
package broker

import (
	"github.com/BAYRYO/monopoly-rgpd/internal/model"
)

// Publisher delivers events to connected clients. Implementations must be
// safe for concurrent use and must never block the caller.
type Publisher interface {
	// Publish sends an event to every subscriber of a room
	Publish(roomID model.RoomID, event model.EventType, payload any)

	// PublishExcept sends an event to every subscriber of a room except one
	// connection (typically the originator of the intent)
	PublishExcept(roomID model.RoomID, except model.ConnectionID, event model.EventType, payload any)

	// PublishTo sends an event to a single connection
	PublishTo(conn model.ConnectionID, event model.EventType, payload any)

	// PublishAll sends an event to every connected client
	PublishAll(event model.EventType, payload any)
}

// NopPublisher discards all events. Useful when wiring the services without
// a transport attached.
type NopPublisher struct{}

var _ Publisher = (*NopPublisher)(nil)

func (NopPublisher) Publish(model.RoomID, model.EventType, any)                            {}
func (NopPublisher) PublishExcept(model.RoomID, model.ConnectionID, model.EventType, any) {}
func (NopPublisher) PublishTo(model.ConnectionID, model.EventType, any)                   {}
func (NopPublisher) PublishAll(model.EventType, any)                                      {}
