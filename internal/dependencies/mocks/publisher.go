package mocks

import (
	"github.com/BAYRYO/monopoly-rgpd/internal/broker"
	"github.com/BAYRYO/monopoly-rgpd/internal/model"
)

// PublishedEvent records a single delivery made through the MockPublisher
type PublishedEvent struct {
	// Scope is how the event was addressed: "room", "room_except", "conn" or "all"
	Scope   string
	RoomID  model.RoomID
	Conn    model.ConnectionID
	Event   model.EventType
	Payload any
}

// MockPublisher records every published event for assertions in tests
type MockPublisher struct {
	Events []PublishedEvent
}

// Ensure MockPublisher implements Publisher
var _ broker.Publisher = (*MockPublisher)(nil)

// NewMockPublisher creates a new MockPublisher
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (p *MockPublisher) Publish(roomID model.RoomID, event model.EventType, payload any) {
	p.Events = append(p.Events, PublishedEvent{Scope: "room", RoomID: roomID, Event: event, Payload: payload})
}

func (p *MockPublisher) PublishExcept(roomID model.RoomID, except model.ConnectionID, event model.EventType, payload any) {
	p.Events = append(p.Events, PublishedEvent{Scope: "room_except", RoomID: roomID, Conn: except, Event: event, Payload: payload})
}

func (p *MockPublisher) PublishTo(conn model.ConnectionID, event model.EventType, payload any) {
	p.Events = append(p.Events, PublishedEvent{Scope: "conn", Conn: conn, Event: event, Payload: payload})
}

func (p *MockPublisher) PublishAll(event model.EventType, payload any) {
	p.Events = append(p.Events, PublishedEvent{Scope: "all", Event: event, Payload: payload})
}

// EventsOfType returns all recorded events with the given type
func (p *MockPublisher) EventsOfType(event model.EventType) []PublishedEvent {
	var out []PublishedEvent
	for _, e := range p.Events {
		if e.Event == event {
			out = append(out, e)
		}
	}
	return out
}

// Reset clears all recorded events
func (p *MockPublisher) Reset() {
	p.Events = nil
}
