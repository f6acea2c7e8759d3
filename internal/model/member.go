package model

import "time"

// ConnectionID identifies an underlying client connection. It is assigned by
// the transport layer and doubles as player identity; there is no separate
// account concept.
type ConnectionID string

// Member is a connected participant's per-room identity and reported game stats
type Member struct {
	ID       ConnectionID
	Pseudo   string
	Money    int
	Position int
	JoinedAt time.Time
}

// MemberSnapshot is the wire representation of a Member
type MemberSnapshot struct {
	ID       ConnectionID `json:"id"`
	Pseudo   string       `json:"pseudo"`
	Money    int          `json:"money"`
	Position int          `json:"position"`
}

// Snapshot returns the wire representation of the member
func (m *Member) Snapshot() MemberSnapshot {
	return MemberSnapshot{
		ID:       m.ID,
		Pseudo:   m.Pseudo,
		Money:    m.Money,
		Position: m.Position,
	}
}
