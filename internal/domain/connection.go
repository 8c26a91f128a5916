// Package domain contains entity without logic, just meta-data
package domain

import (
	"github.com/google/uuid"
)

type ConnID string

// Connection is a read-only view of one client's live session.
// The app registry owns the mutable original.
type Connection struct {
	ID    ConnID   `json:"id"`
	Room  RoomName `json:"room,omitempty"`
	Alive bool     `json:"-"`
}

// NewConnID is a tiny helper to avoid ad-hoc id generation in adapters.
func NewConnID() ConnID {
	return ConnID(uuid.NewString())
}

// InRoom reports whether the connection has joined any room.
func (c Connection) InRoom() bool {
	return c.Room != ""
}
