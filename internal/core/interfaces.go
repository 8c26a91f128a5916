package core

import "github.com/dkeye/Poker/internal/domain"

// Observer receives lifecycle events from the hub. Implementations must
// return quickly; anything that touches the network belongs on its own
// goroutine.
type Observer interface {
	OnConnect(conn domain.Connection)
	OnDisconnect(conn domain.Connection)
	OnRoomCreate(room domain.Room)
	OnRoomDelete(room domain.Room)
}

// RoomInfo is a read-only view for APIs.
type RoomInfo struct {
	Name        domain.RoomName `json:"name"`
	MemberCount int             `json:"client_count"`
}

// NopObserver can be embedded by observers that only care about some events.
type NopObserver struct{}

func (NopObserver) OnConnect(domain.Connection)    {}
func (NopObserver) OnDisconnect(domain.Connection) {}
func (NopObserver) OnRoomCreate(domain.Room)       {}
func (NopObserver) OnRoomDelete(domain.Room)       {}
