package domain

import (
	"encoding/json"
	"time"
)

type RoomName string

// Room is a named broadcast group. Members are not stored here; they are
// derived from the connections whose Room equals Name.
type Room struct {
	Name         RoomName        `json:"name"`
	Owner        ConnID          `json:"owner"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	LastActivity time.Time       `json:"last_activity"`
}

// IdleFor returns how long the room has gone without a broadcast.
func (r Room) IdleFor(now time.Time) time.Duration {
	return now.Sub(r.LastActivity)
}
