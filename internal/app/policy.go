package app

import (
	"fmt"

	"github.com/dkeye/Poker/internal/domain"
)

type BackpressureAction int

const (
	DropFrame BackpressureAction = iota
	KickMember
)

// Policy decides what happens to a recipient whose send buffer is full.
type Policy interface {
	OnBackPressure(room domain.RoomName, member domain.Connection) BackpressureAction
}

// DropPolicy loses the frame for the slow recipient and keeps it connected.
type DropPolicy struct{}

func (DropPolicy) OnBackPressure(domain.RoomName, domain.Connection) BackpressureAction {
	return DropFrame
}

// KickPolicy disconnects slow recipients.
type KickPolicy struct{}

func (KickPolicy) OnBackPressure(domain.RoomName, domain.Connection) BackpressureAction {
	return KickMember
}

// PolicyByName maps the slow_consumer config value to a Policy.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", "drop":
		return DropPolicy{}, nil
	case "kick":
		return KickPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown slow consumer policy %q", name)
	}
}
