package orch

import (
	"encoding/json"

	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join moves sid into name, creating the room with sid as owner when it is
// unknown. The returned room carries the stored metadata, which a later
// join never overwrites.
func (o *Orchestrator) Join(sid domain.ConnID, name domain.RoomName, meta json.RawMessage) (domain.Room, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, _, ok := o.Registry.Get(sid); !ok {
		return domain.Room{}, false
	}

	room, ok := o.Rooms.Find(name)
	if !ok {
		room, _ = o.Rooms.Create(name, sid, meta)
	}
	if from, ok := o.Registry.RoomOf(sid); ok && from != name {
		log.Info().Str("module", "orch").Str("sid", string(sid)).Str("from_room", string(from)).Msg("left room")
	}
	o.Registry.SetRoom(sid, room.Name)
	log.Info().Str("module", "orch").Str("sid", string(sid)).Str("room", string(room.Name)).Msg("joined room")
	return room, true
}

// Check looks a room up without touching any state.
func (o *Orchestrator) Check(name domain.RoomName) (domain.Room, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.Rooms.Find(name)
}

// MemberCount counts the connections currently joined to name.
func (o *Orchestrator) MemberCount(name domain.RoomName) int {
	return len(o.Registry.MembersOfRoom(name))
}
