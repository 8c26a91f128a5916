package orch

import (
	"encoding/json"
	"errors"

	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

// Talk stamps msg with the sender as author and fans it out to the sender's
// current room. Any room named inside msg is ignored: routing follows
// membership only. It returns the number of recipients.
func (o *Orchestrator) Talk(sid domain.ConnID, msg map[string]json.RawMessage) int {
	o.mu.Lock()
	defer o.mu.Unlock()

	roomName, ok := o.Registry.RoomOf(sid)
	if !ok {
		log.Debug().Str("module", "orch").Str("sid", string(sid)).Msg("talk without room dropped")
		return 0
	}

	author, err := json.Marshal(sid)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Msg("marshal author")
		return 0
	}
	if msg == nil {
		msg = make(map[string]json.RawMessage)
	}
	msg["author"] = author
	frame, err := json.Marshal(msg)
	if err != nil {
		log.Error().Err(err).Str("module", "orch").Str("sid", string(sid)).Msg("marshal talk")
		return 0
	}
	return o.broadcast(roomName, sid, frame)
}

// Broadcast delivers frame to every member of name except author.
func (o *Orchestrator) Broadcast(name domain.RoomName, author domain.ConnID, frame core.Frame) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.broadcast(name, author, frame)
}

// broadcast must be called with o.mu held.
func (o *Orchestrator) broadcast(name domain.RoomName, author domain.ConnID, frame core.Frame) int {
	if !o.Rooms.Refresh(name) {
		return 0
	}

	sent, dropped := 0, 0
	o.Registry.ForEach(func(conn domain.Connection, sig core.SignalConnection) {
		if conn.ID == author || conn.Room != name || sig == nil {
			return
		}
		if err := sig.TrySend(frame); err != nil {
			dropped++
			if errors.Is(err, core.ErrBackpressure) {
				o.onBackPressure(name, conn)
			}
			return
		}
		sent++
	})
	log.Debug().Str("module", "orch").Str("room", string(name)).Str("from", string(author)).Int("sent_to", sent).Int("dropped", dropped).Msg("broadcast result")
	return sent
}

func (o *Orchestrator) onBackPressure(name domain.RoomName, conn domain.Connection) {
	if o.Policy == nil {
		return
	}
	switch o.Policy.OnBackPressure(name, conn) {
	case app.KickMember:
		log.Warn().Str("module", "orch").Str("sid", string(conn.ID)).Str("room", string(name)).Msg("kicking slow member")
		o.Registry.Remove(conn.ID)
	case app.DropFrame:
	}
}
