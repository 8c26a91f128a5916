package app

import (
	"sync"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

type sessionEntry struct {
	Conn   domain.Connection
	Signal core.SignalConnection
}

// Registry tracks every live connection. It is the only component that
// mutates connection state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.ConnID]*sessionEntry
	events   *Events
}

func NewRegistry(events *Events) *Registry {
	return &Registry{
		sessions: make(map[domain.ConnID]*sessionEntry),
		events:   events,
	}
}

// Register allocates a fresh connection bound to sig and emits connect.
func (r *Registry) Register(sig core.SignalConnection) domain.Connection {
	conn := domain.Connection{ID: domain.NewConnID(), Alive: true}

	r.mu.Lock()
	r.sessions[conn.ID] = &sessionEntry{Conn: conn, Signal: sig}
	total := len(r.sessions)
	r.mu.Unlock()

	log.Info().Str("module", "app.registry").Str("sid", string(conn.ID)).Int("total", total).Msg("registered connection")
	r.events.connect(conn)
	return conn
}

// Remove detaches id and force-closes its transport. Calling it for an
// unknown or already removed id does nothing.
func (r *Registry) Remove(id domain.ConnID) bool {
	r.mu.Lock()
	entry, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	total := len(r.sessions)
	r.mu.Unlock()
	if !ok {
		return false
	}

	if entry.Signal != nil {
		entry.Signal.Close()
	}
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Int("total", total).Msg("removed connection")
	r.events.disconnect(entry.Conn)
	return true
}

// ForEach calls fn for every registered connection. It works on a snapshot
// and re-checks each entry before visiting it, so fn may remove connections.
func (r *Registry) ForEach(fn func(conn domain.Connection, sig core.SignalConnection)) {
	r.mu.RLock()
	ids := make([]domain.ConnID, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	for _, id := range ids {
		r.mu.RLock()
		entry, ok := r.sessions[id]
		var conn domain.Connection
		var sig core.SignalConnection
		if ok {
			conn, sig = entry.Conn, entry.Signal
		}
		r.mu.RUnlock()
		if !ok {
			continue
		}
		fn(conn, sig)
	}
}

func (r *Registry) Get(id domain.ConnID) (domain.Connection, core.SignalConnection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if e, ok := r.sessions[id]; ok {
		return e.Conn, e.Signal, true
	}
	return domain.Connection{}, nil, false
}

func (r *Registry) RoomOf(id domain.ConnID) (domain.RoomName, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.sessions[id]
	if !ok || !entry.Conn.InRoom() {
		return "", false
	}
	return entry.Conn.Room, true
}

func (r *Registry) SetRoom(id domain.ConnID, name domain.RoomName) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[id]
	if !ok {
		return false
	}
	entry.Conn.Room = name
	log.Info().Str("module", "app.registry").Str("sid", string(id)).Str("room", string(name)).Msg("updated room")
	return true
}

func (r *Registry) MarkAlive(id domain.ConnID) bool {
	return r.setAlive(id, true)
}

func (r *Registry) MarkChallenged(id domain.ConnID) bool {
	return r.setAlive(id, false)
}

func (r *Registry) setAlive(id domain.ConnID, alive bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	entry, ok := r.sessions[id]
	if !ok {
		return false
	}
	entry.Conn.Alive = alive
	return true
}

type regSnap struct {
	Conn   domain.Connection
	Signal core.SignalConnection
}

func (r *Registry) MembersOfRoom(name domain.RoomName) []regSnap {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]regSnap, 0, len(r.sessions))
	for _, e := range r.sessions {
		if e.Conn.Room == name {
			out = append(out, regSnap{Conn: e.Conn, Signal: e.Signal})
		}
	}
	return out
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// CloseAll force-closes every registered connection.
func (r *Registry) CloseAll() int {
	n := 0
	r.ForEach(func(conn domain.Connection, _ core.SignalConnection) {
		if r.Remove(conn.ID) {
			n++
		}
	})
	return n
}
