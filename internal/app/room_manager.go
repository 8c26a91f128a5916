package app

import (
	"encoding/json"
	"sort"
	"sync"
	"time"

	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	DefaultRoomTTL   = 600 * time.Second
	DefaultRoomCheck = 60 * time.Second
)

type roomEntry struct {
	room  domain.Room
	timer *time.Timer
}

// RoomStore maps room names to rooms and reaps the ones idle past the TTL.
// Each room owns exactly one pending check while it is in the store.
type RoomStore struct {
	mu     sync.Mutex
	rooms  map[domain.RoomName]*roomEntry
	ttl    time.Duration
	check  time.Duration
	now    func() time.Time
	events *Events
}

func NewRoomStore(ttl, check time.Duration, events *Events) *RoomStore {
	if ttl <= 0 {
		ttl = DefaultRoomTTL
	}
	if check <= 0 {
		check = DefaultRoomCheck
	}
	return &RoomStore{
		rooms:  make(map[domain.RoomName]*roomEntry),
		ttl:    ttl,
		check:  check,
		now:    time.Now,
		events: events,
	}
}

func (s *RoomStore) Find(name domain.RoomName) (domain.Room, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.rooms[name]; ok {
		return e.room, true
	}
	return domain.Room{}, false
}

// Create inserts a room and arms its reaper. If name is taken the existing
// room is returned untouched and created is false.
func (s *RoomStore) Create(name domain.RoomName, owner domain.ConnID, meta json.RawMessage) (room domain.Room, created bool) {
	s.mu.Lock()
	if e, ok := s.rooms[name]; ok {
		s.mu.Unlock()
		return e.room, false
	}
	now := s.now()
	e := &roomEntry{room: domain.Room{
		Name:         name,
		Owner:        owner,
		Metadata:     meta,
		CreatedAt:    now,
		LastActivity: now,
	}}
	e.timer = time.AfterFunc(s.check, func() { s.reap(name, e) })
	s.rooms[name] = e
	total := len(s.rooms)
	s.mu.Unlock()

	log.Info().Str("module", "app.rooms").Str("room", string(name)).Str("owner", string(owner)).Int("total", total).Msg("room created")
	s.events.create(e.room)
	return e.room, true
}

// Delete cancels the pending check and removes the room.
func (s *RoomStore) Delete(name domain.RoomName) bool {
	s.mu.Lock()
	e, ok := s.rooms[name]
	if ok {
		s.remove(name, e)
	}
	s.mu.Unlock()
	if !ok {
		return false
	}
	s.deleted(e.room, "deleted")
	return true
}

// Refresh marks activity in the room and reports whether it exists.
func (s *RoomStore) Refresh(name domain.RoomName) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.rooms[name]
	if !ok {
		return false
	}
	e.room.LastActivity = s.now()
	return true
}

func (s *RoomStore) List() []domain.Room {
	s.mu.Lock()
	out := make([]domain.Room, 0, len(s.rooms))
	for _, e := range s.rooms {
		out = append(out, e.room)
	}
	s.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *RoomStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// Stop deletes every room, cancelling all pending checks.
func (s *RoomStore) Stop() {
	s.mu.Lock()
	removed := make([]domain.Room, 0, len(s.rooms))
	for name, e := range s.rooms {
		s.remove(name, e)
		removed = append(removed, e.room)
	}
	s.mu.Unlock()

	for _, r := range removed {
		s.deleted(r, "stopped")
	}
}

// reap is the per-room check. A delete may race a pending tick, so the room
// is looked up again and must still be the same instance.
func (s *RoomStore) reap(name domain.RoomName, e *roomEntry) {
	s.mu.Lock()
	if cur, ok := s.rooms[name]; !ok || cur != e {
		s.mu.Unlock()
		return
	}
	if e.room.IdleFor(s.now()) <= s.ttl {
		e.timer.Reset(s.check)
		s.mu.Unlock()
		return
	}
	s.remove(name, e)
	s.mu.Unlock()

	s.deleted(e.room, "expired")
}

// remove must be called with s.mu held.
func (s *RoomStore) remove(name domain.RoomName, e *roomEntry) {
	e.timer.Stop()
	delete(s.rooms, name)
}

func (s *RoomStore) deleted(room domain.Room, reason string) {
	log.Info().Str("module", "app.rooms").Str("room", string(room.Name)).Str("reason", reason).Msg("room deleted")
	s.events.delete(room)
}
