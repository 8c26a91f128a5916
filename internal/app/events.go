package app

import (
	"sync"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

// Events is the subscription point for lifecycle observers.
// A nil *Events drops every event.
type Events struct {
	mu        sync.RWMutex
	observers []core.Observer
}

func NewEvents() *Events {
	return &Events{}
}

func (e *Events) Subscribe(o core.Observer) {
	if e == nil || o == nil {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

func (e *Events) connect(c domain.Connection) {
	e.each("connect", func(o core.Observer) { o.OnConnect(c) })
}

func (e *Events) disconnect(c domain.Connection) {
	e.each("disconnect", func(o core.Observer) { o.OnDisconnect(c) })
}

func (e *Events) create(r domain.Room) {
	e.each("create", func(o core.Observer) { o.OnRoomCreate(r) })
}

func (e *Events) delete(r domain.Room) {
	e.each("delete", func(o core.Observer) { o.OnRoomDelete(r) })
}

func (e *Events) each(event string, fn func(core.Observer)) {
	if e == nil {
		return
	}
	e.mu.RLock()
	observers := make([]core.Observer, len(e.observers))
	copy(observers, e.observers)
	e.mu.RUnlock()

	for _, o := range observers {
		notify(event, o, fn)
	}
}

// notify isolates the hub from a misbehaving observer.
func notify(event string, o core.Observer, fn func(core.Observer)) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Str("module", "app.events").Str("event", event).Interface("panic", r).Msg("observer panicked")
		}
	}()
	fn(o)
}
