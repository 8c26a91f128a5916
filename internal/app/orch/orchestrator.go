package orch

import (
	"context"
	"sync"
	"time"

	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

const DefaultPingPeriod = 2 * time.Second

// Orchestrator owns the hub semantics. Every step that reads and then
// writes the registry or the room store runs under mu, so handler calls,
// broadcasts and liveness sweeps never interleave.
type Orchestrator struct {
	Registry   *app.Registry
	Rooms      *app.RoomStore
	Policy     app.Policy
	PingPeriod time.Duration

	mu       sync.Mutex
	cancel   context.CancelFunc
	done     chan struct{}
	stopOnce sync.Once
}

// Connect registers a new transport session.
func (o *Orchestrator) Connect(sig core.SignalConnection) domain.Connection {
	return o.Registry.Register(sig)
}

// OnDisconnect handles a voluntary close from the peer.
func (o *Orchestrator) OnDisconnect(sid domain.ConnID) {
	o.Registry.Remove(sid)
}

// OnPong is the transport's answer to a liveness challenge.
func (o *Orchestrator) OnPong(sid domain.ConnID) {
	o.Registry.MarkAlive(sid)
}

// Start launches the liveness loop. It stops when ctx is cancelled or Stop
// is called.
func (o *Orchestrator) Start(ctx context.Context) {
	period := o.PingPeriod
	if period <= 0 {
		period = DefaultPingPeriod
	}
	ctx, cancel := context.WithCancel(ctx)
	o.mu.Lock()
	o.cancel = cancel
	o.done = make(chan struct{})
	done := o.done
	o.mu.Unlock()

	go func() {
		defer close(done)
		o.runLiveness(ctx, period)
	}()
	log.Info().Str("module", "orch").Dur("ping_period", period).Msg("liveness monitor started")
}

// Stop cancels every room check, stops the liveness loop and force-closes
// every connection. It is safe to call more than once.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		o.mu.Lock()
		cancel, done := o.cancel, o.done
		o.mu.Unlock()
		if cancel != nil {
			cancel()
			<-done
		}

		o.Rooms.Stop()
		closed := o.Registry.CloseAll()
		log.Info().Str("module", "orch").Int("closed", closed).Msg("hub stopped")
	})
}
