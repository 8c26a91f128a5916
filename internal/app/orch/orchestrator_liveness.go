package orch

import (
	"context"
	"time"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

func (o *Orchestrator) runLiveness(ctx context.Context, period time.Duration) {
	t := time.NewTicker(period)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Str("module", "orch").Msg("liveness monitor stopped")
			return
		case <-t.C:
			o.Sweep()
		}
	}
}

// Sweep runs one liveness pass. Connections that did not answer the previous
// challenge are terminated; everyone else is challenged again.
func (o *Orchestrator) Sweep() (challenged, terminated int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.Registry.ForEach(func(conn domain.Connection, sig core.SignalConnection) {
		if !conn.Alive {
			log.Info().Str("module", "orch").Str("sid", string(conn.ID)).Msg("terminating unresponsive connection")
			if o.Registry.Remove(conn.ID) {
				terminated++
			}
			return
		}
		o.Registry.MarkChallenged(conn.ID)
		if sig == nil {
			return
		}
		if err := sig.Ping(); err != nil {
			log.Debug().Err(err).Str("module", "orch").Str("sid", string(conn.ID)).Msg("ping not queued")
		}
		challenged++
	})
	return challenged, terminated
}
