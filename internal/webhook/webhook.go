// Package webhook reports room lifecycle events to an external HTTP endpoint.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

const DefaultTimeout = 5 * time.Second

// Payload is the JSON body posted for every event. Owner and metadata are
// never sent.
type Payload struct {
	Event string          `json:"event"`
	Name  domain.RoomName `json:"name"`
}

// Notifier posts room create/delete events. Delivery happens on its own
// goroutines; failures are logged and never retried.
type Notifier struct {
	core.NopObserver

	url     string
	timeout time.Duration
	client  *http.Client
	wg      conc.WaitGroup
}

var _ core.Observer = (*Notifier)(nil)

// New returns a Notifier for url. An empty url yields a notifier that does
// nothing.
func New(url string, timeout time.Duration) *Notifier {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if url != "" {
		log.Info().Str("module", "webhook").Str("url", url).Msg("webhook enabled")
	}
	return &Notifier{
		url:     url,
		timeout: timeout,
		client:  &http.Client{Timeout: timeout},
	}
}

func (n *Notifier) OnRoomCreate(room domain.Room) { n.post("create", room) }
func (n *Notifier) OnRoomDelete(room domain.Room) { n.post("delete", room) }

func (n *Notifier) post(event string, room domain.Room) {
	if n.url == "" {
		return
	}
	p := Payload{Event: event, Name: room.Name}
	n.wg.Go(func() {
		ctx, cancel := context.WithTimeout(context.Background(), n.timeout)
		defer cancel()
		if err := n.Send(ctx, p); err != nil {
			log.Warn().Err(err).Str("module", "webhook").Str("event", event).Str("room", string(room.Name)).Msg("webhook failed")
			return
		}
		log.Debug().Str("module", "webhook").Str("event", event).Str("room", string(room.Name)).Msg("webhook delivered")
	})
}

// Send performs one synchronous delivery of p.
func (n *Notifier) Send(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

// Wait blocks until every in-flight delivery has finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}
