package signal

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/dkeye/Poker/internal/domain"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (ctl *SignalWSController) writePump(ctx context.Context, c *WsSignalConn) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "signal").Msg("writePump ctx done")
			return
		case <-c.done:
			log.Debug().Str("module", "signal").Msg("writePump connection closed")
			return
		case <-c.wake:
			for _, data := range c.take() {
				if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
					log.Error().Err(err).Str("module", "signal").Msg("writePump set deadline")
					c.Close()
					return
				}
				if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
					log.Debug().Err(err).Str("module", "signal").Msg("writePump write error")
					c.Close()
					return
				}
				c.written(len(data))
			}
		case <-c.ping:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug().Err(err).Str("module", "signal").Msg("writePump ping error")
				c.Close()
				return
			}
		}
	}
}

func (ctl *SignalWSController) readPump(ctx context.Context, sid domain.ConnID, c *WsSignalConn) {
	defer func() {
		log.Info().Str("module", "signal").Str("sid", string(sid)).Msg("readPump closing")
		ctl.Orch.OnDisconnect(sid)
		if ctl.Limiter != nil {
			ctl.Limiter.Forget(sid)
		}
		c.Close()
	}()

	c.conn.SetPongHandler(func(string) error {
		ctl.Orch.OnPong(sid)
		return nil
	})

	for {
		if ctx.Err() != nil {
			log.Debug().Str("module", "signal").Str("sid", string(sid)).Msg("readPump ctx done")
			return
		}
		mt, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("readPump read error")
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		if ctl.Limiter != nil && !ctl.Limiter.Allow(sid) {
			log.Warn().Str("module", "signal").Str("sid", string(sid)).Msg("rate limit exceeded, frame dropped")
			continue
		}
		ctl.handleSignal(sid, c, data)
	}
}

// handleSignal decodes one inbound frame and dispatches it by type.
// Malformed frames are logged and dropped; the connection stays open.
func (ctl *SignalWSController) handleSignal(sid domain.ConnID, c *WsSignalConn, data []byte) {
	msg, typ, err := decodeFrame(data)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Str("sid", string(sid)).Msg("bad json")
		return
	}

	switch typ {
	case typeTalk:
		ctl.handleTalk(sid, msg)
	case typeCheck:
		ctl.handleCheck(sid, c, msg)
	case typeRoom:
		ctl.handleRoom(sid, c, msg)
	default:
		log.Warn().Str("module", "signal").Str("sid", string(sid)).Str("type", typ).Msg("unknown signal")
	}
}

var errNotObject = errors.New("frame is not a JSON object")

func decodeFrame(data []byte) (map[string]json.RawMessage, string, error) {
	var msg map[string]json.RawMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, "", err
	}
	if msg == nil {
		return nil, "", errNotObject
	}
	var typ string
	if raw, ok := msg["type"]; ok {
		if err := json.Unmarshal(raw, &typ); err != nil {
			return nil, "", err
		}
	}
	return msg, typ, nil
}

func (ctl *SignalWSController) sendJSON(c *WsSignalConn, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("sendJSON marshal")
		return
	}
	if err := c.TrySend(b); err != nil {
		log.Debug().Err(err).Str("module", "signal").Msg("sendJSON dropped")
	}
}
