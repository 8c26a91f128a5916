package signal

import (
	"bytes"
	"encoding/json"

	"github.com/dkeye/Poker/internal/domain"
	"github.com/rs/zerolog/log"
)

type roomReply struct {
	Type     string          `json:"type"`
	Room     domain.RoomName `json:"room"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

type checkReply struct {
	Type     string          `json:"type"`
	Room     domain.RoomName `json:"room"`
	Exists   bool            `json:"exists"`
	Metadata json.RawMessage `json:"metadata,omitempty"`
}

func (ctl *SignalWSController) handleRoom(
	sid domain.ConnID,
	conn *WsSignalConn,
	msg map[string]json.RawMessage,
) {
	name, ok := roomName(msg)
	if !ok {
		log.Error().Str("module", "signal").Str("sid", string(sid)).Msg("bad room payload")
		return
	}

	room, ok := ctl.Orch.Join(sid, name, metadata(msg))
	if !ok {
		return
	}
	ctl.sendJSON(conn, roomReply{
		Type:     typeRoom,
		Room:     room.Name,
		Metadata: room.Metadata,
	})
}

func (ctl *SignalWSController) handleCheck(
	sid domain.ConnID,
	conn *WsSignalConn,
	msg map[string]json.RawMessage,
) {
	name, ok := roomName(msg)
	if !ok {
		log.Error().Str("module", "signal").Str("sid", string(sid)).Msg("bad check payload")
		return
	}

	resp := checkReply{Type: typeCheck, Room: name}
	if room, ok := ctl.Orch.Check(name); ok {
		resp.Exists = true
		resp.Metadata = room.Metadata
	}
	ctl.sendJSON(conn, resp)
}

func roomName(msg map[string]json.RawMessage) (domain.RoomName, bool) {
	raw, ok := msg["room"]
	if !ok {
		return "", false
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil || name == "" {
		return "", false
	}
	return domain.RoomName(name), true
}

// metadata returns the caller-supplied metadata, accepting the older "meta"
// key. A JSON null counts as absent.
func metadata(msg map[string]json.RawMessage) json.RawMessage {
	raw, ok := msg["metadata"]
	if !ok {
		raw = msg["meta"]
	}
	if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	return raw
}
