package signal

import (
	"encoding/json"

	"github.com/dkeye/Poker/internal/domain"
)

// handleTalk relays the frame to the sender's room. The orchestrator picks
// the room from membership, never from the frame.
func (ctl *SignalWSController) handleTalk(sid domain.ConnID, msg map[string]json.RawMessage) {
	ctl.Orch.Talk(sid, msg)
}
