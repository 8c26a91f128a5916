package signal

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetadata(t *testing.T) {
	assert.Nil(t, metadata(map[string]json.RawMessage{}))
	assert.Nil(t, metadata(map[string]json.RawMessage{"metadata": json.RawMessage(`null`)}))
	assert.Equal(t, json.RawMessage(`{"a":1}`), metadata(map[string]json.RawMessage{"metadata": json.RawMessage(`{"a":1}`)}))
	assert.Equal(t, json.RawMessage(`"old"`), metadata(map[string]json.RawMessage{"meta": json.RawMessage(`"old"`)}))

	both := map[string]json.RawMessage{"metadata": json.RawMessage(`1`), "meta": json.RawMessage(`2`)}
	assert.Equal(t, json.RawMessage(`1`), metadata(both))
}

func TestRoomName(t *testing.T) {
	name, ok := roomName(map[string]json.RawMessage{"room": json.RawMessage(`"home"`)})
	assert.True(t, ok)
	assert.EqualValues(t, "home", name)

	for _, raw := range []string{`""`, `1`, `null`, `{"x":1}`} {
		_, ok := roomName(map[string]json.RawMessage{"room": json.RawMessage(raw)})
		assert.False(t, ok, raw)
	}
	_, ok = roomName(map[string]json.RawMessage{})
	assert.False(t, ok)
}
