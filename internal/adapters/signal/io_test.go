package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Poker/internal/core"
)

func TestDecodeFrame(t *testing.T) {
	msg, typ, err := decodeFrame([]byte(`{"type":"talk","message":{"x":1}}`))
	assert.NoError(t, err)
	assert.Equal(t, "talk", typ)
	assert.JSONEq(t, `{"x":1}`, string(msg["message"]))

	_, typ, err = decodeFrame([]byte(`{"message":"no type"}`))
	assert.NoError(t, err)
	assert.Empty(t, typ)

	for _, bad := range []string{`nope`, `null`, `[1]`, `{"type":1}`} {
		_, _, err := decodeFrame([]byte(bad))
		assert.Error(t, err, bad)
	}
}

func TestWsSignalConn_QueueHasNoFrameLimit(t *testing.T) {
	c := newWsSignalConn(nil, 1<<20)

	for i := 0; i < 10000; i++ {
		require.NoError(t, c.TrySend(core.Frame(`{"type":"talk"}`)))
	}
	assert.Equal(t, 10000*len(`{"type":"talk"}`), c.Queued())
	assert.Len(t, c.take(), 10000)
	assert.Empty(t, c.take())
}

func TestWsSignalConn_StuckPeerHitsByteCap(t *testing.T) {
	c := newWsSignalConn(nil, 10)

	require.NoError(t, c.TrySend(core.Frame("0123456789abcdef")), "an idle queue takes any frame")
	assert.ErrorIs(t, c.TrySend(core.Frame("x")), core.ErrBackpressure)

	batch := c.take()
	require.Len(t, batch, 1)
	// Taken but unwritten bytes still count.
	assert.ErrorIs(t, c.TrySend(core.Frame("x")), core.ErrBackpressure)

	c.written(len(batch[0]))
	assert.NoError(t, c.TrySend(core.Frame("x")))
}

func TestWsSignalConn_ClosedRejects(t *testing.T) {
	c := newWsSignalConn(nil, 0)
	require.NoError(t, c.TrySend(core.Frame("a")))

	c.Close()
	c.Close()

	assert.ErrorIs(t, c.TrySend(core.Frame("b")), ErrClosed)
	assert.ErrorIs(t, c.Ping(), ErrClosed)
	assert.Empty(t, c.take())
}
