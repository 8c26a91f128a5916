package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/core"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrBackpressure = core.ErrBackpressure
	ErrClosed       = errors.New("connection closed")
)

const (
	DefaultReadLimit  = 100 << 20
	DefaultQueueBytes = 64 << 20
)

type SignalWSController struct {
	Orch       *orch.Orchestrator
	Limiter    *FrameRateLimiter
	ReadLimit  int64
	QueueBytes int
}

func NewSignalWSController(o *orch.Orchestrator) *SignalWSController {
	return &SignalWSController{
		Orch:       o,
		ReadLimit:  DefaultReadLimit,
		QueueBytes: DefaultQueueBytes,
	}
}

// WsSignalConn is the WebSocket side of one connection. All writes go
// through the write pump; TrySend and Ping only enqueue.
type WsSignalConn struct {
	conn *websocket.Conn

	mu       sync.Mutex
	queue    []core.Frame
	queued   int // bytes accepted and not yet written
	maxBytes int
	closed   bool

	wake chan struct{}
	ping chan struct{}
	done chan struct{}
}

func newWsSignalConn(ws *websocket.Conn, maxBytes int) *WsSignalConn {
	if maxBytes <= 0 {
		maxBytes = DefaultQueueBytes
	}
	return &WsSignalConn{
		conn:     ws,
		maxBytes: maxBytes,
		wake:     make(chan struct{}, 1),
		ping:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// TrySend appends f to the outbound queue. The queue has no frame limit;
// only a peer holding more than maxBytes unwritten is reported as
// backpressure. A frame arriving at an idle queue is always accepted.
func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.queued > 0 && c.queued+len(f) > c.maxBytes {
		return ErrBackpressure
	}
	c.queue = append(c.queue, f)
	c.queued += len(f)
	select {
	case c.wake <- struct{}{}:
	default:
	}
	return nil
}

// take hands the pending frames to the write pump.
func (c *WsSignalConn) take() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	q := c.queue
	c.queue = nil
	return q
}

func (c *WsSignalConn) written(n int) {
	c.mu.Lock()
	c.queued -= n
	c.mu.Unlock()
}

// Queued returns the number of bytes accepted but not yet written.
func (c *WsSignalConn) Queued() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queued
}

// Ping asks the write pump for a ping frame. A ping that is already pending
// covers this request too.
func (c *WsSignalConn) Ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.ping <- struct{}{}:
	default:
	}
	return nil
}

func (c *WsSignalConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.queue = nil
	close(c.done)
	c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	if ctl.ReadLimit > 0 {
		ws.SetReadLimit(ctl.ReadLimit)
	}

	conn := newWsSignalConn(ws, ctl.QueueBytes)
	sess := ctl.Orch.Connect(conn)
	log.Info().Str("module", "signal").Str("sid", string(sess.ID)).Str("remote", c.Request.RemoteAddr).Msg("new WS connection")

	ctl.sendJSON(conn, welcome)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sess.ID, conn)
}
