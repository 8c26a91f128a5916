package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	router "github.com/dkeye/Poker/internal/adapters/http"
	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/config"
	"github.com/dkeye/Poker/internal/webhook"
)

func TestShutdown_ClosesListenerBeforeHub(t *testing.T) {
	cfg := &config.Config{
		Mode:           "test",
		ReadLimit:      1 << 20,
		SendQueueBytes: 1 << 20,
		RateInterval:   time.Second,
	}
	events := app.NewEvents()
	hub := &orch.Orchestrator{
		Registry:   app.NewRegistry(events),
		Rooms:      app.NewRoomStore(time.Minute, time.Minute, events),
		Policy:     app.DropPolicy{},
		PingPeriod: time.Hour,
	}
	hub.Start(context.Background())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	srv := &http.Server{Handler: router.SetupRouter(context.Background(), cfg, hub)}
	served := make(chan error, 1)
	go func() { served <- srv.Serve(ln) }()

	url := "ws://" + ln.Addr().String() + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	require.Eventually(t, func() bool { return hub.Registry.Count() == 1 }, time.Second, 5*time.Millisecond)

	shutdown([]*http.Server{srv}, hub, webhook.New("", 0))

	assert.True(t, errors.Is(<-served, http.ErrServerClosed))
	assert.Equal(t, 0, hub.Registry.Count())

	_, _, err = websocket.DefaultDialer.Dial(url, nil)
	assert.Error(t, err, "no upgrades after shutdown")
	assert.Equal(t, 0, hub.Registry.Count())

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
