package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/domain"
	"github.com/dkeye/Poker/internal/metrics"
	fakes "github.com/dkeye/Poker/internal/testutil"
)

func TestMetrics_TracksLifecycle(t *testing.T) {
	m := metrics.New()
	events := app.NewEvents()
	events.Subscribe(m)
	reg := app.NewRegistry(events)
	rooms := app.NewRoomStore(0, 0, events)
	defer rooms.Stop()

	a := reg.Register(&fakes.FakeSignal{})
	reg.Register(&fakes.FakeSignal{})
	rooms.Create("one", a.ID, nil)
	rooms.Create("two", a.ID, nil)
	rooms.Create("two", a.ID, nil)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.Clients()))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.Rooms()))

	reg.Remove(a.ID)
	reg.Remove(a.ID)
	rooms.Delete("one")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Clients()))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Rooms()))
}

func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.OnRoomCreate(domain.Room{Name: "r"})

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "# HELP super_poker_room Super poker room count")
	assert.Contains(t, w.Body.String(), "super_poker_room 1")
	assert.Contains(t, w.Body.String(), "super_poker_client 0")
}
