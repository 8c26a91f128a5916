// Package metrics keeps the connection and room gauges scraped by Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dkeye/Poker/internal/core"
	"github.com/dkeye/Poker/internal/domain"
)

// Metrics observes hub lifecycle events and exposes them on its own registry.
type Metrics struct {
	registry *prometheus.Registry
	clients  prometheus.Gauge
	rooms    prometheus.Gauge
}

var _ core.Observer = (*Metrics)(nil)

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "super_poker_client",
			Help: "Super poker client count",
		}),
		rooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "super_poker_room",
			Help: "Super poker room count",
		}),
	}
	m.registry.MustRegister(
		m.clients,
		m.rooms,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) OnConnect(domain.Connection)    { m.clients.Inc() }
func (m *Metrics) OnDisconnect(domain.Connection) { m.clients.Dec() }
func (m *Metrics) OnRoomCreate(domain.Room)       { m.rooms.Inc() }
func (m *Metrics) OnRoomDelete(domain.Room)       { m.rooms.Dec() }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Metrics) Clients() prometheus.Gauge { return m.clients }
func (m *Metrics) Rooms() prometheus.Gauge   { return m.rooms }
