package http

import (
	"context"

	"github.com/dkeye/Poker/internal/adapters/signal"
	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/config"
	"github.com/dkeye/Poker/internal/metrics"
	rest "github.com/dkeye/Poker/internal/transport/http"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// MetricsUser is the basic-auth user name expected by the scrape endpoint.
const MetricsUser = "Prometheus"

func newEngine(cfg *config.Config) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	return r
}

// NewSignalController builds the WebSocket controller from config.
func NewSignalController(cfg *config.Config, o *orch.Orchestrator) *signal.SignalWSController {
	ctrl := signal.NewSignalWSController(o)
	ctrl.ReadLimit = cfg.ReadLimit
	ctrl.QueueBytes = cfg.SendQueueBytes
	ctrl.Limiter = signal.NewFrameRateLimiter(cfg.RateLimit, cfg.RateInterval)
	return ctrl
}

// SetupRouter wires the WebSocket endpoint and the REST view.
func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator) *gin.Engine {
	r := newEngine(cfg)
	ctrl := NewSignalController(cfg, o)

	ws := func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	}
	r.GET("/", ws)
	r.GET("/ws", ws)

	(&rest.Handlers{Orch: o}).Register(r)

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}

// SetupMetricsRouter serves /metrics, behind basic auth when a password is
// configured.
func SetupMetricsRouter(cfg *config.Config, m *metrics.Metrics) *gin.Engine {
	r := newEngine(cfg)

	var handlers []gin.HandlerFunc
	if cfg.MetricsPassword != "" {
		handlers = append(handlers, gin.BasicAuth(gin.Accounts{MetricsUser: cfg.MetricsPassword}))
	}
	handlers = append(handlers, gin.WrapH(m.Handler()))
	r.GET("/metrics", handlers...)

	log.Info().Str("module", "adapters.http").Bool("auth", cfg.MetricsPassword != "").Msg("metrics router setup")
	return r
}
