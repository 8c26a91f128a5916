package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/dkeye/Poker/internal/adapters/http"
	"github.com/dkeye/Poker/internal/app"
	"github.com/dkeye/Poker/internal/app/orch"
	"github.com/dkeye/Poker/internal/config"
	"github.com/dkeye/Poker/internal/metrics"
	"github.com/dkeye/Poker/internal/webhook"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	policy, err := app.PolicyByName(cfg.SlowConsumer)
	if err != nil {
		log.Fatal().Err(err).Msg("bad slow consumer policy")
	}

	events := app.NewEvents()
	stats := metrics.New()
	hook := webhook.New(cfg.WebhookURL, cfg.WebhookTimeout)
	events.Subscribe(stats)
	events.Subscribe(hook)

	hub := &orch.Orchestrator{
		Registry:   app.NewRegistry(events),
		Rooms:      app.NewRoomStore(cfg.RoomTTL, cfg.RoomCheck, events),
		Policy:     policy,
		PingPeriod: cfg.PingPeriod,
	}
	hub.Start(ctx)

	servers := []*http.Server{{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router.SetupRouter(ctx, cfg, hub),
	}}
	if cfg.MetricsPort > 0 {
		servers = append(servers, &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
			Handler: router.SetupMetricsRouter(cfg, stats),
		})
	}

	for _, srv := range servers {
		go func(srv *http.Server) {
			log.Info().Str("addr", srv.Addr).Msg("listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error().Err(err).Str("addr", srv.Addr).Msg("server error")
				cancel()
			}
		}(srv)
	}

	<-ctx.Done()
	log.Info().Msg("Shutting down")

	shutdown(servers, hub, hook)
	log.Info().Msg("Server exited gracefully")
}

// shutdown stops accepting upgrades before the hub closes what is already
// open, then drains pending webhook posts.
func shutdown(servers []*http.Server, hub *orch.Orchestrator, hook *webhook.Notifier) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			log.Error().Err(err).Str("addr", srv.Addr).Msg("Server forced to shutdown")
		}
	}

	hub.Stop()
	hook.Wait()
}
