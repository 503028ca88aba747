// Package main is the entry point for the advisor metrics API.
// It serves the portfolio metrics, rebalancing and demo endpoints and runs the
// scheduled demo refresh.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/advisor/internal/api"
	"github.com/aristath/advisor/internal/config"
	"github.com/aristath/advisor/internal/events"
	"github.com/aristath/advisor/internal/modules/demo"
	demohandlers "github.com/aristath/advisor/internal/modules/demo/handlers"
	"github.com/aristath/advisor/internal/modules/metrics"
	metricshandlers "github.com/aristath/advisor/internal/modules/metrics/handlers"
	"github.com/aristath/advisor/internal/modules/rebalancing"
	rebalancinghandlers "github.com/aristath/advisor/internal/modules/rebalancing/handlers"
	"github.com/aristath/advisor/internal/scheduler"
	"github.com/aristath/advisor/internal/server"
	"github.com/aristath/advisor/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.LogPretty,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting advisor")

	bus := events.NewBus(log)
	validator := api.NewValidator()

	metricsService := metrics.NewService(cfg.MetricsOptions(), log)
	rebalancingService := rebalancing.NewService(cfg.RebalanceTolerance, bus, log)
	demoService := demo.NewService(demo.Config{
		Seed:      cfg.Demo.Seed,
		Days:      cfg.Demo.Days,
		AnnualVol: cfg.Demo.AnnualVol,
		Drift:     cfg.Demo.Drift,
		Options:   cfg.MetricsOptions(),
	}, bus, log)

	sched := scheduler.New(log)
	if cfg.Demo.RefreshSchedule != "" {
		if err := sched.AddJob(cfg.Demo.RefreshSchedule, demo.NewRefreshJob(demoService)); err != nil {
			log.Fatal().Err(err).Msg("Failed to register demo refresh job")
		}
	} else {
		log.Info().Msg("Demo refresh schedule empty, job disabled")
	}

	var originPatterns []string
	if cfg.DevMode {
		originPatterns = []string{"*"}
	}

	srv := server.New(server.Config{
		Log:            log,
		Port:           cfg.Port,
		DevMode:        cfg.DevMode,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		EventBus:       bus,
		Scheduler:      sched,
		Modules: []server.RouteRegistrar{
			metricshandlers.NewHandler(metricsService, validator, log),
			rebalancinghandlers.NewHandler(rebalancingService, validator, log),
			demohandlers.NewHandler(demoService, bus, originPatterns, log),
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	sched.Start()
	log.Info().Int("port", cfg.Port).Strs("jobs", sched.Jobs()).Msg("Server started successfully")

	<-ctx.Done()
	shutdown(log, srv, sched)
}

func shutdown(log zerolog.Logger, srv *server.Server, sched *scheduler.Scheduler) {
	log.Info().Msg("Shutting down server...")

	sched.Stop()
	log.Info().Msg("Scheduler stopped")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
