package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/pws-weather-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/pws-weather-service/internal/adapter/kafka"
	"github.com/couchcryptid/pws-weather-service/internal/adapter/wunderground"
	"github.com/couchcryptid/pws-weather-service/internal/config"
	"github.com/couchcryptid/pws-weather-service/internal/coordinator"
	"github.com/couchcryptid/pws-weather-service/internal/domain"
	"github.com/couchcryptid/pws-weather-service/internal/observability"
	"github.com/couchcryptid/pws-weather-service/internal/scheduler"
	"github.com/joho/godotenv"
)

func main() {
	// A .env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	anchor := &domain.GeoAnchor{}
	if cfg.CoordsPinned {
		anchor = domain.NewGeoAnchor(cfg.Latitude, cfg.Longitude)
		logger.Info("forecast geocode pinned", "lat", cfg.Latitude, "lon", cfg.Longitude)
	}

	fetcher := wunderground.NewClient(wunderground.Config{
		APIKey:           cfg.APIKey,
		Units:            cfg.UnitSystem,
		Language:         cfg.Language,
		NumericPrecision: cfg.NumericPrecision,
		ForecastEnabled:  cfg.ForecastEnabled,
		Timeout:          cfg.FetchTimeout,
	}, anchor, logger)

	// Snapshot publishing is feature-flagged via KAFKA_BROKERS / KAFKA_ENABLED.
	var publisher coordinator.Publisher
	var kafkaPublisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPublisher = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPublisher
		logger.Info("kafka snapshot publishing enabled", "topic", cfg.KafkaTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka snapshot publishing disabled")
	}

	coord := coordinator.New(fetcher, publisher, cfg.Stations, metrics, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A cycle is at most two sequential requests per station, fetched in
	// parallel across stations.
	cycleTimeout := 3 * cfg.FetchTimeout

	// Warm the cache before the scheduler takes over. A total failure here
	// is not fatal: the service stays up, /readyz reports 503, and the
	// scheduler keeps retrying.
	initCtx, cancel := context.WithTimeout(ctx, cycleTimeout)
	if err := coord.Refresh(initCtx); err != nil {
		logger.Error("initial refresh produced no data, will keep retrying", "error", err)
	}
	cancel()

	sched := scheduler.New(cfg.RefreshInterval, cycleTimeout, coord, logger)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, coord, cfg.CalendarDayTemperature, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if kafkaPublisher != nil {
		if err := kafkaPublisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
