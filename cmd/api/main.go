package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/clinicflow/agenda-api/internal/config"
	availabilityHandler "github.com/clinicflow/agenda-api/internal/handler/availability"
	"github.com/clinicflow/agenda-api/internal/handler/health"
	prometheusHandler "github.com/clinicflow/agenda-api/internal/handler/prometheus"
	"github.com/clinicflow/agenda-api/internal/repository/postgres"
	"github.com/clinicflow/agenda-api/internal/router"
	availabilityService "github.com/clinicflow/agenda-api/internal/service/availability"
	"github.com/clinicflow/agenda-api/pkg/logger"
	redisBroker "github.com/clinicflow/agenda-api/pkg/messaging/redis"
	"github.com/clinicflow/agenda-api/pkg/metrics"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	appMetrics := metrics.NewMetrics("agenda", "availability")

	availabilityRepo := postgres.NewAvailabilityRepository(db, appMetrics)
	bookingRepo := postgres.NewBookingRepository(db, appMetrics)

	snapshots := cache.New(
		time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		time.Duration(cfg.Cache.CleanupIntervalSeconds)*time.Second,
	)

	availabilitySvc := availabilityService.NewService(availabilityRepo, bookingRepo, snapshots, appLogger, appMetrics)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Redis.Enabled {
		broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
			URL:          cfg.Redis.URL,
			MaxRetries:   3,
			RetryBackoff: 100 * time.Millisecond,
			PoolSize:     10,
			MinIdleConns: 2,
		}, appLogger.Zerolog(), appMetrics)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer broker.Close()

		go func() {
			if err := availabilitySvc.ListenForChanges(ctx, broker); err != nil && ctx.Err() == nil {
				appLogger.Error(err, "availability-change listener stopped")
			}
		}()
	}

	prom := prometheusHandler.New()
	r := router.NewRouter(
		router.Config{
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
		},
		prom,
		availabilityHandler.NewHandler(availabilitySvc),
		health.NewHandler(db),
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
}
