package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exoplanet-prediction-api/config"
	"exoplanet-prediction-api/database"
	"exoplanet-prediction-api/inference"
	"exoplanet-prediction-api/ingest"
	"exoplanet-prediction-api/logger"
	"exoplanet-prediction-api/services"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.Open(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("Failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	cache, err := services.NewCacheService(cfg.Redis, zlog.Named("redis"))
	if err != nil {
		zlog.Warn("Redis unavailable, predictions will not be cached or published", zap.Error(err))
	}
	defer cache.Close()

	auth, err := services.NewAuthService(cfg.JWT)
	if err != nil {
		zlog.Fatal("Invalid JWT settings", zap.Error(err))
	}
	users := services.NewUserService(db, auth, cache, zlog.Named("users"))

	locator := inference.NewLocator(cfg.Models.Dir)
	keplerModel := inference.NewLazy(inference.KeplerArtifact, locator, nil)
	tessModel := inference.NewLazy(inference.TessArtifact, locator, nil)
	if cfg.Models.Preload {
		for _, m := range []*inference.Lazy{keplerModel, tessModel} {
			if _, err := m.Get(); err != nil {
				zlog.Warn("Model preload failed", zap.String("model", m.Name()), zap.Error(err))
			}
		}
	}

	consumer := ingest.NewConsumer(
		services.NewKeplerService(db, keplerModel, users, cache, zlog),
		services.NewTessService(db, tessModel, users, cache, zlog),
		zlog,
	)

	srv := metricsServer(cfg.MQTT.MetricsAddr)
	go func() {
		zlog.Info("Metrics server listening", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Metrics server failed", zap.Error(err))
		}
	}()

	if err := ingest.Run(ctx, cfg.MQTT, consumer, zlog.Named("mqtt")); err != nil {
		zlog.Error("Ingest stopped", zap.Error(err))
	}

	zlog.Info("Ingest shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zlog.Error("Metrics server forced to shutdown", zap.Error(err))
	}
}

func metricsServer(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
