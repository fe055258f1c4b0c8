package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"exoplanet-prediction-api/config"
	"exoplanet-prediction-api/database"
	"exoplanet-prediction-api/handlers"
	"exoplanet-prediction-api/inference"
	"exoplanet-prediction-api/logger"
	"exoplanet-prediction-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	if cfg.JWT.Secret == "your-secret-key-here" {
		zlog.Warn("SECRET_KEY is the built-in default; set it outside development")
	}

	// Connect to database
	db, err := database.Open(cfg.Database, zlog)
	if err != nil {
		zlog.Fatal("Failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	cache, err := services.NewCacheService(cfg.Redis, zlog.Named("redis"))
	if err != nil {
		zlog.Warn("Redis unavailable, continuing without cache and live feed", zap.Error(err))
	}
	defer cache.Close()

	auth, err := services.NewAuthService(cfg.JWT)
	if err != nil {
		zlog.Fatal("Invalid JWT settings", zap.Error(err))
	}

	locator := inference.NewLocator(cfg.Models.Dir)
	keplerModel := inference.NewLazy(inference.KeplerArtifact, locator, nil)
	tessModel := inference.NewLazy(inference.TessArtifact, locator, nil)
	if cfg.Models.Preload {
		preload(zlog, keplerModel, tessModel)
	}

	gin.SetMode(gin.ReleaseMode)
	users := services.NewUserService(db, auth, cache, zlog.Named("users"))
	router := handlers.SetupRouter(handlers.Deps{
		Users:  users,
		Kepler: services.NewKeplerService(db, keplerModel, users, cache, zlog),
		Tess:   services.NewTessService(db, tessModel, users, cache, zlog),
		Cache:  cache,
		CORS:   cfg.CORS,
		Log:    zlog,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server forced to shutdown", zap.Error(err))
	}

	zlog.Info("Server exited")
}

// preload loads models at startup. A model that fails to load is retried on
// first use and answers 503 until then.
func preload(zlog *zap.Logger, models ...*inference.Lazy) {
	for _, m := range models {
		start := time.Now()
		if _, err := m.Get(); err != nil {
			zlog.Warn("Model preload failed", zap.String("model", m.Name()), zap.Error(err))
			continue
		}
		zlog.Info("Model loaded",
			zap.String("model", m.Name()),
			zap.String("path", m.Path()),
			zap.Duration("took", time.Since(start)),
		)
	}
}
