// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/freshmark/backend-go/internal/api"
	"github.com/freshmark/backend-go/internal/cache"
	"github.com/freshmark/backend-go/internal/config"
	"github.com/freshmark/backend-go/internal/forecast"
	"github.com/freshmark/backend-go/internal/markdown"
	"github.com/freshmark/backend-go/internal/repository/postgres"
	"github.com/freshmark/backend-go/internal/service"
	"github.com/freshmark/backend-go/internal/storage"
	"github.com/freshmark/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize the durable model cache
	modelCache, err := newModelCache(cfg.Cache)
	if err != nil {
		log.Fatalf("Failed to initialize model cache: %v", err)
	}

	// Initialize services
	repo := postgres.NewInventoryRepository(db)
	store := forecast.NewModelStore(modelCache)
	forecaster := forecast.NewForecaster(store, cfg.Forecast.MinTrainingRows)
	optimizer := markdown.NewOptimizer(markdown.NewElasticityModel())

	services := &api.Services{
		InventoryService: service.NewInventoryService(repo),
		ForecastService:  service.NewForecastService(repo, forecaster, cfg.Forecast.HistoryDays, cfg.Forecast.DefaultHorizonDays),
		MarkdownService:  service.NewMarkdownService(repo, forecaster, optimizer, cfg.Forecast.HistoryDays, cfg.Forecast.BatchWorkers),
	}

	// Initialize HTTP server
	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func newModelCache(cfg config.CacheConfig) (cache.ModelCache, error) {
	switch cfg.Backend {
	case "redis":
		return cache.NewRedisModelCache(cfg)
	case "s3":
		client, err := storage.NewMinioClient(cfg)
		if err != nil {
			return nil, err
		}
		return storage.NewModelObjectStore(client), nil
	default:
		return cache.NewNoopModelCache(), nil
	}
}
