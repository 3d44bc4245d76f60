package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"wordlewatch/internal/answers"
	"wordlewatch/internal/api/routes"
	"wordlewatch/internal/callback"
	"wordlewatch/internal/config"
	"wordlewatch/internal/logging"
	"wordlewatch/internal/review"
	"wordlewatch/internal/schedule"
	"wordlewatch/internal/scraper/workers"
	"wordlewatch/internal/storage"
	"wordlewatch/pkg/utils"
)

func main() {
	// Load .env if present; real env vars still win
	_ = godotenv.Load()

	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting wordlewatch server")

	// Review record store
	store, err := storage.NewStore(cfg)
	if err != nil {
		logger.Error("Failed to open review store", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer store.Close()

	// Result sinks: store always, cache and webhook when configured
	sinks := []review.Sink{store}

	var cache *utils.RedisClient
	if cfg.Redis.Enabled {
		cache = utils.NewRedisClient(cfg)
		defer cache.Close()
		sinks = append(sinks, cache)
	}

	if cfg.Callback.Enabled {
		webhook, err := callback.NewClient(cfg)
		if err != nil {
			logger.Error("Failed to create callback client", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
		sinks = append(sinks, webhook)
	}

	answersClient := answers.NewClient(cfg)
	snapshots := storage.NewSnapshotWriter(cfg)

	// Worker pool
	poolManager := workers.NewPoolManager(cfg, answersClient, sinks, snapshots)
	if err := poolManager.Initialize(); err != nil {
		logger.Error("Failed to start worker pool", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer poolManager.Shutdown()

	// Daily scheduler
	var scheduler *schedule.Scheduler
	if cfg.Schedule.Enabled {
		scheduler, err = schedule.NewScheduler(cfg, poolManager)
		if err != nil {
			logger.Error("Failed to create scheduler", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
		if err := scheduler.Start(); err != nil {
			logger.Error("Failed to start scheduler", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}

	// HTTP API
	e := echo.New()
	e.HideBanner = true
	routes.SetupRoutes(e, cfg, poolManager, store, cache)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if scheduler != nil {
			logger.Info("Stopping scheduler...")
			scheduler.Stop()
		}

		logger.Info("Stopping worker pool...")
		if err := poolManager.Shutdown(); err != nil {
			logger.Error("Error stopping worker pool", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Stopping HTTP server...")
		if err := e.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
		}

		logger.Info("Server shutdown complete")
	}()

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", map[string]interface{}{"address": address})

	if err := e.Start(address); err != nil && err != http.ErrServerClosed {
		logger.Error("Server failed to start", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}
