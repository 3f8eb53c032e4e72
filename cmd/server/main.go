package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/irfndi/augur-ai-go/internal/api"
	"github.com/irfndi/augur-ai-go/internal/api/handlers"
	"github.com/irfndi/augur-ai-go/internal/cache"
	"github.com/irfndi/augur-ai-go/internal/config"
	"github.com/irfndi/augur-ai-go/internal/logging"
	"github.com/irfndi/augur-ai-go/internal/services"
	"github.com/irfndi/augur-ai-go/internal/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Application failed: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// .env is optional, environment variables may come from the host
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	// Initialize telemetry first
	shutdownTelemetry, err := telemetry.Init(context.Background(), cfg.Telemetry)
	if err != nil {
		return fmt.Errorf("failed to initialize telemetry: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			logger.WithError(err).Error("Failed to shutdown telemetry")
		}
	}()

	// Forecast responses are cached in Redis when enabled. A missing cache
	// degrades to recomputing every request, never to startup failure.
	var forecastCache *cache.ForecastCache
	if cfg.Redis.Enabled {
		forecastCache, err = cache.NewForecastCache(cfg.Redis, logger)
		if err != nil {
			logger.WithError(err).Warn("Forecast cache unavailable, continuing without caching")
			forecastCache = nil
		} else {
			defer func() {
				if err := forecastCache.Close(); err != nil {
					logger.WithError(err).Error("Failed to close forecast cache")
				}
			}()
		}
	}

	// Initialize services
	charts := services.NewChartBuilder(logger)
	store := services.NewArtifactStore(cfg.Model.ArtifactDir)
	forecastService := services.NewForecastService(store, charts, forecastCache, logger)
	uploadService := services.NewUploadService(charts, logger)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))

	// Setup routes
	api.SetupRoutes(router,
		handlers.NewForecastHandler(forecastService, cfg.Forecast.DefaultSteps, cfg.Forecast.MaxSteps),
		handlers.NewUploadHandler(uploadService, cfg.Upload.MaxFileBytes, cfg.Forecast.DefaultSteps, cfg.Upload.MaxSteps),
		handlers.NewHealthHandler(),
	)

	// Create HTTP server with security timeouts
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       15 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.WithFields(logrus.Fields{
			"service":      handlers.ServiceName,
			"port":         cfg.Server.Port,
			"model_loaded": forecastService.ModelLoaded(),
		}).Info("Application startup")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown signal received")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server exited gracefully")
	return nil
}
