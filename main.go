package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/HRP-2025/directory-service/internal/cache"
	"github.com/HRP-2025/directory-service/internal/config"
	"github.com/HRP-2025/directory-service/internal/events"
	"github.com/HRP-2025/directory-service/internal/handlers"
	"github.com/HRP-2025/directory-service/internal/remote"
	"github.com/HRP-2025/directory-service/internal/repositories/memory"
	"github.com/HRP-2025/directory-service/internal/services"
	"github.com/HRP-2025/directory-service/internal/utils"
	"github.com/HRP-2025/directory-service/internal/validator"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	slogLogger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel(),
	}))
	logger := utils.NewSlogLogger(slogLogger)

	// Initialize Redis (if configured)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Printf("Warning: Invalid Redis URL: %v", err)
		} else {
			redisClient = redis.NewClient(opts)
			if err := redisClient.Ping(context.Background()).Err(); err != nil {
				log.Printf("Warning: Failed to connect to Redis: %v", err)
				redisClient = nil
			}
		}
	}

	// Initialize remote source with cache
	cacheHelper := cache.NewCacheHelper(redisClient, cache.EmployeeCacheConfig.Prefix)
	remoteClient := remote.NewClient(cfg.RemoteAPI.BaseURL, cfg.RemoteAPI.Timeout)
	employeeSource := remote.NewEmployeeSource(remoteClient, cacheHelper, cfg.CacheTTL, nil, slogLogger)

	// Initialize event stream: in-process channel, plus Kafka forwarding
	// when brokers are configured
	stream := events.NewChannelPublisher(slogLogger)
	var publisher events.EventPublisher = stream
	if len(cfg.Kafka.Brokers) > 0 {
		forwarder, err := events.NewKafkaForwarder(cfg.Kafka.Brokers, cfg.Kafka.Topic, slogLogger)
		if err != nil {
			log.Printf("Warning: Failed to initialize Kafka forwarder: %v", err)
		} else {
			publisher = events.NewCompositePublisher(slogLogger, stream, forwarder)
		}
	}

	// Initialize repository
	repo := memory.NewEmployeeRepository()

	// Initialize validator
	validator := validator.New()

	// Initialize services
	serviceManager := services.NewServiceManager(repo, employeeSource, publisher, slogLogger, validator, services.ServiceManagerConfig{
		AutoSyncEnabled:  cfg.AutoSync.Enabled,
		AutoSyncInterval: cfg.AutoSync.Interval,
	})
	if err := serviceManager.Initialize(context.Background()); err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}

	// Initialize handlers
	handlerManager := handlers.NewHandlerManager(serviceManager, repo, stream, logger)

	// Setup Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Setup middleware
	handlers.SetupMiddleware(router, logger)

	// Setup routes
	handlerManager.SetupRoutes(router)

	// Create HTTP server
	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	// Shutdown services
	if err := serviceManager.Shutdown(ctx); err != nil {
		log.Printf("Failed to shutdown services: %v", err)
	}

	// Close Redis connection
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited")
}
