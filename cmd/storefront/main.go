package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/api"
	"github.com/jafarshop/storefront/internal/backend"
	"github.com/jafarshop/storefront/internal/cart"
	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/notification"
	"github.com/jafarshop/storefront/internal/storage"
	"github.com/jafarshop/storefront/internal/storage/postgres"
	"github.com/jafarshop/storefront/internal/storage/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	deviceID := cfg.DeviceID
	if deviceID == "" {
		deviceID = uuid.New().String()
		logger.Info("Generated device ID", zap.String("device_id", deviceID))
	}

	// Open storage
	store, err := newStorage(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to open storage", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()

	// Cart store, hydrated from the persisted snapshot
	cartStore := cart.NewStore(deviceID, store, logger)
	cartStore.Hydrate(ctx)

	// Notification relay
	client := backend.NewClient(cfg.Backend, logger)
	source := notification.NewStaticSource(cfg.Push.Token)
	navigator := notification.NewLogNavigator(logger)
	relay := notification.NewRelay(deviceID, source, client, navigator, store, logger)

	// Launch sequence: the credential arrives later via the session login
	// endpoint, so registration is lazy when none is configured.
	if err := relay.Start(ctx, os.Getenv("SESSION_CREDENTIAL")); err != nil {
		logger.Warn("Notification relay start", zap.Error(err))
	}

	router := api.NewRouter(cfg, cartStore, relay, logger)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting storefront agent", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown: drain pending cart writes before closing storage
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}

	cartStore.Flush()
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.Environment == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func newStorage(cfg *config.Config, logger *zap.Logger) (storage.Store, error) {
	switch cfg.Storage.Backend {
	case "postgres":
		db, err := postgres.NewConnection(cfg.Storage.Database)
		if err != nil {
			return nil, err
		}
		return postgres.NewStore(db, logger), nil
	default:
		store := redis.NewStore(cfg.Storage.Redis, logger)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return nil, fmt.Errorf("failed to ping redis: %w", err)
		}
		return store, nil
	}
}
