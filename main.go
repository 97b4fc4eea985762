package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/braiinybear/backoffice-service/internal/auth"
	"github.com/braiinybear/backoffice-service/internal/config"
	"github.com/braiinybear/backoffice-service/internal/events"
	"github.com/braiinybear/backoffice-service/internal/handlers"
	"github.com/braiinybear/backoffice-service/internal/metrics"
	"github.com/braiinybear/backoffice-service/internal/repositories"
	"github.com/braiinybear/backoffice-service/internal/repositories/postgres"
	"github.com/braiinybear/backoffice-service/internal/services"
	"github.com/braiinybear/backoffice-service/internal/storage"
	"github.com/braiinybear/backoffice-service/internal/utils"
	"github.com/braiinybear/backoffice-service/internal/validator"
	"github.com/braiinybear/backoffice-service/pkg"
)

const shutdownGrace = 30 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		if rdb, err = pkg.NewRedisClient(cfg); err != nil {
			log.Warn("Redis unavailable, running without cache", "error", err)
		}
	}

	var repos repositories.RepositoryManager = postgres.NewManager(postgres.Config{DB: db, RedisClient: rdb})
	if err := repos.Initialize(); err != nil {
		return fmt.Errorf("repositories: %w", err)
	}

	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	blobs, err := newBlobStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	m := metrics.New()
	svc := services.NewServiceManager(repos.GetRepository(), log, validator.New(), services.Dependencies{
		Sessions:   auth.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL),
		Landing:    auth.DefaultLanding,
		Events:     publisher,
		Blobs:      blobs,
		BlobBucket: cfg.Storage.Bucket,
		Metrics:    m,
	})
	if err := svc.Initialize(ctx); err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	logger := utils.NewSlogLogger(log)
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return fmt.Errorf("trusted proxies: %w", err)
	}
	handlers.SetupMiddleware(router, logger, m)
	handlers.NewHandlerManager(svc, cfg, auth.DefaultLanding, m, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Starting server", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()

	// HTTP first so in-flight requests can still reach the services and the database.
	err = errors.Join(
		server.Shutdown(shutdownCtx),
		svc.Shutdown(shutdownCtx),
		repos.Shutdown(shutdownCtx),
	)
	log.Info("Server exited")
	return err
}

func newPublisher(cfg *config.Config, log *slog.Logger) (events.EventPublisher, error) {
	if len(cfg.Kafka.Brokers) == 0 {
		return events.NoopPublisher{}, nil
	}
	p, err := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	if err != nil {
		return nil, fmt.Errorf("kafka publisher: %w", err)
	}
	return p, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (storage.BlobStore, error) {
	if cfg.Storage.Endpoint == "" {
		log.Warn("MINIO_ENDPOINT not set, keeping uploads in memory")
		return storage.NewMemoryStore(fmt.Sprintf("http://localhost:%s/%s", cfg.Port, cfg.Storage.Bucket)), nil
	}
	store, err := storage.NewMinioStore(cfg.Storage, log)
	if err != nil {
		return nil, fmt.Errorf("object storage: %w", err)
	}
	if err := store.EnsureBucket(ctx); err != nil {
		return nil, fmt.Errorf("bucket %q: %w", cfg.Storage.Bucket, err)
	}
	return store, nil
}
