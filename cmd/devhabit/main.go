package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/devhabit/devhabit/internal/config"
	dbRedis "github.com/devhabit/devhabit/internal/db/redis"
	dbSQLite "github.com/devhabit/devhabit/internal/db/sqlite"
	logpkg "github.com/devhabit/devhabit/internal/logger"
	"github.com/devhabit/devhabit/internal/metrics"
	blogrepo "github.com/devhabit/devhabit/internal/repository/blog"
	chiTransport "github.com/devhabit/devhabit/internal/transport/chi"
	healthuc "github.com/devhabit/devhabit/internal/usecase/health"
	searchuc "github.com/devhabit/devhabit/internal/usecase/search"
	"github.com/devhabit/devhabit/internal/version"
)

// backend is an opened document store with the repository reading from it.
type backend struct {
	repo   searchuc.Repository
	pinger healthuc.DBPinger
	close  func()
	wait   func(ctx context.Context, timeout time.Duration) error
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting devhabit public API",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("db_path", cfg.Database.Path),
	)

	ctx := context.Background()
	be, err := openBackend(ctx, &cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer be.close()

	if err := be.wait(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	var searchOpts []searchuc.Option
	if cfg.Public.OwnerUserID != "" {
		searchOpts = append(searchOpts, searchuc.WithOwner(cfg.Public.OwnerUserID))
		logger.Info("Public visibility limited to one author", zap.String("owner_user_id", cfg.Public.OwnerUserID))
	}
	searchSvc := searchuc.NewInstrumented(searchuc.New(be.repo, searchOpts...), logger)
	healthSvc := healthuc.New(be.pinger)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger).
		WithPagination(cfg.Public.DefaultPageSize, cfg.Public.MaxPageSize)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openBackend creates the document store selected by database.driver.
// Valkey speaks the Redis protocol and shares its store.
func openBackend(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*backend, error) {
	switch cfg.Database.Driver {
	case config.DriverRedis, config.DriverValkey:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("%s store: %w", cfg.Database.Driver, err)
		}
		return &backend{
			repo:   blogrepo.New(store, cfg.Storage.KeyPrefix),
			pinger: store,
			close:  store.Close,
			wait:   store.WaitForReady,
		}, nil
	case config.DriverSQLite:
		store, err := dbSQLite.Open(ctx, cfg.Database.Path, logger)
		if err != nil {
			return nil, fmt.Errorf("sqlite store: %w", err)
		}
		return &backend{
			repo:   blogrepo.NewSQL(store.DB()),
			pinger: store,
			close:  store.Close,
			wait:   store.WaitForReady,
		}, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}
