package main

import (
	"code-drop/internal/adapters/eventbroker/nats"
	"code-drop/internal/adapters/repository/postgres"
	"code-drop/internal/adapters/repository/sqlite"
	"code-drop/internal/config"
	"code-drop/internal/core/port"
	"code-drop/internal/core/service/minioevent"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer stop()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// Load config
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if cfg.NATS.URL == "" {
		logger.Error("NATS_URL is required")
		os.Exit(1)
	}

	// Initialize registry
	registry, closeRegistry, err := initRegistry(cfg)
	if err != nil {
		logger.Error("failed to init registry", "backend", cfg.Registry.Backend, "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := closeRegistry(); err != nil {
			logger.Error("failed to close registry", "error", err)
		}
	}()
	logger.Info("registry initialized", "backend", cfg.Registry.Backend)

	minioMessageService := minioevent.NewMinioEventService(registry, logger)

	// Initialize NATS consumer
	natsConsumer, err := nats.NewNATSConsumer(cfg.NATS, logger)
	if err != nil {
		logger.Error("failed to create NATS consumer", "error", err)
		os.Exit(1)
	}
	logger.Info("NATS consumer initialized")

	setupCtx, setupCancel := context.WithTimeout(ctx, 10*time.Second)
	defer setupCancel()
	if err := natsConsumer.EnsureStream(setupCtx); err != nil {
		logger.Error("failed to ensure NATS stream", "error", err)
		natsConsumer.Close()
		os.Exit(1)
	}

	// Subscribe to NATS
	if err := natsConsumer.Subscribe(ctx, minioMessageService); err != nil {
		logger.Error("failed to subscribe to NATS", "error", err)
		natsConsumer.Close()
		os.Exit(1)
	}
	logger.Info("NATS subscription active")

	// Wait for termination signal
	<-ctx.Done()
	logger.Info("gracefully shutting down blob events service")

	if err := natsConsumer.Close(); err != nil {
		logger.Error("failed to close NATS consumer during shutdown", "error", err)
	}

	logger.Info("blob events service shutdown complete")
}

// initRegistry opens a registry shared with the api process
func initRegistry(cfg *config.Config) (port.FileRegistry, func() error, error) {
	switch cfg.Registry.Backend {
	case config.RegistryBackendSQLite:
		db, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewGormFileRegistry(db), sqlDB.Close, nil

	case config.RegistryBackendPostgres:
		db, err := initDB(cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		return postgres.NewSqlFileRegistry(db), db.Close, nil
	}
	return nil, nil, fmt.Errorf("registry backend %q cannot be shared between processes", cfg.Registry.Backend)
}

func initDB(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host,
		cfg.Port,
		cfg.User,
		cfg.Password,
		cfg.Name,
		cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenCons)
	db.SetMaxIdleConns(cfg.MaxIdleCons)
	db.SetConnMaxLifetime(cfg.ConMaxLifeTime)

	return db, nil
}
