package main

import (
	"code-drop/internal/adapters/handlers/http/chi"
	file2 "code-drop/internal/adapters/handlers/http/chi/v1/file"
	"code-drop/internal/adapters/repository/memory"
	"code-drop/internal/adapters/repository/postgres"
	"code-drop/internal/adapters/repository/sqlite"
	"code-drop/internal/adapters/storage/filesystem"
	"code-drop/internal/adapters/storage/minio"
	"code-drop/internal/config"
	"code-drop/internal/core/port"
	"code-drop/internal/core/service/cleanup"
	"code-drop/internal/core/service/code"
	"code-drop/internal/core/service/file"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
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

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Env.Env)

	//registry
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

	//storage
	blobStore, err := initBlobStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to init blob store", "backend", cfg.Blob.Backend, "error", err)
		os.Exit(1)
	}
	logger.Info("blob store initialized", "backend", cfg.Blob.Backend)

	cleanupService := cleanup.NewCleanupService(registry, blobStore, logger)
	fileService := file.NewFileService(registry, blobStore, code.NewGenerator(), cleanupService, cfg.Registry, cfg.Upload, logger)

	//http
	fileHandler := file2.NewFileHandlerV1(fileService, cfg.Upload, logger)

	router := chi.NewRouter(logger, fileHandler, cfg.Env.Env, cfg.Server.RequestTimeout)
	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("starting server", "host", cfg.Server.Host, "port", cfg.Server.Port)
		servErr := server.ListenAndServe()
		if servErr != nil && !errors.Is(servErr, http.ErrServerClosed) {
			logger.Error("failed to start server", "error", servErr)
			stop()
		}
	}()

	// init cleanup task
	reaper := cleanup.NewReaper(cleanupService, cfg.Registry.ReapEvery, logger)
	wg.Add(1)
	go func() {
		defer wg.Done()
		reaper.Run(ctx)
	}()

	//wait for context cancel
	<-ctx.Done()
	logger.Info("gracefully shutting down app")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown server", "error", err)
	} else {
		logger.Info("server gracefully shutdown complete")
	}

	wg.Wait()
	logger.Info("app shutdown complete")

}

func newLogger(env string) *slog.Logger {
	if env == "DEV" {
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

// initRegistry opens the configured registry backend and returns its closer
func initRegistry(cfg *config.Config) (port.FileRegistry, func() error, error) {
	switch cfg.Registry.Backend {
	case config.RegistryBackendMemory:
		return memory.NewFileRegistry(), func() error { return nil }, nil

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
	return nil, nil, fmt.Errorf("unknown registry backend %q", cfg.Registry.Backend)
}

func initBlobStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (port.BlobStore, error) {
	switch cfg.Blob.Backend {
	case config.BlobBackendFilesystem:
		return filesystem.NewStorage(cfg.Blob.Dir, logger)
	case config.BlobBackendMinio:
		return minio.NewAdapter(ctx, cfg.Minio, logger)
	}
	return nil, fmt.Errorf("unknown blob backend %q", cfg.Blob.Backend)
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
