// Package cli provides common initialization shared by cmd/buget and
// cmd/buget-worker.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mocanunicolaemarius-del/buget/internal/config"
	"github.com/mocanunicolaemarius-del/buget/internal/ledger"
	applog "github.com/mocanunicolaemarius-del/buget/internal/log"
	"github.com/mocanunicolaemarius-del/buget/internal/storage"
	"github.com/mocanunicolaemarius-del/buget/internal/storage/memory"
)

// SetupLogger initializes structured logging and sets it as the default.
func SetupLogger() *applog.Logger {
	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the ledger store selected by the configuration. The
// cleanup func is a no-op for the memory backend.
func InitStore(logger *applog.Logger, cfg *config.Config) (ledger.Store, func() error) {
	storeLog := logger.WithComponent(applog.ComponentStorage)
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
		if err != nil {
			storeLog.Error("Failed to initialize SQLite repository",
				applog.FieldError, err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		storeLog.Info("Initialized SQLite backend", "db_path", cfg.SQLiteDBPath)
		return repo, repo.Close
	default:
		storeLog.Info("Initialized memory backend")
		return memory.New(), func() error { return nil }
	}
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *applog.Logger, timeout time.Duration, cleanup func()) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received",
			applog.FieldOperation, applog.OpShutdown, "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup()
		}

		cancel()

		select {
		case <-shutdownCtx.Done():
			logger.Warn("Shutdown timeout reached")
		case <-time.After(2 * time.Second):
			logger.Info("Shutdown complete")
		}
		close(done)
	}()

	return ctx, done
}

// WaitForShutdown blocks until the context is cancelled.
func WaitForShutdown(ctx context.Context, done <-chan struct{}) {
	<-ctx.Done()
	<-done
}
