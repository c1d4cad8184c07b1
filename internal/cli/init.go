// Package cli provides the initialization shared by cmd/salesledger and
// cmd/salesledger-worker.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"salesledger/internal/amqp"
	"salesledger/internal/backend"
	"salesledger/internal/cache"
	"salesledger/internal/config"
	"salesledger/internal/ledger"
	applog "salesledger/internal/log"
	"salesledger/internal/mirror"
	"salesledger/internal/services"
)

// SetupLogger configures the default logger from LOG_LEVEL and LOG_FORMAT
// semantics. Unknown levels fall back to info.
func SetupLogger(component, level, format string) *slog.Logger {
	lvl, err := applog.ParseLevel(level)
	logger := applog.New(applog.Config{
		Level:     lvl,
		Format:    format,
		Component: component,
		Output:    os.Stderr,
	})
	applog.SetDefault(logger)
	if err != nil {
		slog.Warn("Falling back to info log level", "error", err)
	}
	return slog.Default()
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// Runtime holds the wired ledger stack of one process.
type Runtime struct {
	Config  *config.Config
	Store   *ledger.Store
	Syncer  *mirror.Syncer
	Service *services.LedgerService

	dispatcher *mirror.AsyncDispatcher
	cleanups   []backend.CleanupFunc
}

// NewRuntime opens the configured medium and mirror. Mirror problems are
// logged and leave the syncer disconnected; only a medium failure is fatal.
func NewRuntime(ctx context.Context, logger *slog.Logger, cfg *config.Config) (*Runtime, error) {
	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	factory := backend.NewFactory(logger)

	res, err := factory.CreateBackend(ctx, bcfg)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}
	rt := &Runtime{Config: cfg}
	if res.Cleanup != nil {
		rt.cleanups = append(rt.cleanups, res.Cleanup)
	}
	rt.Store = ledger.NewStore(res.Medium, cfg.LedgerNamespace)

	remote, err := factory.CreateRemote(ctx, bcfg)
	if err != nil {
		logger.Warn("Remote mirror unavailable, continuing without sync", "error", err)
		remote = nil
	}
	rt.Syncer = mirror.NewSyncer(remote,
		mirror.WithTimeout(cfg.MirrorTimeout),
		mirror.WithConcurrency(cfg.MirrorWorkers),
		mirror.WithUserCache(cache.NewLRUCache[bool](256, time.Hour)))

	handler := mirror.SyncHandler(rt.Syncer)
	if cfg.MirrorMode == config.MirrorAMQP {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, mirroring inline", "error", err)
		} else {
			logger.Info("Initialized AMQP client",
				"exchange", cfg.AMQPExchange,
				"queue", cfg.AMQPQueue)
			handler = client.Publish
			rt.cleanups = append(rt.cleanups, client.Close)
		}
	}

	rt.dispatcher = mirror.NewAsyncDispatcher(handler, cfg.MirrorWorkers, cfg.MirrorQueueSize)
	rt.Service = services.NewLedgerService(rt.Store, rt.dispatcher, rt.Syncer)

	logger.Info("Runtime ready",
		"backend", cfg.DataBackend,
		"namespace", cfg.LedgerNamespace,
		"mirror_mode", cfg.MirrorMode,
		"remote_connected", rt.Syncer.Connected())
	return rt, nil
}

// Close drains pending mirror jobs, then releases the medium and broker.
func (r *Runtime) Close(ctx context.Context) error {
	var errs []error
	if r.dispatcher != nil {
		if err := r.dispatcher.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("dispatcher: %w", err))
		}
	}
	// Reverse order: broker before medium.
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		if err := r.cleanups[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// GracefulShutdown sets up signal handling for graceful shutdown.
// Returns a context that will be cancelled on shutdown signals,
// and a channel that signals when shutdown is complete.
func GracefulShutdown(logger *slog.Logger, timeout time.Duration, cleanup func(context.Context)) (context.Context, <-chan struct{}) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
		defer shutdownCancel()

		if cleanup != nil {
			cleanup(shutdownCtx)
		}

		if shutdownCtx.Err() != nil {
			logger.Warn("Shutdown timeout reached")
		} else {
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
