package main

import (
	"context"
	"errors"
	"os"
	"time"

	"salesledger/internal/amqp"
	"salesledger/internal/backend"
	"salesledger/internal/cache"
	"salesledger/internal/cli"
	"salesledger/internal/config"
	applog "salesledger/internal/log"
	"salesledger/internal/mirror"
	gsheet "salesledger/internal/sheets/google"
	"salesledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger("worker", cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting salesledger-worker")

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	// The worker only writes to the remote; no ledger medium is opened.
	remote, err := backend.NewFactory(logger).CreateRemote(context.Background(), bcfg)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets client", "error", err)
		os.Exit(1)
	}
	if remote == nil {
		logger.Error("GOOGLE_SPREADSHEET_ID is required for the mirror worker")
		os.Exit(1)
	}
	if c, ok := remote.(*gsheet.Client); ok {
		if err := c.EnsureHeaders(context.Background()); err != nil {
			logger.Warn("Failed to ensure sheet headers", "error", err)
		}
	}

	users := cache.NewLRUCache[bool](1024, time.Hour)
	janitor := cache.NewJanitor()
	janitor.Register(users)
	janitor.Start(10 * time.Minute)
	defer janitor.Stop()

	syncer := mirror.NewSyncer(remote,
		mirror.WithTimeout(cfg.MirrorTimeout),
		mirror.WithUserCache(users))
	if !syncer.TestConnection(context.Background()) {
		logger.Warn("Remote connection test failed, messages will be acknowledged without mirroring until it recovers")
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	workerLog := applog.New(applog.Config{Handler: logger.Handler()}).With("queue", cfg.AMQPQueue)
	mirrorWorker := worker.NewMirrorWorker(syncer, workerLog)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	go func() {
		if err := amqpClient.ConsumeMirrorDays(ctx, mirrorWorker.HandleMirrorDay); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", "error", err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker shutdown complete")
}
