package main

import (
	"context"
	"os"
	"time"

	"tracker/internal/amqp"
	"tracker/internal/cli"
	"tracker/internal/core"
	"tracker/internal/export"
	"tracker/internal/log"
	"tracker/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("tracker-worker requires AMQP_URL")
		os.Exit(1)
	}

	repo := cli.InitStore(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	ingestWorker := worker.NewIngestWorker(
		repo,
		export.NewWriter(cfg.ReportDir),
		cfg.Calendar(),
		core.DefaultRules(),
		cfg.CSVPath,
	)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, nil)

	go func() {
		if err := amqpClient.ConsumeIngestRequests(ctx, ingestWorker.HandleRequest); err != nil {
			if err != context.Canceled {
				logger.Error("Request consumption failed", "error", err)
			}
		}
	}()

	// Periodic re-ingest picks up re-exported files without an explicit
	// request.
	ticker := time.NewTicker(cfg.IngestInterval)
	defer ticker.Stop()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := ingestWorker.RunDefault(ctx, cfg.Source); err != nil {
					logger.Error("Periodic ingest failed", "error", err)
				}
			}
		}
	}()

	logger.Info("tracker-worker started",
		"queue", cfg.AMQPQueue,
		"interval", cfg.IngestInterval.String(),
		"source", cfg.Source)

	cli.WaitForShutdown(ctx, done)
}
