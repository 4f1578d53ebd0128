package main

import (
	"context"
	"os"

	"tracker/internal/amqp"
	"tracker/internal/cli"
	"tracker/internal/core"
	"tracker/internal/export"
	"tracker/internal/log"
	"tracker/internal/services"
	"tracker/internal/source"
	"tracker/internal/source/csvfile"
	gsource "tracker/internal/source/google"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	cfg := cli.LoadAndValidateConfig(logger)

	ctx := context.Background()

	// With enqueue set the run is delegated to the worker over AMQP.
	if cfg.Enqueue {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		req := amqp.NewIngestRequest(cfg.Source, cfg.CSVPath)
		if err := client.PublishIngestRequest(ctx, req); err != nil {
			logger.Error("Failed to publish ingest request", "error", err)
			os.Exit(1)
		}
		logger.Info("Ingest request enqueued", "source", cfg.Source, "path", cfg.CSVPath)
		return
	}

	var src source.EntryReader
	switch cfg.Source {
	case "sheets":
		reader, err := gsource.NewFromEnv(ctx)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets source", "error", err)
			os.Exit(1)
		}
		src = reader
	default:
		src = csvfile.New(cfg.CSVPath)
	}

	repo := cli.InitStore(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	processor := services.NewIngestProcessor(
		src,
		repo,
		export.NewWriter(cfg.ReportDir),
		cfg.Calendar(),
		core.DefaultRules(),
	)

	report, err := processor.Run(ctx)
	if err != nil {
		if report != nil {
			// The transform and report files succeeded; only a later
			// stage (typically the database) failed.
			logger.Warn("Pipeline completed partially",
				"error", err,
				"rows", report.Loaded,
				"reports", len(report.Reports))
		} else {
			logger.Error("Pipeline failed", "error", err)
		}
		os.Exit(1)
	}

	logger.Info("Pipeline complete",
		"rows", report.Loaded,
		"ct", report.CT,
		"vt", report.VT,
		"other", report.Other,
		"weeks", report.Weeks,
		"persisted", report.Persisted,
		"reports", len(report.Reports))
}
