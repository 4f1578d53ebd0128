// Package worker runs ingest pipelines in response to AMQP requests and on
// a periodic schedule.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"tracker/internal/amqp"
	"tracker/internal/core"
	"tracker/internal/services"
	"tracker/internal/source"
	"tracker/internal/source/csvfile"
	gsource "tracker/internal/source/google"
)

// IngestWorker builds and runs one pipeline per request. The sink and report
// writer are shared; the source is chosen per request so a single worker can
// serve both CSV drops and sheet pulls.
type IngestWorker struct {
	sink        services.EntrySink
	reports     services.ReportWriter
	cal         core.Calendar
	rules       core.Rules
	defaultPath string
}

func NewIngestWorker(sink services.EntrySink, reports services.ReportWriter, cal core.Calendar, rules core.Rules, defaultPath string) *IngestWorker {
	return &IngestWorker{
		sink:        sink,
		reports:     reports,
		cal:         cal,
		rules:       rules,
		defaultPath: defaultPath,
	}
}

// HandleRequest processes one ingest request from AMQP.
func (w *IngestWorker) HandleRequest(ctx context.Context, req *amqp.IngestRequest) error {
	slog.InfoContext(ctx, "Processing ingest request",
		"source", req.Source,
		"path", req.Path,
		"requested_at", req.RequestedAt)

	src, err := w.sourceFor(ctx, req.Source, req.Path)
	if err != nil {
		return err
	}
	return w.run(ctx, src)
}

// RunDefault ingests the configured default export; used by the periodic
// ticker so a re-exported file is picked up without an explicit request.
func (w *IngestWorker) RunDefault(ctx context.Context, sourceName string) error {
	src, err := w.sourceFor(ctx, sourceName, w.defaultPath)
	if err != nil {
		return err
	}
	return w.run(ctx, src)
}

func (w *IngestWorker) sourceFor(ctx context.Context, name, path string) (source.EntryReader, error) {
	switch name {
	case "csv", "":
		if path == "" {
			path = w.defaultPath
		}
		if path == "" {
			return nil, fmt.Errorf("csv source requested but no path configured")
		}
		return csvfile.New(path), nil
	case "sheets":
		return gsource.NewFromEnv(ctx)
	default:
		return nil, fmt.Errorf("unknown source %q", name)
	}
}

func (w *IngestWorker) run(ctx context.Context, src source.EntryReader) error {
	proc := services.NewIngestProcessor(src, w.sink, w.reports, w.cal, w.rules)
	report, err := proc.Run(ctx)
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "Ingest complete",
		"rows", report.Loaded,
		"ct", report.CT,
		"vt", report.VT,
		"other", report.Other,
		"persisted", report.Persisted)
	return nil
}
