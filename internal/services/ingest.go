package services

import (
	"context"
	"fmt"
	"log/slog"

	"tracker/internal/core"
	"tracker/internal/source"
)

// EntrySink persists an enriched batch idempotently, keyed by
// (date, task, notes). The whole batch is applied in one transaction.
type EntrySink interface {
	UpsertEntries(ctx context.Context, entries []core.EnrichedEntry) (int64, error)
}

// ReportSet bundles the enriched rows with the four aggregate views.
type ReportSet struct {
	Enriched     []core.EnrichedEntry
	Weekly       []WeeklySummary
	CTCategories []CategoryHours
	CTTypes      []CTTypeSummary
	VTCategories []CategoryHours
	Progress     []DayProgress
}

// ReportWriter renders a ReportSet to some medium (CSV files on disk in
// production). It returns the paths it wrote.
type ReportWriter interface {
	WriteReports(ctx context.Context, set ReportSet) ([]string, error)
}

// IngestReport summarizes one pipeline run.
type IngestReport struct {
	Loaded    int
	CT        int
	VT        int
	Other     int
	Weeks     int
	Persisted int64
	Reports   []string
}

// IngestProcessor runs the full pipeline: source -> transform -> aggregate
// views -> report export -> durable upsert. Sink and reports are optional so
// transform-only runs stay possible when the destination is down.
type IngestProcessor struct {
	src     source.EntryReader
	sink    EntrySink
	reports ReportWriter
	cal     core.Calendar
	cls     *core.Classifier
}

func NewIngestProcessor(src source.EntryReader, sink EntrySink, reports ReportWriter, cal core.Calendar, rules core.Rules) *IngestProcessor {
	return &IngestProcessor{
		src:     src,
		sink:    sink,
		reports: reports,
		cal:     cal,
		cls:     core.NewClassifier(rules, cal),
	}
}

// Run executes one ingest. Aggregates and report files are produced before
// the sink is touched, so a destination failure still leaves the computed
// outputs usable; in that case the returned report is non-nil alongside the
// error.
func (p *IngestProcessor) Run(ctx context.Context) (*IngestReport, error) {
	raw, err := p.src.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	for i, r := range raw {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("source row %d: %w", i+1, err)
		}
	}

	enriched := Transform(p.cal, p.cls, raw)

	set := ReportSet{
		Enriched:     enriched,
		Weekly:       SummarizeWeekly(enriched),
		CTCategories: BreakdownCTCategories(enriched),
		CTTypes:      SummarizeCTTypes(p.cal, enriched),
		VTCategories: BreakdownVTCategories(enriched),
		Progress:     TrackDayProgress(enriched),
	}

	report := &IngestReport{Loaded: len(enriched), Weeks: len(set.Weekly)}
	for _, e := range enriched {
		switch e.TimeType {
		case core.TimeCT:
			report.CT++
		case core.TimeVT:
			report.VT++
		default:
			report.Other++
		}
	}

	slog.InfoContext(ctx, "Transform complete",
		"rows", report.Loaded,
		"ct", report.CT,
		"vt", report.VT,
		"other", report.Other,
		"weeks", report.Weeks)

	if p.reports != nil {
		paths, err := p.reports.WriteReports(ctx, set)
		if err != nil {
			return report, fmt.Errorf("write reports: %w", err)
		}
		report.Reports = paths
	}

	if p.sink != nil {
		n, err := p.sink.UpsertEntries(ctx, enriched)
		if err != nil {
			// The enriched data and reports above remain valid; only
			// persistence failed.
			return report, fmt.Errorf("upsert entries: %w", err)
		}
		report.Persisted = n
		slog.InfoContext(ctx, "Entries persisted", "rows", n)
	}

	return report, nil
}
