package syncer

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/pfrederiksen/nfl-transactions/internal/dedupe"
	"github.com/pfrederiksen/nfl-transactions/internal/logger"
	"github.com/pfrederiksen/nfl-transactions/internal/notifier"
	"github.com/pfrederiksen/nfl-transactions/internal/parser"
	"github.com/pfrederiksen/nfl-transactions/internal/sheets"
	"github.com/pfrederiksen/nfl-transactions/internal/storage"
	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

// Stage labels where a run is in its linear lifecycle.
type Stage string

const (
	StageIdle          Stage = "idle"
	StageFetching      Stage = "fetching"
	StageParsing       Stage = "parsing"
	StageNormalizing   Stage = "normalizing"
	StageDeduplicating Stage = "deduplicating"
	StageAppending     Stage = "appending"
	StageDone          Stage = "done"
	StageFailed        Stage = "failed"
)

// DefaultFetchSpacing is the mandatory minimum gap between consecutive
// fetches during a backfill, so the pipeline behaves as a polite batch
// client.
const DefaultFetchSpacing = 2 * time.Second

// Fetcher retrieves raw content for one calendar date.
type Fetcher interface {
	Fetch(ctx context.Context, date string) ([]byte, error)
}

// Engine runs the sync pipeline. Construct with New.
type Engine struct {
	fetcher Fetcher
	store   sheets.Store
	batches *storage.Storage
	notify  notifier.Notifier
	log     *logger.Logger
	metrics *logger.Metrics
	source  string
	spacing time.Duration
	now     func() time.Time
}

// Config wires the engine's collaborators. Fetcher, Store, and Batches are
// required; the rest default sensibly.
type Config struct {
	Fetcher  Fetcher
	Store    sheets.Store
	Batches  *storage.Storage
	Notifier notifier.Notifier // optional summary channel
	Logger   *logger.Logger    // defaults to a stdout INFO logger
	Metrics  *logger.Metrics   // defaults to a fresh tracker
	Source   string            // source tag on records, defaults to "espn"
	Spacing  time.Duration     // backfill fetch spacing, defaults to DefaultFetchSpacing
	Now      func() time.Time  // injectable clock for tests
}

// New creates a sync engine.
func New(cfg Config) *Engine {
	e := &Engine{
		fetcher: cfg.Fetcher,
		store:   cfg.Store,
		batches: cfg.Batches,
		notify:  cfg.Notifier,
		log:     cfg.Logger,
		metrics: cfg.Metrics,
		source:  cfg.Source,
		spacing: cfg.Spacing,
		now:     cfg.Now,
	}
	if e.log == nil {
		e.log = logger.New(logger.LevelInfo, os.Stdout)
	}
	if e.metrics == nil {
		e.metrics = logger.NewMetrics()
	}
	if e.source == "" {
		e.source = "espn"
	}
	if e.spacing <= 0 {
		e.spacing = DefaultFetchSpacing
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Run executes one full sync cycle for a period. period is a YYYY-MM-DD
// date; empty means today. The returned report is never nil, even on
// failure.
func (e *Engine) Run(ctx context.Context, period string) *Report {
	started := e.now()
	if period == "" {
		period = started.Format(transaction.DateLayout)
	}

	report := &Report{
		RunID:     uuid.NewString(),
		Period:    period,
		Stage:     StageIdle,
		StartedAt: started.UTC(),
	}
	defer func() {
		report.FinishedAt = e.now().UTC()
		e.metrics.RecordTiming("sync.run", report.FinishedAt.Sub(report.StartedAt))
	}()

	e.log.Info("Starting sync run", logger.Fields{
		"run_id": report.RunID,
		"period": period,
	})

	// Fetching
	report.Stage = StageFetching
	raw, err := e.fetcher.Fetch(ctx, period)
	if err != nil {
		return report.fail(e.log, fmt.Errorf("fetch: %w", err))
	}

	// Parsing
	report.Stage = StageParsing
	candidates, strategy := parser.Parse(raw)
	report.Strategy = strategy
	report.Fetched = len(candidates)
	e.metrics.IncrCounter("sync.records_fetched", int64(len(candidates)))

	if len(candidates) == 0 {
		// Soft no-data outcome: nothing to process is not an error.
		e.log.Info("No transactions found for period", logger.Fields{
			"run_id": report.RunID,
			"period": period,
		})
		report.Stage = StageDone
		report.Succeeded = true
		return report
	}

	// Normalizing
	report.Stage = StageNormalizing
	records := make([]*transaction.Transaction, 0, len(candidates))
	for _, c := range candidates {
		records = append(records, transaction.Normalize(c, e.source, e.now()))
	}

	// Deduplicating: collapse the batch first, then filter against what the
	// downstream store already holds.
	report.Stage = StageDeduplicating
	batch := dedupe.Dedupe(records, nil)

	seen, err := e.store.ListExistingIdentities(ctx)
	if err != nil {
		return report.fail(e.log, fmt.Errorf("listing existing identities: %w", err))
	}
	fresh := dedupe.Dedupe(batch, seen)
	report.New = len(fresh)
	report.ByCategory = countByCategory(fresh)

	// Appending: durable CSV copy first, then the downstream store. The
	// CSV is the audit trail even when the downstream append fails.
	report.Stage = StageAppending
	path, err := e.batches.WriteBatch(batch, period)
	if err != nil {
		return report.fail(e.log, fmt.Errorf("writing batch copy: %w", err))
	}
	report.BatchPath = path

	committed, err := e.store.Append(ctx, fresh)
	report.Appended = committed
	e.metrics.IncrCounter("sync.records_appended", int64(committed))
	if err != nil {
		if committed == 0 {
			return report.fail(e.log, fmt.Errorf("appending to downstream store: %w", err))
		}
		// Partial append: at-least-once delivery, not rolled back. The
		// store's own identity filtering absorbs any re-run overlap.
		report.Partial = true
		report.Errors = append(report.Errors, fmt.Sprintf("partial append: %v", err))
		e.log.Warn("Downstream append partially committed", logger.Fields{
			"run_id":    report.RunID,
			"committed": committed,
			"attempted": len(fresh),
		})
	}

	report.Stage = StageDone
	report.Succeeded = true

	e.log.Info("Sync run complete", logger.Fields{
		"run_id":   report.RunID,
		"period":   period,
		"fetched":  report.Fetched,
		"new":      report.New,
		"appended": report.Appended,
		"batch":    report.BatchPath,
	})

	e.announce(report)
	return report
}

// announce posts the batch summary when a notifier is configured. A
// notification failure is recorded but never fails the run.
func (e *Engine) announce(report *Report) {
	if e.notify == nil || report.Appended == 0 {
		return
	}
	err := e.notify.Notify(notifier.Summary{
		Period:     report.Period,
		Appended:   report.Appended,
		ByCategory: report.ByCategory,
	})
	if err != nil {
		report.Errors = append(report.Errors, fmt.Sprintf("notify: %v", err))
		e.log.Warn("Summary notification failed", logger.Fields{
			"run_id": report.RunID,
		})
	}
}

// Backfill runs the single-period pipeline for every day in [from, to],
// oldest first, spacing fetches to respect the source's rate tolerance.
// A failed day is recorded and later days still run.
func (e *Engine) Backfill(ctx context.Context, from, to time.Time) (*BackfillReport, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("backfill range is inverted: %s after %s",
			from.Format(transaction.DateLayout), to.Format(transaction.DateLayout))
	}

	result := &BackfillReport{
		From: from.Format(transaction.DateLayout),
		To:   to.Format(transaction.DateLayout),
	}

	limiter := rate.NewLimiter(rate.Every(e.spacing), 1)

	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if err := limiter.Wait(ctx); err != nil {
			return result, fmt.Errorf("backfill interrupted: %w", err)
		}

		period := day.Format(transaction.DateLayout)
		report := e.Run(ctx, period)
		result.Reports = append(result.Reports, report)
		result.Periods++
		result.Fetched += report.Fetched
		result.Appended += report.Appended

		if !report.Succeeded {
			result.FailedPeriods = append(result.FailedPeriods, period)
		}
	}

	e.log.Info("Backfill complete", logger.Fields{
		"from":     result.From,
		"to":       result.To,
		"periods":  result.Periods,
		"fetched":  result.Fetched,
		"appended": result.Appended,
		"failed":   len(result.FailedPeriods),
	})
	return result, nil
}

func countByCategory(records []*transaction.Transaction) map[transaction.Category]int {
	counts := make(map[transaction.Category]int)
	for _, rec := range records {
		counts[rec.Category]++
	}
	return counts
}
