package syncer

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/pfrederiksen/nfl-transactions/internal/logger"
	"github.com/pfrederiksen/nfl-transactions/internal/notifier"
	"github.com/pfrederiksen/nfl-transactions/internal/sheets"
	"github.com/pfrederiksen/nfl-transactions/internal/storage"
)

const twoItemResponse = `{
  "items": [
    {
      "id": "tx-001",
      "date": "2024-01-15T14:30:00Z",
      "type": {"displayName": "Signing"},
      "team": {"displayName": "Philadelphia Eagles", "abbreviation": "PHI"},
      "player": {"displayName": "Test Player", "position": "QB"},
      "description": "Signed to reserve/future contract"
    },
    {
      "id": "tx-002",
      "date": "2024-01-15T15:45:00Z",
      "type": {"displayName": "Release"},
      "team": {"displayName": "Dallas Cowboys", "abbreviation": "DAL"},
      "player": {"displayName": "Another Player", "position": "WR"},
      "description": "Released from practice squad"
    }
  ]
}`

// staticFetcher serves fixed content, or an error, for any date.
type staticFetcher struct {
	body []byte
	err  error
}

func (f *staticFetcher) Fetch(ctx context.Context, date string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

// recordingNotifier captures summaries it was asked to post.
type recordingNotifier struct {
	summaries []notifier.Summary
	err       error
}

func (n *recordingNotifier) Notify(s notifier.Summary) error {
	n.summaries = append(n.summaries, s)
	return n.err
}

func testEngine(t *testing.T, f Fetcher, store sheets.Store) *Engine {
	t.Helper()
	batches, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return New(Config{
		Fetcher: f,
		Store:   store,
		Batches: batches,
		Logger:  logger.New(logger.LevelError, io.Discard),
		Spacing: time.Millisecond,
	})
}

func TestRunEndToEnd(t *testing.T) {
	store := sheets.NewMemory()
	engine := testEngine(t, &staticFetcher{body: []byte(twoItemResponse)}, store)

	report := engine.Run(context.Background(), "2024-01-15")

	if !report.Succeeded {
		t.Fatalf("run failed: %v", report.Errors)
	}
	if report.Stage != StageDone {
		t.Errorf("stage = %q, want %q", report.Stage, StageDone)
	}
	if report.Fetched != 2 || report.New != 2 || report.Appended != 2 {
		t.Errorf("counts = fetched %d, new %d, appended %d; want 2, 2, 2",
			report.Fetched, report.New, report.Appended)
	}
	if report.BatchPath == "" {
		t.Error("report is missing the durable batch location")
	}
	if report.RunID == "" {
		t.Error("report is missing a run id")
	}
	if report.ByCategory["Signing"] != 1 || report.ByCategory["Release"] != 1 {
		t.Errorf("category breakdown = %v", report.ByCategory)
	}
	if len(store.Rows) != 2 {
		t.Errorf("downstream store holds %d rows, want 2", len(store.Rows))
	}
}

func TestRunIsIdempotent(t *testing.T) {
	store := sheets.NewMemory()
	engine := testEngine(t, &staticFetcher{body: []byte(twoItemResponse)}, store)
	ctx := context.Background()

	first := engine.Run(ctx, "2024-01-15")
	second := engine.Run(ctx, "2024-01-15")

	if first.Fetched != second.Fetched {
		t.Errorf("fetched counts differ across identical runs: %d vs %d", first.Fetched, second.Fetched)
	}
	if first.Appended != 2 {
		t.Errorf("first run appended = %d, want 2", first.Appended)
	}
	if second.Appended != 0 {
		t.Errorf("second run appended = %d, want 0", second.Appended)
	}
	if len(store.Rows) != 2 {
		t.Errorf("downstream store holds %d rows after re-run, want 2", len(store.Rows))
	}
}

func TestRunCollapsesDuplicateItems(t *testing.T) {
	// The same upstream id twice in one batch commits once.
	payload := `{"items": [
		{"id": "dup", "date": "2024-01-15", "description": "Signed"},
		{"id": "dup", "date": "2024-01-15", "description": "Signed"}
	]}`

	store := sheets.NewMemory()
	engine := testEngine(t, &staticFetcher{body: []byte(payload)}, store)

	report := engine.Run(context.Background(), "2024-01-15")
	if report.Fetched != 2 {
		t.Errorf("fetched = %d, want 2", report.Fetched)
	}
	if report.Appended != 1 {
		t.Errorf("appended = %d, want 1", report.Appended)
	}
}

func TestRunNoData(t *testing.T) {
	store := sheets.NewMemory()
	engine := testEngine(t, &staticFetcher{body: []byte(`{"items": []}`)}, store)

	report := engine.Run(context.Background(), "2024-01-15")

	if !report.Succeeded {
		t.Errorf("empty result is a soft outcome, run should succeed: %v", report.Errors)
	}
	if report.Fetched != 0 || report.Appended != 0 {
		t.Errorf("counts = fetched %d, appended %d; want 0, 0", report.Fetched, report.Appended)
	}
}

func TestRunFetchFailure(t *testing.T) {
	store := sheets.NewMemory()
	engine := testEngine(t, &staticFetcher{err: errors.New("status 502")}, store)

	report := engine.Run(context.Background(), "2024-01-15")

	if report.Succeeded {
		t.Fatal("run should fail when the fetch fails")
	}
	if report.Stage != StageFailed || report.FailedAt != StageFetching {
		t.Errorf("stage = %q failed at %q, want failed at fetching", report.Stage, report.FailedAt)
	}
	if len(report.Errors) == 0 {
		t.Error("failed report carries no errors")
	}
}

func TestRunPartialAppend(t *testing.T) {
	store := sheets.NewMemory()
	store.AppendLimit = 1
	engine := testEngine(t, &staticFetcher{body: []byte(twoItemResponse)}, store)

	report := engine.Run(context.Background(), "2024-01-15")

	if !report.Succeeded {
		t.Fatalf("partial append is a partial success, not a failure: %v", report.Errors)
	}
	if !report.Partial {
		t.Error("report should be flagged partial")
	}
	if report.Appended != 1 {
		t.Errorf("appended = %d, want committed count 1", report.Appended)
	}
	if len(report.Errors) == 0 {
		t.Error("partial append should be recorded in errors")
	}
}

func TestRunWritesBatchCopy(t *testing.T) {
	store := sheets.NewMemory()
	batches, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	engine := New(Config{
		Fetcher: &staticFetcher{body: []byte(twoItemResponse)},
		Store:   store,
		Batches: batches,
		Logger:  logger.New(logger.LevelError, io.Discard),
	})

	report := engine.Run(context.Background(), "2024-01-15")
	if !report.Succeeded {
		t.Fatalf("run failed: %v", report.Errors)
	}

	rows, err := batches.ReadBatch("2024-01-15")
	if err != nil {
		t.Fatalf("ReadBatch() error = %v", err)
	}
	if len(rows) != 2 {
		t.Errorf("batch copy holds %d rows, want 2", len(rows))
	}
}

func TestRunNotifies(t *testing.T) {
	store := sheets.NewMemory()
	batches, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	n := &recordingNotifier{}
	engine := New(Config{
		Fetcher:  &staticFetcher{body: []byte(twoItemResponse)},
		Store:    store,
		Batches:  batches,
		Notifier: n,
		Logger:   logger.New(logger.LevelError, io.Discard),
	})

	engine.Run(context.Background(), "2024-01-15")

	if len(n.summaries) != 1 {
		t.Fatalf("expected 1 summary post, got %d", len(n.summaries))
	}
	if n.summaries[0].Appended != 2 {
		t.Errorf("summary appended = %d, want 2", n.summaries[0].Appended)
	}
}

func TestRunNotifierFailureDoesNotFailRun(t *testing.T) {
	store := sheets.NewMemory()
	batches, err := storage.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	engine := New(Config{
		Fetcher:  &staticFetcher{body: []byte(twoItemResponse)},
		Store:    store,
		Batches:  batches,
		Notifier: &recordingNotifier{err: errors.New("rate limited")},
		Logger:   logger.New(logger.LevelError, io.Discard),
	})

	report := engine.Run(context.Background(), "2024-01-15")
	if !report.Succeeded {
		t.Errorf("notification failure should not fail the run: %v", report.Errors)
	}
	if len(report.Errors) == 0 {
		t.Error("notification failure should still be recorded")
	}
}

func TestBackfill(t *testing.T) {
	store := sheets.NewMemory()
	engine := testEngine(t, &staticFetcher{body: []byte(twoItemResponse)}, store)

	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)

	result, err := engine.Backfill(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}

	if result.Periods != 3 {
		t.Errorf("periods = %d, want 3", result.Periods)
	}
	if result.Fetched != 6 {
		t.Errorf("fetched = %d, want 6", result.Fetched)
	}
	// Identical source content every day: only the first day's records are
	// new downstream.
	if result.Appended != 2 {
		t.Errorf("appended = %d, want 2", result.Appended)
	}
	if len(result.FailedPeriods) != 0 {
		t.Errorf("failed periods = %v, want none", result.FailedPeriods)
	}
}

func TestBackfillContinuesPastFailedDays(t *testing.T) {
	store := sheets.NewMemory()
	engine := testEngine(t, &staticFetcher{err: errors.New("unreachable")}, store)

	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

	result, err := engine.Backfill(context.Background(), from, to)
	if err != nil {
		t.Fatalf("Backfill() error = %v", err)
	}
	if result.Periods != 2 {
		t.Errorf("periods = %d, want 2 (failed days must not stop the range)", result.Periods)
	}
	if len(result.FailedPeriods) != 2 {
		t.Errorf("failed periods = %v, want both days", result.FailedPeriods)
	}
}

func TestBackfillRejectsInvertedRange(t *testing.T) {
	engine := testEngine(t, &staticFetcher{}, sheets.NewMemory())

	from := time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	if _, err := engine.Backfill(context.Background(), from, to); err == nil {
		t.Error("expected an error for an inverted range")
	}
}
