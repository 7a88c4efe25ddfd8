package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/pfrederiksen/nfl-transactions/internal/syncer"
	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// writeReport writes one run report in the specified format.
func writeReport(w io.Writer, report *syncer.Report, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatText:
		return writeReportText(w, report)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeBackfillReport writes a backfill summary in the specified format.
func writeBackfillReport(w io.Writer, result *syncer.BackfillReport, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeBackfillText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeReportText(w io.Writer, report *syncer.Report) error {
	if !report.Succeeded {
		fmt.Fprintf(w, "Sync FAILED for %s at stage %s\n", report.Period, report.FailedAt)
		for _, e := range report.Errors {
			fmt.Fprintf(w, "  error: %s\n", e)
		}
		return nil
	}

	fmt.Fprintf(w, "Synced %s: fetched %d, new %d, appended %d\n",
		report.Period, report.Fetched, report.New, report.Appended)

	if len(report.ByCategory) > 0 {
		categories := make([]transaction.Category, 0, len(report.ByCategory))
		for c := range report.ByCategory {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
		for _, c := range categories {
			fmt.Fprintf(w, "  %s: %d\n", c, report.ByCategory[c])
		}
	}

	if report.BatchPath != "" {
		fmt.Fprintf(w, "Batch copy: %s\n", report.BatchPath)
	}
	if report.Partial {
		fmt.Fprintln(w, "Note: downstream append was only partially committed; re-run to deliver the rest.")
	}
	for _, e := range report.Errors {
		fmt.Fprintf(w, "  warning: %s\n", e)
	}
	return nil
}

func writeBackfillText(w io.Writer, result *syncer.BackfillReport) error {
	fmt.Fprintf(w, "Backfill %s..%s: %d periods, fetched %d, appended %d\n",
		result.From, result.To, result.Periods, result.Fetched, result.Appended)

	if len(result.FailedPeriods) > 0 {
		fmt.Fprintf(w, "Failed periods (%d):\n", len(result.FailedPeriods))
		for _, p := range result.FailedPeriods {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	return nil
}
