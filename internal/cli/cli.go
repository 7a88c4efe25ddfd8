package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/nfl-transactions/internal/config"
	"github.com/pfrederiksen/nfl-transactions/internal/fetcher"
	"github.com/pfrederiksen/nfl-transactions/internal/logger"
	"github.com/pfrederiksen/nfl-transactions/internal/notifier"
	"github.com/pfrederiksen/nfl-transactions/internal/sheets"
	"github.com/pfrederiksen/nfl-transactions/internal/storage"
	"github.com/pfrederiksen/nfl-transactions/internal/syncer"
	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

var (
	flagDate    string
	flagFrom    string
	flagTo      string
	flagDataDir string
	flagFormat  string
	flagDryRun  bool
	flagTweet   bool
	flagVerbose bool
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "nfl-transactions",
		Short: "Sync NFL transactions to Google Sheets",
		Long: `Fetches NFL transaction announcements, normalizes and classifies them,
and appends anything new to a Google Sheet. Every batch is also written to a
local CSV file as the audit trail. Re-running any period is safe: records are
deduplicated by a stable identity key.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "Data directory for CSV batch copies (default from DATA_DIR)")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.PersistentFlags().BoolVar(&flagDryRun, "dry-run", false, "Skip Google Sheets, keep everything local")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	cmd.AddCommand(newRunCmd(), newBackfillCmd(), newCheckCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Sync one period (default: today)",
		RunE:  runPeriod,
	}
	cmd.Flags().StringVar(&flagDate, "date", "", "Period to sync, YYYY-MM-DD (default today)")
	cmd.Flags().BoolVar(&flagTweet, "tweet", false, "Post a batch summary to Twitter after a successful sync")
	return cmd
}

func newBackfillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backfill",
		Short: "Sync a historical date range, one day at a time",
		RunE:  runBackfill,
	}
	cmd.Flags().StringVar(&flagFrom, "from", "", "Start date, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&flagTo, "to", "", "End date, YYYY-MM-DD (required)")
	cmd.MarkFlagRequired("from") //nolint:errcheck
	cmd.MarkFlagRequired("to")   //nolint:errcheck
	return cmd
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Test connectivity to the source API, Google Sheets, and the data directory",
		RunE:  runCheck,
	}
}

// buildEngine assembles the pipeline from configuration and flags.
func buildEngine(ctx context.Context, cfg *config.Config) (*syncer.Engine, error) {
	log := newLogger(cfg)

	dataDir := cfg.DataDir
	if flagDataDir != "" {
		dataDir = flagDataDir
	}
	batches, err := storage.New(dataDir)
	if err != nil {
		return nil, fmt.Errorf("initializing batch storage: %w", err)
	}

	var store sheets.Store
	if flagDryRun {
		store = sheets.NewMemory()
		log.Info("Dry run: using in-process store", nil)
	} else {
		if err := cfg.ValidateSheets(); err != nil {
			return nil, err
		}
		store, err = sheets.NewClient(ctx, cfg.CredentialsPath, cfg.SpreadsheetID, cfg.SheetName)
		if err != nil {
			return nil, fmt.Errorf("initializing sheets client: %w", err)
		}
	}

	var notify notifier.Notifier
	if flagTweet {
		if flagDryRun {
			notify = notifier.NewDryRunNotifier()
		} else {
			notify, err = notifier.NewTwitterNotifier()
			if err != nil {
				return nil, fmt.Errorf("initializing twitter notifier: %w", err)
			}
		}
	}

	return syncer.New(syncer.Config{
		Fetcher:  fetcher.New(),
		Store:    store,
		Batches:  batches,
		Notifier: notify,
		Logger:   log,
	}), nil
}

func newLogger(cfg *config.Config) *logger.Logger {
	level := logger.ParseLevel(cfg.LogLevel)
	if flagVerbose {
		level = logger.LevelDebug
	}
	log := logger.New(level, os.Stderr)
	logger.SetDefault(log)
	return log
}

func runPeriod(cmd *cobra.Command, args []string) error {
	if flagDate != "" {
		if _, err := time.Parse(transaction.DateLayout, flagDate); err != nil {
			return fmt.Errorf("invalid --date %q: want YYYY-MM-DD", flagDate)
		}
	}

	ctx := cmd.Context()
	cfg := config.Load()

	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}

	report := engine.Run(ctx, flagDate)
	if err := writeReport(os.Stdout, report, OutputFormat(flagFormat)); err != nil {
		return err
	}
	if !report.Succeeded {
		os.Exit(ExitError)
	}
	return nil
}

func runBackfill(cmd *cobra.Command, args []string) error {
	from, err := time.Parse(transaction.DateLayout, flagFrom)
	if err != nil {
		return fmt.Errorf("invalid --from %q: want YYYY-MM-DD", flagFrom)
	}
	to, err := time.Parse(transaction.DateLayout, flagTo)
	if err != nil {
		return fmt.Errorf("invalid --to %q: want YYYY-MM-DD", flagTo)
	}

	ctx := cmd.Context()
	cfg := config.Load()

	engine, err := buildEngine(ctx, cfg)
	if err != nil {
		return err
	}

	result, err := engine.Backfill(ctx, from, to)
	if err != nil {
		return err
	}
	return writeBackfillReport(os.Stdout, result, OutputFormat(flagFormat))
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Load()
	ok := true

	// Source API
	f := fetcher.New()
	today := time.Now().Format(transaction.DateLayout)
	if _, err := f.Fetch(ctx, today); err != nil {
		fmt.Printf("source API:    FAIL (%v)\n", err)
		ok = false
	} else {
		fmt.Println("source API:    ok")
	}

	// Google Sheets
	if err := cfg.ValidateSheets(); err != nil {
		fmt.Printf("google sheets: not configured (%v)\n", err)
	} else {
		store, err := sheets.NewClient(ctx, cfg.CredentialsPath, cfg.SpreadsheetID, cfg.SheetName)
		if err == nil {
			_, err = store.ListExistingIdentities(ctx)
		}
		if err != nil {
			fmt.Printf("google sheets: FAIL (%v)\n", err)
			ok = false
		} else {
			fmt.Println("google sheets: ok")
		}
	}

	// Data directory
	if _, err := storage.New(cfg.DataDir); err != nil {
		fmt.Printf("data dir:      FAIL (%v)\n", err)
		ok = false
	} else {
		fmt.Printf("data dir:      ok (%s)\n", cfg.DataDir)
	}

	if !ok {
		return fmt.Errorf("connectivity check failed")
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
