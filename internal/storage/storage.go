package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/nfl-transactions/internal/sheets"
	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

// Storage handles durable CSV copies of synced batches.
type Storage struct {
	dataDir string
}

// New creates a Storage instance rooted at dataDir, creating the directory
// when needed.
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{dataDir: dataDir}, nil
}

// BatchPath returns the batch file path for a processing date (YYYY-MM-DD).
func (s *Storage) BatchPath(processedOn string) string {
	return filepath.Join(s.dataDir, fmt.Sprintf("nfl_transactions_%s.csv", processedOn))
}

// WriteBatch writes one batch to its dated CSV file and returns the path.
// Re-running a period overwrites that period's file with the fresh batch,
// which keeps the copy consistent with what the run actually processed.
func (s *Storage) WriteBatch(records []*transaction.Transaction, processedOn string) (string, error) {
	path := s.BatchPath(processedOn)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating batch file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(sheets.Header); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	for _, rec := range records {
		if err := w.Write(sheets.Row(rec)); err != nil {
			return "", fmt.Errorf("writing record %s: %w", rec.IdentityKey, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flushing batch file: %w", err)
	}
	return path, nil
}

// ReadBatch loads the rows of a previously written batch file, header
// excluded. Used by the audit path and tests.
func (s *Storage) ReadBatch(processedOn string) ([][]string, error) {
	f, err := os.Open(s.BatchPath(processedOn))
	if err != nil {
		return nil, fmt.Errorf("opening batch file: %w", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading batch file: %w", err)
	}

	if len(rows) <= 1 {
		return nil, nil
	}
	return rows[1:], nil
}
