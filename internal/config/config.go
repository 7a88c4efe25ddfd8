// Package config loads pipeline configuration from a .env file and the
// process environment.
//
// Only the downstream Google Sheets credentials are required, and only when
// a run actually targets Sheets; dry runs and CSV-only runs need nothing.
// Missing required credentials are a startup error, never a per-record one.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// ErrMissingCredentials indicates the Sheets collaborator cannot be
// constructed because its credentials are not configured.
var ErrMissingCredentials = errors.New("google sheets credentials not configured")

// Config holds everything the pipeline reads from the environment.
type Config struct {
	CredentialsPath string // GOOGLE_CREDENTIALS_PATH: service account JSON
	SpreadsheetID   string // GOOGLE_SHEET_ID
	SheetName       string // SHEET_NAME, default NFL_Transactions
	DataDir         string // DATA_DIR, default ~/.local/share/nfl-transactions
	LogLevel        string // LOG_LEVEL, default INFO
}

// Load reads .env when present, then the process environment. A missing .env
// file is not an error; CI and cron environments set variables directly.
func Load() *Config {
	godotenv.Load() //nolint:errcheck

	return &Config{
		CredentialsPath: os.Getenv("GOOGLE_CREDENTIALS_PATH"),
		SpreadsheetID:   os.Getenv("GOOGLE_SHEET_ID"),
		SheetName:       getEnv("SHEET_NAME", "NFL_Transactions"),
		DataDir:         getEnv("DATA_DIR", "~/.local/share/nfl-transactions"),
		LogLevel:        getEnv("LOG_LEVEL", "INFO"),
	}
}

// ValidateSheets checks that a Sheets-backed run can be configured. Called
// only when the run targets the real downstream store.
func (c *Config) ValidateSheets() error {
	if c.CredentialsPath == "" || c.SpreadsheetID == "" {
		return fmt.Errorf("%w: set GOOGLE_CREDENTIALS_PATH and GOOGLE_SHEET_ID", ErrMissingCredentials)
	}
	if _, err := os.Stat(c.CredentialsPath); err != nil {
		return fmt.Errorf("%w: credentials file %s: %v", ErrMissingCredentials, c.CredentialsPath, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
