// Package cli implements the command-line interface for nfl-transactions.
//
// The cli package provides the Cobra-based CLI with a daily sync command, a
// historical backfill command, and a connectivity check. It wires the
// fetcher, sheets store, batch storage, and sync engine together from
// configuration and formats run reports as text or JSON.
package cli
