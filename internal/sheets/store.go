package sheets

import (
	"context"

	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

// Header is the column layout of the downstream worksheet and of CSV batch
// copies. Identity Key must stay in column F; ListExistingIdentities reads it
// by position.
var Header = []string{"Date", "Category", "Team", "Player", "Description", "Identity Key", "Processed At"}

// Row flattens a transaction into the worksheet column order.
func Row(rec *transaction.Transaction) []string {
	return []string{
		rec.OccurredOn,
		string(rec.Category),
		rec.Team,
		rec.Player,
		rec.Description,
		rec.IdentityKey,
		rec.ObservedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Store is the downstream system of record for synced transactions. The
// pipeline never edits or deletes rows; both operations are safe to repeat.
type Store interface {
	// ListExistingIdentities returns the identity keys already durable
	// downstream.
	ListExistingIdentities(ctx context.Context) (map[string]struct{}, error)

	// Append adds rows for the given records and returns how many were
	// committed. A partial append returns the committed count alongside
	// the error.
	Append(ctx context.Context, records []*transaction.Transaction) (int, error)
}
