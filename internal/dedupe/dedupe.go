// Package dedupe removes duplicate transactions within a batch and filters
// out identities the downstream store already holds.
package dedupe

import (
	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

// Dedupe collapses records sharing an identity key, keeping the first
// occurrence in fetch order, then drops records whose key is already in seen.
// Survivors keep their original relative order. An empty seen set makes the
// cross-run step a no-op, which is how a first run differs from a run that
// found nothing new.
func Dedupe(records []*transaction.Transaction, seen map[string]struct{}) []*transaction.Transaction {
	inBatch := make(map[string]struct{}, len(records))
	result := make([]*transaction.Transaction, 0, len(records))

	for _, rec := range records {
		if _, dup := inBatch[rec.IdentityKey]; dup {
			continue
		}
		inBatch[rec.IdentityKey] = struct{}{}

		if _, exists := seen[rec.IdentityKey]; exists {
			continue
		}
		result = append(result, rec)
	}
	return result
}
