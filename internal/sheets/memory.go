package sheets

import (
	"context"

	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

// Memory is an in-process Store used for dry runs and tests. It honors the
// same contract as the Sheets client, including an optional per-call append
// cap for exercising partial-append outcomes.
type Memory struct {
	Rows []*transaction.Transaction

	// AppendLimit, when positive, caps how many records one Append call
	// commits; the rest are rejected with ErrPartialAppend.
	AppendLimit int
}

// ErrPartialAppend reports that the store committed only part of a batch.
var ErrPartialAppend = errPartial{}

type errPartial struct{}

func (errPartial) Error() string { return "append partially committed" }

// NewMemory creates an empty in-process store.
func NewMemory() *Memory {
	return &Memory{}
}

// ListExistingIdentities returns the keys of everything appended so far.
func (m *Memory) ListExistingIdentities(ctx context.Context) (map[string]struct{}, error) {
	identities := make(map[string]struct{}, len(m.Rows))
	for _, rec := range m.Rows {
		identities[rec.IdentityKey] = struct{}{}
	}
	return identities, nil
}

// Append stores the records, honoring AppendLimit when set.
func (m *Memory) Append(ctx context.Context, records []*transaction.Transaction) (int, error) {
	accepted := records
	var err error
	if m.AppendLimit > 0 && len(records) > m.AppendLimit {
		accepted = records[:m.AppendLimit]
		err = ErrPartialAppend
	}

	m.Rows = append(m.Rows, accepted...)
	return len(accepted), err
}
