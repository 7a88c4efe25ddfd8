package transaction

import "time"

// Normalize shapes one parsed candidate into a canonical record. Every field
// is guaranteed non-empty on return: anything the source omitted becomes the
// Unknown sentinel, the date is canonicalized (falling back to the processing
// date), and the identity key is derived from fields that are stable across
// re-runs.
func Normalize(c Candidate, source string, now time.Time) *Transaction {
	occurredOn := CanonicalDate(c.Date, now)

	rec := &Transaction{
		OccurredOn:  occurredOn,
		Category:    Classify(c.Description),
		Team:        ResolveTeam(c.TeamAbbr, c.Team),
		Player:      orUnknown(c.Player),
		Position:    orUnknown(c.Position),
		Description: orUnknown(c.Description),
		Source:      orUnknown(source),
		ObservedAt:  now.UTC(),
	}
	rec.IdentityKey = DeriveIdentityKey(c.ID, rec.Source, occurredOn, rec.Player, rec.Description)
	return rec
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
