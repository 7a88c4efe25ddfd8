package transaction

import (
	"crypto/sha1"
	"fmt"
	"strings"
	"time"
)

// Unknown is the sentinel substituted for any field the source omitted.
// Downstream consumers never see an empty or null field.
const Unknown = "Unknown"

// Transaction is the canonical record for one NFL transaction announcement.
// Records are immutable once created; a correction is a new record.
type Transaction struct {
	OccurredOn  string    `json:"occurred_on"` // YYYY-MM-DD
	Category    Category  `json:"category"`
	Team        string    `json:"team"`
	Player      string    `json:"player"`
	Position    string    `json:"position"`
	Description string    `json:"description"`
	IdentityKey string    `json:"identity_key"`
	Source      string    `json:"source"`
	ObservedAt  time.Time `json:"observed_at"`
}

// Candidate is an unvalidated field set extracted by the parser before
// normalization. Empty strings mean the source did not provide the field.
type Candidate struct {
	ID          string // upstream identifier, when the source supplies one
	Date        string // raw date text, any supported encoding
	Team        string // full team display name, if captured
	TeamAbbr    string // short franchise code, if captured
	Player      string
	Position    string
	Description string
}

// DeriveIdentityKey returns the stable deduplication key for a record. When
// the source supplied its own identifier it is used verbatim; otherwise the
// key is synthesized from fields that do not change across re-runs of the
// same content.
func DeriveIdentityKey(upstreamID, source, occurredOn, player, description string) string {
	if upstreamID != "" {
		return upstreamID
	}
	return synthesizeKey(source, occurredOn, player, description)
}

// synthesizeKey hashes source tag, date, collapsed player name, and a short
// description digest. Whitespace in the player name is collapsed so that
// incidental formatting differences in the source do not change the key.
func synthesizeKey(source, occurredOn, player, description string) string {
	collapsed := strings.Join(strings.Fields(player), " ")

	dh := sha1.Sum([]byte(description))
	descDigest := fmt.Sprintf("%x", dh)[:12]

	h := sha1.New()
	h.Write([]byte(source + "|" + occurredOn + "|" + collapsed + "|" + descDigest))
	return fmt.Sprintf("%x", h.Sum(nil))
}
