package transaction

import "time"

// DateLayout is the canonical calendar date format for OccurredOn.
const DateLayout = "2006-01-02"

// dateLayouts lists the source date encodings we accept, tried in order.
// The ESPN API emits RFC3339 timestamps with varying precision and offset
// styles; the markup fallback emits textual dates like "Jul 03, 2025".
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	DateLayout,
	"Jan 02, 2006",
	"Jan 2, 2006",
	"January 02, 2006",
	"January 2, 2006",
}

// CanonicalDate converts any supported date encoding to YYYY-MM-DD.
// An unrecognizable or empty input falls back to the processing date: every
// record must carry a date because downstream ordering depends on it. This is
// a known lossy default inherited from the source feed, not an error path.
func CanonicalDate(raw string, now time.Time) string {
	if raw == "" {
		return now.Format(DateLayout)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(DateLayout)
		}
	}
	return now.Format(DateLayout)
}
