package transaction

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	rec := Normalize(Candidate{
		ID:          "tx-001",
		Date:        "2024-01-15T14:30:00Z",
		TeamAbbr:    "PHI",
		Player:      "Test Player",
		Position:    "QB",
		Description: "Signed to reserve/future contract",
	}, "espn", now)

	if rec.OccurredOn != "2024-01-15" {
		t.Errorf("OccurredOn = %q, want 2024-01-15", rec.OccurredOn)
	}
	if rec.Category != Signing {
		t.Errorf("Category = %q, want %q", rec.Category, Signing)
	}
	if rec.Team != "Philadelphia Eagles" {
		t.Errorf("Team = %q, want Philadelphia Eagles", rec.Team)
	}
	if rec.IdentityKey != "tx-001" {
		t.Errorf("IdentityKey = %q, want upstream id tx-001", rec.IdentityKey)
	}
	if rec.ObservedAt.IsZero() {
		t.Error("expected ObservedAt to be set")
	}
}

func TestNormalizeSentinelInvariant(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// Worst case: the source provided nothing at all.
	rec := Normalize(Candidate{}, "espn", now)

	fields := map[string]string{
		"OccurredOn":  rec.OccurredOn,
		"Team":        rec.Team,
		"Player":      rec.Player,
		"Position":    rec.Position,
		"Description": rec.Description,
		"IdentityKey": rec.IdentityKey,
		"Source":      rec.Source,
	}
	for name, value := range fields {
		if value == "" {
			t.Errorf("field %s is empty; missing source data must become %q", name, Unknown)
		}
	}
	if rec.Category == "" {
		t.Error("Category is empty; unmatched descriptions must classify as Other")
	}

	if rec.Player != Unknown {
		t.Errorf("Player = %q, want %q", rec.Player, Unknown)
	}
	if rec.Team != Unknown {
		t.Errorf("Team = %q, want %q", rec.Team, Unknown)
	}
	if rec.OccurredOn != "2026-08-29" {
		t.Errorf("OccurredOn = %q, want processing date fallback", rec.OccurredOn)
	}
}

func TestNormalizeIdentityStableAcrossRuns(t *testing.T) {
	c := Candidate{
		Date:        "Jul 03, 2025",
		TeamAbbr:    "DAL",
		Player:      "Another Player",
		Position:    "WR",
		Description: "Released from practice squad",
	}

	// Different processing times must not move the key.
	first := Normalize(c, "espn", time.Date(2025, 7, 4, 8, 0, 0, 0, time.UTC))
	second := Normalize(c, "espn", time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC))

	if first.IdentityKey != second.IdentityKey {
		t.Errorf("identity key changed across runs: %s vs %s", first.IdentityKey, second.IdentityKey)
	}
}
