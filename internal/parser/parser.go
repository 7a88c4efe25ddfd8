package parser

import (
	"encoding/json"

	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

// Strategy identifies which parse path produced a batch of candidates.
type Strategy string

const (
	StrategyStructured Strategy = "structured"
	StrategyHeuristic  Strategy = "heuristic"
)

// apiDocument mirrors the ESPN transactions API response shape.
type apiDocument struct {
	Items []apiItem `json:"items"`
}

// itemID tolerates the API emitting identifiers as either JSON strings or
// numbers.
type itemID string

func (id *itemID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = itemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = itemID(n.String())
	return nil
}

type apiItem struct {
	ID   itemID `json:"id"`
	Date string `json:"date"`
	Type struct {
		DisplayName string `json:"displayName"`
	} `json:"type"`
	Team struct {
		DisplayName  string `json:"displayName"`
		Abbreviation string `json:"abbreviation"`
	} `json:"team"`
	Player struct {
		DisplayName string `json:"displayName"`
		Position    string `json:"position"`
	} `json:"player"`
	Description string `json:"description"`
}

// Parse extracts transaction candidates from raw content. The structured
// strategy is preferred; the heuristic text scan is the fallback when the
// content is not the API shape or yields zero items.
func Parse(raw []byte) ([]transaction.Candidate, Strategy) {
	if candidates := parseStructured(raw); len(candidates) > 0 {
		return candidates, StrategyStructured
	}
	return parseHeuristic(raw), StrategyHeuristic
}

// parseStructured decodes the API item list one-to-one into candidates.
// Returns nil when the content does not decode to that shape.
func parseStructured(raw []byte) []transaction.Candidate {
	var doc apiDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil
	}

	candidates := make([]transaction.Candidate, 0, len(doc.Items))
	for _, item := range doc.Items {
		candidates = append(candidates, transaction.Candidate{
			ID:          string(item.ID),
			Date:        item.Date,
			Team:        item.Team.DisplayName,
			TeamAbbr:    item.Team.Abbreviation,
			Player:      item.Player.DisplayName,
			Position:    item.Player.Position,
			Description: item.Description,
		})
	}
	return candidates
}
