package notifier

import (
	"fmt"
	"sort"

	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

// Summary describes one synced batch for announcement.
type Summary struct {
	Period     string // YYYY-MM-DD
	Appended   int
	ByCategory map[transaction.Category]int
}

// Notifier posts a batch summary to an outbound channel.
type Notifier interface {
	Notify(s Summary) error
}

// formatSummary renders a batch summary as a short announcement post.
func formatSummary(s Summary) string {
	text := fmt.Sprintf("🏈 %d new NFL transaction", s.Appended)
	if s.Appended != 1 {
		text += "s"
	}
	text += fmt.Sprintf(" for %s\n", s.Period)

	// Sorted for deterministic output
	categories := make([]string, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		categories = append(categories, string(c))
	}
	sort.Strings(categories)

	for _, c := range categories {
		text += fmt.Sprintf("• %s: %d\n", c, s.ByCategory[transaction.Category(c)])
	}
	text += "\n#NFL #NFLTransactions"

	// Twitter limit is 280 characters
	if len(text) > 280 {
		text = text[:277] + "..."
	}
	return text
}
