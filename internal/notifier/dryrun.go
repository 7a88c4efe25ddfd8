package notifier

import "fmt"

// DryRunNotifier prints what would be posted without actually posting
type DryRunNotifier struct{}

// NewDryRunNotifier creates a new dry-run notifier
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// Notify prints the summary that would be posted
func (n *DryRunNotifier) Notify(s Summary) error {
	text := formatSummary(s)
	fmt.Println("--- Summary post (dry run) ---")
	fmt.Println(text)
	fmt.Printf("\n(Length: %d characters)\n", len(text))
	return nil
}
