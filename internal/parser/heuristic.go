package parser

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/nfl-transactions/internal/transaction"
)

var (
	// Player identity line: "Jalen Hurts (QB)". Positions are short upper
	// case codes, occasionally slashed ("OLB/DE").
	identityPattern = regexp.MustCompile(`^(.+?)\s+\(([A-Z]{1,3}(?:/[A-Z]{1,3})?)\)$`)

	// Transaction line: "Jul 03, 2025 - Signed to the active roster".
	transactionPattern = regexp.MustCompile(`^((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2},\s+\d{4})\s*-\s*(.+)$`)

	// Team reference inside a description: "with the Dallas Cowboys (DAL)"
	// or "by Pittsburgh Steelers (PIT)".
	teamRefPattern = regexp.MustCompile(`(?:with|by)\s+(?:the\s+)?([A-Z][A-Za-z0-9' .-]*?)\s+\(([A-Z]{2,3})\)`)
)

// scanState tracks where the line scanner is in the identity/transaction
// pairing cycle.
type scanState int

const (
	awaitingIdentity scanState = iota
	awaitingTransaction
)

// lineScanner pairs the most recently seen player identity line with the next
// transaction line. One identity binds to at most one transaction: a second
// identity line before a transaction line silently replaces the first, which
// is therefore discarded. That loss mirrors the source feed and is covered by
// tests rather than hidden.
type lineScanner struct {
	state           scanState
	pendingPlayer   string
	pendingPosition string
}

func (s *lineScanner) scan(line string) (transaction.Candidate, bool) {
	// Transaction lines are checked first: a description that ends with a
	// team reference like "(PHI)" also satisfies the identity pattern, and
	// must not be mistaken for a player line.
	m := transactionPattern.FindStringSubmatch(line)
	if m == nil {
		if id := identityPattern.FindStringSubmatch(line); id != nil {
			s.pendingPlayer = strings.TrimSpace(id[1])
			s.pendingPosition = id[2]
			s.state = awaitingTransaction
		}
		// Anything else: ignored, scanner state unchanged.
		return transaction.Candidate{}, false
	}
	if s.state != awaitingTransaction {
		// Transaction line with no pending identity: the record would
		// have no player at all, so it is dropped.
		return transaction.Candidate{}, false
	}

	description := strings.TrimSpace(m[2])
	c := transaction.Candidate{
		Date:        strings.TrimSpace(m[1]),
		Player:      s.pendingPlayer,
		Position:    s.pendingPosition,
		Description: description,
	}
	if team := teamRefPattern.FindStringSubmatch(description); team != nil {
		c.Team = strings.TrimSpace(team[1])
		c.TeamAbbr = team[2]
	}

	s.pendingPlayer = ""
	s.pendingPosition = ""
	s.state = awaitingIdentity
	return c, true
}

// parseHeuristic scans content as text lines. Markup is flattened to text
// first; anything else is split on newlines as-is.
func parseHeuristic(raw []byte) []transaction.Candidate {
	var candidates []transaction.Candidate
	scanner := &lineScanner{state: awaitingIdentity}

	for _, line := range extractLines(raw) {
		if c, ok := scanner.scan(line); ok {
			candidates = append(candidates, c)
		}
	}
	return candidates
}

// extractLines returns trimmed non-empty text lines from raw content,
// flattening HTML block elements to their text when the content is markup.
func extractLines(raw []byte) []string {
	text := string(raw)

	if looksLikeHTML(raw) {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
		if err == nil {
			var b strings.Builder
			doc.Find("p, li, td, div, h1, h2, h3, h4").Each(func(i int, sel *goquery.Selection) {
				b.WriteString(sel.Text())
				b.WriteString("\n")
			})
			if b.Len() > 0 {
				text = b.String()
			} else {
				text = doc.Text()
			}
		}
	}

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func looksLikeHTML(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	return bytes.HasPrefix(trimmed, []byte("<"))
}
