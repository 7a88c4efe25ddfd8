package transaction

import "strings"

// Category labels a transaction by the action it announces.
type Category string

const (
	ContractExtension Category = "Contract Extension"
	Signing           Category = "Signing"
	Trade             Category = "Trade"
	Release           Category = "Release"
	Waiver            Category = "Waiver"
	WaiverClaim       Category = "Waiver Claim"
	Suspension        Category = "Suspension"
	Retirement        Category = "Retirement"
	Other             Category = "Other"
)

// classifierRules are checked in order; the first match wins. More specific
// keyword combinations come before their general forms, so a signed extension
// never falls through to plain Signing.
var classifierRules = []struct {
	keywords []string
	category Category
}{
	{[]string{"signed", "extension"}, ContractExtension},
	{[]string{"signed"}, Signing},
	{[]string{"traded"}, Trade},
	{[]string{"released"}, Release},
	{[]string{"waived"}, Waiver},
	{[]string{"claimed"}, WaiverClaim},
	{[]string{"suspended"}, Suspension},
	{[]string{"retired"}, Retirement},
}

// Classify assigns a category from a free-text description. The match is
// case-insensitive and purely keyword based; a description matching no rule
// is Other rather than being rejected, since the parser already decided the
// line is a real transaction.
func Classify(description string) Category {
	lowered := strings.ToLower(description)
	for _, rule := range classifierRules {
		matched := true
		for _, kw := range rule.keywords {
			if !strings.Contains(lowered, kw) {
				matched = false
				break
			}
		}
		if matched {
			return rule.category
		}
	}
	return Other
}
