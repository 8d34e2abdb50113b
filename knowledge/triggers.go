package knowledge

import "strings"

// Trigger maps review-feedback keywords to snippets appended on a retry.
type Trigger struct {
	Name     string
	Keywords []string
	Snippets []string
}

// FeedbackTriggers are evaluated in this order regardless of where the keywords
// appear in the feedback text.
var FeedbackTriggers = []Trigger{
	{
		Name:     "refund",
		Keywords: []string{"refund"},
		Snippets: []string{
			"Refund eligibility is determined case-by-case based on our terms of service.",
			"Refunds typically take 5-7 business days to process once approved.",
			"Partial refunds may be offered for unused portions of subscriptions.",
		},
	},
	{
		Name:     "policy",
		Keywords: []string{"policy", "compliance"},
		Snippets: []string{
			"Always refer customers to our terms of service for policy questions.",
			"Avoid making specific promises about outcomes or timelines.",
			"Escalate to human review when policy interpretation is unclear.",
		},
	},
	{
		Name:     "security",
		Keywords: []string{"security"},
		Snippets: []string{
			"Never share specific security implementation details with customers.",
			"Refer security concerns to security@ourcompany.com for expert handling.",
			"Use general security best practices language without specifics.",
		},
	},
}

// FeedbackAdditions returns the snippets of every trigger whose keywords occur in
// feedback (case-insensitive), concatenated in trigger order. Each trigger
// contributes at most once.
func FeedbackAdditions(feedback string) []string {
	lower := strings.ToLower(feedback)
	var out []string
	for _, trigger := range FeedbackTriggers {
		if matchesAny(lower, trigger.Keywords) {
			out = append(out, trigger.Snippets...)
		}
	}
	return out
}

// MatchedTriggers names the triggers that fire for feedback, in trigger order.
func MatchedTriggers(feedback string) []string {
	lower := strings.ToLower(feedback)
	var names []string
	for _, trigger := range FeedbackTriggers {
		if matchesAny(lower, trigger.Keywords) {
			names = append(names, trigger.Name)
		}
	}
	return names
}

func matchesAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
