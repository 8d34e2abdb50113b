package resolver

import (
	"fmt"
	"strings"

	"github.com/sweetpotato0/ticket-resolver/escalation"
	"github.com/sweetpotato0/ticket-resolver/knowledge"
	"github.com/sweetpotato0/ticket-resolver/ticket"
)

// Refine builds the context for the next drafting pass: the static category
// snippets with ticket-keyword enrichment, followed by the additions triggered by
// the reviewer's feedback. It does not touch the retry counter.
func Refine(category ticket.Category, t ticket.Ticket, feedback string) []string {
	base := knowledge.EnhancedContext(category, t.Subject(), t.Description())
	return append(base, knowledge.FeedbackAdditions(feedback)...)
}

// Handoff message limits, in runes.
const (
	messageDescriptionLimit = 200
	messageDraftLimit       = 300
	messageFeedbackLimit    = 200
)

// EscalationMessage renders the human handoff text for an exhausted run.
func EscalationMessage(t ticket.Ticket, category ticket.Category, draft, feedback string, retryCount int) string {
	draftPreview := "No draft generated"
	if draft != "" {
		draftPreview = escalation.Truncate(draft, messageDraftLimit)
	}
	feedbackPreview := escalation.NoFeedback
	if feedback != "" {
		feedbackPreview = escalation.Truncate(feedback, messageFeedbackLimit)
	}

	var b strings.Builder
	b.WriteString("ESCALATION REQUIRED\n\n")
	fmt.Fprintf(&b, "Ticket requires human review after %d automated attempts.\n\n", retryCount)
	fmt.Fprintf(&b, "Ticket: %s\n", t.Subject())
	fmt.Fprintf(&b, "Category: %s\n", category)
	fmt.Fprintf(&b, "Description: %s\n\n", escalation.Truncate(t.Description(), messageDescriptionLimit))
	fmt.Fprintf(&b, "Last Draft Preview:\n%s...\n\n", draftPreview)
	fmt.Fprintf(&b, "Review Feedback:\n%s...\n\n", feedbackPreview)
	b.WriteString("Please handle this ticket manually.")
	return b.String()
}
