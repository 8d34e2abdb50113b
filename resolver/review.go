package resolver

import (
	"regexp"
	"strings"

	"github.com/sweetpotato0/ticket-resolver/ticket"
)

// Feedback texts substituted by ParseReview.
const (
	InvalidReviewFeedback = "Invalid review output format. Please check the review criteria."
	DefaultReviewFeedback = "No specific feedback provided"
)

var (
	verdictPattern  = regexp.MustCompile(`(?i)VERDICT:\s*(\w+)`)
	feedbackPattern = regexp.MustCompile(`(?is)FEEDBACK:\s*(.+)`)
)

// Review is the parsed reviewer output. Valid is false when the raw text did not
// follow the VERDICT/FEEDBACK protocol; the verdict is then always rejected.
type Review struct {
	Verdict  ticket.ReviewStatus
	Feedback string
	Valid    bool
}

// ParseReview reads the two-line protocol
//
//	VERDICT: approved|rejected
//	FEEDBACK: free text, possibly spanning several lines
//
// Markers match case-insensitively. A missing verdict marker or a token other
// than approved/rejected yields a rejected verdict carrying InvalidReviewFeedback.
// A missing or empty feedback section yields DefaultReviewFeedback.
func ParseReview(raw string) Review {
	raw = strings.TrimSpace(raw)

	m := verdictPattern.FindStringSubmatch(raw)
	if m == nil {
		return Review{Verdict: ticket.StatusRejected, Feedback: InvalidReviewFeedback}
	}

	var verdict ticket.ReviewStatus
	switch strings.ToLower(m[1]) {
	case string(ticket.StatusApproved):
		verdict = ticket.StatusApproved
	case string(ticket.StatusRejected):
		verdict = ticket.StatusRejected
	default:
		return Review{Verdict: ticket.StatusRejected, Feedback: InvalidReviewFeedback}
	}

	feedback := DefaultReviewFeedback
	if f := feedbackPattern.FindStringSubmatch(raw); f != nil {
		if text := strings.TrimSpace(f[1]); text != "" {
			feedback = text
		}
	}
	return Review{Verdict: verdict, Feedback: feedback, Valid: true}
}
