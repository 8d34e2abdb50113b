package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/sweetpotato0/ticket-resolver/ticket"
)

func TestParseReview(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		verdict  ticket.ReviewStatus
		feedback string
		valid    bool
	}{
		{
			name:     "approved",
			raw:      "VERDICT: approved\nFEEDBACK: Clear and accurate.",
			verdict:  ticket.StatusApproved,
			feedback: "Clear and accurate.",
			valid:    true,
		},
		{
			name:     "rejected with multi-line feedback",
			raw:      "VERDICT: rejected\nFEEDBACK: Promises a refund.\nRemove the amount.",
			verdict:  ticket.StatusRejected,
			feedback: "Promises a refund.\nRemove the amount.",
			valid:    true,
		},
		{
			name:     "markers are case-insensitive",
			raw:      "verdict: Approved\nfeedback: fine",
			verdict:  ticket.StatusApproved,
			feedback: "fine",
			valid:    true,
		},
		{
			name:     "leading prose is ignored",
			raw:      "Here is my review.\n\nVERDICT: rejected\nFEEDBACK: too vague",
			verdict:  ticket.StatusRejected,
			feedback: "too vague",
			valid:    true,
		},
		{
			name:     "missing feedback",
			raw:      "VERDICT: approved",
			verdict:  ticket.StatusApproved,
			feedback: DefaultReviewFeedback,
			valid:    true,
		},
		{
			name:     "empty feedback",
			raw:      "VERDICT: rejected\nFEEDBACK:   ",
			verdict:  ticket.StatusRejected,
			feedback: DefaultReviewFeedback,
			valid:    true,
		},
		{
			name:     "missing verdict marker",
			raw:      "The draft looks good to me.",
			verdict:  ticket.StatusRejected,
			feedback: InvalidReviewFeedback,
		},
		{
			name:     "unknown verdict token",
			raw:      "VERDICT: maybe\nFEEDBACK: not sure",
			verdict:  ticket.StatusRejected,
			feedback: InvalidReviewFeedback,
		},
		{
			name:     "empty output",
			raw:      "",
			verdict:  ticket.StatusRejected,
			feedback: InvalidReviewFeedback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseReview(tt.raw)
			assert.Equal(t, tt.verdict, got.Verdict)
			assert.Equal(t, tt.feedback, got.Feedback)
			assert.Equal(t, tt.valid, got.Valid)
		})
	}
}

func TestParseReviewNeverApprovesMalformedOutput(t *testing.T) {
	for _, raw := range []string{"approved", "APPROVED!", "Verdict approved", "FEEDBACK: approved"} {
		assert.Equal(t, ticket.StatusRejected, ParseReview(raw).Verdict, raw)
	}
}
