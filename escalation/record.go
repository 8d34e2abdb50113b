// Package escalation records tickets handed off to a human in an append-only store.
package escalation

import (
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Field limits, in runes, applied when a record is built.
const (
	DescriptionLimit = 500
	DraftLimit       = 1000
	FeedbackLimit    = 500
)

// Placeholders stored when the run produced no draft or no feedback.
const (
	NoDraft    = "No draft"
	NoFeedback = "No feedback"
)

// Columns is the fixed column order of tabular sinks.
var Columns = []string{
	"timestamp",
	"ticket_subject",
	"ticket_description",
	"category",
	"draft_response",
	"review_feedback",
	"retry_count",
}

// Record is one escalation audit entry.
type Record struct {
	ID                string    `json:"id" bson:"_id"`
	Timestamp         time.Time `json:"timestamp" bson:"timestamp"`
	TicketSubject     string    `json:"ticket_subject" bson:"ticket_subject"`
	TicketDescription string    `json:"ticket_description" bson:"ticket_description"`
	Category          string    `json:"category" bson:"category"`
	DraftResponse     string    `json:"draft_response" bson:"draft_response"`
	ReviewFeedback    string    `json:"review_feedback" bson:"review_feedback"`
	RetryCount        int       `json:"retry_count" bson:"retry_count"`
}

// NewRecord builds a record, truncating long fields and substituting placeholders
// for an empty draft or feedback.
func NewRecord(subject, description, category, draft, feedback string, retryCount int, at time.Time) Record {
	if draft == "" {
		draft = NoDraft
	}
	if feedback == "" {
		feedback = NoFeedback
	}
	return Record{
		ID:                uuid.NewString(),
		Timestamp:         at,
		TicketSubject:     subject,
		TicketDescription: Truncate(description, DescriptionLimit),
		Category:          category,
		DraftResponse:     Truncate(draft, DraftLimit),
		ReviewFeedback:    Truncate(feedback, FeedbackLimit),
		RetryCount:        retryCount,
	}
}

// Row renders the record in Columns order.
func (r Record) Row() []string {
	return []string{
		r.Timestamp.Format(time.RFC3339Nano),
		r.TicketSubject,
		r.TicketDescription,
		r.Category,
		r.DraftResponse,
		r.ReviewFeedback,
		strconv.Itoa(r.RetryCount),
	}
}

// Fields returns the record as column/value pairs, for sinks that store flat maps.
func (r Record) Fields() map[string]any {
	row := r.Row()
	out := make(map[string]any, len(Columns)+1)
	out["id"] = r.ID
	for i, col := range Columns {
		out[col] = row[i]
	}
	return out
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
