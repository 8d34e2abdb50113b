package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	errorskg "github.com/sweetpotato0/ticket-resolver/errors"
)

// Ticket is the requester's immutable input.
type Ticket struct {
	subject     string
	description string
}

// New creates a ticket. At least one of subject and description must be non-blank.
func New(subject, description string) (Ticket, error) {
	if strings.TrimSpace(subject) == "" && strings.TrimSpace(description) == "" {
		return Ticket{}, fmt.Errorf("ticket needs a subject or a description: %w", errorskg.ErrInvalidInput)
	}
	return Ticket{subject: subject, description: description}, nil
}

// Subject returns the ticket subject.
func (t Ticket) Subject() string { return t.subject }

// Description returns the ticket description.
func (t Ticket) Description() string { return t.description }

// ReviewStatus is the review outcome carried by a run.
type ReviewStatus string

const (
	StatusNone      ReviewStatus = ""
	StatusApproved  ReviewStatus = "approved"
	StatusRejected  ReviewStatus = "rejected"
	StatusEscalated ReviewStatus = "escalated"
)

// IsTerminal reports whether no further work may happen after this status.
func (s ReviewStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusEscalated
}

// Annotation is one entry of the observational message log.
type Annotation struct {
	Stage   string    `json:"stage"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
}

// Result is the caller-facing projection of a terminal state.
type Result struct {
	RunID             string        `json:"run_id"`
	Subject           string        `json:"subject"`
	Status            ReviewStatus  `json:"review_status"`
	Category          Category      `json:"category"`
	RetryCount        int           `json:"retry_count"`
	Draft             string        `json:"draft_response"`
	ContextItems      int           `json:"context_item_count"`
	Feedback          string        `json:"review_feedback,omitempty"`
	EscalationMessage string        `json:"escalation_message,omitempty"`
	Duration          time.Duration `json:"duration"`
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}
