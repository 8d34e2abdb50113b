package ticket

import (
	"errors"
	"fmt"
	"time"
)

// ErrTerminal is returned when a mutation is attempted after the run reached a
// terminal review status.
var ErrTerminal = errors.New("workflow state is terminal")

// ErrCategorySet is returned when the category is assigned a second time.
var ErrCategorySet = errors.New("category already set")

// State is the mutable record threaded through one resolution run. It is owned by
// exactly one in-flight run and must not be shared.
type State struct {
	RunID     string
	Ticket    Ticket
	StartedAt time.Time

	category      Category
	categoryKnown bool
	context       []string
	draft         string
	feedback      string
	status        ReviewStatus
	retryCount    int
	escalationMsg string
	messages      []Annotation
}

// NewState returns the initial state for a run: every optional field empty and a
// zero retry counter.
func NewState(t Ticket) *State {
	return &State{
		RunID:     NewRunID(),
		Ticket:    t,
		StartedAt: time.Now(),
	}
}

// Category returns the classified category and whether it has been set.
func (s *State) Category() (Category, bool) { return s.category, s.categoryKnown }

// Context returns a copy of the current snippet list.
func (s *State) Context() []string { return append([]string(nil), s.context...) }

// Draft returns the latest draft response.
func (s *State) Draft() string { return s.draft }

// Feedback returns the latest review feedback.
func (s *State) Feedback() string { return s.feedback }

// Status returns the review status.
func (s *State) Status() ReviewStatus { return s.status }

// RetryCount returns the number of refinement passes taken.
func (s *State) RetryCount() int { return s.retryCount }

// EscalationMessage returns the human handoff text, empty unless escalated.
func (s *State) EscalationMessage() string { return s.escalationMsg }

// Messages returns a copy of the annotation log.
func (s *State) Messages() []Annotation { return append([]Annotation(nil), s.messages...) }

// SetCategory stores the category once. Callers validate against the enumeration
// before calling; the state only refuses a second assignment.
func (s *State) SetCategory(c Category) error {
	if err := s.guard(); err != nil {
		return err
	}
	if s.categoryKnown {
		return fmt.Errorf("%w: %s", ErrCategorySet, s.category)
	}
	s.category = c
	s.categoryKnown = true
	return nil
}

// ReplaceContext swaps in a new snippet list.
func (s *State) ReplaceContext(snippets []string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.context = append([]string(nil), snippets...)
	return nil
}

// ReplaceDraft swaps in a new draft response.
func (s *State) ReplaceDraft(draft string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.draft = draft
	return nil
}

// SetReview records a reviewer verdict and its feedback. Only approved and
// rejected are accepted here.
func (s *State) SetReview(status ReviewStatus, feedback string) error {
	if err := s.guard(); err != nil {
		return err
	}
	if status != StatusApproved && status != StatusRejected {
		return fmt.Errorf("review status %q is not a verdict", status)
	}
	s.status = status
	s.feedback = feedback
	return nil
}

// IncrementRetry advances the retry counter by one.
func (s *State) IncrementRetry() error {
	if err := s.guard(); err != nil {
		return err
	}
	s.retryCount++
	return nil
}

// Escalate marks the run as handed off to a human.
func (s *State) Escalate(message string) error {
	if err := s.guard(); err != nil {
		return err
	}
	s.status = StatusEscalated
	s.escalationMsg = message
	return nil
}

// Annotate appends an entry to the message log. The log is observational and stays
// writable after the run terminates.
func (s *State) Annotate(stage, content string) {
	s.messages = append(s.messages, Annotation{Stage: stage, Content: content, At: time.Now()})
}

// Result projects the state for callers.
func (s *State) Result() *Result {
	return &Result{
		RunID:             s.RunID,
		Subject:           s.Ticket.Subject(),
		Status:            s.status,
		Category:          s.category,
		RetryCount:        s.retryCount,
		Draft:             s.draft,
		ContextItems:      len(s.context),
		Feedback:          s.feedback,
		EscalationMessage: s.escalationMsg,
		Duration:          time.Since(s.StartedAt),
	}
}

func (s *State) guard() error {
	if s.status.IsTerminal() {
		return fmt.Errorf("%w (%s)", ErrTerminal, s.status)
	}
	return nil
}
