package resolver

import (
	"log/slog"
	"time"

	"github.com/sweetpotato0/ticket-resolver/escalation"
	"github.com/sweetpotato0/ticket-resolver/stats"
	"github.com/sweetpotato0/ticket-resolver/ticket"
)

// DefaultMaxRetries bounds the refinement passes taken before escalation.
const DefaultMaxRetries = 2

// DefaultSinkTimeout bounds one escalation write or stats update.
const DefaultSinkTimeout = 10 * time.Second

type options struct {
	maxRetries      int
	categories      []ticket.Category
	defaultCategory ticket.Category
	store           escalation.Store
	recorder        stats.Recorder
	redactor        *Redactor
	logger          *slog.Logger
	maxVisits       int
	sinkTimeout     time.Duration
}

func defaultOptions() options {
	return options{
		maxRetries:      DefaultMaxRetries,
		categories:      ticket.DefaultCategories,
		defaultCategory: ticket.DefaultCategory,
		sinkTimeout:     DefaultSinkTimeout,
	}
}

// Option customises a Pipeline.
type Option func(*options)

// WithMaxRetries sets how many refinement passes are allowed. Negative values are ignored.
func WithMaxRetries(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.maxRetries = n
		}
	}
}

// WithCategories replaces the category enumeration.
func WithCategories(categories ...ticket.Category) Option {
	return func(o *options) {
		if len(categories) > 0 {
			o.categories = append([]ticket.Category(nil), categories...)
		}
	}
}

// WithDefaultCategory sets the category substituted for invalid classifier output.
// It must be a member of the enumeration.
func WithDefaultCategory(c ticket.Category) Option {
	return func(o *options) {
		if c != "" {
			o.defaultCategory = c
		}
	}
}

// WithEscalationStore sets the append-only sink for escalation records.
func WithEscalationStore(store escalation.Store) Option {
	return func(o *options) { o.store = store }
}

// WithRecorder sets the statistics recorder fed after every finished run.
func WithRecorder(r stats.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithRedaction toggles rewriting of technical terms in approved drafts returned by Run.
func WithRedaction(enabled bool) Option {
	return func(o *options) {
		if enabled {
			o.redactor = NewRedactor()
		} else {
			o.redactor = nil
		}
	}
}

// WithRedactor installs a custom redactor.
func WithRedactor(r *Redactor) Option {
	return func(o *options) { o.redactor = r }
}

// WithLogger sets the logger used by all stages.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithGraphMaxVisits overrides the per-node visit guard of the state machine.
func WithGraphMaxVisits(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxVisits = n
		}
	}
}

// WithSinkTimeout bounds escalation writes and stats updates. They run detached
// from the caller's cancellation so a ticket that reached a terminal status is
// still audited. Non-positive values are ignored.
func WithSinkTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.sinkTimeout = d
		}
	}
}
