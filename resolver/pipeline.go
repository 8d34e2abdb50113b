// Package resolver drives a support ticket through classification, retrieval,
// drafting and review, refining and retrying rejected drafts until they are
// approved or the retry budget is spent and the ticket is escalated.
package resolver

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	errorskg "github.com/sweetpotato0/ticket-resolver/errors"
	"github.com/sweetpotato0/ticket-resolver/escalation"
	"github.com/sweetpotato0/ticket-resolver/graph"
	"github.com/sweetpotato0/ticket-resolver/knowledge"
	"github.com/sweetpotato0/ticket-resolver/pkg/logging"
	"github.com/sweetpotato0/ticket-resolver/pkg/telemetry"
	"github.com/sweetpotato0/ticket-resolver/prompt"
	"github.com/sweetpotato0/ticket-resolver/stats"
	"github.com/sweetpotato0/ticket-resolver/ticket"
)

// Stage names, used as graph nodes, annotation stages and span suffixes.
const (
	StageClassify = "classify"
	StageRetrieve = "retrieve"
	StageDraft    = "draft"
	StageReview   = "review"
	StageDecide   = "decide"
	StageRefine   = "refine"
	StageEscalate = "escalate"
	StageDone     = "done"
)

// Branch keys returned by the decision node.
const (
	branchApproved = "approved"
	branchRetry    = "retry"
	branchEscalate = "escalate"
)

// EmptyDraftFeedback is recorded when the drafter produced nothing to review.
const EmptyDraftFeedback = "Draft response was empty. Please generate a complete response."

// Pipeline resolves tickets. It is safe for concurrent use: every run owns its
// own state, and the escalation store and recorder serialise internally.
type Pipeline struct {
	classifier Classifier
	retriever  Retriever
	drafter    Drafter
	reviewer   ReviewGenerator

	categories      ticket.Categories
	defaultCategory ticket.Category
	maxRetries      int
	store           escalation.Store
	recorder        stats.Recorder
	redactor        *Redactor
	logger          *slog.Logger
	sinkTimeout     time.Duration

	graph *graph.Graph[*ticket.State]
}

// New builds a pipeline from its capabilities. A nil retriever falls back to the
// static knowledge table; the other capabilities are required.
func New(classifier Classifier, retriever Retriever, drafter Drafter, reviewer ReviewGenerator, opts ...Option) (*Pipeline, error) {
	if classifier == nil || drafter == nil || reviewer == nil {
		return nil, fmt.Errorf("classifier, drafter and reviewer are required: %w", errorskg.ErrInvalidInput)
	}
	if retriever == nil {
		retriever = knowledge.Static{}
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	categories := ticket.NewCategories(o.categories...)
	if categories.Len() == 0 {
		return nil, fmt.Errorf("category enumeration is empty: %w", errorskg.ErrInvalidInput)
	}
	if !categories.Contains(o.defaultCategory) {
		return nil, fmt.Errorf("default category %q is not in the enumeration: %w", o.defaultCategory, errorskg.ErrInvalidInput)
	}
	if o.store == nil {
		o.store = escalation.NewMemory()
	}
	if o.logger == nil {
		o.logger = logging.WithComponent("resolver")
	}
	// draft, review and decide are entered at most maxRetries+1 times per run.
	minVisits := o.maxRetries + 1
	if o.maxVisits == 0 {
		o.maxVisits = o.maxRetries + 2
	}
	if o.maxVisits < minVisits {
		return nil, fmt.Errorf("graph visit limit %d is below %d: %w", o.maxVisits, minVisits, errorskg.ErrInvalidInput)
	}

	p := &Pipeline{
		classifier:      classifier,
		retriever:       retriever,
		drafter:         drafter,
		reviewer:        reviewer,
		categories:      categories,
		defaultCategory: o.defaultCategory,
		maxRetries:      o.maxRetries,
		store:           o.store,
		recorder:        o.recorder,
		redactor:        o.redactor,
		logger:          o.logger,
		sinkTimeout:     o.sinkTimeout,
	}

	g, err := graph.NewBuilder[*ticket.State]().
		AddNode(StageClassify, graph.NodeTypeStart, p.traced(StageClassify, p.classify)).
		AddNode(StageRetrieve, graph.NodeTypeCustom, p.traced(StageRetrieve, p.retrieve)).
		AddNode(StageDraft, graph.NodeTypeLLM, p.traced(StageDraft, p.draft)).
		AddNode(StageReview, graph.NodeTypeLLM, p.traced(StageReview, p.review)).
		AddConditionNode(StageDecide, p.decide, map[string]string{
			branchApproved: StageDone,
			branchRetry:    StageRefine,
			branchEscalate: StageEscalate,
		}).
		AddNode(StageRefine, graph.NodeTypeCustom, p.traced(StageRefine, p.refine)).
		AddNode(StageEscalate, graph.NodeTypeCustom, p.traced(StageEscalate, p.escalate)).
		AddNode(StageDone, graph.NodeTypeEnd, func(context.Context, *ticket.State) error { return nil }).
		AddEdge(StageClassify, StageRetrieve).
		AddEdge(StageRetrieve, StageDraft).
		AddEdge(StageDraft, StageReview).
		AddEdge(StageReview, StageDecide).
		AddEdge(StageRefine, StageDraft).
		AddEdge(StageEscalate, StageDone).
		SetMaxVisits(o.maxVisits).
		Build()
	if err != nil {
		return nil, fmt.Errorf("build workflow graph: %w", err)
	}
	p.graph = g
	return p, nil
}

// MaxRetries returns the configured refinement budget.
func (p *Pipeline) MaxRetries() int { return p.maxRetries }

// Run resolves one ticket and returns its caller-facing projection. A run ends
// approved or escalated; any other outcome is returned as an error with a nil result.
func (p *Pipeline) Run(ctx context.Context, subject, description string) (*ticket.Result, error) {
	st, err := p.RunState(ctx, subject, description)
	if err != nil {
		return nil, err
	}
	return p.Result(st), nil
}

// Result projects a terminal state, redacting the approved draft when redaction
// is enabled.
func (p *Pipeline) Result(st *ticket.State) *ticket.Result {
	res := st.Result()
	if res.Status == ticket.StatusApproved && p.redactor != nil {
		res.Draft = p.redactor.Redact(res.Draft)
	}
	return res
}

// RunState resolves one ticket and returns the full terminal state.
func (p *Pipeline) RunState(ctx context.Context, subject, description string) (_ *ticket.State, err error) {
	t, err := ticket.New(subject, description)
	if err != nil {
		return nil, err
	}
	st := ticket.NewState(t)

	ctx, span := telemetry.Start(ctx, "resolver.run", telemetry.AttrRunID.String(st.RunID))
	defer func() { telemetry.End(span, err) }()

	logger := p.logger.With("run_id", st.RunID)
	logger.Info("processing ticket", "subject", trimForLog(subject))

	if _, err = p.graph.Execute(ctx, st); err != nil {
		// A deadline hit after the terminal transition does not undo it.
		if ctx.Err() == nil || !st.Status().IsTerminal() {
			logger.Error("ticket run failed", "error", err)
			return nil, err
		}
		logger.Warn("context ended after terminal status was reached",
			"status", st.Status(), "error", err)
		err = nil
	}
	if !st.Status().IsTerminal() {
		err = fmt.Errorf("run ended with status %q: %w", st.Status(), errorskg.ErrInternal)
		return nil, err
	}

	category, _ := st.Category()
	span.SetAttributes(
		telemetry.AttrCategory.String(string(category)),
		telemetry.AttrStatus.String(string(st.Status())),
		telemetry.AttrRetryCount.Int(st.RetryCount()),
	)
	logger.Info("ticket run finished",
		"status", st.Status(),
		"category", category,
		"retry_count", st.RetryCount(),
	)
	p.record(ctx, st)
	return st, nil
}

func (p *Pipeline) traced(stage string, fn graph.NodeFunc[*ticket.State]) graph.NodeFunc[*ticket.State] {
	return func(ctx context.Context, st *ticket.State) (err error) {
		ctx, span := telemetry.Start(ctx, "resolver."+stage,
			telemetry.AttrRunID.String(st.RunID),
			telemetry.AttrRetryCount.Int(st.RetryCount()),
		)
		defer func() { telemetry.End(span, err) }()
		return fn(ctx, st)
	}
}

func (p *Pipeline) classify(ctx context.Context, st *ticket.State) error {
	raw, err := p.classifier.Classify(ctx, p.categories.Strings(), st.Ticket.Subject(), st.Ticket.Description())
	if err != nil {
		return stageError(StageClassify, err)
	}
	res := ticket.ParseCategory(raw, p.categories, p.defaultCategory)
	if !res.Valid {
		p.logger.Warn("invalid category from classifier, using default",
			"run_id", st.RunID,
			"raw", trimForLog(res.Raw),
			"default", res.Category,
		)
	}
	if err := st.SetCategory(res.Category); err != nil {
		return internal(err)
	}
	st.Annotate(StageClassify, fmt.Sprintf("Ticket classified as: %s", res.Category))
	return nil
}

func (p *Pipeline) retrieve(ctx context.Context, st *ticket.State) error {
	category, _ := st.Category()
	snippets := p.retriever.Retrieve(ctx, category, st.Ticket.Subject(), st.Ticket.Description())
	if err := st.ReplaceContext(snippets); err != nil {
		return internal(err)
	}
	p.logger.Debug("context retrieved", "run_id", st.RunID, "items", len(snippets))
	st.Annotate(StageRetrieve, "Retrieved context:\n"+prompt.BulletList(snippets))
	return nil
}

func (p *Pipeline) draft(ctx context.Context, st *ticket.State) error {
	draft, err := p.drafter.Draft(ctx, st.Ticket.Subject(), st.Ticket.Description(), st.Context())
	if err != nil {
		return stageError(StageDraft, err)
	}
	if err := st.ReplaceDraft(strings.TrimSpace(draft)); err != nil {
		return internal(err)
	}
	st.Annotate(StageDraft, fmt.Sprintf("Draft generated (attempt %d)", st.RetryCount()+1))
	return nil
}

func (p *Pipeline) review(ctx context.Context, st *ticket.State) error {
	category, _ := st.Category()
	draft := st.Draft()

	var verdict Review
	if draft == "" {
		verdict = Review{Verdict: ticket.StatusRejected, Feedback: EmptyDraftFeedback}
	} else {
		raw, err := p.reviewer.Review(ctx, st.Ticket.Subject(), st.Ticket.Description(), category, draft)
		if err != nil {
			return stageError(StageReview, err)
		}
		verdict = ParseReview(raw)
		if !verdict.Valid {
			p.logger.Warn("malformed review output, rejecting draft",
				"run_id", st.RunID,
				"raw", trimForLog(raw),
			)
		}
	}

	if err := st.SetReview(verdict.Verdict, verdict.Feedback); err != nil {
		return internal(err)
	}
	p.logger.Info("draft reviewed",
		"run_id", st.RunID,
		"verdict", verdict.Verdict,
		"feedback", trimForLog(verdict.Feedback),
	)
	st.Annotate(StageReview, fmt.Sprintf("Review result: %s\nFeedback: %s", verdict.Verdict, verdict.Feedback))
	return nil
}

// decide is the single transition authority of the workflow.
func (p *Pipeline) decide(_ context.Context, st *ticket.State) (string, error) {
	switch st.Status() {
	case ticket.StatusApproved:
		return branchApproved, nil
	case ticket.StatusRejected:
		if st.RetryCount() < p.maxRetries {
			return branchRetry, nil
		}
		return branchEscalate, nil
	default:
		return "", fmt.Errorf("no transition for review status %q: %w", st.Status(), errorskg.ErrInternal)
	}
}

func (p *Pipeline) refine(_ context.Context, st *ticket.State) error {
	category, _ := st.Category()
	refined := Refine(category, st.Ticket, st.Feedback())
	if err := st.ReplaceContext(refined); err != nil {
		return internal(err)
	}
	if err := st.IncrementRetry(); err != nil {
		return internal(err)
	}
	p.logger.Info("context refined",
		"run_id", st.RunID,
		"retry_count", st.RetryCount(),
		"triggers", knowledge.MatchedTriggers(st.Feedback()),
	)
	st.Annotate(StageRefine, fmt.Sprintf("Context refined for retry #%d based on feedback", st.RetryCount()))
	return nil
}

func (p *Pipeline) escalate(ctx context.Context, st *ticket.State) error {
	category, _ := st.Category()
	msg := EscalationMessage(st.Ticket, category, st.Draft(), st.Feedback(), st.RetryCount())

	rec := escalation.NewRecord(
		st.Ticket.Subject(),
		st.Ticket.Description(),
		string(category),
		st.Draft(),
		st.Feedback(),
		st.RetryCount(),
		time.Now(),
	)
	sinkCtx, cancel := p.sinkContext(ctx)
	defer cancel()
	if err := p.store.Append(sinkCtx, rec); err != nil {
		p.logger.Error("failed to persist escalation record",
			"run_id", st.RunID,
			"record_id", rec.ID,
			"error", err,
		)
	}

	if err := st.Escalate(msg); err != nil {
		return internal(err)
	}
	p.logger.Warn("ticket escalated", "run_id", st.RunID, "retry_count", st.RetryCount())
	st.Annotate(StageEscalate, msg)
	return nil
}

// sinkContext keeps ctx's values but not its cancellation, bounded by the sink timeout.
func (p *Pipeline) sinkContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), p.sinkTimeout)
}

func (p *Pipeline) record(ctx context.Context, st *ticket.State) {
	if p.recorder == nil {
		return
	}
	category, _ := st.Category()
	entry := stats.Entry{
		Timestamp:      time.Now(),
		RunID:          st.RunID,
		Subject:        st.Ticket.Subject(),
		Category:       string(category),
		Status:         string(st.Status()),
		RetryCount:     st.RetryCount(),
		ResponseLength: len([]rune(st.Draft())),
		Duration:       time.Since(st.StartedAt),
	}
	sinkCtx, cancel := p.sinkContext(ctx)
	defer cancel()
	if err := p.recorder.Record(sinkCtx, entry); err != nil {
		p.logger.Error("failed to record run statistics", "run_id", st.RunID, "error", err)
	}
}

func internal(err error) error {
	return fmt.Errorf("%w: %w", errorskg.ErrInternal, err)
}
