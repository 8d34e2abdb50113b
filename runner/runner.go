package runner

import (
	"context"
	"fmt"

	"github.com/sweetpotato0/ticket-resolver/ticket"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is used when New is given a non-positive limit.
const DefaultConcurrency = 10

// Resolver resolves a single ticket.
type Resolver interface {
	Run(ctx context.Context, subject, description string) (*ticket.Result, error)
}

// Task is one ticket to resolve.
type Task struct {
	ID          string
	Subject     string
	Description string
}

// Outcome pairs a task with its result. Exactly one of Result and Error is set.
type Outcome struct {
	TaskID string
	Result *ticket.Result
	Error  error
}

// Runner executes independent ticket runs with bounded concurrency. Runs never
// share state; the resolver's sinks are the only shared resources.
type Runner struct {
	resolver       Resolver
	maxConcurrency int
	semaphore      chan struct{}
}

// New creates a runner over resolver.
func New(resolver Resolver, maxConcurrency int) *Runner {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultConcurrency
	}
	return &Runner{
		resolver:       resolver,
		maxConcurrency: maxConcurrency,
		semaphore:      make(chan struct{}, maxConcurrency),
	}
}

// MaxConcurrency returns the concurrency limit.
func (r *Runner) MaxConcurrency() int { return r.maxConcurrency }

// Run resolves one ticket, waiting for a free slot first.
func (r *Runner) Run(ctx context.Context, task Task) (res *ticket.Result, err error) {
	select {
	case r.semaphore <- struct{}{}:
		defer func() { <-r.semaphore }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	defer func() {
		if p := recover(); p != nil {
			res, err = nil, fmt.Errorf("panic in task %s: %v", task.ID, p)
		}
	}()
	return r.resolver.Run(ctx, task.Subject, task.Description)
}

// RunBatch resolves tasks concurrently and returns one outcome per task, in input
// order. A failing task does not stop the others. Concurrency is bounded by the
// runner's slots, shared with any concurrent Run calls.
func (r *Runner) RunBatch(ctx context.Context, tasks []Task) []Outcome {
	outcomes := make([]Outcome, len(tasks))

	var g errgroup.Group
	for i, task := range tasks {
		g.Go(func() error {
			res, err := r.Run(ctx, task)
			outcomes[i] = Outcome{TaskID: task.ID, Result: res, Error: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// Summary counts batch outcomes by status; failures are counted under "failed".
func Summary(outcomes []Outcome) map[string]int {
	counts := make(map[string]int)
	for _, o := range outcomes {
		if o.Error != nil || o.Result == nil {
			counts["failed"]++
			continue
		}
		counts[string(o.Result.Status)]++
	}
	return counts
}
