package resolver

import (
	"context"

	"github.com/sweetpotato0/ticket-resolver/ticket"
)

// Classifier returns a category label for a ticket. The output is untrusted and is
// validated against the enumeration by the pipeline.
type Classifier interface {
	Classify(ctx context.Context, categories []string, subject, description string) (string, error)
}

// Retriever returns knowledge snippets ordered by descending relevance. It never
// fails; implementations fall back to static knowledge when their backend is down.
type Retriever interface {
	Retrieve(ctx context.Context, category ticket.Category, subject, description string) []string
}

// Drafter writes a reply from the ticket and the current context.
type Drafter interface {
	Draft(ctx context.Context, subject, description string, snippets []string) (string, error)
}

// ReviewGenerator produces raw reviewer output in the VERDICT/FEEDBACK protocol.
type ReviewGenerator interface {
	Review(ctx context.Context, subject, description string, category ticket.Category, draft string) (string, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(ctx context.Context, categories []string, subject, description string) (string, error)

func (f ClassifierFunc) Classify(ctx context.Context, categories []string, subject, description string) (string, error) {
	return f(ctx, categories, subject, description)
}

// DrafterFunc adapts a function to Drafter.
type DrafterFunc func(ctx context.Context, subject, description string, snippets []string) (string, error)

func (f DrafterFunc) Draft(ctx context.Context, subject, description string, snippets []string) (string, error) {
	return f(ctx, subject, description, snippets)
}

// ReviewGeneratorFunc adapts a function to ReviewGenerator.
type ReviewGeneratorFunc func(ctx context.Context, subject, description string, category ticket.Category, draft string) (string, error)

func (f ReviewGeneratorFunc) Review(ctx context.Context, subject, description string, category ticket.Category, draft string) (string, error) {
	return f(ctx, subject, description, category, draft)
}
