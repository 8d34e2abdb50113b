package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/sweetpotato0/ticket-resolver/agent"
	"github.com/sweetpotato0/ticket-resolver/message"
	"github.com/sweetpotato0/ticket-resolver/prompt"
	"github.com/sweetpotato0/ticket-resolver/ticket"
)

// llmStage renders one support template and sends it as a single user turn.
type llmStage struct {
	client    agent.LLMClient
	templates *prompt.Manager
	name      string
}

func newLLMStage(client agent.LLMClient, name string) llmStage {
	return llmStage{client: client, templates: prompt.SupportTemplates(), name: name}
}

func (s llmStage) call(ctx context.Context, vars map[string]any) (string, error) {
	if s.client == nil {
		return "", fmt.Errorf("%s: llm client is nil", s.name)
	}
	text, err := s.templates.Render(s.name, vars)
	if err != nil {
		return "", fmt.Errorf("render %s prompt: %w", s.name, err)
	}
	resp, err := s.client.Generate(ctx, &agent.GenerateRequest{
		Messages: []*message.Message{message.User(text)},
	})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(resp.Text()), nil
}

// LLMClassifier classifies tickets with a language model.
type LLMClassifier struct{ stage llmStage }

// NewLLMClassifier returns a classifier backed by client.
func NewLLMClassifier(client agent.LLMClient) *LLMClassifier {
	return &LLMClassifier{stage: newLLMStage(client, prompt.Classification)}
}

// Classify implements Classifier.
func (c *LLMClassifier) Classify(ctx context.Context, categories []string, subject, description string) (string, error) {
	return c.stage.call(ctx, map[string]any{
		"Categories":  prompt.JoinCategories(categories),
		"Subject":     subject,
		"Description": description,
	})
}

// LLMDrafter drafts replies with a language model.
type LLMDrafter struct{ stage llmStage }

// NewLLMDrafter returns a drafter backed by client.
func NewLLMDrafter(client agent.LLMClient) *LLMDrafter {
	return &LLMDrafter{stage: newLLMStage(client, prompt.Draft)}
}

// Draft implements Drafter.
func (d *LLMDrafter) Draft(ctx context.Context, subject, description string, snippets []string) (string, error) {
	return d.stage.call(ctx, map[string]any{
		"Subject":     subject,
		"Description": description,
		"Context":     prompt.BulletList(snippets),
	})
}

// LLMReviewer reviews drafts with a language model.
type LLMReviewer struct{ stage llmStage }

// NewLLMReviewer returns a review generator backed by client.
func NewLLMReviewer(client agent.LLMClient) *LLMReviewer {
	return &LLMReviewer{stage: newLLMStage(client, prompt.Review)}
}

// Review implements ReviewGenerator.
func (r *LLMReviewer) Review(ctx context.Context, subject, description string, category ticket.Category, draft string) (string, error) {
	return r.stage.call(ctx, map[string]any{
		"Subject":     subject,
		"Description": description,
		"Category":    string(category),
		"Draft":       draft,
	})
}
