package agent

import (
	"context"

	"github.com/sweetpotato0/ticket-resolver/message"
)

// LLMClient is the text-generation capability every LLM-backed stage depends on.
// Implementations are configured once (model, temperature, token limit) and must be
// safe for concurrent use.
type LLMClient interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}

// GenerateRequest bundles inputs for a non-streaming LLM invocation.
type GenerateRequest struct {
	Messages []*message.Message
}

// GenerateResponse captures the LLM reply for non-streaming calls.
type GenerateResponse struct {
	Message *message.Message
}

// Text returns the reply text, or "" when the response is empty.
func (r *GenerateResponse) Text() string {
	if r == nil {
		return ""
	}
	return r.Message.Text()
}

// Settings is the per-stage model selection shared by provider configs.
type Settings struct {
	Model       string
	Temperature float64
	MaxTokens   int64
}

// ClientFunc adapts a function to LLMClient.
type ClientFunc func(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)

// Generate calls f.
func (f ClientFunc) Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error) {
	return f(ctx, req)
}
