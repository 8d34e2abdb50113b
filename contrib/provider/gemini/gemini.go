package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/sweetpotato0/ticket-resolver/agent"
	"github.com/sweetpotato0/ticket-resolver/message"
	"google.golang.org/api/option"
)

// Config holds Gemini provider configuration
type Config struct {
	APIKey      string
	Model       string
	MaxTokens   int32
	Temperature float32
}

// DefaultConfig returns default Gemini configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       "gemini-1.5-flash",
		MaxTokens:   1024,
		Temperature: 0.3,
	}
}

// Provider implements the LLMClient interface for Google Gemini
type Provider struct {
	config *Config
	client *genai.Client
}

// New creates a new Gemini provider. The caller owns the returned provider and
// must Close it.
func New(ctx context.Context, config *Config) (*Provider, error) {
	if config == nil {
		config = DefaultConfig("")
	}
	if config.APIKey == "" {
		return nil, fmt.Errorf("Gemini API key not configured")
	}
	if config.Model == "" {
		config.Model = "gemini-1.5-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &Provider{config: config, client: client}, nil
}

// Generate implements agent.LLMClient interface
func (p *Provider) Generate(ctx context.Context, req *agent.GenerateRequest) (*agent.GenerateResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("generate request cannot be nil")
	}

	system, history, last, err := splitTurns(req.Messages)
	if err != nil {
		return nil, err
	}

	model := p.client.GenerativeModel(p.config.Model)
	model.SetTemperature(p.config.Temperature)
	if p.config.MaxTokens > 0 {
		model.SetMaxOutputTokens(p.config.MaxTokens)
	}
	if system != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}

	chat := model.StartChat()
	chat.History = history

	resp, err := chat.SendMessage(ctx, last)
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("no candidates in response")
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}

	reply := message.NewMessage(message.RoleAssistant, text.String())
	reply.Metadata["model"] = p.config.Model
	return &agent.GenerateResponse{Message: reply}, nil
}

// Close releases the underlying client.
func (p *Provider) Close() error {
	return p.client.Close()
}

// splitTurns maps messages onto Gemini's chat shape: the joined system prompt,
// the earlier turns as history and the final turn as the message to send.
func splitTurns(msgs []*message.Message) (string, []*genai.Content, genai.Text, error) {
	system, rest := message.SplitSystem(msgs)
	if len(rest) == 0 {
		return "", nil, "", fmt.Errorf("no user content to send")
	}
	history := make([]*genai.Content, 0, len(rest)-1)
	for _, msg := range rest[:len(rest)-1] {
		history = append(history, &genai.Content{
			Role:  geminiRole(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return system, history, genai.Text(rest[len(rest)-1].Content), nil
}

func geminiRole(role message.Role) string {
	if role == message.RoleAssistant {
		return "model"
	}
	return "user"
}
