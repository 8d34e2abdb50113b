package openai

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/packages/param"
	"github.com/sweetpotato0/ticket-resolver/agent"
	"github.com/sweetpotato0/ticket-resolver/message"
)

// Config holds OpenAI provider configuration
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// WithBaseURL set BaseURL.
func (cfg *Config) WithBaseURL(url string) *Config {
	cfg.BaseURL = url
	return cfg
}

// WithAPIKey set api key.
func (cfg *Config) WithAPIKey(apiKey string) *Config {
	cfg.APIKey = apiKey
	return cfg
}

// WithModel set model.
func (cfg *Config) WithModel(model string) *Config {
	cfg.Model = model
	return cfg
}

// WithTemperature set sampling temperature.
func (cfg *Config) WithTemperature(t float64) *Config {
	cfg.Temperature = t
	return cfg
}

// DefaultConfig returns default OpenAI configuration
func DefaultConfig() *Config {
	return &Config{
		Model:       string(openai.ChatModelGPT4oMini),
		MaxTokens:   1024,
		Temperature: 0.3,
	}
}

// Provider implements agent.LLMClient for OpenAI-compatible chat completion APIs
type Provider struct {
	config *Config
	client openai.Client
}

// New creates a new OpenAI provider using official SDK
func New(config *Config) *Provider {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Model == "" {
		config.Model = string(openai.ChatModelGPT4oMini)
	}

	options := []option.RequestOption{option.WithAPIKey(config.APIKey)}
	if config.BaseURL != "" {
		options = append(options, option.WithBaseURL(config.BaseURL))
	}

	return &Provider{
		config: config,
		client: openai.NewClient(options...),
	}
}

// Generate implements agent.LLMClient interface
func (p *Provider) Generate(ctx context.Context, req *agent.GenerateRequest) (*agent.GenerateResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("generate request cannot be nil")
	}

	params := openai.ChatCompletionNewParams{
		Messages: ConvertMessages(req.Messages),
		Model:    openai.ChatModel(p.config.Model),
	}
	// Zero is a legitimate temperature for classification, so it is always sent.
	params.Temperature = param.NewOpt(p.config.Temperature)
	if p.config.MaxTokens > 0 {
		params.MaxCompletionTokens = param.NewOpt(p.config.MaxTokens)
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned from OpenAI")
	}

	reply := message.NewMessage(message.RoleAssistant, completion.Choices[0].Message.Content)
	reply.Metadata["model"] = completion.Model
	return &agent.GenerateResponse{Message: reply}, nil
}

// Model reports the configured model name.
func (p *Provider) Model() string {
	return p.config.Model
}

// ConvertMessages maps conversation messages onto chat completion params.
func ConvertMessages(msgs []*message.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, msg := range msgs {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case message.RoleSystem:
			out = append(out, openai.SystemMessage(msg.Text()))
		case message.RoleUser:
			out = append(out, openai.UserMessage(msg.Text()))
		case message.RoleAssistant:
			out = append(out, openai.AssistantMessage(msg.Text()))
		}
	}
	return out
}
