// Package groq serves Groq-hosted models through the OpenAI-compatible endpoint.
package groq

import (
	"github.com/sweetpotato0/ticket-resolver/contrib/provider/openai"
)

const (
	// BaseURL is Groq's OpenAI-compatible API root.
	BaseURL = "https://api.groq.com/openai/v1"
	// DefaultModel is the small instruct model the resolver stages run on.
	DefaultModel = "llama-3.1-8b-instant"
)

// Config holds Groq provider configuration
type Config struct {
	APIKey string
	// BaseURL overrides the Groq endpoint, for proxies.
	BaseURL     string
	Model       string
	MaxTokens   int64
	Temperature float64
}

// DefaultConfig returns default Groq configuration
func DefaultConfig(apiKey string) *Config {
	return &Config{
		APIKey:      apiKey,
		Model:       DefaultModel,
		MaxTokens:   1024,
		Temperature: 0.3,
	}
}

// New creates a Groq-backed provider.
func New(config *Config) *openai.Provider {
	if config == nil {
		config = DefaultConfig("")
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = BaseURL
	}
	return openai.New(&openai.Config{
		APIKey:      config.APIKey,
		BaseURL:     baseURL,
		Model:       config.Model,
		MaxTokens:   config.MaxTokens,
		Temperature: config.Temperature,
	})
}
