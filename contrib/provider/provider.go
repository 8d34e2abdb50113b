// Package provider holds the LLM backends that satisfy agent.LLMClient.
package provider

import (
	"github.com/sweetpotato0/ticket-resolver/agent"
)

// Provider is an agent.LLMClient bound to one model configuration.
type Provider = agent.LLMClient
