package llm

import (
	"fmt"
	"strings"
)

// NewProvider creates a new LLM provider based on configuration
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "azure", "azure-openai":
		p, err := NewAzureProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "openai":
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "anthropic", "claude":
		p, err := NewAnthropicProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, fmt.Errorf("no LLM provider configured")

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: azure, openai, anthropic, ollama)", config.Provider)
	}
}
