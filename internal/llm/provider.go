package llm

import (
	"context"
	"time"

	"github.com/ppiankov/linkeval/internal/model"
)

const (
	defaultTimeout   = 30 * time.Second
	defaultMaxTokens = 200
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one system+user exchange and returns the raw answer
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest contains the input for a single completion
type CompletionRequest struct {
	// System is the system prompt
	System string

	// Prompt is the user message
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int

	// Temperature controls sampling randomness
	Temperature float32
}

// CompletionResponse contains the provider's answer
type CompletionResponse struct {
	// Text is the trimmed answer text
	Text string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "azure", "openai", "anthropic", "ollama"
	Provider string

	// Model name (provider-specific; the deployment name for Azure)
	Model string

	// APIKey for Azure/OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (Azure resource endpoint, Ollama host)
	BaseURL string

	// APIVersion is required by Azure OpenAI
	APIVersion string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Temperature for response generation
	Temperature float32

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(modelConfig model.LLMConfig) Config {
	return Config{
		Provider:    modelConfig.Provider,
		Model:       modelConfig.Model,
		APIKey:      modelConfig.APIKey,
		BaseURL:     modelConfig.BaseURL,
		APIVersion:  modelConfig.APIVersion,
		Timeout:     modelConfig.Timeout,
		MaxTokens:   modelConfig.MaxTokens,
		Temperature: modelConfig.Temperature,
		HTTPProxy:   modelConfig.HTTPProxy,
		HTTPSProxy:  modelConfig.HTTPSProxy,
	}
}
