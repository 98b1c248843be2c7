package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/linkeval/internal/model"
)

// Provider-specific environment variables, read when the config leaves a field empty
const (
	envAzureKey        = "AZURE_OPENAI_API_KEY"
	envAzureEndpoint   = "AZURE_OPENAI_ENDPOINT"
	envAzureVersion    = "AZURE_OPENAI_API_VERSION"
	envAzureDeployment = "AZURE_OPENAI_DEPLOYMENT_NAME"
	envOpenAIKey       = "OPENAI_API_KEY"
	envAnthropicKey    = "ANTHROPIC_API_KEY"
	envOllamaBaseURL   = "OLLAMA_BASE_URL"
)

// applyProviderEnv fills empty LLM settings from the provider's usual env variables
func applyProviderEnv(cfg *model.LLMConfig, getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}
	setIfEmpty := func(field *string, key string) {
		if *field == "" {
			*field = getenv(key)
		}
	}

	switch strings.ToLower(cfg.Provider) {
	case "azure", "azure-openai":
		setIfEmpty(&cfg.APIKey, envAzureKey)
		setIfEmpty(&cfg.BaseURL, envAzureEndpoint)
		setIfEmpty(&cfg.Model, envAzureDeployment)
		// An explicit env version beats the built-in default
		if v := getenv(envAzureVersion); v != "" && cfg.APIVersion == model.DefaultConfig().LLM.APIVersion {
			cfg.APIVersion = v
		}
	case "openai":
		setIfEmpty(&cfg.APIKey, envOpenAIKey)
	case "anthropic", "claude":
		setIfEmpty(&cfg.APIKey, envAnthropicKey)
	case "ollama":
		setIfEmpty(&cfg.BaseURL, envOllamaBaseURL)
	}
}

// checkProviderConfig reports every missing setting up front, naming the env
// variable that would supply it
func checkProviderConfig(cfg model.LLMConfig) error {
	var missing []string
	need := func(value, env string) {
		if value == "" {
			missing = append(missing, env)
		}
	}

	switch strings.ToLower(cfg.Provider) {
	case "azure", "azure-openai":
		need(cfg.APIKey, envAzureKey)
		need(cfg.BaseURL, envAzureEndpoint)
		need(cfg.APIVersion, envAzureVersion)
		need(cfg.Model, envAzureDeployment)
	case "openai":
		need(cfg.APIKey, envOpenAIKey)
	case "anthropic", "claude":
		need(cfg.APIKey, envAnthropicKey)
	case "ollama":
		need(cfg.Model, "LINKEVAL_LLM_MODEL")
	case "":
		return fmt.Errorf("no LLM provider configured (set --provider or llm.provider)")
	default:
		return fmt.Errorf("unknown LLM provider: %s (supported: azure, openai, anthropic, ollama)", cfg.Provider)
	}

	if len(missing) > 0 {
		return fmt.Errorf("%s configuration incomplete, set: %s", cfg.Provider, strings.Join(missing, ", "))
	}
	return nil
}
