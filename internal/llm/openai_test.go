package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sashabaranov/go-openai"
)

func chatResponse(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		ID:      "chatcmpl-123",
		Object:  "chat.completion",
		Created: 1677652288,
		Model:   "gpt-4o-mini",
		Choices: []openai.ChatCompletionChoice{
			{
				Index: 0,
				Message: openai.ChatCompletionMessage{
					Role:    "assistant",
					Content: content,
				},
				FinishReason: "stop",
			},
		},
		Usage: openai.Usage{
			TotalTokens: 42,
		},
	}
}

func TestOpenAIProvider_Complete_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header Bearer test-key, got %s", r.Header.Get("Authorization"))
		}

		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("Expected system and user messages, got %d", len(req.Messages))
		}
		if req.MaxTokens != 200 {
			t.Errorf("Expected max tokens 200, got %d", req.MaxTokens)
		}

		_ = json.NewEncoder(w).Encode(chatResponse("  Amsterdam, Rotterdam \n"))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
		Model:   "gpt-4o-mini",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{
		System: "system",
		Prompt: "user",
	})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}

	if resp.Text != "Amsterdam, Rotterdam" {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if resp.TokensUsed != 42 {
		t.Errorf("Expected 42 tokens, got %d", resp.TokensUsed)
	}
	if provider.Name() != "openai" {
		t.Errorf("Expected name openai, got %s", provider.Name())
	}
}

func TestOpenAIProvider_Complete_OmitsEmptySystem(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openai.ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) != 1 || req.Messages[0].Role != openai.ChatMessageRoleUser {
			t.Errorf("Expected a single user message, got %+v", req.Messages)
		}
		_ = json.NewEncoder(w).Encode(chatResponse("Geen"))
	}))
	defer server.Close()

	provider, err := NewOpenAIProvider(Config{APIKey: "k", BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "user"}); err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
}

func TestOpenAIProvider_Complete_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error": {"message": "Internal server error"}}`))
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})

	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "openai API error") {
		t.Errorf("Unexpected error: %v", err)
	}
}

func TestOpenAIProvider_Complete_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := chatResponse("")
		resp.Choices = nil
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider, _ := NewOpenAIProvider(Config{APIKey: "test-key", BaseURL: server.URL, Timeout: 5})

	_, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if err == nil || !strings.Contains(err.Error(), "no response from openai") {
		t.Errorf("Expected no response error, got %v", err)
	}
}

func TestNewOpenAIProvider_MissingKey(t *testing.T) {
	if _, err := NewOpenAIProvider(Config{}); err == nil {
		t.Error("Expected error for missing API key")
	}
}

func TestAzureProvider_Complete_UsesDeployment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openai/deployments/gpt4o-nl/chat/completions" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("api-version"); got != "2024-06-01" {
			t.Errorf("Expected api-version 2024-06-01, got %s", got)
		}
		if r.Header.Get("api-key") != "azure-key" {
			t.Errorf("Expected api-key header, got %q", r.Header.Get("api-key"))
		}
		_ = json.NewEncoder(w).Encode(chatResponse("Amsterdam"))
	}))
	defer server.Close()

	provider, err := NewAzureProvider(Config{
		APIKey:     "azure-key",
		BaseURL:    server.URL,
		APIVersion: "2024-06-01",
		Model:      "gpt4o-nl",
		Timeout:    5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	resp, err := provider.Complete(context.Background(), CompletionRequest{Prompt: "x"})
	if err != nil {
		t.Fatalf("Complete failed: %v", err)
	}
	if resp.Text != "Amsterdam" {
		t.Errorf("Unexpected text: %q", resp.Text)
	}
	if provider.Name() != "azure" {
		t.Errorf("Expected name azure, got %s", provider.Name())
	}
}

func TestNewAzureProvider_ReportsMissingSettings(t *testing.T) {
	_, err := NewAzureProvider(Config{APIKey: "k"})
	if err == nil {
		t.Fatal("Expected error for incomplete Azure config")
	}
	for _, want := range []string{"endpoint", "api version", "deployment name"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Expected %q in error %q", want, err.Error())
		}
	}
	if strings.Contains(err.Error(), "api key") {
		t.Errorf("API key was set but reported missing: %v", err)
	}
}
