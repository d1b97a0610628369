package providers

import (
	"context"
	"fmt"

	openaiEmbed "github.com/cloudwego/eino-ext/components/embedding/openai"
	openaiModel "github.com/cloudwego/eino-ext/components/model/openai"
	einoEmbedding "github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
)

// Ollama exposes an OpenAI-compatible API under /v1; both the chat model and
// the embedder go through it. The API key is required by the client but
// ignored by Ollama, so any non-empty value works locally.
const (
	defaultBaseURL = "http://localhost:11434/v1"
	defaultAPIKey  = "ollama"
)

// ChatModelConfig defines the configuration for creating a chat model.
type ChatModelConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewChatModel creates an OpenAI-compatible chat model pointed at the local
// generation engine.
func NewChatModel(ctx context.Context, config *ChatModelConfig) (model.ToolCallingChatModel, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("chat model name is required in config")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = defaultAPIKey
	}

	return openaiModel.NewChatModel(ctx, &openaiModel.ChatModelConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   config.Model,
	})
}

// EmbeddingConfig defines the configuration for creating an embedding model.
type EmbeddingConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewEmbeddingModel creates an OpenAI-compatible embedding model. The same
// model must be used at ingestion and at query time for the similarity search
// to be meaningful.
func NewEmbeddingModel(ctx context.Context, config *EmbeddingConfig) (einoEmbedding.Embedder, error) {
	if config.Model == "" {
		return nil, fmt.Errorf("embedding model name is required in config")
	}

	baseURL := config.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	apiKey := config.APIKey
	if apiKey == "" {
		apiKey = defaultAPIKey
	}

	return openaiEmbed.NewEmbedder(ctx, &openaiEmbed.EmbeddingConfig{
		APIKey:  apiKey,
		BaseURL: baseURL,
		Model:   config.Model,
	})
}
