package openai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/poiesic/ragengine/ai"
	"github.com/poiesic/ragengine/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
)

// noToken is sent to local OpenAI-compatible services that don't require
// authentication.
const noToken = "none"

// clientKey identifies a provider configuration.
type clientKey struct {
	baseURL string
	model   string
	apiKey  string
}

// Embedder implements ai.Embedder using OpenAI-compatible embedding APIs.
type Embedder struct {
	clients *lru.Cache[clientKey, embeddings.Embedder]
	timeout time.Duration
	logger  *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// newEmbedder is an internal constructor that returns the concrete type.
func newEmbedder(config *ai.Config) (*Embedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	clients, err := lru.New[clientKey, embeddings.Embedder](config.EmbeddingCacheSize)
	if err != nil {
		return nil, err
	}

	return &Embedder{
		clients: clients,
		timeout: config.EmbeddingTimeout,
		logger:  slog.Default().With("component", "openai-embedder"),
	}, nil
}

// NewEmbedder creates a new embedder using the provided configuration.
//
// Returns ai.Embedder interface to enforce abstraction.
func NewEmbedder(config *ai.Config) (ai.Embedder, error) {
	return newEmbedder(config)
}

// client returns the cached langchaingo embedder for a provider, creating it
// on first use.
func (e *Embedder) client(provider core.EmbeddingProvider) (embeddings.Embedder, error) {
	key := clientKey{baseURL: provider.BaseURL, model: provider.Model, apiKey: provider.APIKey}
	if client, ok := e.clients.Get(key); ok {
		return client, nil
	}

	token := provider.APIKey
	if token == "" {
		token = noToken
	}
	llm, err := openai.New(
		openai.WithBaseURL(provider.BaseURL),
		openai.WithToken(token),
		openai.WithEmbeddingModel(provider.Model),
	)
	if err != nil {
		return nil, err
	}

	client, err := embeddings.NewEmbedder(llm, embeddings.WithStripNewLines(true))
	if err != nil {
		return nil, err
	}
	e.clients.Add(key, client)
	return client, nil
}

// Embed generates the embedding of text with the given provider.
func (e *Embedder) Embed(ctx context.Context, text string, provider core.EmbeddingProvider) ([]float32, error) {
	if err := core.ValidateProvider(provider); err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrEmbeddingFailed, err)
	}

	client, err := e.client(provider)
	if err != nil {
		return nil, fmt.Errorf("%w: creating client: %w", ai.ErrEmbeddingFailed, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Debug("generating embedding", "provider", provider.Name, "model", provider.Model, "length", len(text))
	vectors, err := client.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ai.ErrEmbeddingFailed, err)
	}
	if len(vectors) == 0 || len(vectors[0]) == 0 {
		return nil, fmt.Errorf("%w: %w", ai.ErrEmbeddingFailed, ai.ErrEmptyEmbedding)
	}
	return vectors[0], nil
}
