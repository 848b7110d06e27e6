package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/poiesic/ragengine/ai"
	"github.com/poiesic/ragengine/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

func newEmbeddingServer(t *testing.T, vector []float32, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path != "/v1/embeddings" {
			http.NotFound(w, r)
			return
		}
		var req embeddingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		data := make([]map[string]any, 0, len(req.Input))
		for i := range req.Input {
			data = append(data, map[string]any{"object": "embedding", "index": i, "embedding": vector})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  req.Model,
			"data":   data,
			"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEmbedderEmbed(t *testing.T) {
	var hits atomic.Int32
	srv := newEmbeddingServer(t, []float32{0.1, 0.2, 0.3}, &hits)

	embedder, err := NewEmbedder(ai.DefaultConfig())
	require.NoError(t, err)

	provider := core.EmbeddingProvider{Name: "test", BaseURL: srv.URL + "/v1", Model: "test-embed"}
	vector, err := embedder.Embed(context.Background(), "foo", provider)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vector)
	assert.Equal(t, int32(1), hits.Load())
}

func TestEmbedderCachesClientsPerProvider(t *testing.T) {
	var hits atomic.Int32
	srv := newEmbeddingServer(t, []float32{1, 2}, &hits)

	embedder, err := newEmbedder(ai.NewConfig(ai.WithEmbeddingCacheSize(1)))
	require.NoError(t, err)

	a := core.EmbeddingProvider{BaseURL: srv.URL + "/v1", Model: "a"}
	b := core.EmbeddingProvider{BaseURL: srv.URL + "/v1", Model: "b"}

	_, err = embedder.Embed(context.Background(), "x", a)
	require.NoError(t, err)
	_, err = embedder.Embed(context.Background(), "y", a)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.clients.Len())

	_, err = embedder.Embed(context.Background(), "z", b)
	require.NoError(t, err)
	assert.Equal(t, 1, embedder.clients.Len())
	assert.True(t, embedder.clients.Contains(clientKey{baseURL: b.BaseURL, model: "b"}))
}

func TestEmbedderErrors(t *testing.T) {
	t.Run("invalid provider", func(t *testing.T) {
		embedder, err := NewEmbedder(ai.DefaultConfig())
		require.NoError(t, err)

		_, err = embedder.Embed(context.Background(), "foo", core.EmbeddingProvider{Model: "m"})
		assert.ErrorIs(t, err, ai.ErrEmbeddingFailed)
		assert.ErrorIs(t, err, core.ErrInvalidProvider)
	})

	t.Run("service error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":{"message":"model not found"}}`, http.StatusNotFound)
		}))
		defer srv.Close()

		embedder, err := NewEmbedder(ai.DefaultConfig())
		require.NoError(t, err)

		_, err = embedder.Embed(context.Background(), "foo", core.EmbeddingProvider{BaseURL: srv.URL, Model: "missing"})
		assert.ErrorIs(t, err, ai.ErrEmbeddingFailed)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewEmbedder(ai.NewConfig(ai.WithEmbeddingCacheSize(0)))
		assert.Error(t, err)
	})
}
