package ai

import (
	"context"

	"github.com/poiesic/ragengine/core"
)

// StructureRequest carries a document and its dataset's chunking parameters
// to the structuring service.
type StructureRequest struct {
	Content  []byte
	FileName string
	Chunking core.ChunkingConfig
}

// Structurer splits raw document content into page-aware text segments.
// Implementations must be thread-safe for concurrent use.
type Structurer interface {
	// Structure returns the ordered segments of a document.
	// Any error, transport or service-side, matches ErrStructuringFailed
	// and is treated as a per-document failure. Its text is stored on the
	// document, so it should carry the service's message without decoration.
	Structure(ctx context.Context, req StructureRequest) ([]core.Segment, error)
}

// Embedder generates vector embeddings from text.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// Embed returns the embedding of text computed by the given provider.
	// The provider is resolved per chunk, so one Embedder serves every
	// dataset. Errors are wrapped with ErrEmbeddingFailed.
	Embed(ctx context.Context, text string, provider core.EmbeddingProvider) ([]float32, error)
}
