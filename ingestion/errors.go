package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrStructurerRequired is returned when a structuring client is not provided.
	ErrStructurerRequired = errors.New("structurer required")

	// ErrEmbedderRequired is returned when an embedding client is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrPipelineRequired is returned when a scheduler is built without a pipeline.
	ErrPipelineRequired = errors.New("pipeline required")

	// ErrInvalidInterval is returned for a non-positive scheduler interval.
	ErrInvalidInterval = errors.New("interval must be positive")

	// ErrNegativeDimensions is returned for a negative embedding width.
	ErrNegativeDimensions = errors.New("dimensions must not be negative")
)
