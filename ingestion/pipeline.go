package ingestion

import (
	"context"
	"log/slog"
	"time"

	"github.com/poiesic/ragengine/ai"
	"github.com/poiesic/ragengine/core"
	"github.com/poiesic/ragengine/encryption"
	"github.com/poiesic/ragengine/storage"
)

// BacklogReporter counts documents and chunks by state.
type BacklogReporter interface {
	Backlog(ctx context.Context) (core.Backlog, error)
}

// CycleStats summarizes one pipeline cycle.
type CycleStats struct {
	DocumentsChunked int
	DocumentsFailed  int
	ChunksCreated    int
	ChunksEmbedded   int
	ChunksSkipped    int
	Duration         time.Duration
}

// Idle reports whether the cycle found nothing to do.
func (s CycleStats) Idle() bool {
	return s.DocumentsChunked == 0 && s.DocumentsFailed == 0 &&
		s.ChunksEmbedded == 0 && s.ChunksSkipped == 0
}

// Pipeline runs the document stage followed by the chunk stage.
type Pipeline struct {
	documents  storage.DocumentRepository
	chunks     storage.ChunkRepository
	structurer ai.Structurer
	embedder   ai.Embedder
	key        *encryption.Key
	dimensions int
	metrics    *Metrics
	backlog    BacklogReporter
	logger     *slog.Logger
	stages     []stage
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithEncryptionKey seals chunk text on insert and opens it before embedding.
// A nil key stores plaintext.
func WithEncryptionKey(key *encryption.Key) Option {
	return func(p *Pipeline) error {
		p.key = key
		return nil
	}
}

// WithDimensions rejects embeddings whose width differs from n.
// Default is 0, which accepts any width.
func WithDimensions(n int) Option {
	return func(p *Pipeline) error {
		if n < 0 {
			return ErrNegativeDimensions
		}
		p.dimensions = n
		return nil
	}
}

// WithMetrics records stage outcomes and cycle durations.
func WithMetrics(m *Metrics) Option {
	return func(p *Pipeline) error {
		p.metrics = m
		return nil
	}
}

// WithBacklogReporter refreshes the backlog gauge after every cycle.
func WithBacklogReporter(r BacklogReporter) Option {
	return func(p *Pipeline) error {
		p.backlog = r
		return nil
	}
}

// NewPipeline creates a pipeline over the given repositories and clients.
func NewPipeline(
	documents storage.DocumentRepository,
	chunks storage.ChunkRepository,
	structurer ai.Structurer,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if structurer == nil {
		return nil, ErrStructurerRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	p := &Pipeline{
		documents:  documents,
		chunks:     chunks,
		structurer: structurer,
		embedder:   embedder,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	// Stages are built after options so they see the final configuration.
	p.stages = []stage{
		&documentStage{
			documents:  p.documents,
			structurer: p.structurer,
			key:        p.key,
			metrics:    p.metrics,
			logger:     p.logger.With("stage", "documents"),
		},
		&chunkStage{
			chunks:     p.chunks,
			embedder:   p.embedder,
			key:        p.key,
			dimensions: p.dimensions,
			metrics:    p.metrics,
			logger:     p.logger.With("stage", "chunks"),
		},
	}
	return p, nil
}

// RunCycle runs one full document pass and then embeds chunks until none
// remain unprocessed. A returned error is a store failure or cancellation;
// service failures are absorbed per document or per chunk.
func (p *Pipeline) RunCycle(ctx context.Context) (CycleStats, error) {
	var stats CycleStats
	start := time.Now()
	defer func() { p.metrics.observeCycle(time.Since(start).Seconds()) }()

	for _, s := range p.stages {
		if err := s.run(ctx, &stats); err != nil {
			stats.Duration = time.Since(start)
			return stats, err
		}
	}
	stats.Duration = time.Since(start)

	if p.backlog != nil && p.metrics != nil {
		b, err := p.backlog.Backlog(ctx)
		if err != nil {
			p.logger.Warn("failed to refresh backlog", "err", err)
		} else {
			p.metrics.observeBacklog(b)
		}
	}
	return stats, nil
}
