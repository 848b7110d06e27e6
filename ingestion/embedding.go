package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/ragengine/ai"
	"github.com/poiesic/ragengine/core"
	"github.com/poiesic/ragengine/encryption"
	"github.com/poiesic/ragengine/storage"
)

// chunkStage embeds unprocessed chunks one at a time.
type chunkStage struct {
	chunks     storage.ChunkRepository
	embedder   ai.Embedder
	key        *encryption.Key
	dimensions int
	metrics    *Metrics
	logger     *slog.Logger
}

var _ stage = (*chunkStage)(nil)

// run re-reads the unprocessed set before every step and handles its first
// chunk, until the set is empty.
func (s *chunkStage) run(ctx context.Context, stats *CycleStats) error {
	var session *encryption.Session
	if s.key != nil {
		var err error
		if session, err = s.key.Activate(); err != nil {
			return fmt.Errorf("activating encryption key: %w", err)
		}
		defer session.Release()
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pending, err := s.chunks.UnprocessedChunks(ctx)
		if err != nil {
			return fmt.Errorf("fetching unprocessed chunks: %w", err)
		}
		if len(pending) == 0 {
			return nil
		}
		if err := s.step(ctx, pending[0], session, stats); err != nil {
			return err
		}
	}
}

// step embeds one chunk. Every outcome other than a store error or
// cancellation marks the chunk processed.
func (s *chunkStage) step(ctx context.Context, chunk *core.PendingChunk, session *encryption.Session, stats *CycleStats) error {
	logger := s.logger.With("chunk_id", chunk.Id, "provider", chunk.Provider.Name)

	text, err := s.plaintext(chunk.Text, session)
	if err != nil {
		return s.skip(ctx, chunk.Id, logger, stats, err)
	}

	vector, err := s.embedder.Embed(ctx, text, chunk.Provider)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return s.skip(ctx, chunk.Id, logger, stats, err)
	}
	if err := core.ValidateVector(vector, s.dimensions); err != nil {
		return s.skip(ctx, chunk.Id, logger, stats, err)
	}

	if err := s.chunks.CompleteChunk(ctx, chunk.Id, vector); err != nil {
		return fmt.Errorf("storing embedding of chunk %d: %w", chunk.Id, err)
	}
	logger.Info("chunk embedded", "dimensions", len(vector))
	stats.ChunksEmbedded++
	s.metrics.chunkEmbedded()
	return nil
}

func (s *chunkStage) skip(ctx context.Context, id core.ID, logger *slog.Logger, stats *CycleStats, cause error) error {
	if err := s.chunks.SkipChunk(ctx, id); err != nil {
		return fmt.Errorf("skipping chunk %d: %w", id, err)
	}
	logger.Error("chunk skipped without embedding", "err", cause)
	stats.ChunksSkipped++
	s.metrics.chunkSkipped()
	return nil
}

// plaintext opens sealed chunk text. Unsealed text is returned as is.
func (s *chunkStage) plaintext(text string, session *encryption.Session) (string, error) {
	if !encryption.IsSealed(text) {
		return text, nil
	}
	if session == nil {
		return "", fmt.Errorf("chunk text is sealed and no encryption key is configured")
	}
	return session.Open(text)
}
