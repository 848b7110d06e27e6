package ingestion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/poiesic/ragengine/ai"
	"github.com/poiesic/ragengine/core"
	"github.com/poiesic/ragengine/encryption"
	"github.com/poiesic/ragengine/storage"
)

// failurePrefix starts every failure message stored on a document.
const failurePrefix = "Not able to parse document "

// documentStage structures unprocessed documents into chunks.
type documentStage struct {
	documents  storage.DocumentRepository
	structurer ai.Structurer
	key        *encryption.Key
	metrics    *Metrics
	logger     *slog.Logger
}

var _ stage = (*documentStage)(nil)

// run processes a snapshot of the unprocessed documents in store order.
// Documents added while the stage runs wait for the next cycle.
func (s *documentStage) run(ctx context.Context, stats *CycleStats) error {
	docs, err := s.documents.UnprocessedDocuments(ctx)
	if err != nil {
		return fmt.Errorf("fetching unprocessed documents: %w", err)
	}
	if len(docs) > 0 {
		s.logger.Info("parsing documents", "count", len(docs))
	}

	for _, doc := range docs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.process(ctx, doc, stats); err != nil {
			return err
		}
	}
	return nil
}

func (s *documentStage) process(ctx context.Context, doc *core.Document, stats *CycleStats) error {
	logger := s.logger.With("document_id", doc.Id, "file", doc.FileName)

	dataset, err := s.documents.GetDataset(ctx, doc.DatasetId)
	if err != nil {
		return fmt.Errorf("fetching dataset %d for document %d: %w", doc.DatasetId, doc.Id, err)
	}

	segments, err := s.structurer.Structure(ctx, ai.StructureRequest{
		Content:  doc.Content,
		FileName: doc.FileName,
		Chunking: dataset.Chunking,
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return s.fail(ctx, logger, doc, failurePrefix+err.Error(), stats)
	}

	err = s.documents.WithDocumentTx(ctx, doc.Id, s.key, func(ctx context.Context, w storage.ChunkWriter) error {
		for _, seg := range segments {
			if _, err := w.InsertChunk(ctx, seg.Page(), seg.Text); err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, storage.ErrDocumentTooLarge) {
		return s.fail(ctx, logger, doc, failurePrefix+storage.ErrDocumentTooLarge.Error(), stats)
	}
	if err != nil {
		return fmt.Errorf("committing chunks of document %d: %w", doc.Id, err)
	}

	logger.Info("document chunked", "chunks", len(segments))
	stats.DocumentsChunked++
	stats.ChunksCreated += len(segments)
	s.metrics.documentChunked()
	return nil
}

// fail marks doc terminally failed so the stage can move past it.
func (s *documentStage) fail(ctx context.Context, logger *slog.Logger, doc *core.Document,
	reason string, stats *CycleStats) error {
	if err := s.documents.FailDocument(ctx, doc.Id, reason); err != nil {
		return fmt.Errorf("recording failure of document %d: %w", doc.Id, err)
	}
	logger.Error("document failed", "reason", reason)
	stats.DocumentsFailed++
	s.metrics.documentFailed()
	return nil
}
