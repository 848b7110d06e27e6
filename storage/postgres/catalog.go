package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/poiesic/ragengine/core"
	"github.com/poiesic/ragengine/storage"
)

// AddEmbeddingProvider inserts a provider row.
func (s *Store) AddEmbeddingProvider(ctx context.Context, provider *core.EmbeddingProvider) (*core.EmbeddingProvider, error) {
	if err := core.ValidateProvider(*provider); err != nil {
		return nil, err
	}
	query, args, err := psql.Insert("embedding_providers").
		Columns("name", "base_url", "model", "api_key").
		Values(provider.Name, provider.BaseURL, provider.Model, provider.APIKey).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var id int32
	if err := s.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return nil, fmt.Errorf("inserting embedding provider: %w", mapError(err))
	}
	stored := *provider
	stored.Id = core.ID(id)
	return &stored, nil
}

// AddDataset inserts a dataset row.
func (s *Store) AddDataset(ctx context.Context, dataset *core.Dataset) (*core.Dataset, error) {
	if err := core.ValidateDataset(dataset); err != nil {
		return nil, err
	}
	query, args, err := psql.Insert("datasets").
		Columns("name", "embedding_provider_id", "combine_under_n_chars", "new_after_n_chars", "multipage_sections").
		Values(dataset.Name, int32(dataset.EmbeddingProviderId), dataset.Chunking.CombineUnderNChars,
			dataset.Chunking.NewAfterNChars, dataset.Chunking.MultipageSections).
		Suffix("RETURNING id, inserted_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	var id int32
	var insertedAt time.Time
	if err := s.db.QueryRow(ctx, query, args...).Scan(&id, &insertedAt); err != nil {
		return nil, fmt.Errorf("inserting dataset: %w", mapError(err))
	}
	stored := *dataset
	stored.Id = core.ID(id)
	stored.InsertedAt = insertedAt
	return &stored, nil
}

// AddDocument inserts an unprocessed document row.
func (s *Store) AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}
	query, args, err := psql.Insert("documents").
		Columns("dataset_id", "file_name", "content").
		Values(int32(doc.DatasetId), doc.FileName, doc.Content).
		Suffix("RETURNING id, inserted_at").
		ToSql()
	if err != nil {
		return nil, err
	}
	var id int32
	var insertedAt time.Time
	if err := s.db.QueryRow(ctx, query, args...).Scan(&id, &insertedAt); err != nil {
		return nil, fmt.Errorf("inserting document: %w", mapError(err))
	}
	stored := *doc
	stored.Id = core.ID(id)
	stored.FailureReason = ""
	stored.ProcessedAt = time.Time{}
	stored.InsertedAt = insertedAt
	return &stored, nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	query, args, err := psql.Select(documentColumns...).
		From("documents").
		Where("id = ?", int32(id)).
		ToSql()
	if err != nil {
		return nil, err
	}
	var row documentRow
	if err := pgxscan.Get(ctx, s.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("selecting document %d: %w", id, err)
	}
	return row.toDocument(), nil
}

const backlogQuery = `
SELECT
    (SELECT COUNT(*) FROM documents WHERE failure_reason IS NULL AND processed_at IS NULL) AS pending_documents,
    (SELECT COUNT(*) FROM documents WHERE failure_reason IS NOT NULL) AS failed_documents,
    (SELECT COUNT(*) FROM documents WHERE failure_reason IS NULL AND processed_at IS NOT NULL) AS processed_documents,
    (SELECT COUNT(*) FROM chunks WHERE processed = FALSE) AS pending_chunks,
    (SELECT COUNT(*) FROM chunks WHERE processed = TRUE AND embeddings IS NOT NULL) AS embedded_chunks,
    (SELECT COUNT(*) FROM chunks WHERE processed = TRUE AND embeddings IS NULL) AS skipped_chunks`

type backlogRow struct {
	PendingDocuments   int64 `db:"pending_documents"`
	FailedDocuments    int64 `db:"failed_documents"`
	ProcessedDocuments int64 `db:"processed_documents"`
	PendingChunks      int64 `db:"pending_chunks"`
	EmbeddedChunks     int64 `db:"embedded_chunks"`
	SkippedChunks      int64 `db:"skipped_chunks"`
}

// Backlog counts documents and chunks by state.
func (s *Store) Backlog(ctx context.Context) (core.Backlog, error) {
	var row backlogRow
	if err := pgxscan.Get(ctx, s.db, &row, backlogQuery); err != nil {
		return core.Backlog{}, fmt.Errorf("counting backlog: %w", err)
	}
	return core.Backlog{
		PendingDocuments:   int(row.PendingDocuments),
		FailedDocuments:    int(row.FailedDocuments),
		ProcessedDocuments: int(row.ProcessedDocuments),
		PendingChunks:      int(row.PendingChunks),
		EmbeddedChunks:     int(row.EmbeddedChunks),
		SkippedChunks:      int(row.SkippedChunks),
	}, nil
}

// RequeueDocuments clears failure markers, optionally within one dataset.
func (s *Store) RequeueDocuments(ctx context.Context, datasetID core.ID) (int, error) {
	builder := psql.Update("documents").
		Set("failure_reason", nil).
		Where("failure_reason IS NOT NULL")
	if datasetID != 0 {
		builder = builder.Where("dataset_id = ?", int32(datasetID))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("requeueing documents: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// RequeueChunks resets processed chunks that carry no embedding, optionally
// within one dataset.
func (s *Store) RequeueChunks(ctx context.Context, datasetID core.ID) (int, error) {
	builder := psql.Update("chunks").
		Set("processed", false).
		Set("updated_at", squirrel.Expr("now()")).
		Where("processed = TRUE AND embeddings IS NULL")
	if datasetID != 0 {
		builder = builder.Where("document_id IN (SELECT id FROM documents WHERE dataset_id = ?)", int32(datasetID))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	tag, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("requeueing chunks: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
