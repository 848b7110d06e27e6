package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/pgvector/pgvector-go"
	"github.com/poiesic/ragengine/core"
)

type pendingChunkRow struct {
	Id           int32  `db:"id"`
	Text         string `db:"text"`
	ProviderId   int32  `db:"provider_id"`
	ProviderName string `db:"provider_name"`
	BaseURL      string `db:"base_url"`
	Model        string `db:"model"`
	APIKey       string `db:"api_key"`
}

var chunkColumns = []string{
	"id", "document_id", "page_number", "text", "processed", "embeddings", "inserted_at", "updated_at",
}

type chunkRow struct {
	Id         int32            `db:"id"`
	DocumentId int32            `db:"document_id"`
	PageNumber int32            `db:"page_number"`
	Text       string           `db:"text"`
	Processed  bool             `db:"processed"`
	Embeddings *pgvector.Vector `db:"embeddings"`
	InsertedAt time.Time        `db:"inserted_at"`
	UpdatedAt  time.Time        `db:"updated_at"`
}

func (r *chunkRow) toChunk() *core.Chunk {
	c := &core.Chunk{
		Id:         core.ID(r.Id),
		DocumentId: core.ID(r.DocumentId),
		PageNumber: r.PageNumber,
		Text:       r.Text,
		Processed:  r.Processed,
		InsertedAt: r.InsertedAt,
		UpdatedAt:  r.UpdatedAt,
	}
	if r.Embeddings != nil {
		c.Vector = r.Embeddings.Slice()
	}
	return c
}

// UnprocessedChunks returns every chunk with processed=false joined with the
// embedding provider of its dataset, ordered by chunk ID.
func (s *Store) UnprocessedChunks(ctx context.Context) ([]*core.PendingChunk, error) {
	query, args, err := psql.Select(
		"c.id", "c.text",
		"p.id AS provider_id", "p.name AS provider_name", "p.base_url", "p.model", "p.api_key",
	).
		From("chunks c").
		Join("documents d ON d.id = c.document_id").
		Join("datasets ds ON ds.id = d.dataset_id").
		Join("embedding_providers p ON p.id = ds.embedding_provider_id").
		Where("c.processed = FALSE").
		OrderBy("c.id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []*pendingChunkRow
	if err := pgxscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("selecting unprocessed chunks: %w", err)
	}
	pending := make([]*core.PendingChunk, 0, len(rows))
	for _, row := range rows {
		pending = append(pending, &core.PendingChunk{
			Id:   core.ID(row.Id),
			Text: row.Text,
			Provider: core.EmbeddingProvider{
				Id:      core.ID(row.ProviderId),
				Name:    row.ProviderName,
				BaseURL: row.BaseURL,
				Model:   row.Model,
				APIKey:  row.APIKey,
			},
		})
	}
	return pending, nil
}

// CompleteChunk sets processed and the embedding in a single statement.
func (s *Store) CompleteChunk(ctx context.Context, id core.ID, vector []float32) error {
	query, args, err := psql.Update("chunks").
		Set("processed", true).
		Set("embeddings", pgvector.NewVector(vector)).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", int32(id)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("completing chunk %d: %w", id, err)
	}
	return nil
}

// SkipChunk sets processed without an embedding.
func (s *Store) SkipChunk(ctx context.Context, id core.ID) error {
	query, args, err := psql.Update("chunks").
		Set("processed", true).
		Set("updated_at", squirrel.Expr("now()")).
		Where("id = ?", int32(id)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("skipping chunk %d: %w", id, err)
	}
	return nil
}

// GetChunks returns a document's chunks ordered by ID.
func (s *Store) GetChunks(ctx context.Context, documentID core.ID) ([]*core.Chunk, error) {
	query, args, err := psql.Select(chunkColumns...).
		From("chunks").
		Where("document_id = ?", int32(documentID)).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []*chunkRow
	if err := pgxscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("selecting chunks of document %d: %w", documentID, err)
	}
	chunks := make([]*core.Chunk, 0, len(rows))
	for _, row := range rows {
		chunks = append(chunks, row.toChunk())
	}
	return chunks, nil
}
