package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/poiesic/ragengine/core"
	"github.com/poiesic/ragengine/encryption"
	"github.com/poiesic/ragengine/storage"
)

var documentColumns = []string{
	"id", "dataset_id", "file_name", "content", "failure_reason", "processed_at", "inserted_at",
}

type documentRow struct {
	Id            int32      `db:"id"`
	DatasetId     int32      `db:"dataset_id"`
	FileName      string     `db:"file_name"`
	Content       []byte     `db:"content"`
	FailureReason *string    `db:"failure_reason"`
	ProcessedAt   *time.Time `db:"processed_at"`
	InsertedAt    time.Time  `db:"inserted_at"`
}

func (r *documentRow) toDocument() *core.Document {
	doc := &core.Document{
		Id:         core.ID(r.Id),
		DatasetId:  core.ID(r.DatasetId),
		FileName:   r.FileName,
		Content:    r.Content,
		InsertedAt: r.InsertedAt,
	}
	if r.FailureReason != nil {
		doc.FailureReason = *r.FailureReason
	}
	if r.ProcessedAt != nil {
		doc.ProcessedAt = *r.ProcessedAt
	}
	return doc
}

var datasetColumns = []string{
	"id", "name", "embedding_provider_id", "combine_under_n_chars", "new_after_n_chars",
	"multipage_sections", "inserted_at",
}

type datasetRow struct {
	Id                  int32     `db:"id"`
	Name                string    `db:"name"`
	EmbeddingProviderId int32     `db:"embedding_provider_id"`
	CombineUnderNChars  int32     `db:"combine_under_n_chars"`
	NewAfterNChars      int32     `db:"new_after_n_chars"`
	MultipageSections   bool      `db:"multipage_sections"`
	InsertedAt          time.Time `db:"inserted_at"`
}

func (r *datasetRow) toDataset() *core.Dataset {
	return &core.Dataset{
		Id:   core.ID(r.Id),
		Name: r.Name,
		Chunking: core.ChunkingConfig{
			CombineUnderNChars: r.CombineUnderNChars,
			NewAfterNChars:     r.NewAfterNChars,
			MultipageSections:  r.MultipageSections,
		},
		EmbeddingProviderId: core.ID(r.EmbeddingProviderId),
		InsertedAt:          r.InsertedAt,
	}
}

// UnprocessedDocuments returns documents with neither a failure reason nor a
// processed stamp, ordered by ID.
func (s *Store) UnprocessedDocuments(ctx context.Context) ([]*core.Document, error) {
	query, args, err := psql.Select(documentColumns...).
		From("documents").
		Where("failure_reason IS NULL AND processed_at IS NULL").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []*documentRow
	if err := pgxscan.Select(ctx, s.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("selecting unprocessed documents: %w", err)
	}
	docs := make([]*core.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, row.toDocument())
	}
	return docs, nil
}

// GetDataset retrieves a dataset by ID.
func (s *Store) GetDataset(ctx context.Context, id core.ID) (*core.Dataset, error) {
	query, args, err := psql.Select(datasetColumns...).
		From("datasets").
		Where("id = ?", int32(id)).
		ToSql()
	if err != nil {
		return nil, err
	}
	var row datasetRow
	if err := pgxscan.Get(ctx, s.db, &row, query, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("selecting dataset %d: %w", id, err)
	}
	return row.toDataset(), nil
}

// FailDocument stores reason as the document's failure marker.
func (s *Store) FailDocument(ctx context.Context, id core.ID, reason string) error {
	query, args, err := psql.Update("documents").
		Set("failure_reason", reason).
		Where("id = ?", int32(id)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := s.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failing document %d: %w", id, err)
	}
	return nil
}

// chunkWriter inserts chunk rows through an open transaction.
type chunkWriter struct {
	tx         pgx.Tx
	documentID core.ID
	sealer     encryption.Sealer
}

var _ storage.ChunkWriter = (*chunkWriter)(nil)

func (w *chunkWriter) InsertChunk(ctx context.Context, pageNumber int32, text string) (core.ID, error) {
	sealed, err := w.sealer.Seal(text)
	if err != nil {
		return 0, fmt.Errorf("sealing chunk text: %w", err)
	}
	query, args, err := psql.Insert("chunks").
		Columns("document_id", "page_number", "text").
		Values(int32(w.documentID), pageNumber, sealed).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, err
	}
	var id int32
	if err := w.tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("inserting chunk: %w", err)
	}
	return core.ID(id), nil
}

// WithDocumentTx runs fn inside one transaction. The chunk inserts and the
// processed stamp commit together.
func (s *Store) WithDocumentTx(ctx context.Context, documentID core.ID, key *encryption.Key,
	fn func(ctx context.Context, w storage.ChunkWriter) error) (err error) {
	var sealer encryption.Sealer = encryption.Plaintext{}
	if key != nil {
		session, activateErr := key.Activate()
		if activateErr != nil {
			return fmt.Errorf("activating encryption key: %w", activateErr)
		}
		defer session.Release()
		sealer = session
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: begin: %w", storage.ErrTransactionFailed, err)
	}
	defer func() {
		if p := recover(); p != nil {
			s.rollback(ctx, tx)
			panic(p)
		}
		if err != nil {
			s.rollback(ctx, tx)
			return
		}
		if commitErr := tx.Commit(ctx); commitErr != nil {
			err = fmt.Errorf("%w: commit: %w", storage.ErrTransactionFailed, commitErr)
		}
	}()

	if err = fn(ctx, &chunkWriter{tx: tx, documentID: documentID, sealer: sealer}); err != nil {
		return err
	}

	query, args, err := psql.Update("documents").
		Set("processed_at", squirrel.Expr("now()")).
		Where("id = ?", int32(documentID)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err = tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("stamping document %d processed: %w", documentID, err)
	}
	return nil
}

func (s *Store) rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil {
		s.logger.Error("failed to roll back transaction", "err", err)
	}
}
