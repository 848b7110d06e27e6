package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/pgvector/pgvector-go"
	"github.com/poiesic/ragengine/core"
	"github.com/poiesic/ragengine/encryption"
	"github.com/poiesic/ragengine/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestStore_UnprocessedDocuments(t *testing.T) {
	t.Run("Should select pending documents ordered by id", func(t *testing.T) {
		store, mock := newMockStore(t)
		now := time.Now().UTC()
		rows := mock.NewRows(documentColumns).
			AddRow(int32(1), int32(5), "a.pdf", []byte("A"), (*string)(nil), (*time.Time)(nil), now).
			AddRow(int32(2), int32(5), "b.pdf", []byte("B"), (*string)(nil), (*time.Time)(nil), now)
		mock.ExpectQuery(`SELECT (.+) FROM documents WHERE failure_reason IS NULL AND processed_at IS NULL ORDER BY id`).
			WillReturnRows(rows)

		docs, err := store.UnprocessedDocuments(context.Background())
		require.NoError(t, err)
		require.Len(t, docs, 2)
		assert.Equal(t, core.ID(1), docs[0].Id)
		assert.Equal(t, core.ID(5), docs[0].DatasetId)
		assert.Equal(t, "b.pdf", docs[1].FileName)
		assert.True(t, docs[1].Pending())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should propagate query errors", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT (.+) FROM documents`).WillReturnError(errors.New("connection reset"))

		_, err := store.UnprocessedDocuments(context.Background())
		assert.ErrorContains(t, err, "connection reset")
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_GetDataset(t *testing.T) {
	t.Run("Should map chunking columns", func(t *testing.T) {
		store, mock := newMockStore(t)
		rows := mock.NewRows(datasetColumns).
			AddRow(int32(5), "manuals", int32(2), int32(500), int32(1500), true, time.Now().UTC())
		mock.ExpectQuery(`SELECT (.+) FROM datasets WHERE id = \$1`).
			WithArgs(int32(5)).
			WillReturnRows(rows)

		ds, err := store.GetDataset(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, core.ChunkingConfig{CombineUnderNChars: 500, NewAfterNChars: 1500, MultipageSections: true}, ds.Chunking)
		assert.Equal(t, core.ID(2), ds.EmbeddingProviderId)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should return ErrNotFound for a missing dataset", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`SELECT (.+) FROM datasets WHERE id = \$1`).
			WithArgs(int32(9)).
			WillReturnRows(mock.NewRows(datasetColumns))

		_, err := store.GetDataset(context.Background(), 9)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_FailDocument(t *testing.T) {
	t.Run("Should store the failure reason outside any transaction", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE documents SET failure_reason = \$1 WHERE id = \$2`).
			WithArgs("Not able to parse document timeout", int32(3)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := store.FailDocument(context.Background(), 3, "Not able to parse document timeout")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_WithDocumentTx(t *testing.T) {
	t.Run("Should insert chunks and stamp the document in one transaction", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO chunks \(document_id,page_number,text\) VALUES \(\$1,\$2,\$3\) RETURNING id`).
			WithArgs(int32(7), int32(1), "Hello").
			WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int32(11)))
		mock.ExpectQuery(`INSERT INTO chunks`).
			WithArgs(int32(7), int32(0), "world").
			WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int32(12)))
		mock.ExpectExec(`UPDATE documents SET processed_at = now\(\) WHERE id = \$1`).
			WithArgs(int32(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		var ids []core.ID
		err := store.WithDocumentTx(context.Background(), 7, nil, func(ctx context.Context, w storage.ChunkWriter) error {
			for _, seg := range []struct {
				page int32
				text string
			}{{1, "Hello"}, {0, "world"}} {
				id, err := w.InsertChunk(ctx, seg.page, seg.text)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, []core.ID{11, 12}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should roll back when an insert fails", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO chunks`).
			WithArgs(int32(7), int32(1), "Hello").
			WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int32(11)))
		mock.ExpectQuery(`INSERT INTO chunks`).
			WithArgs(int32(7), int32(2), "boom").
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		err := store.WithDocumentTx(context.Background(), 7, nil, func(ctx context.Context, w storage.ChunkWriter) error {
			if _, err := w.InsertChunk(ctx, 1, "Hello"); err != nil {
				return err
			}
			_, err := w.InsertChunk(ctx, 2, "boom")
			return err
		})
		assert.ErrorContains(t, err, "disk full")
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should wrap begin failures as transaction failures", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

		called := false
		err := store.WithDocumentTx(context.Background(), 7, nil, func(context.Context, storage.ChunkWriter) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, storage.ErrTransactionFailed)
		assert.False(t, called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should wrap commit failures as transaction failures", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE documents SET processed_at`).
			WithArgs(int32(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

		err := store.WithDocumentTx(context.Background(), 7, nil, func(context.Context, storage.ChunkWriter) error {
			return nil
		})
		assert.ErrorIs(t, err, storage.ErrTransactionFailed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should seal chunk text when a key is supplied", func(t *testing.T) {
		store, mock := newMockStore(t)
		key, err := encryption.ParseKey("tenant-key")
		require.NoError(t, err)

		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO chunks`).
			WithArgs(int32(7), int32(0), pgxmock.AnyArg()).
			WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int32(1)))
		mock.ExpectExec(`UPDATE documents SET processed_at`).
			WithArgs(int32(7)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectCommit()

		err = store.WithDocumentTx(context.Background(), 7, key, func(ctx context.Context, w storage.ChunkWriter) error {
			_, err := w.InsertChunk(ctx, 0, "secret")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_UnprocessedChunks(t *testing.T) {
	t.Run("Should join each chunk with its provider", func(t *testing.T) {
		store, mock := newMockStore(t)
		rows := mock.NewRows([]string{"id", "text", "provider_id", "provider_name", "base_url", "model", "api_key"}).
			AddRow(int32(4), "foo", int32(1), "openai", "https://api.openai.com/v1", "text-embedding-3-small", "sk-test")
		mock.ExpectQuery(`SELECT c.id, c.text, (.+) FROM chunks c JOIN documents d (.+) WHERE c.processed = FALSE ORDER BY c.id`).
			WillReturnRows(rows)

		pending, err := store.UnprocessedChunks(context.Background())
		require.NoError(t, err)
		require.Len(t, pending, 1)
		assert.Equal(t, core.ID(4), pending[0].Id)
		assert.Equal(t, "foo", pending[0].Text)
		assert.Equal(t, core.EmbeddingProvider{
			Id:      1,
			Name:    "openai",
			BaseURL: "https://api.openai.com/v1",
			Model:   "text-embedding-3-small",
			APIKey:  "sk-test",
		}, pending[0].Provider)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_CompleteAndSkipChunk(t *testing.T) {
	t.Run("Should set processed and embeddings together", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE chunks SET processed = \$1, embeddings = \$2, updated_at = now\(\) WHERE id = \$3`).
			WithArgs(true, pgxmock.AnyArg(), int32(4)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := store.CompleteChunk(context.Background(), 4, []float32{0.1, 0.2, 0.3})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should set processed without embeddings", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE chunks SET processed = \$1, updated_at = now\(\) WHERE id = \$2`).
			WithArgs(true, int32(4)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := store.SkipChunk(context.Background(), 4)
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_GetChunks(t *testing.T) {
	t.Run("Should decode embeddings when present", func(t *testing.T) {
		store, mock := newMockStore(t)
		now := time.Now().UTC()
		vec := pgvector.NewVector([]float32{0.1, 0.2, 0.3})
		rows := mock.NewRows(chunkColumns).
			AddRow(int32(1), int32(7), int32(1), "Hello", true, &vec, now, now).
			AddRow(int32(2), int32(7), int32(0), "world", true, (*pgvector.Vector)(nil), now, now)
		mock.ExpectQuery(`SELECT (.+) FROM chunks WHERE document_id = \$1 ORDER BY id`).
			WithArgs(int32(7)).
			WillReturnRows(rows)

		chunks, err := store.GetChunks(context.Background(), 7)
		require.NoError(t, err)
		require.Len(t, chunks, 2)
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, chunks[0].Vector)
		assert.True(t, chunks[0].Embedded())
		assert.False(t, chunks[1].Embedded())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStore_Catalog(t *testing.T) {
	t.Run("Should map foreign key violations to ErrNotFound", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`INSERT INTO documents \(dataset_id,file_name,content\) VALUES \(\$1,\$2,\$3\) RETURNING id, inserted_at`).
			WithArgs(int32(99), "a.pdf", []byte("A")).
			WillReturnError(&pgconn.PgError{Code: pgerrcode.ForeignKeyViolation, ConstraintName: "documents_dataset_id_fkey"})

		_, err := store.AddDocument(context.Background(), &core.Document{DatasetId: 99, FileName: "a.pdf", Content: []byte("A")})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should return the assigned provider id", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectQuery(`INSERT INTO embedding_providers`).
			WithArgs("local", "http://localhost:8080/v1", "bge-small", "").
			WillReturnRows(mock.NewRows([]string{"id"}).AddRow(int32(3)))

		p, err := store.AddEmbeddingProvider(context.Background(), &core.EmbeddingProvider{
			Name: "local", BaseURL: "http://localhost:8080/v1", Model: "bge-small",
		})
		require.NoError(t, err)
		assert.Equal(t, core.ID(3), p.Id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should count the backlog", func(t *testing.T) {
		store, mock := newMockStore(t)
		rows := mock.NewRows([]string{
			"pending_documents", "failed_documents", "processed_documents",
			"pending_chunks", "embedded_chunks", "skipped_chunks",
		}).AddRow(int64(2), int64(1), int64(3), int64(4), int64(5), int64(6))
		mock.ExpectQuery(`SELECT (.+) AS pending_documents`).WillReturnRows(rows)

		b, err := store.Backlog(context.Background())
		require.NoError(t, err)
		assert.Equal(t, core.Backlog{
			PendingDocuments: 2, FailedDocuments: 1, ProcessedDocuments: 3,
			PendingChunks: 4, EmbeddedChunks: 5, SkippedChunks: 6,
		}, b)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should requeue failed documents of one dataset", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE documents SET failure_reason = \$1 WHERE failure_reason IS NOT NULL AND dataset_id = \$2`).
			WithArgs(nil, int32(5)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 2))

		n, err := store.RequeueDocuments(context.Background(), 5)
		require.NoError(t, err)
		assert.Equal(t, 2, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Should requeue skipped chunks everywhere", func(t *testing.T) {
		store, mock := newMockStore(t)
		mock.ExpectExec(`UPDATE chunks SET processed = \$1, updated_at = now\(\) WHERE processed = TRUE AND embeddings IS NULL`).
			WithArgs(false).
			WillReturnResult(pgxmock.NewResult("UPDATE", 4))

		n, err := store.RequeueChunks(context.Background(), 0)
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
