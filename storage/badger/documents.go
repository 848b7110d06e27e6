package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ragengine/core"
	"github.com/poiesic/ragengine/encryption"
	"github.com/poiesic/ragengine/storage"
)

// UnprocessedDocuments returns the documents indexed as pending, by ID.
func (s *Store) UnprocessedDocuments(ctx context.Context) ([]*core.Document, error) {
	var docs []*core.Document
	err := s.backend.View(func(tx *badger.Txn) error {
		for _, id := range scanIDs(tx, []byte(pendingDocumentPrefix)) {
			doc, err := readDocument(tx, core.ID(id))
			if err != nil {
				return fmt.Errorf("reading document %d: %w", id, err)
			}
			docs = append(docs, doc)
		}
		return nil
	})
	return docs, err
}

// GetDataset retrieves a dataset by ID.
func (s *Store) GetDataset(ctx context.Context, id core.ID) (*core.Dataset, error) {
	var ds *core.Dataset
	err := s.backend.View(func(tx *badger.Txn) error {
		var err error
		ds, err = readDataset(tx, id)
		return err
	})
	return ds, err
}

// FailDocument records a failure reason and removes the document from the
// pending index.
func (s *Store) FailDocument(ctx context.Context, id core.ID, reason string) error {
	return s.backend.Update(func(tx *badger.Txn) error {
		doc, err := readDocument(tx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		doc.FailureReason = reason
		if err := tx.Set(makeKey(documentPrefix, id), storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Delete(makeKey(pendingDocumentPrefix, id))
	})
}

// chunkWriter inserts chunks into an open document transaction.
type chunkWriter struct {
	store      *Store
	tx         *badger.Txn
	documentID core.ID
	sealer     encryption.Sealer
	now        time.Time
}

var _ storage.ChunkWriter = (*chunkWriter)(nil)

func (w *chunkWriter) InsertChunk(ctx context.Context, pageNumber int32, text string) (core.ID, error) {
	sealed, err := w.sealer.Seal(text)
	if err != nil {
		return 0, fmt.Errorf("sealing chunk text: %w", err)
	}
	id, err := nextID(w.store.chunkID)
	if err != nil {
		return 0, err
	}
	chunk := &core.Chunk{
		Id:         id,
		DocumentId: w.documentID,
		PageNumber: pageNumber,
		Text:       sealed,
		InsertedAt: w.now,
		UpdatedAt:  w.now,
	}
	if err := w.tx.Set(makeKey(chunkPrefix, id), storage.MarshalChunk(chunk)); err != nil {
		return 0, err
	}
	if err := w.tx.Set(makeKey(pendingChunkPrefix, id), nil); err != nil {
		return 0, err
	}
	if err := w.tx.Set(makeDocumentChunkKey(w.documentID, id), nil); err != nil {
		return 0, err
	}
	return id, nil
}

// WithDocumentTx runs fn in a single BadgerDB transaction. Chunks, the
// processed stamp and the pending-index removal commit together or not at all.
// A transaction that outgrows badger's batch limit rolls back with
// storage.ErrDocumentTooLarge.
func (s *Store) WithDocumentTx(ctx context.Context, documentID core.ID, key *encryption.Key,
	fn func(ctx context.Context, w storage.ChunkWriter) error) error {
	var sealer encryption.Sealer = encryption.Plaintext{}
	if key != nil {
		session, err := key.Activate()
		if err != nil {
			return fmt.Errorf("activating encryption key: %w", err)
		}
		defer session.Release()
		sealer = session
	}

	err := s.backend.Update(func(tx *badger.Txn) error {
		doc, err := readDocument(tx, documentID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		w := &chunkWriter{store: s, tx: tx, documentID: documentID, sealer: sealer, now: now}
		if err := fn(ctx, w); err != nil {
			return err
		}

		doc.ProcessedAt = now
		if err := tx.Set(makeKey(documentPrefix, documentID), storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Delete(makeKey(pendingDocumentPrefix, documentID))
	})
	if errors.Is(err, badger.ErrTxnTooBig) {
		return fmt.Errorf("%w: document %d: %w", storage.ErrDocumentTooLarge, documentID, err)
	}
	return err
}
