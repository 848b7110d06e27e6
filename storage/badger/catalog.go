package badger

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ragengine/core"
	"github.com/poiesic/ragengine/storage"
)

// AddEmbeddingProvider stores a provider and assigns its ID.
func (s *Store) AddEmbeddingProvider(ctx context.Context, provider *core.EmbeddingProvider) (*core.EmbeddingProvider, error) {
	if err := core.ValidateProvider(*provider); err != nil {
		return nil, err
	}
	id, err := nextID(s.providerID)
	if err != nil {
		return nil, err
	}
	stored := *provider
	stored.Id = id
	err = s.backend.Update(func(tx *badger.Txn) error {
		return tx.Set(makeKey(providerPrefix, id), storage.MarshalProvider(&stored))
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// AddDataset stores a dataset and assigns its ID.
func (s *Store) AddDataset(ctx context.Context, dataset *core.Dataset) (*core.Dataset, error) {
	if err := core.ValidateDataset(dataset); err != nil {
		return nil, err
	}
	id, err := nextID(s.datasetID)
	if err != nil {
		return nil, err
	}
	stored := *dataset
	stored.Id = id
	if stored.InsertedAt.IsZero() {
		stored.InsertedAt = time.Now().UTC()
	}
	err = s.backend.Update(func(tx *badger.Txn) error {
		if _, err := readProvider(tx, stored.EmbeddingProviderId); err != nil {
			return fmt.Errorf("embedding provider %d: %w", stored.EmbeddingProviderId, err)
		}
		return tx.Set(makeKey(datasetPrefix, id), storage.MarshalDataset(&stored))
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// AddDocument stores a document in the unprocessed set and assigns its ID.
func (s *Store) AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error) {
	if err := core.ValidateDocument(doc); err != nil {
		return nil, err
	}
	id, err := nextID(s.documentID)
	if err != nil {
		return nil, err
	}
	stored := *doc
	stored.Id = id
	stored.FailureReason = ""
	stored.ProcessedAt = time.Time{}
	if stored.InsertedAt.IsZero() {
		stored.InsertedAt = time.Now().UTC()
	}
	err = s.backend.Update(func(tx *badger.Txn) error {
		if _, err := readDataset(tx, stored.DatasetId); err != nil {
			return fmt.Errorf("dataset %d: %w", stored.DatasetId, err)
		}
		if err := tx.Set(makeKey(documentPrefix, id), storage.MarshalDocument(&stored)); err != nil {
			return err
		}
		return tx.Set(makeKey(pendingDocumentPrefix, id), nil)
	})
	if err != nil {
		return nil, err
	}
	return &stored, nil
}

// GetDocument retrieves a document by ID.
func (s *Store) GetDocument(ctx context.Context, id core.ID) (*core.Document, error) {
	var doc *core.Document
	err := s.backend.View(func(tx *badger.Txn) error {
		var err error
		doc, err = readDocument(tx, id)
		return err
	})
	return doc, err
}

// Backlog walks every document and chunk record and counts them by state.
func (s *Store) Backlog(ctx context.Context) (core.Backlog, error) {
	var b core.Backlog
	err := s.backend.View(func(tx *badger.Txn) error {
		err := eachValue(tx, []byte(documentPrefix), storage.UnmarshalDocument, func(doc *core.Document) error {
			switch {
			case doc.Failed():
				b.FailedDocuments++
			case doc.Pending():
				b.PendingDocuments++
			default:
				b.ProcessedDocuments++
			}
			return nil
		})
		if err != nil {
			return err
		}
		return eachValue(tx, []byte(chunkPrefix), storage.UnmarshalChunk, func(c *core.Chunk) error {
			switch {
			case !c.Processed:
				b.PendingChunks++
			case c.Embedded():
				b.EmbeddedChunks++
			default:
				b.SkippedChunks++
			}
			return nil
		})
	})
	return b, err
}

// RequeueDocuments clears failure markers so failed documents are picked up
// again by the parsing stage.
func (s *Store) RequeueDocuments(ctx context.Context, datasetID core.ID) (int, error) {
	count := 0
	err := s.backend.Update(func(tx *badger.Txn) error {
		var failed []*core.Document
		err := eachValue(tx, []byte(documentPrefix), storage.UnmarshalDocument, func(doc *core.Document) error {
			if doc.Failed() && (datasetID == 0 || doc.DatasetId == datasetID) {
				failed = append(failed, doc)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, doc := range failed {
			doc.FailureReason = ""
			if err := tx.Set(makeKey(documentPrefix, doc.Id), storage.MarshalDocument(doc)); err != nil {
				return err
			}
			if err := tx.Set(makeKey(pendingDocumentPrefix, doc.Id), nil); err != nil {
				return err
			}
		}
		count = len(failed)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// RequeueChunks returns skipped chunks to the unprocessed set.
func (s *Store) RequeueChunks(ctx context.Context, datasetID core.ID) (int, error) {
	count := 0
	err := s.backend.Update(func(tx *badger.Txn) error {
		var skipped []*core.Chunk
		err := eachValue(tx, []byte(chunkPrefix), storage.UnmarshalChunk, func(c *core.Chunk) error {
			if c.Processed && !c.Embedded() {
				skipped = append(skipped, c)
			}
			return nil
		})
		if err != nil {
			return err
		}
		datasets := make(map[core.ID]core.ID)
		now := time.Now().UTC()
		for _, c := range skipped {
			if datasetID != 0 {
				owner, ok := datasets[c.DocumentId]
				if !ok {
					doc, err := readDocument(tx, c.DocumentId)
					if err != nil {
						return fmt.Errorf("document %d: %w", c.DocumentId, err)
					}
					owner = doc.DatasetId
					datasets[c.DocumentId] = owner
				}
				if owner != datasetID {
					continue
				}
			}
			c.Processed = false
			c.UpdatedAt = now
			if err := tx.Set(makeKey(chunkPrefix, c.Id), storage.MarshalChunk(c)); err != nil {
				return err
			}
			if err := tx.Set(makeKey(pendingChunkPrefix, c.Id), nil); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// eachValue decodes every value under prefix and passes it to fn in key order.
func eachValue[T any](tx *badger.Txn, prefix []byte, decode func([]byte) (T, error), fn func(T) error) error {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	iter := tx.NewIterator(opts)
	defer iter.Close()

	for iter.Rewind(); iter.Valid(); iter.Next() {
		var value T
		err := iter.Item().Value(func(val []byte) error {
			var decodeErr error
			value, decodeErr = decode(val)
			return decodeErr
		})
		if err != nil {
			return err
		}
		if err := fn(value); err != nil {
			return err
		}
	}
	return nil
}
