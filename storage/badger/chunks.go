package badger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ragengine/core"
	"github.com/poiesic/ragengine/storage"
)

// providerResolver joins chunk → document → dataset → provider, caching each
// hop for the duration of one read transaction.
type providerResolver struct {
	tx        *badger.Txn
	documents map[core.ID]core.ID
	datasets  map[core.ID]core.ID
	providers map[core.ID]*core.EmbeddingProvider
}

func newProviderResolver(tx *badger.Txn) *providerResolver {
	return &providerResolver{
		tx:        tx,
		documents: make(map[core.ID]core.ID),
		datasets:  make(map[core.ID]core.ID),
		providers: make(map[core.ID]*core.EmbeddingProvider),
	}
}

func (r *providerResolver) resolve(documentID core.ID) (*core.EmbeddingProvider, error) {
	datasetID, ok := r.documents[documentID]
	if !ok {
		doc, err := readDocument(r.tx, documentID)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", documentID, err)
		}
		datasetID = doc.DatasetId
		r.documents[documentID] = datasetID
	}

	providerID, ok := r.datasets[datasetID]
	if !ok {
		ds, err := readDataset(r.tx, datasetID)
		if err != nil {
			return nil, fmt.Errorf("dataset %d: %w", datasetID, err)
		}
		providerID = ds.EmbeddingProviderId
		r.datasets[datasetID] = providerID
	}

	provider, ok := r.providers[providerID]
	if !ok {
		p, err := readProvider(r.tx, providerID)
		if err != nil {
			return nil, fmt.Errorf("embedding provider %d: %w", providerID, err)
		}
		provider = p
		r.providers[providerID] = provider
	}
	return provider, nil
}

// UnprocessedChunks returns the chunks indexed as pending, by ID.
func (s *Store) UnprocessedChunks(ctx context.Context) ([]*core.PendingChunk, error) {
	var pending []*core.PendingChunk
	err := s.backend.View(func(tx *badger.Txn) error {
		resolver := newProviderResolver(tx)
		for _, id := range scanIDs(tx, []byte(pendingChunkPrefix)) {
			chunk, err := readChunk(tx, core.ID(id))
			if err != nil {
				return fmt.Errorf("reading chunk %d: %w", id, err)
			}
			provider, err := resolver.resolve(chunk.DocumentId)
			if err != nil {
				return fmt.Errorf("resolving provider for chunk %d: %w", id, err)
			}
			pending = append(pending, &core.PendingChunk{
				Id:       chunk.Id,
				Text:     chunk.Text,
				Provider: *provider,
			})
		}
		return nil
	})
	return pending, err
}

// CompleteChunk marks a chunk processed and stores its embedding.
func (s *Store) CompleteChunk(ctx context.Context, id core.ID, vector []float32) error {
	return s.finishChunk(id, vector)
}

// SkipChunk marks a chunk processed without an embedding.
func (s *Store) SkipChunk(ctx context.Context, id core.ID) error {
	return s.finishChunk(id, nil)
}

func (s *Store) finishChunk(id core.ID, vector []float32) error {
	return s.backend.Update(func(tx *badger.Txn) error {
		chunk, err := readChunk(tx, id)
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		chunk.Processed = true
		chunk.Vector = vector
		chunk.UpdatedAt = time.Now().UTC()
		if err := tx.Set(makeKey(chunkPrefix, id), storage.MarshalChunk(chunk)); err != nil {
			return err
		}
		return tx.Delete(makeKey(pendingChunkPrefix, id))
	})
}

// GetChunks retrieves the chunks of a document ordered by ID.
func (s *Store) GetChunks(ctx context.Context, documentID core.ID) ([]*core.Chunk, error) {
	var chunks []*core.Chunk
	err := s.backend.View(func(tx *badger.Txn) error {
		for _, id := range scanIDs(tx, makePartialDocumentChunkKey(documentID)) {
			chunk, err := readChunk(tx, core.ID(id))
			if err != nil {
				return fmt.Errorf("reading chunk %d: %w", id, err)
			}
			chunks = append(chunks, chunk)
		}
		return nil
	})
	return chunks, err
}
