package badger

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/ragengine/core"
	"github.com/poiesic/ragengine/storage"
)

// Store implements storage.Store for BadgerDB.
type Store struct {
	backend    *Backend
	ownBackend bool
	providerID *badger.Sequence
	datasetID  *badger.Sequence
	documentID *badger.Sequence
	chunkID    *badger.Sequence
}

var _ storage.Store = (*Store)(nil)

// NewStore creates a Store on an open backend. The caller keeps ownership of
// the backend.
func NewStore(backend *Backend) (*Store, error) {
	s := &Store{backend: backend}
	seqs := []struct {
		name string
		dst  **badger.Sequence
	}{
		{providerIDSeq, &s.providerID},
		{datasetIDSeq, &s.datasetID},
		{documentIDSeq, &s.documentID},
		{chunkIDSeq, &s.chunkID},
	}
	for _, seq := range seqs {
		sequence, err := backend.GetSequence(seq.name)
		if err != nil {
			s.releaseSequences()
			return nil, err
		}
		*seq.dst = sequence
	}
	return s, nil
}

// Open opens (or creates) a BadgerDB store at path.
// Returns storage.Store interface to enforce abstraction.
func Open(path string) (storage.Store, error) {
	return open(path, false)
}

func open(path string, inMemory bool) (*Store, error) {
	backend, err := OpenBackend(path, inMemory)
	if err != nil {
		return nil, err
	}
	s, err := NewStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	s.ownBackend = true
	return s, nil
}

// Close releases the ID sequences and, when the store opened it, the backend.
func (s *Store) Close() error {
	err := s.releaseSequences()
	if s.ownBackend {
		err = errors.Join(err, s.backend.Close())
	}
	return err
}

func (s *Store) releaseSequences() error {
	var err error
	for _, seq := range []*badger.Sequence{s.providerID, s.datasetID, s.documentID, s.chunkID} {
		if seq != nil {
			err = errors.Join(err, seq.Release())
		}
	}
	return err
}

// nextID draws the next identifier from a sequence.
// BadgerDB sequences can return 0 on first call, so we skip it.
func nextID(seq *badger.Sequence) (core.ID, error) {
	next, err := seq.Next()
	if err != nil {
		return 0, err
	}
	if next == 0 {
		if next, err = seq.Next(); err != nil {
			return 0, err
		}
	}
	if next > uint64(^uint32(0)>>1) {
		return 0, fmt.Errorf("id sequence exhausted")
	}
	return core.ID(next), nil
}

func readDocument(tx *badger.Txn, id core.ID) (*core.Document, error) {
	return get(tx, makeKey(documentPrefix, id), storage.UnmarshalDocument)
}

func readDataset(tx *badger.Txn, id core.ID) (*core.Dataset, error) {
	return get(tx, makeKey(datasetPrefix, id), storage.UnmarshalDataset)
}

func readProvider(tx *badger.Txn, id core.ID) (*core.EmbeddingProvider, error) {
	return get(tx, makeKey(providerPrefix, id), storage.UnmarshalProvider)
}

func readChunk(tx *badger.Txn, id core.ID) (*core.Chunk, error) {
	return get(tx, makeKey(chunkPrefix, id), storage.UnmarshalChunk)
}
