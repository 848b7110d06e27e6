package badger

import "github.com/poiesic/ragengine/storage"

// NewMemoryStore opens a Store backed by an in-memory BadgerDB instance.
// Intended for tests and one-shot local runs.
func NewMemoryStore() (storage.Store, error) {
	return open("", true)
}
