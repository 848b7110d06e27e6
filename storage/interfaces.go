// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"context"

	"github.com/poiesic/ragengine/core"
	"github.com/poiesic/ragengine/encryption"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkWriter inserts chunk rows inside a document transaction.
// It is only valid for the duration of the WithDocumentTx callback.
type ChunkWriter interface {
	// InsertChunk adds one unprocessed chunk for the transaction's document.
	// The text is sealed when the transaction carries an encryption key.
	InsertChunk(ctx context.Context, pageNumber int32, text string) (core.ID, error)
}

// DocumentRepository provides the queries used by the document parsing stage.
type DocumentRepository interface {
	Repository

	// UnprocessedDocuments returns every document with neither a failure
	// marker nor a processed stamp, ordered by ID.
	UnprocessedDocuments(ctx context.Context) ([]*core.Document, error)

	// GetDataset retrieves a dataset's chunking configuration.
	// Returns ErrNotFound if the dataset doesn't exist.
	GetDataset(ctx context.Context, id core.ID) (*core.Dataset, error)

	// FailDocument records a failure message on a document. It is an
	// independent write and never part of a chunk transaction.
	// Failing a missing document is a no-op.
	FailDocument(ctx context.Context, id core.ID, reason string) error

	// WithDocumentTx executes fn within a transaction scoped to one document.
	// If fn returns an error, the transaction is rolled back and no chunk rows
	// remain. If fn returns nil, the document is stamped processed and the
	// transaction is committed. A nil key stores chunk text as plaintext.
	// Begin and commit failures are wrapped with ErrTransactionFailed.
	WithDocumentTx(ctx context.Context, documentID core.ID, key *encryption.Key,
		fn func(ctx context.Context, w ChunkWriter) error) error
}

// ChunkRepository provides the queries used by the chunk embedding stage.
type ChunkRepository interface {
	Repository

	// UnprocessedChunks returns every chunk with processed=false joined with
	// the embedding provider of its dataset, ordered by ID.
	UnprocessedChunks(ctx context.Context) ([]*core.PendingChunk, error)

	// CompleteChunk sets processed=true and stores the embedding in one write.
	// Completing a missing chunk is a no-op.
	CompleteChunk(ctx context.Context, id core.ID, vector []float32) error

	// SkipChunk sets processed=true and leaves the embedding empty.
	// Skipping a missing chunk is a no-op.
	SkipChunk(ctx context.Context, id core.ID) error

	// GetChunks retrieves the chunks of a document ordered by ID.
	// Chunk text is returned as stored, sealed or not.
	GetChunks(ctx context.Context, documentID core.ID) ([]*core.Chunk, error)
}

// CatalogRepository provides the operations used by the upload flow and by
// operators. The pipeline itself never calls them.
type CatalogRepository interface {
	Repository

	// AddEmbeddingProvider stores a provider and returns it with its ID populated.
	AddEmbeddingProvider(ctx context.Context, provider *core.EmbeddingProvider) (*core.EmbeddingProvider, error)

	// AddDataset stores a dataset and returns it with its ID populated.
	// Returns ErrNotFound if the referenced embedding provider doesn't exist.
	AddDataset(ctx context.Context, dataset *core.Dataset) (*core.Dataset, error)

	// AddDocument stores an unprocessed document and returns it with its ID populated.
	// Returns ErrNotFound if the referenced dataset doesn't exist.
	AddDocument(ctx context.Context, doc *core.Document) (*core.Document, error)

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id core.ID) (*core.Document, error)

	// Backlog counts documents and chunks by processing state.
	Backlog(ctx context.Context) (core.Backlog, error)

	// RequeueDocuments clears failure markers so failed documents re-enter the
	// unprocessed set. A datasetID of 0 applies to every dataset.
	// Returns the number of documents requeued.
	RequeueDocuments(ctx context.Context, datasetID core.ID) (int, error)

	// RequeueChunks resets chunks that were skipped without an embedding.
	// A datasetID of 0 applies to every dataset.
	// Returns the number of chunks requeued.
	RequeueChunks(ctx context.Context, datasetID core.ID) (int, error)
}

// Store aggregates every repository a backend provides.
type Store interface {
	DocumentRepository
	ChunkRepository
	CatalogRepository
}
