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

// Package storage provides the storage abstraction layer for ragengine.
//
// This package defines the Store Gateway consumed by the ingestion pipeline.
// Two backends implement it:
//
//   - storage/postgres: the relational store shared with the rest of the product
//   - storage/badger: an embedded store for single-node runs and tests
//
// # Constructor Return Type Pattern
//
// Public backend constructors return the storage.Store interface so that the
// pipeline never couples to a specific backend:
//
//	store, err := postgres.Open(ctx, cfg)   // returns storage.Store
//	store, err := badger.NewMemoryStore()   // returns storage.Store
//
// # Transactions
//
// Chunk creation for a document is all-or-nothing. WithDocumentTx opens a
// transaction, hands the callback a ChunkWriter, stamps the document as
// processed and commits. When a tenant key is supplied, an encryption session
// is activated for exactly the lifetime of that transaction and every chunk
// text written through the ChunkWriter is sealed.
//
// Failure markers are written with FailDocument, outside any chunk
// transaction.
//
// # Ordering
//
// Unprocessed documents and chunks are returned in ascending ID order. The
// order is stable across repeated reads absent writes.
//
// # Context Support
//
// All repository methods accept context.Context for cancellation
// and timeout support.
package storage
