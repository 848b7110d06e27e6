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

package core

//go:generate go run ../cmd/musgen

import "time"

// ID is a unique identifier for persisted entities.
// Identifiers are assigned by the store (database sequences).
type ID int32

// ChunkingConfig holds the per-dataset parameters passed to the structuring service.
type ChunkingConfig struct {
	CombineUnderNChars int32 // Merge segments shorter than this many characters
	NewAfterNChars     int32 // Start a new segment after this many characters
	MultipageSections  bool  // Allow a segment to span source pages
}

// EmbeddingProvider is the endpoint configuration used to embed a chunk.
// It is resolved per chunk at read time and passed explicitly to the embedder.
type EmbeddingProvider struct {
	Id      ID
	Name    string
	BaseURL string
	Model   string
	APIKey  string
}

// Dataset is a tenant-scoped collection of documents sharing chunking and
// embedding configuration.
type Dataset struct {
	Id                  ID
	Name                string
	Chunking            ChunkingConfig
	EmbeddingProviderId ID
	InsertedAt          time.Time
}

// Document is a raw uploaded artifact awaiting decomposition into chunks.
//
// A document is unprocessed while both FailureReason and ProcessedAt are empty.
// It leaves that state exactly once: either FailureReason is recorded, or
// ProcessedAt is stamped in the same transaction that inserted its chunks.
type Document struct {
	Id            ID
	DatasetId     ID
	FileName      string
	Content       []byte
	FailureReason string    // Set when structuring failed; terminal
	ProcessedAt   time.Time // Set when chunks were committed; terminal
	InsertedAt    time.Time
}

// Failed reports whether the document carries a failure marker.
func (d *Document) Failed() bool {
	return d.FailureReason != ""
}

// Pending reports whether the document is still in the unprocessed set.
func (d *Document) Pending() bool {
	return d.FailureReason == "" && d.ProcessedAt.IsZero()
}

// Segment is one structured piece of a document returned by the structuring service.
type Segment struct {
	Text       string
	PageNumber *int32 // Nil when the service did not report a page
}

// Page returns the segment's page number, defaulting to 0 when absent.
func (s Segment) Page() int32 {
	if s.PageNumber == nil {
		return 0
	}
	return *s.PageNumber
}

// Chunk is a page-scoped text segment of a document and the unit of embedding.
//
// Vector is only ever set together with Processed. A processed chunk without a
// vector was skipped after an embedding failure and is not retried.
type Chunk struct {
	Id         ID
	DocumentId ID
	PageNumber int32
	Text       string    // Possibly sealed at rest, see encryption.IsSealed
	Processed  bool      // Terminal once true
	Vector     []float32 // Embedding, populated by the embedding stage
	InsertedAt time.Time
	UpdatedAt  time.Time
}

// Embedded reports whether the chunk has an embedding.
func (c *Chunk) Embedded() bool {
	return len(c.Vector) > 0
}

// PendingChunk is an unprocessed chunk joined with the embedding provider of
// its dataset.
type PendingChunk struct {
	Id       ID
	Text     string
	Provider EmbeddingProvider
}

// Backlog summarizes the processing state of a store.
type Backlog struct {
	PendingDocuments   int
	FailedDocuments    int
	ProcessedDocuments int
	PendingChunks      int
	EmbeddedChunks     int
	SkippedChunks      int
}

// Empty reports whether both unprocessed sets are empty.
func (b Backlog) Empty() bool {
	return b.PendingDocuments == 0 && b.PendingChunks == 0
}
