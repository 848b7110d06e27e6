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
	"fmt"

	"github.com/poiesic/ragengine/core"
)

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: document: %w", ErrSerializationFailed, err)
	}
	return &doc, nil
}

// MarshalDataset serializes a Dataset to bytes.
func MarshalDataset(ds *core.Dataset) []byte {
	buf := make([]byte, core.DatasetMUS.Size(*ds))
	core.DatasetMUS.Marshal(*ds, buf)
	return buf
}

// UnmarshalDataset deserializes a Dataset from bytes.
func UnmarshalDataset(data []byte) (*core.Dataset, error) {
	ds, _, err := core.DatasetMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset: %w", ErrSerializationFailed, err)
	}
	return &ds, nil
}

// MarshalProvider serializes an EmbeddingProvider to bytes.
func MarshalProvider(p *core.EmbeddingProvider) []byte {
	buf := make([]byte, core.EmbeddingProviderMUS.Size(*p))
	core.EmbeddingProviderMUS.Marshal(*p, buf)
	return buf
}

// UnmarshalProvider deserializes an EmbeddingProvider from bytes.
func UnmarshalProvider(data []byte) (*core.EmbeddingProvider, error) {
	p, _, err := core.EmbeddingProviderMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: provider: %w", ErrSerializationFailed, err)
	}
	return &p, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(c *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*c))
	core.ChunkMUS.Marshal(*c, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	c, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: chunk: %w", ErrSerializationFailed, err)
	}
	// Chunks without an embedding carry a nil vector.
	if len(c.Vector) == 0 {
		c.Vector = nil
	}
	return &c, nil
}
