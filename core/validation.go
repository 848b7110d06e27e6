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

import (
	"fmt"
	"math"
	"strings"
)

// ValidateDocument validates a Document before it is added to a store.
//
// Validation rules:
//   - FileName must not be empty
//   - Content must not be empty
//
// NOT validated (populated by the pipeline):
//   - FailureReason, ProcessedAt
//   - ID (0 is valid before the store assigns one)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if strings.TrimSpace(doc.FileName) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyFileName)
	}

	if len(doc.Content) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyContent)
	}

	return nil
}

// ValidateChunkingConfig checks that chunking thresholds are usable.
func ValidateChunkingConfig(cfg ChunkingConfig) error {
	if cfg.CombineUnderNChars < 0 || cfg.NewAfterNChars < 0 {
		return fmt.Errorf("%w: combine_under_n_chars=%d new_after_n_chars=%d",
			ErrNegativeThreshold, cfg.CombineUnderNChars, cfg.NewAfterNChars)
	}
	return nil
}

// ValidateDataset validates a Dataset according to domain rules.
func ValidateDataset(ds *Dataset) error {
	if ds == nil {
		return fmt.Errorf("%w: dataset is nil", ErrInvalidDataset)
	}

	if err := ValidateChunkingConfig(ds.Chunking); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDataset, err)
	}

	return nil
}

// ValidateProvider validates an EmbeddingProvider. The API key may be empty
// for local OpenAI-compatible servers.
func ValidateProvider(p EmbeddingProvider) error {
	if strings.TrimSpace(p.BaseURL) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProvider, ErrEmptyBaseURL)
	}
	if strings.TrimSpace(p.Model) == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProvider, ErrEmptyModel)
	}
	return nil
}

// ValidateVector checks an embedding before it is stored.
// A dimensions value of 0 disables the width check.
func ValidateVector(vector []float32, dimensions int) error {
	if len(vector) == 0 {
		return fmt.Errorf("%w: vector is empty", ErrInvalidVector)
	}

	if dimensions > 0 && len(vector) != dimensions {
		return fmt.Errorf("%w: %w: expected %d, received %d",
			ErrInvalidVector, ErrDimensionMismatch, dimensions, len(vector))
	}

	for i, v := range vector {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite value at index %d", ErrInvalidVector, i)
		}
	}

	return nil
}
