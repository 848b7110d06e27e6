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

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrInvalidDataset indicates a Dataset failed validation.
	ErrInvalidDataset = errors.New("invalid dataset")

	// ErrInvalidProvider indicates an EmbeddingProvider failed validation.
	ErrInvalidProvider = errors.New("invalid embedding provider")

	// ErrInvalidVector indicates an embedding vector failed validation.
	ErrInvalidVector = errors.New("invalid embedding vector")

	// ErrEmptyContent indicates the document Content field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrEmptyFileName indicates the document FileName field is empty.
	ErrEmptyFileName = errors.New("file name cannot be empty")

	// ErrNegativeThreshold indicates a chunking threshold below zero.
	ErrNegativeThreshold = errors.New("chunking thresholds cannot be negative")

	// ErrEmptyBaseURL indicates the provider BaseURL field is empty.
	ErrEmptyBaseURL = errors.New("provider base URL cannot be empty")

	// ErrEmptyModel indicates the provider Model field is empty.
	ErrEmptyModel = errors.New("provider model cannot be empty")

	// ErrDimensionMismatch indicates a vector of unexpected width.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")
)
