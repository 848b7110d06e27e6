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

package ai

import (
	"errors"
	"net/http"
)

var (
	// ErrStructuringFailed indicates the structuring service could not split a document.
	ErrStructuringFailed = errors.New("structuring failed")

	// ErrEmbeddingFailed indicates the embedding service could not embed a text.
	ErrEmbeddingFailed = errors.New("embedding failed")

	// ErrEmptyEmbedding indicates the embedding service returned no vector.
	ErrEmptyEmbedding = errors.New("embedding service returned no vector")
)

// StructuringError is a failure reported by the structuring service. Error
// returns the service's message alone so callers can store it verbatim.
type StructuringError struct {
	Message string
	Status  int   // HTTP status, zero when no response arrived
	Err     error // Underlying transport or decoding error, if any
}

func (e *StructuringError) Error() string {
	return e.Message
}

// StatusText describes the HTTP status for logging.
func (e *StructuringError) StatusText() string {
	if e.Status == 0 {
		return "no response"
	}
	return http.StatusText(e.Status)
}

func (e *StructuringError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrStructuringFailed}
	}
	return []error{ErrStructuringFailed, e.Err}
}
