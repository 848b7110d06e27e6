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

// Package unstructured provides an ai.Structurer for Unstructured-compatible
// partitioning APIs.
//
// Documents are posted as multipart uploads to the general partition route
// with title-based chunking. The response is a JSON array of elements; each
// element's text and metadata.page_number become one core.Segment.
package unstructured
