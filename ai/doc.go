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

// Package ai provides abstractions for the external services used by the
// ingestion pipeline.
//
// Two interfaces are defined:
//
//   - Structurer: splits a raw document into page-aware text segments
//   - Embedder: turns a text segment into a vector using a per-dataset provider
//
// # Implementation Packages
//
//   - ai/unstructured: Structurer backed by an Unstructured-compatible HTTP API
//   - ai/openai: Embedder backed by OpenAI-compatible embedding APIs
//   - ai/mock: Test doubles for unit testing without external services
//
// Public constructors return interface types. Mock constructors return
// concrete types so tests can inject behavior and inspect call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithStructuringEndpoint("http://unstructured:8000"))
//	structurer, err := unstructured.NewStructurer(cfg)
//	embedder, err := openai.NewEmbedder(cfg)
//
//	segments, err := structurer.Structure(ctx, ai.StructureRequest{
//	    Content:  content,
//	    FileName: "report.pdf",
//	    Chunking: dataset.Chunking,
//	})
//	vector, err := embedder.Embed(ctx, segments[0].Text, provider)
package ai
