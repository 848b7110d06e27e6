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

// Package openai provides an ai.Embedder for OpenAI-compatible embedding APIs.
//
// Requests go through langchaingo. Each chunk names its own provider (base
// URL, model, API key), so the embedder keeps an LRU cache of clients keyed
// by provider settings.
//
// # Usage
//
//	embedder, err := openai.NewEmbedder(ai.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.Embed(ctx, "sample text", core.EmbeddingProvider{
//	    BaseURL: "https://api.openai.com/v1",
//	    Model:   "text-embedding-3-small",
//	    APIKey:  os.Getenv("OPENAI_API_KEY"),
//	})
package openai
