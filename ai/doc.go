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

// Package ai provides abstractions for the AI services used in studykit.
//
// This package defines interfaces for text embeddings, study artifact
// generation (summaries, notes, flashcards, quizzes), and tutoring answers.
// The core domain and pipeline logic depend on these abstractions rather
// than concrete implementations.
//
// # Design
//
// The package is built around three interfaces:
//
//   - Embedder: generates vector embeddings from text
//   - Generator: produces study artifacts and tutoring answers
//   - AIProvider: aggregates AI services for convenient initialization
//
// # Implementation Packages
//
// Two implementation sub-packages are included:
//
//   - ai/openai: production implementation using OpenAI-compatible APIs
//   - ai/mock: test doubles for unit testing without external dependencies
//
// Public constructors in ai/openai return interface types to enforce
// abstraction; the mock constructors return concrete types so tests can
// inject behavior and assert on call counts.
//
// # Usage Example
//
//	cfg := ai.NewConfig(ai.WithHost("http://localhost:11434"))
//	provider, err := openai.NewProvider(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	summary, err := provider.Generator().GenerateSummary(ctx, text)
//	vectors, err := provider.Embedder().EmbedTexts(ctx, chunks)
package ai
