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

// Package retrieval answers questions about a material's content.
//
// A question is embedded and matched against the material's indexed chunks;
// the best matches, the recent conversation, and the question itself form
// the tutoring prompt. Materials without indexed chunks are rejected with
// ErrNotIndexed, and questions that match nothing fall back to the
// material's leading chunks.
package retrieval
