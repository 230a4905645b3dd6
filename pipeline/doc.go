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

// Package pipeline orchestrates material processing.
//
// A run walks a material through extraction, encoding repair and
// normalization, artifact generation (summary, notes, flashcards, quiz),
// and embedding indexing. State and progress are persisted on entering each
// stage. Extraction failures are fatal; generation failures degrade the run
// but let it complete. Each run emits exactly one summary log line.
package pipeline
