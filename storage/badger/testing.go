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

package badger

import "github.com/poiesic/studykit/storage"

// MemoryRepositories bundles in-memory repositories for testing.
// Caller must call Close when done.
type MemoryRepositories struct {
	Backend       *Backend
	Materials     storage.MaterialRepository
	Chunks        storage.ChunkRepository
	Artifacts     storage.ArtifactRepository
	Conversations storage.ConversationRepository
}

// NewMemoryRepositories creates in-memory repositories for testing.
func NewMemoryRepositories() (*MemoryRepositories, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, err
	}

	materials, err := NewMaterialRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	conversations, err := NewConversationRepository(backend)
	if err != nil {
		materials.Close()
		backend.Close()
		return nil, err
	}

	return &MemoryRepositories{
		Backend:       backend,
		Materials:     materials,
		Chunks:        NewChunkRepository(backend),
		Artifacts:     NewArtifactRepository(backend),
		Conversations: conversations,
	}, nil
}

// Close closes every repository and the backing store.
func (m *MemoryRepositories) Close() error {
	m.Conversations.Close()
	m.Materials.Close()
	return m.Backend.Close()
}
