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

package studykit

import (
	"log/slog"

	"github.com/poiesic/studykit/ai"
	"github.com/poiesic/studykit/ai/openai"
	"github.com/poiesic/studykit/blob"
	"github.com/poiesic/studykit/extract"
	"github.com/poiesic/studykit/pipeline"
	"github.com/poiesic/studykit/queue"
	"github.com/poiesic/studykit/retrieval"
	"github.com/poiesic/studykit/storage"
	"github.com/poiesic/studykit/storage/badger"
)

// Database wires the storage backend, repositories, and AI provider into
// one handle. The pipeline, queue, and retrieval engine are built from it.
type Database struct {
	backend          *badger.Backend
	materialRepo     storage.MaterialRepository
	chunkRepo        storage.ChunkRepository
	artifactRepo     storage.ArtifactRepository
	conversationRepo storage.ConversationRepository
	blobStore        blob.Store
	provider         ai.AIProvider
	captionBaseURL   string
	flashcardCount   int
	quizCount        int
	logger           *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig       *ai.Config
	provider       ai.AIProvider
	blobStore      blob.Store
	captionBaseURL string
	inMemory       bool
}

// WithAIConfig sets the AI service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = config
	}
}

// WithAIProvider injects a pre-built provider instead of constructing the
// OpenAI-compatible one. Used with the mock provider in tests.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithBlobStore sets where document sources are read from.
// Default is a filesystem store rooted at "materials".
func WithBlobStore(store blob.Store) DatabaseOption {
	return func(o *databaseOptions) {
		o.blobStore = store
	}
}

// WithCaptionBaseURL overrides the transcript caption service endpoint.
func WithCaptionBaseURL(baseURL string) DatabaseOption {
	return func(o *databaseOptions) {
		o.captionBaseURL = baseURL
	}
}

// WithInMemoryStorage keeps all data in memory. Used in tests.
func WithInMemoryStorage() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	materialRepo, err := badger.NewMaterialRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	chunkRepo := badger.NewChunkRepository(backend)
	artifactRepo := badger.NewArtifactRepository(backend)

	conversationRepo, err := badger.NewConversationRepository(backend)
	if err != nil {
		artifactRepo.Close()
		chunkRepo.Close()
		materialRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create AI provider with configured settings unless one was injected
	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			conversationRepo.Close()
			artifactRepo.Close()
			chunkRepo.Close()
			materialRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	blobStore := options.blobStore
	if blobStore == nil {
		blobStore = blob.NewFSStore("materials")
	}

	return &Database{
		backend:          backend,
		materialRepo:     materialRepo,
		chunkRepo:        chunkRepo,
		artifactRepo:     artifactRepo,
		conversationRepo: conversationRepo,
		blobStore:        blobStore,
		provider:         provider,
		captionBaseURL:   options.captionBaseURL,
		flashcardCount:   options.aiConfig.FlashcardCount,
		quizCount:        options.aiConfig.QuizCount,
		logger:           slog.Default(),
	}, nil
}

func (db *Database) Close() error {
	// Close AI provider first
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	// Close repositories
	if err := db.conversationRepo.Close(); err != nil {
		db.logger.Error("error closing conversation repository", "err", err)
		return err
	}
	if err := db.artifactRepo.Close(); err != nil {
		db.logger.Error("error closing artifact repository", "err", err)
		return err
	}
	if err := db.chunkRepo.Close(); err != nil {
		db.logger.Error("error closing chunk repository", "err", err)
		return err
	}
	if err := db.materialRepo.Close(); err != nil {
		db.logger.Error("error closing material repository", "err", err)
		return err
	}

	// Close backend
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) MaterialRepository() storage.MaterialRepository {
	return db.materialRepo
}

func (db *Database) ChunkRepository() storage.ChunkRepository {
	return db.chunkRepo
}

func (db *Database) ArtifactRepository() storage.ArtifactRepository {
	return db.artifactRepo
}

func (db *Database) ConversationRepository() storage.ConversationRepository {
	return db.conversationRepo
}

// NewOrchestrator builds the processing pipeline over this database. The
// configured artifact counts apply unless the caller's options override them.
func (db *Database) NewOrchestrator(opts ...pipeline.Option) (*pipeline.Orchestrator, error) {
	var extractOpts []extract.TranscriptOption
	if db.captionBaseURL != "" {
		extractOpts = append(extractOpts, extract.WithCaptionBaseURL(db.captionBaseURL))
	}
	extractor := extract.NewExtractor(db.blobStore, extractOpts...)

	var pipelineOpts []pipeline.Option
	if db.flashcardCount > 0 {
		pipelineOpts = append(pipelineOpts, pipeline.WithFlashcardCount(db.flashcardCount))
	}
	if db.quizCount > 0 {
		pipelineOpts = append(pipelineOpts, pipeline.WithQuizCount(db.quizCount))
	}
	pipelineOpts = append(pipelineOpts, opts...)

	return pipeline.NewOrchestrator(db.materialRepo, db.chunkRepo, db.artifactRepo,
		extractor, db.provider, pipelineOpts...)
}

// NewQueue builds a job queue over the given processor, usually an
// orchestrator from NewOrchestrator.
func (db *Database) NewQueue(processor queue.Processor, opts ...queue.QueueOption) (*queue.Queue, error) {
	return queue.NewQueue(processor, db.materialRepo, opts...)
}

// NewRetrievalEngine builds the tutoring retrieval engine.
func (db *Database) NewRetrievalEngine(opts ...retrieval.Option) (*retrieval.Engine, error) {
	return retrieval.NewEngine(db.chunkRepo, db.conversationRepo, db.provider, opts...)
}
