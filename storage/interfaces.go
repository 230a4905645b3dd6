package storage

import (
	"context"

	"github.com/poiesic/studykit/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// MaterialRepository provides operations for managing materials.
type MaterialRepository interface {
	Repository
	// AddMaterials adds one or more materials to storage.
	// For materials with Id=0, generates new IDs from sequence.
	// Sets CreatedAt/UpdatedAt timestamps if not already set.
	// Returns the materials with generated IDs and timestamps populated.
	AddMaterials(ctx context.Context, materials ...*core.Material) ([]*core.Material, error)

	// UpdateMaterials updates existing materials.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any material doesn't exist.
	UpdateMaterials(ctx context.Context, materials ...*core.Material) ([]*core.Material, error)

	// SetMaterialState atomically records a state transition for a material,
	// along with its progress value and, for failures, the error message.
	// Returns ErrNotFound if the material doesn't exist.
	SetMaterialState(ctx context.Context, id core.ID, state core.ProcessingState, progress int, processingError string) error

	// GetMaterial retrieves a single material by ID.
	// Returns ErrNotFound if the material doesn't exist.
	GetMaterial(ctx context.Context, id core.ID) (*core.Material, error)

	// ListMaterialsByOwner retrieves all materials belonging to an owner,
	// ordered by creation time ascending.
	ListMaterialsByOwner(ctx context.Context, owner string) ([]*core.Material, error)

	// DeleteMaterials removes materials by their IDs.
	// Returns ErrNotFound if any material doesn't exist.
	DeleteMaterials(ctx context.Context, ids ...core.ID) error
}

// ChunkRepository provides operations for a material's indexed chunks.
type ChunkRepository interface {
	Repository
	// ReplaceChunks atomically replaces the full chunk set of a material.
	// Existing chunks are removed first; the new chunks are stored in index
	// order with CreatedAt populated.
	ReplaceChunks(ctx context.Context, materialID core.ID, chunks ...*core.Chunk) ([]*core.Chunk, error)

	// GetChunks retrieves all chunks of a material ordered by index.
	GetChunks(ctx context.Context, materialID core.ID) ([]*core.Chunk, error)

	// HasChunks reports whether any chunks are stored for the material.
	HasChunks(ctx context.Context, materialID core.ID) (bool, error)

	// FindSimilar finds chunks of a material similar to the given vector.
	// Returns chunks with similarity >= minSimilarity, up to limit results,
	// ordered by similarity score (highest first). Chunks without vectors
	// are skipped.
	FindSimilar(ctx context.Context, materialID core.ID, vector []float32, minSimilarity float32, limit int) ([]*core.MatchedChunk, error)
}

// ArtifactRepository provides operations for generated study artifacts.
// Artifacts are replaced wholesale on regeneration.
type ArtifactRepository interface {
	Repository
	// PutSummary stores the material's summary, replacing any existing one.
	PutSummary(ctx context.Context, summary *core.Summary) error

	// GetSummary retrieves the material's summary.
	// Returns ErrNotFound if none exists.
	GetSummary(ctx context.Context, materialID core.ID) (*core.Summary, error)

	// PutNotes stores the material's notes, replacing any existing ones.
	PutNotes(ctx context.Context, notes *core.Notes) error

	// GetNotes retrieves the material's notes.
	// Returns ErrNotFound if none exist.
	GetNotes(ctx context.Context, materialID core.ID) (*core.Notes, error)

	// ReplaceFlashcards atomically replaces the material's flashcard set.
	ReplaceFlashcards(ctx context.Context, materialID core.ID, cards ...*core.Flashcard) error

	// GetFlashcards retrieves the material's flashcards ordered by index.
	GetFlashcards(ctx context.Context, materialID core.ID) ([]*core.Flashcard, error)

	// ReplaceQuiz atomically replaces the material's quiz question set.
	ReplaceQuiz(ctx context.Context, materialID core.ID, questions ...*core.QuizQuestion) error

	// GetQuiz retrieves the material's quiz questions ordered by index.
	GetQuiz(ctx context.Context, materialID core.ID) ([]*core.QuizQuestion, error)

	// DeleteArtifacts removes every artifact of the material.
	// Missing artifacts are not an error.
	DeleteArtifacts(ctx context.Context, materialID core.ID) error
}

// ConversationRepository provides operations for tutoring conversation turns.
type ConversationRepository interface {
	Repository
	// AddTurns appends one or more turns to a material's conversation.
	// For turns with Id=0, generates new IDs from sequence.
	// Sets CreatedAt if not already set.
	// Returns the turns with generated IDs and timestamps populated.
	AddTurns(ctx context.Context, turns ...*core.ConversationTurn) ([]*core.ConversationTurn, error)

	// GetTurns retrieves all turns of a material's conversation in
	// chronological (insertion) order.
	GetTurns(ctx context.Context, materialID core.ID) ([]*core.ConversationTurn, error)

	// GetRecentTurns retrieves up to limit most recent turns of a material's
	// conversation, most recent first.
	GetRecentTurns(ctx context.Context, materialID core.ID, limit int) ([]*core.ConversationTurn, error)

	// ClearTurns removes every turn of a material's conversation.
	ClearTurns(ctx context.Context, materialID core.ID) error
}
