package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator produces study artifacts and tutoring answers from material text.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// GenerateSummary produces a concise summary of the text, in the same
	// language as the source.
	GenerateSummary(ctx context.Context, text string) (string, error)

	// GenerateNotes produces structured markdown study notes from the text.
	GenerateNotes(ctx context.Context, text string) (string, error)

	// GenerateFlashcards produces question/answer flashcards from the text.
	// Malformed cards are dropped; the result may be shorter than count.
	GenerateFlashcards(ctx context.Context, text string, count int) ([]Flashcard, error)

	// GenerateQuiz produces multiple-choice quiz questions from the text.
	// CorrectOption always holds the full text of the correct answer;
	// questions whose correct option does not match any option are dropped.
	GenerateQuiz(ctx context.Context, text string, count int) ([]QuizQuestion, error)

	// Answer produces a tutoring answer for a question, grounded in the given
	// document context and the recent conversation history (chronological).
	Answer(ctx context.Context, question, docContext string, history []Message) (string, error)
}

// AIProvider aggregates AI services for convenient initialization and
// lifecycle management. A provider creates and manages Embedder and Generator
// instances, ensuring they share configuration and resources appropriately.
type AIProvider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the artifact generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
