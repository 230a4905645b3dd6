package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// SourceKind identifies where a material's content comes from.
type SourceKind int

const (
	// SourceKindDocument represents an uploaded document (text, markdown, HTML).
	SourceKindDocument SourceKind = iota + 1
	// SourceKindTranscript represents a video transcript fetched from a caption service.
	SourceKindTranscript
)

// Material is the canonical unit of ingested content tracked through the
// processing pipeline. Its state/progress fields are written exclusively by
// the material's own pipeline run.
type Material struct {
	Id              ID
	Owner           string
	SourceKind      SourceKind
	SourceRef       string // blob reference for documents, video URL for transcripts
	Title           string
	State           ProcessingState
	Progress        int    // 0-100, monotonic within a run
	ExtractedText   string // empty until the extraction stage commits it
	ProcessingError string // set when State == StateFailed
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Chunk is a contiguous slice of a material's text, the unit of embedding
// and retrieval. The full chunk set for a material is replaced wholesale on
// regeneration.
type Chunk struct {
	MaterialId ID
	Index      int
	Text       string
	Vector     []float32
	CreatedAt  time.Time
}

// Summary is the generated short summary for a material.
type Summary struct {
	MaterialId ID
	Text       string
	CreatedAt  time.Time
}

// Notes is the generated structured study notes for a material.
type Notes struct {
	MaterialId ID
	Text       string
	CreatedAt  time.Time
}

// Flashcard is one generated question/answer card.
type Flashcard struct {
	MaterialId ID
	Index      int
	Question   string
	Answer     string
	CreatedAt  time.Time
}

// QuizQuestion is one generated multiple-choice question. CorrectOption
// holds the full text of the correct answer, matching one of the options.
type QuizQuestion struct {
	MaterialId    ID
	Index         int
	Question      string
	OptionA       string
	OptionB       string
	OptionC       string
	OptionD       string
	CorrectOption string
	CreatedAt     time.Time
}

// TurnRole identifies the author of a conversation turn.
type TurnRole int

const (
	// TurnRoleUser represents the asking user.
	TurnRoleUser TurnRole = iota + 1
	// TurnRoleAssistant represents the answering model.
	TurnRoleAssistant
)

// ConversationTurn is one message in a material's tutoring conversation.
// Turns are append-only and ordered; they serve both as the visible
// transcript and as prompt history for follow-up questions.
type ConversationTurn struct {
	Id         ID
	MaterialId ID
	Role       TurnRole
	Content    string
	ContextTag string // e.g. "chat" or "selection"
	CreatedAt  time.Time
}

// MatchedChunk is a chunk returned from vector similarity search.
type MatchedChunk struct {
	Chunk *Chunk
	Score float32
}
