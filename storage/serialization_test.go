package storage

import (
	"testing"
	"time"

	"github.com/poiesic/studykit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalID(t *testing.T) {
	tests := []struct {
		name string
		id   core.ID
	}{
		{"zero ID", core.ID(0)},
		{"small ID", core.ID(42)},
		{"large ID", core.ID(18446744073709551615)}, // max uint64
		{"content-based ID", core.IDFromContent("lecture notes")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalID(tt.id)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalID(data)
			require.NoError(t, err)
			assert.Equal(t, tt.id, decoded)
		})
	}
}

func TestUnmarshalID_Invalid(t *testing.T) {
	_, err := UnmarshalID([]byte{})
	assert.Error(t, err)
}

func TestMarshalUnmarshalMaterial(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name     string
		material *core.Material
	}{
		{
			name: "freshly queued document",
			material: &core.Material{
				Id:         core.ID(1),
				Owner:      "user-1",
				SourceKind: core.SourceKindDocument,
				SourceRef:  "blobs/lecture.md",
				Title:      "Lecture 3",
				State:      core.StateQueued,
				CreatedAt:  now,
				UpdatedAt:  now,
			},
		},
		{
			name: "completed transcript with text",
			material: &core.Material{
				Id:            core.ID(2),
				Owner:         "user-2",
				SourceKind:    core.SourceKindTranscript,
				SourceRef:     "https://example.com/watch?v=abc123",
				Title:         "Biology intro",
				State:         core.StateCompleted,
				Progress:      100,
				ExtractedText: "Cells are the basic unit of life.",
				CreatedAt:     now,
				UpdatedAt:     now,
			},
		},
		{
			name: "failed material with error",
			material: &core.Material{
				Id:              core.ID(3),
				Owner:           "user-1",
				SourceKind:      core.SourceKindDocument,
				SourceRef:       "blobs/broken.bin",
				State:           core.StateFailed,
				Progress:        10,
				ProcessingError: "extraction failed: unsupported format",
				CreatedAt:       now,
				UpdatedAt:       now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalMaterial(tt.material)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalMaterial(data)
			require.NoError(t, err)
			assert.Equal(t, tt.material, decoded)
		})
	}
}

func TestMarshalUnmarshalChunk(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	tests := []struct {
		name  string
		chunk *core.Chunk
	}{
		{
			name: "chunk with vector",
			chunk: &core.Chunk{
				MaterialId: core.ID(7),
				Index:      0,
				Text:       "Cells are the basic unit of life.",
				Vector:     []float32{0.1, 0.2, 0.3, 0.4},
				CreatedAt:  now,
			},
		},
		{
			name: "chunk without vector",
			chunk: &core.Chunk{
				MaterialId: core.ID(7),
				Index:      3,
				Text:       "This chunk failed to embed.",
				CreatedAt:  now,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalChunk(tt.chunk)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalChunk(data)
			require.NoError(t, err)
			assert.Equal(t, tt.chunk.MaterialId, decoded.MaterialId)
			assert.Equal(t, tt.chunk.Index, decoded.Index)
			assert.Equal(t, tt.chunk.Text, decoded.Text)
			assert.Equal(t, tt.chunk.CreatedAt, decoded.CreatedAt)
			if len(tt.chunk.Vector) == 0 {
				assert.Empty(t, decoded.Vector)
			} else {
				assert.Equal(t, tt.chunk.Vector, decoded.Vector)
			}
		})
	}
}

func TestMarshalUnmarshalArtifacts(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	t.Run("summary", func(t *testing.T) {
		summary := &core.Summary{MaterialId: core.ID(9), Text: "Short overview.", CreatedAt: now}
		decoded, err := UnmarshalSummary(MarshalSummary(summary))
		require.NoError(t, err)
		assert.Equal(t, summary, decoded)
	})

	t.Run("notes", func(t *testing.T) {
		notes := &core.Notes{MaterialId: core.ID(9), Text: "# Key points\n- one\n- two", CreatedAt: now}
		decoded, err := UnmarshalNotes(MarshalNotes(notes))
		require.NoError(t, err)
		assert.Equal(t, notes, decoded)
	})

	t.Run("flashcard", func(t *testing.T) {
		card := &core.Flashcard{
			MaterialId: core.ID(9),
			Index:      4,
			Question:   "What is a cell?",
			Answer:     "The basic unit of life.",
			CreatedAt:  now,
		}
		decoded, err := UnmarshalFlashcard(MarshalFlashcard(card))
		require.NoError(t, err)
		assert.Equal(t, card, decoded)
	})

	t.Run("quiz question", func(t *testing.T) {
		question := &core.QuizQuestion{
			MaterialId:    core.ID(9),
			Index:         2,
			Question:      "Which organelle produces energy?",
			OptionA:       "Nucleus",
			OptionB:       "Mitochondria",
			OptionC:       "Ribosome",
			OptionD:       "Golgi apparatus",
			CorrectOption: "Mitochondria",
			CreatedAt:     now,
		}
		decoded, err := UnmarshalQuizQuestion(MarshalQuizQuestion(question))
		require.NoError(t, err)
		assert.Equal(t, question, decoded)
	})
}

func TestMarshalUnmarshalConversationTurn(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)

	turn := &core.ConversationTurn{
		Id:         core.ID(11),
		MaterialId: core.ID(9),
		Role:       core.TurnRoleUser,
		Content:    "Explain photosynthesis simply.",
		ContextTag: "chat",
		CreatedAt:  now,
	}
	data := MarshalConversationTurn(turn)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalConversationTurn(data)
	require.NoError(t, err)
	assert.Equal(t, turn, decoded)
}

func TestUnmarshalMaterial_Truncated(t *testing.T) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	material := &core.Material{
		Id:        core.ID(1),
		Owner:     "user-1",
		SourceRef: "blobs/a.txt",
		CreatedAt: now,
		UpdatedAt: now,
	}
	data := MarshalMaterial(material)

	_, err := UnmarshalMaterial(data[:len(data)/2])
	assert.Error(t, err)
}
