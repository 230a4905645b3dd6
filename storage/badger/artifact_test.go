package badger

import (
	"context"
	"testing"

	"github.com/poiesic/studykit/core"
	"github.com/poiesic/studykit/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryAndNotes(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	materialID := core.ID(1)

	_, err = repos.Artifacts.GetSummary(ctx, materialID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	err = repos.Artifacts.PutSummary(ctx, &core.Summary{MaterialId: materialID, Text: "v1"})
	require.NoError(t, err)

	summary, err := repos.Artifacts.GetSummary(ctx, materialID)
	require.NoError(t, err)
	assert.Equal(t, "v1", summary.Text)
	assert.False(t, summary.CreatedAt.IsZero())

	// Put replaces
	err = repos.Artifacts.PutSummary(ctx, &core.Summary{MaterialId: materialID, Text: "v2"})
	require.NoError(t, err)
	summary, err = repos.Artifacts.GetSummary(ctx, materialID)
	require.NoError(t, err)
	assert.Equal(t, "v2", summary.Text)

	err = repos.Artifacts.PutNotes(ctx, &core.Notes{MaterialId: materialID, Text: "# Notes"})
	require.NoError(t, err)
	notes, err := repos.Artifacts.GetNotes(ctx, materialID)
	require.NoError(t, err)
	assert.Equal(t, "# Notes", notes.Text)
}

func TestReplaceFlashcards(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	materialID := core.ID(2)

	cards := []*core.Flashcard{
		{Index: 0, Question: "Q0", Answer: "A0"},
		{Index: 1, Question: "Q1", Answer: "A1"},
		{Index: 2, Question: "Q2", Answer: "A2"},
	}
	require.NoError(t, repos.Artifacts.ReplaceFlashcards(ctx, materialID, cards...))

	got, err := repos.Artifacts.GetFlashcards(ctx, materialID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, card := range got {
		assert.Equal(t, i, card.Index)
		assert.Equal(t, materialID, card.MaterialId)
	}

	require.NoError(t, repos.Artifacts.ReplaceFlashcards(ctx, materialID,
		&core.Flashcard{Index: 0, Question: "fresh", Answer: "card"}))

	got, err = repos.Artifacts.GetFlashcards(ctx, materialID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh", got[0].Question)
}

func TestReplaceQuiz(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	materialID := core.ID(3)

	questions := []*core.QuizQuestion{
		{Index: 0, Question: "Q0", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: "b"},
		{Index: 1, Question: "Q1", OptionA: "a", OptionB: "b", OptionC: "c", OptionD: "d", CorrectOption: "a"},
	}
	require.NoError(t, repos.Artifacts.ReplaceQuiz(ctx, materialID, questions...))

	got, err := repos.Artifacts.GetQuiz(ctx, materialID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].CorrectOption)
}

func TestDeleteArtifacts(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	materialID := core.ID(4)

	require.NoError(t, repos.Artifacts.PutSummary(ctx, &core.Summary{MaterialId: materialID, Text: "s"}))
	require.NoError(t, repos.Artifacts.PutNotes(ctx, &core.Notes{MaterialId: materialID, Text: "n"}))
	require.NoError(t, repos.Artifacts.ReplaceFlashcards(ctx, materialID, &core.Flashcard{Index: 0, Question: "q", Answer: "a"}))
	require.NoError(t, repos.Artifacts.ReplaceQuiz(ctx, materialID, &core.QuizQuestion{Index: 0, Question: "q"}))

	require.NoError(t, repos.Artifacts.DeleteArtifacts(ctx, materialID))

	_, err = repos.Artifacts.GetSummary(ctx, materialID)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = repos.Artifacts.GetNotes(ctx, materialID)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	cards, err := repos.Artifacts.GetFlashcards(ctx, materialID)
	require.NoError(t, err)
	assert.Empty(t, cards)
	quiz, err := repos.Artifacts.GetQuiz(ctx, materialID)
	require.NoError(t, err)
	assert.Empty(t, quiz)

	// Deleting again is not an error
	require.NoError(t, repos.Artifacts.DeleteArtifacts(ctx, materialID))
}
