package badger

import (
	"context"
	"testing"

	"github.com/poiesic/studykit/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplaceAndGetChunks(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	materialID := core.ID(1)

	first := []*core.Chunk{
		{Index: 0, Text: "chunk zero", Vector: []float32{1, 0}},
		{Index: 1, Text: "chunk one", Vector: []float32{0, 1}},
		{Index: 2, Text: "chunk two", Vector: []float32{1, 0}},
	}
	_, err = repos.Chunks.ReplaceChunks(ctx, materialID, first...)
	require.NoError(t, err)

	got, err := repos.Chunks.GetChunks(ctx, materialID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for i, chunk := range got {
		assert.Equal(t, i, chunk.Index)
		assert.Equal(t, materialID, chunk.MaterialId)
		assert.False(t, chunk.CreatedAt.IsZero())
	}

	// Replacement removes the old set entirely
	second := []*core.Chunk{
		{Index: 0, Text: "fresh chunk", Vector: []float32{0.5, 0.5}},
	}
	_, err = repos.Chunks.ReplaceChunks(ctx, materialID, second...)
	require.NoError(t, err)

	got, err = repos.Chunks.GetChunks(ctx, materialID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "fresh chunk", got[0].Text)
}

func TestHasChunks(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()

	has, err := repos.Chunks.HasChunks(ctx, core.ID(5))
	require.NoError(t, err)
	assert.False(t, has)

	_, err = repos.Chunks.ReplaceChunks(ctx, core.ID(5), &core.Chunk{Index: 0, Text: "present"})
	require.NoError(t, err)

	has, err = repos.Chunks.HasChunks(ctx, core.ID(5))
	require.NoError(t, err)
	assert.True(t, has)

	// Other materials stay unaffected
	has, err = repos.Chunks.HasChunks(ctx, core.ID(6))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestFindSimilarChunks(t *testing.T) {
	repos, err := NewMemoryRepositories()
	require.NoError(t, err)
	defer repos.Close()

	ctx := context.Background()
	materialID := core.ID(7)

	chunks := []*core.Chunk{
		{Index: 0, Text: "exact match", Vector: []float32{1, 0, 0}},
		{Index: 1, Text: "partial match", Vector: []float32{0.7071, 0.7071, 0}},
		{Index: 2, Text: "orthogonal", Vector: []float32{0, 0, 1}},
		{Index: 3, Text: "no vector"},
	}
	_, err = repos.Chunks.ReplaceChunks(ctx, materialID, chunks...)
	require.NoError(t, err)

	// Chunks of another material must never appear in results
	_, err = repos.Chunks.ReplaceChunks(ctx, core.ID(8),
		&core.Chunk{Index: 0, Text: "other material", Vector: []float32{1, 0, 0}})
	require.NoError(t, err)

	query := []float32{1, 0, 0}

	results, err := repos.Chunks.FindSimilar(ctx, materialID, query, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "exact match", results[0].Chunk.Text)
	assert.Equal(t, "partial match", results[1].Chunk.Text)
	assert.Greater(t, results[0].Score, results[1].Score)

	// Threshold filters everything
	results, err = repos.Chunks.FindSimilar(ctx, materialID, query, 0.99999, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "exact match", results[0].Chunk.Text)

	// Limit truncates
	results, err = repos.Chunks.FindSimilar(ctx, materialID, query, 0.5, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "exact match", results[0].Chunk.Text)
}
