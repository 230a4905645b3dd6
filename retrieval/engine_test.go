package retrieval

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/studykit/ai"
	"github.com/poiesic/studykit/ai/mock"
	"github.com/poiesic/studykit/core"
	"github.com/poiesic/studykit/storage/badger"
)

const testMaterialID = core.ID(42)

func setupEngineTest(t *testing.T) (*Engine, *badger.MemoryRepositories, *mock.MockProvider) {
	t.Helper()
	repos, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { repos.Close() })

	provider := mock.NewMockProvider().(*mock.MockProvider)
	engine, err := NewEngine(repos.Chunks, repos.Conversations, provider)
	require.NoError(t, err)

	return engine, repos, provider
}

// indexChunks stores chunks whose vectors are the mock embedder's
// deterministic vectors, so embedding the same text again matches exactly.
func indexChunks(t *testing.T, repos *badger.MemoryRepositories, texts ...string) {
	t.Helper()
	chunks := make([]*core.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = &core.Chunk{
			MaterialId: testMaterialID,
			Index:      i,
			Text:       text,
			Vector:     mock.DeterministicVector(text, 16),
		}
	}
	_, err := repos.Chunks.ReplaceChunks(context.Background(), testMaterialID, chunks...)
	require.NoError(t, err)
}

func TestAskReturnsAnswerAndPersistsTurns(t *testing.T) {
	engine, repos, provider := setupEngineTest(t)
	indexChunks(t, repos, "Mitochondria produce ATP.", "The nucleus stores DNA.")
	ctx := context.Background()

	var capturedContext string
	provider.GetMockGenerator().AnswerFunc = func(ctx context.Context, question, docContext string, history []ai.Message) (string, error) {
		capturedContext = docContext
		return "They produce ATP.", nil
	}
	provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		// Ask with the exact embedding of the first chunk
		return mock.DeterministicVector("Mitochondria produce ATP.", 16), nil
	}

	answer, err := engine.Ask(ctx, testMaterialID, "What do mitochondria do?")
	require.NoError(t, err)
	assert.Equal(t, "They produce ATP.", answer)
	assert.Contains(t, capturedContext, "Mitochondria produce ATP.")

	turns, err := engine.History(ctx, testMaterialID)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, core.TurnRoleUser, turns[0].Role)
	assert.Equal(t, "What do mitochondria do?", turns[0].Content)
	assert.Equal(t, core.TurnRoleAssistant, turns[1].Role)
	assert.Equal(t, "They produce ATP.", turns[1].Content)
	assert.Equal(t, "chat", turns[0].ContextTag)
}

func TestAskUnindexedMaterial(t *testing.T) {
	engine, _, _ := setupEngineTest(t)

	_, err := engine.Ask(context.Background(), testMaterialID, "anything?")
	assert.ErrorIs(t, err, ErrNotIndexed)
}

func TestAskFallsBackToLeadingChunks(t *testing.T) {
	engine, repos, provider := setupEngineTest(t)

	texts := make([]string, 8)
	for i := range texts {
		texts[i] = fmt.Sprintf("Chunk number %d with some content.", i)
	}
	indexChunks(t, repos, texts...)

	// Query vector orthogonal to everything stored: no match clears 0.35
	provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		vector := make([]float32, 16)
		return vector, nil
	}

	var capturedContext string
	provider.GetMockGenerator().AnswerFunc = func(ctx context.Context, question, docContext string, history []ai.Message) (string, error) {
		capturedContext = docContext
		return "Based on the opening sections...", nil
	}

	var fallbackCount int
	monitor := &recordingMonitor{fallback: &fallbackCount}

	_, err := engine.AskWithMonitor(context.Background(), testMaterialID, "unrelated question", monitor)
	require.NoError(t, err)
	assert.Equal(t, fallbackChunks, fallbackCount)
	assert.Contains(t, capturedContext, "Chunk number 0")
	assert.Contains(t, capturedContext, "Chunk number 4")
	assert.NotContains(t, capturedContext, "Chunk number 5")
}

func TestAskPassesRecentHistoryChronologically(t *testing.T) {
	engine, repos, provider := setupEngineTest(t)
	indexChunks(t, repos, "Some study content here.")
	ctx := context.Background()

	// Seed 12 turns; only the last 10 should reach the prompt
	for i := 0; i < 6; i++ {
		_, err := repos.Conversations.AddTurns(ctx,
			&core.ConversationTurn{MaterialId: testMaterialID, Role: core.TurnRoleUser, Content: fmt.Sprintf("question %d", i), ContextTag: "chat"},
			&core.ConversationTurn{MaterialId: testMaterialID, Role: core.TurnRoleAssistant, Content: fmt.Sprintf("answer %d", i), ContextTag: "chat"},
		)
		require.NoError(t, err)
	}

	var capturedHistory []ai.Message
	provider.GetMockGenerator().AnswerFunc = func(ctx context.Context, question, docContext string, history []ai.Message) (string, error) {
		capturedHistory = history
		return "ok", nil
	}

	_, err := engine.Ask(ctx, testMaterialID, "follow-up?")
	require.NoError(t, err)

	require.Len(t, capturedHistory, 10)
	assert.Equal(t, "question 1", capturedHistory[0].Content)
	assert.Equal(t, ai.RoleUser, capturedHistory[0].Role)
	assert.Equal(t, "answer 5", capturedHistory[9].Content)
	assert.Equal(t, ai.RoleAssistant, capturedHistory[9].Role)
}

func TestClearHistory(t *testing.T) {
	engine, repos, _ := setupEngineTest(t)
	indexChunks(t, repos, "Some study content here.")
	ctx := context.Background()

	_, err := engine.Ask(ctx, testMaterialID, "first question?")
	require.NoError(t, err)

	require.NoError(t, engine.ClearHistory(ctx, testMaterialID))

	turns, err := engine.History(ctx, testMaterialID)
	require.NoError(t, err)
	assert.Empty(t, turns)
}

// recordingMonitor records the fallback chunk count.
type recordingMonitor struct {
	fallback *int
}

func (m *recordingMonitor) Start(_ string)                               {}
func (m *recordingMonitor) AfterSimilaritySearch(_ []*core.MatchedChunk) {}
func (m *recordingMonitor) FallbackUsed(count int)                       { *m.fallback = count }
func (m *recordingMonitor) AfterHistoryLoad(_ []*core.ConversationTurn)  {}
func (m *recordingMonitor) Finish(_ string)                              {}
