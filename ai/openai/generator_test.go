package openai

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel returns queued responses in order, repeating the last one.
type fakeModel struct {
	responses []string
	calls     int
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	idx := f.calls
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	f.calls++
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.responses[idx]}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	response, err := f.GenerateContent(ctx, nil, options...)
	if err != nil {
		return "", err
	}
	return response.Choices[0].Content, nil
}

func newTestGenerator(responses ...string) *Generator {
	return &Generator{
		client:      &fakeModel{responses: responses},
		temperature: 0.7,
		logger:      slog.Default().With("component", "test-generator"),
	}
}

func TestGenerateSummary(t *testing.T) {
	generator := newTestGenerator("  A concise summary.  ")

	summary, err := generator.GenerateSummary(context.Background(), "source text")
	require.NoError(t, err)
	assert.Equal(t, "A concise summary.", summary)
}

func TestGenerateFlashcards(t *testing.T) {
	generator := newTestGenerator(`{
		"flashcards": [
			{"question": "What is a cell?", "answer": "The basic unit of life."},
			{"question": "", "answer": "orphan answer"},
			{"question": "What is DNA?", "answer": "Genetic material."}
		]
	}`)

	cards, err := generator.GenerateFlashcards(context.Background(), "text", 3)
	require.NoError(t, err)
	require.Len(t, cards, 2)
	assert.Equal(t, "What is a cell?", cards[0].Question)
	assert.Equal(t, "Genetic material.", cards[1].Answer)
}

func TestGenerateFlashcards_CodeFences(t *testing.T) {
	generator := newTestGenerator("```json\n{\"flashcards\":[{\"question\":\"Q\",\"answer\":\"A\"}]}\n```")

	cards, err := generator.GenerateFlashcards(context.Background(), "text", 1)
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "Q", cards[0].Question)
}

func TestGenerateFlashcards_RetriesMalformedJSON(t *testing.T) {
	generator := newTestGenerator(
		"sorry, here is your JSON: not json at all",
		`{"flashcards":[{"question":"Q","answer":"A"}]}`,
	)

	cards, err := generator.GenerateFlashcards(context.Background(), "text", 1)
	require.NoError(t, err)
	require.Len(t, cards, 1)
}

func TestGenerateFlashcards_GivesUpAfterRetries(t *testing.T) {
	generator := newTestGenerator("still not json")

	_, err := generator.GenerateFlashcards(context.Background(), "text", 1)
	assert.Error(t, err)
}

func TestGenerateQuiz(t *testing.T) {
	generator := newTestGenerator(`{
		"questions": [
			{
				"question": "Which organelle produces energy?",
				"option_a": "Nucleus",
				"option_b": "Mitochondria",
				"option_c": "Ribosome",
				"option_d": "Golgi apparatus",
				"correct_option": "Mitochondria"
			}
		]
	}`)

	questions, err := generator.GenerateQuiz(context.Background(), "text", 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Mitochondria", questions[0].CorrectOption)
}

func TestGenerateQuiz_LetterAnswerMapped(t *testing.T) {
	generator := newTestGenerator(`{
		"questions": [
			{
				"question": "Pick one",
				"option_a": "alpha",
				"option_b": "bravo",
				"option_c": "charlie",
				"option_d": "delta",
				"correct_option": "B"
			}
		]
	}`)

	questions, err := generator.GenerateQuiz(context.Background(), "text", 1)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "bravo", questions[0].CorrectOption)
}

func TestGenerateQuiz_DropsUnmatchedCorrectOption(t *testing.T) {
	generator := newTestGenerator(`{
		"questions": [
			{
				"question": "Broken",
				"option_a": "alpha",
				"option_b": "bravo",
				"option_c": "charlie",
				"option_d": "delta",
				"correct_option": "something else entirely"
			},
			{
				"question": "Fine",
				"option_a": "alpha",
				"option_b": "bravo",
				"option_c": "charlie",
				"option_d": "delta",
				"correct_option": "delta"
			}
		]
	}`)

	questions, err := generator.GenerateQuiz(context.Background(), "text", 2)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Fine", questions[0].Question)
}

func TestAnswerIncludesHistory(t *testing.T) {
	fake := &fakeModel{responses: []string{"The answer."}}
	generator := &Generator{
		client:      fake,
		temperature: 0.7,
		logger:      slog.Default(),
	}

	answer, err := generator.Answer(context.Background(), "why?", "some context", nil)
	require.NoError(t, err)
	assert.Equal(t, "The answer.", answer)
	assert.Equal(t, 1, fake.calls)
}
