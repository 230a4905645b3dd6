package mock

import (
	"context"
	"fmt"

	"github.com/poiesic/studykit/ai"
)

// MockGenerator is a test double for ai.Generator.
// It allows custom behavior injection via function fields; defaults produce
// small deterministic artifacts derived from the input text.
type MockGenerator struct {
	GenerateSummaryFunc    func(ctx context.Context, text string) (string, error)
	GenerateNotesFunc      func(ctx context.Context, text string) (string, error)
	GenerateFlashcardsFunc func(ctx context.Context, text string, count int) ([]ai.Flashcard, error)
	GenerateQuizFunc       func(ctx context.Context, text string, count int) ([]ai.QuizQuestion, error)
	AnswerFunc             func(ctx context.Context, question, docContext string, history []ai.Message) (string, error)

	callCount int
}

// NewMockGenerator creates a mock generator with default deterministic behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{}
}

// GenerateSummary returns a canned summary unless a custom func is set.
func (m *MockGenerator) GenerateSummary(ctx context.Context, text string) (string, error) {
	m.callCount++
	if m.GenerateSummaryFunc != nil {
		return m.GenerateSummaryFunc(ctx, text)
	}
	return fmt.Sprintf("Summary of %d characters of material.", len(text)), nil
}

// GenerateNotes returns canned notes unless a custom func is set.
func (m *MockGenerator) GenerateNotes(ctx context.Context, text string) (string, error) {
	m.callCount++
	if m.GenerateNotesFunc != nil {
		return m.GenerateNotesFunc(ctx, text)
	}
	return fmt.Sprintf("# Notes\n\n- covers %d characters", len(text)), nil
}

// GenerateFlashcards returns count canned flashcards unless a custom func is set.
func (m *MockGenerator) GenerateFlashcards(ctx context.Context, text string, count int) ([]ai.Flashcard, error) {
	m.callCount++
	if m.GenerateFlashcardsFunc != nil {
		return m.GenerateFlashcardsFunc(ctx, text, count)
	}
	cards := make([]ai.Flashcard, count)
	for i := range cards {
		cards[i] = ai.Flashcard{
			Question: fmt.Sprintf("Question %d?", i+1),
			Answer:   fmt.Sprintf("Answer %d.", i+1),
		}
	}
	return cards, nil
}

// GenerateQuiz returns count canned quiz questions unless a custom func is set.
func (m *MockGenerator) GenerateQuiz(ctx context.Context, text string, count int) ([]ai.QuizQuestion, error) {
	m.callCount++
	if m.GenerateQuizFunc != nil {
		return m.GenerateQuizFunc(ctx, text, count)
	}
	questions := make([]ai.QuizQuestion, count)
	for i := range questions {
		questions[i] = ai.QuizQuestion{
			Question:      fmt.Sprintf("Quiz question %d?", i+1),
			OptionA:       "alpha",
			OptionB:       "bravo",
			OptionC:       "charlie",
			OptionD:       "delta",
			CorrectOption: "alpha",
		}
	}
	return questions, nil
}

// Answer returns a canned answer unless a custom func is set.
func (m *MockGenerator) Answer(ctx context.Context, question, docContext string, history []ai.Message) (string, error) {
	m.callCount++
	if m.AnswerFunc != nil {
		return m.AnswerFunc(ctx, question, docContext, history)
	}
	return fmt.Sprintf("Mock answer to: %s", question), nil
}

// CallCount returns the number of times any method was called.
func (m *MockGenerator) CallCount() int {
	return m.callCount
}

// Reset clears the call count and injected behavior.
func (m *MockGenerator) Reset() {
	m.callCount = 0
	m.GenerateSummaryFunc = nil
	m.GenerateNotesFunc = nil
	m.GenerateFlashcardsFunc = nil
	m.GenerateQuizFunc = nil
	m.AnswerFunc = nil
}
