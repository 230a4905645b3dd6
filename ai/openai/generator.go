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

package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/poiesic/studykit/ai"
)

// Generator implements ai.Generator using OpenAI-compatible chat APIs.
type Generator struct {
	client      llms.Model
	temperature float64
	logger      *slog.Logger
}

// flashcardPayload matches the JSON structure requested from the model.
type flashcardPayload struct {
	Flashcards []struct {
		Question string `json:"question"`
		Answer   string `json:"answer"`
	} `json:"flashcards"`
}

// quizPayload matches the JSON structure requested from the model.
type quizPayload struct {
	Questions []struct {
		Question      string `json:"question"`
		OptionA       string `json:"option_a"`
		OptionB       string `json:"option_b"`
		OptionC       string `json:"option_c"`
		OptionD       string `json:"option_d"`
		CorrectOption string `json:"correct_option"`
	} `json:"questions"`
}

// newGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newGenerator(config *ai.Config) (*Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	// Use "none" as token for local OpenAI-compatible services that don't
	// require authentication
	client, err := openai.New(
		openai.WithBaseURL(config.ChatHost),
		openai.WithToken("none"),
		openai.WithModel(config.ChatModel),
	)
	if err != nil {
		return nil, err
	}

	return &Generator{
		client:      client,
		temperature: config.Temperature,
		logger:      slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewGenerator creates a new generator using the provided configuration.
//
// Returns ai.Generator interface to enforce abstraction.
func NewGenerator(config *ai.Config) (ai.Generator, error) {
	return newGenerator(config)
}

// GenerateSummary produces a concise summary of the text.
func (g *Generator) GenerateSummary(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Create a concise summary (3-5 paragraphs) of the following text:\n\n%s", text)
	summary, err := g.complete(ctx, summarySystemPrompt, prompt, false)
	if err != nil {
		g.logger.Error("failed to generate summary", "err", err)
		return "", err
	}
	g.logger.Debug("generated summary", "length", len(summary))
	return strings.TrimSpace(summary), nil
}

// GenerateNotes produces structured markdown study notes from the text.
func (g *Generator) GenerateNotes(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Create detailed study notes from the following text:\n\n%s", text)
	notes, err := g.complete(ctx, notesSystemPrompt, prompt, false)
	if err != nil {
		g.logger.Error("failed to generate notes", "err", err)
		return "", err
	}
	g.logger.Debug("generated notes", "length", len(notes))
	return strings.TrimSpace(notes), nil
}

// GenerateFlashcards produces question/answer flashcards from the text.
func (g *Generator) GenerateFlashcards(ctx context.Context, text string, count int) ([]ai.Flashcard, error) {
	system := fmt.Sprintf(flashcardSystemPrompt, count)
	prompt := fmt.Sprintf("Create %d flashcards based on this text:\n\n%s", count, text)

	var payload flashcardPayload
	if err := g.completeJSON(ctx, system, prompt, &payload); err != nil {
		g.logger.Error("failed to generate flashcards", "err", err)
		return nil, err
	}

	cards := make([]ai.Flashcard, 0, len(payload.Flashcards))
	for _, card := range payload.Flashcards {
		if card.Question == "" || card.Answer == "" {
			continue
		}
		cards = append(cards, ai.Flashcard{
			Question: card.Question,
			Answer:   card.Answer,
		})
	}

	g.logger.Debug("generated flashcards", "requested", count, "valid", len(cards))
	return cards, nil
}

// GenerateQuiz produces multiple-choice quiz questions from the text.
func (g *Generator) GenerateQuiz(ctx context.Context, text string, count int) ([]ai.QuizQuestion, error) {
	system := fmt.Sprintf(quizSystemPrompt, count)
	prompt := fmt.Sprintf("Create %d multiple-choice quiz questions based on this text:\n\n%s", count, text)

	var payload quizPayload
	if err := g.completeJSON(ctx, system, prompt, &payload); err != nil {
		g.logger.Error("failed to generate quiz", "err", err)
		return nil, err
	}

	questions := make([]ai.QuizQuestion, 0, len(payload.Questions))
	for _, q := range payload.Questions {
		if q.Question == "" || q.OptionA == "" || q.OptionB == "" || q.OptionC == "" || q.OptionD == "" {
			continue
		}

		// Models sometimes answer with a letter instead of the option text
		correct := strings.TrimSpace(q.CorrectOption)
		switch strings.ToLower(correct) {
		case "a":
			correct = q.OptionA
		case "b":
			correct = q.OptionB
		case "c":
			correct = q.OptionC
		case "d":
			correct = q.OptionD
		}

		// The correct answer must match one of the options verbatim
		if correct != q.OptionA && correct != q.OptionB && correct != q.OptionC && correct != q.OptionD {
			g.logger.Warn("dropping quiz question with unmatched correct option", "question", q.Question)
			continue
		}

		questions = append(questions, ai.QuizQuestion{
			Question:      q.Question,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectOption: correct,
		})
	}

	g.logger.Debug("generated quiz", "requested", count, "valid", len(questions))
	return questions, nil
}

// Answer produces a tutoring answer grounded in document context and the
// recent conversation history.
func (g *Generator) Answer(ctx context.Context, question, docContext string, history []ai.Message) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(tutorSystemPrompt)},
		},
	}

	for _, message := range history {
		role := llms.ChatMessageTypeHuman
		if message.Role == ai.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		content = append(content, llms.MessageContent{
			Role:  role,
			Parts: []llms.ContentPart{llms.TextPart(message.Content)},
		})
	}

	content = append(content, llms.MessageContent{
		Role: llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{
			llms.TextPart(fmt.Sprintf("Context from document:\n%s\n\nQuestion: %s", docContext, question)),
		},
	})

	response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(g.temperature))
	if err != nil {
		g.logger.Error("failed to generate answer", "err", err)
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", fmt.Errorf("no choices returned from model")
	}

	answer := strings.TrimSpace(response.Choices[0].Content)
	g.logger.Debug("generated answer", "length", len(answer))
	return answer, nil
}

// complete performs one chat completion with a system and user prompt.
func (g *Generator) complete(ctx context.Context, system, prompt string, jsonMode bool) (string, error) {
	content := []llms.MessageContent{
		{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		},
		{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextPart(prompt)},
		},
	}

	opts := []llms.CallOption{llms.WithTemperature(g.temperature)}
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}

	response, err := g.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", fmt.Errorf("no choices returned from model")
	}
	return response.Choices[0].Content, nil
}

// completeJSON performs a JSON-mode completion and parses the response into
// out, retrying up to 3 times on malformed JSON.
func (g *Generator) completeJSON(ctx context.Context, system, prompt string, out any) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		responseText, err := g.complete(ctx, system, prompt, true)
		if err != nil {
			return err
		}

		responseText = stripCodeFences(responseText)
		responseText = repairJSON(responseText)

		if err := json.Unmarshal([]byte(responseText), out); err != nil {
			lastErr = err
			g.logger.Warn("error parsing model response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}
		return nil
	}

	g.logger.Error("failed to parse model response after retries", "err", lastErr)
	return lastErr
}
