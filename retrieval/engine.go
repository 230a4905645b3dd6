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

package retrieval

import (
	"context"
	"log/slog"
	"strings"

	"github.com/poiesic/studykit/ai"
	"github.com/poiesic/studykit/core"
	"github.com/poiesic/studykit/storage"
)

const (
	// similarityThreshold is deliberately permissive: study questions often
	// paraphrase the material heavily.
	similarityThreshold = 0.35
	// maxMatches caps the retrieved context chunks.
	maxMatches = 5
	// fallbackChunks is how many leading chunks serve as context when
	// nothing clears the threshold.
	fallbackChunks = 5
	// historyTurns is how many recent turns feed the prompt.
	historyTurns = 10
	// chatContextTag marks turns produced by the tutoring chat.
	chatContextTag = "chat"
)

// Engine answers questions about a material using its indexed chunks as
// grounding context and the conversation history for continuity.
type Engine struct {
	chunks        storage.ChunkRepository
	conversations storage.ConversationRepository
	embedder      ai.Embedder
	generator     ai.Generator
	logger        *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// NewEngine creates a retrieval engine.
func NewEngine(
	chunks storage.ChunkRepository,
	conversations storage.ConversationRepository,
	provider ai.AIProvider,
	opts ...Option,
) (*Engine, error) {
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if conversations == nil {
		return nil, ErrConversationRepositoryRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	e := &Engine{
		chunks:        chunks,
		conversations: conversations,
		embedder:      provider.Embedder(),
		generator:     provider.Generator(),
		logger:        slog.Default().With("component", "retrieval"),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Ask answers a question about a material and appends the exchange to the
// material's conversation.
func (e *Engine) Ask(ctx context.Context, materialID core.ID, question string) (string, error) {
	return e.AskWithMonitor(ctx, materialID, question, nil)
}

// AskWithMonitor answers a question with observability hooks.
//
// Returns ErrNotIndexed if the material has no chunks yet. When chunks exist
// but none clears the similarity threshold, the material's leading chunks
// are used as context so the tutor can still respond.
func (e *Engine) AskWithMonitor(ctx context.Context, materialID core.ID, question string, monitor AskMonitor) (string, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(question)

	indexed, err := e.chunks.HasChunks(ctx, materialID)
	if err != nil {
		return "", err
	}
	if !indexed {
		return "", ErrNotIndexed
	}

	docContext, err := e.buildContext(ctx, materialID, question, monitor)
	if err != nil {
		return "", err
	}

	history, turns, err := e.promptHistory(ctx, materialID)
	if err != nil {
		return "", err
	}
	monitor.AfterHistoryLoad(turns)

	answer, err := e.generator.Answer(ctx, question, docContext, history)
	if err != nil {
		e.logger.Error("error generating answer", "material", materialID, "err", err)
		return "", err
	}

	if err := e.persistExchange(ctx, materialID, question, answer); err != nil {
		// The user already has their answer; losing one history entry is
		// worth logging but not failing the call over.
		e.logger.Error("error persisting conversation turns",
			"material", materialID, "err", err)
	}

	monitor.Finish(answer)
	return answer, nil
}

// History returns the material's full conversation in chronological order.
func (e *Engine) History(ctx context.Context, materialID core.ID) ([]*core.ConversationTurn, error) {
	return e.conversations.GetTurns(ctx, materialID)
}

// ClearHistory removes the material's conversation.
func (e *Engine) ClearHistory(ctx context.Context, materialID core.ID) error {
	return e.conversations.ClearTurns(ctx, materialID)
}

// buildContext retrieves chunks relevant to the question, falling back to
// the material's leading chunks when nothing is similar enough.
func (e *Engine) buildContext(ctx context.Context, materialID core.ID, question string, monitor AskMonitor) (string, error) {
	vector, err := e.embedder.EmbedText(ctx, question)
	if err != nil {
		e.logger.Error("error embedding question", "material", materialID, "err", err)
		return "", err
	}
	vector = ai.NormalizeVector(vector)

	matches, err := e.chunks.FindSimilar(ctx, materialID, vector, similarityThreshold, maxMatches)
	if err != nil {
		return "", err
	}
	monitor.AfterSimilaritySearch(matches)

	if len(matches) > 0 {
		parts := make([]string, len(matches))
		for i, match := range matches {
			parts[i] = match.Chunk.Text
		}
		return strings.Join(parts, "\n\n"), nil
	}

	chunks, err := e.chunks.GetChunks(ctx, materialID)
	if err != nil {
		return "", err
	}
	if len(chunks) > fallbackChunks {
		chunks = chunks[:fallbackChunks]
	}
	monitor.FallbackUsed(len(chunks))
	e.logger.Debug("no chunks cleared similarity threshold, using leading chunks",
		"material", materialID, "chunks", len(chunks))

	parts := make([]string, len(chunks))
	for i, chunk := range chunks {
		parts[i] = chunk.Text
	}
	return strings.Join(parts, "\n\n"), nil
}

// promptHistory loads the recent conversation in chronological order.
func (e *Engine) promptHistory(ctx context.Context, materialID core.ID) ([]ai.Message, []*core.ConversationTurn, error) {
	recent, err := e.conversations.GetRecentTurns(ctx, materialID, historyTurns)
	if err != nil {
		return nil, nil, err
	}

	// GetRecentTurns returns most recent first; the prompt wants oldest first
	history := make([]ai.Message, len(recent))
	for i, turn := range recent {
		role := ai.RoleUser
		if turn.Role == core.TurnRoleAssistant {
			role = ai.RoleAssistant
		}
		history[len(recent)-1-i] = ai.Message{Role: role, Content: turn.Content}
	}
	return history, recent, nil
}

func (e *Engine) persistExchange(ctx context.Context, materialID core.ID, question, answer string) error {
	_, err := e.conversations.AddTurns(ctx,
		&core.ConversationTurn{
			MaterialId: materialID,
			Role:       core.TurnRoleUser,
			Content:    question,
			ContextTag: chatContextTag,
		},
		&core.ConversationTurn{
			MaterialId: materialID,
			Role:       core.TurnRoleAssistant,
			Content:    answer,
			ContextTag: chatContextTag,
		},
	)
	return err
}
