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

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/studykit/ai"
	"github.com/poiesic/studykit/core"
	"github.com/poiesic/studykit/storage"
	"github.com/poiesic/studykit/textproc"
)

// notesChunkCount is how many generation-size chunks feed the notes,
// flashcard, and quiz prompts.
const notesChunkCount = 4

// Extractor produces raw text for a material source.
type Extractor interface {
	Extract(ctx context.Context, kind core.SourceKind, sourceRef string) (string, error)
}

// Orchestrator runs materials through the processing pipeline: extraction,
// text repair, artifact generation, and embedding indexing. State and
// progress are persisted on entering each stage, so an observer polling the
// material always sees where the run is.
type Orchestrator struct {
	materials      storage.MaterialRepository
	chunks         storage.ChunkRepository
	artifacts      storage.ArtifactRepository
	extractor      Extractor
	generator      ai.Generator
	embedder       ai.Embedder
	flashcardCount int
	quizCount      int
	logger         *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithFlashcardCount sets how many flashcards to request per material.
func WithFlashcardCount(count int) Option {
	return func(o *Orchestrator) error {
		if count < 1 {
			return fmt.Errorf("flashcard count must be positive, got %d", count)
		}
		o.flashcardCount = count
		return nil
	}
}

// WithQuizCount sets how many quiz questions to request per material.
func WithQuizCount(count int) Option {
	return func(o *Orchestrator) error {
		if count < 1 {
			return fmt.Errorf("quiz count must be positive, got %d", count)
		}
		o.quizCount = count
		return nil
	}
}

// NewOrchestrator creates a processing orchestrator.
func NewOrchestrator(
	materials storage.MaterialRepository,
	chunks storage.ChunkRepository,
	artifacts storage.ArtifactRepository,
	extractor Extractor,
	provider ai.AIProvider,
	opts ...Option,
) (*Orchestrator, error) {
	if materials == nil {
		return nil, ErrMaterialRepositoryRequired
	}
	if chunks == nil {
		return nil, ErrChunkRepositoryRequired
	}
	if artifacts == nil {
		return nil, ErrArtifactRepositoryRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}
	if provider == nil {
		return nil, ErrAIProviderRequired
	}

	o := &Orchestrator{
		materials:      materials,
		chunks:         chunks,
		artifacts:      artifacts,
		extractor:      extractor,
		generator:      provider.Generator(),
		embedder:       provider.Embedder(),
		flashcardCount: 15,
		quizCount:      10,
		logger:         slog.Default().With("component", "pipeline"),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}

	return o, nil
}

// Process runs a material through the full pipeline. The run is resumable
// only by Reprocess: a material that already has extracted text and a
// summary is considered done and the run is skipped.
//
// Extraction failures are fatal and move the material to the failed state.
// Generation-stage failures are tolerated: the run continues and the
// material still completes, with the failures collected in the RunReport.
func (o *Orchestrator) Process(ctx context.Context, materialID core.ID) (*RunReport, error) {
	report := &RunReport{MaterialId: materialID, Started: time.Now().UTC()}

	material, err := o.materials.GetMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	done, err := o.alreadyProcessed(ctx, material)
	if err != nil {
		return nil, err
	}
	if done {
		report.Skipped = true
		report.FinalState = material.State
		report.Finished = time.Now().UTC()
		report.log(o.logger)
		return report, nil
	}

	text, err := o.runExtraction(ctx, material, report)
	if err != nil {
		o.failRun(ctx, material, report, err)
		report.log(o.logger)
		return report, nil
	}

	text, err = o.runTextProcessing(ctx, material, report, text)
	if err != nil {
		o.failRun(ctx, material, report, err)
		report.log(o.logger)
		return report, nil
	}

	o.runGeneration(ctx, material, report, text)
	o.runIndexing(ctx, material, report, text)

	if err := o.materials.SetMaterialState(ctx, material.Id,
		core.StateCompleted, core.ProgressFor(core.StateCompleted), ""); err != nil {
		o.logger.Error("error recording completed state", "material", material.Id, "err", err)
	}
	report.FinalState = core.StateCompleted
	report.Finished = time.Now().UTC()
	report.log(o.logger)
	return report, nil
}

// alreadyProcessed reports whether the re-entry guard applies: extracted
// text committed and a summary present.
func (o *Orchestrator) alreadyProcessed(ctx context.Context, material *core.Material) (bool, error) {
	if material.ExtractedText == "" {
		return false, nil
	}
	_, err := o.artifacts.GetSummary(ctx, material.Id)
	if errors.Is(err, storage.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// runExtraction walks the downloading and extracting stages and commits the
// raw text to the material as soon as it is available.
func (o *Orchestrator) runExtraction(ctx context.Context, material *core.Material, report *RunReport) (string, error) {
	started := time.Now()
	if err := o.enterState(ctx, material, core.StateDownloading); err != nil {
		return "", err
	}
	if material.SourceRef == "" {
		report.addStage(core.StateDownloading, core.OutcomeFailed, core.ErrEmptySourceRef, started)
		return "", core.ErrEmptySourceRef
	}
	report.addStage(core.StateDownloading, core.OutcomeOK, nil, started)

	started = time.Now()
	if err := o.enterState(ctx, material, core.StateExtracting); err != nil {
		return "", err
	}
	text, err := o.extractor.Extract(ctx, material.SourceKind, material.SourceRef)
	if err != nil {
		report.addStage(core.StateExtracting, core.OutcomeFailed, err, started)
		return "", fmt.Errorf("extraction: %w", err)
	}

	// Commit raw text right away so it survives later stage failures.
	material.ExtractedText = text
	if _, err := o.materials.UpdateMaterials(ctx, material); err != nil {
		report.addStage(core.StateExtracting, core.OutcomeFailed, err, started)
		return "", fmt.Errorf("committing extracted text: %w", err)
	}
	report.addStage(core.StateExtracting, core.OutcomeOK, nil, started)
	return text, nil
}

// runTextProcessing repairs the encoding and normalizes the text, then
// commits the cleaned version.
func (o *Orchestrator) runTextProcessing(ctx context.Context, material *core.Material, report *RunReport, text string) (string, error) {
	started := time.Now()
	if err := o.enterState(ctx, material, core.StateProcessingText); err != nil {
		return "", err
	}

	recovered, status := textproc.Recover(text)
	if status == textproc.RecoveryApplied || status == textproc.RecoveryLowConfidence {
		o.logger.Info("encoding recovery applied",
			"material", material.Id, "status", status.String())
	}

	cleaned := textproc.Normalize(recovered)
	if cleaned == "" {
		report.addStage(core.StateProcessingText, core.OutcomeFailed, core.ErrEmptyContent, started)
		return "", core.ErrEmptyContent
	}

	material.ExtractedText = cleaned
	if _, err := o.materials.UpdateMaterials(ctx, material); err != nil {
		report.addStage(core.StateProcessingText, core.OutcomeFailed, err, started)
		return "", fmt.Errorf("committing normalized text: %w", err)
	}
	report.addStage(core.StateProcessingText, core.OutcomeOK, nil, started)
	return cleaned, nil
}

// runGeneration runs the four artifact stages. Failures are recorded and
// tolerated; each artifact is replaced wholesale when its stage succeeds.
func (o *Orchestrator) runGeneration(ctx context.Context, material *core.Material, report *RunReport, text string) {
	genChunks := textproc.Chunk(text, textproc.GenerationChunkSize)
	summaryInput := genChunks[0]
	notesInput := joinChunks(genChunks, notesChunkCount)

	o.runStage(ctx, material, report, core.StateGeneratingSummary, func() error {
		summary, err := o.generator.GenerateSummary(ctx, summaryInput)
		if err != nil {
			return err
		}
		return o.artifacts.PutSummary(ctx, &core.Summary{MaterialId: material.Id, Text: summary})
	})

	o.runStage(ctx, material, report, core.StateGeneratingNotes, func() error {
		notes, err := o.generator.GenerateNotes(ctx, notesInput)
		if err != nil {
			return err
		}
		return o.artifacts.PutNotes(ctx, &core.Notes{MaterialId: material.Id, Text: notes})
	})

	o.runStage(ctx, material, report, core.StateGeneratingFlashcards, func() error {
		return o.generateFlashcards(ctx, material.Id, notesInput)
	})

	o.runStage(ctx, material, report, core.StateGeneratingQuiz, func() error {
		return o.generateQuiz(ctx, material.Id, notesInput)
	})
}

// runIndexing chunks the text at index granularity, embeds, and replaces the
// material's chunk set. A failed batch embedding falls back to per-chunk
// embedding so one bad chunk doesn't lose the rest; chunks whose embedding
// still fails are stored without a vector and serve as fallback context.
func (o *Orchestrator) runIndexing(ctx context.Context, material *core.Material, report *RunReport, text string) {
	o.runStage(ctx, material, report, core.StateGeneratingEmbeddings, func() error {
		texts := textproc.Chunk(text, textproc.IndexChunkSize)

		vectors, err := o.embedder.EmbedTexts(ctx, texts)
		if err != nil || len(vectors) != len(texts) {
			o.logger.Warn("batch embedding failed, falling back to per-chunk",
				"material", material.Id, "err", err)
			vectors = o.embedPerChunk(ctx, material.Id, texts)
		}

		chunks := make([]*core.Chunk, len(texts))
		for i, chunkText := range texts {
			chunks[i] = &core.Chunk{
				MaterialId: material.Id,
				Index:      i,
				Text:       chunkText,
				Vector:     ai.NormalizeVector(vectors[i]),
			}
		}

		_, err = o.chunks.ReplaceChunks(ctx, material.Id, chunks...)
		return err
	})
}

func (o *Orchestrator) embedPerChunk(ctx context.Context, materialID core.ID, texts []string) [][]float32 {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		vector, err := o.embedder.EmbedText(ctx, text)
		if err != nil {
			o.logger.Warn("skipping chunk embedding",
				"material", materialID, "chunk", i, "err", err)
			continue
		}
		vectors[i] = vector
	}
	return vectors
}

// runStage persists the stage's state, runs its work, and records the
// outcome. Stage failures are logged at debug level only; the run summary
// reports them once at the end.
func (o *Orchestrator) runStage(ctx context.Context, material *core.Material, report *RunReport, state core.ProcessingState, work func() error) {
	started := time.Now()
	if err := o.enterState(ctx, material, state); err != nil {
		report.addStage(state, core.OutcomeFailed, err, started)
		return
	}
	if err := work(); err != nil {
		o.logger.Debug("stage degraded", "material", material.Id,
			"stage", state.String(), "err", err)
		report.addStage(state, core.OutcomeFailed, err, started)
		return
	}
	report.addStage(state, core.OutcomeOK, nil, started)
}

func (o *Orchestrator) generateFlashcards(ctx context.Context, materialID core.ID, input string) error {
	generated, err := o.generator.GenerateFlashcards(ctx, input, o.flashcardCount)
	if err != nil {
		return err
	}
	cards := make([]*core.Flashcard, len(generated))
	for i, card := range generated {
		cards[i] = &core.Flashcard{
			MaterialId: materialID,
			Index:      i,
			Question:   card.Question,
			Answer:     card.Answer,
		}
	}
	return o.artifacts.ReplaceFlashcards(ctx, materialID, cards...)
}

func (o *Orchestrator) generateQuiz(ctx context.Context, materialID core.ID, input string) error {
	generated, err := o.generator.GenerateQuiz(ctx, input, o.quizCount)
	if err != nil {
		return err
	}
	questions := make([]*core.QuizQuestion, len(generated))
	for i, q := range generated {
		questions[i] = &core.QuizQuestion{
			MaterialId:    materialID,
			Index:         i,
			Question:      q.Question,
			OptionA:       q.OptionA,
			OptionB:       q.OptionB,
			OptionC:       q.OptionC,
			OptionD:       q.OptionD,
			CorrectOption: q.CorrectOption,
		}
	}
	return o.artifacts.ReplaceQuiz(ctx, materialID, questions...)
}

// enterState persists (state, progress) before the stage's work starts.
func (o *Orchestrator) enterState(ctx context.Context, material *core.Material, state core.ProcessingState) error {
	material.State = state
	material.Progress = core.ProgressFor(state)
	return o.materials.SetMaterialState(ctx, material.Id, state, material.Progress, "")
}

// failRun records the terminal failed state with the causing error message.
func (o *Orchestrator) failRun(ctx context.Context, material *core.Material, report *RunReport, cause error) {
	if err := o.materials.SetMaterialState(ctx, material.Id,
		core.StateFailed, core.ProgressFor(core.StateFailed), cause.Error()); err != nil {
		o.logger.Error("error recording failed state", "material", material.Id, "err", err)
	}
	report.FinalState = core.StateFailed
	report.Finished = time.Now().UTC()
}

func joinChunks(chunks []string, count int) string {
	if len(chunks) > count {
		chunks = chunks[:count]
	}
	return strings.Join(chunks, "\n\n")
}
