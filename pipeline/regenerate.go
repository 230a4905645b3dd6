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
	"fmt"

	"github.com/poiesic/studykit/core"
	"github.com/poiesic/studykit/textproc"
)

// RegenerateSummary rebuilds only the material's summary from its stored
// text, replacing the existing one.
func (o *Orchestrator) RegenerateSummary(ctx context.Context, materialID core.ID) error {
	text, err := o.extractedText(ctx, materialID)
	if err != nil {
		return err
	}
	input := textproc.Chunk(text, textproc.GenerationChunkSize)[0]
	summary, err := o.generator.GenerateSummary(ctx, input)
	if err != nil {
		return fmt.Errorf("regenerating summary: %w", err)
	}
	return o.artifacts.PutSummary(ctx, &core.Summary{MaterialId: materialID, Text: summary})
}

// RegenerateNotes rebuilds only the material's notes.
func (o *Orchestrator) RegenerateNotes(ctx context.Context, materialID core.ID) error {
	text, err := o.extractedText(ctx, materialID)
	if err != nil {
		return err
	}
	input := joinChunks(textproc.Chunk(text, textproc.GenerationChunkSize), notesChunkCount)
	notes, err := o.generator.GenerateNotes(ctx, input)
	if err != nil {
		return fmt.Errorf("regenerating notes: %w", err)
	}
	return o.artifacts.PutNotes(ctx, &core.Notes{MaterialId: materialID, Text: notes})
}

// RegenerateFlashcards rebuilds only the material's flashcard set.
func (o *Orchestrator) RegenerateFlashcards(ctx context.Context, materialID core.ID) error {
	text, err := o.extractedText(ctx, materialID)
	if err != nil {
		return err
	}
	input := joinChunks(textproc.Chunk(text, textproc.GenerationChunkSize), notesChunkCount)
	if err := o.generateFlashcards(ctx, materialID, input); err != nil {
		return fmt.Errorf("regenerating flashcards: %w", err)
	}
	return nil
}

// RegenerateQuiz rebuilds only the material's quiz.
func (o *Orchestrator) RegenerateQuiz(ctx context.Context, materialID core.ID) error {
	text, err := o.extractedText(ctx, materialID)
	if err != nil {
		return err
	}
	input := joinChunks(textproc.Chunk(text, textproc.GenerationChunkSize), notesChunkCount)
	if err := o.generateQuiz(ctx, materialID, input); err != nil {
		return fmt.Errorf("regenerating quiz: %w", err)
	}
	return nil
}

// Reprocess resets a material and runs the full pipeline again. Extracted
// text, derived artifacts, and indexed chunks are cleared first; the
// conversation history is kept.
func (o *Orchestrator) Reprocess(ctx context.Context, materialID core.ID) (*RunReport, error) {
	material, err := o.materials.GetMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	if err := o.artifacts.DeleteArtifacts(ctx, materialID); err != nil {
		return nil, fmt.Errorf("clearing artifacts: %w", err)
	}
	if _, err := o.chunks.ReplaceChunks(ctx, materialID); err != nil {
		return nil, fmt.Errorf("clearing chunks: %w", err)
	}

	material.ExtractedText = ""
	material.ProcessingError = ""
	material.State = core.StateQueued
	material.Progress = core.ProgressFor(core.StateQueued)
	if _, err := o.materials.UpdateMaterials(ctx, material); err != nil {
		return nil, fmt.Errorf("resetting material: %w", err)
	}

	return o.Process(ctx, materialID)
}

func (o *Orchestrator) extractedText(ctx context.Context, materialID core.ID) (string, error) {
	material, err := o.materials.GetMaterial(ctx, materialID)
	if err != nil {
		return "", err
	}
	if material.ExtractedText == "" {
		return "", ErrNoExtractedText
	}
	return material.ExtractedText, nil
}
