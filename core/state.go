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


package core

// ProcessingState is a material's position in the processing pipeline.
type ProcessingState int

const (
	// StateQueued means the material is waiting for a worker.
	StateQueued ProcessingState = iota + 1
	// StateDownloading means source bytes are being fetched.
	StateDownloading
	// StateExtracting means text is being extracted from the source.
	StateExtracting
	// StateProcessingText means encoding repair and normalization are running.
	StateProcessingText
	// StateGeneratingSummary through StateGeneratingEmbeddings are the
	// derived-artifact stages. Each is optional except embeddings input text.
	StateGeneratingSummary
	StateGeneratingNotes
	StateGeneratingFlashcards
	StateGeneratingQuiz
	StateGeneratingEmbeddings
	// StateCompleted is terminal success. Extracted text is always present.
	StateCompleted
	// StateFailed is terminal failure. Reached only via exhausted retries
	// or a fatal extraction error; recovery requires a full reprocess.
	StateFailed
)

var stateNames = map[ProcessingState]string{
	StateQueued:               "queued",
	StateDownloading:          "downloading",
	StateExtracting:           "extracting",
	StateProcessingText:       "processing_text",
	StateGeneratingSummary:    "generating_summary",
	StateGeneratingNotes:      "generating_notes",
	StateGeneratingFlashcards: "generating_flashcards",
	StateGeneratingQuiz:       "generating_quiz",
	StateGeneratingEmbeddings: "generating_embeddings",
	StateCompleted:            "completed",
	StateFailed:               "failed",
}

func (s ProcessingState) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// Terminal reports whether the state ends a pipeline run.
func (s ProcessingState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// stateProgress maps each state to the progress persisted on entering it.
// Values increase strictly along the pipeline so progress stays monotonic
// within a run.
var stateProgress = map[ProcessingState]int{
	StateQueued:               0,
	StateDownloading:          5,
	StateExtracting:           10,
	StateProcessingText:       25,
	StateGeneratingSummary:    35,
	StateGeneratingNotes:      50,
	StateGeneratingFlashcards: 60,
	StateGeneratingQuiz:       70,
	StateGeneratingEmbeddings: 85,
	StateCompleted:            100,
	StateFailed:               0,
}

// ProgressFor returns the progress percentage persisted alongside a state.
func ProgressFor(s ProcessingState) int {
	return stateProgress[s]
}

// StageOutcome is the result of one pipeline stage.
type StageOutcome int

const (
	// OutcomeOK means the stage produced its result.
	OutcomeOK StageOutcome = iota + 1
	// OutcomeFailed means the stage errored. Optional stages continue the
	// run; extraction failure is fatal for document sources.
	OutcomeFailed
	// OutcomeSkipped means the stage did not apply (e.g. nothing to do).
	OutcomeSkipped
)

func (o StageOutcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// nextState is the explicit transition table. Generation stages advance
// regardless of outcome: their failures are tolerated and the run continues.
var nextState = map[ProcessingState]ProcessingState{
	StateQueued:               StateDownloading,
	StateDownloading:          StateExtracting,
	StateExtracting:           StateProcessingText,
	StateProcessingText:       StateGeneratingSummary,
	StateGeneratingSummary:    StateGeneratingNotes,
	StateGeneratingNotes:      StateGeneratingFlashcards,
	StateGeneratingFlashcards: StateGeneratingQuiz,
	StateGeneratingQuiz:       StateGeneratingEmbeddings,
	StateGeneratingEmbeddings: StateCompleted,
}

// NextState returns the state following s given the outcome of s's stage.
// A failed outcome in the extraction stage moves to StateFailed; failures in
// generation stages advance normally. Terminal states return themselves.
func NextState(s ProcessingState, outcome StageOutcome) ProcessingState {
	if s.Terminal() {
		return s
	}
	if outcome == OutcomeFailed {
		switch s {
		case StateDownloading, StateExtracting:
			return StateFailed
		}
	}
	next, ok := nextState[s]
	if !ok {
		return StateFailed
	}
	return next
}
