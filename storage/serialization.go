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

package storage

import (
	"github.com/poiesic/studykit/core"
)

// MarshalID serializes an ID to bytes.
func MarshalID(id core.ID) []byte {
	buf := make([]byte, core.IDMUS.Size(id))
	core.IDMUS.Marshal(id, buf)
	return buf
}

// UnmarshalID deserializes an ID from bytes.
func UnmarshalID(data []byte) (core.ID, error) {
	id, _, err := core.IDMUS.Unmarshal(data)
	return id, err
}

// MarshalMaterial serializes a Material to bytes.
func MarshalMaterial(material *core.Material) []byte {
	buf := make([]byte, core.MaterialMUS.Size(*material))
	core.MaterialMUS.Marshal(*material, buf)
	return buf
}

// UnmarshalMaterial deserializes a Material from bytes.
func UnmarshalMaterial(data []byte) (*core.Material, error) {
	material, _, err := core.MaterialMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// MarshalChunk serializes a Chunk to bytes.
func MarshalChunk(chunk *core.Chunk) []byte {
	buf := make([]byte, core.ChunkMUS.Size(*chunk))
	core.ChunkMUS.Marshal(*chunk, buf)
	return buf
}

// UnmarshalChunk deserializes a Chunk from bytes.
func UnmarshalChunk(data []byte) (*core.Chunk, error) {
	chunk, _, err := core.ChunkMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &chunk, nil
}

// MarshalSummary serializes a Summary to bytes.
func MarshalSummary(summary *core.Summary) []byte {
	buf := make([]byte, core.SummaryMUS.Size(*summary))
	core.SummaryMUS.Marshal(*summary, buf)
	return buf
}

// UnmarshalSummary deserializes a Summary from bytes.
func UnmarshalSummary(data []byte) (*core.Summary, error) {
	summary, _, err := core.SummaryMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// MarshalNotes serializes Notes to bytes.
func MarshalNotes(notes *core.Notes) []byte {
	buf := make([]byte, core.NotesMUS.Size(*notes))
	core.NotesMUS.Marshal(*notes, buf)
	return buf
}

// UnmarshalNotes deserializes Notes from bytes.
func UnmarshalNotes(data []byte) (*core.Notes, error) {
	notes, _, err := core.NotesMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &notes, nil
}

// MarshalFlashcard serializes a Flashcard to bytes.
func MarshalFlashcard(card *core.Flashcard) []byte {
	buf := make([]byte, core.FlashcardMUS.Size(*card))
	core.FlashcardMUS.Marshal(*card, buf)
	return buf
}

// UnmarshalFlashcard deserializes a Flashcard from bytes.
func UnmarshalFlashcard(data []byte) (*core.Flashcard, error) {
	card, _, err := core.FlashcardMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &card, nil
}

// MarshalQuizQuestion serializes a QuizQuestion to bytes.
func MarshalQuizQuestion(question *core.QuizQuestion) []byte {
	buf := make([]byte, core.QuizQuestionMUS.Size(*question))
	core.QuizQuestionMUS.Marshal(*question, buf)
	return buf
}

// UnmarshalQuizQuestion deserializes a QuizQuestion from bytes.
func UnmarshalQuizQuestion(data []byte) (*core.QuizQuestion, error) {
	question, _, err := core.QuizQuestionMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &question, nil
}

// MarshalConversationTurn serializes a ConversationTurn to bytes.
func MarshalConversationTurn(turn *core.ConversationTurn) []byte {
	buf := make([]byte, core.ConversationTurnMUS.Size(*turn))
	core.ConversationTurnMUS.Marshal(*turn, buf)
	return buf
}

// UnmarshalConversationTurn deserializes a ConversationTurn from bytes.
func UnmarshalConversationTurn(data []byte) (*core.ConversationTurn, error) {
	turn, _, err := core.ConversationTurnMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &turn, nil
}
