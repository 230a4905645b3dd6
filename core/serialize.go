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

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for every record persisted in storage. Composed by hand
// from the mus-go primitive serializers; field order is the wire format and
// must not change without a migration.
var (
	IDMUS               = idSer{}
	MaterialMUS         = materialSer{}
	ChunkMUS            = chunkSer{}
	SummaryMUS          = summarySer{}
	NotesMUS            = notesSer{}
	FlashcardMUS        = flashcardSer{}
	QuizQuestionMUS     = quizQuestionSer{}
	ConversationTurnMUS = conversationTurnSer{}
)

var vectorMUS = ord.NewSliceSer[float32](raw.Float32)

type idSer struct{}

func (idSer) Marshal(id ID, bs []byte) int {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (idSer) Unmarshal(bs []byte) (ID, int, error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (idSer) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (idSer) Skip(bs []byte) (int, error) {
	return varint.Uint64.Skip(bs)
}

// Timestamps are stored as Unix microseconds.
type timeSer struct{}

var timeMUS = timeSer{}

func (timeSer) Marshal(t time.Time, bs []byte) int {
	return varint.Int64.Marshal(t.UnixMicro(), bs)
}

func (timeSer) Unmarshal(bs []byte) (time.Time, int, error) {
	v, n, err := varint.Int64.Unmarshal(bs)
	if err != nil {
		return time.Time{}, n, err
	}
	return time.UnixMicro(v).UTC(), n, nil
}

func (timeSer) Size(t time.Time) int {
	return varint.Int64.Size(t.UnixMicro())
}

func (timeSer) Skip(bs []byte) (int, error) {
	return varint.Int64.Skip(bs)
}

type materialSer struct{}

func (materialSer) Marshal(m Material, bs []byte) (n int) {
	n = IDMUS.Marshal(m.Id, bs)
	n += ord.String.Marshal(m.Owner, bs[n:])
	n += varint.Int.Marshal(int(m.SourceKind), bs[n:])
	n += ord.String.Marshal(m.SourceRef, bs[n:])
	n += ord.String.Marshal(m.Title, bs[n:])
	n += varint.Int.Marshal(int(m.State), bs[n:])
	n += varint.Int.Marshal(m.Progress, bs[n:])
	n += ord.String.Marshal(m.ExtractedText, bs[n:])
	n += ord.String.Marshal(m.ProcessingError, bs[n:])
	n += timeMUS.Marshal(m.CreatedAt, bs[n:])
	n += timeMUS.Marshal(m.UpdatedAt, bs[n:])
	return n
}

func (materialSer) Unmarshal(bs []byte) (m Material, n int, err error) {
	var n1 int
	if m.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if m.Owner, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	var v int
	if v, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	m.SourceKind = SourceKind(v)
	n += n1
	if m.SourceRef, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.Title, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if v, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	m.State = ProcessingState(v)
	n += n1
	if m.Progress, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.ExtractedText, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.ProcessingError, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	if m.UpdatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return m, n + n1, err
	}
	n += n1
	return m, n, nil
}

func (materialSer) Size(m Material) (size int) {
	size = IDMUS.Size(m.Id)
	size += ord.String.Size(m.Owner)
	size += varint.Int.Size(int(m.SourceKind))
	size += ord.String.Size(m.SourceRef)
	size += ord.String.Size(m.Title)
	size += varint.Int.Size(int(m.State))
	size += varint.Int.Size(m.Progress)
	size += ord.String.Size(m.ExtractedText)
	size += ord.String.Size(m.ProcessingError)
	size += timeMUS.Size(m.CreatedAt)
	size += timeMUS.Size(m.UpdatedAt)
	return size
}

func (s materialSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type chunkSer struct{}

func (chunkSer) Marshal(c Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(c.MaterialId, bs)
	n += varint.Int.Marshal(c.Index, bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	n += vectorMUS.Marshal(c.Vector, bs[n:])
	n += timeMUS.Marshal(c.CreatedAt, bs[n:])
	return n
}

func (chunkSer) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var n1 int
	if c.MaterialId, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if c.Index, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.Vector, n1, err = vectorMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	if c.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return c, n + n1, err
	}
	n += n1
	return c, n, nil
}

func (chunkSer) Size(c Chunk) (size int) {
	size = IDMUS.Size(c.MaterialId)
	size += varint.Int.Size(c.Index)
	size += ord.String.Size(c.Text)
	size += vectorMUS.Size(c.Vector)
	size += timeMUS.Size(c.CreatedAt)
	return size
}

func (s chunkSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type summarySer struct{}

func (summarySer) Marshal(v Summary, bs []byte) (n int) {
	n = IDMUS.Marshal(v.MaterialId, bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (summarySer) Unmarshal(bs []byte) (v Summary, n int, err error) {
	var n1 int
	if v.MaterialId, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (summarySer) Size(v Summary) int {
	return IDMUS.Size(v.MaterialId) + ord.String.Size(v.Text) + timeMUS.Size(v.CreatedAt)
}

func (s summarySer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type notesSer struct{}

func (notesSer) Marshal(v Notes, bs []byte) (n int) {
	n = IDMUS.Marshal(v.MaterialId, bs)
	n += ord.String.Marshal(v.Text, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (notesSer) Unmarshal(bs []byte) (v Notes, n int, err error) {
	var n1 int
	if v.MaterialId, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Text, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (notesSer) Size(v Notes) int {
	return IDMUS.Size(v.MaterialId) + ord.String.Size(v.Text) + timeMUS.Size(v.CreatedAt)
}

func (s notesSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type flashcardSer struct{}

func (flashcardSer) Marshal(v Flashcard, bs []byte) (n int) {
	n = IDMUS.Marshal(v.MaterialId, bs)
	n += varint.Int.Marshal(v.Index, bs[n:])
	n += ord.String.Marshal(v.Question, bs[n:])
	n += ord.String.Marshal(v.Answer, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (flashcardSer) Unmarshal(bs []byte) (v Flashcard, n int, err error) {
	var n1 int
	if v.MaterialId, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Index, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Question, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.Answer, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (flashcardSer) Size(v Flashcard) (size int) {
	size = IDMUS.Size(v.MaterialId)
	size += varint.Int.Size(v.Index)
	size += ord.String.Size(v.Question)
	size += ord.String.Size(v.Answer)
	size += timeMUS.Size(v.CreatedAt)
	return size
}

func (s flashcardSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type quizQuestionSer struct{}

func (quizQuestionSer) Marshal(v QuizQuestion, bs []byte) (n int) {
	n = IDMUS.Marshal(v.MaterialId, bs)
	n += varint.Int.Marshal(v.Index, bs[n:])
	n += ord.String.Marshal(v.Question, bs[n:])
	n += ord.String.Marshal(v.OptionA, bs[n:])
	n += ord.String.Marshal(v.OptionB, bs[n:])
	n += ord.String.Marshal(v.OptionC, bs[n:])
	n += ord.String.Marshal(v.OptionD, bs[n:])
	n += ord.String.Marshal(v.CorrectOption, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (quizQuestionSer) Unmarshal(bs []byte) (v QuizQuestion, n int, err error) {
	var n1 int
	if v.MaterialId, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.Index, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	fields := []*string{&v.Question, &v.OptionA, &v.OptionB, &v.OptionC, &v.OptionD, &v.CorrectOption}
	for _, f := range fields {
		if *f, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
			return v, n + n1, err
		}
		n += n1
	}
	if v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (quizQuestionSer) Size(v QuizQuestion) (size int) {
	size = IDMUS.Size(v.MaterialId)
	size += varint.Int.Size(v.Index)
	for _, s := range []string{v.Question, v.OptionA, v.OptionB, v.OptionC, v.OptionD, v.CorrectOption} {
		size += ord.String.Size(s)
	}
	size += timeMUS.Size(v.CreatedAt)
	return size
}

func (s quizQuestionSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}

type conversationTurnSer struct{}

func (conversationTurnSer) Marshal(v ConversationTurn, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += IDMUS.Marshal(v.MaterialId, bs[n:])
	n += varint.Int.Marshal(int(v.Role), bs[n:])
	n += ord.String.Marshal(v.Content, bs[n:])
	n += ord.String.Marshal(v.ContextTag, bs[n:])
	n += timeMUS.Marshal(v.CreatedAt, bs[n:])
	return n
}

func (conversationTurnSer) Unmarshal(bs []byte) (v ConversationTurn, n int, err error) {
	var n1 int
	if v.Id, n, err = IDMUS.Unmarshal(bs); err != nil {
		return
	}
	if v.MaterialId, n1, err = IDMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	var role int
	if role, n1, err = varint.Int.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	v.Role = TurnRole(role)
	n += n1
	if v.Content, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.ContextTag, n1, err = ord.String.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	if v.CreatedAt, n1, err = timeMUS.Unmarshal(bs[n:]); err != nil {
		return v, n + n1, err
	}
	n += n1
	return v, n, nil
}

func (conversationTurnSer) Size(v ConversationTurn) (size int) {
	size = IDMUS.Size(v.Id)
	size += IDMUS.Size(v.MaterialId)
	size += varint.Int.Size(int(v.Role))
	size += ord.String.Size(v.Content)
	size += ord.String.Size(v.ContextTag)
	size += timeMUS.Size(v.CreatedAt)
	return size
}

func (s conversationTurnSer) Skip(bs []byte) (n int, err error) {
	_, n, err = s.Unmarshal(bs)
	return n, err
}
