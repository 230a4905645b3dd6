package badger

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/poiesic/studykit/core"
)

// Key prefixes for different data types
const (
	materialPrefix      = "matrec"
	materialOwnerPrefix = "matreco"
	materialIDSeq       = "matrecseq"
	chunkPrefix         = "chkrec"
	summaryPrefix       = "sumrec"
	notesPrefix         = "notrec"
	flashcardPrefix     = "flcrec"
	quizPrefix          = "qzqrec"
	turnPrefix          = "cnvrec"
	turnIDSeq           = "cnvrecseq"
)

// makeMaterialKey generates a key for a material by ID.
func makeMaterialKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", materialPrefix, id))
}

// makeMaterialOwnerKey generates a composite key for the owner index.
// Format: prefix:len(owner):owner:createdAt:id
func makeMaterialOwnerKey(owner string, createdAt time.Time, id core.ID) []byte {
	base := makeMaterialOwnerPrefix(owner)
	buf := make([]byte, len(base)+16)
	offset := copy(buf, base)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(createdAt.UnixMicro()))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

// makeMaterialOwnerPrefix generates the scan prefix for one owner's index.
// The owner component is length-prefixed so no owner's scan prefix can be
// a prefix of another owner's keys, whatever characters the owner contains.
func makeMaterialOwnerPrefix(owner string) []byte {
	prefix := materialOwnerPrefix + ":"
	buf := make([]byte, len(prefix)+4+len(owner))
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], uint32(len(owner)))
	offset += 4
	copy(buf[offset:], owner)
	return buf
}

// makeChunkKey generates a composite key for a chunk.
// Format: prefix:materialID:index, with fixed-width BigEndian fields so a
// prefix scan yields chunks in index order.
func makeChunkKey(materialID core.ID, index int) []byte {
	prefix := chunkPrefix + ":"
	buf := make([]byte, len(prefix)+12)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(materialID))
	offset += 8
	binary.BigEndian.PutUint32(buf[offset:], uint32(index))
	return buf
}

// makeChunkPrefix generates the scan prefix for one material's chunks.
func makeChunkPrefix(materialID core.ID) []byte {
	prefix := chunkPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(materialID))
	return buf
}

// makeSummaryKey generates a key for a material's summary.
func makeSummaryKey(materialID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", summaryPrefix, materialID))
}

// makeNotesKey generates a key for a material's notes.
func makeNotesKey(materialID core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", notesPrefix, materialID))
}

// makeFlashcardKey generates a composite key for a flashcard.
// Format: prefix:materialID:index
func makeFlashcardKey(materialID core.ID, index int) []byte {
	prefix := flashcardPrefix + ":"
	buf := make([]byte, len(prefix)+12)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(materialID))
	offset += 8
	binary.BigEndian.PutUint32(buf[offset:], uint32(index))
	return buf
}

// makeFlashcardPrefix generates the scan prefix for one material's flashcards.
func makeFlashcardPrefix(materialID core.ID) []byte {
	prefix := flashcardPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(materialID))
	return buf
}

// makeQuizKey generates a composite key for a quiz question.
// Format: prefix:materialID:index
func makeQuizKey(materialID core.ID, index int) []byte {
	prefix := quizPrefix + ":"
	buf := make([]byte, len(prefix)+12)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(materialID))
	offset += 8
	binary.BigEndian.PutUint32(buf[offset:], uint32(index))
	return buf
}

// makeQuizPrefix generates the scan prefix for one material's quiz questions.
func makeQuizPrefix(materialID core.ID) []byte {
	prefix := quizPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(materialID))
	return buf
}

// makeTurnKey generates a composite key for a conversation turn.
// Format: prefix:materialID:turnID, so a prefix scan yields one material's
// turns in insertion order.
func makeTurnKey(materialID, turnID core.ID) []byte {
	prefix := turnPrefix + ":"
	buf := make([]byte, len(prefix)+16)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(materialID))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(turnID))
	return buf
}

// makeTurnPrefix generates the scan prefix for one material's turns.
func makeTurnPrefix(materialID core.ID) []byte {
	prefix := turnPrefix + ":"
	buf := make([]byte, len(prefix)+8)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint64(buf[offset:], uint64(materialID))
	return buf
}
