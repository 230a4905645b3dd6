package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/studykit/core"
	"github.com/poiesic/studykit/storage"
)

// ArtifactRepository implements storage.ArtifactRepository for BadgerDB.
// Each artifact kind is replaced wholesale on regeneration.
type ArtifactRepository struct {
	backend *Backend
}

var _ storage.ArtifactRepository = (*ArtifactRepository)(nil)

// NewArtifactRepository creates a new ArtifactRepository.
func NewArtifactRepository(backend *Backend) *ArtifactRepository {
	return &ArtifactRepository{backend: backend}
}

// Close implements storage.Repository. Artifacts hold no sequence.
func (r *ArtifactRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ArtifactRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// PutSummary stores the material's summary, replacing any existing one.
func (r *ArtifactRepository) PutSummary(ctx context.Context, summary *core.Summary) error {
	if summary.CreatedAt.IsZero() {
		summary.CreatedAt = time.Now().UTC()
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeSummaryKey(summary.MaterialId)
		if err := tx.Set(key, storage.MarshalSummary(summary)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetSummary retrieves the material's summary.
func (r *ArtifactRepository) GetSummary(ctx context.Context, materialID core.ID) (*core.Summary, error) {
	var result *core.Summary
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeSummaryKey(materialID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalSummary(val)
			return err
		})
	}, false)
	return result, err
}

// PutNotes stores the material's notes, replacing any existing ones.
func (r *ArtifactRepository) PutNotes(ctx context.Context, notes *core.Notes) error {
	if notes.CreatedAt.IsZero() {
		notes.CreatedAt = time.Now().UTC()
	}
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeNotesKey(notes.MaterialId)
		if err := tx.Set(key, storage.MarshalNotes(notes)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetNotes retrieves the material's notes.
func (r *ArtifactRepository) GetNotes(ctx context.Context, materialID core.ID) (*core.Notes, error) {
	var result *core.Notes
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeNotesKey(materialID))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			var err error
			result, err = storage.UnmarshalNotes(val)
			return err
		})
	}, false)
	return result, err
}

// ReplaceFlashcards atomically replaces the material's flashcard set.
func (r *ArtifactRepository) ReplaceFlashcards(ctx context.Context, materialID core.ID, cards ...*core.Flashcard) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deletePrefix(tx, makeFlashcardPrefix(materialID)); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, card := range cards {
			card.MaterialId = materialID
			if card.CreatedAt.IsZero() {
				card.CreatedAt = now
			}
			key := makeFlashcardKey(materialID, card.Index)
			if err := tx.Set(key, storage.MarshalFlashcard(card)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetFlashcards retrieves the material's flashcards ordered by index.
func (r *ArtifactRepository) GetFlashcards(ctx context.Context, materialID core.ID) ([]*core.Flashcard, error) {
	var results []*core.Flashcard
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeFlashcardPrefix(materialID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var card *core.Flashcard
			err := iter.Item().Value(func(val []byte) error {
				var err error
				card, err = storage.UnmarshalFlashcard(val)
				return err
			})
			if err != nil {
				return err
			}
			if card != nil {
				results = append(results, card)
			}
		}
		return nil
	}, false)
	return results, err
}

// ReplaceQuiz atomically replaces the material's quiz question set.
func (r *ArtifactRepository) ReplaceQuiz(ctx context.Context, materialID core.ID, questions ...*core.QuizQuestion) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deletePrefix(tx, makeQuizPrefix(materialID)); err != nil {
			return err
		}

		now := time.Now().UTC()
		for _, question := range questions {
			question.MaterialId = materialID
			if question.CreatedAt.IsZero() {
				question.CreatedAt = now
			}
			key := makeQuizKey(materialID, question.Index)
			if err := tx.Set(key, storage.MarshalQuizQuestion(question)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetQuiz retrieves the material's quiz questions ordered by index.
func (r *ArtifactRepository) GetQuiz(ctx context.Context, materialID core.ID) ([]*core.QuizQuestion, error) {
	var results []*core.QuizQuestion
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeQuizPrefix(materialID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var question *core.QuizQuestion
			err := iter.Item().Value(func(val []byte) error {
				var err error
				question, err = storage.UnmarshalQuizQuestion(val)
				return err
			})
			if err != nil {
				return err
			}
			if question != nil {
				results = append(results, question)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteArtifacts removes every artifact of the material.
func (r *ArtifactRepository) DeleteArtifacts(ctx context.Context, materialID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Delete(makeSummaryKey(materialID)); err != nil {
			return err
		}
		if err := tx.Delete(makeNotesKey(materialID)); err != nil {
			return err
		}
		if err := deletePrefix(tx, makeFlashcardPrefix(materialID)); err != nil {
			return err
		}
		if err := deletePrefix(tx, makeQuizPrefix(materialID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
