package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/studykit/core"
	"github.com/poiesic/studykit/storage"
)

// ConversationRepository implements storage.ConversationRepository for BadgerDB.
type ConversationRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.ConversationRepository = (*ConversationRepository)(nil)

// NewConversationRepository creates a new ConversationRepository.
func NewConversationRepository(backend *Backend) (*ConversationRepository, error) {
	idSeq, err := backend.GetSequence(turnIDSeq)
	if err != nil {
		return nil, err
	}

	return &ConversationRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *ConversationRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *ConversationRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddTurns appends one or more turns to a material's conversation.
// Sequence IDs are monotonic, so key order doubles as insertion order.
func (r *ConversationRepository) AddTurns(ctx context.Context, turns ...*core.ConversationTurn) ([]*core.ConversationTurn, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, turn := range turns {
			if turn.Id == 0 {
				nextID, err := r.idSeq.Next()
				if err != nil {
					return err
				}
				// BadgerDB sequences can return 0 on first call, so we skip it
				if nextID == 0 {
					nextID, err = r.idSeq.Next()
					if err != nil {
						return err
					}
				}
				turn.Id = core.ID(nextID)
			}

			if turn.CreatedAt.IsZero() {
				turn.CreatedAt = time.Now().UTC()
			}

			key := makeTurnKey(turn.MaterialId, turn.Id)
			if err := tx.Set(key, storage.MarshalConversationTurn(turn)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return turns, err
}

// GetTurns retrieves all turns of a material's conversation in insertion order.
func (r *ConversationRepository) GetTurns(ctx context.Context, materialID core.ID) ([]*core.ConversationTurn, error) {
	var results []*core.ConversationTurn
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeTurnPrefix(materialID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var turn *core.ConversationTurn
			err := iter.Item().Value(func(val []byte) error {
				var err error
				turn, err = storage.UnmarshalConversationTurn(val)
				return err
			})
			if err != nil {
				return err
			}
			if turn != nil {
				results = append(results, turn)
			}
		}
		return nil
	}, false)
	return results, err
}

// GetRecentTurns retrieves up to limit most recent turns, most recent first.
func (r *ConversationRepository) GetRecentTurns(ctx context.Context, materialID core.ID, limit int) ([]*core.ConversationTurn, error) {
	if limit <= 0 {
		return nil, nil
	}

	turns, err := r.GetTurns(ctx, materialID)
	if err != nil {
		return nil, err
	}

	// Reverse tail of the chronological list
	results := make([]*core.ConversationTurn, 0, limit)
	for i := len(turns) - 1; i >= 0 && len(results) < limit; i-- {
		results = append(results, turns[i])
	}
	return results, nil
}

// ClearTurns removes every turn of a material's conversation.
func (r *ConversationRepository) ClearTurns(ctx context.Context, materialID core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deletePrefix(tx, makeTurnPrefix(materialID)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
