package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/studykit/core"
	"github.com/poiesic/studykit/storage"
)

// MaterialRepository implements storage.MaterialRepository for BadgerDB.
type MaterialRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ storage.MaterialRepository = (*MaterialRepository)(nil)

// NewMaterialRepository creates a new MaterialRepository.
func NewMaterialRepository(backend *Backend) (*MaterialRepository, error) {
	idSeq, err := backend.GetSequence(materialIDSeq)
	if err != nil {
		return nil, err
	}

	return &MaterialRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *MaterialRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *MaterialRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddMaterials adds one or more materials to storage.
func (r *MaterialRepository) AddMaterials(ctx context.Context, materials ...*core.Material) ([]*core.Material, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, material := range materials {
			if material.Id == 0 {
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
				material.Id = core.ID(nextID)
			}

			if material.CreatedAt.IsZero() {
				material.CreatedAt = time.Now().UTC()
			}
			material.UpdatedAt = material.CreatedAt

			key := makeMaterialKey(material.Id)
			if err := tx.Set(key, storage.MarshalMaterial(material)); err != nil {
				return err
			}

			ownerKey := makeMaterialOwnerKey(material.Owner, material.CreatedAt, material.Id)
			if err := tx.Set(ownerKey, storage.MarshalID(material.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return materials, err
}

// UpdateMaterials updates existing materials.
func (r *MaterialRepository) UpdateMaterials(ctx context.Context, materials ...*core.Material) ([]*core.Material, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, material := range materials {
			key := makeMaterialKey(material.Id)

			old, err := r.readMaterial(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			material.UpdatedAt = time.Now().UTC()

			if err := tx.Set(key, storage.MarshalMaterial(material)); err != nil {
				return err
			}

			// Update owner index if ownership or creation time moved
			if old.Owner != material.Owner || !old.CreatedAt.Equal(material.CreatedAt) {
				if err := tx.Delete(makeMaterialOwnerKey(old.Owner, old.CreatedAt, old.Id)); err != nil {
					return err
				}
				ownerKey := makeMaterialOwnerKey(material.Owner, material.CreatedAt, material.Id)
				if err := tx.Set(ownerKey, storage.MarshalID(material.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)

	return materials, err
}

// SetMaterialState atomically records a state transition for a material.
func (r *MaterialRepository) SetMaterialState(ctx context.Context, id core.ID, state core.ProcessingState, progress int, processingError string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeMaterialKey(id)

		material, err := r.readMaterial(tx, key)
		if err != nil {
			return err
		}
		if material == nil {
			return storage.ErrNotFound
		}

		material.State = state
		material.Progress = progress
		material.ProcessingError = processingError
		material.UpdatedAt = time.Now().UTC()

		if err := tx.Set(key, storage.MarshalMaterial(material)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetMaterial retrieves a single material by ID.
func (r *MaterialRepository) GetMaterial(ctx context.Context, id core.ID) (*core.Material, error) {
	var result *core.Material
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readMaterial(tx, makeMaterialKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// ListMaterialsByOwner retrieves all materials belonging to an owner,
// ordered by creation time ascending.
func (r *MaterialRepository) ListMaterialsByOwner(ctx context.Context, owner string) ([]*core.Material, error) {
	var results []*core.Material
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeMaterialOwnerPrefix(owner)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var materialID core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				materialID, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			material, err := r.readMaterial(tx, makeMaterialKey(materialID))
			if err != nil {
				return err
			}
			if material != nil {
				results = append(results, material)
			}
		}
		return nil
	}, false)
	return results, err
}

// DeleteMaterials removes materials by their IDs.
func (r *MaterialRepository) DeleteMaterials(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeMaterialKey(id)

			material, err := r.readMaterial(tx, key)
			if err != nil {
				return err
			}
			if material == nil {
				return storage.ErrNotFound
			}

			if err := tx.Delete(makeMaterialOwnerKey(material.Owner, material.CreatedAt, material.Id)); err != nil {
				return err
			}
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// readMaterial reads a material by key within a transaction.
// Returns nil without error when the key does not exist.
func (r *MaterialRepository) readMaterial(tx *badger.Txn, key []byte) (*core.Material, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var material *core.Material
	err = item.Value(func(val []byte) error {
		var err error
		material, err = storage.UnmarshalMaterial(val)
		return err
	})
	if err != nil {
		return nil, err
	}
	return material, nil
}
