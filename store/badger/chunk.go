package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/assessly/core"
	"github.com/poiesic/assessly/store"
)

// ChunkRepository implements store.ChunkRepository for BadgerDB.
type ChunkRepository struct {
	backend *Backend
}

var _ store.ChunkRepository = (*ChunkRepository)(nil)

// NewChunkRepository creates a new ChunkRepository.
func NewChunkRepository(backend *Backend) *ChunkRepository {
	return &ChunkRepository{backend: backend}
}

// Close is a no-op; the backend owns the database handle.
func (r *ChunkRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *ChunkRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// QuerySimilar delegates to the backend.
func (r *ChunkRepository) QuerySimilar(ctx context.Context, vector []float32, limit int) ([]*core.ChunkMatch, error) {
	return r.backend.FindSimilar(ctx, vector, limit)
}

// UpsertChunks writes one or more chunks to storage. IDs are
// content-derived by the caller; a chunk with an existing ID replaces
// the stored record and its source index entry.
func (r *ChunkRepository) UpsertChunks(ctx context.Context, chunks ...*core.DocumentChunk) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, chunk := range chunks {
			if err := core.ValidateVectorDimension(chunk.Vector, r.backend.dimension); err != nil {
				return err
			}
			if chunk.InsertedAt.IsZero() {
				chunk.InsertedAt = time.Now().UTC()
			}

			key := makeChunkKey(chunk.Id)
			if err := tx.Set(key, store.MarshalChunk(chunk)); err != nil {
				return err
			}

			if chunk.SourceID != "" {
				sourceKey := makeChunkSourceKey(chunk.SourceID, chunk.Id)
				if err := tx.Set(sourceKey, store.MarshalID(chunk.Id)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunk retrieves a single chunk by ID.
func (r *ChunkRepository) GetChunk(ctx context.Context, id core.ID) (*core.DocumentChunk, error) {
	var result *core.DocumentChunk
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readChunk(tx, makeChunkKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return store.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// DeleteChunks removes chunks by their IDs.
func (r *ChunkRepository) DeleteChunks(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeChunkKey(id)

			chunk, err := r.readChunk(tx, key)
			if err != nil {
				return err
			}
			if chunk == nil {
				return store.ErrNotFound
			}

			if chunk.SourceID != "" {
				if err := tx.Delete(makeChunkSourceKey(chunk.SourceID, chunk.Id)); err != nil {
					return err
				}
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetChunksBySource retrieves IDs of chunks ingested from a source document.
func (r *ChunkRepository) GetChunksBySource(ctx context.Context, sourceID string) ([]core.ID, error) {
	var ids []core.ID
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialChunkSourceKey(sourceID)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				id, err := store.UnmarshalID(val)
				if err != nil {
					return err
				}
				ids = append(ids, id)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)
	return ids, err
}

// CountChunks returns the number of stored chunks.
func (r *ChunkRepository) CountChunks(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(chunkRecordPrefix + ":")
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

func (r *ChunkRepository) readChunk(tx *badger.Txn, key []byte) (*core.DocumentChunk, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var chunk *core.DocumentChunk
	err = item.Value(func(val []byte) error {
		var err error
		chunk, err = store.UnmarshalChunk(val)
		return err
	})
	return chunk, err
}
