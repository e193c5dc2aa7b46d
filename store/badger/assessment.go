package badger

import (
	"context"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/assessly/core"
	"github.com/poiesic/assessly/store"
)

// AssessmentRepository implements store.AssessmentRepository for BadgerDB.
type AssessmentRepository struct {
	backend *Backend
	idSeq   *badger.Sequence
}

var _ store.AssessmentRepository = (*AssessmentRepository)(nil)

// NewAssessmentRepository creates a new AssessmentRepository.
func NewAssessmentRepository(backend *Backend) (*AssessmentRepository, error) {
	idSeq, err := backend.GetSequence(assessmentIDSeq)
	if err != nil {
		return nil, err
	}

	return &AssessmentRepository{
		backend: backend,
		idSeq:   idSeq,
	}, nil
}

// Close releases the ID sequence.
func (r *AssessmentRepository) Close() error {
	return r.idSeq.Release()
}

// WithTransaction delegates to the backend.
func (r *AssessmentRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddAssessments adds one or more assessments to storage.
func (r *AssessmentRepository) AddAssessments(ctx context.Context, assessments ...*core.Assessment) ([]*core.Assessment, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, assessment := range assessments {
			if err := core.ValidateAssessment(assessment); err != nil {
				return err
			}

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
			assessment.Id = core.ID(nextID)

			assessment.InsertedAt = time.Now().UTC()
			assessment.UpdatedAt = assessment.InsertedAt

			key := makeAssessmentKey(assessment.Id)
			if err := tx.Set(key, store.MarshalAssessment(assessment)); err != nil {
				return err
			}

			dateKey := makeAssessmentDateKey(assessment.InsertedAt, assessment.Id)
			if err := tx.Set(dateKey, store.MarshalID(assessment.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return assessments, err
}

// GetAssessment retrieves a single assessment by ID.
func (r *AssessmentRepository) GetAssessment(ctx context.Context, id core.ID) (*core.Assessment, error) {
	var result *core.Assessment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = r.readAssessment(tx, makeAssessmentKey(id))
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

// GetRecentAssessments retrieves the N most recently inserted assessments,
// newest first.
func (r *AssessmentRepository) GetRecentAssessments(ctx context.Context, limit int) ([]*core.Assessment, error) {
	if limit <= 0 {
		return nil, store.ErrInvalidQuery
	}

	var results []*core.Assessment
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(assessmentDatePrefix + ":")
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		// Reverse iteration starts past the end of the prefix range
		seekKey := append([]byte(assessmentDatePrefix+":"), 0xFF)

		for iter.Seek(seekKey); iter.Valid() && len(results) < limit; iter.Next() {
			var id core.ID
			err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = store.UnmarshalID(val)
				return err
			})
			if err != nil {
				return err
			}

			assessment, err := r.readAssessment(tx, makeAssessmentKey(id))
			if err != nil {
				return err
			}
			if assessment != nil {
				results = append(results, assessment)
			}
		}
		return nil
	}, false)

	return results, err
}

// DeleteAssessments removes assessments by their IDs.
func (r *AssessmentRepository) DeleteAssessments(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeAssessmentKey(id)

			assessment, err := r.readAssessment(tx, key)
			if err != nil {
				return err
			}
			if assessment == nil {
				return store.ErrNotFound
			}

			dateKey := makeAssessmentDateKey(assessment.InsertedAt, assessment.Id)
			if err := tx.Delete(dateKey); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

func (r *AssessmentRepository) readAssessment(tx *badger.Txn, key []byte) (*core.Assessment, error) {
	item, err := tx.Get(key)
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var assessment *core.Assessment
	err = item.Value(func(val []byte) error {
		var err error
		assessment, err = store.UnmarshalAssessment(val)
		return err
	})
	return assessment, err
}
