package store

import (
	"context"

	"github.com/poiesic/assessly/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	// The context passed to fn may contain transaction state.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// ChunkRepository provides operations for managing document chunks and
// querying them by vector similarity.
type ChunkRepository interface {
	Repository

	// UpsertChunks writes one or more chunks to storage. Chunk IDs are
	// content-derived, so re-ingesting the same text overwrites rather
	// than duplicates.
	UpsertChunks(ctx context.Context, chunks ...*core.DocumentChunk) error

	// GetChunk retrieves a single chunk by ID.
	// Returns ErrNotFound if the chunk doesn't exist.
	GetChunk(ctx context.Context, id core.ID) (*core.DocumentChunk, error)

	// DeleteChunks removes chunks by their IDs.
	// Returns ErrNotFound if any chunk doesn't exist.
	DeleteChunks(ctx context.Context, ids ...core.ID) error

	// QuerySimilar finds the chunks most similar to the given vector.
	// Returns up to limit matches ordered by similarity, highest first.
	// Returns ErrInvalidQuery if limit is not positive.
	QuerySimilar(ctx context.Context, vector []float32, limit int) ([]*core.ChunkMatch, error)

	// CountChunks returns the number of stored chunks.
	CountChunks(ctx context.Context) (int, error)
}

// AssessmentRepository provides operations for persisting generated
// assessments.
type AssessmentRepository interface {
	Repository

	// AddAssessments adds one or more assessments to storage.
	// Each assessment is assigned a fresh sequence ID and insert
	// timestamps; any caller-supplied values are overwritten.
	// Returns the assessments with IDs and timestamps populated.
	AddAssessments(ctx context.Context, assessments ...*core.Assessment) ([]*core.Assessment, error)

	// GetAssessment retrieves a single assessment by ID.
	// Returns ErrNotFound if the assessment doesn't exist.
	GetAssessment(ctx context.Context, id core.ID) (*core.Assessment, error)

	// GetRecentAssessments retrieves the N most recently inserted
	// assessments, newest first.
	GetRecentAssessments(ctx context.Context, limit int) ([]*core.Assessment, error)

	// DeleteAssessments removes assessments by their IDs.
	// Returns ErrNotFound if any assessment doesn't exist.
	DeleteAssessments(ctx context.Context, ids ...core.ID) error
}
