package ingestion

import "errors"

var (
	// ErrChunkRepositoryRequired is returned when a chunk repository is not provided.
	ErrChunkRepositoryRequired = errors.New("chunk repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrUnsupportedFormat is returned for files whose content type has no loader.
	ErrUnsupportedFormat = errors.New("unsupported document format")

	// ErrNoFiles is returned when an ingestion request carries no files.
	ErrNoFiles = errors.New("no files provided")

	// ErrInvalidMaxAttempts is returned for a non-positive retry attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)
