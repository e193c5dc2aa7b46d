package ai

import "context"

// Generator produces raw text from a single prompt string.
// Implementations must be safe for concurrent use: every call is
// self-contained and no per-call state is shared between invocations.
type Generator interface {
	// Generate sends the prompt to the generative-text service and returns
	// the raw response text. Latency is unbounded; callers control timeouts
	// through ctx. Failures are classified with the package error taxonomy
	// (ErrUnavailable, ErrRateLimited, ErrMalformed).
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder generates fixed-dimension vector embeddings from text.
// Implementations must be thread-safe for concurrent use and must validate
// the dimension of every vector they return.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. The returned slice contains embeddings in the same order as the
	// input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Generator and Embedder instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Generator returns the text generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Close releases resources held by the provider and its services.
	Close() error
}
