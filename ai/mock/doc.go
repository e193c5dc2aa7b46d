// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Generator, ai.Embedder,
// and ai.Provider for use in unit tests. The mocks allow tests to run without
// external AI service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	vector, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection
//	mockGenerator := mock.NewMockGenerator()
//	mockGenerator.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
//	    return "0.95", nil
//	}
//
//	// Check call counts
//	count := mockGenerator.CallCount()
//
// # Default Behavior
//
// The mock implementations provide sensible defaults:
//
//   - MockGenerator: Echoes an empty JSON array (a valid question list)
//   - MockEmbedder: Returns deterministic vectors based on text hash
//   - MockProvider: Aggregates mock generator and embedder
//
// MockGenerator is safe for concurrent use, which matters for code that
// fans judge calls out across a worker pool.
package mock
