// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder and ai.Provider
// for use in unit tests. The mocks allow tests to run without external AI
// service dependencies and enable controlled, deterministic behavior.
//
// # Usage in Tests
//
//	// Basic usage with default behavior
//	mockProvider := mock.NewMockProvider()
//	embeddings, err := mockProvider.Embedder().EmbedText(ctx, "test")
//
//	// Custom behavior injection, e.g. a flaky service
//	mockEmbedder := mock.NewMockEmbedder().
//	    WithEmbedTextFunc(func(ctx context.Context, text string) ([]float32, error) {
//	        return nil, errors.New("503 service unavailable")
//	    })
//
//	// Check call counts
//	count := mockEmbedder.CallCount()
//
// # Default Behavior
//
// MockEmbedder returns deterministic vectors based on a hash of the text.
package mock
