// Package mock provides test double implementations of AI service interfaces.
//
// This package contains mock implementations of ai.Embedder, ai.TopicExtractor,
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
//	mockExtractor := mock.NewMockTopicExtractor()
//	mockExtractor.ExtractTopicsFunc = func(ctx context.Context, text string) ([]core.Topic, error) {
//	    return nil, errors.New("oracle down")
//	}
//
//	// Check call counts
//	count := mockExtractor.CallCount()
//
// # Default Behavior
//
//   - MockEmbedder: Returns deterministic unit vectors based on text hash
//   - MockTopicExtractor: Derives one fully attributed topic per chunk
//   - MockProvider: Aggregates mock embedder and extractor
package mock
