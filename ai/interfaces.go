package ai

import (
	"context"

	"github.com/poiesic/capsule/core"
)

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// TopicExtractor is the topic extraction oracle: it maps a bounded text
// chunk to a set of structured topic candidates. Implementations may be
// slow and may fail per call; callers must tolerate and skip failures.
// Implementations must be thread-safe for concurrent use.
type TopicExtractor interface {
	// ExtractTopics analyzes a text chunk and extracts knowledge-capsule
	// candidates with their full attribute bundles.
	// Returns an empty slice if no topics are found.
	// Returns an error if extraction fails.
	ExtractTopics(ctx context.Context, text string) ([]core.Topic, error)
}

// Provider aggregates AI services for convenient initialization and lifecycle
// management. A provider creates and manages Embedder and TopicExtractor
// instances, ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// TopicExtractor returns the topic extraction service.
	// The returned TopicExtractor is safe for concurrent use.
	TopicExtractor() TopicExtractor

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
