package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/poiesic/capsule/core"
)

// MockTopicExtractor is a test double for ai.TopicExtractor.
// It allows custom behavior injection via function fields.
type MockTopicExtractor struct {
	// ExtractTopicsFunc is called by ExtractTopics if set.
	// If nil, uses default keyword-derived topics.
	ExtractTopicsFunc func(ctx context.Context, text string) ([]core.Topic, error)

	mu        sync.Mutex
	callCount int
}

// NewMockTopicExtractor creates a mock topic extractor with default behavior.
// Note: Returns concrete type to allow test assertions.
func NewMockTopicExtractor() *MockTopicExtractor {
	return &MockTopicExtractor{}
}

// ExtractTopics derives simple mock topics from the input text.
// Default behavior: one topic per input chunk, named after the first few
// words, with a fully populated attribute bundle so validation passes.
func (m *MockTopicExtractor) ExtractTopics(ctx context.Context, text string) ([]core.Topic, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.ExtractTopicsFunc != nil {
		return m.ExtractTopicsFunc(ctx, text)
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return []core.Topic{}, nil
	}

	name := strings.Join(words[:min(5, len(words))], " ")
	name = strings.Trim(name, ".,!?;:")

	return []core.Topic{
		{
			Name: name,
			Attributes: core.TopicAttributes{
				Field:           "Technology",
				SubField:        "General",
				SubjectMatter:   "Mock subject matter derived from the chunk",
				Relevance:       "Synthetic relevance rationale for testing",
				PotentialImpact: "Synthetic impact rationale for testing",
				Hotness:         core.HotnessHigh,
			},
		},
	}, nil
}

// CallCount returns the number of times ExtractTopics was called.
func (m *MockTopicExtractor) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

// Reset clears the call count and custom functions.
func (m *MockTopicExtractor) Reset() {
	m.mu.Lock()
	m.callCount = 0
	m.mu.Unlock()
	m.ExtractTopicsFunc = nil
}
