package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validTopic() Topic {
	return Topic{
		Name: "Edge AI Inference",
		Attributes: TopicAttributes{
			Field:           "Technology",
			SubField:        "Machine Learning",
			SubjectMatter:   "Running models on constrained devices",
			Relevance:       "Enables private, low-latency intelligence",
			PotentialImpact: "Moves computation away from data centers",
			Hotness:         HotnessMedium,
		},
	}
}

func TestValidateTopic(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Topic)
		wantErr error
	}{
		{"valid topic", func(*Topic) {}, nil},
		{"nil-safe hotness empty", func(tp *Topic) { tp.Attributes.Hotness = "" }, nil},
		{"empty name", func(tp *Topic) { tp.Name = "" }, ErrEmptyTopicName},
		{"bad hotness", func(tp *Topic) { tp.Attributes.Hotness = "Scorching" }, ErrInvalidHotness},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topic := validTopic()
			tt.mutate(&topic)
			err := ValidateTopic(&topic)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.ErrorIs(t, err, ErrInvalidTopic)
			}
		})
	}

	t.Run("nil topic", func(t *testing.T) {
		assert.ErrorIs(t, ValidateTopic(nil), ErrInvalidTopic)
	})
}

func TestValidateStoredTopic(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		record := &StoredTopic{Topic: validTopic(), Vector: []float32{0.1, 0.2}}
		assert.NoError(t, ValidateStoredTopic(record))
	})

	t.Run("missing vector", func(t *testing.T) {
		record := &StoredTopic{Topic: validTopic()}
		assert.ErrorIs(t, ValidateStoredTopic(record), ErrEmptyVector)
	})

	t.Run("invalid inner topic", func(t *testing.T) {
		record := &StoredTopic{Vector: []float32{0.1}}
		assert.ErrorIs(t, ValidateStoredTopic(record), ErrInvalidTopic)
	})

	t.Run("nil record", func(t *testing.T) {
		assert.ErrorIs(t, ValidateStoredTopic(nil), ErrInvalidStoredTopic)
	})
}

func TestIsValidHotness(t *testing.T) {
	assert.True(t, IsValidHotness(HotnessHigh))
	assert.True(t, IsValidHotness(HotnessMedium))
	assert.True(t, IsValidHotness(HotnessLow))
	assert.False(t, IsValidHotness("high"))
	assert.False(t, IsValidHotness(""))
}
