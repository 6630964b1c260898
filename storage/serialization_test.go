package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/capsule/core"
)

func TestStoredTopicRoundTrip(t *testing.T) {
	record := &core.StoredTopic{
		Key: "3f2a1d9e-0b7c-4a66-9c1f-2d8e5b4a7c10",
		Topic: core.Topic{
			Name: "Quantum Error Correction",
			Attributes: core.TopicAttributes{
				Field:           "Physics",
				SubField:        "Quantum Computing",
				SubjectMatter:   "Fault tolerance",
				Relevance:       "Prerequisite for useful quantum machines",
				PotentialImpact: "Breaks the noise barrier",
				Hotness:         core.HotnessHigh,
			},
		},
		Vector:   []float32{0.25, -0.5, 0.75, 1.0},
		StoredAt: time.Date(2025, 6, 15, 10, 30, 0, 123456000, time.UTC),
	}

	data := MarshalStoredTopic(record)
	got, err := UnmarshalStoredTopic(data)
	require.NoError(t, err)
	assert.Equal(t, record, got)
	assert.Equal(t, time.UTC, got.StoredAt.Location())
}

func TestStoredTopicRoundTrip_EmptyVector(t *testing.T) {
	record := &core.StoredTopic{
		Key:      "k",
		Topic:    core.Topic{Name: "bare"},
		StoredAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	got, err := UnmarshalStoredTopic(MarshalStoredTopic(record))
	require.NoError(t, err)
	assert.Equal(t, record, got)
	assert.Nil(t, got.Vector)
}

func TestCollectionInfoRoundTrip(t *testing.T) {
	info := &core.CollectionInfo{
		Dimension: 384,
		Metric:    core.MetricCosine,
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	got, err := UnmarshalCollectionInfo(MarshalCollectionInfo(info))
	require.NoError(t, err)
	assert.Equal(t, info, got)
}

func TestIDRoundTrip(t *testing.T) {
	for _, id := range []core.ID{0, 1, 1 << 32, 18446744073709551615} {
		got, err := UnmarshalID(MarshalID(id))
		require.NoError(t, err)
		assert.Equal(t, id, got)
	}
}

func TestUnmarshalStoredTopic_Truncated(t *testing.T) {
	record := &core.StoredTopic{
		Key:      "abc",
		Topic:    core.Topic{Name: "truncation probe"},
		Vector:   []float32{1, 2, 3},
		StoredAt: time.Now().UTC(),
	}
	data := MarshalStoredTopic(record)

	_, err := UnmarshalStoredTopic(data[:len(data)/2])
	assert.Error(t, err)
}
