package reembed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/capsule/ai/mock"
	"github.com/poiesic/capsule/core"
	"github.com/poiesic/capsule/storage"
	"github.com/poiesic/capsule/storage/badger"
)

func newSeededStore(t *testing.T, count int) storage.TopicStore {
	t.Helper()
	store, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		backend.Close()
	})
	ctx := context.Background()
	require.NoError(t, store.EnsureCollection(ctx, 384))

	for i := 0; i < count; i++ {
		name := fmt.Sprintf("topic-%03d", i)
		_, err := store.Upsert(ctx, &core.StoredTopic{
			Topic:  core.Topic{Name: name, Attributes: core.TopicAttributes{Hotness: core.HotnessLow}},
			Vector: mock.DeterministicVector("stale:"+name, 384),
		})
		require.NoError(t, err)
	}
	return store
}

func TestReembedder_Run(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t, 7)
	embedder := mock.NewMockEmbedder()

	var out bytes.Buffer
	config := &Config{BatchSize: 3, ReportInterval: 3, MaxRetries: 2, RetryDelay: time.Millisecond}
	r := NewReembedder(store, embedder, config, &out)
	require.NoError(t, r.Run(ctx))

	// Every record now carries the embedding of its name, not the stale one.
	all, err := store.ScrollAll(ctx, 10)
	require.NoError(t, err)
	require.Len(t, all, 7)
	for _, record := range all {
		want := mock.DeterministicVector(record.Topic.Name, 384)
		assert.InDeltaSlice(t, want, record.Vector, 1e-5, "record %s", record.Topic.Name)
	}

	assert.Contains(t, out.String(), "Reembedding complete")
}

func TestReembedder_Run_EmptyStore(t *testing.T) {
	store := newSeededStore(t, 0)

	var out bytes.Buffer
	r := NewReembedder(store, mock.NewMockEmbedder(), nil, &out)
	require.NoError(t, r.Run(context.Background()))
	assert.Contains(t, out.String(), "No topics found")
}

func TestReembedder_Run_RetriesThenFails(t *testing.T) {
	store := newSeededStore(t, 2)
	embedder := mock.NewMockEmbedder()
	boom := errors.New("embedding service down")
	attempts := 0
	embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		attempts++
		return nil, boom
	}

	var out bytes.Buffer
	config := &Config{BatchSize: 10, ReportInterval: 10, MaxRetries: 3, RetryDelay: time.Millisecond}
	r := NewReembedder(store, embedder, config, &out)

	err := r.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, attempts)
}

func TestTopicIterator_ForEach(t *testing.T) {
	ctx := context.Background()
	store := newSeededStore(t, 5)

	t.Run("visits every record once", func(t *testing.T) {
		it := NewTopicIterator(store, 2)
		seen := make(map[string]bool)
		batches := 0
		err := it.ForEach(ctx, func(records []*core.StoredTopic) error {
			batches++
			for _, record := range records {
				assert.False(t, seen[record.Key])
				seen[record.Key] = true
			}
			return nil
		})
		require.NoError(t, err)
		assert.Len(t, seen, 5)
		assert.GreaterOrEqual(t, batches, 3)
	})

	t.Run("stops on callback error", func(t *testing.T) {
		it := NewTopicIterator(store, 2)
		boom := errors.New("stop here")
		calls := 0
		err := it.ForEach(ctx, func(records []*core.StoredTopic) error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("honors context cancellation", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		it := NewTopicIterator(store, 2)
		err := it.ForEach(cancelled, func(records []*core.StoredTopic) error {
			t.Fatal("callback should not run")
			return nil
		})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	t.Run("first attempt success", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return nil
		}, 3, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("succeeds after failures", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.New("transient")
			}
			return nil
		}, 5, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts attempts", func(t *testing.T) {
		boom := errors.New("permanent")
		calls := 0
		err := RetryWithBackoff(ctx, func() error {
			calls++
			return boom
		}, 4, time.Millisecond)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 4, calls)
	})

	t.Run("invalid max attempts", func(t *testing.T) {
		err := RetryWithBackoff(ctx, func() error { return nil }, 0, time.Millisecond)
		assert.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		err := RetryWithBackoff(cancelled, func() error { return errors.New("x") }, 3, time.Millisecond)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
