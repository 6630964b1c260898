package dedup

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/capsule/ai/mock"
	"github.com/poiesic/capsule/core"
	"github.com/poiesic/capsule/storage"
	"github.com/poiesic/capsule/storage/badger"
)

func newTestDeduplicator(t *testing.T, opts ...Option) (*Deduplicator, storage.TopicStore, *mock.MockEmbedder) {
	t.Helper()
	store, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() {
		store.Close()
		backend.Close()
	})
	require.NoError(t, store.EnsureCollection(context.Background(), 384))

	embedder := mock.NewMockEmbedder()
	d, err := New(store, embedder, opts...)
	require.NoError(t, err)
	return d, store, embedder
}

func candidate(name string) core.Topic {
	return core.Topic{
		Name: name,
		Attributes: core.TopicAttributes{
			Field:   "Physics",
			Hotness: core.HotnessHigh,
		},
	}
}

func storeCount(t *testing.T, store storage.TopicStore) int {
	t.Helper()
	all, err := store.ScrollAll(context.Background(), 50)
	require.NoError(t, err)
	return len(all)
}

func TestNew_Validation(t *testing.T) {
	store, backend, err := badger.NewMemoryStore()
	require.NoError(t, err)
	defer backend.Close()
	defer store.Close()
	embedder := mock.NewMockEmbedder()

	_, err = New(nil, embedder)
	assert.ErrorIs(t, err, ErrNilStore)

	_, err = New(store, nil)
	assert.ErrorIs(t, err, ErrNilEmbedder)

	_, err = New(store, embedder, WithThreshold(0))
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = New(store, embedder, WithThreshold(1.5))
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = New(store, embedder, WithSearchLimit(0))
	assert.ErrorIs(t, err, ErrInvalidSearchLimit)
}

func TestRemoveExact(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, RemoveExact(nil))
		assert.Empty(t, RemoveExact([]core.Topic{}))
	})

	t.Run("collapses exact duplicates keeping first occurrence", func(t *testing.T) {
		a := candidate("Neuromorphic Chips")
		b := candidate("Solid State Batteries")
		input := []core.Topic{a, b, a, a, b}

		unique := RemoveExact(input)
		require.Len(t, unique, 2)
		assert.Equal(t, a, unique[0])
		assert.Equal(t, b, unique[1])
	})

	t.Run("attribute difference is a distinct identity", func(t *testing.T) {
		a := candidate("Gene Editing")
		b := candidate("Gene Editing")
		b.Attributes.Hotness = core.HotnessLow

		unique := RemoveExact([]core.Topic{a, b})
		assert.Len(t, unique, 2)
	})
}

func TestDeduplicator_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("novel topic is stored", func(t *testing.T) {
		d, store, _ := newTestDeduplicator(t)

		outcome := d.Store(ctx, candidate("Fusion Ignition"))
		require.NoError(t, outcome.Err)
		assert.True(t, outcome.Accepted())
		assert.False(t, outcome.Rejected())
		assert.NotEmpty(t, outcome.Stored.Key)
		assert.Equal(t, 1, storeCount(t, store))
	})

	t.Run("similar topic is rejected without storing", func(t *testing.T) {
		d, store, _ := newTestDeduplicator(t)

		first := d.Store(ctx, candidate("Fusion Ignition"))
		require.True(t, first.Accepted())

		// Same name embeds to the same vector: similarity 1.0.
		second := d.Store(ctx, candidate("Fusion Ignition"))
		require.NoError(t, second.Err)
		assert.True(t, second.Rejected())
		assert.Nil(t, second.Stored)
		assert.Equal(t, "Fusion Ignition", second.Similar.Record.Topic.Name)
		assert.GreaterOrEqual(t, second.Similar.Score, float32(DefaultThreshold))
		assert.Equal(t, 1, storeCount(t, store), "rejection must not grow the store")
	})

	t.Run("dissimilar topics accumulate", func(t *testing.T) {
		d, store, _ := newTestDeduplicator(t)

		names := []string{"Fusion Ignition", "Carbon Capture", "Edge Inference"}
		for _, name := range names {
			outcome := d.Store(ctx, candidate(name))
			require.NoError(t, outcome.Err)
			require.True(t, outcome.Accepted(), "topic %q should be novel", name)
		}
		assert.Equal(t, len(names), storeCount(t, store))
	})

	t.Run("embedding failure is scoped to the outcome", func(t *testing.T) {
		d, store, embedder := newTestDeduplicator(t)
		boom := errors.New("model unreachable")
		embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
			return nil, boom
		}

		outcome := d.Store(ctx, candidate("Unlucky"))
		assert.ErrorIs(t, outcome.Err, boom)
		assert.False(t, outcome.Accepted())
		assert.False(t, outcome.Rejected())
		assert.Equal(t, 0, storeCount(t, store))
	})
}

func TestDeduplicator_StoreAll(t *testing.T) {
	ctx := context.Background()
	d, store, embedder := newTestDeduplicator(t)

	// Seed a record that will block one of the batch candidates.
	seed := d.Store(ctx, candidate("Quantum Sensors"))
	require.True(t, seed.Accepted())

	boom := errors.New("model unreachable")
	embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		if text == "Broken" {
			return nil, boom
		}
		return mock.DeterministicVector(text, 384), nil
	}

	outcomes := d.StoreAll(ctx, []core.Topic{
		candidate("Quantum Sensors"), // duplicate of the seed
		candidate("Broken"),          // embedding fails
		candidate("Bioprinting"),     // novel
	})
	require.Len(t, outcomes, 3)

	assert.True(t, outcomes[0].Rejected())
	assert.ErrorIs(t, outcomes[1].Err, boom)
	assert.True(t, outcomes[2].Accepted(), "a sibling failure must not block novel candidates")

	assert.Equal(t, 2, storeCount(t, store))
}

func TestDeduplicator_FindSimilar(t *testing.T) {
	ctx := context.Background()
	d, _, _ := newTestDeduplicator(t)

	stored := candidate("Room Temperature Superconductors")
	require.True(t, d.Store(ctx, stored).Accepted())

	hit, err := d.FindSimilar(ctx, &stored)
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, stored.Name, hit.Record.Topic.Name)

	novel := candidate("Ocean Thermal Energy")
	hit, err = d.FindSimilar(ctx, &novel)
	require.NoError(t, err)
	assert.Nil(t, hit)
}
