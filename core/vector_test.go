package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	v := []float32{0.3, -1.2, 0.8, 2.5}

	t.Run("self similarity is one", func(t *testing.T) {
		assert.InDelta(t, 1.0, CosineSimilarity(v, v), 1e-6)
	})

	t.Run("negation is minus one", func(t *testing.T) {
		neg := make([]float32, len(v))
		for i, x := range v {
			neg[i] = -x
		}
		assert.InDelta(t, -1.0, CosineSimilarity(v, neg), 1e-6)
	})

	t.Run("orthogonal is zero", func(t *testing.T) {
		a := []float32{1, 0}
		b := []float32{0, 1}
		assert.InDelta(t, 0.0, CosineSimilarity(a, b), 1e-6)
	})

	t.Run("zero vector returns zero", func(t *testing.T) {
		zero := make([]float32, len(v))
		assert.Equal(t, float32(0), CosineSimilarity(v, zero))
		assert.Equal(t, float32(0), CosineSimilarity(zero, v))
		assert.Equal(t, float32(0), CosineSimilarity(zero, zero))
	})

	t.Run("empty vectors return zero", func(t *testing.T) {
		assert.Equal(t, float32(0), CosineSimilarity(nil, v))
		assert.Equal(t, float32(0), CosineSimilarity(nil, nil))
	})

	t.Run("scale invariant", func(t *testing.T) {
		scaled := make([]float32, len(v))
		for i, x := range v {
			scaled[i] = 3.5 * x
		}
		assert.InDelta(t, 1.0, CosineSimilarity(v, scaled), 1e-6)
	})
}

func TestNormalizeVector(t *testing.T) {
	t.Run("unit length result", func(t *testing.T) {
		normalized := NormalizeVector([]float32{3, 4})
		assert.InDelta(t, 0.6, normalized[0], 1e-6)
		assert.InDelta(t, 0.8, normalized[1], 1e-6)
	})

	t.Run("zero vector stays zero", func(t *testing.T) {
		normalized := NormalizeVector([]float32{0, 0, 0})
		assert.Equal(t, []float32{0, 0, 0}, normalized)
	})

	t.Run("empty vector", func(t *testing.T) {
		assert.Empty(t, NormalizeVector(nil))
	})

	t.Run("does not mutate input", func(t *testing.T) {
		in := []float32{3, 4}
		_ = NormalizeVector(in)
		assert.Equal(t, []float32{3, 4}, in)
	})
}
