package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := IDFromContent("quantum computing")
		id2 := IDFromContent("quantum computing")
		assert.Equal(t, id1, id2)
	})

	t.Run("different content different id", func(t *testing.T) {
		id1 := IDFromContent("quantum computing")
		id2 := IDFromContent("classical computing")
		assert.NotEqual(t, id1, id2)
	})

	t.Run("empty content", func(t *testing.T) {
		// Must not panic; still deterministic
		assert.Equal(t, IDFromContent(""), IDFromContent(""))
	})
}

func TestTopicIdentityTuple(t *testing.T) {
	topic := Topic{
		Name: "Post-Quantum Cryptography",
		Attributes: TopicAttributes{
			Field:           "Computer Science",
			SubField:        "Cryptography",
			SubjectMatter:   "Lattice-based encryption schemes",
			Relevance:       "Critical for long-term data confidentiality",
			PotentialImpact: "Forces migration of all public-key infrastructure",
			Hotness:         HotnessHigh,
		},
	}

	tuple := topic.IdentityTuple()
	assert.Contains(t, tuple, "Post-Quantum Cryptography")
	assert.Contains(t, tuple, "Lattice-based encryption schemes")
	assert.Contains(t, tuple, HotnessHigh)

	// Identity covers every attribute: changing any field changes the tuple.
	modified := topic
	modified.Attributes.Hotness = HotnessLow
	assert.NotEqual(t, tuple, modified.IdentityTuple())
	assert.NotEqual(t, topic.IdentityID(), modified.IdentityID())

	same := topic
	assert.Equal(t, topic.IdentityID(), same.IdentityID())
}
