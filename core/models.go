package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing of a topic's identity tuple.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Hotness values for TopicAttributes. The scale is ordinal: High > Medium > Low.
const (
	HotnessHigh   = "High"
	HotnessMedium = "Medium"
	HotnessLow    = "Low"
)

// TopicAttributes is the structured attribute bundle attached to every topic.
// All fields are free-text classifications produced by the extraction oracle,
// except Hotness which must be one of the Hotness* constants.
type TopicAttributes struct {
	Field           string
	SubField        string
	SubjectMatter   string
	Relevance       string
	PotentialImpact string
	Hotness         string
}

// Topic is a knowledge-capsule candidate extracted from source content.
// Topics are value objects: their identity is the name plus the full
// attribute bundle, with no independent key until persisted.
type Topic struct {
	Name       string
	Attributes TopicAttributes
}

// IdentityTuple returns the canonical string form of the topic's full
// identity (name + all six attributes). Two topics with equal tuples are
// exact duplicates.
func (t *Topic) IdentityTuple() string {
	return "(" + t.Name +
		"," + t.Attributes.Field +
		"," + t.Attributes.SubField +
		"," + t.Attributes.SubjectMatter +
		"," + t.Attributes.Relevance +
		"," + t.Attributes.PotentialImpact +
		"," + t.Attributes.Hotness + ")"
}

// IdentityID returns the content-based ID of the topic's identity tuple.
func (t *Topic) IdentityID() ID {
	return IDFromContent(t.IdentityTuple())
}

// StoredTopic is a topic persisted in the vector store, together with its
// name embedding and storage metadata. Key is the store-assigned surrogate
// identifier, independent of the topic name.
type StoredTopic struct {
	Key      string
	Topic    Topic
	Vector   []float32
	StoredAt time.Time // When the record was persisted (UTC)
}

// SearchHit represents a stored topic matched by vector similarity search.
type SearchHit struct {
	Record *StoredTopic
	Score  float32
}

// CollectionInfo describes the vector collection's fixed parameters.
// Dimension and metric are set at collection creation and never change.
type CollectionInfo struct {
	Dimension int
	Metric    string
	CreatedAt time.Time
}

// MetricCosine is the only distance metric supported by the store.
const MetricCosine = "cosine"
