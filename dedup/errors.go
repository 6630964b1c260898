package dedup

import "errors"

var (
	// ErrNilStore is returned when a deduplicator is built without a store.
	ErrNilStore = errors.New("topic store is nil")

	// ErrNilEmbedder is returned when a deduplicator is built without an embedder.
	ErrNilEmbedder = errors.New("embedder is nil")

	// ErrInvalidThreshold is returned for a threshold outside (0, 1].
	ErrInvalidThreshold = errors.New("similarity threshold must be in (0, 1]")

	// ErrInvalidSearchLimit is returned for a non-positive search limit.
	ErrInvalidSearchLimit = errors.New("search limit must be positive")
)
