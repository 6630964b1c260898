package storage

import (
	"context"

	"github.com/poiesic/capsule/core"
)

// TopicStore is the persistent vector store for topics. Implementations must
// be thread-safe and support concurrent access.
type TopicStore interface {
	// EnsureCollection initializes the collection with the given vector
	// dimension if it does not exist yet. Calling it again with the same
	// dimension is a no-op; a different dimension returns
	// ErrDimensionMismatch.
	EnsureCollection(ctx context.Context, dimension int) error

	// CollectionInfo returns the collection's fixed parameters.
	// Returns ErrCollectionNotInitialized before EnsureCollection.
	CollectionInfo(ctx context.Context) (*core.CollectionInfo, error)

	// Upsert persists topics with their vectors. Every record gets a fresh
	// surrogate key regardless of name: storing the same name twice yields
	// two records. Vectors must match the collection dimension.
	// Returns the stored records with keys and timestamps populated.
	Upsert(ctx context.Context, records ...*core.StoredTopic) ([]*core.StoredTopic, error)

	// Update overwrites existing records in place, addressed by Key.
	// Keys and StoredAt timestamps are preserved. Returns ErrNotFound if
	// any record does not exist.
	Update(ctx context.Context, records ...*core.StoredTopic) error

	// Search returns up to limit stored topics most similar to the query
	// vector, ordered by similarity score descending. Ties are broken by
	// key ascending so results are deterministic.
	Search(ctx context.Context, vector []float32, limit int) ([]*core.SearchHit, error)

	// DeleteByName removes every record whose topic name matches exactly.
	// Returns the number of records removed; zero matches is not an error.
	DeleteByName(ctx context.Context, name string) (int, error)

	// Scroll pages through all records ordered by StoredAt descending
	// (most recent first). Pass an empty cursor to start; the returned
	// cursor resumes after the last record of the page, and is empty when
	// the scan is exhausted.
	Scroll(ctx context.Context, cursor string, pageSize int) ([]*core.StoredTopic, string, error)

	// ScrollAll returns every record, most recent first, paging internally.
	ScrollAll(ctx context.Context, pageSize int) ([]*core.StoredTopic, error)

	// Close closes the storage backend and releases resources.
	Close() error
}
