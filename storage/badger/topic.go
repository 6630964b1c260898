package badger

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/poiesic/capsule/core"
	"github.com/poiesic/capsule/storage"
)

// TopicStore implements storage.TopicStore for BadgerDB. Similarity search
// is a brute-force cosine scan over all records, which is the right trade
// for an embedded store holding thousands of topics, not millions.
type TopicStore struct {
	backend *Backend

	mu        sync.RWMutex
	dimension int // 0 until the collection is initialized
}

var _ storage.TopicStore = (*TopicStore)(nil)

// NewTopicStore creates a TopicStore over the given backend. If the
// collection was initialized in a previous run, its parameters are loaded.
func NewTopicStore(backend *Backend) (*TopicStore, error) {
	s := &TopicStore{backend: backend}

	err := backend.WithTx(func(tx *badger.Txn) error {
		info, err := readCollectionInfo(tx)
		if err != nil {
			return err
		}
		if info != nil {
			s.dimension = info.Dimension
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Close releases resources. The backend is owned by the caller.
func (s *TopicStore) Close() error {
	return nil
}

// EnsureCollection initializes the collection with the given dimension.
func (s *TopicStore) EnsureCollection(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return fmt.Errorf("%w: dimension %d", storage.ErrInvalidQuery, dimension)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dimension != 0 {
		if s.dimension != dimension {
			return fmt.Errorf("%w: collection has dimension %d, requested %d",
				storage.ErrDimensionMismatch, s.dimension, dimension)
		}
		return nil
	}

	err := s.backend.WithTx(func(tx *badger.Txn) error {
		info, err := readCollectionInfo(tx)
		if err != nil {
			return err
		}
		if info != nil {
			if info.Dimension != dimension {
				return fmt.Errorf("%w: collection has dimension %d, requested %d",
					storage.ErrDimensionMismatch, info.Dimension, dimension)
			}
			s.dimension = info.Dimension
			return nil
		}

		info = &core.CollectionInfo{
			Dimension: dimension,
			Metric:    core.MetricCosine,
			CreatedAt: time.Now().UTC(),
		}
		if err := tx.Set([]byte(collectionMetaKey), storage.MarshalCollectionInfo(info)); err != nil {
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
		s.dimension = dimension
		return nil
	}, true)

	return err
}

// CollectionInfo returns the collection's fixed parameters.
func (s *TopicStore) CollectionInfo(ctx context.Context) (*core.CollectionInfo, error) {
	var info *core.CollectionInfo
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		info, err = readCollectionInfo(tx)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, storage.ErrCollectionNotInitialized
	}
	return info, nil
}

// Upsert persists topics with fresh surrogate keys.
func (s *TopicStore) Upsert(ctx context.Context, records ...*core.StoredTopic) ([]*core.StoredTopic, error) {
	dim, err := s.requireDimension()
	if err != nil {
		return nil, err
	}

	err = s.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if len(record.Vector) != dim {
				return fmt.Errorf("%w: got %d, collection has %d",
					storage.ErrDimensionMismatch, len(record.Vector), dim)
			}

			record.Key = uuid.NewString()
			record.StoredAt = time.Now().UTC()

			if err := tx.Set(makeTopicKey(record.Key), storage.MarshalStoredTopic(record)); err != nil {
				return err
			}
			if err := tx.Set(makeNameKey(record.Topic.Name, record.Key), []byte(record.Key)); err != nil {
				return err
			}
			if err := tx.Set(makeDateKey(record.StoredAt, record.Key), []byte(record.Key)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// Update overwrites existing records in place, addressed by Key.
func (s *TopicStore) Update(ctx context.Context, records ...*core.StoredTopic) error {
	dim, err := s.requireDimension()
	if err != nil {
		return err
	}

	return s.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			if len(record.Vector) != dim {
				return fmt.Errorf("%w: got %d, collection has %d",
					storage.ErrDimensionMismatch, len(record.Vector), dim)
			}

			key := makeTopicKey(record.Key)
			old, err := readTopic(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			// Keys and timestamps are immutable; the recency index needs
			// no maintenance.
			record.StoredAt = old.StoredAt

			if err := tx.Set(key, storage.MarshalStoredTopic(record)); err != nil {
				return err
			}

			if old.Topic.Name != record.Topic.Name {
				if err := tx.Delete(makeNameKey(old.Topic.Name, record.Key)); err != nil {
					return err
				}
				if err := tx.Set(makeNameKey(record.Topic.Name, record.Key), []byte(record.Key)); err != nil {
					return err
				}
			}
		}
		return tx.Commit()
	}, true)
}

// Search returns up to limit stored topics most similar to the query vector.
func (s *TopicStore) Search(ctx context.Context, vector []float32, limit int) ([]*core.SearchHit, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit %d", storage.ErrInvalidQuery, limit)
	}
	dim, err := s.requireDimension()
	if err != nil {
		return nil, err
	}
	if len(vector) != dim {
		return nil, fmt.Errorf("%w: got %d, collection has %d",
			storage.ErrDimensionMismatch, len(vector), dim)
	}

	var hits []*core.SearchHit
	err = s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(topicRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var record *core.StoredTopic
			err := iter.Item().Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalStoredTopic(val)
				return err
			})
			if err != nil {
				return err
			}
			if record == nil || len(record.Vector) == 0 {
				continue
			}

			hits = append(hits, &core.SearchHit{
				Record: record,
				Score:  core.CosineSimilarity(vector, record.Vector),
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by score descending, key ascending on ties for determinism.
	slices.SortFunc(hits, func(a, b *core.SearchHit) int {
		if a.Score != b.Score {
			if a.Score > b.Score {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Record.Key, b.Record.Key)
	})

	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// DeleteByName removes every record whose topic name matches exactly.
func (s *TopicStore) DeleteByName(ctx context.Context, name string) (int, error) {
	deleted := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		// Collect surrogate keys from the name index first; the hash in
		// the index key can collide, so every candidate is checked against
		// the actual record name.
		var keys []string
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialNameKey(name)
		iter := tx.NewIterator(opts)
		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				keys = append(keys, string(val))
				return nil
			})
			if err != nil {
				iter.Close()
				return err
			}
		}
		iter.Close()

		for _, key := range keys {
			record, err := readTopic(tx, makeTopicKey(key))
			if err != nil {
				return err
			}
			if record == nil || record.Topic.Name != name {
				continue
			}

			if err := tx.Delete(makeTopicKey(key)); err != nil {
				return err
			}
			if err := tx.Delete(makeNameKey(name, key)); err != nil {
				return err
			}
			if err := tx.Delete(makeDateKey(record.StoredAt, key)); err != nil {
				return err
			}
			deleted++
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// Scroll pages through all records, most recent first.
func (s *TopicStore) Scroll(ctx context.Context, cursor string, pageSize int) ([]*core.StoredTopic, string, error) {
	if pageSize <= 0 {
		return nil, "", fmt.Errorf("%w: page size %d", storage.ErrInvalidQuery, pageSize)
	}

	seek := maxDateKey()
	var after []byte
	if cursor != "" {
		decoded, err := hex.DecodeString(cursor)
		if err != nil || !bytes.HasPrefix(decoded, dateKeyPrefix()) {
			return nil, "", fmt.Errorf("%w: malformed cursor", storage.ErrInvalidQuery)
		}
		seek = decoded
		after = decoded
	}

	var records []*core.StoredTopic
	var nextCursor string
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = dateKeyPrefix()
		opts.Reverse = true
		iter := tx.NewIterator(opts)
		defer iter.Close()

		var lastKey []byte
		for iter.Seek(seek); iter.Valid() && len(records) < pageSize; iter.Next() {
			item := iter.Item()
			if after != nil && bytes.Equal(item.Key(), after) {
				// Resume position, already returned on the previous page.
				continue
			}

			var key string
			err := item.Value(func(val []byte) error {
				key = string(val)
				return nil
			})
			if err != nil {
				return err
			}

			record, err := readTopic(tx, makeTopicKey(key))
			if err != nil {
				return err
			}
			if record == nil {
				continue
			}
			records = append(records, record)
			lastKey = item.KeyCopy(nil)
		}

		if len(records) == pageSize && lastKey != nil {
			nextCursor = hex.EncodeToString(lastKey)
		}
		return nil
	}, false)
	if err != nil {
		return nil, "", err
	}
	return records, nextCursor, nil
}

// ScrollAll returns every record, most recent first.
func (s *TopicStore) ScrollAll(ctx context.Context, pageSize int) ([]*core.StoredTopic, error) {
	var all []*core.StoredTopic
	cursor := ""
	for {
		page, next, err := s.Scroll(ctx, cursor, pageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if next == "" {
			return all, nil
		}
		cursor = next
	}
}

// requireDimension returns the collection dimension or an error when the
// collection has not been initialized.
func (s *TopicStore) requireDimension() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dimension == 0 {
		return 0, storage.ErrCollectionNotInitialized
	}
	return s.dimension, nil
}

// readCollectionInfo reads collection metadata, nil if absent.
func readCollectionInfo(tx *badger.Txn) (*core.CollectionInfo, error) {
	item, err := tx.Get([]byte(collectionMetaKey))
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var info *core.CollectionInfo
	err = item.Value(func(val []byte) error {
		var err error
		info, err = storage.UnmarshalCollectionInfo(val)
		return err
	})
	return info, err
}

// readTopic reads a stored topic from the transaction, nil if absent.
func readTopic(tx *badger.Txn, key []byte) (*core.StoredTopic, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}
	var record *core.StoredTopic
	err = item.Value(func(val []byte) error {
		var err error
		record, err = storage.UnmarshalStoredTopic(val)
		return err
	})
	return record, err
}
