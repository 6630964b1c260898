// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package reembed

import (
	"context"

	"github.com/poiesic/capsule/core"
	"github.com/poiesic/capsule/storage"
)

const (
	// DefaultBatchSize is the default number of records to fetch in each batch
	DefaultBatchSize = 100
)

// TopicIterator iterates over all stored topics in batches using the
// store's cursor pagination. Vector updates do not move records in the
// recency order, so updating while iterating is safe.
type TopicIterator struct {
	store     storage.TopicStore
	batchSize int
}

// NewTopicIterator creates a new topic iterator.
// batchSize: number of records to fetch in each batch (must be > 0)
func NewTopicIterator(store storage.TopicStore, batchSize int) *TopicIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &TopicIterator{
		store:     store,
		batchSize: batchSize,
	}
}

// ForEach iterates over all stored topics, calling fn for each batch.
// Iteration stops on first error from fn or when all records are processed.
// Context cancellation is checked between batches.
func (it *TopicIterator) ForEach(ctx context.Context, fn func([]*core.StoredTopic) error) error {
	cursor := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, next, err := it.store.Scroll(ctx, cursor, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) > 0 {
			if err := fn(batch); err != nil {
				return err
			}
		}
		if next == "" {
			return nil
		}
		cursor = next
	}
}
