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

package dedup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/capsule/ai"
	"github.com/poiesic/capsule/core"
	"github.com/poiesic/capsule/storage"
)

const (
	// DefaultThreshold is the cosine similarity above which a candidate is
	// considered a duplicate of an existing record.
	DefaultThreshold = 0.7

	// DefaultSearchLimit is how many nearest neighbors the similarity gate
	// inspects per candidate.
	DefaultSearchLimit = 5
)

// Outcome is the result of pushing one candidate through the similarity
// gate. Exactly one of Stored and Similar is set on success; Err is set
// when embedding or storage failed for this candidate.
type Outcome struct {
	Topic core.Topic

	// Stored is the persisted record when the candidate was accepted.
	Stored *core.StoredTopic

	// Similar is the existing record that blocked the candidate, with the
	// similarity score that crossed the threshold.
	Similar *core.SearchHit

	Err error
}

// Accepted reports whether the candidate was stored.
func (o *Outcome) Accepted() bool {
	return o.Err == nil && o.Stored != nil
}

// Rejected reports whether the candidate was blocked by an existing
// similar record. A rejection is an expected outcome, not an error.
func (o *Outcome) Rejected() bool {
	return o.Err == nil && o.Similar != nil
}

// Deduplicator gates candidate topics against the persistent store. The
// two phases must run in order: exact in-batch dedup first, then the
// per-candidate similarity gate, so no embedding call is spent on a
// candidate that an exact duplicate already covers.
type Deduplicator struct {
	store       storage.TopicStore
	embedder    ai.Embedder
	threshold   float32
	searchLimit int
	logger      *slog.Logger
}

// Option configures a Deduplicator.
type Option func(*Deduplicator)

// WithThreshold overrides the similarity threshold.
func WithThreshold(threshold float32) Option {
	return func(d *Deduplicator) { d.threshold = threshold }
}

// WithSearchLimit overrides how many neighbors the gate inspects.
func WithSearchLimit(limit int) Option {
	return func(d *Deduplicator) { d.searchLimit = limit }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Deduplicator) {
		if logger != nil {
			d.logger = logger.With("component", "dedup")
		}
	}
}

// New creates a Deduplicator over the given store and embedder.
func New(store storage.TopicStore, embedder ai.Embedder, opts ...Option) (*Deduplicator, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	if embedder == nil {
		return nil, ErrNilEmbedder
	}
	d := &Deduplicator{
		store:       store,
		embedder:    embedder,
		threshold:   DefaultThreshold,
		searchLimit: DefaultSearchLimit,
		logger:      slog.Default().With("component", "dedup"),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.threshold <= 0 || d.threshold > 1 {
		return nil, ErrInvalidThreshold
	}
	if d.searchLimit <= 0 {
		return nil, ErrInvalidSearchLimit
	}
	return d, nil
}

// RemoveExact collapses candidates whose full identity tuple (name plus all
// attribute fields) is exactly equal. The first occurrence wins and the
// relative order of survivors is preserved.
func RemoveExact(topics []core.Topic) []core.Topic {
	if len(topics) == 0 {
		return nil
	}
	seen := make(map[core.ID]bool, len(topics))
	unique := make([]core.Topic, 0, len(topics))
	for _, topic := range topics {
		id := topic.IdentityID()
		if seen[id] {
			continue
		}
		seen[id] = true
		unique = append(unique, topic)
	}
	return unique
}

// FindSimilar embeds the candidate's name and returns the existing record
// that crosses the similarity threshold, or nil when none does.
func (d *Deduplicator) FindSimilar(ctx context.Context, topic *core.Topic) (*core.SearchHit, error) {
	vector, err := d.embedder.EmbedText(ctx, topic.Name)
	if err != nil {
		return nil, fmt.Errorf("embed %q: %w", topic.Name, err)
	}

	hits, err := d.store.Search(ctx, core.NormalizeVector(vector), d.searchLimit)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", topic.Name, err)
	}

	for _, hit := range hits {
		if hit.Score >= d.threshold {
			return hit, nil
		}
	}
	return nil, nil
}

// Store pushes one candidate through the similarity gate: it is either
// persisted or rejected with the record that blocked it.
func (d *Deduplicator) Store(ctx context.Context, topic core.Topic) *Outcome {
	outcome := &Outcome{Topic: topic}

	vector, err := d.embedder.EmbedText(ctx, topic.Name)
	if err != nil {
		outcome.Err = fmt.Errorf("embed %q: %w", topic.Name, err)
		return outcome
	}
	vector = core.NormalizeVector(vector)

	hits, err := d.store.Search(ctx, vector, d.searchLimit)
	if err != nil {
		outcome.Err = fmt.Errorf("search %q: %w", topic.Name, err)
		return outcome
	}
	for _, hit := range hits {
		if hit.Score >= d.threshold {
			d.logger.Info("rejected similar topic",
				"name", topic.Name,
				"existing", hit.Record.Topic.Name,
				"score", hit.Score)
			outcome.Similar = hit
			return outcome
		}
	}

	records, err := d.store.Upsert(ctx, &core.StoredTopic{Topic: topic, Vector: vector})
	if err != nil {
		outcome.Err = fmt.Errorf("store %q: %w", topic.Name, err)
		return outcome
	}
	outcome.Stored = records[0]
	return outcome
}

// StoreAll runs the similarity gate over every candidate. Candidates are
// independent: one failure or rejection never aborts the rest, and the
// returned outcomes match the input order.
func (d *Deduplicator) StoreAll(ctx context.Context, topics []core.Topic) []*Outcome {
	outcomes := make([]*Outcome, 0, len(topics))
	for _, topic := range topics {
		outcomes = append(outcomes, d.Store(ctx, topic))
	}
	return outcomes
}
