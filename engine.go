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


// Package capsule extracts attributed topics from text, web pages and PDF
// documents, deduplicates them against a persistent vector store, and serves
// similarity-ranked retrieval over what was kept.
package capsule

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/poiesic/capsule/ai"
	"github.com/poiesic/capsule/ai/openai"
	"github.com/poiesic/capsule/chunk"
	"github.com/poiesic/capsule/content"
	"github.com/poiesic/capsule/core"
	"github.com/poiesic/capsule/dedup"
	"github.com/poiesic/capsule/ingest"
	"github.com/poiesic/capsule/reembed"
	"github.com/poiesic/capsule/storage"
	badgerstore "github.com/poiesic/capsule/storage/badger"
)

const (
	// DefaultDimension is the vector dimension of the topic collection,
	// matching the default embedding model's output.
	DefaultDimension = 384

	// DefaultQueryLimit is how many topics a query returns.
	DefaultQueryLimit = 5
)

// Engine is the narrow interface the outer API layer calls into. It owns the
// store, the AI provider, the ingestion pipeline and the duplicate gate;
// initialize one per process and share it across requests.
type Engine struct {
	backend  *badgerstore.Backend
	store    storage.TopicStore
	provider ai.Provider
	dedup    *dedup.Deduplicator
	pipeline *ingest.Pipeline
	logger   *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*engineOptions)

type engineOptions struct {
	aiConfig  *ai.Config
	provider  ai.Provider
	tokenizer chunk.Tokenizer
	dimension int
	inMemory  bool
	poolSize  int
}

// WithAIConfig sets the configuration used to build the default OpenAI
// provider. Ignored when WithProvider is given.
func WithAIConfig(config *ai.Config) EngineOption {
	return func(o *engineOptions) { o.aiConfig = config }
}

// WithProvider injects a pre-built AI provider. Tests use this with the
// mock provider.
func WithProvider(provider ai.Provider) EngineOption {
	return func(o *engineOptions) { o.provider = provider }
}

// WithTokenizer overrides the chunker's tokenizer.
func WithTokenizer(tokenizer chunk.Tokenizer) EngineOption {
	return func(o *engineOptions) { o.tokenizer = tokenizer }
}

// WithDimension sets the vector dimension of the collection. Must match the
// embedding model's output dimension.
func WithDimension(dimension int) EngineOption {
	return func(o *engineOptions) { o.dimension = dimension }
}

// WithInMemory opens the store in memory, discarding data on Close.
func WithInMemory() EngineOption {
	return func(o *engineOptions) { o.inMemory = true }
}

// WithPoolSize sets the extraction worker pool size.
func WithPoolSize(size int) EngineOption {
	return func(o *engineOptions) { o.poolSize = size }
}

// NewEngine opens the store at filePath, bootstraps the collection, and
// wires the ingestion pipeline and duplicate gate. A collection bootstrap
// failure is fatal.
func NewEngine(filePath string, opts ...EngineOption) (*Engine, error) {
	o := &engineOptions{
		aiConfig:  ai.DefaultConfig(),
		dimension: DefaultDimension,
	}
	for _, opt := range opts {
		opt(o)
	}

	backend, err := badgerstore.OpenBackend(filePath, o.inMemory)
	if err != nil {
		return nil, err
	}

	store, err := badgerstore.NewTopicStore(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	if err := store.EnsureCollection(context.Background(), o.dimension); err != nil {
		store.Close()
		backend.Close()
		return nil, fmt.Errorf("collection bootstrap: %w", err)
	}

	provider := o.provider
	if provider == nil {
		provider, err = openai.NewProvider(o.aiConfig)
		if err != nil {
			store.Close()
			backend.Close()
			return nil, err
		}
	}

	tokenizer := o.tokenizer
	if tokenizer == nil {
		tokenizer, err = chunk.NewTiktokenTokenizer()
		if err != nil {
			provider.Close()
			store.Close()
			backend.Close()
			return nil, err
		}
	}

	chunker, err := chunk.NewChunker(tokenizer)
	if err != nil {
		provider.Close()
		store.Close()
		backend.Close()
		return nil, err
	}

	var pipelineOpts []ingest.Option
	if o.poolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingest.WithPoolSize(o.poolSize))
	}
	pipeline, err := ingest.NewPipeline(content.NewRegistry(), chunker, provider.TopicExtractor(), pipelineOpts...)
	if err != nil {
		provider.Close()
		store.Close()
		backend.Close()
		return nil, err
	}

	gate, err := dedup.New(store, provider.Embedder())
	if err != nil {
		pipeline.Release()
		provider.Close()
		store.Close()
		backend.Close()
		return nil, err
	}

	return &Engine{
		backend:  backend,
		store:    store,
		provider: provider,
		dedup:    gate,
		pipeline: pipeline,
		logger:   slog.Default().With("component", "engine"),
	}, nil
}

// Close releases the pipeline, provider and store.
func (e *Engine) Close() error {
	e.pipeline.Release()

	if err := e.provider.Close(); err != nil {
		e.logger.Error("error closing AI provider", "err", err)
	}
	if err := e.store.Close(); err != nil {
		e.logger.Error("error closing topic store", "err", err)
		return err
	}
	if err := e.backend.Close(); err != nil {
		e.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// Store exposes the underlying topic store.
func (e *Engine) Store() storage.TopicStore {
	return e.store
}

// Provider exposes the AI provider.
func (e *Engine) Provider() ai.Provider {
	return e.provider
}

// ProcessInput runs one ingestion request: normalize, chunk, extract and
// collapse exact duplicates. The surviving candidates are returned for
// selection; nothing is stored yet. A normalization failure yields an error
// status rather than propagating.
func (e *Engine) ProcessInput(ctx context.Context, inputType content.InputType, input string) *ProcessResult {
	topics, err := e.pipeline.Run(ctx, inputType, input)
	if err != nil {
		e.logger.Error("ingestion failed", "input_type", inputType, "err", err)
		return &ProcessResult{
			Message: err.Error(),
			Status:  StatusError,
		}
	}

	unique := dedup.RemoveExact(topics)
	return &ProcessResult{
		Topics:  unique,
		Message: fmt.Sprintf("extracted %d topics (%d after duplicate removal)", len(topics), len(unique)),
		Status:  StatusSuccess,
	}
}

// StoreSelectedTopics pushes the selected topics through the similarity
// gate and persists the ones that pass. Candidates are independent: a
// rejection or failure never blocks the rest of the batch.
func (e *Engine) StoreSelectedTopics(ctx context.Context, topics []core.Topic) *StoreResult {
	result := &StoreResult{Status: StatusSuccess}

	outcomes := e.dedup.StoreAll(ctx, dedup.RemoveExact(topics))
	for _, outcome := range outcomes {
		switch {
		case outcome.Accepted():
			result.SuccessfulTopics = append(result.SuccessfulTopics, outcome.Topic)
		case outcome.Rejected():
			result.FailedMessages = append(result.FailedMessages,
				fmt.Sprintf("topic %q: similar topic %q already exists (similarity %.2f)",
					outcome.Topic.Name, outcome.Similar.Record.Topic.Name, outcome.Similar.Score))
			result.Status = StatusSimilarFound
		default:
			result.FailedMessages = append(result.FailedMessages,
				fmt.Sprintf("topic %q: %v", outcome.Topic.Name, outcome.Err))
		}
	}

	return result
}

// RejectTopics deletes the named topics from the store. Deleting a name
// with no stored records succeeds with zero removals; per-name failures are
// collected rather than aborting the batch.
func (e *Engine) RejectTopics(ctx context.Context, names []string) *RejectResult {
	result := &RejectResult{Status: StatusSuccess}

	for _, name := range names {
		count, err := e.store.DeleteByName(ctx, name)
		if err != nil {
			result.FailedMessages = append(result.FailedMessages,
				fmt.Sprintf("topic %q: %v", name, err))
			result.Status = StatusPartialError
			continue
		}
		result.SuccessfulMessages = append(result.SuccessfulMessages,
			fmt.Sprintf("removed topic %q (%d records)", name, count))
	}

	return result
}

// QueryTopics returns the stored topics most similar to the query text,
// ranked by similarity, up to DefaultQueryLimit.
func (e *Engine) QueryTopics(ctx context.Context, query string) ([]*core.SearchHit, error) {
	vector, err := e.provider.Embedder().EmbedText(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	return e.store.Search(ctx, core.NormalizeVector(vector), DefaultQueryLimit)
}

// AllTopics returns every stored topic, most recent first.
func (e *Engine) AllTopics(ctx context.Context) ([]*core.StoredTopic, error) {
	return e.store.ScrollAll(ctx, reembed.DefaultBatchSize)
}

// NewReembedder builds a reembedder over the engine's store and embedder,
// for use after switching embedding models.
func (e *Engine) NewReembedder(config *reembed.Config, progress io.Writer) *reembed.Reembedder {
	return reembed.NewReembedder(e.store, e.provider.Embedder(), config, progress)
}
