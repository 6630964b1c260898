package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/capsule/ai"
	"github.com/poiesic/capsule/chunk"
	"github.com/poiesic/capsule/content"
	"github.com/poiesic/capsule/core"
)

// Pipeline drives one ingestion request from raw input to candidate topics:
// normalize, chunk, then run every unit (chunk, table, image text) through
// the extraction oracle. Oracle calls are CPU-and-network heavy and run on a
// dedicated worker pool so they never block the caller's scheduler.
type Pipeline struct {
	registry  *content.Registry
	chunker   *chunk.Chunker
	extractor ai.TopicExtractor
	pool      *ants.Pool
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent oracle calls.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger.With("component", "ingest")
		return nil
	}
}

// NewPipeline creates an ingestion pipeline.
func NewPipeline(
	registry *content.Registry,
	chunker *chunk.Chunker,
	extractor ai.TopicExtractor,
	opts ...Option,
) (*Pipeline, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	if chunker == nil {
		return nil, ErrChunkerRequired
	}
	if extractor == nil {
		return nil, ErrExtractorRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		registry:  registry,
		chunker:   chunker,
		extractor: extractor,
		pool:      pool,
		logger:    slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Run normalizes the input, chunks the text, and extracts candidate topics
// from every unit. A normalization failure aborts the whole request; an
// oracle failure is scoped to its unit, logged, and skipped, so a partial
// topic list is returned rather than nothing. Results follow unit order.
func (p *Pipeline) Run(ctx context.Context, inputType content.InputType, input string) ([]core.Topic, error) {
	normalizer, err := p.registry.Get(inputType)
	if err != nil {
		return nil, err
	}

	extracted, err := normalizer.Extract(ctx, input)
	if err != nil {
		return nil, err
	}

	// Tables and image-derived text go to the oracle as their own units,
	// alongside the chunked body text.
	units := p.chunker.Chunk(extracted.Text)
	units = append(units, extracted.Tables...)
	units = append(units, extracted.ImageTexts...)
	if len(units) == 0 {
		return nil, nil
	}

	p.logger.Info("extracting topics", "input_type", inputType, "units", len(units))

	results := make([][]core.Topic, len(units))
	var wg sync.WaitGroup
	for i, unit := range units {
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			topics, err := p.extractor.ExtractTopics(ctx, unit)
			if err != nil {
				p.logger.Error("oracle failed for unit, skipping", "unit", i, "err", err)
				return
			}
			results[i] = topics
		})
		if submitErr != nil {
			// Pool rejected the task (released or overloaded); run inline
			// rather than losing the unit.
			topics, err := p.extractor.ExtractTopics(ctx, unit)
			if err != nil {
				p.logger.Error("oracle failed for unit, skipping", "unit", i, "err", err)
			} else {
				results[i] = topics
			}
			wg.Done()
		}
	}
	wg.Wait()

	var merged []core.Topic
	for _, topics := range results {
		merged = append(merged, topics...)
	}
	return merged, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
