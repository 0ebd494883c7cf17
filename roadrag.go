// Copyright 2026 Trafficlens
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


// Package roadrag answers road-safety regulation questions by fusing two
// retrieval channels, a semantic vector index and a Neo4j knowledge graph,
// into one grounded context and synthesizing a citation-constrained answer
// from it.
package roadrag

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"

	"github.com/trafficlens/roadrag/ai"
	"github.com/trafficlens/roadrag/answer"
	"github.com/trafficlens/roadrag/fusion"
	"github.com/trafficlens/roadrag/graph"
	"github.com/trafficlens/roadrag/index"
	"github.com/trafficlens/roadrag/storage"
)

const defaultTopK = 5

// Pipeline is the retrieval-fusion and grounded-generation pipeline. It is
// built once at startup and serves concurrent requests; the only shared
// state is the read-only embedding index.
type Pipeline struct {
	index       *index.Index
	provider    ai.Provider
	store       graph.Store
	translator  *graph.Translator
	executor    *graph.Executor
	merger      *fusion.Merger
	synthesizer *answer.Synthesizer
	history     storage.HistoryRepository
	vectorPool  *ants.Pool
	graphPool   *ants.Pool
	topK        int
	logger      *slog.Logger
}

// Option configures a Pipeline.
type Option func(*pipelineOptions)

type pipelineOptions struct {
	schema   *graph.Schema
	history  storage.HistoryRepository
	topK     int
	poolSize int
	logger   *slog.Logger
}

// WithSchema sets the graph schema used for translation and validation.
// Default is graph.DefaultSchema().
func WithSchema(schema *graph.Schema) Option {
	return func(o *pipelineOptions) {
		if schema != nil {
			o.schema = schema
		}
	}
}

// WithHistory enables exchange history persistence. Without it, exchanges
// are not recorded.
func WithHistory(history storage.HistoryRepository) Option {
	return func(o *pipelineOptions) {
		o.history = history
	}
}

// WithTopK sets how many vector hits each request retrieves. Default is 5.
func WithTopK(k int) Option {
	return func(o *pipelineOptions) {
		if k > 0 {
			o.topK = k
		}
	}
}

// WithPoolSize sets the worker pool size for the retrieval branches.
// Default is runtime.NumCPU(), with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(o *pipelineOptions) {
		if size > 0 {
			o.poolSize = size
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *pipelineOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewPipeline assembles the pipeline from its components. The pipeline takes
// ownership of the provider, store, and history repository; Close releases
// them all.
func NewPipeline(idx *index.Index, provider ai.Provider, store graph.Store, opts ...Option) (*Pipeline, error) {
	options := &pipelineOptions{
		schema:   graph.DefaultSchema(),
		topK:     defaultTopK,
		poolSize: runtime.NumCPU(),
		logger:   slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.poolSize < 1 {
		options.poolSize = 1
	}

	translator, err := graph.NewTranslator(provider.Generator(), options.schema)
	if err != nil {
		return nil, err
	}

	executor, err := graph.NewExecutor(store)
	if err != nil {
		return nil, err
	}

	synthesizer, err := answer.NewSynthesizer(provider.Generator())
	if err != nil {
		return nil, err
	}

	vectorPool, err := ants.NewPool(options.poolSize)
	if err != nil {
		return nil, err
	}

	graphPool, err := ants.NewPool(options.poolSize)
	if err != nil {
		vectorPool.Release()
		return nil, err
	}

	return &Pipeline{
		index:       idx,
		provider:    provider,
		store:       store,
		translator:  translator,
		executor:    executor,
		merger:      fusion.NewMerger(),
		synthesizer: synthesizer,
		history:     options.history,
		vectorPool:  vectorPool,
		graphPool:   graphPool,
		topK:        options.topK,
		logger:      options.logger,
	}, nil
}

// IndexStats exposes the embedding index statistics for health reporting.
func (p *Pipeline) IndexStats() index.Stats {
	return p.index.Stats()
}

// History returns the exchange history repository, or nil when persistence
// is disabled.
func (p *Pipeline) History() storage.HistoryRepository {
	return p.history
}

// Close releases the worker pools and the owned resources.
// The pipeline should not be used after calling Close.
func (p *Pipeline) Close(ctx context.Context) error {
	p.vectorPool.Release()
	p.graphPool.Release()

	if err := p.provider.Close(); err != nil {
		p.logger.Error("error closing AI provider", "err", err)
	}
	if p.history != nil {
		if err := p.history.Close(); err != nil {
			p.logger.Error("error closing history repository", "err", err)
		}
	}
	if err := p.store.Close(ctx); err != nil {
		p.logger.Error("error closing graph store", "err", err)
		return err
	}
	return nil
}
