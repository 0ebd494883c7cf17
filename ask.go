package roadrag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trafficlens/roadrag/core"
)

// Result carries the final answer plus the raw per-channel results so the
// transport layer can always render diagnostics alongside the response.
type Result struct {
	RequestID   string
	Query       string
	Answer      core.Answer
	Provenance  core.Provenance
	GraphHits   []core.RetrievalHit
	VectorHits  []core.RetrievalHit
	GraphError  bool
	VectorEmpty bool
	Duration    time.Duration
}

// Ask answers one natural-language question. The vector search and the
// graph path (translate + execute) fan out concurrently and both must
// resolve, by success or recoverable failure, before fusion proceeds.
// A failed graph branch degrades to vector-only context and vice versa;
// only when both channels come back empty does Ask fail, with
// core.ErrEmptyContext. A generation failure past its retry yields the
// deterministic failure answer with a nil error, so callers always have a
// well-formed response to render.
func (p *Pipeline) Ask(ctx context.Context, query string) (*Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, core.ErrEmptyQuery
	}

	started := time.Now()
	result := &Result{
		RequestID: uuid.NewString(),
		Query:     query,
	}
	logger := p.logger.With("request_id", result.RequestID)
	logger.Info("processing query", "query", query)

	var (
		wg        sync.WaitGroup
		graphErr  error
		vectorErr error
	)
	wg.Add(2)

	vectorTask := func() {
		defer wg.Done()
		result.VectorHits, vectorErr = p.searchVector(ctx, query)
	}
	graphTask := func() {
		defer wg.Done()
		structured := p.translator.Translate(ctx, query)
		result.Provenance = structured.Provenance
		result.GraphHits, graphErr = p.executor.Execute(ctx, structured)
	}

	// A released pool runs the branch inline rather than dropping it.
	if err := p.vectorPool.Submit(vectorTask); err != nil {
		vectorTask()
	}
	if err := p.graphPool.Submit(graphTask); err != nil {
		graphTask()
	}
	wg.Wait()

	if graphErr != nil {
		result.GraphError = true
		logger.Warn("graph branch degraded", "err", graphErr)
	}
	if vectorErr != nil {
		logger.Warn("vector branch degraded", "err", vectorErr)
	}
	result.VectorEmpty = len(result.VectorHits) == 0

	fused := p.merger.Merge(result.GraphHits, result.VectorHits)
	if fused.Empty() {
		result.Duration = time.Since(started)
		logger.Warn("no grounding material retrieved")
		p.recordExchange(ctx, result)
		return result, core.ErrEmptyContext
	}

	ans, err := p.synthesizer.Synthesize(ctx, query, fused)
	if err != nil && !ans.Failed {
		result.Duration = time.Since(started)
		p.recordExchange(ctx, result)
		return result, err
	}
	result.Answer = ans
	result.Duration = time.Since(started)

	logger.Info("query answered",
		"provenance", result.Provenance.String(),
		"graph_hits", len(result.GraphHits),
		"vector_hits", len(result.VectorHits),
		"citations", len(ans.Citations),
		"failed", ans.Failed,
		"duration", result.Duration)

	p.recordExchange(ctx, result)
	return result, nil
}

// searchVector embeds the query and runs the nearest-neighbor search.
// Failures degrade the branch instead of failing the request.
func (p *Pipeline) searchVector(ctx context.Context, query string) ([]core.RetrievalHit, error) {
	vector, err := p.provider.Embedder().EmbedText(ctx, query)
	if err != nil {
		return []core.RetrievalHit{}, fmt.Errorf("%w: %w", core.ErrVectorSearchDegraded, err)
	}

	hits, err := p.index.Search(vector, p.topK)
	if err != nil {
		return []core.RetrievalHit{}, fmt.Errorf("%w: %w", core.ErrVectorSearchDegraded, err)
	}
	return hits, nil
}

// recordExchange persists the exchange when history is enabled. Persistence
// failures are logged, never surfaced: the answer has already been produced.
func (p *Pipeline) recordExchange(ctx context.Context, result *Result) {
	if p.history == nil {
		return
	}

	exchange := &core.Exchange{
		RequestID:   result.RequestID,
		Query:       result.Query,
		Answer:      result.Answer.DirectAnswer,
		Provenance:  result.Provenance,
		GraphHits:   len(result.GraphHits),
		VectorHits:  len(result.VectorHits),
		GraphError:  result.GraphError,
		VectorEmpty: result.VectorEmpty,
		Duration:    result.Duration,
		CreatedAt:   time.Now().UTC(),
	}

	if _, err := p.history.AddExchange(ctx, exchange); err != nil {
		if !errors.Is(err, context.Canceled) {
			p.logger.Error("error recording exchange",
				"request_id", result.RequestID, "err", err)
		}
	}
}
