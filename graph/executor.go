package graph

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/trafficlens/roadrag/core"
)

const defaultExecuteTimeout = 10 * time.Second

// Executor runs structured queries against the graph store and normalizes
// the returned records into retrieval hits. Store failures are recoverable:
// Execute returns an empty hit slice wrapped with core.ErrGraphExecution and
// the caller degrades to vector-only context. No retries happen here; that
// policy belongs to the orchestrator.
type Executor struct {
	store   Store
	timeout time.Duration
	logger  *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithExecuteTimeout bounds each store call. Default is 10 seconds.
func WithExecuteTimeout(timeout time.Duration) ExecutorOption {
	return func(e *Executor) {
		if timeout > 0 {
			e.timeout = timeout
		}
	}
}

// WithExecutorLogger sets a custom logger.
// Default is slog.Default().
func WithExecutorLogger(logger *slog.Logger) ExecutorOption {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExecutor creates a new graph query executor.
func NewExecutor(store Store, opts ...ExecutorOption) (*Executor, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	e := &Executor{
		store:   store,
		timeout: defaultExecuteTimeout,
		logger:  slog.Default().With("component", "graph-executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Execute runs the structured query and maps each record into a graph-sourced
// RetrievalHit with explicit citation fields.
func (e *Executor) Execute(ctx context.Context, query core.StructuredQuery) ([]core.RetrievalHit, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	records, err := e.store.Run(ctx, query.Text)
	if err != nil {
		e.logger.Warn("graph query failed",
			"query", query.Text,
			"provenance", query.Provenance.String(),
			"err", err)
		return []core.RetrievalHit{}, fmt.Errorf("%w: %w", core.ErrGraphExecution, err)
	}

	hits := make([]core.RetrievalHit, 0, len(records))
	for _, record := range records {
		hits = append(hits, normalizeRecord(record))
	}

	e.logger.Debug("graph query complete",
		"provenance", query.Provenance.String(),
		"records", len(hits))
	return hits, nil
}

// normalizeRecord maps a flat store record into a RetrievalHit. Field names
// may arrive prefixed with the query variable ("i.code") or bare ("code");
// both map to the same citation fields. Graph hits carry full confidence:
// they are exact matches, not approximations.
func normalizeRecord(record Record) core.RetrievalHit {
	hit := core.RetrievalHit{
		Source: core.SourceGraph,
		Score:  1.0,
	}

	rest := make(map[string]string)
	for key, value := range record {
		text := scalarText(value)
		switch normalizeField(key) {
		case "code":
			hit.Citation.Code = text
		case "clause":
			hit.Citation.Clause = text
		case "category":
			hit.Citation.Category = text
		case "type":
			hit.Citation.Type = text
		case "problem":
			hit.Problem = text
		default:
			if text != "" {
				rest[normalizeField(key)] = text
			}
		}
	}

	hit.Text = renderRecordText(hit, rest)
	return hit
}

// renderRecordText builds the context line for a graph hit: the citation
// fields first, then any remaining fields in deterministic order.
func renderRecordText(hit core.RetrievalHit, rest map[string]string) string {
	var parts []string
	if hit.Citation.Type != "" {
		parts = append(parts, "type: "+hit.Citation.Type)
	}
	if hit.Problem != "" {
		parts = append(parts, "problem: "+hit.Problem)
	}
	if hit.Citation.Category != "" {
		parts = append(parts, "category: "+hit.Citation.Category)
	}
	if hit.Citation.Code != "" {
		parts = append(parts, "code: "+hit.Citation.Code)
	}
	if hit.Citation.Clause != "" {
		parts = append(parts, "clause: "+hit.Citation.Clause)
	}

	keys := make([]string, 0, len(rest))
	for k := range rest {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, k+": "+rest[k])
	}

	return strings.Join(parts, ", ")
}

// normalizeField strips the query-variable prefix and lowercases the name.
func normalizeField(key string) string {
	if idx := strings.LastIndex(key, "."); idx >= 0 {
		key = key[idx+1:]
	}
	return strings.ToLower(strings.TrimSpace(key))
}

// scalarText renders a scalar record value as text.
func scalarText(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		// JSON-ish stores hand integers back as float64.
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
