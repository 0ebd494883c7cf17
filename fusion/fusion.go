// Package fusion merges graph and vector retrieval channels into a single
// grounded context. Graph hits are authoritative: they come first and win
// any citation collision with the vector channel.
package fusion

import (
	"log/slog"

	"github.com/trafficlens/roadrag/core"
)

// Merger combines retrieval hits from both channels, deduplicating by
// citation key. Merge is pure: no I/O, no retained state between calls.
type Merger struct {
	logger *slog.Logger
}

// Option configures a Merger.
type Option func(*Merger)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Merger) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewMerger creates a context merger.
func NewMerger(opts ...Option) *Merger {
	m := &Merger{
		logger: slog.Default().With("component", "fusion"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge fuses the two channels into one context. Ordering is deterministic:
// all graph hits first in their arrival order, then vector hits in
// descending score order as the index returned them. A vector hit whose
// citation key already appeared is dropped; the graph copy is the one that
// reaches the synthesizer. Hits without citation fields (free text the
// vector channel surfaced) are kept, deduplicated by their text, and do not
// contribute to the citation set.
func (m *Merger) Merge(graphHits, vectorHits []core.RetrievalHit) *core.FusedContext {
	fused := &core.FusedContext{
		Hits:      make([]core.RetrievalHit, 0, len(graphHits)+len(vectorHits)),
		Citations: make(map[string]core.Citation),
	}

	seenKeys := make(map[string]struct{})
	seenTexts := make(map[core.ID]struct{})
	duplicates := 0

	appendHit := func(hit core.RetrievalHit) {
		if hit.Citation.Empty() {
			textID := core.IDFromContent(hit.Text)
			if _, ok := seenTexts[textID]; ok {
				duplicates++
				return
			}
			seenTexts[textID] = struct{}{}
			fused.Hits = append(fused.Hits, hit)
			return
		}

		key := hit.Citation.Key()
		if _, ok := seenKeys[key]; ok {
			duplicates++
			return
		}
		seenKeys[key] = struct{}{}
		fused.Hits = append(fused.Hits, hit)
		fused.Citations[key] = hit.Citation
	}

	for _, hit := range graphHits {
		appendHit(hit)
	}
	for _, hit := range vectorHits {
		appendHit(hit)
	}

	m.logger.Debug("channels merged",
		"graph", len(graphHits),
		"vector", len(vectorHits),
		"fused", len(fused.Hits),
		"duplicates", duplicates,
		"citations", len(fused.Citations))
	return fused
}
