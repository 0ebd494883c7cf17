package index

import (
	"fmt"
	"log/slog"
	"math"
	"sort"

	"github.com/trafficlens/roadrag/core"
)

const (
	// DefaultDimension matches the all-MiniLM-L6-v2 embedding model used to
	// build the shipped index files.
	DefaultDimension = 384

	// DefaultMinScore is the confidence floor below which vector hits are
	// dropped. Matches below it add noise rather than grounding.
	DefaultMinScore = 0.30
)

// Index holds the loaded chunks and answers nearest-neighbor queries.
// It is read-only after construction and safe for concurrent use.
type Index struct {
	chunks   []core.Chunk
	dim      int
	minScore float32
	logger   *slog.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) {
		if logger == nil {
			logger = slog.Default()
		}
		ix.logger = logger
	}
}

// WithMinScore sets the confidence floor for search hits.
func WithMinScore(minScore float32) Option {
	return func(ix *Index) {
		ix.minScore = minScore
	}
}

// New builds an index from already-assembled chunks.
// Every chunk vector must have the given dimension; a mismatch wraps
// core.ErrIndexLoad. Chunk order is preserved and determines tie-breaking
// between equal-similarity hits.
func New(chunks []core.Chunk, dim int, opts ...Option) (*Index, error) {
	if dim <= 0 {
		dim = DefaultDimension
	}

	ix := &Index{
		chunks:   chunks,
		dim:      dim,
		minScore: DefaultMinScore,
		logger:   slog.Default().With("component", "index"),
	}
	for _, opt := range opts {
		opt(ix)
	}

	for i := range chunks {
		if err := core.ValidateChunk(&chunks[i]); err != nil {
			return nil, fmt.Errorf("%w: chunk %d: %w", core.ErrIndexLoad, i, err)
		}
		if len(chunks[i].Vector) != dim {
			return nil, fmt.Errorf("%w: chunk %d has dimension %d, expected %d",
				core.ErrIndexLoad, i, len(chunks[i].Vector), dim)
		}
	}

	return ix, nil
}

// Search returns up to k hits ordered by descending cosine similarity to the
// query vector. Ties keep the chunks' insertion order. Hits scoring below the
// configured floor are dropped; if all are dropped the result is empty, not
// an error.
func (ix *Index) Search(queryVector []float32, k int) ([]core.RetrievalHit, error) {
	if len(queryVector) != ix.dim {
		return nil, fmt.Errorf("query vector has dimension %d, expected %d", len(queryVector), ix.dim)
	}
	if k <= 0 {
		return []core.RetrievalHit{}, nil
	}

	hits := make([]core.RetrievalHit, 0, len(ix.chunks))
	for i := range ix.chunks {
		chunk := &ix.chunks[i]
		score := cosineSimilarity(queryVector, chunk.Vector)
		if score < ix.minScore {
			continue
		}
		hits = append(hits, core.RetrievalHit{
			Source:   core.SourceVector,
			Text:     chunk.Text,
			Citation: chunk.Citation,
			Problem:  chunk.Problem,
			Score:    score,
		})
	}

	// Stable keeps insertion order between equal scores.
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})

	if len(hits) > k {
		hits = hits[:k]
	}

	ix.logger.Debug("vector search complete", "candidates", len(ix.chunks), "hits", len(hits))
	return hits, nil
}

// Dimension returns the configured embedding dimensionality.
func (ix *Index) Dimension() int {
	return ix.dim
}

// Stats describes the loaded index for diagnostics and health reporting.
type Stats struct {
	Chunks    int     `json:"chunks"`
	Dimension int     `json:"dimension"`
	MinScore  float32 `json:"min_score"`
}

// Stats returns index statistics.
func (ix *Index) Stats() Stats {
	return Stats{
		Chunks:    len(ix.chunks),
		Dimension: ix.dim,
		MinScore:  ix.minScore,
	}
}

// cosineSimilarity computes the cosine of the angle between two equal-length
// vectors. Zero-magnitude vectors yield 0.
func cosineSimilarity(a, b []float32) float32 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
