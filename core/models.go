package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// HitSource identifies which retrieval channel produced a hit.
type HitSource int

const (
	// SourceGraph marks hits produced by the structured graph channel.
	SourceGraph HitSource = iota + 1
	// SourceVector marks hits produced by the semantic vector channel.
	SourceVector
)

// String returns the channel name used in rendered context and diagnostics.
func (s HitSource) String() string {
	switch s {
	case SourceGraph:
		return "graph"
	case SourceVector:
		return "vector"
	default:
		return "unknown"
	}
}

// Provenance records which mechanism produced a structured query.
type Provenance int

const (
	// ProvenanceGenerated marks queries produced by the generative model.
	ProvenanceGenerated Provenance = iota + 1
	// ProvenanceFallback marks queries selected from the template catalogue.
	ProvenanceFallback
)

// String returns the provenance tag used in diagnostics.
func (p Provenance) String() string {
	switch p {
	case ProvenanceGenerated:
		return "generated"
	case ProvenanceFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// Citation identifies the regulation material a piece of context comes from.
// Any field may be empty; a citation with all key fields empty carries no
// grounding information.
type Citation struct {
	Code     string // Standard code, e.g. "IRC:67-2022"
	Clause   string // Clause within the code, e.g. "14.4"
	Category string // Issue category, e.g. "Road Sign"
	Type     string // Issue type, e.g. "STOP Sign"
}

// Key returns the deduplication key for the citation.
// Two hits citing the same code, clause and type are duplicates regardless
// of which channel returned them.
func (c Citation) Key() string {
	return c.Code + "|" + c.Clause + "|" + c.Type
}

// Empty reports whether the citation carries no key fields at all.
func (c Citation) Empty() bool {
	return c.Code == "" && c.Clause == "" && c.Type == ""
}

// Chunk is one indexed unit of regulation text with its precomputed embedding.
// Chunks are created at index build time and are immutable for the process
// lifetime.
type Chunk struct {
	ChunkID  string
	RecordID int
	Text     string
	Vector   []float32
	Citation Citation
	Problem  string // Reported problem, e.g. "Damaged", "Faded"
}

// RetrievalHit is one matched item from either retrieval channel.
type RetrievalHit struct {
	Source   HitSource
	Text     string
	Citation Citation
	Problem  string
	Score    float32 // Cosine similarity for vector hits, 1.0 for graph hits
}

// StructuredQuery is a read-only graph query plus its provenance.
// The translator guarantees that every request yields a usable query,
// so a zero-value StructuredQuery never enters the pipeline.
type StructuredQuery struct {
	Text       string
	Provenance Provenance
}

// FusedContext is the ordered, deduplicated union of both channels' hits.
// Graph hits come first, vector hits after, each side preserving its own
// internal ordering.
type FusedContext struct {
	Hits      []RetrievalHit
	Citations map[string]Citation // Citation key -> citation, for all surviving hits
}

// Empty reports whether the context carries no grounding material.
// An empty context is the single condition that aborts answer generation.
func (f *FusedContext) Empty() bool {
	return f == nil || len(f.Hits) == 0
}

// HasCitation reports whether the given citation key is present in the context.
func (f *FusedContext) HasCitation(key string) bool {
	_, ok := f.Citations[key]
	return ok
}

// Answer is the final structured response of a request.
// Sections the model did not produce are emitted empty, never fabricated.
type Answer struct {
	DirectAnswer       string
	StandardReferences []string
	Interventions      []string
	CodesClauses       []string
	Recommendations    []string
	Citations          []Citation // Citations surviving grounding validation
	Failed             bool       // True for the deterministic processing-failure answer
	Raw                string     // Unparsed model output, kept for diagnostics
}

// Exchange is a persisted record of one completed request.
// Exchanges are diagnostic history only; answers are never conditioned
// on previous exchanges.
type Exchange struct {
	Id          ID
	RequestID   string
	Query       string
	Answer      string
	Provenance  Provenance
	GraphHits   int
	VectorHits  int
	GraphError  bool
	VectorEmpty bool
	Duration    time.Duration
	CreatedAt   time.Time
}
