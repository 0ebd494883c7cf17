package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trafficlens/roadrag/core"
)

func testChunk(id string, text string, vector []float32) core.Chunk {
	return core.Chunk{
		ChunkID: id,
		Text:    text,
		Vector:  vector,
		Citation: core.Citation{
			Code:   "IRC:67-2022",
			Clause: "14.4",
			Type:   "STOP Sign",
		},
	}
}

func TestNew_DimensionMismatch(t *testing.T) {
	chunks := []core.Chunk{
		testChunk("chunk_0", "first", []float32{1, 0, 0}),
		testChunk("chunk_1", "second", []float32{1, 0}),
	}

	_, err := New(chunks, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrIndexLoad)
}

func TestNew_InvalidChunk(t *testing.T) {
	chunks := []core.Chunk{
		{ChunkID: "chunk_0", Text: "", Vector: []float32{1, 0, 0}},
	}

	_, err := New(chunks, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrIndexLoad)
}

func TestSearch_OrderedBySimilarity(t *testing.T) {
	chunks := []core.Chunk{
		testChunk("chunk_0", "weak match", []float32{0.5, 0.5, 0.7}),
		testChunk("chunk_1", "exact match", []float32{1, 0, 0}),
		testChunk("chunk_2", "close match", []float32{0.9, 0.1, 0}),
	}
	ix, err := New(chunks, 3, WithMinScore(0))
	require.NoError(t, err)

	hits, err := ix.Search([]float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)

	assert.Equal(t, "exact match", hits[0].Text)
	assert.Equal(t, "close match", hits[1].Text)
	assert.Equal(t, "weak match", hits[2].Text)

	// Scores are non-increasing.
	for i := 1; i < len(hits); i++ {
		assert.GreaterOrEqual(t, hits[i-1].Score, hits[i].Score)
	}
	for _, hit := range hits {
		assert.Equal(t, core.SourceVector, hit.Source)
	}
}

func TestSearch_TiesKeepInsertionOrder(t *testing.T) {
	// Identical vectors: all scores tie at 1.0.
	chunks := []core.Chunk{
		testChunk("chunk_0", "first", []float32{1, 0, 0}),
		testChunk("chunk_1", "second", []float32{1, 0, 0}),
		testChunk("chunk_2", "third", []float32{1, 0, 0}),
	}
	ix, err := New(chunks, 3)
	require.NoError(t, err)

	hits, err := ix.Search([]float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "first", hits[0].Text)
	assert.Equal(t, "second", hits[1].Text)
	assert.Equal(t, "third", hits[2].Text)
}

func TestSearch_ThresholdDropsWeakHits(t *testing.T) {
	chunks := []core.Chunk{
		testChunk("chunk_0", "relevant", []float32{1, 0, 0}),
		testChunk("chunk_1", "orthogonal", []float32{0, 1, 0}),
	}
	ix, err := New(chunks, 3, WithMinScore(0.5))
	require.NoError(t, err)

	hits, err := ix.Search([]float32{1, 0, 0}, 10)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "relevant", hits[0].Text)
}

func TestSearch_AllBelowThresholdIsEmptyNotError(t *testing.T) {
	chunks := []core.Chunk{
		testChunk("chunk_0", "orthogonal", []float32{0, 1, 0}),
		testChunk("chunk_1", "opposite", []float32{-1, 0, 0}),
	}
	ix, err := New(chunks, 3, WithMinScore(0.5))
	require.NoError(t, err)

	hits, err := ix.Search([]float32{1, 0, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_RespectsK(t *testing.T) {
	chunks := []core.Chunk{
		testChunk("chunk_0", "a", []float32{1, 0, 0}),
		testChunk("chunk_1", "b", []float32{0.9, 0.1, 0}),
		testChunk("chunk_2", "c", []float32{0.8, 0.2, 0}),
	}
	ix, err := New(chunks, 3, WithMinScore(0))
	require.NoError(t, err)

	hits, err := ix.Search([]float32{1, 0, 0}, 2)
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	hits, err = ix.Search([]float32{1, 0, 0}, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	ix, err := New([]core.Chunk{testChunk("chunk_0", "a", []float32{1, 0, 0})}, 3)
	require.NoError(t, err)

	_, err = ix.Search([]float32{1, 0}, 5)
	assert.Error(t, err)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float32
	}{
		{name: "identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "zero vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-6)
		})
	}
}

func TestStats(t *testing.T) {
	ix, err := New([]core.Chunk{
		testChunk("chunk_0", "a", []float32{1, 0, 0}),
		testChunk("chunk_1", "b", []float32{0, 1, 0}),
	}, 3, WithMinScore(0.25))
	require.NoError(t, err)

	stats := ix.Stats()
	assert.Equal(t, 2, stats.Chunks)
	assert.Equal(t, 3, stats.Dimension)
	assert.InDelta(t, 0.25, stats.MinScore, 1e-6)
}
