package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficlens/roadrag/core"
)

// fakeStore is an in-memory Store double.
type fakeStore struct {
	records []Record
	err     error
	queries []string
	closed  bool
}

func (s *fakeStore) Run(ctx context.Context, query string) ([]Record, error) {
	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *fakeStore) Close(ctx context.Context) error {
	s.closed = true
	return nil
}

func TestNewExecutor(t *testing.T) {
	t.Run("nil store", func(t *testing.T) {
		_, err := NewExecutor(nil)
		assert.ErrorIs(t, err, ErrStoreRequired)
	})

	t.Run("valid", func(t *testing.T) {
		exec, err := NewExecutor(&fakeStore{})
		require.NoError(t, err)
		assert.NotNil(t, exec)
	})
}

func TestExecuteNormalizesRecords(t *testing.T) {
	store := &fakeStore{
		records: []Record{
			{
				"i.type":     "STOP Sign",
				"i.problem":  "Damaged",
				"i.category": "Road Sign",
				"i.code":     "IRC:67-2022",
				"i.clause":   "14.2",
			},
			{
				// Bare field names and a numeric value.
				"type": "Speed Bump",
				"s_no": float64(42),
			},
		},
	}
	exec, err := NewExecutor(store)
	require.NoError(t, err)

	hits, err := exec.Execute(context.Background(), core.StructuredQuery{
		Text:       "MATCH (i:InfrastructureIssue) RETURN i.type",
		Provenance: core.ProvenanceGenerated,
	})
	require.NoError(t, err)
	require.Len(t, hits, 2)

	first := hits[0]
	assert.Equal(t, core.SourceGraph, first.Source)
	assert.Equal(t, float32(1.0), first.Score)
	assert.Equal(t, "IRC:67-2022", first.Citation.Code)
	assert.Equal(t, "14.2", first.Citation.Clause)
	assert.Equal(t, "STOP Sign", first.Citation.Type)
	assert.Equal(t, "Road Sign", first.Citation.Category)
	assert.Equal(t, "Damaged", first.Problem)
	assert.Equal(t,
		"type: STOP Sign, problem: Damaged, category: Road Sign, code: IRC:67-2022, clause: 14.2",
		first.Text)

	second := hits[1]
	assert.Equal(t, "Speed Bump", second.Citation.Type)
	assert.Equal(t, "type: Speed Bump, s_no: 42", second.Text)

	require.Len(t, store.queries, 1)
	assert.Equal(t, "MATCH (i:InfrastructureIssue) RETURN i.type", store.queries[0])
}

func TestExecuteEmptyResult(t *testing.T) {
	exec, err := NewExecutor(&fakeStore{})
	require.NoError(t, err)

	hits, err := exec.Execute(context.Background(), core.StructuredQuery{
		Text:       "MATCH (i:InfrastructureIssue) RETURN i.type",
		Provenance: core.ProvenanceFallback,
	})
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NotNil(t, hits)
}

func TestExecuteStoreFailureIsRecoverable(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	exec, err := NewExecutor(store)
	require.NoError(t, err)

	hits, err := exec.Execute(context.Background(), core.StructuredQuery{
		Text:       "MATCH (i:InfrastructureIssue) RETURN i.type",
		Provenance: core.ProvenanceGenerated,
	})

	assert.ErrorIs(t, err, core.ErrGraphExecution)
	assert.NotNil(t, hits)
	assert.Empty(t, hits)
}

func TestExecuteHonorsCancellation(t *testing.T) {
	store := &fakeStore{err: context.Canceled}
	exec, err := NewExecutor(store)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = exec.Execute(ctx, core.StructuredQuery{Text: "MATCH (i) RETURN i"})
	assert.ErrorIs(t, err, core.ErrGraphExecution)
}

func TestNormalizeRecordMixedValues(t *testing.T) {
	hit := normalizeRecord(Record{
		"i.code": "IRC:35-2015",
		"total":  float64(7),
		"ratio":  0.5,
		"note":   nil,
	})

	assert.Equal(t, "IRC:35-2015", hit.Citation.Code)
	assert.Equal(t, "code: IRC:35-2015, ratio: 0.5, total: 7", hit.Text)
}
