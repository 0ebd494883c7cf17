package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trafficlens/roadrag/core"
)

func TestExchangeRoundTrip(t *testing.T) {
	original := &core.Exchange{
		Id:          42,
		RequestID:   "req-123",
		Query:       "What are the regulations for damaged STOP signs?",
		Answer:      "Replace per IRC:67-2022, Clause 14.4.",
		Provenance:  core.ProvenanceGenerated,
		GraphHits:   3,
		VectorHits:  5,
		GraphError:  false,
		VectorEmpty: false,
		Duration:    1200 * time.Millisecond,
		CreatedAt:   time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}

	data, err := MarshalExchange(original)
	require.NoError(t, err)

	restored, err := UnmarshalExchange(data)
	require.NoError(t, err)
	assert.Equal(t, original, restored)
}

func TestUnmarshalExchangeCorrupt(t *testing.T) {
	_, err := UnmarshalExchange([]byte("{broken"))
	assert.ErrorIs(t, err, ErrSerializationFailed)
}

func TestIDRoundTrip(t *testing.T) {
	data := MarshalID(core.ID(987654321))
	require.Len(t, data, 8)

	id, err := UnmarshalID(data)
	require.NoError(t, err)
	assert.Equal(t, core.ID(987654321), id)
}

func TestUnmarshalIDWrongLength(t *testing.T) {
	_, err := UnmarshalID([]byte{1, 2, 3})
	assert.ErrorIs(t, err, ErrSerializationFailed)
}
