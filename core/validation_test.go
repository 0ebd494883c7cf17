package core

import (
	"errors"
	"testing"
	"time"
)

func TestValidateChunk(t *testing.T) {
	tests := []struct {
		name    string
		chunk   *Chunk
		wantErr error
	}{
		{
			name: "valid chunk",
			chunk: &Chunk{
				ChunkID:  "chunk_1",
				RecordID: 1,
				Text:     "Road signs shall remain visible at all times.",
				Vector:   []float32{0.1, 0.2, 0.3},
			},
			wantErr: nil,
		},
		{
			name: "valid chunk with empty citation",
			chunk: &Chunk{
				ChunkID: "chunk_2",
				Text:    "Some regulation text",
				Vector:  []float32{0.5},
			},
			wantErr: nil,
		},
		{
			name:    "nil chunk",
			chunk:   nil,
			wantErr: ErrInvalidChunk,
		},
		{
			name: "empty text",
			chunk: &Chunk{
				ChunkID: "chunk_3",
				Vector:  []float32{0.1},
			},
			wantErr: ErrEmptyChunkText,
		},
		{
			name: "missing vector",
			chunk: &Chunk{
				ChunkID: "chunk_4",
				Text:    "text without embedding",
			},
			wantErr: ErrEmptyVector,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateChunk(tt.chunk)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateChunk() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateChunk() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateExchange(t *testing.T) {
	validTime := time.Now().Add(-1 * time.Minute)
	futureTime := time.Now().Add(1 * time.Hour)

	tests := []struct {
		name     string
		exchange *Exchange
		wantErr  error
	}{
		{
			name: "valid exchange",
			exchange: &Exchange{
				Query:     "What regulations govern STOP signs?",
				Answer:    "Per IRC:67-2022 Clause 14.4 ...",
				CreatedAt: validTime,
			},
			wantErr: nil,
		},
		{
			name:     "nil exchange",
			exchange: nil,
			wantErr:  ErrInvalidExchange,
		},
		{
			name: "empty query",
			exchange: &Exchange{
				Answer:    "something",
				CreatedAt: validTime,
			},
			wantErr: ErrEmptyQuery,
		},
		{
			name: "future timestamp",
			exchange: &Exchange{
				Query:     "How many issues are there?",
				CreatedAt: futureTime,
			},
			wantErr: ErrInvalidTimestamp,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExchange(tt.exchange)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateExchange() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExchange() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateProvenance(t *testing.T) {
	if err := ValidateProvenance(ProvenanceGenerated); err != nil {
		t.Errorf("ProvenanceGenerated should validate: %v", err)
	}
	if err := ValidateProvenance(ProvenanceFallback); err != nil {
		t.Errorf("ProvenanceFallback should validate: %v", err)
	}
	if err := ValidateProvenance(Provenance(0)); err == nil {
		t.Error("zero provenance should fail validation")
	}
	if err := ValidateProvenance(Provenance(42)); err == nil {
		t.Error("out-of-range provenance should fail validation")
	}
}
