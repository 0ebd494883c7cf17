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


package index

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/trafficlens/roadrag/core"
)

// Files names the three JSON files an index is loaded from. The files are
// parallel: entry i in each describes the same chunk.
type Files struct {
	Chunks     string // chunk id + raw text
	Embeddings string // fixed-length numeric vectors
	Metadata   string // citation metadata (category, type, code, clause)
}

// chunkEntry mirrors one element of the chunks file.
type chunkEntry struct {
	ChunkID   string `json:"chunk_id"`
	RecordID  int    `json:"record_id"`
	ChunkText string `json:"chunk_text"`
}

// metadataEntry mirrors one element of the metadata file.
// ChunkID is optional; when present it must match the chunks file.
type metadataEntry struct {
	ChunkID  string `json:"chunk_id"`
	Problem  string `json:"problem"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Code     string `json:"code"`
	Clause   string `json:"clause"`
}

// Load reads the three index files, verifies their consistency, and builds the
// in-memory index. Any shape mismatch (unequal counts, duplicate or missing
// ids, wrong embedding dimension) wraps core.ErrIndexLoad: the process must
// not serve requests from a partially loaded index.
func Load(files Files, dim int, opts ...Option) (*Index, error) {
	if dim <= 0 {
		dim = DefaultDimension
	}
	logger := slog.Default().With("component", "index")

	var entries []chunkEntry
	if err := readJSONFile(files.Chunks, &entries); err != nil {
		return nil, fmt.Errorf("%w: chunks file: %w", core.ErrIndexLoad, err)
	}

	vectors, err := loadEmbeddings(files.Embeddings)
	if err != nil {
		return nil, fmt.Errorf("%w: embeddings file: %w", core.ErrIndexLoad, err)
	}

	var metadata []metadataEntry
	if err := readJSONFile(files.Metadata, &metadata); err != nil {
		return nil, fmt.Errorf("%w: metadata file: %w", core.ErrIndexLoad, err)
	}

	if len(entries) != len(vectors) || len(entries) != len(metadata) {
		return nil, fmt.Errorf("%w: count mismatch: %d chunks, %d embeddings, %d metadata entries",
			core.ErrIndexLoad, len(entries), len(vectors), len(metadata))
	}

	seen := make(map[string]bool, len(entries))
	chunks := make([]core.Chunk, 0, len(entries))
	for i, entry := range entries {
		if entry.ChunkID == "" {
			return nil, fmt.Errorf("%w: chunk %d has no id", core.ErrIndexLoad, i)
		}
		if seen[entry.ChunkID] {
			return nil, fmt.Errorf("%w: duplicate chunk id %q", core.ErrIndexLoad, entry.ChunkID)
		}
		seen[entry.ChunkID] = true

		meta := metadata[i]
		if meta.ChunkID != "" && meta.ChunkID != entry.ChunkID {
			return nil, fmt.Errorf("%w: metadata entry %d is for chunk %q, expected %q",
				core.ErrIndexLoad, i, meta.ChunkID, entry.ChunkID)
		}

		chunks = append(chunks, core.Chunk{
			ChunkID:  entry.ChunkID,
			RecordID: entry.RecordID,
			Text:     entry.ChunkText,
			Vector:   vectors[i],
			Citation: core.Citation{
				Code:     meta.Code,
				Clause:   meta.Clause,
				Category: meta.Category,
				Type:     meta.Type,
			},
			Problem: meta.Problem,
		})
	}

	ix, err := New(chunks, dim, opts...)
	if err != nil {
		return nil, err
	}

	logger.Info("embedding index loaded",
		"chunks", len(chunks),
		"dimension", dim,
		"chunksFile", files.Chunks)
	return ix, nil
}

// loadEmbeddings reads the embeddings file, tolerating the shapes the index
// build tooling has produced over time: a bare array of vectors, an array of
// objects holding the vector under a known key, or either of those wrapped in
// a top-level {"embeddings": ...} object.
func loadEmbeddings(path string) ([][]float32, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage = data

	// Unwrap a top-level {"embeddings": [...]} object.
	var wrapper struct {
		Embeddings json.RawMessage `json:"embeddings"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil && wrapper.Embeddings != nil {
		raw = wrapper.Embeddings
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("not a JSON array: %w", err)
	}

	vectors := make([][]float32, 0, len(items))
	for i, item := range items {
		vec, err := decodeVector(item)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

// vectorKeys are the object keys under which a vector may be stored.
var vectorKeys = []string{"embedding", "vector", "values", "features", "embeddings"}

// decodeVector extracts a float vector from either a bare array or an object
// with one of the known vector keys.
func decodeVector(item json.RawMessage) ([]float32, error) {
	var vec []float32
	if err := json.Unmarshal(item, &vec); err == nil {
		if len(vec) == 0 {
			return nil, fmt.Errorf("empty vector")
		}
		return vec, nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(item, &obj); err != nil {
		return nil, fmt.Errorf("neither a vector nor an object")
	}
	for _, key := range vectorKeys {
		rawVec, ok := obj[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(rawVec, &vec); err == nil && len(vec) > 0 {
			return vec, nil
		}
	}
	return nil, fmt.Errorf("no vector found under known keys")
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
