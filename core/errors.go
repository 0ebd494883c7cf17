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


package core

import "errors"

// Pipeline error taxonomy.
//
// ErrIndexLoad is fatal at startup. ErrQueryGeneration and ErrGraphExecution
// are recoverable: the pipeline degrades to the surviving channel instead of
// aborting. ErrEmptyContext and ErrGenerationTimeout are the only terminal
// per-request conditions.
var (
	// ErrIndexLoad indicates the embedding index files are inconsistent.
	// The process must not serve requests with a partially loaded index.
	ErrIndexLoad = errors.New("embedding index load failed")

	// ErrQueryGeneration indicates the generative translation attempt failed.
	// It is always resolved internally by the template fallback and never
	// surfaces past the translator.
	ErrQueryGeneration = errors.New("query generation failed")

	// ErrGraphExecution indicates the graph store rejected or failed a query.
	// The pipeline degrades to vector-only context.
	ErrGraphExecution = errors.New("graph query execution failed")

	// ErrVectorSearchDegraded indicates every vector hit fell below the
	// confidence threshold. The pipeline degrades to graph-only context.
	ErrVectorSearchDegraded = errors.New("no vector hits above confidence threshold")

	// ErrEmptyContext indicates both channels returned nothing.
	// Generation is never attempted without grounding material.
	ErrEmptyContext = errors.New("no grounding material retrieved")

	// ErrGenerationTimeout indicates answer generation failed after retry.
	ErrGenerationTimeout = errors.New("answer generation timed out")
)

// Domain validation errors
var (
	// ErrInvalidChunk indicates a Chunk failed validation.
	ErrInvalidChunk = errors.New("invalid chunk")

	// ErrInvalidExchange indicates an Exchange failed validation.
	ErrInvalidExchange = errors.New("invalid exchange")

	// ErrEmptyQuery indicates the query text is empty.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrEmptyChunkText indicates the chunk Text field is empty.
	ErrEmptyChunkText = errors.New("chunk text cannot be empty")

	// ErrEmptyVector indicates a chunk carries no embedding vector.
	ErrEmptyVector = errors.New("chunk vector cannot be empty")

	// ErrInvalidTimestamp indicates a timestamp is in the future.
	ErrInvalidTimestamp = errors.New("timestamp cannot be in the future")
)
