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

import (
	"fmt"
	"time"
)

// ValidateChunk validates a Chunk according to domain rules.
//
// Validation rules:
//   - Text must not be empty
//   - Vector must not be empty
//
// NOT validated:
//   - Vector dimensionality (checked against the configured dimension by the
//     index loader, which knows the expected value)
//   - Citation fields (may legitimately be empty)
func ValidateChunk(chunk *Chunk) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyChunkText)
	}

	if len(chunk.Vector) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyVector)
	}

	return nil
}

// ValidateExchange validates an Exchange according to domain rules.
//
// Validation rules:
//   - Query must not be empty
//   - CreatedAt must not be in the future
func ValidateExchange(exchange *Exchange) error {
	if exchange == nil {
		return fmt.Errorf("%w: exchange is nil", ErrInvalidExchange)
	}

	if exchange.Query == "" {
		return fmt.Errorf("%w: %w", ErrInvalidExchange, ErrEmptyQuery)
	}

	if !IsValidTimestamp(exchange.CreatedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidExchange, ErrInvalidTimestamp)
	}

	return nil
}

// ValidateProvenance validates that a Provenance has a valid value.
func ValidateProvenance(p Provenance) error {
	if p != ProvenanceGenerated && p != ProvenanceFallback {
		return fmt.Errorf("invalid provenance value: %d", p)
	}
	return nil
}

// IsValidTimestamp checks if a timestamp is valid (not in the future).
// A small clock skew tolerance is allowed for distributed scenarios.
func IsValidTimestamp(t time.Time) bool {
	return !t.After(time.Now().Add(5 * time.Second))
}
