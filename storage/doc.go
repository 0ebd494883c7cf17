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


// Package storage provides the persistence abstraction for roadrag.
//
// It defines the repository interface for exchange history so different
// backends (BadgerDB, in-memory) can be used interchangeably. Answers are
// never conditioned on stored exchanges; the history exists for diagnostics
// and the history API only.
//
// All repository implementations must be thread-safe and support concurrent
// access from multiple goroutines. All methods accept context.Context for
// cancellation; pass context.Background() when no timeout is needed.
package storage
