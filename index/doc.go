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


// Package index provides the in-process semantic embedding index.
//
// The index is built once at startup from three JSON files (chunk texts,
// precomputed embedding vectors, citation metadata) and is immutable for the
// process lifetime, so concurrent searches need no locking. Lookup is exact
// nearest-neighbor by cosine similarity with a configurable confidence floor.
package index
