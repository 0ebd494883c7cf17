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


// Package graph provides the structured retrieval channel: translating
// natural-language questions into read-only Cypher queries and executing them
// against a graph store.
//
// The Translator pairs a generative model with a deterministic template
// fallback, so translation always yields a usable query even when the model
// times out or produces garbage. Every candidate query, generated or not, is
// validated against the dataset schema and rejected if it references unknown
// labels or attempts any write operation.
//
// The Executor runs queries through the Store port and normalizes the
// returned flat records into retrieval hits with explicit citations. Store
// failures are recoverable: the caller degrades to vector-only context.
package graph
