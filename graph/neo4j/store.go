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


// Package neo4j implements the graph.Store port on a Neo4j database.
package neo4j

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/trafficlens/roadrag/graph"
)

// Store executes read-only queries against a Neo4j database.
// The underlying driver maintains its own connection pool; each query
// acquires a short-lived read session and releases it on every exit path.
type Store struct {
	driver neo4j.DriverWithContext
	logger *slog.Logger
}

var _ graph.Store = (*Store)(nil)

// NewStore connects to Neo4j and verifies connectivity before returning.
func NewStore(ctx context.Context, uri, username, password string) (graph.Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("creating neo4j driver: %w", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verifying neo4j connectivity: %w", err)
	}

	logger := slog.Default().With("component", "neo4j-store")
	logger.Info("connected to neo4j", "uri", uri)

	return &Store{
		driver: driver,
		logger: logger,
	}, nil
}

// Run executes the query in a read session and collects the records as flat
// field-name-to-value maps.
func (s *Store) Run(ctx context.Context, query string) ([]graph.Record, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer func() {
		if err := session.Close(ctx); err != nil {
			s.logger.Warn("closing neo4j session", "err", err)
		}
	}()

	result, err := session.Run(ctx, query, nil)
	if err != nil {
		return nil, err
	}

	collected, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}

	records := make([]graph.Record, 0, len(collected))
	for _, rec := range collected {
		records = append(records, graph.Record(rec.AsMap()))
	}
	return records, nil
}

// Close shuts down the driver and its connection pool.
func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}
