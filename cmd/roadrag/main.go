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


package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/trafficlens/roadrag"
	"github.com/trafficlens/roadrag/ai"
	"github.com/trafficlens/roadrag/ai/openai"
	"github.com/trafficlens/roadrag/config"
	"github.com/trafficlens/roadrag/graph"
	"github.com/trafficlens/roadrag/graph/neo4j"
	"github.com/trafficlens/roadrag/index"
	"github.com/trafficlens/roadrag/server"
	"github.com/trafficlens/roadrag/storage"
	roadragbadger "github.com/trafficlens/roadrag/storage/badger"
)

func main() {
	app := &cli.App{
		Name:  "roadrag",
		Usage: "Road-safety regulation assistant over a fused vector and graph retrieval pipeline",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to YAML configuration file",
				Value:   "config.yaml",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Start the HTTP API server",
				Action: serveCommand,
			},
			{
				Name:      "ask",
				Usage:     "Answer a single question on the command line",
				ArgsUsage: "<question>",
				Action:    askCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// buildPipeline assembles the full pipeline from the configuration.
func buildPipeline(ctx context.Context, cfg *config.Config) (*roadrag.Pipeline, error) {
	idx, err := index.Load(index.Files{
		Chunks:     cfg.Index.ChunksPath,
		Embeddings: cfg.Index.EmbeddingsPath,
		Metadata:   cfg.Index.MetadataPath,
	}, cfg.Index.Dimension, index.WithMinScore(float32(cfg.Index.MinScore)))
	if err != nil {
		return nil, fmt.Errorf("loading embedding index: %w", err)
	}

	aiConfig := ai.NewConfig(
		ai.WithHost(cfg.AI.Host),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithGeneratorModel(cfg.AI.GeneratorModel),
	)
	provider, err := openai.NewProvider(aiConfig)
	if err != nil {
		return nil, err
	}

	store, err := neo4j.NewStore(ctx, cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password)
	if err != nil {
		provider.Close()
		return nil, fmt.Errorf("connecting to graph store: %w", err)
	}

	schema := graph.DefaultSchema()
	if cfg.Graph.SchemaPath != "" {
		schema, err = graph.LoadSchema(cfg.Graph.SchemaPath)
		if err != nil {
			provider.Close()
			store.Close(ctx)
			return nil, err
		}
	}

	var history storage.HistoryRepository
	if cfg.History.EnabledOrDefault() {
		backend, err := roadragbadger.OpenBackend(cfg.History.Path, false)
		if err != nil {
			provider.Close()
			store.Close(ctx)
			return nil, fmt.Errorf("opening history store: %w", err)
		}
		history, err = roadragbadger.NewHistoryRepository(backend)
		if err != nil {
			backend.Close()
			provider.Close()
			store.Close(ctx)
			return nil, err
		}
	}

	opts := []roadrag.Option{
		roadrag.WithSchema(schema),
		roadrag.WithTopK(cfg.Index.TopK),
	}
	if history != nil {
		opts = append(opts, roadrag.WithHistory(history))
	}

	pipeline, err := roadrag.NewPipeline(idx, provider, store, opts...)
	if err != nil {
		if history != nil {
			history.Close()
		}
		provider.Close()
		store.Close(ctx)
		return nil, err
	}
	return pipeline, nil
}

func serveCommand(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	ctx := c.Context
	pipeline, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer pipeline.Close(context.Background())

	srv := server.NewServer(pipeline, &cfg.Server, slog.Default())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		slog.Info("shutting down", "signal", sig.String())
		return srv.Stop(context.Background())
	}
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("usage: roadrag ask <question>")
	}

	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	ctx := c.Context
	pipeline, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer pipeline.Close(context.Background())

	result, err := pipeline.Ask(ctx, question)
	if err != nil {
		return err
	}

	printAnswer(result)
	return nil
}

func printAnswer(result *roadrag.Result) {
	fmt.Println(result.Answer.DirectAnswer)

	printSection := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Printf("\n%s:\n", title)
		for _, item := range items {
			fmt.Printf("  - %s\n", item)
		}
	}

	printSection("Standard references", result.Answer.StandardReferences)
	printSection("Interventions", result.Answer.Interventions)
	printSection("Codes and clauses", result.Answer.CodesClauses)
	printSection("Recommendations", result.Answer.Recommendations)

	fmt.Printf("\n[%s | graph %d | vector %d | %s]\n",
		result.Provenance, len(result.GraphHits), len(result.VectorHits), result.Duration)
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
