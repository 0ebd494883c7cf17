// Package config provides configuration loading and structs for the roadrag server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug   bool          `yaml:"debug"`
	Server  ServerConfig  `yaml:"server"`
	Index   IndexConfig   `yaml:"index"`
	Graph   GraphConfig   `yaml:"graph"`
	AI      AIConfig      `yaml:"ai"`
	History HistoryConfig `yaml:"history"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// IndexConfig holds embedding index file paths and search settings.
type IndexConfig struct {
	ChunksPath     string  `yaml:"chunks_path"`
	EmbeddingsPath string  `yaml:"embeddings_path"`
	MetadataPath   string  `yaml:"metadata_path"`
	Dimension      int     `yaml:"dimension"`
	MinScore       float64 `yaml:"min_score"`
	TopK           int     `yaml:"top_k"`
}

// GraphConfig holds Neo4j connection settings.
type GraphConfig struct {
	URI        string `yaml:"uri"`
	Username   string `yaml:"username"`
	Password   string `yaml:"password"`
	SchemaPath string `yaml:"schema_path"`
}

// AIConfig holds model endpoint settings.
type AIConfig struct {
	Host           string `yaml:"host"`
	EmbeddingModel string `yaml:"embedding_model"`
	GeneratorModel string `yaml:"generator_model"`
}

// HistoryConfig holds exchange history storage settings.
type HistoryConfig struct {
	Path    string `yaml:"path"`
	Enabled *bool  `yaml:"enabled"`
}

// EnabledOrDefault returns whether history persistence is on; defaults to
// true when unset.
func (h *HistoryConfig) EnabledOrDefault() bool {
	if h.Enabled != nil {
		return *h.Enabled
	}
	return true
}

// Load reads and parses the config file at path, expands paths, and applies
// defaults. Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Index.ChunksPath = expandPath(cfg.Index.ChunksPath, configDir)
	cfg.Index.EmbeddingsPath = expandPath(cfg.Index.EmbeddingsPath, configDir)
	cfg.Index.MetadataPath = expandPath(cfg.Index.MetadataPath, configDir)
	cfg.History.Path = expandPath(cfg.History.Path, configDir)
	if cfg.Graph.SchemaPath != "" {
		cfg.Graph.SchemaPath = expandPath(cfg.Graph.SchemaPath, configDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks settings the pipeline cannot start without.
func (c *Config) Validate() error {
	if c.Index.ChunksPath == "" {
		return fmt.Errorf("config: index.chunks_path is required")
	}
	if c.Index.EmbeddingsPath == "" {
		return fmt.Errorf("config: index.embeddings_path is required")
	}
	if c.Index.MetadataPath == "" {
		return fmt.Errorf("config: index.metadata_path is required")
	}
	if c.Index.Dimension <= 0 {
		return fmt.Errorf("config: index.dimension must be positive")
	}
	if c.Index.MinScore < -1 || c.Index.MinScore > 1 {
		return fmt.Errorf("config: index.min_score must be within [-1, 1]")
	}
	if c.Index.TopK <= 0 {
		return fmt.Errorf("config: index.top_k must be positive")
	}
	if c.Graph.URI == "" {
		return fmt.Errorf("config: graph.uri is required")
	}
	return nil
}

// Addr returns the host:port the HTTP server binds to.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
