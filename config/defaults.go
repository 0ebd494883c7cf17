package config

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Index.ChunksPath == "" {
		cfg.Index.ChunksPath = "./data/chunks.json"
	}
	if cfg.Index.EmbeddingsPath == "" {
		cfg.Index.EmbeddingsPath = "./data/embeddings.json"
	}
	if cfg.Index.MetadataPath == "" {
		cfg.Index.MetadataPath = "./data/metadata.json"
	}
	if cfg.Index.Dimension == 0 {
		cfg.Index.Dimension = 384
	}
	if cfg.Index.MinScore == 0 {
		cfg.Index.MinScore = 0.30
	}
	if cfg.Index.TopK == 0 {
		cfg.Index.TopK = 5
	}
	if cfg.Graph.URI == "" {
		cfg.Graph.URI = "bolt://localhost:7687"
	}
	if cfg.Graph.Username == "" {
		cfg.Graph.Username = "neo4j"
	}
	if cfg.AI.Host == "" {
		cfg.AI.Host = "http://localhost:11434/v1"
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = "all-minilm"
	}
	if cfg.AI.GeneratorModel == "" {
		cfg.AI.GeneratorModel = "llama3.1:8b"
	}
	if cfg.History.Path == "" {
		cfg.History.Path = "./data/history"
	}
}
