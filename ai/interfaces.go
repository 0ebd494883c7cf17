package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)
}

// Generator produces text completions from prompts.
// It is a stateless capability: no session or conversation state is kept
// between calls, and the caller bounds every call with a context deadline.
// Implementations must be thread-safe for concurrent use.
type Generator interface {
	// Generate produces a completion for the given prompt.
	// The call blocks until the completion is available, the context deadline
	// expires, or the underlying service fails.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
}

// GenerateOptions controls a single generation call.
type GenerateOptions struct {
	// Temperature controls sampling randomness. Lower values make output
	// more deterministic; query translation uses 0.1, synthesis 0.7.
	Temperature float64

	// MaxTokens bounds the completion length. Zero means the provider default.
	MaxTokens int
}

// Provider aggregates AI services for convenient initialization and lifecycle management.
// A provider creates and manages Embedder and Generator instances,
// ensuring they share configuration and resources appropriately.
type Provider interface {
	// Embedder returns the text embedding service.
	// The returned Embedder is safe for concurrent use.
	Embedder() Embedder

	// Generator returns the text generation service.
	// The returned Generator is safe for concurrent use.
	Generator() Generator

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
