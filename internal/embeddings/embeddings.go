// Package embeddings generates fixed-length vectors from text via external
// embedding collaborators. Providers must be deterministic: identical input
// text yields identical vectors, which keeps the vector index reproducible.
// The core performs no retries and no cross-process caching; both are the
// provider's concern.
package embeddings

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors for embedding operations.
var (
	// ErrEmptyInput indicates empty or nil input texts.
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid embeddings configuration")

	// ErrEmbeddingFailed indicates the upstream embedding call failed.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrUnknownProvider indicates an unsupported provider in the config.
	ErrUnknownProvider = errors.New("unknown embeddings provider")
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// EmbedQuery generates an embedding for a single query string.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)

	// EmbedDocuments generates embeddings for multiple texts, one vector
	// per input, in input order.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)
}

// Provider is an Embedder with a known output dimension and a lifecycle.
type Provider interface {
	Embedder
	// Dimension returns the embedding dimension for the configured model.
	Dimension() int
	// Close releases resources held by the provider.
	Close() error
}

// detectDimension returns the embedding dimension for a model name,
// falling back to 384 (bge-small / MiniLM class models).
func detectDimension(model string) int {
	switch {
	case strings.Contains(model, "large"):
		return 1024
	case strings.Contains(model, "base"):
		return 768
	case strings.Contains(model, "small"), strings.Contains(model, "mini"), strings.Contains(model, "MiniLM"):
		return 384
	default:
		return 384
	}
}
