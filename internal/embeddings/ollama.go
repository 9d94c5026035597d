package embeddings

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms/ollama"
)

// OllamaConfig holds configuration for a local Ollama embedding model.
type OllamaConfig struct {
	// ServerURL is the Ollama server address. Default: http://localhost:11434.
	ServerURL string `koanf:"server_url"`

	// Model is the embedding model name. Default: nomic-embed-text.
	Model string `koanf:"model"`

	// Dimension overrides model-based dimension detection.
	Dimension int `koanf:"dimension"`

	// Timeout bounds each embed request. Default: 30s.
	Timeout time.Duration `koanf:"timeout"`
}

// ApplyDefaults sets default values for unset fields.
func (c *OllamaConfig) ApplyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = "nomic-embed-text"
	}
	if c.Dimension == 0 {
		// nomic-embed-text produces 768-dimensional vectors.
		if c.Model == "nomic-embed-text" {
			c.Dimension = 768
		} else {
			c.Dimension = detectDimension(c.Model)
		}
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

// OllamaProvider embeds text through a local Ollama server via langchaingo.
type OllamaProvider struct {
	llm    *ollama.LLM
	config OllamaConfig
}

// NewOllamaProvider creates an Ollama-backed embedding provider.
func NewOllamaProvider(cfg OllamaConfig) (*OllamaProvider, error) {
	cfg.ApplyDefaults()

	llm, err := ollama.New(
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &OllamaProvider{llm: llm, config: cfg}, nil
}

// EmbedDocuments generates embeddings for multiple texts.
func (p *OllamaProvider) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, fmt.Errorf("%w: texts cannot be empty", ErrEmptyInput)
	}

	ctx, cancel := context.WithTimeout(ctx, p.config.Timeout)
	defer cancel()

	vectors, err := p.llm.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbeddingFailed, err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: got %d vectors for %d texts", ErrEmbeddingFailed, len(vectors), len(texts))
	}
	return vectors, nil
}

// EmbedQuery generates an embedding for a single query.
func (p *OllamaProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: text cannot be empty", ErrEmptyInput)
	}
	vectors, err := p.EmbedDocuments(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// Dimension returns the embedding dimension for the configured model.
func (p *OllamaProvider) Dimension() int { return p.config.Dimension }

// Close is a no-op; Ollama is reached over HTTP.
func (p *OllamaProvider) Close() error { return nil }
