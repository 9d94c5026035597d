package embeddings

import (
	"fmt"
	"time"
)

// Config selects and configures an embedding provider.
type Config struct {
	// Provider is the provider type: "tei" (default) or "ollama".
	Provider string `koanf:"provider"`

	// Model is the embedding model name.
	Model string `koanf:"model"`

	// BaseURL is the provider server address (TEI base URL or Ollama
	// server URL).
	BaseURL string `koanf:"base_url"`

	// Dimension overrides model-based dimension detection.
	Dimension int `koanf:"dimension"`

	// Timeout bounds each embed request.
	Timeout time.Duration `koanf:"timeout"`
}

// NewProvider creates an embedding provider based on the configuration.
func NewProvider(cfg Config) (Provider, error) {
	switch cfg.Provider {
	case "tei", "":
		return NewTEIProvider(TEIConfig{
			BaseURL:   cfg.BaseURL,
			Model:     cfg.Model,
			Dimension: cfg.Dimension,
			Timeout:   cfg.Timeout,
		})
	case "ollama":
		return NewOllamaProvider(OllamaConfig{
			ServerURL: cfg.BaseURL,
			Model:     cfg.Model,
			Dimension: cfg.Dimension,
			Timeout:   cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("%w: %q (supported: tei, ollama)", ErrUnknownProvider, cfg.Provider)
	}
}
