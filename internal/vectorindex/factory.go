package vectorindex

import (
	"fmt"

	"go.uber.org/zap"
)

// Config selects and configures an index provider.
type Config struct {
	// Provider is the index backend: "flat" (default) or "chromem".
	Provider string `koanf:"provider"`

	// Dimension is the embedding dimension. Must match the embedder.
	Dimension int `koanf:"dimension"`

	// Chromem configures the chromem provider.
	Chromem ChromemConfig `koanf:"chromem"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.Provider == "" {
		c.Provider = "flat"
	}
	c.Chromem.ApplyDefaults()
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive, got %d", ErrInvalidConfig, c.Dimension)
	}
	switch c.Provider {
	case "", "flat", "chromem":
		return nil
	default:
		return fmt.Errorf("%w: %q (supported: flat, chromem)", ErrUnknownProvider, c.Provider)
	}
}

// New creates an Index based on the configuration.
//
//   - "flat" (default): exact in-memory index with deterministic ordering.
//   - "chromem": embedded chromem-go backend with optional persistence.
func New(cfg Config, logger *zap.Logger) (Index, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Provider {
	case "flat":
		return NewFlat(cfg.Dimension)
	case "chromem":
		return NewChromem(cfg.Chromem, cfg.Dimension, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}
}
