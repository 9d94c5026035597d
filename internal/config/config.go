// Package config provides configuration loading for docrag.
//
// Precedence, highest first: environment variables (DOCRAG_ prefix), YAML
// config file, hardcoded defaults.
package config

import (
	"fmt"

	"github.com/matheus-rech/docling-rag/internal/confidence"
	"github.com/matheus-rech/docling-rag/internal/embeddings"
	"github.com/matheus-rech/docling-rag/internal/extraction"
	"github.com/matheus-rech/docling-rag/internal/generation"
	"github.com/matheus-rech/docling-rag/internal/logging"
	"github.com/matheus-rech/docling-rag/internal/vectorindex"
)

// Config is the root configuration.
type Config struct {
	Logging    logging.Config     `koanf:"logging"`
	Embeddings embeddings.Config  `koanf:"embeddings"`
	Index      vectorindex.Config `koanf:"index"`
	Confidence confidence.Config  `koanf:"confidence"`
	Extraction ExtractionConfig   `koanf:"extraction"`
	Generation GenerationConfig   `koanf:"generation"`
	Server     ServerConfig       `koanf:"server"`
}

// ExtractionConfig toggles heuristic field extraction.
type ExtractionConfig struct {
	Enabled   bool              `koanf:"enabled"`
	Heuristic extraction.Config `koanf:"heuristic"`
}

// GenerationConfig toggles the answer-generation collaborator.
type GenerationConfig struct {
	Enabled bool              `koanf:"enabled"`
	Ollama  generation.Config `koanf:"ollama"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// Default returns the built-in defaults: TEI embeddings against localhost,
// the flat index, even confidence weights, extraction and generation off.
func Default() *Config {
	return &Config{
		Logging: logging.DefaultConfig(),
		Embeddings: embeddings.Config{
			Provider: "tei",
			BaseURL:  "http://localhost:8080",
		},
		Index: vectorindex.Config{
			Provider: "flat",
		},
		Confidence: confidence.DefaultConfig(),
		Generation: GenerationConfig{Enabled: false},
		Server: ServerConfig{
			Host: "localhost",
			Port: 8099,
		},
	}
}

// Validate validates the configuration tree.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Confidence.Validate(); err != nil {
		return fmt.Errorf("confidence: %w", err)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server: port %d out of range", c.Server.Port)
	}
	// Index dimension may legitimately be zero here; the engine fills it
	// in from the embedder at construction time.
	if c.Index.Dimension < 0 {
		return fmt.Errorf("index: negative dimension %d", c.Index.Dimension)
	}
	return nil
}
