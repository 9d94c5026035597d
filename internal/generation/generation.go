// Package generation defines the answer-generation collaborator boundary
// and an Ollama-backed implementation. Generation is best-effort: it can
// fail or time out, and callers decide how to degrade.
package generation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// ErrGenerationFailed indicates the upstream model call failed.
var ErrGenerationFailed = errors.New("answer generation failed")

// Generator produces an answer to a query given retrieved context text.
type Generator interface {
	Answer(ctx context.Context, query, contextText string) (string, error)
}

// promptTemplate frames the retrieved chunk as the only source of truth.
const promptTemplate = `You are a research assistant analyzing a document.

Context from the document:
%s

Question: %s

Provide a detailed, accurate answer based only on the context provided.`

// Config holds configuration for the Ollama generator.
type Config struct {
	// ServerURL is the Ollama server address. Default: http://localhost:11434.
	ServerURL string `koanf:"server_url"`

	// Model is the generation model name. Default: llama3.
	Model string `koanf:"model"`

	// Timeout bounds each generation call. Default: 60s.
	Timeout time.Duration `koanf:"timeout"`
}

// ApplyDefaults sets default values for unset fields.
func (c *Config) ApplyDefaults() {
	if c.ServerURL == "" {
		c.ServerURL = "http://localhost:11434"
	}
	if c.Model == "" {
		c.Model = "llama3"
	}
	if c.Timeout == 0 {
		c.Timeout = 60 * time.Second
	}
}

// OllamaGenerator generates answers through a local Ollama server.
type OllamaGenerator struct {
	llm    *ollama.LLM
	config Config
}

// NewOllamaGenerator creates an Ollama-backed generator.
func NewOllamaGenerator(cfg Config) (*OllamaGenerator, error) {
	cfg.ApplyDefaults()

	llm, err := ollama.New(
		ollama.WithServerURL(cfg.ServerURL),
		ollama.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("creating ollama client: %w", err)
	}
	return &OllamaGenerator{llm: llm, config: cfg}, nil
}

// Answer generates an answer from the query and context text. The call is
// bounded by the configured timeout; a deadline expiry surfaces as a
// context.DeadlineExceeded wrapped in ErrGenerationFailed for the engine to
// classify.
func (g *OllamaGenerator) Answer(ctx context.Context, query, contextText string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.config.Timeout)
	defer cancel()

	prompt := BuildPrompt(query, contextText)
	answer, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}
	return strings.TrimSpace(answer), nil
}

// BuildPrompt renders the generation prompt for a query and its context.
func BuildPrompt(query, contextText string) string {
	return fmt.Sprintf(promptTemplate, contextText, query)
}
