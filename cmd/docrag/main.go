// Package main implements the docrag CLI: serve the HTTP API, ingest parsed
// documents, and answer questions against them from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/matheus-rech/docling-rag/internal/config"
	"github.com/matheus-rech/docling-rag/internal/embeddings"
	"github.com/matheus-rech/docling-rag/internal/engine"
	"github.com/matheus-rech/docling-rag/internal/extraction"
	"github.com/matheus-rech/docling-rag/internal/generation"
	"github.com/matheus-rech/docling-rag/internal/logging"
	"github.com/matheus-rech/docling-rag/internal/parser"
)

var (
	// configPath is the optional YAML config file.
	configPath string
	// version information (set via ldflags during build)
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "docrag",
	Short: "Question answering over parsed PDF documents with visual grounding",
	Long: `docrag answers natural-language questions against parsed PDF documents.
It embeds document chunks, retrieves by cosine similarity, and grounds each
answer in a pixel region of the source page.

Documents are the JSON export of a PDF layout parser: per-page dimensions
plus text blocks with bottom-left-origin bounding boxes.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(askCmd)
}

// setup loads configuration and builds the logger shared by all commands.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, logger, nil
}

// buildEngine wires the engine from configuration: embedding provider,
// index config, and the optional extraction and generation collaborators.
func buildEngine(cfg *config.Config, logger *zap.Logger) (*engine.Engine, embeddings.Provider, error) {
	provider, err := embeddings.NewProvider(cfg.Embeddings)
	if err != nil {
		return nil, nil, fmt.Errorf("creating embedding provider: %w", err)
	}

	opts := engine.Options{Logger: logger}
	if cfg.Extraction.Enabled {
		extractor, err := extraction.NewHeuristicExtractor(cfg.Extraction.Heuristic)
		if err != nil {
			provider.Close()
			return nil, nil, fmt.Errorf("creating extractor: %w", err)
		}
		opts.Extractor = extractor
	}
	if cfg.Generation.Enabled {
		gen, err := generation.NewOllamaGenerator(cfg.Generation.Ollama)
		if err != nil {
			provider.Close()
			return nil, nil, fmt.Errorf("creating generator: %w", err)
		}
		opts.Generator = gen
	}

	eng, err := engine.New(provider, cfg.Index, opts)
	if err != nil {
		provider.Close()
		return nil, nil, err
	}
	return eng, provider, nil
}

// loadDocument reads a parsed-document JSON file.
func loadDocument(path string) (*parser.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening document %s: %w", path, err)
	}
	defer f.Close()
	return parser.LoadJSON(f)
}
