package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matheus-rech/docling-rag/internal/engine"
	"github.com/matheus-rech/docling-rag/internal/tui"
)

var (
	queryTopK     int
	queryJSON     bool
	querySnapshot string
)

var queryCmd = &cobra.Command{
	Use:   "query <document.json> <question>",
	Short: "Answer one question against a parsed document",
	Long: `Ingest a parsed document, answer a single question, and print the
grounded answer.

Examples:
  # One-shot question
  docrag query paper.json "What was the primary outcome?"

  # Reuse a snapshot from a previous ingest
  docrag query paper.json --snapshot paper.idx "What was the sample size?"

  # Machine-readable output
  docrag query paper.json -o json "How long was follow-up?"`,
	Args: cobra.ExactArgs(2),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "k", 5, "number of chunks to retrieve")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the full answer as JSON")
	queryCmd.Flags().StringVar(&querySnapshot, "snapshot", "", "index snapshot to load instead of re-embedding")
}

func runQuery(cmd *cobra.Command, args []string) error {
	cfg, logger, err := setup()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	doc, err := loadDocument(args[0])
	if err != nil {
		return err
	}

	eng, provider, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	defer provider.Close() //nolint:errcheck

	ctx := cmd.Context()
	var handle *engine.Handle
	if querySnapshot != "" {
		handle, err = eng.Restore(ctx, doc, querySnapshot)
	} else {
		handle, err = eng.Ingest(ctx, doc)
	}
	if err != nil {
		return err
	}

	answer, err := eng.Query(ctx, handle, args[1], queryTopK)
	if err != nil {
		return err
	}

	if queryJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(answer)
	}

	fmt.Println(answer.Text)
	fmt.Printf("\nConfidence: %s (%.2f)\n", answer.Confidence.Bucket, answer.Confidence.Value)
	fmt.Printf("Source: chunk %s, %s\n", answer.Region.ChunkID, tui.FormatRegion(answer.Region))
	for name, field := range answer.Fields {
		fmt.Printf("  %s: %s (%.2f)\n", name, field.Text, field.Confidence)
	}
	return nil
}
