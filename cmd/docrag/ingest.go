package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matheus-rech/docling-rag/internal/parser"
)

var snapshotPath string

var ingestCmd = &cobra.Command{
	Use:   "ingest <document.json>",
	Short: "Embed a parsed document and save its index snapshot",
	Long: `Embed every chunk of a parsed document and write the vector index to
disk. Later queries against the same document can load the snapshot and
skip the embedding pass.

Examples:
  # Embed and snapshot
  docrag ingest paper.json --snapshot paper.idx

  # Validate a document without snapshotting
  docrag ingest paper.json`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&snapshotPath, "snapshot", "", "path to write the index snapshot")
}

func runIngest(cmd *cobra.Command, args []string) error {
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

	handle, err := eng.Ingest(cmd.Context(), doc)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", args[0], err)
	}

	fmt.Printf("Ingested %s: %d chunks across %d pages\n", args[0], handle.Len(), pageCount(doc))
	if snapshotPath != "" {
		if err := handle.SaveIndex(snapshotPath); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		fmt.Printf("Index snapshot written to %s\n", snapshotPath)
	}
	return nil
}

func pageCount(doc *parser.Document) int {
	if len(doc.Pages) > 0 {
		return len(doc.Pages)
	}
	pages := make(map[int]struct{})
	for _, b := range doc.Blocks {
		pages[b.Page] = struct{}{}
	}
	return len(pages)
}
