package main

import (
	"context"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matheus-rech/docling-rag/internal/engine"
	"github.com/matheus-rech/docling-rag/internal/tui"
)

var (
	askTopK     int
	askSnapshot string
)

var askCmd = &cobra.Command{
	Use:   "ask <document.json>",
	Short: "Interactive question session against a parsed document",
	Long: `Ingest a parsed document and open an interactive prompt. Each question
shows the answer, its confidence, the grounded page region, and the ranked
source chunks (navigate with up/down, quit with Esc or Ctrl+C).

Examples:
  docrag ask paper.json
  docrag ask paper.json --snapshot paper.idx`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 5, "number of chunks to retrieve per question")
	askCmd.Flags().StringVar(&askSnapshot, "snapshot", "", "index snapshot to load instead of re-embedding")
}

// docSession adapts one engine+handle pair to the TUI's Asker port.
type docSession struct {
	eng    *engine.Engine
	handle *engine.Handle
}

func (s *docSession) Ask(ctx context.Context, query string, k int) (*engine.Answer, error) {
	return s.eng.Query(ctx, s.handle, query, k)
}

func runAsk(cmd *cobra.Command, args []string) error {
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
	if askSnapshot != "" {
		handle, err = eng.Restore(ctx, doc, askSnapshot)
	} else {
		fmt.Printf("Embedding %d chunks...\n", len(doc.Blocks))
		handle, err = eng.Ingest(ctx, doc)
	}
	if err != nil {
		return err
	}

	summary := fmt.Sprintf("%s  %d chunks  %d pages",
		filepath.Base(args[0]), handle.Len(), pageCount(doc))
	model := tui.New(&docSession{eng: eng, handle: handle}, summary, askTopK)

	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running ask session: %w", err)
	}
	return nil
}
